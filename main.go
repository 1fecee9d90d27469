package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/palrajin0126/ecom/catalog"
	"github.com/palrajin0126/ecom/config"
	"github.com/palrajin0126/ecom/logger"
	"github.com/palrajin0126/ecom/middleware"
	"github.com/palrajin0126/ecom/models"
	"github.com/palrajin0126/ecom/notify"
	"github.com/palrajin0126/ecom/payment"
	"github.com/palrajin0126/ecom/routes"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger.Initialize(cfg.Env)
	defer logger.Log.Sync()

	db := initDatabase(cfg)
	if err := db.AutoMigrate(
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.PaymentAttempt{},
		&models.NotificationLog{},
	); err != nil {
		logger.Log.Fatal("auto-migrate failed", zap.Error(err))
	}

	mongoDB := initMongo(cfg)
	store := catalog.NewStore(mongoDB)

	mailer := notify.NewMailer(cfg)

	publisher, err := notify.NewPublisher(cfg)
	if err != nil {
		logger.Log.Fatal("rabbitmq initialization failed", zap.Error(err))
	}
	defer publisher.Close()

	consumer := notify.NewConsumer(db, mailer, cfg)
	go func() {
		if err := consumer.Start(publisher.Channel()); err != nil {
			logger.Log.Error("order notification consumer stopped", zap.Error(err))
		}
	}()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())
	r.Use(middleware.PrometheusMiddleware())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY", "X-Verify"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.SetupRoutes(r, &routes.Deps{
		DB:        db,
		Catalog:   store,
		Gateway:   payment.NewClient(cfg),
		Publisher: publisher,
		Mailer:    mailer,
		Cfg:       cfg,
	})

	logger.Log.Info("server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Log.Fatal("failed to start server", zap.Error(err))
	}
}

// initDatabase opens the relational store that holds carts and orders.
func initDatabase(cfg *config.Config) *gorm.DB {
	dsn := cfg.DatabaseURL
	if dsn == "" {
		dsn = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
		)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Log.Fatal("database connection failed", zap.Error(err))
	}
	return db
}

// initMongo connects to the document store that holds the product catalog
// and user profiles.
func initMongo(cfg *config.Config) *mongo.Database {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Log.Fatal("mongo connection failed", zap.Error(err))
	}
	if err := client.Ping(ctx, nil); err != nil {
		logger.Log.Fatal("mongo ping failed", zap.Error(err))
	}
	return client.Database(cfg.MongoDB)
}
