package notify

import (
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/palrajin0126/ecom/config"
	"github.com/palrajin0126/ecom/logger"
	"github.com/palrajin0126/ecom/models"
)

// Consumer drains the order-notification queue and drives the mailer.
// Delivery is at least once, so each order number is claimed in
// notification_logs before the mail goes out; a redelivery that finds the
// claim already present is acknowledged without sending.
type Consumer struct {
	db     *gorm.DB
	mailer *Mailer
	queue  string
}

func NewConsumer(db *gorm.DB, mailer *Mailer, cfg *config.Config) *Consumer {
	return &Consumer{db: db, mailer: mailer, queue: cfg.OrderQueue}
}

// Start consumes until the channel closes. Run it in its own goroutine.
func (c *Consumer) Start(ch *amqp.Channel) error {
	deliveries, err := ch.Consume(
		c.queue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return err
	}

	for msg := range deliveries {
		c.handle(msg)
	}
	return nil
}

func (c *Consumer) handle(msg amqp.Delivery) {
	var ev OrderConfirmation
	if err := json.Unmarshal(msg.Body, &ev); err != nil {
		logger.Log.Error("discarding malformed order notification", zap.Error(err))
		msg.Nack(false, false)
		return
	}

	claim := models.NotificationLog{OrderNumber: ev.OrderNumber, SentAt: time.Now()}
	res := c.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&claim)
	if res.Error != nil {
		logger.Log.Error("failed to claim order notification",
			zap.String("order_number", ev.OrderNumber), zap.Error(res.Error))
		msg.Nack(false, true)
		return
	}
	if res.RowsAffected == 0 {
		// Already sent on an earlier delivery.
		msg.Ack(false)
		return
	}

	if err := c.mailer.SendOrderConfirmation(ev); err != nil {
		logger.Log.Error("failed to send order confirmation",
			zap.String("order_number", ev.OrderNumber), zap.Error(err))
		// Release the claim so the redelivery can retry the send.
		c.db.Where("order_number = ?", ev.OrderNumber).Delete(&models.NotificationLog{})
		msg.Nack(false, true)
		return
	}

	logger.Log.Info("order confirmation sent",
		zap.String("order_number", ev.OrderNumber), zap.String("email", ev.Email))
	msg.Ack(false)
}
