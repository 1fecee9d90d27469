package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/palrajin0126/ecom/catalog"
	"github.com/palrajin0126/ecom/config"
	"github.com/palrajin0126/ecom/notify"
	"github.com/palrajin0126/ecom/payment"
)

// Deps bundles the handles every route group draws from. Constructed once
// in main and passed down; handlers never reach for globals.
type Deps struct {
	DB        *gorm.DB
	Catalog   *catalog.Store
	Gateway   *payment.Client
	Publisher notify.OrderPublisher
	Mailer    *notify.Mailer
	Cfg       *config.Config
}

// SetupRoutes is the single entry point that wires up all route groups.
func SetupRoutes(r *gin.Engine, deps *Deps) {
	// Public catalog browsing and contact form.
	SetupProductRoutes(r, deps)

	// JWT-protected cart, order and profile endpoints.
	SetupCartRoutes(r, deps)
	SetupOrderRoutes(r, deps)

	// Payment initiation (JWT) and the gateway callback (signature-checked).
	SetupPaymentRoutes(r, deps)

	// API-key-protected admin surface.
	SetupAdminRoutes(r, deps)
}
