package routes

import (
	"github.com/gin-gonic/gin"

	paymentControllers "github.com/palrajin0126/ecom/controllers/payment"
	"github.com/palrajin0126/ecom/middleware"
)

func SetupPaymentRoutes(r *gin.Engine, deps *Deps) {
	pay := r.Group("/payment")
	{
		pay.POST("/initiate",
			middleware.ValidateToken([]byte(deps.Cfg.JWTSecret)),
			paymentControllers.InitiatePayment(deps.DB, deps.Gateway),
		)

		// The gateway authenticates itself with the X-Verify checksum, not
		// a bearer token.
		pay.POST("/callback", paymentControllers.PaymentCallback(deps.DB, deps.Gateway, deps.Publisher))
	}
}
