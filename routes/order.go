package routes

import (
	"github.com/gin-gonic/gin"

	orderControllers "github.com/palrajin0126/ecom/controllers/order"
	"github.com/palrajin0126/ecom/middleware"
)

func SetupOrderRoutes(r *gin.Engine, deps *Deps) {
	auth := middleware.ValidateToken([]byte(deps.Cfg.JWTSecret))

	order := r.Group("/order")
	order.Use(auth)
	{
		order.POST("/create", orderControllers.CreateOrder(deps.DB, deps.Publisher))
		order.GET("", orderControllers.GetUserOrders(deps.DB))
	}
}
