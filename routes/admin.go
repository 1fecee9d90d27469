package routes

import (
	"github.com/gin-gonic/gin"

	orderControllers "github.com/palrajin0126/ecom/controllers/order"
	"github.com/palrajin0126/ecom/middleware"
)

// SetupAdminRoutes registers the back-office endpoints: the live order
// feed and the spreadsheet export.
func SetupAdminRoutes(r *gin.Engine, deps *Deps) {
	admin := r.Group("/orders")
	admin.Use(middleware.ValidateAPIKey(deps.Cfg.AdminAPIKey))
	{
		admin.GET("/ws", orderControllers.OrderWebSocketHandler)
		admin.GET("/export", orderControllers.ExportOrdersToExcel(deps.DB))
	}
}
