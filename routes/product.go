package routes

import (
	"github.com/gin-gonic/gin"

	contactControllers "github.com/palrajin0126/ecom/controllers/contact"
	productControllers "github.com/palrajin0126/ecom/controllers/product"
)

func SetupProductRoutes(r *gin.Engine, deps *Deps) {
	products := r.Group("/products")
	{
		products.GET("", productControllers.GetProducts(deps.Catalog))
		products.GET("/:id", productControllers.GetProductByID(deps.Catalog))
		products.POST("/search", productControllers.SearchProducts(deps.Catalog))
	}

	r.POST("/contact", contactControllers.SendContactMessage(deps.Mailer))
}
