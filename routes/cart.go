package routes

import (
	"github.com/gin-gonic/gin"

	cartControllers "github.com/palrajin0126/ecom/controllers/cart"
	userControllers "github.com/palrajin0126/ecom/controllers/user"
	"github.com/palrajin0126/ecom/middleware"
)

// SetupCartRoutes registers the cart and profile endpoints. All of them
// resolve the user from the bearer token, never from the request body.
func SetupCartRoutes(r *gin.Engine, deps *Deps) {
	auth := middleware.ValidateToken([]byte(deps.Cfg.JWTSecret))

	cart := r.Group("/cart")
	cart.Use(auth)
	{
		cart.GET("", cartControllers.GetCart(deps.DB))
		cart.POST("", cartControllers.AddItem(deps.DB, deps.Catalog))
		cart.PUT("", cartControllers.UpdateItem(deps.DB))
		cart.DELETE("", cartControllers.RemoveItem(deps.DB))
	}

	r.GET("/user", auth, userControllers.GetUser(deps.Catalog))
}
