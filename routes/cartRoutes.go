package routes

import (
	"github.com/Jumaa-K/dukani-api/controllers"
	"github.com/Jumaa-K/dukani-api/middlewares"
	"github.com/gin-gonic/gin"
)

func CartRoutes(server *gin.Engine) {
	cart := server.Group("/cart", middlewares.RequireAuth())
	{
		cart.GET("", controllers.GetCart)
		cart.POST("/items", controllers.AddCartItem)
		cart.PUT("/items/:productId", controllers.UpdateCartItem)
		cart.DELETE("/items/:productId", controllers.RemoveCartItem)
		cart.DELETE("/items", controllers.ClearCart)
	}
}
