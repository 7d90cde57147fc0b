package routes

import (
	"github.com/Jumaa-K/dukani-api/controllers"
	"github.com/Jumaa-K/dukani-api/middlewares"
	"github.com/gin-gonic/gin"
)

func WishlistRoutes(server *gin.Engine) {
	wishlist := server.Group("/wishlist", middlewares.RequireAuth())
	{
		wishlist.GET("", controllers.GetWishlist)
		wishlist.POST("", controllers.AddToWishlist)
		wishlist.DELETE("/:productId", controllers.RemoveFromWishlist)
	}
}
