package routes

import (
	"github.com/Jumaa-K/dukani-api/controllers"
	"github.com/Jumaa-K/dukani-api/middlewares"
	"github.com/gin-gonic/gin"
)

func ReviewRoutes(server *gin.Engine) {
	server.GET("/reviews/product/:productId", controllers.GetProductReviews)

	reviews := server.Group("/reviews", middlewares.RequireAuth())
	{
		reviews.POST("", controllers.CreateReview)
		reviews.PUT("/:id/helpful", controllers.MarkReviewHelpful)
		reviews.DELETE("/:id", controllers.DeleteReview)
	}
}
