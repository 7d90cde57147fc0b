package routes

import (
	"github.com/Jumaa-K/dukani-api/controllers"
	"github.com/Jumaa-K/dukani-api/middlewares"
	"github.com/gin-gonic/gin"
)

func ProductRoutes(server *gin.Engine) {
	server.GET("/products", controllers.GetProducts)
	server.GET("/products/:id", controllers.GetProduct)

	admin := server.Group("/products", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		admin.POST("", controllers.CreateProduct)
		admin.POST("/:id/images", controllers.UploadProductImages)
	}
}
