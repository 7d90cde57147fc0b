package routes

import (
	"github.com/Jumaa-K/dukani-api/controllers"
	"github.com/Jumaa-K/dukani-api/middlewares"
	"github.com/gin-gonic/gin"
)

func OrderRoutes(server *gin.Engine) {
	orders := server.Group("/orders", middlewares.RequireAuth())
	{
		orders.GET("", controllers.GetOrders)
		orders.POST("", controllers.CreateOrder)
		orders.POST("/buy-now", controllers.BuyNow)
		orders.GET("/:id", controllers.GetOrderById)
		orders.PUT("/:id/pay", controllers.MarkOrderPaid)
		orders.GET("/admin/all", middlewares.RequireAdmin(), controllers.GetAllOrders)
	}
}
