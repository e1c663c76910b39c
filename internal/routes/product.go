package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/mission365/classified-marketplace/internal/handlers"
	"github.com/mission365/classified-marketplace/internal/middleware"
)

func RegisterProductRoutes(r gin.IRouter) {
	products := r.Group("/products")
	{
		products.GET("", handlers.ListProducts)
		products.GET("/featured", handlers.FeaturedProducts)
		products.GET("/:id", handlers.GetProduct)

		protected := products.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.POST("", handlers.CreateProduct)
			protected.PUT("/:id", handlers.UpdateProduct)
			protected.DELETE("/:id", handlers.DeleteProduct)
		}
	}

	r.GET("/my-products", middleware.AuthMiddleware(), handlers.MyProducts)
}
