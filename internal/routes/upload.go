package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/mission365/classified-marketplace/internal/handlers"
	"github.com/mission365/classified-marketplace/internal/middleware"
)

func RegisterUploadRoutes(r gin.IRouter) {
	uploads := r.Group("/uploads")
	uploads.Use(middleware.AuthMiddleware())
	{
		uploads.POST("/product-image", handlers.UploadProductImage)
	}
}
