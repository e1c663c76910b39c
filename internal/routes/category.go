package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/mission365/classified-marketplace/internal/handlers"
)

func RegisterCategoryRoutes(r gin.IRouter) {
	categories := r.Group("/categories")
	{
		categories.GET("", handlers.ListCategories)
		categories.GET("/:id", handlers.GetCategory)
	}
}
