package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/mission365/classified-marketplace/internal/handlers"
	"github.com/mission365/classified-marketplace/internal/middleware"
)

func RegisterMessageRoutes(r gin.IRouter) {
	messages := r.Group("/messages")
	messages.Use(middleware.AuthMiddleware())
	{
		messages.GET("", handlers.ListConversations)
		messages.GET("/unread-count", handlers.UnreadCount)
		messages.GET("/conversation/:userId", handlers.GetConversation)
		messages.POST("", middleware.MessageRateLimit(), handlers.SendMessage)
		messages.PUT("/:id/read", handlers.MarkMessageRead)
	}
}
