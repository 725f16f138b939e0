package routes

import (
	"log"

	"aquabot-ai/internal/apis/middlewares"
	"aquabot-ai/internal/di"

	"github.com/gin-gonic/gin"
)

func SetupChatRoutes(router *gin.Engine) {
	chatHandler, err := di.GetChatHandler()
	if err != nil {
		log.Fatalf("Failed to get chat handler: %v", err)
	}

	chat := router.Group("/api/chat")
	chat.Use(middlewares.AuthMiddleware())
	{
		chat.POST("/message", chatHandler.SendMessage)
		chat.GET("/providers", chatHandler.ListProviders)
		chat.GET("/sessions", chatHandler.ListSessions)
		chat.GET("/sessions/:sessionId/messages", chatHandler.ListMessages)
	}
}
