package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/chat-atendimento/internal/adapter/api/controller"
)

// RegisterChatRoutes registra as rotas do módulo de chat
func RegisterChatRoutes(r *gin.RouterGroup, chatController *controller.ChatController) {
	r.GET("/health", chatController.Health)

	chat := r.Group("/chat")
	{
		chat.POST("/message", chatController.PostMessage)
		chat.GET("/history/:sessionId", chatController.GetHistory)
	}
}
