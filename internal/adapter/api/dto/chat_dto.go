package dto

import (
	"time"

	"github.com/hugohenrick/chat-atendimento/internal/domain/conversation"
)

// ChatMessageRequest é o corpo de POST /api/chat/message
type ChatMessageRequest struct {
	Message   string `json:"message" binding:"required"`
	SessionID string `json:"sessionId"`
}

// ChatMessageResponse é a resposta com o texto gerado e a sessão usada
type ChatMessageResponse struct {
	Reply     string `json:"reply"`
	SessionID string `json:"sessionId"`
}

// MessageResponse representa uma mensagem do histórico
type MessageResponse struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	Sender         string    `json:"sender"`
	Text           string    `json:"text"`
	Timestamp      time.Time `json:"timestamp"`
}

// HistoryResponse é a resposta de GET /api/chat/history/:sessionId
type HistoryResponse struct {
	Messages []MessageResponse `json:"messages"`
}

// HealthResponse é a resposta de GET /api/health
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// ToHistoryResponse converte as mensagens do domínio para a resposta da API
func ToHistoryResponse(messages []conversation.Message) HistoryResponse {
	out := make([]MessageResponse, 0, len(messages))
	for _, msg := range messages {
		out = append(out, MessageResponse{
			ID:             msg.ID,
			ConversationID: msg.ConversationID,
			Sender:         string(msg.Sender),
			Text:           msg.Text,
			Timestamp:      msg.Timestamp,
		})
	}
	return HistoryResponse{Messages: out}
}
