package conversation

import (
	"context"
)

// Repository define a interface para operações de repositório de conversas
type Repository interface {
	// Create cria uma nova conversa com identificador gerado
	Create(ctx context.Context) (*Conversation, error)

	// FindByID busca uma conversa pelo ID; retorna (nil, nil) quando não existe
	FindByID(ctx context.Context, id string) (*Conversation, error)

	// AppendMessage insere uma mensagem e avança o updated_at da conversa
	// na mesma transação; retorna ErrConversationNotFound para conversa inexistente
	AppendMessage(ctx context.Context, conversationID string, sender Sender, text string) (*Message, error)

	// ListMessages lista as mensagens de uma conversa em ordem cronológica crescente
	ListMessages(ctx context.Context, conversationID string) ([]Message, error)
}
