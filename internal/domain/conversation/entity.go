package conversation

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

var (
	ErrEmptyMessage         = errors.New("mensagem não pode ser vazia")
	ErrMessageTooLong       = errors.New("mensagem excede o limite de 5000 caracteres")
	ErrInvalidSender        = errors.New("remetente inválido")
	ErrConversationNotFound = errors.New("conversa não encontrada")
)

// MaxMessageLength é o tamanho máximo do texto de uma mensagem após o trim
const MaxMessageLength = 5000

// Sender identifica quem enviou a mensagem
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// Conversation representa uma conversa de atendimento
type Conversation struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message representa uma mensagem dentro de uma conversa
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	Sender         Sender    `json:"sender"`
	Text           string    `json:"text"`
	Timestamp      time.Time `json:"timestamp"`
}

// NewConversation cria uma nova conversa com identificador próprio
func NewConversation() *Conversation {
	now := time.Now().UTC()
	return &Conversation{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewMessage cria uma nova mensagem validando remetente e texto
func NewMessage(conversationID string, sender Sender, text string) (*Message, error) {
	if sender != SenderUser && sender != SenderAI {
		return nil, ErrInvalidSender
	}

	if err := ValidateText(text); err != nil {
		return nil, err
	}

	return &Message{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		Sender:         sender,
		Text:           strings.TrimSpace(text),
		Timestamp:      time.Now().UTC(),
	}, nil
}

// ValidateText verifica os limites de tamanho do texto de uma mensagem
func ValidateText(text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ErrEmptyMessage
	}
	if utf8.RuneCountInString(trimmed) > MaxMessageLength {
		return ErrMessageTooLong
	}
	return nil
}
