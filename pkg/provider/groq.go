package provider

import (
	"context"
	"net/http"
	"strings"

	"github.com/hugohenrick/chat-atendimento/internal/domain/conversation"
	"github.com/hugohenrick/chat-atendimento/pkg/logger"
)

const (
	groqEndpoint = "https://api.groq.com/openai/v1/chat/completions"
	groqModel    = "llama-3.1-8b-instant"
)

// GroqClient gera respostas pela API da Groq (compatível com chat/completions)
type GroqClient struct {
	apiKey   string
	endpoint string
	client   *http.Client
	logger   logger.Logger
}

// NewGroqClient cria o cliente Groq validando a credencial
func NewGroqClient(apiKey string, log logger.Logger) (*GroqClient, error) {
	if apiKey == "" || !strings.HasPrefix(apiKey, "gsk_") {
		return nil, &ConfigError{
			Provider: "groq",
			Variable: "GROQ_API_KEY",
			Hint:     "https://console.groq.com/keys",
		}
	}

	return &GroqClient{
		apiKey:   apiKey,
		endpoint: groqEndpoint,
		client:   &http.Client{Timeout: requestTimeout},
		logger:   log,
	}, nil
}

// Name retorna o identificador do provedor
func (c *GroqClient) Name() string {
	return "groq"
}

// GenerateReply gera a resposta via Groq
func (c *GroqClient) GenerateReply(ctx context.Context, userMessage string, history []conversation.Message) (string, error) {
	return completeChat(ctx, c.client, c.logger, c.Name(), c.endpoint, c.apiKey, groqModel, userMessage, history)
}
