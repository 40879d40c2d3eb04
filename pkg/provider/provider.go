package provider

import (
	"context"
	"errors"
	"net"
	"os"
	"time"

	"github.com/hugohenrick/chat-atendimento/internal/domain/conversation"
	"github.com/hugohenrick/chat-atendimento/pkg/logger"
)

const (
	// historyLimit limita quantas mensagens do histórico entram no prompt
	historyLimit = 10

	// maxOutputTokens limita o tamanho da resposta gerada
	maxOutputTokens = 200

	// temperature é a temperatura fixa de amostragem
	temperature = 0.7

	// requestTimeout é o tempo limite do cliente HTTP de cada provedor
	requestTimeout = 30 * time.Second
)

// Provider é a interface comum aos backends de geração de respostas
type Provider interface {
	// Name retorna o identificador do provedor (openai, groq, gemini)
	Name() string

	// GenerateReply gera a resposta para a mensagem do usuário, considerando
	// o histórico anterior da conversa (ordem cronológica crescente)
	GenerateReply(ctx context.Context, userMessage string, history []conversation.Message) (string, error)
}

// New resolve o provedor configurado em LLM_PROVIDER (openai por padrão)
// e valida a credencial correspondente uma única vez, na inicialização
func New(log logger.Logger) (Provider, error) {
	name := os.Getenv("LLM_PROVIDER")
	if name == "" {
		name = "openai"
	}

	switch name {
	case "openai":
		return NewOpenAIClient(os.Getenv("OPENAI_API_KEY"), log)
	case "groq":
		return NewGroqClient(os.Getenv("GROQ_API_KEY"), log)
	case "gemini":
		return NewGeminiClient(os.Getenv("GEMINI_API_KEY"), log)
	default:
		return nil, &ConfigError{
			Provider: name,
			Variable: "LLM_PROVIDER",
			Hint:     "valores aceitos: openai, groq, gemini",
		}
	}
}

// trimHistory mantém apenas as mensagens mais recentes, preservando a
// ordem cronológica crescente
func trimHistory(history []conversation.Message) []conversation.Message {
	if len(history) <= historyLimit {
		return history
	}
	return history[len(history)-historyLimit:]
}

// isTimeout verifica se a falha de transporte foi um estouro de tempo
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
