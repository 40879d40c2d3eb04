package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hugohenrick/chat-atendimento/internal/domain/conversation"
	"github.com/hugohenrick/chat-atendimento/pkg/logger"
)

const (
	openaiEndpoint = "https://api.openai.com/v1/chat/completions"
	openaiModel    = "gpt-4o-mini"
)

// chatMessage é uma mensagem no formato chat/completions (OpenAI e Groq)
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float32       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// OpenAIClient gera respostas pela API de chat completions da OpenAI
type OpenAIClient struct {
	apiKey   string
	endpoint string
	client   *http.Client
	logger   logger.Logger
}

// NewOpenAIClient cria o cliente OpenAI validando a credencial
func NewOpenAIClient(apiKey string, log logger.Logger) (*OpenAIClient, error) {
	if apiKey == "" || !strings.HasPrefix(apiKey, "sk-") {
		return nil, &ConfigError{
			Provider: "openai",
			Variable: "OPENAI_API_KEY",
			Hint:     "https://platform.openai.com/api-keys",
		}
	}

	return &OpenAIClient{
		apiKey:   apiKey,
		endpoint: openaiEndpoint,
		client:   &http.Client{Timeout: requestTimeout},
		logger:   log,
	}, nil
}

// Name retorna o identificador do provedor
func (c *OpenAIClient) Name() string {
	return "openai"
}

// GenerateReply gera a resposta via OpenAI
func (c *OpenAIClient) GenerateReply(ctx context.Context, userMessage string, history []conversation.Message) (string, error) {
	return completeChat(ctx, c.client, c.logger, c.Name(), c.endpoint, c.apiKey, openaiModel, userMessage, history)
}

// buildChatMessages monta o prompt no vocabulário chat/completions:
// instrução de sistema, histórico recente e a mensagem atual do usuário
func buildChatMessages(userMessage string, history []conversation.Message) []chatMessage {
	messages := []chatMessage{{Role: "system", Content: systemPrompt}}

	for _, msg := range trimHistory(history) {
		role := "user"
		if msg.Sender == conversation.SenderAI {
			role = "assistant"
		}
		messages = append(messages, chatMessage{Role: role, Content: msg.Text})
	}

	return append(messages, chatMessage{Role: "user", Content: userMessage})
}

// completeChat executa uma chamada chat/completions e normaliza as falhas.
// OpenAI e Groq compartilham este formato de requisição; endpoint, modelo e
// semântica de credencial ficam em cada cliente.
func completeChat(ctx context.Context, client *http.Client, log logger.Logger, providerName, endpoint, apiKey, model, userMessage string, history []conversation.Message) (string, error) {
	reqBody := chatRequest{
		Model:       model,
		Messages:    buildChatMessages(userMessage, history),
		MaxTokens:   maxOutputTokens,
		Temperature: temperature,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("erro ao serializar requisição para %s: %w", providerName, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("erro ao criar requisição para %s: %w", providerName, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	log.Debug("enviando requisição ao provedor", "provider", providerName, "model", model, "numMessages", len(reqBody.Messages))

	resp, err := client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", newTimeoutError(providerName, err)
		}
		return "", &ProviderError{
			Provider: providerName,
			Kind:     KindUnavailable,
			Message:  fmt.Sprintf("%s: falha de comunicação com o serviço", providerName),
			Err:      err,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("erro ao ler resposta de %s: %w", providerName, err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Error("provedor retornou erro", "provider", providerName, "status", resp.StatusCode, "body", truncate(string(body), 400))
		return "", normalizeHTTPError(providerName, resp.StatusCode, string(body))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("erro ao interpretar resposta de %s: %w", providerName, err)
	}

	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return "", newEmptyResponseError(providerName)
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
