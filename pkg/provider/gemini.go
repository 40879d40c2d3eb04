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
	geminiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent"
)

// geminiPart é um fragmento de texto no formato generateContent
type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float32 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent         `json:"system_instruction,omitempty"`
	Contents          []geminiContent        `json:"contents"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GeminiClient gera respostas pela API generateContent do Google Gemini.
// O formato de requisição é próprio: instrução de sistema separada,
// histórico em contents com papéis user/model.
type GeminiClient struct {
	apiKey   string
	endpoint string
	client   *http.Client
	logger   logger.Logger
}

// NewGeminiClient cria o cliente Gemini validando a credencial
func NewGeminiClient(apiKey string, log logger.Logger) (*GeminiClient, error) {
	if apiKey == "" || !strings.HasPrefix(apiKey, "AIza") {
		return nil, &ConfigError{
			Provider: "gemini",
			Variable: "GEMINI_API_KEY",
			Hint:     "https://aistudio.google.com/app/apikey",
		}
	}

	return &GeminiClient{
		apiKey:   apiKey,
		endpoint: geminiEndpoint,
		client:   &http.Client{Timeout: requestTimeout},
		logger:   log,
	}, nil
}

// Name retorna o identificador do provedor
func (c *GeminiClient) Name() string {
	return "gemini"
}

// GenerateReply gera a resposta via Gemini
func (c *GeminiClient) GenerateReply(ctx context.Context, userMessage string, history []conversation.Message) (string, error) {
	contents := []geminiContent{}
	for _, msg := range trimHistory(history) {
		role := "user"
		if msg.Sender == conversation.SenderAI {
			role = "model"
		}
		contents = append(contents, geminiContent{
			Role:  role,
			Parts: []geminiPart{{Text: msg.Text}},
		})
	}
	contents = append(contents, geminiContent{
		Role:  "user",
		Parts: []geminiPart{{Text: userMessage}},
	})

	reqBody := geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: systemPrompt}}},
		Contents:          contents,
		GenerationConfig: geminiGenerationConfig{
			Temperature:     temperature,
			MaxOutputTokens: maxOutputTokens,
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("erro ao serializar requisição para gemini: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("erro ao criar requisição para gemini: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	c.logger.Debug("enviando requisição ao provedor", "provider", c.Name(), "numContents", len(contents))

	resp, err := c.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", newTimeoutError(c.Name(), err)
		}
		return "", &ProviderError{
			Provider: c.Name(),
			Kind:     KindUnavailable,
			Message:  "gemini: falha de comunicação com o serviço",
			Err:      err,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("erro ao ler resposta de gemini: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("provedor retornou erro", "provider", c.Name(), "status", resp.StatusCode, "body", truncate(string(body), 400))
		return "", normalizeHTTPError(c.Name(), resp.StatusCode, string(body))
	}

	var parsed geminiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("erro ao interpretar resposta de gemini: %w", err)
	}

	reply := ""
	if len(parsed.Candidates) > 0 {
		for _, part := range parsed.Candidates[0].Content.Parts {
			reply += part.Text
		}
	}
	reply = strings.TrimSpace(reply)

	if reply == "" {
		return "", newEmptyResponseError(c.Name())
	}

	return reply, nil
}
