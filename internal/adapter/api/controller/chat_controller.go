package controller

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/chat-atendimento/internal/adapter/api/dto"
	"github.com/hugohenrick/chat-atendimento/internal/domain/conversation"
	"github.com/hugohenrick/chat-atendimento/internal/service"
	"github.com/hugohenrick/chat-atendimento/pkg/logger"
	"github.com/hugohenrick/chat-atendimento/pkg/provider"
)

// ChatController gerencia as requisições do chat de atendimento
type ChatController struct {
	chatService *service.ChatService
	repo        conversation.Repository
	logger      logger.Logger
}

// NewChatController cria uma nova instância de ChatController
func NewChatController(chatService *service.ChatService, repo conversation.Repository, logger logger.Logger) *ChatController {
	return &ChatController{
		chatService: chatService,
		repo:        repo,
		logger:      logger,
	}
}

// PostMessage processa uma mensagem do cliente
// @Summary Enviar mensagem
// @Description Envia uma mensagem ao atendimento e retorna a resposta gerada
// @Tags chat
// @Accept json
// @Produce json
// @Param message body dto.ChatMessageRequest true "Mensagem e sessão opcional"
// @Success 200 {object} dto.ChatMessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /chat/message [post]
func (c *ChatController) PostMessage(ctx *gin.Context) {
	var req dto.ChatMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	text := strings.TrimSpace(req.Message)
	if err := conversation.ValidateText(text); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "mensagem inválida", err.Error()))
		return
	}

	conv, err := c.resolveConversation(ctx, req.SessionID)
	if err != nil {
		c.logger.Error("erro ao resolver conversa", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao iniciar conversa", ""))
		return
	}

	reply, err := c.chatService.HandleTurn(ctx.Request.Context(), conv.ID, text)
	if err != nil {
		c.respondTurnError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ChatMessageResponse{
		Reply:     reply,
		SessionID: conv.ID,
	})
}

// GetHistory retorna o histórico de uma conversa
// @Summary Histórico da conversa
// @Description Retorna as mensagens de uma conversa em ordem cronológica
// @Tags chat
// @Produce json
// @Param sessionId path string true "ID da sessão"
// @Success 200 {object} dto.HistoryResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /chat/history/{sessionId} [get]
func (c *ChatController) GetHistory(ctx *gin.Context) {
	sessionID := ctx.Param("sessionId")

	conv, err := c.repo.FindByID(ctx.Request.Context(), sessionID)
	if err != nil {
		c.logger.Error("erro ao buscar conversa", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao buscar histórico", ""))
		return
	}
	if conv == nil {
		ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "conversa não encontrada", ""))
		return
	}

	messages, err := c.repo.ListMessages(ctx.Request.Context(), conv.ID)
	if err != nil {
		c.logger.Error("erro ao listar mensagens", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao buscar histórico", ""))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToHistoryResponse(messages))
}

// Health responde a verificação de liveness, sem checar dependências
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (c *ChatController) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// resolveConversation reaproveita a conversa informada ou cria uma nova.
// Sessão desconhecida é tratada como ausente: o widget pode ter perdido o
// armazenamento local, e o atendimento recomeça em silêncio.
func (c *ChatController) resolveConversation(ctx *gin.Context, sessionID string) (*conversation.Conversation, error) {
	if sessionID != "" {
		conv, err := c.repo.FindByID(ctx.Request.Context(), sessionID)
		if err != nil {
			return nil, err
		}
		if conv != nil {
			return conv, nil
		}
	}

	return c.repo.Create(ctx.Request.Context())
}

// respondTurnError mapeia as falhas do turno para a resposta HTTP
func (c *ChatController) respondTurnError(ctx *gin.Context, err error) {
	var provErr *provider.ProviderError
	if errors.As(err, &provErr) {
		c.logger.Error("provedor falhou ao gerar resposta", "provider", provErr.Provider, "kind", provErr.Kind, "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, provErr.Message, ""))
		return
	}

	var cfgErr *provider.ConfigError
	if errors.As(err, &cfgErr) {
		c.logger.Error("provedor mal configurado", "provider", cfgErr.Provider, "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, cfgErr.Error(), ""))
		return
	}

	c.logger.Error("erro ao processar turno", "error", err)
	ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao processar mensagem", ""))
}
