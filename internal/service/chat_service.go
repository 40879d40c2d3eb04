package service

import (
	"context"

	"github.com/hugohenrick/chat-atendimento/internal/domain/conversation"
	"github.com/hugohenrick/chat-atendimento/pkg/cache"
	"github.com/hugohenrick/chat-atendimento/pkg/logger"
	"github.com/hugohenrick/chat-atendimento/pkg/provider"
)

// ChatService orquestra um turno de conversa: persistência, cache de
// primeiro turno e chamada ao provedor de geração
type ChatService struct {
	repo     conversation.Repository
	cache    cache.ResponseCache
	provider provider.Provider
	logger   logger.Logger
}

// NewChatService cria uma nova instância de ChatService
func NewChatService(repo conversation.Repository, responseCache cache.ResponseCache, llm provider.Provider, log logger.Logger) *ChatService {
	return &ChatService{
		repo:     repo,
		cache:    responseCache,
		provider: llm,
		logger:   log,
	}
}

// HandleTurn processa a mensagem do usuário e retorna a resposta gerada.
// A mensagem do usuário é persistida antes da geração; se o provedor
// falhar, ela permanece gravada e o erro é propagado sem resposta.
func (s *ChatService) HandleTurn(ctx context.Context, conversationID, userMessage string) (string, error) {
	if _, err := s.repo.AppendMessage(ctx, conversationID, conversation.SenderUser, userMessage); err != nil {
		return "", err
	}

	history, err := s.repo.ListMessages(ctx, conversationID)
	if err != nil {
		return "", err
	}

	// Só o primeiro turno é elegível ao cache: turnos seguintes dependem
	// do contexto da conversa e não podem ser reaproveitados entre sessões
	firstTurn := len(history) == 1
	cacheKey := cache.Key(userMessage)

	if firstTurn {
		if reply, ok := s.cache.Get(ctx, cacheKey); ok {
			s.logger.Debug("resposta servida do cache", "conversationId", conversationID)

			if _, err := s.repo.AppendMessage(ctx, conversationID, conversation.SenderAI, reply); err != nil {
				return "", err
			}
			return reply, nil
		}
	}

	// O provedor recebe apenas os turnos anteriores; a mensagem atual vai
	// em separado para não aparecer duplicada no prompt
	reply, err := s.provider.GenerateReply(ctx, userMessage, history[:len(history)-1])
	if err != nil {
		return "", err
	}

	if _, err := s.repo.AppendMessage(ctx, conversationID, conversation.SenderAI, reply); err != nil {
		return "", err
	}

	if firstTurn {
		s.cache.Set(ctx, cacheKey, reply)
	}

	return reply, nil
}
