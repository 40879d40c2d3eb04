package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// ResponseCache é a interface para o cache de respostas de primeiro turno.
// O cache é uma otimização: Get degrada para miss em qualquer falha e Set
// nunca propaga erro.
type ResponseCache interface {
	// Get busca uma resposta cacheada; o segundo retorno indica hit
	Get(ctx context.Context, key string) (string, bool)

	// Set grava uma resposta no cache em melhor esforço
	Set(ctx context.Context, key, value string)
}

// Key deriva a chave de cache a partir do texto bruto da mensagem:
// minúsculas + trim normalizam variações de caixa e espaçamento, e o hash
// mantém a chave com tamanho fixo e sem conteúdo do usuário no Redis.
func Key(rawMessage string) string {
	normalized := strings.ToLower(strings.TrimSpace(rawMessage))
	sum := sha256.Sum256([]byte(normalized))
	return "chat:first:" + hex.EncodeToString(sum[:])
}

// NoopCache é o cache usado quando REDIS_URL não está configurada
type NoopCache struct{}

// NewNoopCache cria um cache desabilitado
func NewNoopCache() *NoopCache {
	return &NoopCache{}
}

// Get sempre retorna miss
func (c *NoopCache) Get(ctx context.Context, key string) (string, bool) {
	return "", false
}

// Set descarta o valor
func (c *NoopCache) Set(ctx context.Context, key, value string) {}
