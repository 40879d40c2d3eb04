package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hugohenrick/chat-atendimento/pkg/logger"
)

// responseTTL é o tempo de vida fixo de uma resposta cacheada
const responseTTL = time.Hour

// RedisCache implementa ResponseCache sobre Redis
type RedisCache struct {
	client *redis.Client
	logger logger.Logger
}

// NewRedisCache cria um cache de respostas conectado ao Redis
func NewRedisCache(ctx context.Context, redisURL string, log logger.Logger) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisCache{
		client: client,
		logger: log,
	}, nil
}

// Get busca uma resposta cacheada; qualquer falha de conectividade vira miss
func (c *RedisCache) Get(ctx context.Context, key string) (string, bool) {
	value, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("falha ao ler cache de respostas", "error", err)
		}
		return "", false
	}
	return value, true
}

// Set grava a resposta com TTL fixo; falhas são registradas e descartadas
func (c *RedisCache) Set(ctx context.Context, key, value string) {
	if err := c.client.Set(ctx, key, value, responseTTL).Err(); err != nil {
		c.logger.Warn("falha ao gravar cache de respostas", "error", err)
	}
}

// Close encerra a conexão com o Redis
func (c *RedisCache) Close() error {
	return c.client.Close()
}
