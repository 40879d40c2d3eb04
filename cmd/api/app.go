package main

import (
	"context"
	"database/sql"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/chat-atendimento/internal/adapter/api/controller"
	"github.com/hugohenrick/chat-atendimento/internal/adapter/api/route"
	"github.com/hugohenrick/chat-atendimento/internal/adapter/repository"
	"github.com/hugohenrick/chat-atendimento/internal/infrastructure/database"
	"github.com/hugohenrick/chat-atendimento/internal/service"
	"github.com/hugohenrick/chat-atendimento/pkg/cache"
	"github.com/hugohenrick/chat-atendimento/pkg/logger"
	"github.com/hugohenrick/chat-atendimento/pkg/provider"
)

// App representa a aplicação e suas dependências
type App struct {
	router         *gin.Engine
	db             *sql.DB
	responseCache  cache.ResponseCache
	chatController *controller.ChatController
	logger         logger.Logger
}

// NewApp cria uma nova instância do aplicativo
func NewApp() (*App, error) {
	log := logger.NewLogger()

	// Configurar banco de dados
	dbConfig := database.NewSQLiteConfigFromEnv()
	db, err := database.NewSQLiteDB(dbConfig)
	if err != nil {
		return nil, err
	}
	log.Info("banco de dados pronto", "path", dbConfig.Path)

	// Criar repositório
	conversationRepo := repository.NewConversationRepository(db)

	// Configurar cache de respostas; sem REDIS_URL o cache fica desabilitado
	var responseCache cache.ResponseCache = cache.NewNoopCache()
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisCache, err := cache.NewRedisCache(ctx, redisURL, log)
		cancel()
		if err != nil {
			// Cache é otimização: seguir sem ele em vez de impedir o start
			log.Warn("redis indisponível, cache de respostas desabilitado", "error", err)
		} else {
			responseCache = redisCache
			log.Info("cache de respostas habilitado")
		}
	}

	// Resolver o provedor de geração; credencial inválida falha aqui,
	// antes de aceitar requisições
	llm, err := provider.New(log)
	if err != nil {
		db.Close()
		return nil, err
	}
	log.Info("provedor de geração configurado", "provider", llm.Name())

	// Criar serviço e controller
	chatService := service.NewChatService(conversationRepo, responseCache, llm, log)
	chatController := controller.NewChatController(chatService, conversationRepo, log)

	// Configurar router
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		MaxAge:           12 * time.Hour,
		AllowCredentials: false,
	}))

	app := &App{
		router:         router,
		db:             db,
		responseCache:  responseCache,
		chatController: chatController,
		logger:         log,
	}

	app.setupRoutes()

	return app, nil
}

// setupRoutes configura as rotas da aplicação
func (a *App) setupRoutes() {
	api := a.router.Group("/api")
	route.RegisterChatRoutes(api, a.chatController)
}

// Start inicia o servidor HTTP
func (a *App) Start() error {
	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}

	a.logger.Info("servidor iniciado", "port", port)
	return a.router.Run(":" + port)
}

// Close libera os recursos da aplicação
func (a *App) Close() {
	if closer, ok := a.responseCache.(*cache.RedisCache); ok {
		closer.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}
