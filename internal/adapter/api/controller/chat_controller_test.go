package controller_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/chat-atendimento/internal/adapter/api/controller"
	"github.com/hugohenrick/chat-atendimento/internal/adapter/api/dto"
	"github.com/hugohenrick/chat-atendimento/internal/adapter/api/route"
	"github.com/hugohenrick/chat-atendimento/internal/adapter/repository"
	"github.com/hugohenrick/chat-atendimento/internal/domain/conversation"
	"github.com/hugohenrick/chat-atendimento/internal/infrastructure/database"
	"github.com/hugohenrick/chat-atendimento/internal/service"
	"github.com/hugohenrick/chat-atendimento/pkg/cache"
	"github.com/hugohenrick/chat-atendimento/pkg/logger"
	"github.com/hugohenrick/chat-atendimento/pkg/provider"
)

// stubProvider devolve uma resposta fixa ou um erro forçado
type stubProvider struct {
	reply string
	err   error
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) GenerateReply(ctx context.Context, userMessage string, history []conversation.Message) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	return p.reply, nil
}

type testEnv struct {
	router *gin.Engine
	repo   conversation.Repository
	db     *sql.DB
}

func newTestEnv(t *testing.T, llm provider.Provider) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &database.SQLiteConfig{
		Path:        t.TempDir() + "/chat.db",
		BusyTimeout: 5 * time.Second,
	}
	db, err := database.NewSQLiteDB(cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	log := logger.NewLogger()
	repo := repository.NewConversationRepository(db)
	chatService := service.NewChatService(repo, cache.NewNoopCache(), llm, log)
	chatController := controller.NewChatController(chatService, repo, log)

	router := gin.New()
	route.RegisterChatRoutes(router.Group("/api"), chatController)

	return &testEnv{router: router, repo: repo, db: db}
}

func (e *testEnv) postMessage(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat/message", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) getHistory(t *testing.T, sessionID string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/chat/history/"+sessionID, nil)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) countConversations(t *testing.T) int {
	t.Helper()
	var count int
	if err := e.db.QueryRow(`SELECT COUNT(*) FROM conversations`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	return count
}

func TestPostMessageCreatesConversation(t *testing.T) {
	env := newTestEnv(t, &stubProvider{reply: "Olá! Como posso ajudar?"})

	w := env.postMessage(t, `{"message": "oi, tudo bem?"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp dto.ChatMessageResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.SessionID == "" {
		t.Fatal("expected a session id")
	}
	if resp.Reply != "Olá! Como posso ajudar?" {
		t.Errorf("unexpected reply %q", resp.Reply)
	}

	hw := env.getHistory(t, resp.SessionID)
	if hw.Code != http.StatusOK {
		t.Fatalf("expected 200 on history, got %d", hw.Code)
	}
	var hist dto.HistoryResponse
	if err := json.Unmarshal(hw.Body.Bytes(), &hist); err != nil {
		t.Fatal(err)
	}
	if len(hist.Messages) != 2 {
		t.Fatalf("expected user + ai messages, got %d", len(hist.Messages))
	}
	if hist.Messages[0].Sender != "user" || hist.Messages[1].Sender != "ai" {
		t.Errorf("unexpected sender order: %s, %s", hist.Messages[0].Sender, hist.Messages[1].Sender)
	}
}

func TestPostMessageReusesConversation(t *testing.T) {
	env := newTestEnv(t, &stubProvider{reply: "certo!"})

	w := env.postMessage(t, `{"message": "primeira"}`)
	var first dto.ChatMessageResponse
	if err := json.Unmarshal(w.Body.Bytes(), &first); err != nil {
		t.Fatal(err)
	}

	before, err := env.repo.FindByID(context.Background(), first.SessionID)
	if err != nil {
		t.Fatal(err)
	}

	w = env.postMessage(t, fmt.Sprintf(`{"message": "segunda", "sessionId": %q}`, first.SessionID))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var second dto.ChatMessageResponse
	if err := json.Unmarshal(w.Body.Bytes(), &second); err != nil {
		t.Fatal(err)
	}
	if second.SessionID != first.SessionID {
		t.Errorf("expected same session, got %s and %s", first.SessionID, second.SessionID)
	}

	messages, err := env.repo.ListMessages(context.Background(), first.SessionID)
	if err != nil {
		t.Fatal(err)
	}
	if len(messages) != 4 {
		t.Fatalf("expected history to grow by two per turn, got %d", len(messages))
	}

	after, err := env.repo.FindByID(context.Background(), first.SessionID)
	if err != nil {
		t.Fatal(err)
	}
	if !after.UpdatedAt.After(before.UpdatedAt) {
		t.Errorf("updated_at should strictly increase: %v -> %v", before.UpdatedAt, after.UpdatedAt)
	}
}

func TestPostMessageUnknownSessionCreatesNew(t *testing.T) {
	env := newTestEnv(t, &stubProvider{reply: "ok"})

	w := env.postMessage(t, `{"message": "oi", "sessionId": "11111111-2222-3333-4444-555555555555"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp dto.ChatMessageResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.SessionID == "11111111-2222-3333-4444-555555555555" {
		t.Error("unknown session id must not be adopted")
	}
	if resp.SessionID == "" {
		t.Error("expected a fresh session id")
	}
}

func TestPostMessageValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing message field", `{"sessionId": "abc"}`},
		{"empty message", `{"message": ""}`},
		{"whitespace only", `{"message": "   "}`},
		{"too long", fmt.Sprintf(`{"message": %q}`, strings.Repeat("a", 5001))},
		{"malformed json", `{"message": `},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t, &stubProvider{reply: "não deveria responder"})

			w := env.postMessage(t, tc.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
			if env.countConversations(t) != 0 {
				t.Error("validation failure must not persist anything")
			}
		})
	}
}

func TestPostMessageProviderRateLimited(t *testing.T) {
	env := newTestEnv(t, &stubProvider{err: &provider.ProviderError{
		Provider: "groq",
		Kind:     provider.KindRateLimited,
		Message:  "groq: limite de requisições excedido (rate limit), tente novamente em instantes",
	}})

	w := env.postMessage(t, `{"message": "oi"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(resp.Message, "groq") || !strings.Contains(resp.Message, "rate limit") {
		t.Errorf("error should name provider and rate limit, got %q", resp.Message)
	}

	// a mensagem do usuário fica persistida mesmo com a falha do provedor
	var convID string
	if err := env.db.QueryRow(`SELECT id FROM conversations`).Scan(&convID); err != nil {
		t.Fatal(err)
	}
	messages, err := env.repo.ListMessages(context.Background(), convID)
	if err != nil {
		t.Fatal(err)
	}
	if len(messages) != 1 || messages[0].Sender != conversation.SenderUser {
		t.Fatalf("expected only the persisted user message, got %d", len(messages))
	}
}

func TestGetHistoryUnknownSession(t *testing.T) {
	env := newTestEnv(t, &stubProvider{reply: "ok"})

	w := env.getHistory(t, "desconhecida")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestGetHistoryEmptyConversation(t *testing.T) {
	env := newTestEnv(t, &stubProvider{reply: "ok"})

	conv, err := env.repo.Create(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	w := env.getHistory(t, conv.ID)
	if w.Code != http.StatusOK {
		t.Fatalf("conversation without messages must be 200, got %d", w.Code)
	}

	var hist dto.HistoryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &hist); err != nil {
		t.Fatal(err)
	}
	if hist.Messages == nil || len(hist.Messages) != 0 {
		t.Fatalf("expected empty message list, got %v", hist.Messages)
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, &stubProvider{reply: "ok"})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp dto.HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "ok" {
		t.Errorf("expected status ok, got %q", resp.Status)
	}
	if _, err := time.Parse(time.RFC3339, resp.Timestamp); err != nil {
		t.Errorf("timestamp should be RFC3339, got %q", resp.Timestamp)
	}
}
