package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteConfig contém as configurações para o banco SQLite
type SQLiteConfig struct {
	Path        string
	BusyTimeout time.Duration
}

// NewSQLiteConfigFromEnv cria uma nova configuração a partir de variáveis de ambiente
func NewSQLiteConfigFromEnv() *SQLiteConfig {
	return &SQLiteConfig{
		Path:        getEnv("DB_PATH", "./data/chat.db"),
		BusyTimeout: 5 * time.Second,
	}
}

// DSN retorna a string de conexão para o SQLite.
// WAL e foreign_keys ficam sempre habilitados: o ON DELETE CASCADE de
// messages depende do enforcement de chaves estrangeiras.
func (c *SQLiteConfig) DSN() string {
	return fmt.Sprintf("%s?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=%d",
		c.Path, c.BusyTimeout.Milliseconds())
}

// NewSQLiteDB abre (ou cria) o banco de dados e garante o schema
func NewSQLiteDB(cfg *SQLiteConfig) (*sql.DB, error) {
	if dir := filepath.Dir(cfg.Path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("erro ao criar diretório do banco %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir banco de dados: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("erro ao verificar conexão com o banco de dados: %w", err)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("erro ao inicializar schema: %w", err)
	}

	return db, nil
}

// initSchema cria as tabelas e índices caso ainda não existam
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS conversations (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		conversation_id TEXT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
		sender TEXT NOT NULL CHECK (sender IN ('user', 'ai')),
		text TEXT NOT NULL,
		timestamp DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_messages_conversation_id ON messages(conversation_id);
	CREATE INDEX IF NOT EXISTS idx_messages_timestamp ON messages(timestamp);
	`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// getEnv retorna o valor de uma variável de ambiente ou um valor padrão
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
