package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hugohenrick/chat-atendimento/internal/domain/conversation"
)

// SQLiteConversationRepository implementa conversation.Repository sobre SQLite
type SQLiteConversationRepository struct {
	db *sql.DB
}

// NewConversationRepository cria uma nova instância do repositório de conversas
func NewConversationRepository(db *sql.DB) conversation.Repository {
	return &SQLiteConversationRepository{
		db: db,
	}
}

// Create cria uma nova conversa
func (r *SQLiteConversationRepository) Create(ctx context.Context) (*conversation.Conversation, error) {
	conv := conversation.NewConversation()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO conversations (id, created_at, updated_at)
		VALUES (?, ?, ?)
	`, conv.ID, conv.CreatedAt, conv.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar conversa: %w", err)
	}

	return conv, nil
}

// FindByID busca uma conversa pelo ID; conversa inexistente não é erro
func (r *SQLiteConversationRepository) FindByID(ctx context.Context, id string) (*conversation.Conversation, error) {
	conv := &conversation.Conversation{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, created_at, updated_at
		FROM conversations
		WHERE id = ?
	`, id).Scan(&conv.ID, &conv.CreatedAt, &conv.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao buscar conversa: %w", err)
	}

	return conv, nil
}

// AppendMessage insere a mensagem e avança o updated_at da conversa na
// mesma transação, para que leitores nunca vejam um estado intermediário
func (r *SQLiteConversationRepository) AppendMessage(ctx context.Context, conversationID string, sender conversation.Sender, text string) (*conversation.Message, error) {
	msg, err := conversation.NewMessage(conversationID, sender, text)
	if err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("erro ao iniciar transação: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM conversations WHERE id = ?`, conversationID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, conversation.ErrConversationNotFound
		}
		return nil, fmt.Errorf("erro ao verificar conversa: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO messages (id, conversation_id, sender, text, timestamp)
		VALUES (?, ?, ?, ?, ?)
	`, msg.ID, msg.ConversationID, string(msg.Sender), msg.Text, msg.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("erro ao salvar mensagem: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE conversations SET updated_at = ? WHERE id = ?
	`, msg.Timestamp, conversationID)
	if err != nil {
		return nil, fmt.Errorf("erro ao atualizar conversa: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("erro ao confirmar transação: %w", err)
	}

	return msg, nil
}

// ListMessages lista as mensagens de uma conversa em ordem cronológica crescente
func (r *SQLiteConversationRepository) ListMessages(ctx context.Context, conversationID string) ([]conversation.Message, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, conversation_id, sender, text, timestamp
		FROM messages
		WHERE conversation_id = ?
		ORDER BY timestamp ASC, rowid ASC
	`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar histórico: %w", err)
	}
	defer rows.Close()

	messages := []conversation.Message{}
	for rows.Next() {
		var msg conversation.Message
		var sender string
		err := rows.Scan(&msg.ID, &msg.ConversationID, &sender, &msg.Text, &msg.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("erro ao ler mensagem: %w", err)
		}
		msg.Sender = conversation.Sender(sender)
		messages = append(messages, msg)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao ler linhas: %w", err)
	}

	return messages, nil
}
