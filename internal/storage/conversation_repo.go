package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_conversation_store.go -package=mocks aibox/internal/storage ConversationStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ConversationStore defines the interface for conversation storage operations.
type ConversationStore interface {
	// Create inserts a conversation. ID and timestamps are assigned when empty.
	Create(ctx context.Context, conv *Conversation) error
	// List returns all conversations, most recently updated first.
	List(ctx context.Context) ([]Conversation, error)
	// GetByID returns ErrNotFound if the conversation does not exist.
	GetByID(ctx context.Context, id string) (*Conversation, error)
	// Rename changes the title and touches updated_at.
	Rename(ctx context.Context, id, title string) error
	// Delete removes the conversation and its messages.
	Delete(ctx context.Context, id string) error
}

// ConversationRepo provides methods for conversation operations.
// It implements the ConversationStore interface.
type ConversationRepo struct {
	db *sql.DB
}

// NewConversationRepo creates a new ConversationRepo.
func NewConversationRepo(db *sql.DB) *ConversationRepo {
	return &ConversationRepo{db: db}
}

// Create inserts a conversation.
func (r *ConversationRepo) Create(ctx context.Context, conv *Conversation) error {
	if conv.ID == "" {
		conv.ID = uuid.New().String()
	}
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = now()
	}
	if conv.UpdatedAt.IsZero() {
		conv.UpdatedAt = conv.CreatedAt
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO conversations (id, title, model, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		conv.ID, conv.Title, conv.Model, conv.CreatedAt, conv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert conversation: %w", err)
	}
	return nil
}

// List returns all conversations, most recently updated first.
func (r *ConversationRepo) List(ctx context.Context) ([]Conversation, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, title, model, created_at, updated_at FROM conversations ORDER BY updated_at DESC, rowid DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	conversations := []Conversation{}
	for rows.Next() {
		var c Conversation
		if err := rows.Scan(&c.ID, &c.Title, &c.Model, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		conversations = append(conversations, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return conversations, nil
}

// GetByID gets a conversation by its ID. Returns ErrNotFound if not found.
func (r *ConversationRepo) GetByID(ctx context.Context, id string) (*Conversation, error) {
	var c Conversation
	err := r.db.QueryRowContext(ctx,
		"SELECT id, title, model, created_at, updated_at FROM conversations WHERE id = ?",
		id,
	).Scan(&c.ID, &c.Title, &c.Model, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query conversation: %w", err)
	}
	return &c, nil
}

// Rename changes the conversation title. Returns ErrNotFound if not found.
func (r *ConversationRepo) Rename(ctx context.Context, id, title string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE conversations SET title = ?, updated_at = ? WHERE id = ?",
		title, now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to rename conversation: %w", err)
	}
	return requireAffected(res)
}

// Delete removes the conversation. Messages are removed by the cascade.
func (r *ConversationRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM conversations WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
