package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chunk_store.go -package=mocks aibox/internal/storage ChunkStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ChunkStore defines the interface for chunk storage operations.
type ChunkStore interface {
	// InsertBatch inserts chunks in one transaction. IDs are assigned when empty.
	InsertBatch(ctx context.Context, chunks []*Chunk) error
	// ListByDocument returns all chunks of a document ordered by chunk_index.
	ListByDocument(ctx context.Context, documentID string) ([]Chunk, error)
	// GetByID gets a chunk by its ID. Returns ErrNotFound if not found.
	GetByID(ctx context.Context, id string) (*Chunk, error)
	// GetByIDs returns the chunks that exist among ids, keyed by ID.
	GetByIDs(ctx context.Context, ids []string) (map[string]Chunk, error)
	// SetEmbedding stores the encoded vector of a chunk; nil clears it.
	SetEmbedding(ctx context.Context, id string, embedding []byte) error
	// ListEmbeddings returns every chunk that has an embedding.
	ListEmbeddings(ctx context.Context) ([]ChunkEmbedding, error)
	// Counts summarizes the knowledge base.
	Counts(ctx context.Context) (IndexCounts, error)
	// ContentLengths returns the character length of every chunk.
	ContentLengths(ctx context.Context) ([]int, error)
}

// ChunkRepo provides methods for chunk operations.
// It implements the ChunkStore interface.
type ChunkRepo struct {
	db *sql.DB
}

// NewChunkRepo creates a new ChunkRepo.
func NewChunkRepo(db *sql.DB) *ChunkRepo {
	return &ChunkRepo{db: db}
}

// InsertBatch inserts chunks in one transaction.
func (r *ChunkRepo) InsertBatch(ctx context.Context, chunks []*Chunk) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO chunks (id, document_id, content, chunk_index, embedding, created_at) VALUES (?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("failed to prepare chunk insert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for _, chunk := range chunks {
		if chunk.ID == "" {
			chunk.ID = uuid.New().String()
		}
		if chunk.CreatedAt.IsZero() {
			chunk.CreatedAt = now()
		}
		if _, err := stmt.ExecContext(ctx, chunk.ID, chunk.DocumentID, chunk.Content, chunk.ChunkIndex, chunk.Embedding, chunk.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert chunk %d: %w", chunk.ChunkIndex, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit chunks: %w", err)
	}
	return nil
}

// ListByDocument returns all chunks of a document ordered by chunk_index.
func (r *ChunkRepo) ListByDocument(ctx context.Context, documentID string) ([]Chunk, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, document_id, content, chunk_index, embedding, created_at FROM chunks WHERE document_id = ? ORDER BY chunk_index",
		documentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	chunks := []Chunk{}
	for rows.Next() {
		c, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return chunks, nil
}

// GetByID gets a chunk by its ID. Returns ErrNotFound if not found.
func (r *ChunkRepo) GetByID(ctx context.Context, id string) (*Chunk, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, document_id, content, chunk_index, embedding, created_at FROM chunks WHERE id = ?",
		id,
	)
	c, err := scanChunk(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByIDs returns the chunks that exist among ids, keyed by ID.
// Missing IDs are simply absent from the result.
func (r *ChunkRepo) GetByIDs(ctx context.Context, ids []string) (map[string]Chunk, error) {
	result := make(map[string]Chunk, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT id, document_id, content, chunk_index, embedding, created_at FROM chunks WHERE id IN ("+placeholders+")",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		c, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		result[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return result, nil
}

// SetEmbedding stores the encoded vector of a chunk. Returns ErrNotFound if not found.
func (r *ChunkRepo) SetEmbedding(ctx context.Context, id string, embedding []byte) error {
	var value any
	if embedding != nil {
		value = embedding
	}
	res, err := r.db.ExecContext(ctx, "UPDATE chunks SET embedding = ? WHERE id = ?", value, id)
	if err != nil {
		return fmt.Errorf("failed to update chunk embedding: %w", err)
	}
	return requireAffected(res)
}

// ListEmbeddings returns every chunk that has an embedding, in insertion order.
func (r *ChunkRepo) ListEmbeddings(ctx context.Context) ([]ChunkEmbedding, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, document_id, embedding FROM chunks WHERE embedding IS NOT NULL ORDER BY rowid",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query embeddings: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	embeddings := []ChunkEmbedding{}
	for rows.Next() {
		var e ChunkEmbedding
		if err := rows.Scan(&e.ChunkID, &e.DocumentID, &e.Embedding); err != nil {
			return nil, fmt.Errorf("failed to scan embedding: %w", err)
		}
		embeddings = append(embeddings, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return embeddings, nil
}

// Counts summarizes the knowledge base.
func (r *ChunkRepo) Counts(ctx context.Context) (IndexCounts, error) {
	var c IndexCounts
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM documents),
			(SELECT COUNT(*) FROM documents WHERE id NOT IN (SELECT DISTINCT document_id FROM chunks)),
			(SELECT COUNT(*) FROM chunks),
			(SELECT COUNT(*) FROM chunks WHERE embedding IS NOT NULL)`,
	).Scan(&c.Documents, &c.EmptyDocuments, &c.Chunks, &c.Embedded)
	if err != nil {
		return IndexCounts{}, fmt.Errorf("failed to query index counts: %w", err)
	}
	return c, nil
}

// ContentLengths returns the character length of every chunk.
// SQLite's length() counts characters for TEXT values.
func (r *ChunkRepo) ContentLengths(ctx context.Context) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT length(content) FROM chunks ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("failed to query chunk lengths: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	lengths := []int{}
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to scan chunk length: %w", err)
		}
		lengths = append(lengths, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return lengths, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanChunk(s scanner) (Chunk, error) {
	var c Chunk
	err := s.Scan(&c.ID, &c.DocumentID, &c.Content, &c.ChunkIndex, &c.Embedding, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Chunk{}, err
	}
	if err != nil {
		return Chunk{}, fmt.Errorf("failed to scan chunk: %w", err)
	}
	return c, nil
}
