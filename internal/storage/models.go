package storage

import "time"

// Conversation is a chat thread.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message is a single turn in a conversation.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           string    `json:"role"` // user, assistant or system
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// Document is an ingested knowledge base file.
type Document struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	FileType  string    `json:"file_type"`
	FilePath  string    `json:"file_path"`
	FileSize  int64     `json:"file_size"`
	CreatedAt time.Time `json:"created_at"`
}

// Chunk is a window of document text. Embedding holds the raw encoded
// vector and is nil until one has been generated.
type Chunk struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	Content    string    `json:"content"`
	ChunkIndex int       `json:"chunk_index"`
	Embedding  []byte    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// ChunkEmbedding is the part of a chunk needed to rank it.
type ChunkEmbedding struct {
	ChunkID    string
	DocumentID string
	Embedding  []byte
}

// IndexCounts summarizes the knowledge base contents.
type IndexCounts struct {
	Documents      int
	EmptyDocuments int
	Chunks         int
	Embedded       int
}
