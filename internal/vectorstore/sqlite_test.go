package vectorstore

import (
	"context"
	"path/filepath"
	"testing"

	"aibox/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*SQLiteStore, []*storage.Chunk) {
	t.Helper()
	ctx := context.Background()

	db, err := storage.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, storage.Migrate(db))

	doc := &storage.Document{Filename: "a.txt", FileType: "txt", FilePath: "/a.txt"}
	require.NoError(t, storage.NewDocumentRepo(db).Insert(ctx, doc))

	chunkRepo := storage.NewChunkRepo(db)
	chunks := []*storage.Chunk{
		{DocumentID: doc.ID, Content: "x axis", ChunkIndex: 0},
		{DocumentID: doc.ID, Content: "y axis", ChunkIndex: 1},
		{DocumentID: doc.ID, Content: "diagonal", ChunkIndex: 2},
		{DocumentID: doc.ID, Content: "no vector", ChunkIndex: 3},
	}
	require.NoError(t, chunkRepo.InsertBatch(ctx, chunks))

	return NewSQLiteStore(chunkRepo), chunks
}

func TestSQLiteStore_UpsertSearchDelete(t *testing.T) {
	ctx := context.Background()
	store, chunks := newTestStore(t)

	err := store.Upsert(ctx, []Point{
		{ID: chunks[0].ID, Vec: []float32{1, 0}},
		{ID: chunks[1].ID, Vec: []float32{0, 1}},
		{ID: chunks[2].ID, Vec: []float32{1, 1}},
	})
	require.NoError(t, err)

	results, err := store.Search(ctx, []float32{1, 0.1}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, chunks[0].ID, results[0].PointID)
	assert.Equal(t, chunks[2].ID, results[1].PointID)
	assert.Equal(t, chunks[0].DocumentID, results[0].DocumentID)
	assert.Greater(t, results[0].Score, results[1].Score)

	require.NoError(t, store.Delete(ctx, []string{chunks[0].ID}))
	results, err = store.Search(ctx, []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, results, 2, "chunk without vector is not a candidate")
	assert.Equal(t, chunks[2].ID, results[0].PointID)
}

func TestSQLiteStore_UpsertUnknownChunk(t *testing.T) {
	store, _ := newTestStore(t)
	err := store.Upsert(context.Background(), []Point{{ID: "missing", Vec: []float32{1}}})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSQLiteStore_SkipsCorruptVectors(t *testing.T) {
	ctx := context.Background()
	store, chunks := newTestStore(t)

	require.NoError(t, store.Upsert(ctx, []Point{{ID: chunks[0].ID, Vec: []float32{1, 0}}}))
	require.NoError(t, store.chunks.SetEmbedding(ctx, chunks[1].ID, []byte{1, 2, 3}))

	results, err := store.Search(ctx, []float32{1, 0}, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, chunks[0].ID, results[0].PointID)
}
