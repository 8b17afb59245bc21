package service

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"phongtro/internal/model"
)

// ErrIndexUnavailable is returned when the vector store has not been
// initialized. Search cannot degrade gracefully without an index.
var ErrIndexUnavailable = errors.New("vector index is not initialized")

// IndexStore is the persistence surface the indexer writes to and the
// search path reads from. PostgresRepository is the production
// implementation.
type IndexStore interface {
	UpsertBatch(ctx context.Context, rooms []model.Room, embeddings [][]float32) error
	Query(ctx context.Context, embedding []float32, topK int) ([]model.Room, error)
	GetByID(ctx context.Context, id string) (*model.Room, error)
	Clear(ctx context.Context) error
	Count(ctx context.Context) (int, error)
}

// RoomSource supplies the catalog documents to index.
type RoomSource interface {
	FetchAll(ctx context.Context) ([]model.Room, error)
}

// Indexer maintains the vector index over catalog posts and answers
// similarity queries against it.
type Indexer struct {
	store     IndexStore
	source    RoomSource
	embedder  EmbeddingClient
	batchSize int

	mu sync.Mutex // serializes reindex runs
}

// NewIndexer creates an indexer. batchSize bounds how many documents are
// embedded per upstream call.
func NewIndexer(store IndexStore, source RoomSource, embedder EmbeddingClient, batchSize int) *Indexer {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Indexer{
		store:     store,
		source:    source,
		embedder:  embedder,
		batchSize: batchSize,
	}
}

// Reindex fetches the full catalog and upserts it into the vector store in
// batches. When force is set the store is cleared first, otherwise existing
// rows are overwritten in place by id. Returns the number of documents
// indexed. Concurrent calls are serialized.
func (ix *Indexer) Reindex(ctx context.Context, force bool) (int, error) {
	if ix.store == nil {
		return 0, ErrIndexUnavailable
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	rooms, err := ix.source.FetchAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	if len(rooms) == 0 {
		log.Printf("Reindex: catalog returned no posts, nothing to do")
		return 0, nil
	}

	if force {
		if err := ix.store.Clear(ctx); err != nil {
			return 0, fmt.Errorf("failed to clear index: %w", err)
		}
		log.Printf("Reindex: cleared existing index")
	}

	indexed := 0
	for start := 0; start < len(rooms); start += ix.batchSize {
		end := start + ix.batchSize
		if end > len(rooms) {
			end = len(rooms)
		}
		batch := rooms[start:end]

		texts := make([]string, len(batch))
		for i, room := range batch {
			texts[i] = SearchableText(room)
		}

		embeddings := ix.embedBatch(ctx, texts)
		if err := ix.store.UpsertBatch(ctx, batch, embeddings); err != nil {
			return indexed, fmt.Errorf("failed to upsert batch at offset %d: %w", start, err)
		}
		indexed += len(batch)
	}

	log.Printf("Reindex: indexed %d documents", indexed)
	return indexed, nil
}

// Query embeds the search text and returns the topK most similar documents.
func (ix *Indexer) Query(ctx context.Context, text string, topK int) ([]model.Room, error) {
	if ix.store == nil {
		return nil, ErrIndexUnavailable
	}
	embedding := ix.embedOne(ctx, text)
	return ix.store.Query(ctx, embedding, topK)
}

// GetByID looks one indexed document up by its identifier.
func (ix *Indexer) GetByID(ctx context.Context, id string) (*model.Room, error) {
	if ix.store == nil {
		return nil, ErrIndexUnavailable
	}
	return ix.store.GetByID(ctx, id)
}

// Count reports how many documents the index currently holds.
func (ix *Indexer) Count(ctx context.Context) (int, error) {
	if ix.store == nil {
		return 0, ErrIndexUnavailable
	}
	return ix.store.Count(ctx)
}

// embedBatch embeds a batch of texts, falling back to deterministic hash
// embeddings when the embedding backend is disabled or failing.
func (ix *Indexer) embedBatch(ctx context.Context, texts []string) [][]float32 {
	dim := ix.embedder.Dimensions()
	if ix.embedder.IsEnabled() {
		embeddings, err := ix.embedder.CreateEmbeddings(ctx, texts)
		if err == nil && len(embeddings) == len(texts) {
			return embeddings
		}
		if err != nil {
			log.Printf("Warning: embedding batch failed, using hash fallback: %v", err)
		}
	}
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embeddings[i] = HashEmbedding(text, dim)
	}
	return embeddings
}

func (ix *Indexer) embedOne(ctx context.Context, text string) []float32 {
	if ix.embedder.IsEnabled() {
		embedding, err := ix.embedder.CreateEmbedding(ctx, text)
		if err == nil && len(embedding) > 0 {
			return embedding
		}
		if err != nil {
			log.Printf("Warning: query embedding failed, using hash fallback: %v", err)
		}
	}
	return HashEmbedding(text, ix.embedder.Dimensions())
}

// SearchableText flattens a room into the text that gets embedded.
func SearchableText(room model.Room) string {
	parts := []string{
		room.Title,
		room.Description,
		room.Location,
		room.Price,
		room.Area,
	}
	if len(room.Options) > 0 {
		parts = append(parts, strings.Join(room.Options, " "))
	}
	nonEmpty := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, " ")
}

// HashEmbedding produces a deterministic pseudo-embedding from the MD5
// digest of the text: each digest byte scaled into [0,1], cycled out to dim.
// No semantic meaning, but identical text always maps to the same vector.
func HashEmbedding(text string, dim int) []float32 {
	if dim <= 0 {
		dim = 16
	}
	sum := md5.Sum([]byte(text))

	base := make([]float32, len(sum))
	for i, b := range sum {
		base[i] = float32(b) / 255.0
	}

	embedding := make([]float32, dim)
	for i := range embedding {
		embedding[i] = base[i%len(base)]
	}
	return embedding
}
