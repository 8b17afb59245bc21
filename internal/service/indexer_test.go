package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"testing"

	"phongtro/internal/model"
)

// memoryStore is a brute-force in-memory IndexStore used by tests.
type memoryStore struct {
	rooms      map[string]model.Room
	embeddings map[string][]float32
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		rooms:      make(map[string]model.Room),
		embeddings: make(map[string][]float32),
	}
}

func (m *memoryStore) UpsertBatch(_ context.Context, rooms []model.Room, embeddings [][]float32) error {
	if len(rooms) != len(embeddings) {
		return errors.New("rooms and embeddings length mismatch")
	}
	for i, room := range rooms {
		m.rooms[room.ID] = room
		m.embeddings[room.ID] = embeddings[i]
	}
	return nil
}

func (m *memoryStore) Query(_ context.Context, embedding []float32, topK int) ([]model.Room, error) {
	type scored struct {
		room model.Room
		sim  float64
	}
	results := make([]scored, 0, len(m.rooms))
	for id, room := range m.rooms {
		room.Similarity = cosine(embedding, m.embeddings[id])
		results = append(results, scored{room, room.Similarity})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].sim > results[j].sim })
	if len(results) > topK {
		results = results[:topK]
	}
	rooms := make([]model.Room, len(results))
	for i, r := range results {
		rooms[i] = r.room
	}
	return rooms, nil
}

func (m *memoryStore) GetByID(_ context.Context, id string) (*model.Room, error) {
	room, ok := m.rooms[id]
	if !ok {
		return nil, nil
	}
	return &room, nil
}

func (m *memoryStore) Clear(_ context.Context) error {
	m.rooms = make(map[string]model.Room)
	m.embeddings = make(map[string][]float32)
	return nil
}

func (m *memoryStore) Count(_ context.Context) (int, error) {
	return len(m.rooms), nil
}

func cosine(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// hashEmbedder is a disabled embedding client: the indexer falls back to
// deterministic hash embeddings.
type hashEmbedder struct {
	dim int
}

func (h *hashEmbedder) CreateEmbedding(_ context.Context, text string) ([]float32, error) {
	return nil, errors.New("disabled")
}

func (h *hashEmbedder) CreateEmbeddings(_ context.Context, texts []string) ([][]float32, error) {
	return nil, errors.New("disabled")
}

func (h *hashEmbedder) Dimensions() int { return h.dim }
func (h *hashEmbedder) IsEnabled() bool { return false }

// staticSource serves a fixed room list.
type staticSource struct {
	rooms []model.Room
	err   error
}

func (s *staticSource) FetchAll(_ context.Context) ([]model.Room, error) {
	return s.rooms, s.err
}

func TestIndexer_ReindexAndQuery(t *testing.T) {
	store := newMemoryStore()
	source := &staticSource{rooms: []model.Room{
		room("a", func(r *model.Room) { r.Title = "Phòng trọ quận 3 giá rẻ" }),
		room("b", func(r *model.Room) { r.Title = "Căn hộ chung cư Gò Vấp" }),
	}}
	ix := NewIndexer(store, source, &hashEmbedder{dim: 16}, 100)

	count, err := ix.Reindex(context.Background(), false)
	if err != nil {
		t.Fatalf("Reindex failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("Expected 2 indexed rooms, got %d", count)
	}

	// identical text embeds identically, so the matching room ranks first
	results, err := ix.Query(context.Background(), SearchableText(source.rooms[0]), 1)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(results) != 1 || results[0].ID != "a" {
		t.Fatalf("Expected room a first, got %v", results)
	}
	if results[0].Similarity < 0.99 {
		t.Errorf("Expected near-perfect similarity for identical text, got %.3f", results[0].Similarity)
	}
}

func TestIndexer_ReindexOverwritesByID(t *testing.T) {
	store := newMemoryStore()
	source := &staticSource{rooms: []model.Room{
		room("a", func(r *model.Room) { r.Title = "Tiêu đề cũ" }),
	}}
	ix := NewIndexer(store, source, &hashEmbedder{dim: 16}, 100)

	if _, err := ix.Reindex(context.Background(), false); err != nil {
		t.Fatalf("Reindex failed: %v", err)
	}

	source.rooms[0].Title = "Tiêu đề mới"
	if _, err := ix.Reindex(context.Background(), false); err != nil {
		t.Fatalf("Second reindex failed: %v", err)
	}

	n, _ := store.Count(context.Background())
	if n != 1 {
		t.Fatalf("Expected upsert to overwrite, got %d rooms", n)
	}
	got, _ := ix.GetByID(context.Background(), "a")
	if got == nil || got.Title != "Tiêu đề mới" {
		t.Error("Expected the reindexed room to carry the new title")
	}
}

func TestIndexer_ForceClearsFirst(t *testing.T) {
	store := newMemoryStore()
	source := &staticSource{rooms: []model.Room{room("a", nil), room("b", nil)}}
	ix := NewIndexer(store, source, &hashEmbedder{dim: 16}, 100)

	if _, err := ix.Reindex(context.Background(), false); err != nil {
		t.Fatalf("Reindex failed: %v", err)
	}

	// post b disappears from the catalog; only force removes it
	source.rooms = source.rooms[:1]
	if _, err := ix.Reindex(context.Background(), false); err != nil {
		t.Fatalf("Reindex failed: %v", err)
	}
	if n, _ := store.Count(context.Background()); n != 2 {
		t.Fatalf("Expected stale room to survive a regular reindex, got %d", n)
	}

	if _, err := ix.Reindex(context.Background(), true); err != nil {
		t.Fatalf("Force reindex failed: %v", err)
	}
	if n, _ := store.Count(context.Background()); n != 1 {
		t.Fatalf("Expected force reindex to drop stale rooms, got %d", n)
	}
}

func TestIndexer_SourceErrorPropagates(t *testing.T) {
	ix := NewIndexer(newMemoryStore(), &staticSource{err: errors.New("api down")}, &hashEmbedder{dim: 16}, 100)

	if _, err := ix.Reindex(context.Background(), false); err == nil {
		t.Fatal("Expected reindex to fail when the catalog is unreachable")
	}
}

func TestIndexer_NilStore(t *testing.T) {
	ix := NewIndexer(nil, &staticSource{}, &hashEmbedder{dim: 16}, 100)

	if _, err := ix.Reindex(context.Background(), false); !errors.Is(err, ErrIndexUnavailable) {
		t.Errorf("Expected ErrIndexUnavailable, got %v", err)
	}
	if _, err := ix.Query(context.Background(), "q", 5); !errors.Is(err, ErrIndexUnavailable) {
		t.Errorf("Expected ErrIndexUnavailable, got %v", err)
	}
}

func TestHashEmbedding(t *testing.T) {
	a := HashEmbedding("phòng trọ quận 3", 1536)
	b := HashEmbedding("phòng trọ quận 3", 1536)
	c := HashEmbedding("căn hộ gò vấp", 1536)

	if len(a) != 1536 {
		t.Fatalf("Expected dimension 1536, got %d", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatal("Expected identical text to embed identically")
		}
		if a[i] < 0 || a[i] > 1 {
			t.Fatalf("Expected components in [0,1], got %f", a[i])
		}
	}

	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("Expected different text to embed differently")
	}
}

func TestSearchableText(t *testing.T) {
	r := room("a", func(r *model.Room) {
		r.Title = "Phòng đẹp"
		r.Description = "Gần chợ"
		r.Location = "Quận 3"
		r.Price = "3 triệu"
		r.Area = "25"
		r.Options = model.JSONArray{"có gác", "có máy lạnh"}
	})

	text := SearchableText(r)
	for _, want := range []string{"Phòng đẹp", "Gần chợ", "Quận 3", "3 triệu", "25", "có gác có máy lạnh"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected searchable text to contain %q, got %q", want, text)
		}
	}
}
