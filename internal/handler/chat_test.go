package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"phongtro/internal/model"
	"phongtro/internal/service"

	"github.com/gin-gonic/gin"
)

// fixedStore is a minimal IndexStore holding preloaded rooms.
type fixedStore struct {
	rooms map[string]model.Room
}

func (s *fixedStore) UpsertBatch(_ context.Context, rooms []model.Room, _ [][]float32) error {
	for _, r := range rooms {
		s.rooms[r.ID] = r
	}
	return nil
}

func (s *fixedStore) Query(_ context.Context, _ []float32, _ int) ([]model.Room, error) {
	return nil, nil
}

func (s *fixedStore) GetByID(_ context.Context, id string) (*model.Room, error) {
	r, ok := s.rooms[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (s *fixedStore) Clear(_ context.Context) error {
	s.rooms = map[string]model.Room{}
	return nil
}

func (s *fixedStore) Count(_ context.Context) (int, error) { return len(s.rooms), nil }

type fixedSource struct {
	rooms []model.Room
	err   error
}

func (s *fixedSource) FetchAll(_ context.Context) ([]model.Room, error) { return s.rooms, s.err }

type disabledEmbedder struct{}

func (disabledEmbedder) CreateEmbedding(_ context.Context, _ string) ([]float32, error) {
	return nil, errors.New("disabled")
}

func (disabledEmbedder) CreateEmbeddings(_ context.Context, _ []string) ([][]float32, error) {
	return nil, errors.New("disabled")
}

func (disabledEmbedder) Dimensions() int { return 8 }
func (disabledEmbedder) IsEnabled() bool { return false }

func testIndexer(rooms map[string]model.Room, source []model.Room) *service.Indexer {
	return service.NewIndexer(&fixedStore{rooms: rooms}, &fixedSource{rooms: source}, disabledEmbedder{}, 100)
}

func TestChatHandler_RejectsMissingQuestion(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewChatHandler(nil, nil)
	router.POST("/chat", h.Chat)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/chat", strings.NewReader(`{"user_id": "u1"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for a missing question, got %d", w.Code)
	}
}

func TestChatHandler_GetRoom(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ix := testIndexer(map[string]model.Room{
		"p1": {ID: "p1", Title: "Phòng trọ quận 3"},
	}, nil)

	router := gin.New()
	h := NewChatHandler(nil, ix)
	router.GET("/api/v1/rooms/:id", h.GetRoom)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/rooms/p1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Phòng trọ quận 3") {
		t.Errorf("Expected the room in the body, got %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/rooms/ghost", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404 for an unknown room, got %d", w.Code)
	}
}

func TestReindexHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ix := testIndexer(map[string]model.Room{}, []model.Room{
		{ID: "p1", Title: "Phòng 1"},
		{ID: "p2", Title: "Phòng 2"},
	})

	router := gin.New()
	h := NewReindexHandler(ix)
	router.POST("/reindex", h.Reindex)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/reindex", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"indexed_count":2`) {
		t.Errorf("Expected 2 indexed rooms, got %s", w.Body.String())
	}
}

func TestReindexHandler_SourceFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ix := service.NewIndexer(&fixedStore{rooms: map[string]model.Room{}}, &fixedSource{err: errors.New("api down")}, disabledEmbedder{}, 100)

	router := gin.New()
	h := NewReindexHandler(ix)
	router.POST("/reindex", h.Reindex)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/reindex", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500 when the catalog is unreachable, got %d", w.Code)
	}
}
