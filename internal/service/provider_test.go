package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"phongtro/internal/config"
)

func TestSupportsSystemMessages(t *testing.T) {
	tests := []struct {
		model string
		want  bool
	}{
		{"gpt-3.5-turbo", true},
		{"gpt-4-turbo", true},
		{"o1-mini", false},
		{"o1-preview", false},
		{"gpt-4o", false},
		{"gpt-4o-mini", false},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			if got := SupportsSystemMessages(tt.model); got != tt.want {
				t.Errorf("SupportsSystemMessages(%q) = %v, want %v", tt.model, got, tt.want)
			}
		})
	}
}

func completionServer(t *testing.T, capture *ChatCompletionRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Unexpected Authorization header %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(capture); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"index": 0, "message": map[string]string{"role": "assistant", "content": "xin chào"}},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testOpenAIConfig(apiBase, chatModel string) *config.OpenAIConfig {
	return &config.OpenAIConfig{
		APIKey:              "test-key",
		APIBase:             apiBase,
		ChatModel:           chatModel,
		ChatTemperature:     0.3,
		ChatMaxTokens:       1500,
		EmbeddingModel:      "text-embedding-ada-002",
		EmbeddingDimensions: 8,
		Timeout:             5,
		Enabled:             true,
	}
}

func TestStandardProvider_SendsSystemChannel(t *testing.T) {
	var captured ChatCompletionRequest
	srv := completionServer(t, &captured)

	client := NewOpenAIClient(testOpenAIConfig(srv.URL, "gpt-3.5-turbo"))
	provider := NewCompletionProvider(client)

	if _, ok := provider.(*StandardProvider); !ok {
		t.Fatalf("Expected StandardProvider for gpt-3.5-turbo, got %T", provider)
	}

	reply, err := provider.Complete(context.Background(), "bạn là trợ lý", "tìm phòng")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if reply != "xin chào" {
		t.Errorf("Unexpected reply %q", reply)
	}

	if len(captured.Messages) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(captured.Messages))
	}
	if captured.Messages[0].Role != "system" || captured.Messages[1].Role != "user" {
		t.Errorf("Expected system then user messages, got %v", captured.Messages)
	}
	if captured.Temperature != 0.3 || captured.MaxTokens != 1500 {
		t.Error("Expected configured temperature and token limit to be sent")
	}
}

func TestSingleChannelProvider_FoldsSystemIntoUser(t *testing.T) {
	var captured ChatCompletionRequest
	srv := completionServer(t, &captured)

	client := NewOpenAIClient(testOpenAIConfig(srv.URL, "o1-mini"))
	provider := NewCompletionProvider(client)

	if _, ok := provider.(*SingleChannelProvider); !ok {
		t.Fatalf("Expected SingleChannelProvider for o1-mini, got %T", provider)
	}

	if _, err := provider.Complete(context.Background(), "bạn là trợ lý", "tìm phòng"); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if len(captured.Messages) != 1 {
		t.Fatalf("Expected a single message, got %d", len(captured.Messages))
	}
	if captured.Messages[0].Role != "user" {
		t.Errorf("Expected a user message, got role %q", captured.Messages[0].Role)
	}
	if captured.Messages[0].Content != "bạn là trợ lý\n\ntìm phòng" {
		t.Errorf("Expected folded prompt, got %q", captured.Messages[0].Content)
	}
	if captured.Temperature != 0 || captured.MaxTokens != 0 {
		t.Error("Expected sampling parameters to be omitted")
	}
}

func TestOpenAIClient_CreateEmbeddings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			http.NotFound(w, r)
			return
		}
		var req EmbeddingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		// respond out of order to exercise index-based reassembly
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"index": 1, "embedding": []float32{0.3, 0.4}},
				{"index": 0, "embedding": []float32{0.1, 0.2}},
			},
		})
	}))
	t.Cleanup(srv.Close)

	client := NewOpenAIClient(testOpenAIConfig(srv.URL, "gpt-3.5-turbo"))
	embeddings, err := client.CreateEmbeddings(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("CreateEmbeddings failed: %v", err)
	}
	if len(embeddings) != 2 {
		t.Fatalf("Expected 2 embeddings, got %d", len(embeddings))
	}
	if embeddings[0][0] != 0.1 || embeddings[1][0] != 0.3 {
		t.Error("Expected embeddings reassembled in input order")
	}
}

func TestOpenAIClient_DisabledRejectsCalls(t *testing.T) {
	cfg := testOpenAIConfig("http://localhost:0", "gpt-3.5-turbo")
	cfg.Enabled = false
	client := NewOpenAIClient(cfg)

	if _, err := client.CreateEmbeddings(context.Background(), []string{"a"}); err == nil {
		t.Error("Expected an error when the client is disabled")
	}
	if _, err := client.ChatCompletion(context.Background(), ChatCompletionRequest{}); err == nil {
		t.Error("Expected an error when the client is disabled")
	}
}
