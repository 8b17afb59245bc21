package service

import (
	"context"
)

// EmbeddingClient is the interface for the external embedding provider.
type EmbeddingClient interface {
	// CreateEmbedding generates an embedding for one text
	CreateEmbedding(ctx context.Context, text string) ([]float32, error)

	// CreateEmbeddings generates embeddings for texts (same order)
	CreateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the fixed vector dimensionality
	Dimensions() int

	// IsEnabled returns whether the client is configured and ready
	IsEnabled() bool
}

// CompletionProvider is the interface for the external text-completion
// provider. Implementations differ only in whether the upstream model
// accepts a separate system-instruction channel; callers never branch on
// model identity themselves.
type CompletionProvider interface {
	// Complete answers userPrompt under systemInstructions and returns the
	// raw reply text.
	Complete(ctx context.Context, systemInstructions, userPrompt string) (string, error)
}

// Ensure OpenAIClient implements EmbeddingClient
var _ EmbeddingClient = (*OpenAIClient)(nil)
