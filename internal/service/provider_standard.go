package service

import (
	"context"
	"fmt"
	"strings"
)

// SupportsSystemMessages reports whether a chat model accepts a separate
// system-instruction channel. Reasoning-series models (o1-*) and the gpt-4o
// family take a single user message only.
func SupportsSystemMessages(model string) bool {
	return !strings.HasPrefix(model, "o1-") && !strings.HasPrefix(model, "gpt-4o")
}

// NewCompletionProvider selects a provider variant for the client's
// configured chat model.
func NewCompletionProvider(client *OpenAIClient) CompletionProvider {
	if SupportsSystemMessages(client.ChatModel()) {
		return &StandardProvider{client: client}
	}
	return &SingleChannelProvider{client: client}
}

// StandardProvider targets chat models with a system-message channel.
type StandardProvider struct {
	client *OpenAIClient
}

// Complete sends system instructions and the user prompt as separate
// messages, with the configured temperature and token limit.
func (p *StandardProvider) Complete(ctx context.Context, systemInstructions, userPrompt string) (string, error) {
	messages := []ChatMessage{}
	if systemInstructions != "" {
		messages = append(messages, ChatMessage{Role: "system", Content: systemInstructions})
	}
	messages = append(messages, ChatMessage{Role: "user", Content: userPrompt})

	resp, err := p.client.ChatCompletion(ctx, ChatCompletionRequest{
		Messages:    messages,
		Temperature: p.client.config.ChatTemperature,
		MaxTokens:   p.client.config.ChatMaxTokens,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from completion API")
	}
	return resp.Choices[0].Message.Content, nil
}
