package service

import (
	"context"
	"fmt"
)

// SingleChannelProvider targets models without a system-message channel.
// System instructions are folded into the user prompt; temperature and
// token-limit parameters are omitted since these models reject them.
type SingleChannelProvider struct {
	client *OpenAIClient
}

// Complete prepends the system instructions to the user prompt and sends a
// single user message.
func (p *SingleChannelProvider) Complete(ctx context.Context, systemInstructions, userPrompt string) (string, error) {
	prompt := userPrompt
	if systemInstructions != "" {
		prompt = systemInstructions + "\n\n" + userPrompt
	}

	resp, err := p.client.ChatCompletion(ctx, ChatCompletionRequest{
		Messages: []ChatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from completion API")
	}
	return resp.Choices[0].Message.Content, nil
}
