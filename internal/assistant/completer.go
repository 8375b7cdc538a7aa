package assistant

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// Completer abstracts the chat model so the service can be tested with a
// canned implementation.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

type openAICompleter struct {
	client *openai.Client
	model  string
}

// NewOpenAICompleter builds a Completer backed by the OpenAI chat API.
func NewOpenAICompleter(apiKey, model string) Completer {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &openAICompleter{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (c *openAICompleter) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
