package ai

import (
	"context"
	"log"
	"time"

	"ai-video-writer/internal/domain/ports/adapter"
)

var _ adapter.AIServiceAdapter = (*NoopAIAdapter)(nil)

// NoopAIAdapter implements adapter.AIServiceAdapter for local/dev testing.
// It logs prompts instead of sending real AI requests.
type NoopAIAdapter struct{}

// NewNoopAIAdapter constructs the noop adapter.
func NewNoopAIAdapter() *NoopAIAdapter {
	return &NoopAIAdapter{}
}

func (a *NoopAIAdapter) ListModels(ctx context.Context) ([]string, error) {
	return []string{"noop-model"}, nil
}

func (a *NoopAIAdapter) CountTokens(ctx context.Context, model string, messages []adapter.Message) (int, error) {
	// Rough word count stands in for tokens.
	total := 0
	for _, m := range messages {
		total += len(m.Content) / 4
	}
	return total, nil
}

func (a *NoopAIAdapter) Chat(ctx context.Context, model string, messages []adapter.Message) (string, error) {
	text, _, err := a.ChatWithUsage(ctx, model, messages)
	return text, err
}

func (a *NoopAIAdapter) ChatWithUsage(ctx context.Context, model string, messages []adapter.Message) (string, adapter.Usage, error) {
	// Simulate slight processing time and respect ctx
	select {
	case <-time.After(100 * time.Millisecond):
	case <-ctx.Done():
		return "", adapter.Usage{}, ctx.Err()
	}
	log.Printf("[noop-ai] %d messages for model %s\n", len(messages), model)
	return "This is a noop AI response.", adapter.Usage{PromptTokens: 10, CompletionTokens: 8, TotalTokens: 18}, nil
}
