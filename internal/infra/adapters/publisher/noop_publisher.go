package publisher

import (
	"context"
	"fmt"

	"ai-video-writer/internal/domain/ports/adapter"

	"github.com/rs/zerolog"
)

var _ adapter.PublisherAdapter = (*NoopPublisher)(nil)

// NoopPublisher stands in for the real publishing service; it logs the
// article and fabricates a page URL.
type NoopPublisher struct {
	log *zerolog.Logger
	n   int
}

func NewNoopPublisher(logger *zerolog.Logger) *NoopPublisher {
	return &NoopPublisher{log: logger}
}

func (p *NoopPublisher) PublishArticle(ctx context.Context, title, markdown string) (string, error) {
	p.n++
	p.log.Info().Str("title", title).Int("bytes", len(markdown)).Msg("noop publish")
	return fmt.Sprintf("https://example.invalid/articles/%d", p.n), nil
}
