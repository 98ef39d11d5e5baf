package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ai-video-writer/internal/domain"
	"ai-video-writer/internal/domain/model"
	"ai-video-writer/internal/domain/ports/adapter"
	"ai-video-writer/internal/infra/metrics"
	"ai-video-writer/internal/infra/quota"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ ArticleUseCase = (*articleUC)(nil)

// ArticleUseCase turns one video's metadata into an AI-written article.
type ArticleUseCase interface {
	Generate(ctx context.Context, videoID, style string) (*model.Article, error)
}

type articleUC struct {
	data            adapter.VideoDataAdapter
	ai              adapter.AIServiceAdapter
	publisher       adapter.PublisherAdapter // optional
	ledger          *quota.Ledger
	modelName       string
	maxPromptTokens int

	log *zerolog.Logger
}

func NewArticleUseCase(data adapter.VideoDataAdapter, ai adapter.AIServiceAdapter, publisher adapter.PublisherAdapter, ledger *quota.Ledger, modelName string, maxPromptTokens int, logger *zerolog.Logger) *articleUC {
	if maxPromptTokens <= 0 {
		maxPromptTokens = 12000
	}
	return &articleUC{
		data:            data,
		ai:              ai,
		publisher:       publisher,
		ledger:          ledger,
		modelName:       modelName,
		maxPromptTokens: maxPromptTokens,
		log:             logger,
	}
}

func (a *articleUC) Generate(ctx context.Context, videoID, style string) (*model.Article, error) {
	if videoID == "" {
		return nil, domain.ErrInvalidArgument
	}

	items, err := a.data.VideoDetails(ctx, []string{videoID})
	a.ledger.Record(quota.ActionDetails, quota.CostDetailsBatch, "article source "+videoID)
	if err != nil {
		return nil, fmt.Errorf("fetch video metadata: %w", err)
	}
	if len(items) == 0 {
		return nil, domain.ErrNotFound
	}
	video := items[0]

	msgs := buildArticlePrompt(video, style)

	// Pre-check the prompt budget; oversized descriptions get trimmed once
	// rather than rejected.
	tokens, err := a.ai.CountTokens(ctx, a.modelName, msgs)
	if err != nil {
		a.log.Warn().Err(err).Msg("token pre-count failed; sending unchecked")
	} else if tokens > a.maxPromptTokens {
		video.Description = trimToRatio(video.Description, a.maxPromptTokens, tokens)
		msgs = buildArticlePrompt(video, style)
	}

	start := time.Now()
	text, usage, err := a.ai.ChatWithUsage(ctx, a.modelName, msgs)
	latency := int(time.Since(start) / time.Millisecond)
	if err != nil {
		metrics.ObserveAIUsage(a.modelName, 0, 0, latency, false)
		return nil, fmt.Errorf("ai generation: %w", err)
	}
	metrics.ObserveAIUsage(a.modelName, usage.PromptTokens, usage.CompletionTokens, latency, true)

	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyPrompt
	}

	article := &model.Article{
		VideoID:          video.VideoID,
		Title:            video.Title,
		Markdown:         text,
		Model:            a.modelName,
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
		CreatedAt:        time.Now(),
	}

	if a.publisher != nil {
		if url, err := a.publisher.PublishArticle(ctx, article.Title, article.Markdown); err != nil {
			// Publishing is best-effort; the article itself is the result.
			a.log.Warn().Err(err).Str("video_id", videoID).Msg("publish failed")
		} else {
			a.log.Info().Str("video_id", videoID).Str("url", url).Msg("article published")
		}
	}

	return article, nil
}

func buildArticlePrompt(video model.VideoItem, style string) []adapter.Message {
	if style == "" {
		style = "an informative blog post"
	}
	sys := "You are an editorial assistant that turns video metadata into well-structured markdown articles. Write " + style + "."
	var b strings.Builder
	b.WriteString("Title: " + video.Title + "\n")
	b.WriteString("Published: " + video.PublishedAt.Format("2006-01-02") + "\n")
	if len(video.Tags) > 0 {
		b.WriteString("Tags: " + strings.Join(video.Tags, ", ") + "\n")
	}
	b.WriteString("\nDescription:\n" + video.Description + "\n")
	b.WriteString("\nWrite a complete article based on this video.")
	return []adapter.Message{
		{Role: "system", Content: sys},
		{Role: "user", Content: b.String()},
	}
}

// trimToRatio shortens s proportionally to fit budget/actual tokens.
func trimToRatio(s string, budget, actual int) string {
	if actual <= 0 || budget >= actual {
		return s
	}
	keep := len(s) * budget / actual
	if keep >= len(s) {
		return s
	}
	return s[:keep]
}
