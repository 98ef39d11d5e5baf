package usecase

import (
	"context"
	"fmt"

	"ai-video-writer/internal/domain/model"
	"ai-video-writer/internal/domain/ports/adapter"
	"ai-video-writer/internal/infra/quota"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ MetricAggregator = (*chunkedAggregator)(nil)

// MetricAggregator combines analytics over an arbitrarily long id list by
// splitting it into provider-legal chunks and recombining partial results.
type MetricAggregator interface {
	AggregateMetrics(ctx context.Context, channelID string, videoIDs []string, rng model.DateRange) (model.MetricSet, error)
}

type chunkedAggregator struct {
	analytics adapter.AnalyticsAdapter
	ledger    *quota.Ledger
	chunkSize int

	log *zerolog.Logger
}

func NewChunkedAggregator(analytics adapter.AnalyticsAdapter, ledger *quota.Ledger, chunkSize int, logger *zerolog.Logger) *chunkedAggregator {
	if chunkSize <= 0 || chunkSize > 200 {
		chunkSize = 200
	}
	return &chunkedAggregator{analytics: analytics, ledger: ledger, chunkSize: chunkSize, log: logger}
}

// AggregateMetrics issues one analytics query per chunk and combines the
// partials. When every chunk comes back empty the result is an explicit
// zero-valued set, never an absent one.
func (c *chunkedAggregator) AggregateMetrics(ctx context.Context, channelID string, videoIDs []string, rng model.DateRange) (model.MetricSet, error) {
	chunks := chunkIDs(videoIDs, c.chunkSize)
	parts := make([]model.MetricSet, 0, len(chunks))

	for i, chunk := range chunks {
		set, hasRows, err := c.analytics.QueryMetrics(ctx, adapter.MetricsQuery{
			ChannelID: channelID,
			VideoIDs:  chunk,
			Start:     rng.Start,
			End:       rng.End,
		})
		c.ledger.Record(quota.ActionAnalytics, quota.CostAnalyticsQuery,
			fmt.Sprintf("chunk %d/%d (%d videos) %s", i+1, len(chunks), len(chunk), rng.Label))
		if err != nil {
			return model.MetricSet{}, err
		}
		if hasRows {
			parts = append(parts, set)
		}
	}
	return combineMetrics(parts), nil
}

// chunkIDs splits ids into sub-lists no longer than size.
func chunkIDs(ids []string, size int) [][]string {
	if len(ids) == 0 {
		return nil
	}
	chunks := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

// combineMetrics sums additive metrics and takes a views-weighted mean of
// the rate metrics, so chunking never changes the combined outcome. With
// zero total views the weighted mean falls back to zero rather than an
// unweighted average that would bias toward low-traffic chunks.
func combineMetrics(parts []model.MetricSet) model.MetricSet {
	out := model.MetricSet{}
	var weightedDuration, weightedPercentage float64
	for _, p := range parts {
		out.Views += p.Views
		out.EstimatedMinutesWatched += p.EstimatedMinutesWatched
		out.Likes += p.Likes
		out.Comments += p.Comments
		out.Shares += p.Shares
		out.SubscribersGained += p.SubscribersGained
		weightedDuration += float64(p.Views) * p.AverageViewDuration
		weightedPercentage += float64(p.Views) * p.AverageViewPercentage
	}
	if out.Views > 0 {
		out.AverageViewDuration = weightedDuration / float64(out.Views)
		out.AverageViewPercentage = weightedPercentage / float64(out.Views)
	}
	return out
}
