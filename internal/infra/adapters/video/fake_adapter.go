package video

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"ai-video-writer/internal/domain/model"
	"ai-video-writer/internal/domain/ports/adapter"
)

var (
	_ adapter.VideoDataAdapter = (*FakeAdapter)(nil)
	_ adapter.AnalyticsAdapter = (*FakeAdapter)(nil)
)

// FakeAdapter serves deterministic synthetic data for dev mode. Metrics are
// derived from the id hash so repeated runs stay stable.
type FakeAdapter struct {
	CatalogSize int
}

func NewFakeAdapter(catalogSize int) *FakeAdapter {
	if catalogSize <= 0 {
		catalogSize = 120
	}
	return &FakeAdapter{CatalogSize: catalogSize}
}

func (f *FakeAdapter) SearchVideos(ctx context.Context, channelID, keyword, pageToken string, pageSize int) (adapter.SearchPage, error) {
	// Pretend search finds nothing, exercising the enumeration fallback.
	return adapter.SearchPage{}, nil
}

func (f *FakeAdapter) ListUploads(ctx context.Context, channelID, pageToken string, pageSize int) (adapter.ListPage, error) {
	start := 0
	if pageToken != "" {
		fmt.Sscanf(pageToken, "page-%d", &start)
	}
	page := adapter.ListPage{}
	for i := start; i < f.CatalogSize && len(page.VideoIDs) < pageSize; i++ {
		page.VideoIDs = append(page.VideoIDs, fmt.Sprintf("%s-video-%03d", channelID, i))
	}
	if next := start + len(page.VideoIDs); next < f.CatalogSize {
		page.NextPageToken = fmt.Sprintf("page-%d", next)
	}
	return page, nil
}

func (f *FakeAdapter) VideoDetails(ctx context.Context, videoIDs []string) ([]model.VideoItem, error) {
	items := make([]model.VideoItem, 0, len(videoIDs))
	for _, id := range videoIDs {
		items = append(items, model.VideoItem{
			VideoID:     id,
			Title:       "Sample video " + id,
			Description: "Synthetic dev-mode video " + id,
			Tags:        []string{"sample", "dev"},
			PublishedAt: time.Now().AddDate(0, 0, -int(hash(id)%365)),
			Visibility:  model.VisibilityPublic,
		})
	}
	return items, nil
}

func (f *FakeAdapter) QueryMetrics(ctx context.Context, q adapter.MetricsQuery) (model.MetricSet, bool, error) {
	if len(q.VideoIDs) == 0 {
		return model.MetricSet{}, false, nil
	}
	set := model.MetricSet{}
	for _, id := range q.VideoIDs {
		h := hash(id)
		views := int64(h%5000) + 50
		set.Views += views
		set.EstimatedMinutesWatched += views / 3
		set.Likes += views / 25
		set.Comments += views / 120
		set.Shares += views / 200
		set.SubscribersGained += views / 500
	}
	set.AverageViewDuration = 180 + float64(hash(q.ChannelID)%120)
	set.AverageViewPercentage = 35 + float64(hash(q.ChannelID)%40)
	return set, true, nil
}

func hash(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}
