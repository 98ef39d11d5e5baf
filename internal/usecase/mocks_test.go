//go:build !integration

package usecase

import (
	"context"
	"errors"
	"sync"

	"ai-video-writer/internal/domain/model"
	"ai-video-writer/internal/domain/ports/adapter"
	"ai-video-writer/internal/domain/ports/repository"

	"github.com/rs/zerolog"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// ---- video data mock ----

type mockVideoData struct {
	SearchVideosFunc func(ctx context.Context, channelID, keyword, pageToken string, pageSize int) (adapter.SearchPage, error)
	ListUploadsFunc  func(ctx context.Context, channelID, pageToken string, pageSize int) (adapter.ListPage, error)
	VideoDetailsFunc func(ctx context.Context, videoIDs []string) ([]model.VideoItem, error)

	mu           sync.Mutex
	searchCalls  int
	listCalls    int
	detailsCalls int
}

var _ adapter.VideoDataAdapter = (*mockVideoData)(nil)

func (m *mockVideoData) SearchVideos(ctx context.Context, channelID, keyword, pageToken string, pageSize int) (adapter.SearchPage, error) {
	m.mu.Lock()
	m.searchCalls++
	m.mu.Unlock()
	if m.SearchVideosFunc != nil {
		return m.SearchVideosFunc(ctx, channelID, keyword, pageToken, pageSize)
	}
	return adapter.SearchPage{}, nil
}

func (m *mockVideoData) ListUploads(ctx context.Context, channelID, pageToken string, pageSize int) (adapter.ListPage, error) {
	m.mu.Lock()
	m.listCalls++
	m.mu.Unlock()
	if m.ListUploadsFunc != nil {
		return m.ListUploadsFunc(ctx, channelID, pageToken, pageSize)
	}
	return adapter.ListPage{}, nil
}

func (m *mockVideoData) VideoDetails(ctx context.Context, videoIDs []string) ([]model.VideoItem, error) {
	m.mu.Lock()
	m.detailsCalls++
	m.mu.Unlock()
	if m.VideoDetailsFunc != nil {
		return m.VideoDetailsFunc(ctx, videoIDs)
	}
	// Default: echo minimal items for the requested ids.
	items := make([]model.VideoItem, 0, len(videoIDs))
	for _, id := range videoIDs {
		items = append(items, model.VideoItem{VideoID: id, Title: "video " + id})
	}
	return items, nil
}

// ---- analytics mock ----

type mockAnalytics struct {
	QueryMetricsFunc func(ctx context.Context, q adapter.MetricsQuery) (model.MetricSet, bool, error)

	mu      sync.Mutex
	queries []adapter.MetricsQuery
}

var _ adapter.AnalyticsAdapter = (*mockAnalytics)(nil)

func (m *mockAnalytics) QueryMetrics(ctx context.Context, q adapter.MetricsQuery) (model.MetricSet, bool, error) {
	m.mu.Lock()
	m.queries = append(m.queries, q)
	m.mu.Unlock()
	if m.QueryMetricsFunc != nil {
		return m.QueryMetricsFunc(ctx, q)
	}
	return model.MetricSet{}, false, nil
}

func (m *mockAnalytics) queryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queries)
}

// ---- AI mock ----

type mockAI struct {
	CountTokensFunc   func(ctx context.Context, modelName string, messages []adapter.Message) (int, error)
	ChatWithUsageFunc func(ctx context.Context, modelName string, messages []adapter.Message) (string, adapter.Usage, error)
}

var _ adapter.AIServiceAdapter = (*mockAI)(nil)

func (m *mockAI) ListModels(ctx context.Context) ([]string, error) {
	return []string{"mock-model"}, nil
}

func (m *mockAI) CountTokens(ctx context.Context, modelName string, messages []adapter.Message) (int, error) {
	if m.CountTokensFunc != nil {
		return m.CountTokensFunc(ctx, modelName, messages)
	}
	return 100, nil
}

func (m *mockAI) Chat(ctx context.Context, modelName string, messages []adapter.Message) (string, error) {
	text, _, err := m.ChatWithUsage(ctx, modelName, messages)
	return text, err
}

func (m *mockAI) ChatWithUsage(ctx context.Context, modelName string, messages []adapter.Message) (string, adapter.Usage, error) {
	if m.ChatWithUsageFunc != nil {
		return m.ChatWithUsageFunc(ctx, modelName, messages)
	}
	return "# Article\n\nbody", adapter.Usage{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150}, nil
}

// ---- publisher mock ----

type mockPublisher struct {
	PublishArticleFunc func(ctx context.Context, title, markdown string) (string, error)

	mu        sync.Mutex
	published int
}

var _ adapter.PublisherAdapter = (*mockPublisher)(nil)

func (m *mockPublisher) PublishArticle(ctx context.Context, title, markdown string) (string, error) {
	m.mu.Lock()
	m.published++
	m.mu.Unlock()
	if m.PublishArticleFunc != nil {
		return m.PublishArticleFunc(ctx, title, markdown)
	}
	return "https://example.invalid/articles/1", nil
}

// ---- catalog cache mock ----

type mockCatalog struct {
	mu    sync.Mutex
	store map[string][]model.VideoItem

	gets   int
	stores int
}

var _ repository.CatalogCache = (*mockCatalog)(nil)

func newMockCatalog() *mockCatalog {
	return &mockCatalog{store: make(map[string][]model.VideoItem)}
}

func (m *mockCatalog) GetCatalog(ctx context.Context, channelID string) ([]model.VideoItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	items, ok := m.store[channelID]
	if !ok {
		return nil, errors.New("not found")
	}
	return items, nil
}

func (m *mockCatalog) StoreCatalog(ctx context.Context, channelID string, items []model.VideoItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stores++
	m.store[channelID] = items
	return nil
}

func (m *mockCatalog) DeleteCatalog(ctx context.Context, channelID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, channelID)
	return nil
}
