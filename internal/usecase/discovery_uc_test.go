//go:build !integration

package usecase

import (
	"context"
	"errors"
	"testing"

	"ai-video-writer/internal/domain/model"
	"ai-video-writer/internal/domain/ports/adapter"
	"ai-video-writer/internal/infra/quota"
)

func itemsFor(ids ...string) []model.VideoItem {
	out := make([]model.VideoItem, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.VideoItem{VideoID: id, Title: "video " + id})
	}
	return out
}

func TestDiscover(t *testing.T) {
	opts := DiscoveryOptions{PageSize: 50, MaxListPages: 300, MaxSearchPages: 5}

	t.Run("targeted search result is used without enumeration", func(t *testing.T) {
		// --- Arrange ---
		data := &mockVideoData{
			SearchVideosFunc: func(ctx context.Context, channelID, keyword, pageToken string, pageSize int) (adapter.SearchPage, error) {
				return adapter.SearchPage{VideoIDs: []string{"v1", "v2"}}, nil
			},
		}
		ledger := quota.NewLedger()
		uc := NewDiscoveryUseCase(data, nil, ledger, opts, newTestLogger())

		// --- Act ---
		items, err := uc.Discover(context.Background(), "UC123", "golang")

		// --- Assert ---
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(items))
		}
		if data.listCalls != 0 {
			t.Errorf("search succeeded; enumeration must not run")
		}
		snap := ledger.Snapshot()
		if snap.Totals[quota.ActionSearch] != quota.CostSearchPage {
			t.Errorf("search cost = %d, want %d", snap.Totals[quota.ActionSearch], quota.CostSearchPage)
		}
		if snap.Totals[quota.ActionDetails] != quota.CostDetailsBatch {
			t.Errorf("details cost = %d, want %d", snap.Totals[quota.ActionDetails], quota.CostDetailsBatch)
		}
	})

	t.Run("zero-result search falls back to enumeration with a local filter", func(t *testing.T) {
		data := &mockVideoData{
			SearchVideosFunc: func(ctx context.Context, channelID, keyword, pageToken string, pageSize int) (adapter.SearchPage, error) {
				return adapter.SearchPage{}, nil
			},
			ListUploadsFunc: func(ctx context.Context, channelID, pageToken string, pageSize int) (adapter.ListPage, error) {
				return adapter.ListPage{VideoIDs: []string{"v1", "v2", "v3"}}, nil
			},
			VideoDetailsFunc: func(ctx context.Context, videoIDs []string) ([]model.VideoItem, error) {
				return []model.VideoItem{
					{VideoID: "v1", Title: "Learning Golang fast"},
					{VideoID: "v2", Title: "Cooking pasta", Tags: []string{"food"}},
					{VideoID: "v3", Title: "Misc", Description: "a GOLANG deep dive"},
				}, nil
			},
		}
		uc := NewDiscoveryUseCase(data, nil, quota.NewLedger(), opts, newTestLogger())

		items, err := uc.Discover(context.Background(), "UC123", "golang")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if data.searchCalls != 1 {
			t.Errorf("search must run exactly once before the fallback, got %d calls", data.searchCalls)
		}
		if data.listCalls != 1 {
			t.Errorf("expected one listing page, got %d", data.listCalls)
		}
		if len(items) != 2 {
			t.Fatalf("local filter should keep v1 and v3, got %d items", len(items))
		}
		if items[0].VideoID != "v1" || items[1].VideoID != "v3" {
			t.Errorf("wrong items kept: %v", items)
		}
	})

	t.Run("a failed search is not retried; enumeration takes over", func(t *testing.T) {
		data := &mockVideoData{
			SearchVideosFunc: func(ctx context.Context, channelID, keyword, pageToken string, pageSize int) (adapter.SearchPage, error) {
				return adapter.SearchPage{}, errors.New("backend hiccup")
			},
			ListUploadsFunc: func(ctx context.Context, channelID, pageToken string, pageSize int) (adapter.ListPage, error) {
				return adapter.ListPage{VideoIDs: []string{"v1"}}, nil
			},
			VideoDetailsFunc: func(ctx context.Context, videoIDs []string) ([]model.VideoItem, error) {
				return []model.VideoItem{{VideoID: "v1", Title: "golang"}}, nil
			},
		}
		uc := NewDiscoveryUseCase(data, nil, quota.NewLedger(), opts, newTestLogger())

		items, err := uc.Discover(context.Background(), "UC123", "golang")
		if err != nil {
			t.Fatalf("fallback should hide the search failure, got %v", err)
		}
		if data.searchCalls != 1 {
			t.Errorf("expected a single search attempt, got %d", data.searchCalls)
		}
		if len(items) != 1 {
			t.Errorf("expected the enumerated item, got %d", len(items))
		}
	})

	t.Run("empty keyword skips search entirely", func(t *testing.T) {
		data := &mockVideoData{
			ListUploadsFunc: func(ctx context.Context, channelID, pageToken string, pageSize int) (adapter.ListPage, error) {
				return adapter.ListPage{VideoIDs: []string{"v1", "v2"}}, nil
			},
		}
		uc := NewDiscoveryUseCase(data, nil, quota.NewLedger(), opts, newTestLogger())

		items, err := uc.Discover(context.Background(), "UC123", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if data.searchCalls != 0 {
			t.Errorf("no keyword, no search; got %d calls", data.searchCalls)
		}
		if len(items) != 2 {
			t.Errorf("expected the full catalog, got %d", len(items))
		}
	})

	t.Run("enumeration pages until the token runs out", func(t *testing.T) {
		pages := map[string][]string{
			"":       {"v1", "v2"},
			"page-2": {"v3", "v4"},
			"page-3": {"v5"},
		}
		next := map[string]string{"": "page-2", "page-2": "page-3", "page-3": ""}
		data := &mockVideoData{
			ListUploadsFunc: func(ctx context.Context, channelID, pageToken string, pageSize int) (adapter.ListPage, error) {
				return adapter.ListPage{VideoIDs: pages[pageToken], NextPageToken: next[pageToken]}, nil
			},
		}
		ledger := quota.NewLedger()
		uc := NewDiscoveryUseCase(data, nil, ledger, opts, newTestLogger())

		items, err := uc.Discover(context.Background(), "UC123", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(items) != 5 {
			t.Errorf("expected 5 items across 3 pages, got %d", len(items))
		}
		if got := ledger.Snapshot().Totals[quota.ActionList]; got != 3*quota.CostListPage {
			t.Errorf("list cost = %d, want %d", got, 3*quota.CostListPage)
		}
	})

	t.Run("page ceiling stops a runaway walk and keeps the partial", func(t *testing.T) {
		data := &mockVideoData{
			ListUploadsFunc: func(ctx context.Context, channelID, pageToken string, pageSize int) (adapter.ListPage, error) {
				// Never terminates on its own.
				return adapter.ListPage{VideoIDs: []string{"v-" + pageToken}, NextPageToken: pageToken + "x"}, nil
			},
		}
		capped := DiscoveryOptions{PageSize: 50, MaxListPages: 3, MaxSearchPages: 5}
		uc := NewDiscoveryUseCase(data, nil, quota.NewLedger(), capped, newTestLogger())

		items, err := uc.Discover(context.Background(), "UC123", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if data.listCalls != 3 {
			t.Errorf("expected the walk to stop at 3 pages, got %d", data.listCalls)
		}
		if len(items) != 3 {
			t.Errorf("partial catalog should be kept, got %d items", len(items))
		}
	})

	t.Run("mid-walk failure keeps the pages already collected", func(t *testing.T) {
		data := &mockVideoData{
			ListUploadsFunc: func(ctx context.Context, channelID, pageToken string, pageSize int) (adapter.ListPage, error) {
				if pageToken == "" {
					return adapter.ListPage{VideoIDs: []string{"v1", "v2"}, NextPageToken: "page-2"}, nil
				}
				return adapter.ListPage{}, errors.New("transient")
			},
		}
		uc := NewDiscoveryUseCase(data, nil, quota.NewLedger(), opts, newTestLogger())

		items, err := uc.Discover(context.Background(), "UC123", "")
		if err != nil {
			t.Fatalf("partial catalog should not surface an error, got %v", err)
		}
		if len(items) != 2 {
			t.Errorf("expected the first page's items, got %d", len(items))
		}
	})

	t.Run("first-page failure surfaces the error", func(t *testing.T) {
		data := &mockVideoData{
			ListUploadsFunc: func(ctx context.Context, channelID, pageToken string, pageSize int) (adapter.ListPage, error) {
				return adapter.ListPage{}, errors.New("provider down")
			},
		}
		uc := NewDiscoveryUseCase(data, nil, quota.NewLedger(), opts, newTestLogger())

		if _, err := uc.Discover(context.Background(), "UC123", ""); err == nil {
			t.Fatalf("expected the enumeration error to surface")
		}
	})

	t.Run("duplicate ids collapse to the first occurrence", func(t *testing.T) {
		data := &mockVideoData{
			SearchVideosFunc: func(ctx context.Context, channelID, keyword, pageToken string, pageSize int) (adapter.SearchPage, error) {
				if pageToken == "" {
					return adapter.SearchPage{VideoIDs: []string{"v1", "v2"}, NextPageToken: "page-2"}, nil
				}
				return adapter.SearchPage{VideoIDs: []string{"v2", "v3"}}, nil
			},
		}
		uc := NewDiscoveryUseCase(data, nil, quota.NewLedger(), opts, newTestLogger())

		items, err := uc.Discover(context.Background(), "UC123", "golang")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(items) != 3 {
			t.Fatalf("expected 3 distinct items, got %d", len(items))
		}
		seen := map[string]bool{}
		for _, it := range items {
			if seen[it.VideoID] {
				t.Errorf("duplicate id survived: %s", it.VideoID)
			}
			seen[it.VideoID] = true
		}
	})

	t.Run("catalog cache short-circuits the listing walk", func(t *testing.T) {
		catalog := newMockCatalog()
		_ = catalog.StoreCatalog(context.Background(), "UC123", itemsFor("v1", "v2"))
		catalog.stores = 0
		data := &mockVideoData{}
		uc := NewDiscoveryUseCase(data, catalog, quota.NewLedger(), opts, newTestLogger())

		items, err := uc.Discover(context.Background(), "UC123", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if data.listCalls != 0 {
			t.Errorf("cached catalog must skip enumeration, got %d list calls", data.listCalls)
		}
		if len(items) != 2 {
			t.Errorf("expected cached items, got %d", len(items))
		}
	})

	t.Run("a complete walk refreshes the catalog cache", func(t *testing.T) {
		catalog := newMockCatalog()
		data := &mockVideoData{
			ListUploadsFunc: func(ctx context.Context, channelID, pageToken string, pageSize int) (adapter.ListPage, error) {
				return adapter.ListPage{VideoIDs: []string{"v1"}}, nil
			},
		}
		uc := NewDiscoveryUseCase(data, catalog, quota.NewLedger(), opts, newTestLogger())

		if _, err := uc.Discover(context.Background(), "UC123", ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if catalog.stores != 1 {
			t.Errorf("expected one catalog store after a complete walk, got %d", catalog.stores)
		}
	})
}
