// File: internal/infra/adapters/video/analytics_adapter.go
package video

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ai-video-writer/internal/domain/model"
	"ai-video-writer/internal/domain/ports/adapter"
	"ai-video-writer/internal/infra/metrics"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.AnalyticsAdapter = (*AnalyticsAdapter)(nil)

const analyticsMetrics = "views,estimatedMinutesWatched,averageViewDuration,averageViewPercentage,likes,comments,shares,subscribersGained"

// AnalyticsAdapter queries the provider's analytics API for a fixed metric
// set over a video id list and date window.
type AnalyticsAdapter struct {
	apiKey string
	base   string // e.g., https://youtubeanalytics.googleapis.com/v2
	client *http.Client
}

func NewAnalyticsAdapter(apiKey, base string, timeout time.Duration) (*AnalyticsAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("analytics api key empty")
	}
	if base == "" {
		base = "https://youtubeanalytics.googleapis.com/v2"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &AnalyticsAdapter{
		apiKey: apiKey,
		base:   strings.TrimRight(base, "/"),
		client: &http.Client{Timeout: timeout},
	}, nil
}

func (a *AnalyticsAdapter) QueryMetrics(ctx context.Context, query adapter.MetricsQuery) (model.MetricSet, bool, error) {
	q := url.Values{}
	q.Set("ids", "channel=="+query.ChannelID)
	q.Set("metrics", analyticsMetrics)
	q.Set("startDate", query.Start.Format("2006-01-02"))
	q.Set("endDate", query.End.Format("2006-01-02"))
	if len(query.VideoIDs) > 0 {
		q.Set("filters", "video=="+strings.Join(query.VideoIDs, ","))
	}
	q.Set("key", a.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.base+"/reports?"+q.Encode(), nil)
	if err != nil {
		return model.MetricSet{}, false, err
	}

	start := time.Now()
	resp, err := a.client.Do(req)
	latency := int(time.Since(start) / time.Millisecond)
	if err != nil {
		metrics.ObserveProviderCall("analytics.query", latency, false)
		return model.MetricSet{}, false, fmt.Errorf("analytics.query: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ObserveProviderCall("analytics.query", latency, false)
		return model.MetricSet{}, false, classifyHTTPError("analytics.query", resp)
	}
	metrics.ObserveProviderCall("analytics.query", latency, true)

	var body struct {
		ColumnHeaders []struct {
			Name string `json:"name"`
		} `json:"columnHeaders"`
		Rows [][]float64 `json:"rows"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return model.MetricSet{}, false, err
	}
	if len(body.Rows) == 0 {
		return model.MetricSet{}, false, nil
	}

	// A totals query yields a single row in header order.
	set := model.MetricSet{}
	row := body.Rows[0]
	for i, h := range body.ColumnHeaders {
		if i >= len(row) {
			break
		}
		v := row[i]
		switch h.Name {
		case "views":
			set.Views = int64(v)
		case "estimatedMinutesWatched":
			set.EstimatedMinutesWatched = int64(v)
		case "averageViewDuration":
			set.AverageViewDuration = v
		case "averageViewPercentage":
			set.AverageViewPercentage = v
		case "likes":
			set.Likes = int64(v)
		case "comments":
			set.Comments = int64(v)
		case "shares":
			set.Shares = int64(v)
		case "subscribersGained":
			set.SubscribersGained = int64(v)
		}
	}
	return set, true, nil
}
