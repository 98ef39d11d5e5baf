package adapter

import (
	"context"
	"time"

	"ai-video-writer/internal/domain/model"
)

// SearchPage is one page of targeted search results.
type SearchPage struct {
	VideoIDs      []string
	NextPageToken string
}

// ListPage is one page of a channel's upload enumeration. Enumeration is
// forward-only; there is no random access into the listing.
type ListPage struct {
	VideoIDs      []string
	NextPageToken string
}

// VideoDataAdapter is the port for the video-hosting data API.
type VideoDataAdapter interface {
	// SearchVideos runs a targeted keyword search restricted to one channel.
	SearchVideos(ctx context.Context, channelID, keyword, pageToken string, pageSize int) (SearchPage, error)

	// ListUploads walks the channel's upload listing one page at a time.
	ListUploads(ctx context.Context, channelID, pageToken string, pageSize int) (ListPage, error)

	// VideoDetails fetches full metadata for up to the provider's per-request
	// id limit in a single batched call.
	VideoDetails(ctx context.Context, videoIDs []string) ([]model.VideoItem, error)
}

// MetricsQuery describes one analytics request.
type MetricsQuery struct {
	ChannelID string
	VideoIDs  []string
	Start     time.Time
	End       time.Time
}

// AnalyticsAdapter is the port for the video analytics API.
//
// QueryMetrics reports hasRows=false when the provider returned no data rows
// for the query; callers still get a zero-valued MetricSet in that case.
// Implementations must surface rate/quota limits as domain.ErrQuotaExceeded
// (wrapped is fine) so callers can tell them apart from generic failures.
type AnalyticsAdapter interface {
	QueryMetrics(ctx context.Context, q MetricsQuery) (set model.MetricSet, hasRows bool, err error)
}
