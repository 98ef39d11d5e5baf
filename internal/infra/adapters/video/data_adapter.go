// File: internal/infra/adapters/video/data_adapter.go
package video

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ai-video-writer/internal/domain"
	"ai-video-writer/internal/domain/model"
	"ai-video-writer/internal/domain/ports/adapter"
	"ai-video-writer/internal/infra/metrics"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.VideoDataAdapter = (*DataAdapter)(nil)

// DataAdapter talks to the hosting provider's Data API (v3-compatible).
// Search goes through /search; enumeration walks the channel's uploads
// playlist via /playlistItems; details are batched through /videos.
type DataAdapter struct {
	apiKey string
	base   string // e.g., https://www.googleapis.com/youtube/v3
	client *http.Client
}

func NewDataAdapter(apiKey, base string, timeout time.Duration) (*DataAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("video data api key empty")
	}
	if base == "" {
		base = "https://www.googleapis.com/youtube/v3"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &DataAdapter{
		apiKey: apiKey,
		base:   strings.TrimRight(base, "/"),
		client: &http.Client{Timeout: timeout},
	}, nil
}

func (d *DataAdapter) SearchVideos(ctx context.Context, channelID, keyword, pageToken string, pageSize int) (adapter.SearchPage, error) {
	q := url.Values{}
	q.Set("part", "id")
	q.Set("type", "video")
	q.Set("channelId", channelID)
	q.Set("q", keyword)
	q.Set("maxResults", fmt.Sprint(pageSize))
	if pageToken != "" {
		q.Set("pageToken", pageToken)
	}

	var body struct {
		NextPageToken string `json:"nextPageToken"`
		Items         []struct {
			ID struct {
				VideoID string `json:"videoId"`
			} `json:"id"`
		} `json:"items"`
	}
	if err := d.get(ctx, "search.list", "/search", q, &body); err != nil {
		return adapter.SearchPage{}, err
	}

	page := adapter.SearchPage{NextPageToken: body.NextPageToken}
	for _, it := range body.Items {
		if it.ID.VideoID != "" {
			page.VideoIDs = append(page.VideoIDs, it.ID.VideoID)
		}
	}
	return page, nil
}

func (d *DataAdapter) ListUploads(ctx context.Context, channelID, pageToken string, pageSize int) (adapter.ListPage, error) {
	q := url.Values{}
	q.Set("part", "contentDetails")
	q.Set("playlistId", uploadsPlaylistID(channelID))
	q.Set("maxResults", fmt.Sprint(pageSize))
	if pageToken != "" {
		q.Set("pageToken", pageToken)
	}

	var body struct {
		NextPageToken string `json:"nextPageToken"`
		Items         []struct {
			ContentDetails struct {
				VideoID string `json:"videoId"`
			} `json:"contentDetails"`
		} `json:"items"`
	}
	if err := d.get(ctx, "playlistItems.list", "/playlistItems", q, &body); err != nil {
		return adapter.ListPage{}, err
	}

	page := adapter.ListPage{NextPageToken: body.NextPageToken}
	for _, it := range body.Items {
		if it.ContentDetails.VideoID != "" {
			page.VideoIDs = append(page.VideoIDs, it.ContentDetails.VideoID)
		}
	}
	return page, nil
}

func (d *DataAdapter) VideoDetails(ctx context.Context, videoIDs []string) ([]model.VideoItem, error) {
	if len(videoIDs) == 0 {
		return nil, nil
	}
	q := url.Values{}
	q.Set("part", "snippet,status")
	q.Set("id", strings.Join(videoIDs, ","))

	var body struct {
		Items []struct {
			ID      string `json:"id"`
			Snippet struct {
				Title       string    `json:"title"`
				Description string    `json:"description"`
				Tags        []string  `json:"tags"`
				PublishedAt time.Time `json:"publishedAt"`
				Thumbnails  struct {
					High struct {
						URL string `json:"url"`
					} `json:"high"`
				} `json:"thumbnails"`
			} `json:"snippet"`
			Status struct {
				PrivacyStatus string `json:"privacyStatus"`
			} `json:"status"`
		} `json:"items"`
	}
	if err := d.get(ctx, "videos.list", "/videos", q, &body); err != nil {
		return nil, err
	}

	items := make([]model.VideoItem, 0, len(body.Items))
	for _, it := range body.Items {
		items = append(items, model.VideoItem{
			VideoID:      it.ID,
			Title:        it.Snippet.Title,
			Description:  it.Snippet.Description,
			Tags:         it.Snippet.Tags,
			PublishedAt:  it.Snippet.PublishedAt,
			Visibility:   model.Visibility(it.Status.PrivacyStatus),
			ThumbnailURL: it.Snippet.Thumbnails.High.URL,
		})
	}
	return items, nil
}

// get issues one API call and decodes the JSON body into out.
func (d *DataAdapter) get(ctx context.Context, call, path string, q url.Values, out any) error {
	q.Set("key", d.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.base+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := d.client.Do(req)
	latency := int(time.Since(start) / time.Millisecond)
	if err != nil {
		metrics.ObserveProviderCall(call, latency, false)
		return fmt.Errorf("%s: %w", call, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ObserveProviderCall(call, latency, false)
		return classifyHTTPError(call, resp)
	}
	metrics.ObserveProviderCall(call, latency, true)
	return json.NewDecoder(resp.Body).Decode(out)
}

// uploadsPlaylistID maps a channel id to its uploads playlist
// ("UC..." -> "UU..."); anything else is assumed to already be a playlist id.
func uploadsPlaylistID(channelID string) string {
	if strings.HasPrefix(channelID, "UC") {
		return "UU" + channelID[2:]
	}
	return channelID
}

// classifyHTTPError maps rate/quota responses to domain.ErrQuotaExceeded so
// callers can show a "try again later" message instead of a generic failure.
func classifyHTTPError(call string, resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	body := string(b)
	if resp.StatusCode == http.StatusTooManyRequests ||
		(resp.StatusCode == http.StatusForbidden && strings.Contains(body, "quota")) {
		return fmt.Errorf("%s: %w", call, domain.ErrQuotaExceeded)
	}
	return fmt.Errorf("%s: status %d: %s", call, resp.StatusCode, strings.TrimSpace(body))
}
