package model

import "time"

type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityUnlisted Visibility = "unlisted"
	VisibilityPrivate  Visibility = "private"
)

// VideoItem is one discoverable video of a channel. Items are never mutated
// after a discovery pass produces them.
type VideoItem struct {
	VideoID      string     `json:"video_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Tags         []string   `json:"tags,omitempty"`
	PublishedAt  time.Time  `json:"published_at"`
	Visibility   Visibility `json:"visibility"`
	ThumbnailURL string     `json:"thumbnail_url,omitempty"`
}
