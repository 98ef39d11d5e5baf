package redis

import (
	"context"
	"encoding/json"
	"time"

	"ai-video-writer/internal/domain"
	"ai-video-writer/internal/domain/model"
	"ai-video-writer/internal/domain/ports/repository"
)

// Compile-time check
var _ repository.CatalogCache = (*CatalogCache)(nil)

// CatalogCache persists a channel's enumerated catalog as one versioned JSON
// document per channel, so restarts don't re-walk the whole upload listing.
type CatalogCache struct {
	client RedisClient
	ttl    time.Duration
}

func NewCatalogCache(client RedisClient, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		client: client,
		ttl:    ttl,
	}
}

type catalogDoc struct {
	Version  int               `json:"version"`
	StoredAt time.Time         `json:"stored_at"`
	Items    []model.VideoItem `json:"items"`
}

func (c *CatalogCache) StoreCatalog(ctx context.Context, channelID string, items []model.VideoItem) error {
	key := "video_catalog:" + channelID
	data, err := json.Marshal(catalogDoc{Version: 1, StoredAt: time.Now(), Items: items})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl)
}

func (c *CatalogCache) GetCatalog(ctx context.Context, channelID string) ([]model.VideoItem, error) {
	key := "video_catalog:" + channelID
	data, err := c.client.Get(ctx, key)
	if err != nil {
		if IsNil(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	var doc catalogDoc
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return nil, err
	}
	return doc.Items, nil
}

func (c *CatalogCache) DeleteCatalog(ctx context.Context, channelID string) error {
	return c.client.Del(ctx, "video_catalog:"+channelID)
}
