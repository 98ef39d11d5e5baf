package repository

import (
	"context"

	"ai-video-writer/internal/domain/model"
)

// CatalogCache durably stores a channel's enumerated catalog between process
// restarts, so a full re-walk of the upload listing is not needed every run.
// This is distinct from the in-memory report result cache.
type CatalogCache interface {
	GetCatalog(ctx context.Context, channelID string) ([]model.VideoItem, error)
	StoreCatalog(ctx context.Context, channelID string, items []model.VideoItem) error
	DeleteCatalog(ctx context.Context, channelID string) error
}
