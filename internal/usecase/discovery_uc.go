package usecase

import (
	"context"
	"strings"

	"ai-video-writer/internal/domain/model"
	"ai-video-writer/internal/domain/ports/adapter"
	"ai-video-writer/internal/domain/ports/repository"
	"ai-video-writer/internal/infra/quota"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ DiscoveryUseCase = (*discoveryUC)(nil)

// DiscoveryUseCase resolves the set of videos matching a keyword filter.
type DiscoveryUseCase interface {
	Discover(ctx context.Context, channelID, keyword string) ([]model.VideoItem, error)
}

// DiscoveryOptions bound the provider calls one pass may issue.
type DiscoveryOptions struct {
	PageSize       int // listing/search page size
	MaxListPages   int // enumeration safety ceiling
	MaxSearchPages int // targeted search ceiling
}

type discoveryUC struct {
	data    adapter.VideoDataAdapter
	catalog repository.CatalogCache // optional; nil disables the durable cache
	ledger  *quota.Ledger
	opts    DiscoveryOptions

	log *zerolog.Logger
}

func NewDiscoveryUseCase(data adapter.VideoDataAdapter, catalog repository.CatalogCache, ledger *quota.Ledger, opts DiscoveryOptions, logger *zerolog.Logger) *discoveryUC {
	if opts.PageSize <= 0 {
		opts.PageSize = 50
	}
	if opts.MaxListPages <= 0 {
		opts.MaxListPages = 300
	}
	if opts.MaxSearchPages <= 0 {
		opts.MaxSearchPages = 5
	}
	return &discoveryUC{data: data, catalog: catalog, ledger: ledger, opts: opts, log: logger}
}

// Discover tries the targeted search first; when search yields nothing or
// errors, it falls back to full enumeration plus local filtering. Search is
// not retried before falling back: a failed 100-unit call is cheaper to
// replace with a listing walk than to repeat.
func (d *discoveryUC) Discover(ctx context.Context, channelID, keyword string) ([]model.VideoItem, error) {
	if keyword != "" {
		items, ok := d.searchPass(ctx, channelID, keyword)
		if ok && len(items) > 0 {
			return dedupeByID(items), nil
		}
		d.log.Info().Str("channel_id", channelID).Str("keyword", keyword).
			Msg("targeted search yielded nothing; falling back to enumeration")
	}

	items, err := d.enumerate(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if keyword != "" {
		items = filterByKeyword(items, keyword)
	}
	return dedupeByID(items), nil
}

// searchPass returns ok=false when the search call failed; errors are
// swallowed here because enumeration can still produce a result.
func (d *discoveryUC) searchPass(ctx context.Context, channelID, keyword string) ([]model.VideoItem, bool) {
	var items []model.VideoItem
	pageToken := ""
	for page := 0; page < d.opts.MaxSearchPages; page++ {
		res, err := d.data.SearchVideos(ctx, channelID, keyword, pageToken, d.opts.PageSize)
		d.ledger.Record(quota.ActionSearch, quota.CostSearchPage, "channel "+channelID+" q="+keyword)
		if err != nil {
			d.log.Warn().Err(err).Str("channel_id", channelID).Msg("targeted search failed")
			return nil, false
		}
		if len(res.VideoIDs) > 0 {
			details, err := d.data.VideoDetails(ctx, res.VideoIDs)
			d.ledger.Record(quota.ActionDetails, quota.CostDetailsBatch, "search details")
			if err != nil {
				d.log.Warn().Err(err).Msg("search detail batch failed")
				return nil, false
			}
			items = append(items, details...)
		}
		pageToken = res.NextPageToken
		if pageToken == "" {
			break
		}
	}
	return items, true
}

// enumerate walks the full upload listing, consulting the durable catalog
// cache first and refreshing it after a complete walk.
func (d *discoveryUC) enumerate(ctx context.Context, channelID string) ([]model.VideoItem, error) {
	if d.catalog != nil {
		if cached, err := d.catalog.GetCatalog(ctx, channelID); err == nil && len(cached) > 0 {
			d.log.Debug().Str("channel_id", channelID).Int("videos", len(cached)).Msg("catalog cache hit")
			return cached, nil
		}
	}

	var items []model.VideoItem
	pageToken := ""
	complete := false
	for page := 0; ; page++ {
		if page >= d.opts.MaxListPages {
			d.log.Warn().Str("channel_id", channelID).Int("pages", page).
				Msg("enumeration page ceiling reached; stopping with partial catalog")
			break
		}
		res, err := d.data.ListUploads(ctx, channelID, pageToken, d.opts.PageSize)
		d.ledger.Record(quota.ActionList, quota.CostListPage, "channel "+channelID)
		if err != nil {
			if len(items) > 0 {
				d.log.Warn().Err(err).Int("videos", len(items)).
					Msg("enumeration failed mid-walk; keeping partial catalog")
				break
			}
			return nil, err
		}
		if len(res.VideoIDs) > 0 {
			details, err := d.data.VideoDetails(ctx, res.VideoIDs)
			d.ledger.Record(quota.ActionDetails, quota.CostDetailsBatch, "listing details")
			if err != nil {
				if len(items) > 0 {
					d.log.Warn().Err(err).Msg("detail batch failed mid-walk; keeping partial catalog")
					break
				}
				return nil, err
			}
			items = append(items, details...)
		}
		pageToken = res.NextPageToken
		if pageToken == "" {
			complete = true
			break
		}
	}

	if d.catalog != nil && complete && len(items) > 0 {
		if err := d.catalog.StoreCatalog(ctx, channelID, items); err != nil {
			d.log.Warn().Err(err).Str("channel_id", channelID).Msg("catalog cache store failed")
		}
	}
	return items, nil
}

// filterByKeyword applies the fallback path's local filter: case-insensitive
// substring match across title, description, and tags.
func filterByKeyword(items []model.VideoItem, keyword string) []model.VideoItem {
	kw := strings.ToLower(keyword)
	out := make([]model.VideoItem, 0, len(items))
	for _, it := range items {
		if matchesKeyword(it, kw) {
			out = append(out, it)
		}
	}
	return out
}

func matchesKeyword(it model.VideoItem, lowerKeyword string) bool {
	if strings.Contains(strings.ToLower(it.Title), lowerKeyword) {
		return true
	}
	if strings.Contains(strings.ToLower(it.Description), lowerKeyword) {
		return true
	}
	for _, tag := range it.Tags {
		if strings.Contains(strings.ToLower(tag), lowerKeyword) {
			return true
		}
	}
	return false
}

// dedupeByID keeps the first occurrence of each video id. The provider is
// assumed not to duplicate, but that is not guaranteed.
func dedupeByID(items []model.VideoItem) []model.VideoItem {
	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for _, it := range items {
		if _, ok := seen[it.VideoID]; ok {
			continue
		}
		seen[it.VideoID] = struct{}{}
		out = append(out, it)
	}
	return out
}

// VideoIDs projects items to their ids, the only field aggregation needs.
func VideoIDs(items []model.VideoItem) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.VideoID)
	}
	return ids
}
