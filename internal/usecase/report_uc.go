package usecase

import (
	"context"
	"errors"
	"time"

	"ai-video-writer/internal/domain"
	"ai-video-writer/internal/domain/model"
	"ai-video-writer/internal/infra/cache"
	"ai-video-writer/internal/infra/logging"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ ReportUseCase = (*reportUC)(nil)

// ProgressFunc receives coarse progress updates while a report builds.
// A nil func is fine.
type ProgressFunc func(percent int, message string)

// ReportUseCase produces the (group x date range) metric matrix.
type ReportUseCase interface {
	Aggregate(ctx context.Context, channelID string, groups []model.VideoGroup, ranges []model.DateRange, progress ProgressFunc) (*model.ReportMatrix, error)
}

type reportUC struct {
	discovery DiscoveryUseCase
	agg       MetricAggregator
	results   *cache.ResultCache

	log *zerolog.Logger
}

func NewReportUseCase(discovery DiscoveryUseCase, agg MetricAggregator, results *cache.ResultCache, logger *zerolog.Logger) *reportUC {
	return &reportUC{discovery: discovery, agg: agg, results: results, log: logger}
}

// Aggregate runs discovery once per group, then fills each cell from the
// result cache or a fresh chunked analytics query. A failing cell records
// its error and leaves every sibling cell untouched; the matrix itself only
// fails when nothing at all can be produced.
func (r *reportUC) Aggregate(ctx context.Context, channelID string, groups []model.VideoGroup, ranges []model.DateRange, progress ProgressFunc) (*model.ReportMatrix, error) {
	if channelID == "" {
		return nil, domain.ErrInvalidArgument
	}
	if len(groups) == 0 || len(ranges) == 0 {
		return nil, domain.ErrInvalidArgument
	}
	if progress == nil {
		progress = func(int, string) {}
	}
	log := logging.With(ctx, r.log)
	defer logging.TraceDuration(log, "ReportUC.Aggregate")()

	matrix := &model.ReportMatrix{
		ChannelID:   channelID,
		Rows:        make([]model.ReportRow, 0, len(groups)),
		GeneratedAt: time.Now(),
	}

	totalCells := len(groups) * len(ranges)
	done := 0

	for _, group := range groups {
		row := model.ReportRow{
			Group: group.Name,
			Cells: make(map[string]model.ReportCell, len(ranges)),
		}

		progress(done*100/totalCells, "discovering videos for "+group.Name)
		items, err := r.discovery.Discover(ctx, channelID, group.Keyword)
		if err != nil {
			// Discovery failed even through the fallback; the whole row is
			// errored, siblings proceed.
			log.Error().Err(err).Str("group", group.Name).Msg("discovery failed for group")
			for _, rng := range ranges {
				row.Cells[rng.Label] = model.ReportCell{Error: cellError(err)}
				done++
			}
			matrix.Rows = append(matrix.Rows, row)
			continue
		}
		ids := VideoIDs(items)
		row.VideoCount = len(ids)

		for _, rng := range ranges {
			row.Cells[rng.Label] = r.buildCell(ctx, log, channelID, group.Name, ids, rng)
			done++
			progress(done*100/totalCells, group.Name+" / "+rng.Label)
		}
		matrix.Rows = append(matrix.Rows, row)
	}

	return matrix, nil
}

func (r *reportUC) buildCell(ctx context.Context, log *zerolog.Logger, channelID, groupName string, ids []string, rng model.DateRange) model.ReportCell {
	key := cache.Key(channelID, ids, rng.Start, rng.End)
	if cell, ok := r.results.Get(key); ok {
		return cell
	}

	set, err := r.agg.AggregateMetrics(ctx, channelID, ids, rng)
	if err != nil {
		log.Warn().Err(err).Str("group", groupName).Str("range", rng.Label).Msg("cell query failed")
		return model.ReportCell{VideoCount: len(ids), Error: cellError(err)}
	}

	cell := model.ReportCell{Metrics: set, VideoCount: len(ids)}
	r.results.Put(key, cell)
	return cell
}

// cellError keeps quota exhaustion recognizable in the cell payload so the
// caller can show a "try again later" message.
func cellError(err error) string {
	if errors.Is(err, domain.ErrQuotaExceeded) {
		return domain.ErrQuotaExceeded.Error()
	}
	return err.Error()
}
