package model

import "time"

// MetricSet is one analytics query result. Views through SubscribersGained
// add up across chunks; AverageViewDuration and AverageViewPercentage are
// rates that must be combined with a views-weighted mean.
type MetricSet struct {
	Views                   int64   `json:"views"`
	EstimatedMinutesWatched int64   `json:"estimated_minutes_watched"`
	AverageViewDuration     float64 `json:"average_view_duration"`
	AverageViewPercentage   float64 `json:"average_view_percentage"`
	Likes                   int64   `json:"likes"`
	Comments                int64   `json:"comments"`
	Shares                  int64   `json:"shares"`
	SubscribersGained       int64   `json:"subscribers_gained"`
}

// VideoGroup names a keyword-filtered slice of a channel's catalog.
type VideoGroup struct {
	Name    string `json:"name"`
	Keyword string `json:"keyword"`
}

// DateRange is one labelled reporting window, inclusive of both bounds.
type DateRange struct {
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ReportCell is one (group, range) entry of a report matrix. Error is set
// when the underlying analytics query failed for this cell only; sibling
// cells are unaffected.
type ReportCell struct {
	Metrics    MetricSet `json:"metrics"`
	VideoCount int       `json:"video_count"`
	Error      string    `json:"error,omitempty"`
}

// ReportRow holds the cells of one group, keyed by range label.
type ReportRow struct {
	Group      string                `json:"group"`
	VideoCount int                   `json:"video_count"`
	Cells      map[string]ReportCell `json:"cells"`
}

// ReportMatrix is the full aggregation output: one row per group.
type ReportMatrix struct {
	ChannelID   string      `json:"channel_id"`
	Rows        []ReportRow `json:"rows"`
	GeneratedAt time.Time   `json:"generated_at"`
}
