// File: internal/infra/quota/ledger.go
package quota

import (
	"sync"
	"time"

	"ai-video-writer/internal/infra/metrics"
)

// Provider call costs in quota units.
const (
	CostSearchPage     = 100
	CostListPage       = 2
	CostDetailsBatch   = 2 // one part requested per batch
	CostAnalyticsQuery = 1
)

// Canonical action names used by call sites.
const (
	ActionSearch    = "search.list"
	ActionList      = "playlistItems.list"
	ActionDetails   = "videos.list"
	ActionAnalytics = "analytics.query"
)

// Event is one recorded provider call.
type Event struct {
	Action    string    `json:"action"`
	Units     int       `json:"units"`
	Timestamp time.Time `json:"timestamp"`
	Details   string    `json:"details,omitempty"`
}

// Snapshot is a read-only copy of the ledger state.
type Snapshot struct {
	Totals map[string]int `json:"totals"`
	Events []Event        `json:"events"`
	Total  int            `json:"total"`
}

// Ledger is the process-wide append-only record of quota units consumed.
// Construct one at startup and inject it into every provider call site.
type Ledger struct {
	mu     sync.Mutex
	events []Event
	totals map[string]int
	total  int

	now func() time.Time
}

func NewLedger() *Ledger {
	return &Ledger{
		totals: make(map[string]int),
		now:    time.Now,
	}
}

// Record appends an event and bumps the running totals. Non-positive unit
// values are ignored.
func (l *Ledger) Record(action string, units int, details string) {
	if units <= 0 {
		return
	}
	l.mu.Lock()
	l.events = append(l.events, Event{
		Action:    action,
		Units:     units,
		Timestamp: l.now(),
		Details:   details,
	})
	l.totals[action] += units
	l.total += units
	l.mu.Unlock()

	metrics.AddQuotaUnits(action, units)
}

// Snapshot copies out per-action totals, the event list, and the grand total.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	totals := make(map[string]int, len(l.totals))
	for k, v := range l.totals {
		totals[k] = v
	}
	events := make([]Event, len(l.events))
	copy(events, l.events)
	return Snapshot{Totals: totals, Events: events, Total: l.total}
}
