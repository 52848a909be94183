// Package views derives read-only projections from the store: dashboard
// aggregates, filtered request lists, the posts feed and social counts. The
// engine never mutates store state; expensive selectors are memoized on the
// slice versions they read.
package views

import (
	"sync"
	"time"

	"tableau/models"
	"tableau/store"
)

// DateRange selects the dashboard's time window.
type DateRange string

const (
	RangeToday DateRange = "today"
	Range7d    DateRange = "7d"
	Range30d   DateRange = "30d"
)

// Filters are the dashboard's request filters.
type Filters struct {
	Status    string    `json:"status"`
	DateRange DateRange `json:"dateRange"`
}

// Engine computes derived views over a store.
type Engine struct {
	store *store.Store
	now   func() time.Time

	mu      sync.Mutex
	filters Filters

	topActive     memo2[[]ActiveUser]
	byCountry     memo1[[]CountryCount]
	byRole        memo1[RoleCounts]
	recent        memo2[[]models.Activity]
	approvedPosts memo1[[]models.Request]
}

// NewEngine creates an engine over st. The clock is injectable for tests;
// nil means time.Now.
func NewEngine(st *store.Store, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{
		store:   st,
		now:     now,
		filters: Filters{Status: "ALL", DateRange: Range7d},
	}
}

// SetStatusFilter narrows the dashboard to one moderation state; unknown
// values mean ALL.
func (e *Engine) SetStatusFilter(status string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !models.ValidFilter(status) {
		status = "ALL"
	}
	e.filters.Status = status
}

// SetDateRange narrows the dashboard time window.
func (e *Engine) SetDateRange(r DateRange) {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch r {
	case RangeToday, Range7d, Range30d:
		e.filters.DateRange = r
	default:
		e.filters.DateRange = Range7d
	}
}

// CurrentFilters returns the active dashboard filters.
func (e *Engine) CurrentFilters() Filters {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filters
}

// withinRange reports whether an ISO timestamp falls inside the window
// ending at now. The cutoff is always computed from the current clock, never
// cached, so a view rendered after midnight uses the new day.
func withinRange(createdAt string, r DateRange, now time.Time) bool {
	ts := models.ParseTimestamp(createdAt)

	if r == RangeToday {
		y, m, d := now.Date()
		midnight := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
		return ts >= midnight.UnixMilli()
	}

	days := 7
	if r == Range30d {
		days = 30
	}
	cutoff := now.Add(-time.Duration(days) * 24 * time.Hour)
	return ts >= cutoff.UnixMilli()
}

// FilteredRequests returns the requests matching the dashboard filters.
// Time-windowed views are recomputed on every call.
func (e *Engine) FilteredRequests() []models.Request {
	filters := e.CurrentFilters()
	now := e.now()

	items := e.store.Requests.Items()
	out := make([]models.Request, 0, len(items))
	for _, r := range items {
		if !withinRange(r.CreatedAt, filters.DateRange, now) {
			continue
		}
		if filters.Status != "ALL" && string(r.Status) != filters.Status {
			continue
		}
		out = append(out, r)
	}
	return out
}

// memo1 caches a selector over one input slice version.
type memo1[T any] struct {
	version uint64
	valid   bool
	value   T
}

func (m *memo1[T]) get(version uint64, compute func() T) T {
	if m.valid && m.version == version {
		return m.value
	}
	m.value = compute()
	m.version = version
	m.valid = true
	return m.value
}

// memo2 caches a selector over two input slice versions.
type memo2[T any] struct {
	a, b  uint64
	valid bool
	value T
}

func (m *memo2[T]) get(a, b uint64, compute func() T) T {
	if m.valid && m.a == a && m.b == b {
		return m.value
	}
	m.value = compute()
	m.a, m.b = a, b
	m.valid = true
	return m.value
}
