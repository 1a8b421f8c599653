// Package dashboard holds the per-session view state of the user dashboard:
// the current page, the optimistic edits applied on top of it and the set of
// ids deleted during the session.
package dashboard

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/userdeck/userdeck/internal/directory"
	"github.com/userdeck/userdeck/internal/metrics"
	"github.com/userdeck/userdeck/internal/paging"
)

// ErrStaleResponse is returned by Load when a newer load was issued while the
// fetch was in flight. The view is left untouched.
var ErrStaleResponse = errors.New("dashboard: stale page response discarded")

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusLoaded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Fetcher is the slice of the paging engine the controller needs.
type Fetcher interface {
	PlanAndFetch(ctx context.Context, page int, excluded paging.ExclusionSet) (paging.Result, error)
}

// View is a snapshot of the controller state.
type View struct {
	Status     Status
	Page       int
	PageSize   int
	Records    []directory.Record
	Total      int
	TotalPages int
	Short      bool
	Err        error
}

// Find returns the visible record with id.
func (v View) Find(id int64) (directory.Record, bool) {
	for _, r := range v.Records {
		if r.ID == id {
			return r, true
		}
	}
	return directory.Record{}, false
}

type Controller struct {
	fetcher  Fetcher
	pageSize int

	mu       sync.Mutex
	status   Status
	page     int
	records  []directory.Record
	total    int
	short    bool
	err      error
	excluded paging.ExclusionSet
	ticket   uint64
	localSeq int64
	lastUsed time.Time
	now      func() time.Time
}

// NewController seeds the exclusion set with ids deleted earlier in the
// session.
func NewController(fetcher Fetcher, pageSize int, excluded []int64) *Controller {
	c := &Controller{
		fetcher:  fetcher,
		pageSize: pageSize,
		page:     1,
		excluded: paging.NewExclusionSet(excluded...),
		records:  []directory.Record{},
		now:      time.Now,
	}
	c.lastUsed = c.now()
	return c
}

// View returns the current state.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touchLocked()
	return c.viewLocked()
}

// Show returns the loaded page, fetching only when page differs from the one
// on display or nothing has loaded successfully yet. Optimistic edits on the
// displayed page survive repeated Show calls.
func (c *Controller) Show(ctx context.Context, page int) (View, error) {
	c.mu.Lock()
	if c.status == StatusLoaded && c.page == page {
		c.touchLocked()
		v := c.viewLocked()
		c.mu.Unlock()
		return v, nil
	}
	c.mu.Unlock()
	return c.Load(ctx, page)
}

// Load fetches page. Only the most recently issued load may update the view;
// older completions return ErrStaleResponse. A failed fetch marks the view
// Failed and keeps the previously displayed records.
func (c *Controller) Load(ctx context.Context, page int) (View, error) {
	c.mu.Lock()
	c.ticket++
	ticket := c.ticket
	c.status = StatusLoading
	excluded := c.excluded.Clone()
	c.touchLocked()
	c.mu.Unlock()

	res, err := c.fetcher.PlanAndFetch(ctx, page, excluded)

	c.mu.Lock()
	defer c.mu.Unlock()
	if ticket != c.ticket {
		metrics.PageFetchesTotal.WithLabelValues("stale").Inc()
		return c.viewLocked(), ErrStaleResponse
	}
	if err != nil {
		metrics.PageFetchesTotal.WithLabelValues("error").Inc()
		c.status = StatusFailed
		c.err = err
		return c.viewLocked(), err
	}
	metrics.PageFetchesTotal.WithLabelValues("ok").Inc()
	c.status = StatusLoaded
	c.err = nil
	c.page = res.Page
	c.records = slices.Clone(res.Records)
	c.total = res.Total
	c.short = res.Short()
	if c.short {
		metrics.PageShortfallTotal.Inc()
	}
	return c.viewLocked(), nil
}

// ApplyCreated puts rec at the front of the displayed page, keeping at most a
// page of records, and counts it in the total. The edited page becomes the
// current view: a pending load is discarded as stale and Show keeps it.
func (c *Controller) ApplyCreated(rec directory.Record) View {
	c.mu.Lock()
	defer c.mu.Unlock()
	records := make([]directory.Record, 0, c.pageSize)
	records = append(records, rec)
	for _, r := range c.records {
		if len(records) == c.pageSize {
			break
		}
		records = append(records, r)
	}
	c.records = records
	c.total++
	c.markCurrentLocked()
	c.touchLocked()
	return c.viewLocked()
}

// ApplyUpdated replaces the displayed record with the same id and, like
// ApplyCreated, makes the edited page current. It reports false when no such
// record is visible.
func (c *Controller) ApplyUpdated(rec directory.Record) (View, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touchLocked()
	for i := range c.records {
		if c.records[i].ID == rec.ID {
			c.records = slices.Clone(c.records)
			c.records[i] = rec
			c.markCurrentLocked()
			return c.viewLocked(), true
		}
	}
	return c.viewLocked(), false
}

// ApplyDeleted removes id from the view. Remote ids join the exclusion set and
// the caller must reload the current page; reload reports that. Local ids
// never reach the remote listing, so they are dropped in place.
func (c *Controller) ApplyDeleted(id int64) (view View, reload bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touchLocked()

	idx := slices.IndexFunc(c.records, func(r directory.Record) bool { return r.ID == id })
	if idx >= 0 {
		c.records = slices.Delete(slices.Clone(c.records), idx, idx+1)
	}

	if id < 0 {
		if idx >= 0 && c.total > 0 {
			c.total--
		}
		return c.viewLocked(), false
	}
	c.excluded.Add(id)
	return c.viewLocked(), true
}

// NextLocalID returns a fresh negative id for a record the remote did not
// persist.
func (c *Controller) NextLocalID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.localSeq--
	return c.localSeq
}

// Excluded returns the ids deleted this session in ascending order.
func (c *Controller) Excluded() []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.excluded.IDs()
}

// Page is the page currently on display.
func (c *Controller) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

func (c *Controller) idleSince() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastUsed
}

func (c *Controller) markCurrentLocked() {
	c.ticket++
	c.status = StatusLoaded
	c.err = nil
}

func (c *Controller) touchLocked() {
	c.lastUsed = c.now()
}

func (c *Controller) viewLocked() View {
	return View{
		Status:     c.status,
		Page:       c.page,
		PageSize:   c.pageSize,
		Records:    slices.Clone(c.records),
		Total:      c.total,
		TotalPages: paging.TotalPages(c.total, c.pageSize),
		Short:      c.short,
		Err:        c.err,
	}
}
