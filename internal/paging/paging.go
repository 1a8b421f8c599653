// Package paging reconciles fixed-size pages of remote records with ids that
// were deleted locally but that the remote listing still returns.
//
// The remote directory has no delete-aware paging. For each page the engine
// over-fetches by the size of the exclusion set, drops excluded ids and
// truncates to the page size. When excluded ids sit outside the fetched
// window (for example deletions on later pages while viewing an earlier one)
// the returned page can be shorter than the page size even though more
// records exist further along. That approximation is accepted.
package paging

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/userdeck/userdeck/internal/directory"
)

// ErrInvalidPage is returned for page numbers below 1.
var ErrInvalidPage = errors.New("page number must be >= 1")

// Lister is the slice of the directory client the engine needs.
type Lister interface {
	ListPage(ctx context.Context, limit, skip int, fields []string) (directory.Page, error)
}

// ExclusionSet holds ids deleted during the current dashboard session.
type ExclusionSet map[int64]struct{}

// NewExclusionSet builds a set from ids.
func NewExclusionSet(ids ...int64) ExclusionSet {
	s := make(ExclusionSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s ExclusionSet) Add(id int64) {
	s[id] = struct{}{}
}

func (s ExclusionSet) Has(id int64) bool {
	_, ok := s[id]
	return ok
}

func (s ExclusionSet) Len() int {
	return len(s)
}

// IDs returns the members in ascending order.
func (s ExclusionSet) IDs() []int64 {
	out := make([]int64, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

func (s ExclusionSet) Clone() ExclusionSet {
	out := make(ExclusionSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// Plan is the remote window requested for one page.
type Plan struct {
	Page  int
	Skip  int
	Limit int
}

// Result is one reconciled page.
type Result struct {
	Page     int
	Records  []directory.Record
	Total    int
	Skip     int
	Limit    int
	PageSize int
}

// TotalPages is ceil(Total / PageSize), never less than zero.
func (r Result) TotalPages() int {
	return TotalPages(r.Total, r.PageSize)
}

// TotalPages is ceil(total / pageSize).
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// Engine produces reconciled pages of PageSize records.
type Engine struct {
	Lister   Lister
	PageSize int
	Fields   []string
}

// NewEngine returns an engine requesting the standard record projection.
func NewEngine(lister Lister, pageSize int) (*Engine, error) {
	if lister == nil {
		return nil, errors.New("paging: lister is required")
	}
	if pageSize < 1 {
		return nil, fmt.Errorf("paging: page size must be >= 1, got %d", pageSize)
	}
	return &Engine{Lister: lister, PageSize: pageSize, Fields: directory.RecordFields}, nil
}

// Plan computes the remote window for page given the excluded ids.
func (e *Engine) Plan(page int, excluded ExclusionSet) (Plan, error) {
	if page < 1 {
		return Plan{}, ErrInvalidPage
	}
	return Plan{
		Page:  page,
		Skip:  (page - 1) * e.PageSize,
		Limit: e.PageSize + excluded.Len(),
	}, nil
}

// PlanAndFetch fetches page and reconciles it against excluded. A failed fetch
// is returned as-is; there are no retries.
func (e *Engine) PlanAndFetch(ctx context.Context, page int, excluded ExclusionSet) (Result, error) {
	plan, err := e.Plan(page, excluded)
	if err != nil {
		return Result{}, err
	}

	raw, err := e.Lister.ListPage(ctx, plan.Limit, plan.Skip, e.Fields)
	if err != nil {
		return Result{}, err
	}

	records := make([]directory.Record, 0, min(len(raw.Records), e.PageSize))
	for _, rec := range raw.Records {
		if excluded.Has(rec.ID) {
			continue
		}
		records = append(records, rec)
		if len(records) == e.PageSize {
			break
		}
	}

	total := raw.Total - excluded.Len()
	if total < 0 {
		total = 0
	}

	return Result{
		Page:     page,
		Records:  records,
		Total:    total,
		Skip:     raw.Skip,
		Limit:    e.PageSize,
		PageSize: e.PageSize,
	}, nil
}

// Short reports whether the page holds fewer than PageSize records although
// the reconciled total says more remain from this page's offset.
func (r Result) Short() bool {
	if len(r.Records) >= r.PageSize {
		return false
	}
	offset := (r.Page - 1) * r.PageSize
	return r.Total-offset > len(r.Records)
}
