package paging

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/userdeck/userdeck/internal/directory"
)

type listCall struct {
	limit  int
	skip   int
	fields []string
}

type fakeLister struct {
	records []directory.Record
	err     error
	calls   []listCall
}

func newFakeLister(n int) *fakeLister {
	f := &fakeLister{}
	for i := 1; i <= n; i++ {
		f.records = append(f.records, directory.Record{ID: int64(i)})
	}
	return f
}

func (f *fakeLister) ListPage(_ context.Context, limit, skip int, fields []string) (directory.Page, error) {
	f.calls = append(f.calls, listCall{limit: limit, skip: skip, fields: fields})
	if f.err != nil {
		return directory.Page{}, f.err
	}
	end := min(skip+limit, len(f.records))
	start := min(skip, len(f.records))
	window := append([]directory.Record(nil), f.records[start:end]...)
	return directory.Page{Records: window, Total: len(f.records), Skip: skip, Limit: limit}, nil
}

func ids(records []directory.Record) []int64 {
	out := make([]int64, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func newTestEngine(t *testing.T, lister Lister) *Engine {
	t.Helper()
	e, err := NewEngine(lister, 6)
	require.NoError(t, err)
	return e
}

func TestNewEngineValidates(t *testing.T) {
	_, err := NewEngine(nil, 6)
	require.Error(t, err)

	_, err = NewEngine(newFakeLister(1), 0)
	require.Error(t, err)
}

func TestPlanAndFetchNoExclusions(t *testing.T) {
	lister := newFakeLister(10)
	e := newTestEngine(t, lister)

	res, err := e.PlanAndFetch(context.Background(), 1, nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6}, ids(res.Records))
	assert.Equal(t, 10, res.Total)
	assert.Equal(t, 0, res.Skip)
	assert.Equal(t, 6, res.Limit)
	assert.Equal(t, 2, res.TotalPages())

	res, err = e.PlanAndFetch(context.Background(), 2, NewExclusionSet())
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 8, 9, 10}, ids(res.Records))
	assert.Equal(t, 10, res.Total)
	assert.Equal(t, 6, res.Skip)
	assert.False(t, res.Short())

	require.Len(t, lister.calls, 2)
	assert.Equal(t, listCall{limit: 6, skip: 0, fields: directory.RecordFields}, lister.calls[0])
	assert.Equal(t, 6, lister.calls[1].skip)
}

func TestPlanAndFetchOverFetchesByExclusionCount(t *testing.T) {
	lister := newFakeLister(10)
	e := newTestEngine(t, lister)

	res, err := e.PlanAndFetch(context.Background(), 1, NewExclusionSet(2, 5))
	require.NoError(t, err)
	require.Len(t, lister.calls, 1)
	assert.Equal(t, 8, lister.calls[0].limit)
	assert.Equal(t, 0, lister.calls[0].skip)
	assert.Equal(t, []int64{1, 3, 4, 6, 7, 8}, ids(res.Records))
	assert.Equal(t, 8, res.Total)
	assert.Equal(t, 6, res.Limit)
}

func TestPlanAndFetchNeverReturnsExcludedIDs(t *testing.T) {
	lister := newFakeLister(40)
	e := newTestEngine(t, lister)

	sets := []ExclusionSet{
		NewExclusionSet(1),
		NewExclusionSet(1, 2, 3, 4, 5, 6, 7),
		NewExclusionSet(6, 12, 18, 24, 30, 36),
		NewExclusionSet(39, 40),
	}
	for _, excluded := range sets {
		for page := 1; page <= 8; page++ {
			res, err := e.PlanAndFetch(context.Background(), page, excluded)
			require.NoError(t, err)
			for _, rec := range res.Records {
				assert.False(t, excluded.Has(rec.ID), "page %d returned excluded id %d", page, rec.ID)
			}
			assert.LessOrEqual(t, len(res.Records), 6)
			assert.Equal(t, 40-excluded.Len(), res.Total)
		}
	}
}

func TestPlanAndFetchTotalNeverNegative(t *testing.T) {
	lister := newFakeLister(2)
	e := newTestEngine(t, lister)

	res, err := e.PlanAndFetch(context.Background(), 1, NewExclusionSet(1, 2, 90, 91))
	require.NoError(t, err)
	assert.Empty(t, res.Records)
	assert.Equal(t, 0, res.Total)
	assert.Equal(t, 0, res.TotalPages())
}

func TestPlanAndFetchIsIdempotent(t *testing.T) {
	lister := newFakeLister(25)
	e := newTestEngine(t, lister)
	excluded := NewExclusionSet(3, 9, 14)

	first, err := e.PlanAndFetch(context.Background(), 2, excluded)
	require.NoError(t, err)
	second, err := e.PlanAndFetch(context.Background(), 2, excluded)
	require.NoError(t, err)
	assert.Equal(t, ids(first.Records), ids(second.Records))
}

func TestPlanAndFetchExclusionsRelativeToWindow(t *testing.T) {
	// Deletions on a later page inflate the limit for page 1 without touching
	// its window.
	lister := newFakeLister(20)
	e := newTestEngine(t, lister)

	res, err := e.PlanAndFetch(context.Background(), 1, NewExclusionSet(13, 14))
	require.NoError(t, err)
	assert.Len(t, res.Records, 6)

	// Six of the eight records in page 3's window are excluded.
	res, err = e.PlanAndFetch(context.Background(), 3, NewExclusionSet(13, 14, 15, 16, 17, 18))
	require.NoError(t, err)
	assert.Equal(t, []int64{19, 20}, ids(res.Records))
	assert.Equal(t, 14, res.Total)
	assert.False(t, res.Short())
}

func TestResultShortDetectsKnownLimitation(t *testing.T) {
	res := Result{Page: 1, PageSize: 6, Total: 12, Records: make([]directory.Record, 4)}
	assert.True(t, res.Short())

	res = Result{Page: 2, PageSize: 6, Total: 10, Records: make([]directory.Record, 4)}
	assert.False(t, res.Short())
}

func TestPlanAndFetchRejectsInvalidPage(t *testing.T) {
	lister := newFakeLister(5)
	e := newTestEngine(t, lister)

	_, err := e.PlanAndFetch(context.Background(), 0, nil)
	require.ErrorIs(t, err, ErrInvalidPage)
	assert.Empty(t, lister.calls)
}

func TestPlanAndFetchPropagatesSingleError(t *testing.T) {
	boom := errors.New("offline")
	lister := newFakeLister(5)
	lister.err = boom
	e := newTestEngine(t, lister)

	_, err := e.PlanAndFetch(context.Background(), 1, nil)
	require.ErrorIs(t, err, boom)
	assert.Len(t, lister.calls, 1)
}

func TestExclusionSetHelpers(t *testing.T) {
	s := NewExclusionSet(9, 2)
	s.Add(5)
	s.Add(2)

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []int64{2, 5, 9}, s.IDs())

	clone := s.Clone()
	clone.Add(100)
	assert.False(t, s.Has(100))
	assert.True(t, clone.Has(100))

	var empty ExclusionSet
	assert.False(t, empty.Has(1))
	assert.Equal(t, 0, empty.Len())
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 6))
	assert.Equal(t, 1, TotalPages(6, 6))
	assert.Equal(t, 2, TotalPages(7, 6))
	assert.Equal(t, 0, TotalPages(7, 0))
}
