package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (f *fakeClock) now() time.Time { return f.t }

func newTestRegistry(clock *fakeClock) *Registry {
	r := NewRegistry(func(string) Fetcher { return &gatedFetcher{} }, 6)
	r.now = clock.now
	return r
}

func TestRegistryGetReturnsSameController(t *testing.T) {
	r := newTestRegistry(&fakeClock{t: time.Unix(0, 0)})

	first := r.Get("a", "tok", []int64{4})
	second := r.Get("a", "tok", []int64{9})
	assert.Same(t, first, second)
	assert.Equal(t, []int64{4}, second.Excluded())
	assert.NotSame(t, first, r.Get("b", "tok", nil))
	assert.Equal(t, 2, r.Len())
}

func TestRegistryBindsFetcherToToken(t *testing.T) {
	var tokens []string
	r := NewRegistry(func(token string) Fetcher {
		tokens = append(tokens, token)
		return &gatedFetcher{}
	}, 6)

	r.Get("a", "first", nil)
	r.Get("a", "first", nil)
	r.Get("b", "second", nil)
	assert.Equal(t, []string{"first", "second"}, tokens)
}

func TestRegistryDrop(t *testing.T) {
	r := newTestRegistry(&fakeClock{t: time.Unix(0, 0)})
	c := r.Get("a", "tok", nil)
	r.Drop("a")
	r.Drop("missing")
	assert.Equal(t, 0, r.Len())
	assert.NotSame(t, c, r.Get("a", "tok", nil))
}

func TestRegistrySweepDropsIdleControllers(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	r := newTestRegistry(clock)

	r.Get("old", "tok", nil)
	clock.t = clock.t.Add(20 * time.Minute)
	fresh := r.Get("fresh", "tok", nil)
	fresh.View()

	removed := r.Sweep(10 * time.Minute)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, r.Len())
	assert.Same(t, fresh, r.Get("fresh", "tok", nil))
}

func TestSweeperStopsWithContext(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	r := newTestRegistry(clock)
	r.Get("old", "tok", nil)
	clock.t = clock.t.Add(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		(&Sweeper{Registry: r, Interval: time.Millisecond, IdleAfter: time.Minute}).Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return r.Len() == 0 }, time.Second, time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestSweeperWithoutIntervalReturns(t *testing.T) {
	(&Sweeper{Registry: NewRegistry(nil, 6)}).Run(context.Background())
}
