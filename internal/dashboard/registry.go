package dashboard

import (
	"sync"
	"time"

	"github.com/userdeck/userdeck/internal/metrics"
)

// Registry owns one Controller per signed-in browser session, keyed by the
// dashboard id stored in that session.
type Registry struct {
	// NewFetcher binds a fetcher to the access token of one sign-in.
	NewFetcher func(token string) Fetcher
	PageSize   int

	mu          sync.Mutex
	controllers map[string]*Controller
	now         func() time.Time
}

func NewRegistry(newFetcher func(token string) Fetcher, pageSize int) *Registry {
	return &Registry{
		NewFetcher:  newFetcher,
		PageSize:    pageSize,
		controllers: make(map[string]*Controller),
		now:         time.Now,
	}
}

// Get returns the controller for id, creating it for token with the given
// exclusion seed when missing. Every sign-in gets a fresh id, so an existing
// controller is already bound to the right token and the seed is ignored.
func (r *Registry) Get(id, token string, excluded []int64) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.controllers[id]; ok {
		return c
	}
	c := NewController(r.NewFetcher(token), r.PageSize, excluded)
	c.now = r.now
	c.lastUsed = r.now()
	r.controllers[id] = c
	metrics.DashboardControllers.Set(float64(len(r.controllers)))
	return c
}

// Drop forgets the controller for id.
func (r *Registry) Drop(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.controllers[id]; !ok {
		return
	}
	delete(r.controllers, id)
	metrics.DashboardControllers.Set(float64(len(r.controllers)))
}

// Sweep drops controllers unused for longer than idle and returns how many
// were removed.
func (r *Registry) Sweep(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-idle)
	removed := 0
	for id, c := range r.controllers {
		if c.idleSince().Before(cutoff) {
			delete(r.controllers, id)
			removed++
		}
	}
	if removed > 0 {
		metrics.DashboardControllers.Set(float64(len(r.controllers)))
	}
	return removed
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.controllers)
}
