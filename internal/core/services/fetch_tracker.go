package services

import (
	"context"
	"sync"

	"riskdesk/internal/core/domain"
)

// Fetched resources
const (
	ResourceAnalytics   = "analytics"
	ResourceTopRisky    = "toprisky"
	ResourceNeedOfficer = "need-officer"
	ResourceHistory     = "history"
)

type fetchKey struct {
	sid      string
	resource string
}

type inflight struct {
	generation uint64
	cancel     context.CancelFunc
}

// Ticket identifies one in-flight fetch
type Ticket struct {
	key        fetchKey
	generation uint64
	ctx        context.Context
}

// Context is canceled when a newer fetch for the same resource begins
func (t *Ticket) Context() context.Context {
	return t.ctx
}

// FetchTracker numbers fetches per client session and resource so a response
// that arrives after a newer request was issued can be discarded.
// Only the latest in-flight fetch of each key is held; it is dropped on commit.
type FetchTracker struct {
	mu       sync.Mutex
	seq      uint64
	inflight map[fetchKey]inflight
}

// NewFetchTracker creates a new fetch tracker
func NewFetchTracker() *FetchTracker {
	return &FetchTracker{
		inflight: make(map[fetchKey]inflight),
	}
}

// Begin starts a fetch, canceling the previous one for the same key
func (f *FetchTracker) Begin(parent context.Context, sid, resource string) *Ticket {
	key := fetchKey{sid: sid, resource: resource}
	ctx, cancel := context.WithCancel(parent)

	f.mu.Lock()
	defer f.mu.Unlock()

	if prev, ok := f.inflight[key]; ok {
		prev.cancel()
	}

	f.seq++
	generation := f.seq
	f.inflight[key] = inflight{generation: generation, cancel: cancel}

	return &Ticket{key: key, generation: generation, ctx: ctx}
}

// Commit ends a fetch and reports whether it is still the latest for its key.
// Generations are unique across keys, so a ticket whose entry is gone or
// replaced can never be mistaken for the latest.
func (f *FetchTracker) Commit(t *Ticket) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	current, ok := f.inflight[t.key]
	if !ok || current.generation != t.generation {
		return false
	}
	current.cancel()
	delete(f.inflight, t.key)
	return true
}

// Forget cancels the in-flight fetches of a client session
func (f *FetchTracker) Forget(sid string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for key, cur := range f.inflight {
		if key.sid == sid {
			cur.cancel()
			delete(f.inflight, key)
		}
	}
}

// Pending returns the number of fetches still in flight
func (f *FetchTracker) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.inflight)
}

// track runs call under a fresh ticket and discards its result when a newer
// fetch for the same resource began meanwhile
func track[T any](ctx context.Context, f *FetchTracker, sid, resource string, call func(context.Context) (T, error)) (T, error) {
	ticket := f.Begin(ctx, sid, resource)
	result, err := call(ticket.Context())
	if !f.Commit(ticket) {
		var zero T
		return zero, domain.ErrStaleFetch
	}
	return result, err
}
