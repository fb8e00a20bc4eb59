package query

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Status describes a cache entry's lifecycle.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

// Entry is a point-in-time snapshot of one cached read. Data is only ever
// replaced wholesale by a successful fetch; a failed refetch keeps the
// prior data and sets Err so the UI never flashes to empty on a transient
// failure.
type Entry struct {
	Data       any
	Err        error
	Status     Status
	FetchedAt  time.Time
	Stale      bool
	Generation uint64
}

// FetchFunc performs the underlying read. Transport-level retry lives in
// the API client, not here, so mutations can never inherit it.
type FetchFunc func(ctx context.Context) (any, error)

type entry struct {
	data       any
	hasData    bool
	err        error
	fetchedAt  time.Time
	stale      bool
	inflight   int
	nextGen    uint64 // generation handed to the next fetch
	appliedGen uint64 // generation of the newest applied completion
}

// Cache is the process-wide table of in-flight and completed reads.
// Entries are stale from creation: every Get refetches unless an identical
// read is already in flight, in which case the callers share it.
type Cache struct {
	mu      sync.Mutex
	entries map[Key]*entry
	group   singleflight.Group
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{entries: make(map[Key]*entry)}
}

// Get performs a keyed read. Concurrent calls with an equal key share one
// underlying fetch; the returned snapshot always reflects the newest
// applied generation for the key, so a slow stale fetch never surfaces
// over a newer result.
func (c *Cache) Get(ctx context.Context, key Key, fetch FetchFunc) (Entry, error) {
	c.mu.Lock()
	e := c.ensure(key)
	e.inflight++
	c.mu.Unlock()

	// The flight's own return values are deliberately discarded: the
	// entry snapshot is authoritative, because this flight may have been
	// superseded by a newer generation while it was running.
	_, _, _ = c.group.Do(key.flightID(), func() (any, error) {
		c.mu.Lock()
		e.nextGen++
		gen := e.nextGen
		c.mu.Unlock()

		data, err := fetch(ctx)
		c.apply(key, gen, data, err)
		return data, err
	})

	c.mu.Lock()
	e.inflight--
	snap := c.snapshot(key)
	c.mu.Unlock()

	if snap.Err != nil {
		return snap, snap.Err
	}
	return snap, nil
}

// Peek returns the current snapshot without fetching. ok is false when the
// key has never been read.
func (c *Cache) Peek(key Key) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; !exists {
		return Entry{}, false
	}
	return c.snapshot(key), true
}

// Invalidate marks every entry under the given operations stale and
// abandons their in-flight reads, so the next access starts a fresh
// generation instead of joining a stale one. Data is kept until a
// successful refetch replaces it.
func (c *Cache) Invalidate(ops ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		for _, op := range ops {
			if key.Op != op {
				continue
			}
			e.stale = true
			c.group.Forget(key.flightID())
			break
		}
	}
}

// Mutate runs a side-effecting operation exactly once (never auto-retried)
// and, on success, invalidates the declared operations.
func (c *Cache) Mutate(ctx context.Context, fn func(ctx context.Context) (any, error), invalidates ...string) (any, error) {
	result, err := fn(ctx)
	if err != nil {
		return nil, err
	}
	if len(invalidates) > 0 {
		c.Invalidate(invalidates...)
	}
	return result, nil
}

// ensure returns the entry for key, creating it stale. Callers hold mu.
func (c *Cache) ensure(key Key) *entry {
	e, ok := c.entries[key]
	if !ok {
		e = &entry{stale: true}
		c.entries[key] = e
	}
	return e
}

// apply records a completed fetch, discarding it when a newer generation
// has already been applied for the key.
func (c *Cache) apply(key Key, gen uint64, data any, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entries[key]
	if e == nil || gen <= e.appliedGen {
		return // out of generation: a newer completion won
	}
	e.appliedGen = gen

	if err != nil {
		// First-fetch failure has nothing to preserve; later failures
		// keep the prior value and only flag the error.
		e.err = err
		return
	}
	e.data = data
	e.hasData = true
	e.err = nil
	e.fetchedAt = time.Now()
	e.stale = true // stale since creation: next access refetches
}

// snapshot builds the public view of an entry. Callers hold mu.
func (c *Cache) snapshot(key Key) Entry {
	e := c.entries[key]
	snap := Entry{
		Err:        e.err,
		FetchedAt:  e.fetchedAt,
		Stale:      e.stale,
		Generation: e.appliedGen,
	}
	if e.hasData {
		snap.Data = e.data
	}
	switch {
	case e.hasData && e.err == nil:
		snap.Status = StatusSuccess
	case e.err != nil && !e.hasData:
		snap.Status = StatusError
	case e.err != nil:
		snap.Status = StatusSuccess // stale data shown with error flag
	case e.inflight > 0:
		snap.Status = StatusLoading
	default:
		snap.Status = StatusIdle
	}
	return snap
}

// Fetch is the typed convenience wrapper over Get.
func Fetch[T any](ctx context.Context, c *Cache, key Key, fn func(ctx context.Context) (T, error)) (T, error) {
	snap, err := c.Get(ctx, key, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		var zero T
		if v, ok := snap.Data.(T); ok {
			// Transient failure with prior data: hand callers the stale
			// value alongside the error.
			return v, err
		}
		return zero, err
	}
	v, ok := snap.Data.(T)
	if !ok {
		var zero T
		return zero, nil
	}
	return v, nil
}
