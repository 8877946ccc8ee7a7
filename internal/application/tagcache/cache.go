// Package tagcache keeps a shared in-memory view of a user's tag list so
// every consumer (dashboard widgets, CLI commands) sees the same state
// without redundant fetches against the API.
package tagcache

import (
	"context"
	"sync"

	domain "referencer/internal/domain/clip"
)

// Backend is the external tag store the cache sits in front of. Implemented
// by the API client.
type Backend interface {
	ListTags(ctx context.Context) ([]domain.Tag, error)
	CreateTag(ctx context.Context, name string) (domain.Tag, error)
	UpdateTag(ctx context.Context, id, name string) (domain.Tag, error)
	DeleteTag(ctx context.Context, id string) error
}

// Cache holds the shared tag list. Construct with New; the zero value is not
// usable.
//
// INVARIANT: at most one list fetch is in flight at any time.
// INVARIANT: subscribers are notified only after a mutation is visible in
// the cached slice.
type Cache struct {
	backend Backend

	mu          sync.Mutex
	tags        []domain.Tag
	loading     bool
	initialized bool
	errMsg      string
	subscribers map[int]func()
	nextSubID   int
}

// New creates an empty cache over the given backend.
func New(backend Backend) *Cache {
	return &Cache{
		backend:     backend,
		subscribers: make(map[int]func()),
	}
}

// Subscribe registers a callback invoked after every cache change and
// returns a function that removes it again. The first subscriber triggers a
// background fetch of the tag list; further subscribers while that fetch is
// in flight do not trigger another one. A failed fetch leaves the cache
// uninitialized so a later Subscribe retries.
// POST: cb is registered; at most one fetch is running
func (c *Cache) Subscribe(cb func()) func() {
	c.mu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = cb

	startFetch := !c.initialized && !c.loading
	if startFetch {
		c.loading = true
		c.errMsg = ""
	}
	c.mu.Unlock()

	if startFetch {
		go c.fetch()
	}

	return func() {
		c.mu.Lock()
		delete(c.subscribers, id)
		c.mu.Unlock()
	}
}

// fetch loads the full tag list and publishes the result.
func (c *Cache) fetch() {
	tags, err := c.backend.ListTags(context.Background())

	c.mu.Lock()
	c.loading = false
	if err != nil {
		// initialized stays false so the next Subscribe retries.
		c.errMsg = err.Error()
	} else {
		c.tags = tags
		c.initialized = true
		c.errMsg = ""
	}
	c.mu.Unlock()

	c.notify()
}

// notify invokes every subscriber callback. The lock is not held during the
// calls so a callback may re-read cache state.
func (c *Cache) notify() {
	c.mu.Lock()
	cbs := make([]func(), 0, len(c.subscribers))
	for _, cb := range c.subscribers {
		cbs = append(cbs, cb)
	}
	c.mu.Unlock()

	for _, cb := range cbs {
		cb()
	}
}

// Tags returns a copy of the cached tag list.
func (c *Cache) Tags() []domain.Tag {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Tag, len(c.tags))
	copy(out, c.tags)
	return out
}

// Loading reports whether a list fetch is in flight.
func (c *Cache) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Initialized reports whether the cache holds a successfully fetched list.
func (c *Cache) Initialized() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initialized
}

// Err returns the message from the most recent failed operation, or "".
func (c *Cache) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// CreateTag creates a tag through the backend. On success the tag is
// appended to the cache, subscribers are notified, and ok is true. On
// failure the cache is untouched, the error is recorded, and ok is false.
func (c *Cache) CreateTag(ctx context.Context, name string) (domain.Tag, bool) {
	t, err := c.backend.CreateTag(ctx, name)
	if err != nil {
		c.setErr(err.Error())
		return domain.Tag{}, false
	}

	c.mu.Lock()
	c.tags = append(c.tags, t)
	c.errMsg = ""
	c.mu.Unlock()

	c.notify()
	return t, true
}

// UpdateTag renames a tag through the backend. On success the cached entry
// is replaced by ID and subscribers are notified.
func (c *Cache) UpdateTag(ctx context.Context, id, name string) bool {
	t, err := c.backend.UpdateTag(ctx, id, name)
	if err != nil {
		c.setErr(err.Error())
		return false
	}

	c.mu.Lock()
	for i := range c.tags {
		if c.tags[i].ID == id {
			c.tags[i] = t
			break
		}
	}
	c.errMsg = ""
	c.mu.Unlock()

	c.notify()
	return true
}

// DeleteTag removes a tag through the backend. On success the cached entry
// is removed and subscribers are notified.
func (c *Cache) DeleteTag(ctx context.Context, id string) bool {
	if err := c.backend.DeleteTag(ctx, id); err != nil {
		c.setErr(err.Error())
		return false
	}

	c.mu.Lock()
	for i := range c.tags {
		if c.tags[i].ID == id {
			c.tags = append(c.tags[:i], c.tags[i+1:]...)
			break
		}
	}
	c.errMsg = ""
	c.mu.Unlock()

	c.notify()
	return true
}

func (c *Cache) setErr(msg string) {
	c.mu.Lock()
	c.errMsg = msg
	c.mu.Unlock()
}
