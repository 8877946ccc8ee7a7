package tagcache

import (
	"context"
	"sync"

	domain "referencer/internal/domain/clip"
)

// AssociationBackend is the clip-tag association store the per-clip cache
// sits in front of. Implemented by the API client.
type AssociationBackend interface {
	GetClipTags(ctx context.Context, clipID string) ([]domain.RatedTag, error)
	TagClip(ctx context.Context, clipID, tagID string, rating int) error
	UntagClip(ctx context.Context, clipID, tagID string) error
}

// ClipTagCache caches each clip's tag associations, keyed by clip ID.
// Entries are fetched lazily and refreshed after any association mutation
// for that clip.
type ClipTagCache struct {
	backend AssociationBackend

	mu     sync.Mutex
	byClip map[string][]domain.RatedTag
}

// NewClipTagCache creates an empty per-clip association cache.
func NewClipTagCache(backend AssociationBackend) *ClipTagCache {
	return &ClipTagCache{
		backend: backend,
		byClip:  make(map[string][]domain.RatedTag),
	}
}

// Get returns the clip's tags, fetching them on first access.
// POST: a successful fetch is memoized until invalidated
func (c *ClipTagCache) Get(ctx context.Context, clipID string) ([]domain.RatedTag, error) {
	c.mu.Lock()
	tags, ok := c.byClip[clipID]
	c.mu.Unlock()
	if ok {
		return tags, nil
	}
	return c.refresh(ctx, clipID)
}

// Prefetch warms the cache for all listed clips that are not already cached.
// The first fetch failure aborts the pass.
func (c *ClipTagCache) Prefetch(ctx context.Context, clipIDs []string) error {
	for _, id := range clipIDs {
		c.mu.Lock()
		_, ok := c.byClip[id]
		c.mu.Unlock()
		if ok {
			continue
		}
		if _, err := c.refresh(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// TagClip applies a tag with a rating and refreshes the clip's cached entry.
func (c *ClipTagCache) TagClip(ctx context.Context, clipID, tagID string, rating int) error {
	if err := c.backend.TagClip(ctx, clipID, tagID, rating); err != nil {
		return err
	}
	_, err := c.refresh(ctx, clipID)
	return err
}

// UntagClip removes a tag and refreshes the clip's cached entry.
func (c *ClipTagCache) UntagClip(ctx context.Context, clipID, tagID string) error {
	if err := c.backend.UntagClip(ctx, clipID, tagID); err != nil {
		return err
	}
	_, err := c.refresh(ctx, clipID)
	return err
}

// Invalidate drops the clip's cached entry so the next Get refetches.
func (c *ClipTagCache) Invalidate(clipID string) {
	c.mu.Lock()
	delete(c.byClip, clipID)
	c.mu.Unlock()
}

func (c *ClipTagCache) refresh(ctx context.Context, clipID string) ([]domain.RatedTag, error) {
	tags, err := c.backend.GetClipTags(ctx, clipID)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.byClip[clipID] = tags
	c.mu.Unlock()
	return tags, nil
}
