package orchestrators

import (
	"context"
	"log/slog"
	"time"

	domain "referencer/internal/domain/clip"
)

// ClipStoreForRead is the read-side clip access tag association needs.
type ClipStoreForRead interface {
	GetByID(ctx context.Context, id string) (domain.Clip, error)
}

// TagStoreForAssociation is the association access the orchestrators need.
type TagStoreForAssociation interface {
	GetTagByID(ctx context.Context, id string) (domain.Tag, error)
	UpsertClipTag(ctx context.Context, clipTag domain.ClipTag) error
	RemoveTagFromClip(ctx context.Context, clipID, tagID string) error
}

// TagClipInput carries a tag-with-rating application.
type TagClipInput struct {
	UserID string
	ClipID string
	TagID  string
	Rating int
}

// TagClipDeps holds dependencies for TagClip.
type TagClipDeps struct {
	ClipStore ClipStoreForRead
	TagStore  TagStoreForAssociation
	Now       func() time.Time
}

// ExecuteTagClip applies a tag to a clip with a rating. Re-applying the same
// tag overwrites the rating rather than duplicating the association.
// PRE: both clip and tag belong to the user
// POST: exactly one (clip, tag) association exists, carrying the new rating
func ExecuteTagClip(ctx context.Context, input TagClipInput, deps TagClipDeps) error {
	c, err := deps.ClipStore.GetByID(ctx, input.ClipID)
	if err != nil || c.UserID != input.UserID {
		return ErrClipNotFound
	}
	t, err := deps.TagStore.GetTagByID(ctx, input.TagID)
	if err != nil || t.UserID != input.UserID {
		return ErrTagNotFound
	}

	assoc := domain.ClipTag{
		ClipID:    input.ClipID,
		TagID:     input.TagID,
		Rating:    input.Rating,
		CreatedAt: deps.Now(),
	}
	if err := assoc.Validate(); err != nil {
		return err
	}
	if err := deps.TagStore.UpsertClipTag(ctx, assoc); err != nil {
		return err
	}

	slog.Info("tag_event", "event", "clip_tagged", "clip_id", input.ClipID, "tag_id", input.TagID, "rating", input.Rating)
	return nil
}

// UntagClipInput identifies the association to remove.
type UntagClipInput struct {
	UserID string
	ClipID string
	TagID  string
}

// UntagClipDeps holds dependencies for UntagClip.
type UntagClipDeps struct {
	ClipStore ClipStoreForRead
	TagStore  TagStoreForAssociation
}

// ExecuteUntagClip removes a tag from a clip the user owns.
// Removing an absent association is not an error.
// POST: no (clip, tag) association remains
func ExecuteUntagClip(ctx context.Context, input UntagClipInput, deps UntagClipDeps) error {
	c, err := deps.ClipStore.GetByID(ctx, input.ClipID)
	if err != nil || c.UserID != input.UserID {
		return ErrClipNotFound
	}
	if err := deps.TagStore.RemoveTagFromClip(ctx, input.ClipID, input.TagID); err != nil {
		return err
	}
	slog.Info("tag_event", "event", "clip_untagged", "clip_id", input.ClipID, "tag_id", input.TagID)
	return nil
}
