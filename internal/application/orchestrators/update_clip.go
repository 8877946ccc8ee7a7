package orchestrators

import (
	"context"
	"log/slog"
	"time"

	domain "referencer/internal/domain/clip"
)

// UpdateClipInput carries a partial clip update. Nil fields are left unchanged.
type UpdateClipInput struct {
	UserID    string
	ClipID    string
	Title     *string
	Thumbnail *string
	StartTime *int
	EndTime   *int
	Notes     *string
	IsPublic  *bool
}

// UpdateClipDeps holds dependencies for UpdateClip.
type UpdateClipDeps struct {
	ClipStore  ClipStoreForWrite
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteUpdateClip applies a partial update to a clip the user owns.
// The updated clip is re-validated in full, so a PATCH can never leave an
// inverted time range behind, whatever combination of fields it carries.
// PRE: UserID identifies an authenticated account
// POST: Clip persisted with UpdatedAt refreshed; ErrClipNotFound for
// missing or foreign clips
func ExecuteUpdateClip(ctx context.Context, input UpdateClipInput, deps UpdateClipDeps) (domain.Clip, error) {
	c, err := deps.ClipStore.GetByID(ctx, input.ClipID)
	if err != nil || c.UserID != input.UserID {
		return domain.Clip{}, ErrClipNotFound
	}

	if input.Title != nil {
		c.Title = *input.Title
	}
	if input.Thumbnail != nil {
		c.Thumbnail = *input.Thumbnail
	}
	if input.StartTime != nil {
		c.StartTime = *input.StartTime
	}
	if input.EndTime != nil {
		c.EndTime = *input.EndTime
	}
	if input.Notes != nil {
		c.Notes = *input.Notes
	}
	if input.IsPublic != nil {
		c.IsPublic = *input.IsPublic
		// First publication mints the share slug; it stays stable afterwards
		// so shared links survive toggling visibility.
		if c.IsPublic && c.ShareSlug == "" {
			c.ShareSlug = deps.GenerateID()
		}
	}
	c.UpdatedAt = deps.Now()

	if err := c.Validate(); err != nil {
		return domain.Clip{}, err
	}
	if err := deps.ClipStore.Save(ctx, c); err != nil {
		return domain.Clip{}, err
	}

	slog.Info("clip_event", "event", "clip_updated", "clip_id", c.ID, "user_id", c.UserID)
	return c, nil
}

// DeleteClipInput identifies the clip to remove.
type DeleteClipInput struct {
	UserID string
	ClipID string
}

// DeleteClipDeps holds dependencies for DeleteClip.
type DeleteClipDeps struct {
	ClipStore ClipStoreForWrite
}

// ExecuteDeleteClip removes a clip the user owns. Tag associations cascade.
// POST: Clip removed; ErrClipNotFound for missing or foreign clips
func ExecuteDeleteClip(ctx context.Context, input DeleteClipInput, deps DeleteClipDeps) error {
	c, err := deps.ClipStore.GetByID(ctx, input.ClipID)
	if err != nil || c.UserID != input.UserID {
		return ErrClipNotFound
	}
	if err := deps.ClipStore.Delete(ctx, input.ClipID); err != nil {
		return err
	}
	slog.Info("clip_event", "event", "clip_deleted", "clip_id", input.ClipID, "user_id", input.UserID)
	return nil
}
