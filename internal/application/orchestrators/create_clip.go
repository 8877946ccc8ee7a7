package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	domain "referencer/internal/domain/clip"
)

// ClipStoreForWrite defines the store interface needed by clip orchestrators.
type ClipStoreForWrite interface {
	GetByID(ctx context.Context, id string) (domain.Clip, error)
	Save(ctx context.Context, value domain.Clip) error
	Delete(ctx context.Context, id string) error
}

// ErrClipNotFound is returned when the clip does not exist or belongs to
// another user. Both cases look identical to the caller.
var ErrClipNotFound = errors.New("clip not found")

// CreateClipInput carries input for the capture orchestrator.
type CreateClipInput struct {
	UserID        string
	VideoID       string
	Title         string
	Thumbnail     string
	StartTime     int
	EndTime       int
	VideoDuration int
	Notes         string
}

// CreateClipDeps holds dependencies for CreateClip.
type CreateClipDeps struct {
	ClipStore  ClipStoreForWrite
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteCreateClip captures a new clip for a user.
// PRE: UserID identifies an authenticated account
// POST: Clip persisted with a fresh ID; defaults applied for thumbnail
func ExecuteCreateClip(ctx context.Context, input CreateClipInput, deps CreateClipDeps) (domain.Clip, error) {
	now := deps.Now()
	c := domain.Clip{
		ID:            deps.GenerateID(),
		UserID:        input.UserID,
		VideoID:       input.VideoID,
		Title:         input.Title,
		Thumbnail:     input.Thumbnail,
		StartTime:     input.StartTime,
		EndTime:       input.EndTime,
		VideoDuration: input.VideoDuration,
		Notes:         input.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if c.Thumbnail == "" {
		c.Thumbnail = domain.DefaultThumbnail(c.VideoID)
	}

	if err := c.Validate(); err != nil {
		return domain.Clip{}, err
	}
	if err := deps.ClipStore.Save(ctx, c); err != nil {
		return domain.Clip{}, err
	}

	slog.Info("clip_event", "event", "clip_created", "clip_id", c.ID, "user_id", c.UserID, "video_id", c.VideoID)
	return c, nil
}
