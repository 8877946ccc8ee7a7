package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	clipStore "referencer/internal/adapters/storage/clip"
	domain "referencer/internal/domain/clip"
)

// TagStoreForWrite defines the store interface needed by tag orchestrators.
type TagStoreForWrite interface {
	SaveTag(ctx context.Context, tag domain.Tag) error
	GetTagByID(ctx context.Context, id string) (domain.Tag, error)
	GetTagByName(ctx context.Context, userID, name string) (domain.Tag, error)
	DeleteTag(ctx context.Context, id string) error
}

var (
	// ErrTagNameTaken is returned when the user already has a tag with the name.
	ErrTagNameTaken = errors.New("a tag with this name already exists")
	// ErrTagNotFound is returned when the tag does not exist or belongs to
	// another user.
	ErrTagNotFound = errors.New("tag not found")
)

// CreateTagInput carries input for tag creation.
type CreateTagInput struct {
	UserID string
	Name   string
}

// CreateTagDeps holds dependencies for CreateTag.
type CreateTagDeps struct {
	TagStore   TagStoreForWrite
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteCreateTag creates a tag in the user's namespace.
// POST: Tag persisted; ErrTagNameTaken if the name collides (case-insensitive)
func ExecuteCreateTag(ctx context.Context, input CreateTagInput, deps CreateTagDeps) (domain.Tag, error) {
	now := deps.Now()
	t := domain.Tag{
		ID:        deps.GenerateID(),
		UserID:    input.UserID,
		Name:      strings.TrimSpace(input.Name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := t.Validate(); err != nil {
		return domain.Tag{}, err
	}

	if err := deps.TagStore.SaveTag(ctx, t); err != nil {
		if errors.Is(err, clipStore.ErrDuplicateTagName) {
			return domain.Tag{}, ErrTagNameTaken
		}
		return domain.Tag{}, err
	}

	slog.Info("tag_event", "event", "tag_created", "tag_id", t.ID, "user_id", t.UserID, "name", t.Name)
	return t, nil
}

// UpdateTagInput carries a tag rename.
type UpdateTagInput struct {
	UserID string
	TagID  string
	Name   string
}

// UpdateTagDeps holds dependencies for UpdateTag.
type UpdateTagDeps struct {
	TagStore TagStoreForWrite
	Now      func() time.Time
}

// ExecuteUpdateTag renames a tag the user owns.
// POST: Tag persisted with new name; ErrTagNotFound for missing or foreign
// tags; ErrTagNameTaken on collision
func ExecuteUpdateTag(ctx context.Context, input UpdateTagInput, deps UpdateTagDeps) (domain.Tag, error) {
	t, err := deps.TagStore.GetTagByID(ctx, input.TagID)
	if err != nil || t.UserID != input.UserID {
		return domain.Tag{}, ErrTagNotFound
	}

	t.Name = strings.TrimSpace(input.Name)
	t.UpdatedAt = deps.Now()
	if err := t.Validate(); err != nil {
		return domain.Tag{}, err
	}

	if err := deps.TagStore.SaveTag(ctx, t); err != nil {
		if errors.Is(err, clipStore.ErrDuplicateTagName) {
			return domain.Tag{}, ErrTagNameTaken
		}
		return domain.Tag{}, err
	}

	slog.Info("tag_event", "event", "tag_renamed", "tag_id", t.ID, "user_id", t.UserID, "name", t.Name)
	return t, nil
}

// DeleteTagInput identifies the tag to remove.
type DeleteTagInput struct {
	UserID string
	TagID  string
}

// DeleteTagDeps holds dependencies for DeleteTag.
type DeleteTagDeps struct {
	TagStore TagStoreForWrite
}

// ExecuteDeleteTag removes a tag the user owns. Clip associations cascade.
// POST: Tag removed; ErrTagNotFound for missing or foreign tags
func ExecuteDeleteTag(ctx context.Context, input DeleteTagInput, deps DeleteTagDeps) error {
	t, err := deps.TagStore.GetTagByID(ctx, input.TagID)
	if err != nil || t.UserID != input.UserID {
		return ErrTagNotFound
	}
	if err := deps.TagStore.DeleteTag(ctx, input.TagID); err != nil {
		return err
	}
	slog.Info("tag_event", "event", "tag_deleted", "tag_id", input.TagID, "user_id", input.UserID)
	return nil
}
