package clip

import (
	"context"

	domain "referencer/internal/domain/clip"
)

// TagStore persists tags and their clip associations.
// Tag names are unique per user; associations carry a rating.
type TagStore interface {
	SaveTag(ctx context.Context, tag domain.Tag) error
	GetTagByID(ctx context.Context, id string) (domain.Tag, error)
	GetTagByName(ctx context.Context, userID, name string) (domain.Tag, error)
	ListTags(ctx context.Context, userID string) ([]domain.Tag, error)
	DeleteTag(ctx context.Context, id string) error

	UpsertClipTag(ctx context.Context, clipTag domain.ClipTag) error
	RemoveTagFromClip(ctx context.Context, clipID, tagID string) error
	GetTagsForClip(ctx context.Context, clipID string) ([]domain.RatedTag, error)
	GetClipsForTag(ctx context.Context, tagID string) ([]string, error)
	SearchClipsByTags(ctx context.Context, userID string, tagIDs []string) ([]domain.Clip, error)
}
