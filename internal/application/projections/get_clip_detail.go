package projections

import (
	"context"
	"errors"
	"strings"

	domain "referencer/internal/domain/clip"
)

// ErrClipNotFound is returned when the clip does not exist or belongs to
// another user.
var ErrClipNotFound = errors.New("clip not found")

// GetClipDetailQuery identifies the clip to load.
type GetClipDetailQuery struct {
	UserID string
	ClipID string
}

// GetClipDetailResult carries the clip and its tags.
type GetClipDetailResult struct {
	Clip domain.Clip       `json:"clip"`
	Tags []domain.RatedTag `json:"tags"`
}

// GetClipDetailDeps holds dependencies for GetClipDetail.
type GetClipDetailDeps struct {
	ClipStore ClipStore
	TagStore  TagStore
}

// QueryGetClipDetail loads one clip with its tags for the owning user.
// PRE: UserID identifies an authenticated account
// POST: Returns ErrClipNotFound for missing or foreign clips
func QueryGetClipDetail(ctx context.Context, query GetClipDetailQuery, deps GetClipDetailDeps) (GetClipDetailResult, error) {
	c, err := deps.ClipStore.GetByID(ctx, query.ClipID)
	if err != nil || c.UserID != query.UserID {
		return GetClipDetailResult{}, ErrClipNotFound
	}

	tags, err := deps.TagStore.GetTagsForClip(ctx, c.ID)
	if err != nil {
		return GetClipDetailResult{}, err
	}
	return GetClipDetailResult{Clip: c, Tags: tags}, nil
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
