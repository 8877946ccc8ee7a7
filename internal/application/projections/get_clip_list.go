package projections

import (
	"context"

	"referencer/internal/application/listutil"
	domain "referencer/internal/domain/clip"
)

// ClipStore is the clip read access projections need.
type ClipStore interface {
	GetByID(ctx context.Context, id string) (domain.Clip, error)
	ListByUser(ctx context.Context, userID, search string, limit, offset int) ([]domain.Clip, error)
	CountByUser(ctx context.Context, userID, search string) (int, error)
}

// TagStore is the tag read access projections need.
type TagStore interface {
	GetTagsForClip(ctx context.Context, clipID string) ([]domain.RatedTag, error)
	SearchClipsByTags(ctx context.Context, userID string, tagIDs []string) ([]domain.Clip, error)
}

// GetClipListQuery carries query parameters.
type GetClipListQuery struct {
	UserID  string
	TagIDs  []string // clips must carry ALL of these tags
	Search  string   // optional title substring
	Page    int
	PerPage int
}

// ClipWithTags pairs a clip with its tags for rendering.
type ClipWithTags struct {
	domain.Clip
	Tags []domain.RatedTag `json:"tags"`
}

// GetClipListResult carries the query result.
type GetClipListResult struct {
	Clips    []ClipWithTags    `json:"clips"`
	PageInfo listutil.PageInfo `json:"pageInfo"`
}

// GetClipListDeps holds dependencies for GetClipList.
type GetClipListDeps struct {
	ClipStore ClipStore
	TagStore  TagStore
}

// QueryGetClipList retrieves a page of the user's clips with their tags.
// With a tag filter, only clips carrying every requested tag match; the tag
// search path returns the full match set, so pagination is applied here.
// PRE: UserID identifies an authenticated account
// POST: Returns clips newest first with pagination metadata
func QueryGetClipList(ctx context.Context, query GetClipListQuery, deps GetClipListDeps) (GetClipListResult, error) {
	pageInfo := listutil.NewPageInfo(query.Page, query.PerPage, 0)

	var clips []domain.Clip
	if len(query.TagIDs) > 0 {
		matched, err := deps.TagStore.SearchClipsByTags(ctx, query.UserID, query.TagIDs)
		if err != nil {
			return GetClipListResult{}, err
		}
		matched = filterByTitle(matched, query.Search)
		pageInfo = listutil.NewPageInfo(query.Page, query.PerPage, len(matched))
		clips = pageSlice(matched, pageInfo)
	} else {
		total, err := deps.ClipStore.CountByUser(ctx, query.UserID, query.Search)
		if err != nil {
			return GetClipListResult{}, err
		}
		pageInfo = listutil.NewPageInfo(query.Page, query.PerPage, total)
		clips, err = deps.ClipStore.ListByUser(ctx, query.UserID, query.Search, pageInfo.PerPage, pageInfo.Offset())
		if err != nil {
			return GetClipListResult{}, err
		}
	}

	result := GetClipListResult{
		Clips:    make([]ClipWithTags, 0, len(clips)),
		PageInfo: pageInfo,
	}
	for _, c := range clips {
		tags, err := deps.TagStore.GetTagsForClip(ctx, c.ID)
		if err != nil {
			return GetClipListResult{}, err
		}
		result.Clips = append(result.Clips, ClipWithTags{Clip: c, Tags: tags})
	}
	return result, nil
}

// filterByTitle narrows clips to those whose title contains the term
// (case-insensitive). An empty term matches everything.
func filterByTitle(clips []domain.Clip, search string) []domain.Clip {
	if search == "" {
		return clips
	}
	var out []domain.Clip
	for _, c := range clips {
		if containsFold(c.Title, search) {
			out = append(out, c)
		}
	}
	return out
}

// pageSlice cuts one page out of the full match set.
func pageSlice(clips []domain.Clip, p listutil.PageInfo) []domain.Clip {
	start := p.Offset()
	if start >= len(clips) {
		return nil
	}
	end := start + p.PerPage
	if end > len(clips) {
		end = len(clips)
	}
	return clips[start:end]
}
