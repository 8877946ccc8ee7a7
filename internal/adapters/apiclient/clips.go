package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"referencer/internal/application/projections"
	domain "referencer/internal/domain/clip"
)

// ListClipsParams narrows and pages the clip list.
type ListClipsParams struct {
	Search  string
	TagIDs  []string // clips must carry ALL of these tags
	Page    int
	PerPage int
}

// ListClips returns a page of the user's clips, newest first.
func (c *Client) ListClips(ctx context.Context, params ListClipsParams) (projections.GetClipListResult, error) {
	q := url.Values{}
	if params.Search != "" {
		q.Set("q", params.Search)
	}
	if len(params.TagIDs) > 0 {
		q.Set("tags", strings.Join(params.TagIDs, ","))
	}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}
	if params.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(params.PerPage))
	}
	path := "/api/clips"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var result projections.GetClipListResult
	err := c.do(ctx, http.MethodGet, path, nil, &result)
	return result, err
}

// CreateClipParams carries a capture request.
type CreateClipParams struct {
	VideoID       string `json:"videoId"`
	Title         string `json:"title"`
	Thumbnail     string `json:"thumbnail"`
	StartTime     int    `json:"startTime"`
	EndTime       int    `json:"endTime"`
	VideoDuration int    `json:"videoDuration"`
	Notes         string `json:"notes"`
}

// CreateClip captures a new clip.
func (c *Client) CreateClip(ctx context.Context, params CreateClipParams) (domain.Clip, error) {
	var clip domain.Clip
	err := c.do(ctx, http.MethodPost, "/api/clips", params, &clip)
	return clip, err
}

// GetClip loads one clip with its tags.
func (c *Client) GetClip(ctx context.Context, id string) (projections.GetClipDetailResult, error) {
	var result projections.GetClipDetailResult
	err := c.do(ctx, http.MethodGet, "/api/clips/"+id, nil, &result)
	return result, err
}

// UpdateClipParams carries a partial update. Nil fields are omitted from the
// request and left unchanged by the server.
type UpdateClipParams struct {
	Title     *string `json:"title,omitempty"`
	Thumbnail *string `json:"thumbnail,omitempty"`
	StartTime *int    `json:"startTime,omitempty"`
	EndTime   *int    `json:"endTime,omitempty"`
	Notes     *string `json:"notes,omitempty"`
	IsPublic  *bool   `json:"isPublic,omitempty"`
}

// UpdateClip applies a partial update. The server rejects any combination
// that would leave EndTime <= StartTime.
func (c *Client) UpdateClip(ctx context.Context, id string, params UpdateClipParams) (domain.Clip, error) {
	var clip domain.Clip
	err := c.do(ctx, http.MethodPatch, "/api/clips/"+id, params, &clip)
	return clip, err
}

// DeleteClip removes a clip.
func (c *Client) DeleteClip(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/clips/"+id, nil, nil)
}
