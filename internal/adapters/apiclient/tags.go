package apiclient

import (
	"context"
	"net/http"

	domain "referencer/internal/domain/clip"
)

type tagName struct {
	Name string `json:"name"`
}

// ListTags returns the user's tags ordered by name. Implements
// tagcache.Backend.
func (c *Client) ListTags(ctx context.Context) ([]domain.Tag, error) {
	var result struct {
		Tags []domain.Tag `json:"tags"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/tags", nil, &result); err != nil {
		return nil, err
	}
	return result.Tags, nil
}

// CreateTag creates a tag. Duplicate names come back as ErrConflict.
func (c *Client) CreateTag(ctx context.Context, name string) (domain.Tag, error) {
	var t domain.Tag
	err := c.do(ctx, http.MethodPost, "/api/tags", tagName{Name: name}, &t)
	return t, err
}

// GetTag loads one tag by ID.
func (c *Client) GetTag(ctx context.Context, id string) (domain.Tag, error) {
	var result struct {
		Tag domain.Tag `json:"tag"`
	}
	err := c.do(ctx, http.MethodGet, "/api/tags/"+id, nil, &result)
	return result.Tag, err
}

// UpdateTag renames a tag.
func (c *Client) UpdateTag(ctx context.Context, id, name string) (domain.Tag, error) {
	var result struct {
		Tag domain.Tag `json:"tag"`
	}
	err := c.do(ctx, http.MethodPatch, "/api/tags/"+id, tagName{Name: name}, &result)
	return result.Tag, err
}

// DeleteTag removes a tag. Clip associations cascade on the server.
func (c *Client) DeleteTag(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/tags/"+id, nil, nil)
}

// GetClipTags returns a clip's tags with ratings. Implements
// tagcache.AssociationBackend.
func (c *Client) GetClipTags(ctx context.Context, clipID string) ([]domain.RatedTag, error) {
	var result struct {
		Tags []domain.RatedTag `json:"tags"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/clips/"+clipID+"/tags", nil, &result); err != nil {
		return nil, err
	}
	return result.Tags, nil
}

// TagClip applies a tag to a clip with a rating; re-applying overwrites the
// rating.
func (c *Client) TagClip(ctx context.Context, clipID, tagID string, rating int) error {
	body := struct {
		TagID  string `json:"tagId"`
		Rating int    `json:"rating"`
	}{TagID: tagID, Rating: rating}
	return c.do(ctx, http.MethodPut, "/api/clips/"+clipID+"/tags", body, nil)
}

// UntagClip removes a tag from a clip.
func (c *Client) UntagClip(ctx context.Context, clipID, tagID string) error {
	return c.do(ctx, http.MethodDelete, "/api/clips/"+clipID+"/tags/"+tagID, nil, nil)
}
