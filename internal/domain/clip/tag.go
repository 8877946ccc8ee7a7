package clip

import (
	"errors"
	"time"
)

// MaxTagLength is the maximum length for a tag name.
const MaxTagLength = 50

// Rating bounds for clip-tag associations.
const (
	MinRating = 1
	MaxRating = 5
)

// Tag represents a label a user applies to clips for organisation and search.
// INVARIANT: Name is unique per user (enforced by the store).
type Tag struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate checks the tag's invariants.
// PRE: none
// POST: returns nil if valid, error describing first violation otherwise
func (t *Tag) Validate() error {
	if t.UserID == "" {
		return errors.New("tag user ID cannot be empty")
	}
	if t.Name == "" {
		return errors.New("tag name cannot be empty")
	}
	if len(t.Name) > MaxTagLength {
		return errors.New("tag name cannot exceed 50 characters")
	}
	return nil
}

// ClipTag represents the many-to-many relationship between clips and tags.
// One association per (clip, tag) pair; re-adding overwrites Rating.
type ClipTag struct {
	ClipID    string
	TagID     string
	Rating    int // 1..5
	CreatedAt time.Time
}

// Validate checks the association's invariants.
// PRE: none
// POST: returns nil if valid, error otherwise
func (ct *ClipTag) Validate() error {
	if ct.ClipID == "" {
		return errors.New("clip tag clip ID cannot be empty")
	}
	if ct.TagID == "" {
		return errors.New("clip tag tag ID cannot be empty")
	}
	if ct.Rating < MinRating || ct.Rating > MaxRating {
		return errors.New("clip tag rating must be between 1 and 5")
	}
	return nil
}

// RatedTag pairs a tag with the rating it carries on a particular clip.
type RatedTag struct {
	Tag
	Rating int `json:"rating"`
}
