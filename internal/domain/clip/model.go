package clip

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxTitleLength     = 200
	MaxThumbnailLength = 2048
	MaxNotesLength     = 1000
)

// Clip represents a saved [startTime, endTime) segment of a YouTube video.
// PRE: VideoID identifies an existing YouTube video. StartTime < EndTime.
// INVARIANT: A clip always belongs to a user via UserID.
type Clip struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`  // account ID of the owner
	VideoID       string    `json:"videoId"` // YouTube video ID (the ?v= parameter)
	Title         string    `json:"title"`
	Thumbnail     string    `json:"thumbnail"` // thumbnail URL captured at save time
	StartTime     int       `json:"startTime"` // clip start in seconds
	EndTime       int       `json:"endTime"`   // clip end in seconds
	VideoDuration int       `json:"videoDuration"` // total source video length in seconds; 0 = unknown
	Notes         string    `json:"notes"`         // optional markdown notes
	IsPublic      bool      `json:"isPublic"`
	ShareSlug     string    `json:"shareSlug"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

var videoIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

// Validate checks the clip's invariants.
// PRE: none
// POST: returns nil if valid, error describing the first violation otherwise
func (c *Clip) Validate() error {
	if c.UserID == "" {
		return errors.New("clip user ID cannot be empty")
	}
	if c.VideoID == "" {
		return errors.New("clip video ID cannot be empty")
	}
	if !videoIDPattern.MatchString(c.VideoID) {
		return errors.New("clip video ID must be an 11-character YouTube ID")
	}
	if c.Title == "" {
		return errors.New("clip title cannot be empty")
	}
	if len(c.Title) > MaxTitleLength {
		return errors.New("clip title cannot exceed 200 characters")
	}
	if len(c.Thumbnail) > MaxThumbnailLength {
		return errors.New("clip thumbnail URL cannot exceed 2048 characters")
	}
	if c.StartTime < 0 {
		return errors.New("clip start time cannot be negative")
	}
	if c.EndTime <= c.StartTime {
		return errors.New("clip end time must be greater than start time")
	}
	if c.VideoDuration < 0 {
		return errors.New("clip video duration cannot be negative")
	}
	if len(c.Notes) > MaxNotesLength {
		return errors.New("clip notes cannot exceed 1000 characters")
	}
	return nil
}

// Duration returns the clip length in seconds.
// PRE: StartTime < EndTime
// POST: returns positive duration
// Value receiver so templates can call it on list entries.
func (c Clip) Duration() int {
	return c.EndTime - c.StartTime
}

// WatchURL returns the YouTube watch URL positioned at the clip start.
func (c Clip) WatchURL() string {
	return fmt.Sprintf("https://www.youtube.com/watch?v=%s&t=%ds", c.VideoID, c.StartTime)
}

// DefaultThumbnail returns the standard YouTube thumbnail URL for a video ID.
func DefaultThumbnail(videoID string) string {
	return fmt.Sprintf("https://i.ytimg.com/vi/%s/hqdefault.jpg", videoID)
}
