package clip

import (
	"strings"
	"testing"
	"time"
)

func validClip() Clip {
	return Clip{
		ID:            "clip-1",
		UserID:        "user-1",
		VideoID:       "dQw4w9WgXcQ",
		Title:         "Guitar solo",
		Thumbnail:     "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg",
		StartTime:     30,
		EndTime:       90,
		VideoDuration: 212,
		CreatedAt:     time.Now(),
	}
}

// TestClip_Validate_Valid tests that a well-formed clip passes validation.
func TestClip_Validate_Valid(t *testing.T) {
	c := validClip()
	if err := c.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// TestClip_Validate_Invalid tests each invariant violation in turn.
func TestClip_Validate_Invalid(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Clip)
	}{
		{"empty_user", func(c *Clip) { c.UserID = "" }},
		{"empty_video_id", func(c *Clip) { c.VideoID = "" }},
		{"bad_video_id", func(c *Clip) { c.VideoID = "not-a-video-id" }},
		{"empty_title", func(c *Clip) { c.Title = "" }},
		{"long_title", func(c *Clip) { c.Title = strings.Repeat("x", MaxTitleLength+1) }},
		{"negative_start", func(c *Clip) { c.StartTime = -1 }},
		{"end_before_start", func(c *Clip) { c.StartTime = 90; c.EndTime = 30 }},
		{"end_equals_start", func(c *Clip) { c.EndTime = c.StartTime }},
		{"negative_duration", func(c *Clip) { c.VideoDuration = -1 }},
		{"long_notes", func(c *Clip) { c.Notes = strings.Repeat("n", MaxNotesLength+1) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := validClip()
			tc.mutate(&c)
			if err := c.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

// TestClip_Duration tests duration calculation.
func TestClip_Duration(t *testing.T) {
	c := Clip{StartTime: 30, EndTime: 45}
	if d := c.Duration(); d != 15 {
		t.Errorf("got %d, want 15", d)
	}
}

// TestClip_WatchURL tests the watch URL includes the start offset.
func TestClip_WatchURL(t *testing.T) {
	c := Clip{VideoID: "dQw4w9WgXcQ", StartTime: 30}
	want := "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=30s"
	if got := c.WatchURL(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

// TestDefaultThumbnail tests the derived thumbnail URL.
func TestDefaultThumbnail(t *testing.T) {
	want := "https://i.ytimg.com/vi/abc123_-XYZ/hqdefault.jpg"
	if got := DefaultThumbnail("abc123_-XYZ"); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
