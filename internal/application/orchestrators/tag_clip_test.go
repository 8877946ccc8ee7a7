package orchestrators

import (
	"context"
	"errors"
	"testing"
)

// TestExecuteTagClip_Valid tests applying a tag with a rating.
func TestExecuteTagClip_Valid(t *testing.T) {
	clips := newMockClipStore()
	seedClip(clips, "c1", "u1")
	tags := newMockTagStore()
	seedTag(tags, "t1", "u1", "guitar")

	err := ExecuteTagClip(context.Background(), TagClipInput{
		UserID: "u1", ClipID: "c1", TagID: "t1", Rating: 4,
	}, TagClipDeps{ClipStore: clips, TagStore: tags, Now: fixedNow})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assoc, ok := tags.assocs["c1/t1"]
	if !ok {
		t.Fatal("expected association to be persisted")
	}
	if assoc.Rating != 4 {
		t.Errorf("rating=%d want 4", assoc.Rating)
	}
}

// TestExecuteTagClip_ReapplyOverwritesRating tests that re-tagging updates
// the rating instead of duplicating the association.
func TestExecuteTagClip_ReapplyOverwritesRating(t *testing.T) {
	clips := newMockClipStore()
	seedClip(clips, "c1", "u1")
	tags := newMockTagStore()
	seedTag(tags, "t1", "u1", "guitar")
	deps := TagClipDeps{ClipStore: clips, TagStore: tags, Now: fixedNow}

	if err := ExecuteTagClip(context.Background(), TagClipInput{
		UserID: "u1", ClipID: "c1", TagID: "t1", Rating: 3,
	}, deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ExecuteTagClip(context.Background(), TagClipInput{
		UserID: "u1", ClipID: "c1", TagID: "t1", Rating: 5,
	}, deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tags.assocs) != 1 {
		t.Fatalf("assocs=%d want 1", len(tags.assocs))
	}
	if tags.assocs["c1/t1"].Rating != 5 {
		t.Errorf("rating=%d want 5", tags.assocs["c1/t1"].Rating)
	}
}

// TestExecuteTagClip_RatingOutOfRange tests rating bounds enforcement.
func TestExecuteTagClip_RatingOutOfRange(t *testing.T) {
	clips := newMockClipStore()
	seedClip(clips, "c1", "u1")
	tags := newMockTagStore()
	seedTag(tags, "t1", "u1", "guitar")
	deps := TagClipDeps{ClipStore: clips, TagStore: tags, Now: fixedNow}

	for _, rating := range []int{0, 6, -1} {
		err := ExecuteTagClip(context.Background(), TagClipInput{
			UserID: "u1", ClipID: "c1", TagID: "t1", Rating: rating,
		}, deps)
		if err == nil {
			t.Errorf("rating=%d: expected error", rating)
		}
	}
	if len(tags.assocs) != 0 {
		t.Errorf("assocs=%d want 0", len(tags.assocs))
	}
}

// TestExecuteTagClip_ForeignTag tests another user's tag cannot be applied.
func TestExecuteTagClip_ForeignTag(t *testing.T) {
	clips := newMockClipStore()
	seedClip(clips, "c1", "u1")
	tags := newMockTagStore()
	seedTag(tags, "t1", "u2", "guitar")

	err := ExecuteTagClip(context.Background(), TagClipInput{
		UserID: "u1", ClipID: "c1", TagID: "t1", Rating: 4,
	}, TagClipDeps{ClipStore: clips, TagStore: tags, Now: fixedNow})
	if !errors.Is(err, ErrTagNotFound) {
		t.Fatalf("err=%v want ErrTagNotFound", err)
	}
}

// TestExecuteTagClip_ForeignClip tests another user's clip cannot be tagged.
func TestExecuteTagClip_ForeignClip(t *testing.T) {
	clips := newMockClipStore()
	seedClip(clips, "c1", "u2")
	tags := newMockTagStore()
	seedTag(tags, "t1", "u1", "guitar")

	err := ExecuteTagClip(context.Background(), TagClipInput{
		UserID: "u1", ClipID: "c1", TagID: "t1", Rating: 4,
	}, TagClipDeps{ClipStore: clips, TagStore: tags, Now: fixedNow})
	if !errors.Is(err, ErrClipNotFound) {
		t.Fatalf("err=%v want ErrClipNotFound", err)
	}
}

// --- ExecuteUntagClip tests ---

// TestExecuteUntagClip_Valid tests removing an existing association.
func TestExecuteUntagClip_Valid(t *testing.T) {
	clips := newMockClipStore()
	seedClip(clips, "c1", "u1")
	tags := newMockTagStore()
	seedTag(tags, "t1", "u1", "guitar")
	if err := ExecuteTagClip(context.Background(), TagClipInput{
		UserID: "u1", ClipID: "c1", TagID: "t1", Rating: 4,
	}, TagClipDeps{ClipStore: clips, TagStore: tags, Now: fixedNow}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	err := ExecuteUntagClip(context.Background(), UntagClipInput{
		UserID: "u1", ClipID: "c1", TagID: "t1",
	}, UntagClipDeps{ClipStore: clips, TagStore: tags})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tags.assocs) != 0 {
		t.Errorf("assocs=%d want 0", len(tags.assocs))
	}
}

// TestExecuteUntagClip_AbsentAssociation tests removal is idempotent.
func TestExecuteUntagClip_AbsentAssociation(t *testing.T) {
	clips := newMockClipStore()
	seedClip(clips, "c1", "u1")

	err := ExecuteUntagClip(context.Background(), UntagClipInput{
		UserID: "u1", ClipID: "c1", TagID: "t1",
	}, UntagClipDeps{ClipStore: clips, TagStore: newMockTagStore()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
