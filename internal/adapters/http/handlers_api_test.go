package web

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"referencer/internal/adapters/http/middleware"
	clipStore "referencer/internal/adapters/storage/clip"
	accountDomain "referencer/internal/domain/account"
	clipDomain "referencer/internal/domain/clip"
)

// --- Mock stores ---

type mockAccountStore struct {
	accounts map[string]accountDomain.Account
}

// GetByID implements the mock AccountStore for testing.
// PRE: valid parameters
// POST: returns expected result
func (m *mockAccountStore) GetByID(ctx context.Context, id string) (accountDomain.Account, error) {
	if a, ok := m.accounts[id]; ok {
		return a, nil
	}
	return accountDomain.Account{}, sql.ErrNoRows
}

// GetByEmail implements the mock AccountStore for testing.
// PRE: valid parameters
// POST: returns expected result
func (m *mockAccountStore) GetByEmail(ctx context.Context, email string) (accountDomain.Account, error) {
	for _, a := range m.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return accountDomain.Account{}, sql.ErrNoRows
}

// Save implements the mock AccountStore for testing.
// PRE: valid parameters
// POST: account persisted
func (m *mockAccountStore) Save(ctx context.Context, a accountDomain.Account) error {
	m.accounts[a.ID] = a
	return nil
}

// Delete implements the mock AccountStore for testing.
// POST: account removed
func (m *mockAccountStore) Delete(ctx context.Context, id string) error {
	delete(m.accounts, id)
	return nil
}

// Count implements the mock AccountStore for testing.
// POST: returns count >= 0
func (m *mockAccountStore) Count(ctx context.Context) (int, error) {
	return len(m.accounts), nil
}

type mockClipStore struct {
	clips map[string]clipDomain.Clip
}

// GetByID implements the mock ClipStore for testing.
// POST: returns clip or sql.ErrNoRows
func (m *mockClipStore) GetByID(ctx context.Context, id string) (clipDomain.Clip, error) {
	if c, ok := m.clips[id]; ok {
		return c, nil
	}
	return clipDomain.Clip{}, sql.ErrNoRows
}

// GetByShareSlug implements the mock ClipStore for testing.
// POST: only public clips resolve
func (m *mockClipStore) GetByShareSlug(ctx context.Context, slug string) (clipDomain.Clip, error) {
	for _, c := range m.clips {
		if c.ShareSlug == slug && c.IsPublic {
			return c, nil
		}
	}
	return clipDomain.Clip{}, sql.ErrNoRows
}

// Save implements the mock ClipStore for testing.
// POST: clip persisted
func (m *mockClipStore) Save(ctx context.Context, c clipDomain.Clip) error {
	m.clips[c.ID] = c
	return nil
}

// Delete implements the mock ClipStore for testing.
// POST: clip removed
func (m *mockClipStore) Delete(ctx context.Context, id string) error {
	delete(m.clips, id)
	return nil
}

func (m *mockClipStore) matching(userID, search string) []clipDomain.Clip {
	var out []clipDomain.Clip
	for _, c := range m.clips {
		if c.UserID != userID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(c.Title), strings.ToLower(search)) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// ListByUser implements the mock ClipStore for testing.
// POST: returns at most limit clips, newest first
func (m *mockClipStore) ListByUser(ctx context.Context, userID, search string, limit, offset int) ([]clipDomain.Clip, error) {
	matched := m.matching(userID, search)
	if offset >= len(matched) {
		return nil, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

// CountByUser implements the mock ClipStore for testing.
// POST: returns count >= 0
func (m *mockClipStore) CountByUser(ctx context.Context, userID, search string) (int, error) {
	return len(m.matching(userID, search)), nil
}

type mockTagStore struct {
	tags   map[string]clipDomain.Tag
	assocs map[string]clipDomain.ClipTag // keyed by clipID+"/"+tagID
	clips  *mockClipStore
}

// SaveTag implements the mock TagStore for testing.
// POST: tag persisted; ErrDuplicateTagName on per-user name collision
func (m *mockTagStore) SaveTag(ctx context.Context, tag clipDomain.Tag) error {
	for _, existing := range m.tags {
		if existing.ID != tag.ID && existing.UserID == tag.UserID &&
			strings.EqualFold(existing.Name, tag.Name) {
			return clipStore.ErrDuplicateTagName
		}
	}
	m.tags[tag.ID] = tag
	return nil
}

// GetTagByID implements the mock TagStore for testing.
// POST: returns tag or ErrTagNotFound
func (m *mockTagStore) GetTagByID(ctx context.Context, id string) (clipDomain.Tag, error) {
	if t, ok := m.tags[id]; ok {
		return t, nil
	}
	return clipDomain.Tag{}, clipStore.ErrTagNotFound
}

// GetTagByName implements the mock TagStore for testing.
// POST: returns tag or ErrTagNotFound
func (m *mockTagStore) GetTagByName(ctx context.Context, userID, name string) (clipDomain.Tag, error) {
	for _, t := range m.tags {
		if t.UserID == userID && strings.EqualFold(t.Name, name) {
			return t, nil
		}
	}
	return clipDomain.Tag{}, clipStore.ErrTagNotFound
}

// ListTags implements the mock TagStore for testing.
// POST: returns the user's tags ordered by name
func (m *mockTagStore) ListTags(ctx context.Context, userID string) ([]clipDomain.Tag, error) {
	var out []clipDomain.Tag
	for _, t := range m.tags {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// DeleteTag implements the mock TagStore for testing.
// POST: tag and its associations removed
func (m *mockTagStore) DeleteTag(ctx context.Context, id string) error {
	delete(m.tags, id)
	for key := range m.assocs {
		if strings.HasSuffix(key, "/"+id) {
			delete(m.assocs, key)
		}
	}
	return nil
}

// UpsertClipTag implements the mock TagStore for testing.
// POST: exactly one association per (clip, tag) pair
func (m *mockTagStore) UpsertClipTag(ctx context.Context, ct clipDomain.ClipTag) error {
	m.assocs[ct.ClipID+"/"+ct.TagID] = ct
	return nil
}

// RemoveTagFromClip implements the mock TagStore for testing.
// POST: association removed if present
func (m *mockTagStore) RemoveTagFromClip(ctx context.Context, clipID, tagID string) error {
	delete(m.assocs, clipID+"/"+tagID)
	return nil
}

// GetTagsForClip implements the mock TagStore for testing.
// POST: returns the clip's tags with ratings
func (m *mockTagStore) GetTagsForClip(ctx context.Context, clipID string) ([]clipDomain.RatedTag, error) {
	var out []clipDomain.RatedTag
	for _, ct := range m.assocs {
		if ct.ClipID == clipID {
			out = append(out, clipDomain.RatedTag{Tag: m.tags[ct.TagID], Rating: ct.Rating})
		}
	}
	return out, nil
}

// GetClipsForTag implements the mock TagStore for testing.
// POST: returns clip IDs carrying the tag
func (m *mockTagStore) GetClipsForTag(ctx context.Context, tagID string) ([]string, error) {
	var out []string
	for _, ct := range m.assocs {
		if ct.TagID == tagID {
			out = append(out, ct.ClipID)
		}
	}
	return out, nil
}

// SearchClipsByTags implements the mock TagStore for testing.
// POST: returns the user's clips carrying ALL listed tags
func (m *mockTagStore) SearchClipsByTags(ctx context.Context, userID string, tagIDs []string) ([]clipDomain.Clip, error) {
	var out []clipDomain.Clip
	for _, c := range m.clips.clips {
		if c.UserID != userID {
			continue
		}
		all := true
		for _, tagID := range tagIDs {
			if _, ok := m.assocs[c.ID+"/"+tagID]; !ok {
				all = false
				break
			}
		}
		if all {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func newTestStores() *Stores {
	clips := &mockClipStore{clips: make(map[string]clipDomain.Clip)}
	return &Stores{
		AccountStore: &mockAccountStore{accounts: make(map[string]accountDomain.Account)},
		ClipStore:    clips,
		TagStore: &mockTagStore{
			tags:   make(map[string]clipDomain.Tag),
			assocs: make(map[string]clipDomain.ClipTag),
			clips:  clips,
		},
	}
}

// authRequest returns a request with the given session injected into context.
func authRequest(method, url string, body string, sess middleware.Session) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, url, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	ctx := middleware.ContextWithSession(req.Context(), sess)
	return req.WithContext(ctx)
}

var userSession = middleware.Session{
	AccountID: "user-001",
	Email:     "pat@test.com",
	CreatedAt: time.Now(),
}

var otherSession = middleware.Session{
	AccountID: "user-002",
	Email:     "sam@test.com",
	CreatedAt: time.Now(),
}

func seedTestClip(s *Stores, id, userID string) clipDomain.Clip {
	c := clipDomain.Clip{
		ID:        id,
		UserID:    userID,
		VideoID:   "dQw4w9WgXcQ",
		Title:     "Guitar solo",
		StartTime: 30,
		EndTime:   90,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	s.ClipStore.Save(context.Background(), c)
	return c
}

func seedTestTag(s *Stores, id, userID, name string) clipDomain.Tag {
	t := clipDomain.Tag{ID: id, UserID: userID, Name: name, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	s.TagStore.SaveTag(context.Background(), t)
	return t
}

// --- Tests: /api/auth ---

// TestHandleAPISignUp_Valid tests account creation through the JSON API.
func TestHandleAPISignUp_Valid(t *testing.T) {
	stores = newTestStores()
	sessions = middleware.NewSessionStore()

	body := `{"email":"pat@test.com","password":"correct-horse"}`
	req := httptest.NewRequest("POST", "/api/auth/sign-up", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handleAPISignUp(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("got %d, want %d. Body: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var resp map[string]string
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["email"] != "pat@test.com" {
		t.Errorf("resp=%v", resp)
	}

	cookieSet := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "referencer_session" && c.Value != "" {
			cookieSet = true
		}
	}
	if !cookieSet {
		t.Error("expected session cookie to be set")
	}
}

// TestHandleAPISignUp_DuplicateEmail tests the 409 conflict mapping.
func TestHandleAPISignUp_DuplicateEmail(t *testing.T) {
	stores = newTestStores()
	sessions = middleware.NewSessionStore()
	stores.AccountStore.Save(context.Background(), accountDomain.Account{ID: "a1", Email: "pat@test.com"})

	body := `{"email":"pat@test.com","password":"correct-horse"}`
	req := httptest.NewRequest("POST", "/api/auth/sign-up", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handleAPISignUp(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("got %d, want %d", rec.Code, http.StatusConflict)
	}
}

// TestHandleAPISignIn tests sign-in with right and wrong passwords.
func TestHandleAPISignIn(t *testing.T) {
	stores = newTestStores()
	sessions = middleware.NewSessionStore()
	a := accountDomain.Account{ID: "a1", Email: "pat@test.com", CreatedAt: time.Now()}
	if err := a.SetPassword("correct-horse"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	stores.AccountStore.Save(context.Background(), a)

	req := httptest.NewRequest("POST", "/api/auth/sign-in",
		strings.NewReader(`{"email":"pat@test.com","password":"correct-horse"}`))
	rec := httptest.NewRecorder()
	handleAPISignIn(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d. Body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	req = httptest.NewRequest("POST", "/api/auth/sign-in",
		strings.NewReader(`{"email":"pat@test.com","password":"wrong-horse"}`))
	rec = httptest.NewRecorder()
	handleAPISignIn(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("got %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

// TestHandleAPIMe tests the session check endpoint.
func TestHandleAPIMe(t *testing.T) {
	stores = newTestStores()

	req := authRequest("GET", "/api/auth/me", "", userSession)
	rec := httptest.NewRecorder()
	handleAPIMe(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d", rec.Code, http.StatusOK)
	}

	req = httptest.NewRequest("GET", "/api/auth/me", nil)
	rec = httptest.NewRecorder()
	handleAPIMe(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("got %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

// --- Tests: /api/clips ---

// TestHandleAPIClips_POST_Valid tests clip capture.
func TestHandleAPIClips_POST_Valid(t *testing.T) {
	stores = newTestStores()
	body := `{"videoId":"dQw4w9WgXcQ","title":"Guitar solo","startTime":30,"endTime":90,"videoDuration":212}`
	req := authRequest("POST", "/api/clips", body, userSession)
	rec := httptest.NewRecorder()
	handleAPIClips(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("got %d, want %d. Body: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var created clipDomain.Clip
	json.NewDecoder(rec.Body).Decode(&created)
	if created.UserID != userSession.AccountID {
		t.Errorf("UserID=%q want %q", created.UserID, userSession.AccountID)
	}
	if created.Thumbnail == "" {
		t.Error("expected default thumbnail")
	}
}

// TestHandleAPIClips_POST_InvertedRange tests the 400 on endTime <= startTime.
func TestHandleAPIClips_POST_InvertedRange(t *testing.T) {
	stores = newTestStores()
	body := `{"videoId":"dQw4w9WgXcQ","title":"Guitar solo","startTime":90,"endTime":30}`
	req := authRequest("POST", "/api/clips", body, userSession)
	rec := httptest.NewRecorder()
	handleAPIClips(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

// TestHandleAPIClips_POST_UnknownField tests strict JSON decoding.
func TestHandleAPIClips_POST_UnknownField(t *testing.T) {
	stores = newTestStores()
	body := `{"videoId":"dQw4w9WgXcQ","title":"x","startTime":0,"endTime":5,"bogus":true}`
	req := authRequest("POST", "/api/clips", body, userSession)
	rec := httptest.NewRecorder()
	handleAPIClips(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

// TestHandleAPIClips_GET_ListsOwnClipsOnly tests user scoping of the list.
func TestHandleAPIClips_GET_ListsOwnClipsOnly(t *testing.T) {
	stores = newTestStores()
	seedTestClip(stores, "c1", userSession.AccountID)
	seedTestClip(stores, "c2", otherSession.AccountID)

	req := authRequest("GET", "/api/clips", "", userSession)
	rec := httptest.NewRecorder()
	handleAPIClips(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d", rec.Code, http.StatusOK)
	}
	var result struct {
		Clips []clipDomain.Clip
	}
	json.NewDecoder(rec.Body).Decode(&result)
	if len(result.Clips) != 1 || result.Clips[0].ID != "c1" {
		t.Errorf("clips=%v want only c1", result.Clips)
	}
}

// TestHandleAPIClips_GET_TagFilter tests the ALL-tags filter parameter.
func TestHandleAPIClips_GET_TagFilter(t *testing.T) {
	stores = newTestStores()
	seedTestClip(stores, "c1", userSession.AccountID)
	seedTestClip(stores, "c2", userSession.AccountID)
	seedTestTag(stores, "t1", userSession.AccountID, "guitar")
	seedTestTag(stores, "t2", userSession.AccountID, "drums")
	stores.TagStore.UpsertClipTag(context.Background(), clipDomain.ClipTag{ClipID: "c1", TagID: "t1", Rating: 4})
	stores.TagStore.UpsertClipTag(context.Background(), clipDomain.ClipTag{ClipID: "c1", TagID: "t2", Rating: 3})
	stores.TagStore.UpsertClipTag(context.Background(), clipDomain.ClipTag{ClipID: "c2", TagID: "t1", Rating: 5})

	req := authRequest("GET", "/api/clips?tags=t1,t2", "", userSession)
	rec := httptest.NewRecorder()
	handleAPIClips(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d", rec.Code, http.StatusOK)
	}
	var result struct {
		Clips []clipDomain.Clip
	}
	json.NewDecoder(rec.Body).Decode(&result)
	if len(result.Clips) != 1 || result.Clips[0].ID != "c1" {
		t.Errorf("clips=%v want only c1 (carries both tags)", result.Clips)
	}
}

// TestHandleAPIClip_GET tests clip detail with ownership scoping.
func TestHandleAPIClip_GET(t *testing.T) {
	stores = newTestStores()
	seedTestClip(stores, "c1", userSession.AccountID)

	req := authRequest("GET", "/api/clips/c1", "", userSession)
	rec := httptest.NewRecorder()
	handleAPIClipByID(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d", rec.Code, http.StatusOK)
	}

	// Another user's clip is indistinguishable from a missing one.
	req = authRequest("GET", "/api/clips/c1", "", otherSession)
	rec = httptest.NewRecorder()
	handleAPIClipByID(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("got %d, want %d", rec.Code, http.StatusNotFound)
	}
}

// TestHandleAPIClip_PATCH tests partial update and range re-validation.
func TestHandleAPIClip_PATCH(t *testing.T) {
	stores = newTestStores()
	seedTestClip(stores, "c1", userSession.AccountID)

	req := authRequest("PATCH", "/api/clips/c1", `{"title":"Chorus"}`, userSession)
	rec := httptest.NewRecorder()
	handleAPIClipByID(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d. Body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var updated clipDomain.Clip
	json.NewDecoder(rec.Body).Decode(&updated)
	if updated.Title != "Chorus" || updated.StartTime != 30 {
		t.Errorf("updated=%+v", updated)
	}

	// A PATCH that would invert the range is rejected.
	req = authRequest("PATCH", "/api/clips/c1", `{"endTime":10}`, userSession)
	rec = httptest.NewRecorder()
	handleAPIClipByID(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

// TestHandleAPIClip_PATCH_PublishMintsSlug tests the share slug lifecycle.
func TestHandleAPIClip_PATCH_PublishMintsSlug(t *testing.T) {
	stores = newTestStores()
	seedTestClip(stores, "c1", userSession.AccountID)

	req := authRequest("PATCH", "/api/clips/c1", `{"isPublic":true}`, userSession)
	rec := httptest.NewRecorder()
	handleAPIClipByID(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d", rec.Code, http.StatusOK)
	}
	var updated clipDomain.Clip
	json.NewDecoder(rec.Body).Decode(&updated)
	if updated.ShareSlug == "" {
		t.Error("expected share slug to be minted on first publication")
	}
}

// TestHandleAPIClip_PATCH_Thumbnail tests that the captured thumbnail URL can
// be replaced after the fact.
func TestHandleAPIClip_PATCH_Thumbnail(t *testing.T) {
	stores = newTestStores()
	seedTestClip(stores, "c1", userSession.AccountID)

	body := `{"thumbnail":"https://i.ytimg.com/vi/dQw4w9WgXcQ/maxresdefault.jpg"}`
	req := authRequest("PATCH", "/api/clips/c1", body, userSession)
	rec := httptest.NewRecorder()
	handleAPIClipByID(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d. Body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var updated clipDomain.Clip
	json.NewDecoder(rec.Body).Decode(&updated)
	if updated.Thumbnail != "https://i.ytimg.com/vi/dQw4w9WgXcQ/maxresdefault.jpg" {
		t.Errorf("thumbnail=%q, not updated", updated.Thumbnail)
	}
	if updated.Title != "Guitar solo" {
		t.Errorf("title=%q, other fields should be untouched", updated.Title)
	}
}

// TestHandleAPIClip_DELETE tests deletion with ownership scoping.
func TestHandleAPIClip_DELETE(t *testing.T) {
	stores = newTestStores()
	seedTestClip(stores, "c1", userSession.AccountID)

	req := authRequest("DELETE", "/api/clips/c1", "", otherSession)
	rec := httptest.NewRecorder()
	handleAPIClipByID(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("got %d, want %d", rec.Code, http.StatusNotFound)
	}

	req = authRequest("DELETE", "/api/clips/c1", "", userSession)
	rec = httptest.NewRecorder()
	handleAPIClipByID(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("got %d, want %d", rec.Code, http.StatusNoContent)
	}
}

// --- Tests: /api/tags ---

// TestHandleAPITags_POST_And_Conflict tests tag creation and the 409 mapping.
func TestHandleAPITags_POST_And_Conflict(t *testing.T) {
	stores = newTestStores()

	req := authRequest("POST", "/api/tags", `{"name":"guitar"}`, userSession)
	rec := httptest.NewRecorder()
	handleAPITags(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("got %d, want %d. Body: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	req = authRequest("POST", "/api/tags", `{"name":"Guitar"}`, userSession)
	rec = httptest.NewRecorder()
	handleAPITags(rec, req)
	if rec.Code != http.StatusConflict {
		t.Errorf("got %d, want %d", rec.Code, http.StatusConflict)
	}
}

// TestHandleAPITags_GET_Empty tests the empty list renders as an empty tags
// array, not null.
func TestHandleAPITags_GET_Empty(t *testing.T) {
	stores = newTestStores()

	req := authRequest("GET", "/api/tags", "", userSession)
	rec := httptest.NewRecorder()
	handleAPITags(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d", rec.Code, http.StatusOK)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != `{"tags":[]}` {
		t.Errorf(`body=%q want {"tags":[]}`, body)
	}
}

// TestHandleAPITagByID_GET tests single-tag lookup with ownership scoping.
func TestHandleAPITagByID_GET(t *testing.T) {
	stores = newTestStores()
	seedTestTag(stores, "t1", userSession.AccountID, "guitar")

	req := authRequest("GET", "/api/tags/t1", "", userSession)
	rec := httptest.NewRecorder()
	handleAPITagByID(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d. Body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var resp struct {
		Tag clipDomain.Tag `json:"tag"`
	}
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Tag.ID != "t1" || resp.Tag.Name != "guitar" {
		t.Errorf("tag=%+v want t1/guitar", resp.Tag)
	}

	// Foreign tags read as missing.
	req = authRequest("GET", "/api/tags/t1", "", otherSession)
	rec = httptest.NewRecorder()
	handleAPITagByID(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("got %d, want %d", rec.Code, http.StatusNotFound)
	}
}

// TestHandleAPITagByID_PATCH_And_DELETE tests rename and removal.
func TestHandleAPITagByID_PATCH_And_DELETE(t *testing.T) {
	stores = newTestStores()
	seedTestTag(stores, "t1", userSession.AccountID, "guitar")

	req := authRequest("PATCH", "/api/tags/t1", `{"name":"lead guitar"}`, userSession)
	rec := httptest.NewRecorder()
	handleAPITagByID(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d. Body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var renamed struct {
		Tag clipDomain.Tag `json:"tag"`
	}
	json.NewDecoder(rec.Body).Decode(&renamed)
	if renamed.Tag.Name != "lead guitar" {
		t.Errorf("tag=%+v want renamed to lead guitar", renamed.Tag)
	}

	// Foreign tags read as missing.
	req = authRequest("DELETE", "/api/tags/t1", "", otherSession)
	rec = httptest.NewRecorder()
	handleAPITagByID(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("got %d, want %d", rec.Code, http.StatusNotFound)
	}

	req = authRequest("DELETE", "/api/tags/t1", "", userSession)
	rec = httptest.NewRecorder()
	handleAPITagByID(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("got %d, want %d", rec.Code, http.StatusNoContent)
	}
}

// --- Tests: /api/clips/{id}/tags ---

// TestHandleAPIClipTags_Lifecycle tests tag association end to end: apply,
// re-apply with a new rating, list, remove.
func TestHandleAPIClipTags_Lifecycle(t *testing.T) {
	stores = newTestStores()
	seedTestClip(stores, "c1", userSession.AccountID)
	seedTestTag(stores, "t1", userSession.AccountID, "guitar")

	req := authRequest("PUT", "/api/clips/c1/tags", `{"tagId":"t1","rating":3}`, userSession)
	rec := httptest.NewRecorder()
	handleAPIClipByID(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("apply: got %d, want %d. Body: %s", rec.Code, http.StatusNoContent, rec.Body.String())
	}

	req = authRequest("PUT", "/api/clips/c1/tags", `{"tagId":"t1","rating":5}`, userSession)
	rec = httptest.NewRecorder()
	handleAPIClipByID(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("re-apply: got %d, want %d", rec.Code, http.StatusNoContent)
	}

	req = authRequest("GET", "/api/clips/c1/tags", "", userSession)
	rec = httptest.NewRecorder()
	handleAPIClipByID(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: got %d, want %d", rec.Code, http.StatusOK)
	}
	var listed struct {
		Tags []clipDomain.RatedTag `json:"tags"`
	}
	json.NewDecoder(rec.Body).Decode(&listed)
	if len(listed.Tags) != 1 || listed.Tags[0].Rating != 5 {
		t.Errorf("tags=%v want one rating-5 tag", listed.Tags)
	}

	req = authRequest("DELETE", "/api/clips/c1/tags/t1", "", userSession)
	rec = httptest.NewRecorder()
	handleAPIClipByID(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("remove: got %d, want %d", rec.Code, http.StatusNoContent)
	}
}

// TestHandleAPIClipTags_RatingOutOfRange tests the 400 on invalid ratings.
func TestHandleAPIClipTags_RatingOutOfRange(t *testing.T) {
	stores = newTestStores()
	seedTestClip(stores, "c1", userSession.AccountID)
	seedTestTag(stores, "t1", userSession.AccountID, "guitar")

	req := authRequest("PUT", "/api/clips/c1/tags", `{"tagId":"t1","rating":9}`, userSession)
	rec := httptest.NewRecorder()
	handleAPIClipByID(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

// TestHandleSharePage tests the public share route.
func TestHandleSharePage(t *testing.T) {
	stores = newTestStores()
	c := seedTestClip(stores, "c1", userSession.AccountID)
	c.IsPublic = true
	c.ShareSlug = "slug-1"
	stores.ClipStore.Save(context.Background(), c)

	req := httptest.NewRequest("GET", "/share/missing", nil)
	rec := httptest.NewRecorder()
	handleSharePage(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("got %d, want %d", rec.Code, http.StatusNotFound)
	}
}
