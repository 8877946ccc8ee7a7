package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/csrf"

	"referencer/internal/adapters/http/middleware"
	"referencer/internal/application/listutil"
	"referencer/internal/application/orchestrators"
	"referencer/internal/application/projections"
	clipDomain "referencer/internal/domain/clip"
)

// formatSeconds renders whole seconds as "m:ss" for templates.
func formatSeconds(seconds int) string {
	return clipDomain.FormatTime(seconds)
}

// handleDashboard handles GET /dashboard — the clip library page.
func handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	sess, _ := middleware.GetSessionFromContext(ctx)
	lp := listutil.ParseListParams(r.URL.Query())

	var tagIDs []string
	if raw := r.URL.Query().Get("tags"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				tagIDs = append(tagIDs, id)
			}
		}
	}

	result, err := projections.QueryGetClipList(ctx, projections.GetClipListQuery{
		UserID:  sess.AccountID,
		TagIDs:  tagIDs,
		Search:  lp.Search,
		Page:    lp.Page,
		PerPage: lp.PerPage,
	}, projections.GetClipListDeps{
		ClipStore: stores.ClipStore,
		TagStore:  stores.TagStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	tags, err := stores.TagStore.ListTags(ctx, sess.AccountID)
	if err != nil {
		internalError(w, err)
		return
	}

	renderTemplate(w, r, "dashboard.html", map[string]any{
		"Clips":      result.Clips,
		"PageInfo":   result.PageInfo,
		"Tags":       tags,
		"ActiveTags": tagIDs,
		"Search":     lp.Search,
	})
}

// handleClipEditPage handles GET (form) and POST (apply edit) for /clips/{id}/edit.
// The form exposes minute and second fields for each bound; edits go through
// the same clamping as the extension popup, so whatever is typed lands on a
// valid interval.
func handleClipEditPage(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/clips/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) != 2 || parts[1] != "edit" {
		http.NotFound(w, r)
		return
	}
	clipID := parts[0]

	ctx := r.Context()
	sess, _ := middleware.GetSessionFromContext(ctx)

	detail, err := projections.QueryGetClipDetail(ctx, projections.GetClipDetailQuery{
		UserID: sess.AccountID,
		ClipID: clipID,
	}, projections.GetClipDetailDeps{
		ClipStore: stores.ClipStore,
		TagStore:  stores.TagStore,
	})
	if err != nil {
		if errors.Is(err, projections.ErrClipNotFound) {
			http.NotFound(w, r)
			return
		}
		internalError(w, err)
		return
	}

	if r.Method == "GET" {
		renderEditPage(w, r, detail, "")
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}

		// Each submitted field is applied as its own edit, in document order.
		// The interval stays valid after every step.
		iv := clipDomain.Interval{StartTime: detail.Clip.StartTime, EndTime: detail.Clip.EndTime}
		maxDuration := detail.Clip.VideoDuration
		iv = clipDomain.SetMinutes(clipDomain.FieldStart, r.FormValue("StartMinutes"), iv, maxDuration)
		iv = clipDomain.SetSeconds(clipDomain.FieldStart, r.FormValue("StartSeconds"), iv, maxDuration)
		iv = clipDomain.SetMinutes(clipDomain.FieldEnd, r.FormValue("EndMinutes"), iv, maxDuration)
		iv = clipDomain.SetSeconds(clipDomain.FieldEnd, r.FormValue("EndSeconds"), iv, maxDuration)

		title := r.FormValue("Title")
		notes := r.FormValue("Notes")
		isPublic := r.FormValue("IsPublic") == "true"

		_, err := orchestrators.ExecuteUpdateClip(ctx, orchestrators.UpdateClipInput{
			UserID:    sess.AccountID,
			ClipID:    clipID,
			Title:     &title,
			StartTime: &iv.StartTime,
			EndTime:   &iv.EndTime,
			Notes:     &notes,
			IsPublic:  &isPublic,
		}, orchestrators.UpdateClipDeps{
			ClipStore:  stores.ClipStore,
			GenerateID: generateID,
			Now:        timeNow,
		})
		if err != nil {
			renderEditPage(w, r, detail, err.Error())
			return
		}

		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

func renderEditPage(w http.ResponseWriter, r *http.Request, detail projections.GetClipDetailResult, errMsg string) {
	c := detail.Clip
	renderTemplate(w, r, "edit_clip.html", map[string]any{
		"CSRFToken":    csrf.Token(r),
		"Clip":         c,
		"Tags":         detail.Tags,
		"StartMinutes": c.StartTime / 60,
		"StartSeconds": c.StartTime % 60,
		"EndMinutes":   c.EndTime / 60,
		"EndSeconds":   c.EndTime % 60,
		"Error":        errMsg,
	})
}

// handleSharePage handles GET /share/{slug} — the public clip page.
// No session required; only public clips resolve.
func handleSharePage(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	slug := strings.Trim(strings.TrimPrefix(r.URL.Path, "/share/"), "/")
	if slug == "" {
		http.NotFound(w, r)
		return
	}

	c, err := stores.ClipStore.GetByShareSlug(r.Context(), slug)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	renderTemplate(w, r, "share.html", map[string]any{
		"Clip": c,
	})
}
