package web

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"referencer/internal/adapters/http/middleware"
	"referencer/internal/application/orchestrators"
	domain "referencer/internal/domain/clip"
)

// handleAPITags handles GET (list) and POST (create) for /api/tags
func handleAPITags(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := middleware.GetSessionFromContext(ctx)

	if r.Method == "GET" {
		tags, err := stores.TagStore.ListTags(ctx, sess.AccountID)
		if err != nil {
			internalError(w, err)
			return
		}
		if tags == nil {
			tags = []domain.Tag{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"tags": tags})
		return
	}

	if r.Method == "POST" {
		var input struct {
			Name string `json:"name"`
		}
		if err := strictDecode(r, &input); err != nil {
			jsonError(w, http.StatusBadRequest, "invalid JSON")
			return
		}

		created, err := orchestrators.ExecuteCreateTag(ctx, orchestrators.CreateTagInput{
			UserID: sess.AccountID,
			Name:   input.Name,
		}, orchestrators.CreateTagDeps{
			TagStore:   stores.TagStore,
			GenerateID: generateID,
			Now:        timeNow,
		})
		if err != nil {
			if errors.Is(err, orchestrators.ErrTagNameTaken) {
				jsonError(w, http.StatusConflict, err.Error())
				return
			}
			jsonError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, created)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleAPITagByID handles GET, PATCH (rename) and DELETE for /api/tags/{id}
func handleAPITagByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := middleware.GetSessionFromContext(ctx)

	tagID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/tags/"), "/")
	if tagID == "" || strings.Contains(tagID, "/") {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case "GET":
		t, err := stores.TagStore.GetTagByID(ctx, tagID)
		if err != nil || t.UserID != sess.AccountID {
			jsonError(w, http.StatusNotFound, "tag not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"tag": t})

	case "PATCH":
		var input struct {
			Name string `json:"name"`
		}
		if err := strictDecode(r, &input); err != nil {
			jsonError(w, http.StatusBadRequest, "invalid JSON")
			return
		}

		updated, err := orchestrators.ExecuteUpdateTag(ctx, orchestrators.UpdateTagInput{
			UserID: sess.AccountID,
			TagID:  tagID,
			Name:   input.Name,
		}, orchestrators.UpdateTagDeps{
			TagStore: stores.TagStore,
			Now:      timeNow,
		})
		if err != nil {
			switch {
			case errors.Is(err, orchestrators.ErrTagNotFound):
				jsonError(w, http.StatusNotFound, "tag not found")
			case errors.Is(err, orchestrators.ErrTagNameTaken):
				jsonError(w, http.StatusConflict, err.Error())
			default:
				jsonError(w, http.StatusBadRequest, err.Error())
			}
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"tag": updated})

	case "DELETE":
		err := orchestrators.ExecuteDeleteTag(ctx, orchestrators.DeleteTagInput{
			UserID: sess.AccountID,
			TagID:  tagID,
		}, orchestrators.DeleteTagDeps{TagStore: stores.TagStore})
		if err != nil {
			if errors.Is(err, orchestrators.ErrTagNotFound) {
				jsonError(w, http.StatusNotFound, "tag not found")
				return
			}
			internalError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleAPIPerf handles GET /api/perf — aggregated timing diagnostics.
func handleAPIPerf(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if perfCollector == nil {
		jsonError(w, http.StatusNotFound, "perf collection disabled")
		return
	}
	snap := perfCollector.Snapshot(timeNow().Add(-15*time.Minute), 10)
	writeJSON(w, http.StatusOK, snap)
}
