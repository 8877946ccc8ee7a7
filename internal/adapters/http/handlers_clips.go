package web

import (
	"errors"
	"net/http"
	"strings"

	"referencer/internal/adapters/http/middleware"
	"referencer/internal/application/listutil"
	"referencer/internal/application/orchestrators"
	"referencer/internal/application/projections"
	domain "referencer/internal/domain/clip"
)

// handleAPIClips handles GET (list) and POST (capture) for /api/clips
func handleAPIClips(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := middleware.GetSessionFromContext(ctx)

	if r.Method == "GET" {
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
		writeJSON(w, http.StatusOK, result)
		return
	}

	if r.Method == "POST" {
		var input struct {
			VideoID       string `json:"videoId"`
			Title         string `json:"title"`
			Thumbnail     string `json:"thumbnail"`
			StartTime     int    `json:"startTime"`
			EndTime       int    `json:"endTime"`
			VideoDuration int    `json:"videoDuration"`
			Notes         string `json:"notes"`
		}
		if err := strictDecode(r, &input); err != nil {
			jsonError(w, http.StatusBadRequest, "invalid JSON")
			return
		}

		created, err := orchestrators.ExecuteCreateClip(ctx, orchestrators.CreateClipInput{
			UserID:        sess.AccountID,
			VideoID:       input.VideoID,
			Title:         input.Title,
			Thumbnail:     input.Thumbnail,
			StartTime:     input.StartTime,
			EndTime:       input.EndTime,
			VideoDuration: input.VideoDuration,
			Notes:         input.Notes,
		}, orchestrators.CreateClipDeps{
			ClipStore:  stores.ClipStore,
			GenerateID: generateID,
			Now:        timeNow,
		})
		if err != nil {
			jsonError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, created)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleAPIClipByID routes /api/clips/{id} and /api/clips/{id}/tags[/{tagID}]
func handleAPIClipByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/clips/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")

	switch {
	case len(parts) == 1 && parts[0] != "":
		handleAPIClip(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "tags":
		handleAPIClipTags(w, r, parts[0])
	case len(parts) == 3 && parts[1] == "tags":
		handleAPIClipTag(w, r, parts[0], parts[2])
	default:
		http.NotFound(w, r)
	}
}

// handleAPIClip handles GET/PATCH/DELETE for /api/clips/{id}
func handleAPIClip(w http.ResponseWriter, r *http.Request, clipID string) {
	ctx := r.Context()
	sess, _ := middleware.GetSessionFromContext(ctx)

	switch r.Method {
	case "GET":
		result, err := projections.QueryGetClipDetail(ctx, projections.GetClipDetailQuery{
			UserID: sess.AccountID,
			ClipID: clipID,
		}, projections.GetClipDetailDeps{
			ClipStore: stores.ClipStore,
			TagStore:  stores.TagStore,
		})
		if err != nil {
			if errors.Is(err, projections.ErrClipNotFound) {
				jsonError(w, http.StatusNotFound, "clip not found")
				return
			}
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)

	case "PATCH":
		var input struct {
			Title     *string `json:"title"`
			Thumbnail *string `json:"thumbnail"`
			StartTime *int    `json:"startTime"`
			EndTime   *int    `json:"endTime"`
			Notes     *string `json:"notes"`
			IsPublic  *bool   `json:"isPublic"`
		}
		if err := strictDecode(r, &input); err != nil {
			jsonError(w, http.StatusBadRequest, "invalid JSON")
			return
		}

		updated, err := orchestrators.ExecuteUpdateClip(ctx, orchestrators.UpdateClipInput{
			UserID:    sess.AccountID,
			ClipID:    clipID,
			Title:     input.Title,
			Thumbnail: input.Thumbnail,
			StartTime: input.StartTime,
			EndTime:   input.EndTime,
			Notes:     input.Notes,
			IsPublic:  input.IsPublic,
		}, orchestrators.UpdateClipDeps{
			ClipStore:  stores.ClipStore,
			GenerateID: generateID,
			Now:        timeNow,
		})
		if err != nil {
			if errors.Is(err, orchestrators.ErrClipNotFound) {
				jsonError(w, http.StatusNotFound, "clip not found")
				return
			}
			jsonError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, updated)

	case "DELETE":
		err := orchestrators.ExecuteDeleteClip(ctx, orchestrators.DeleteClipInput{
			UserID: sess.AccountID,
			ClipID: clipID,
		}, orchestrators.DeleteClipDeps{ClipStore: stores.ClipStore})
		if err != nil {
			if errors.Is(err, orchestrators.ErrClipNotFound) {
				jsonError(w, http.StatusNotFound, "clip not found")
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

// handleAPIClipTags handles GET (list associations) and PUT (upsert
// association) for /api/clips/{id}/tags
func handleAPIClipTags(w http.ResponseWriter, r *http.Request, clipID string) {
	ctx := r.Context()
	sess, _ := middleware.GetSessionFromContext(ctx)

	if r.Method == "GET" {
		c, err := stores.ClipStore.GetByID(ctx, clipID)
		if err != nil || c.UserID != sess.AccountID {
			jsonError(w, http.StatusNotFound, "clip not found")
			return
		}
		tags, err := stores.TagStore.GetTagsForClip(ctx, clipID)
		if err != nil {
			internalError(w, err)
			return
		}
		if tags == nil {
			tags = []domain.RatedTag{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"tags": tags})
		return
	}

	// PUT rather than POST: re-tagging overwrites the rating
	if r.Method != "PUT" && r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var input struct {
		TagID  string `json:"tagId"`
		Rating int    `json:"rating"`
	}
	if err := strictDecode(r, &input); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	err := orchestrators.ExecuteTagClip(ctx, orchestrators.TagClipInput{
		UserID: sess.AccountID,
		ClipID: clipID,
		TagID:  input.TagID,
		Rating: input.Rating,
	}, orchestrators.TagClipDeps{
		ClipStore: stores.ClipStore,
		TagStore:  stores.TagStore,
		Now:       timeNow,
	})
	if err != nil {
		switch {
		case errors.Is(err, orchestrators.ErrClipNotFound):
			jsonError(w, http.StatusNotFound, "clip not found")
		case errors.Is(err, orchestrators.ErrTagNotFound):
			jsonError(w, http.StatusNotFound, "tag not found")
		default:
			jsonError(w, http.StatusBadRequest, err.Error())
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAPIClipTag handles DELETE for /api/clips/{id}/tags/{tagID}
func handleAPIClipTag(w http.ResponseWriter, r *http.Request, clipID, tagID string) {
	ctx := r.Context()
	sess, _ := middleware.GetSessionFromContext(ctx)

	if r.Method != "DELETE" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	err := orchestrators.ExecuteUntagClip(ctx, orchestrators.UntagClipInput{
		UserID: sess.AccountID,
		ClipID: clipID,
		TagID:  tagID,
	}, orchestrators.UntagClipDeps{
		ClipStore: stores.ClipStore,
		TagStore:  stores.TagStore,
	})
	if err != nil {
		if errors.Is(err, orchestrators.ErrClipNotFound) {
			jsonError(w, http.StatusNotFound, "clip not found")
			return
		}
		internalError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
