package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/SIDIQMUHAMMADTOHA24/karang-taruna-admin/internal/domain/content"
	"github.com/SIDIQMUHAMMADTOHA24/karang-taruna-admin/internal/media"
)

const activitiesTable = "activities"

type createActivityRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	EventDate   string `json:"event_date"`
}

type updateActivityRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
	EventDate   *string `json:"event_date"`
}

func (h *Handlers) ListActivities(w http.ResponseWriter, r *http.Request) {
	values := url.Values{}
	values.Set("select", "*")
	values.Set("order", "event_date.desc")

	var rows []content.Activity
	if err := h.SB.Select(r.Context(), activitiesTable, values, &rows); err != nil {
		h.Log.Error("activities: list failed", zap.Error(err))
		http.Error(w, "list failed", http.StatusBadGateway)
		return
	}
	if rows == nil {
		rows = []content.Activity{}
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *Handlers) CreateActivity(w http.ResponseWriter, r *http.Request) {
	var req createActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		http.Error(w, "title is required", http.StatusBadRequest)
		return
	}

	payload := map[string]interface{}{
		"title":       req.Title,
		"description": req.Description,
		"location":    req.Location,
		"event_date":  req.EventDate,
	}
	var rows []content.Activity
	if err := h.SB.Insert(r.Context(), activitiesTable, payload, &rows); err != nil {
		h.Log.Error("activities: insert failed", zap.Error(err))
		http.Error(w, "insert failed", http.StatusBadGateway)
		return
	}
	if len(rows) == 0 {
		http.Error(w, "empty insert response", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusCreated, rows[0])
}

func (h *Handlers) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	var req updateActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	patch := map[string]interface{}{}
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			http.Error(w, "title must not be empty", http.StatusBadRequest)
			return
		}
		patch["title"] = *req.Title
	}
	if req.Description != nil {
		patch["description"] = *req.Description
	}
	if req.Location != nil {
		patch["location"] = *req.Location
	}
	if req.EventDate != nil {
		patch["event_date"] = *req.EventDate
	}
	if len(patch) == 0 {
		http.Error(w, "nothing to update", http.StatusBadRequest)
		return
	}

	if err := h.SB.Update(r.Context(), activitiesTable, id, patch); err != nil {
		h.Log.Error("activities: update failed", zap.Int64("id", id), zap.Error(err))
		http.Error(w, "update failed", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "id": id})
}

func (h *Handlers) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	row, err := h.fetchActivityByID(r, id)
	if err != nil {
		http.Error(w, "activity lookup failed", http.StatusBadGateway)
		return
	}
	if row == nil {
		http.Error(w, "activity not found", http.StatusNotFound)
		return
	}

	if err := h.SB.Delete(r.Context(), activitiesTable, id); err != nil {
		h.Log.Error("activities: delete failed", zap.Int64("id", id), zap.Error(err))
		http.Error(w, "delete failed", http.StatusBadGateway)
		return
	}
	if row.ImageURL != nil && *row.ImageURL != "" {
		if err := h.Ingest.Remove(r.Context(), *row.ImageURL); err != nil {
			h.Log.Warn("activities: image cleanup failed", zap.Int64("id", id), zap.Error(err))
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "id": id})
}

// AttachActivityImage runs the ingestion workflow against an activity's image
// slot: the prior object is garbage-collected by the workflow, the fresh URL
// is linked into the row. A failed link deletes the fresh object again so no
// orphan stays behind on this path.
func (h *Handlers) AttachActivityImage(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	row, err := h.fetchActivityByID(r, id)
	if err != nil {
		http.Error(w, "activity lookup failed", http.StatusBadGateway)
		return
	}
	if row == nil {
		http.Error(w, "activity not found", http.StatusNotFound)
		return
	}

	data, filename, contentType, err := readImageUpload(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	prior := ""
	if row.ImageURL != nil {
		prior = *row.ImageURL
	}
	ref, err := h.Ingest.Ingest(r.Context(), media.Input{
		Filename:    filename,
		ContentType: contentType,
		Data:        data,
		PriorURL:    prior,
	})
	if err != nil {
		status, msg := ingestErrorStatus(err)
		h.Log.Error("activities: ingest failed", zap.Int64("id", id), zap.Error(err))
		http.Error(w, msg, status)
		return
	}

	if err := h.SB.Update(r.Context(), activitiesTable, id, map[string]interface{}{"image_url": ref.PublicURL}); err != nil {
		_ = h.SB.Remove(r.Context(), []string{ref.Key})
		h.Log.Error("activities: image link failed", zap.Int64("id", id), zap.Error(err))
		http.Error(w, "db update failed", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"id": id, "image_url": ref.PublicURL})
}

// RemoveActivityImage clears the image slot. The backing object is deleted
// best-effort afterwards; an externally hosted URL is left untouched and the
// link is still cleared.
func (h *Handlers) RemoveActivityImage(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	row, err := h.fetchActivityByID(r, id)
	if err != nil {
		http.Error(w, "activity lookup failed", http.StatusBadGateway)
		return
	}
	if row == nil {
		http.Error(w, "activity not found", http.StatusNotFound)
		return
	}

	if err := h.SB.Update(r.Context(), activitiesTable, id, map[string]interface{}{"image_url": nil}); err != nil {
		h.Log.Error("activities: image unlink failed", zap.Int64("id", id), zap.Error(err))
		http.Error(w, "db update failed", http.StatusBadGateway)
		return
	}
	if row.ImageURL != nil && *row.ImageURL != "" {
		if err := h.Ingest.Remove(r.Context(), *row.ImageURL); err != nil {
			h.Log.Warn("activities: image cleanup failed", zap.Int64("id", id), zap.Error(err))
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "id": id})
}

func (h *Handlers) fetchActivityByID(r *http.Request, id int64) (*content.Activity, error) {
	values := url.Values{}
	values.Set("select", "*")
	values.Set("id", "eq."+strconv.FormatInt(id, 10))
	values.Set("limit", "1")

	var rows []content.Activity
	if err := h.SB.Select(r.Context(), activitiesTable, values, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func readImageUpload(r *http.Request) (data []byte, filename, contentType string, err error) {
	if err := r.ParseMultipartForm(50 << 20); err != nil {
		return nil, "", "", errors.New("invalid multipart form")
	}
	file, fh, err := r.FormFile("file")
	if err != nil {
		return nil, "", "", errors.New("file is required")
	}
	defer file.Close()
	data, err = io.ReadAll(file)
	if err != nil {
		return nil, "", "", errors.New("file read failed")
	}
	contentType = fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = mime.TypeByExtension(strings.ToLower(filepath.Ext(fh.Filename)))
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return data, fh.Filename, contentType, nil
}

func ingestErrorStatus(err error) (int, string) {
	var vErr *media.ValidationError
	if errors.As(err, &vErr) {
		return http.StatusBadRequest, vErr.Error()
	}
	var dErr *media.DecodeError
	if errors.As(err, &dErr) {
		return http.StatusBadRequest, "invalid image data"
	}
	return http.StatusBadGateway, "image upload failed"
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
