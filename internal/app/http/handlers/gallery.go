package handlers

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/SIDIQMUHAMMADTOHA24/karang-taruna-admin/internal/domain/content"
	"github.com/SIDIQMUHAMMADTOHA24/karang-taruna-admin/internal/media"
)

const galleryTable = "gallery_images"

func (h *Handlers) ListGallery(w http.ResponseWriter, r *http.Request) {
	values := url.Values{}
	values.Set("select", "*")
	values.Set("order", "created_at.desc")

	var rows []content.GalleryImage
	if err := h.SB.Select(r.Context(), galleryTable, values, &rows); err != nil {
		h.Log.Error("gallery: list failed", zap.Error(err))
		http.Error(w, "list failed", http.StatusBadGateway)
		return
	}
	if rows == nil {
		rows = []content.GalleryImage{}
	}
	writeJSON(w, http.StatusOK, rows)
}

// AddGalleryImage is the second ingestion call site: ingest first, then insert
// a fresh gallery row linking the uploaded URL. A failed insert deletes the
// object again.
func (h *Handlers) AddGalleryImage(w http.ResponseWriter, r *http.Request) {
	data, filename, contentType, err := readImageUpload(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		title = filename
	}

	ref, err := h.Ingest.Ingest(r.Context(), media.Input{
		Filename:    filename,
		ContentType: contentType,
		Data:        data,
	})
	if err != nil {
		status, msg := ingestErrorStatus(err)
		h.Log.Error("gallery: ingest failed", zap.String("filename", filename), zap.Error(err))
		http.Error(w, msg, status)
		return
	}

	payload := map[string]interface{}{
		"title":     title,
		"image_url": ref.PublicURL,
	}
	var rows []content.GalleryImage
	if err := h.SB.Insert(r.Context(), galleryTable, payload, &rows); err != nil {
		_ = h.SB.Remove(r.Context(), []string{ref.Key})
		h.Log.Error("gallery: insert failed", zap.Error(err))
		http.Error(w, "db insert failed", http.StatusBadGateway)
		return
	}
	if len(rows) == 0 {
		http.Error(w, "empty insert response", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusCreated, rows[0])
}

func (h *Handlers) DeleteGalleryImage(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	values := url.Values{}
	values.Set("select", "*")
	values.Set("id", "eq."+strconv.FormatInt(id, 10))
	values.Set("limit", "1")
	var rows []content.GalleryImage
	if err := h.SB.Select(r.Context(), galleryTable, values, &rows); err != nil {
		http.Error(w, "gallery lookup failed", http.StatusBadGateway)
		return
	}
	if len(rows) == 0 {
		http.Error(w, "gallery image not found", http.StatusNotFound)
		return
	}

	if err := h.SB.Delete(r.Context(), galleryTable, id); err != nil {
		h.Log.Error("gallery: delete failed", zap.Int64("id", id), zap.Error(err))
		http.Error(w, "delete failed", http.StatusBadGateway)
		return
	}
	if rows[0].ImageURL != "" {
		if err := h.Ingest.Remove(r.Context(), rows[0].ImageURL); err != nil {
			h.Log.Warn("gallery: image cleanup failed", zap.Int64("id", id), zap.Error(err))
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "id": id})
}
