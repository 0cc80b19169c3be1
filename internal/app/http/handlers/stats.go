package handlers

import (
	"net/http"

	"go.uber.org/zap"
)

type statsResponse struct {
	Activities    int64 `json:"activities"`
	GalleryImages int64 `json:"gallery_images"`
}

func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	activities, err := h.DB.CountRows(r.Context(), "activities")
	if err != nil {
		h.Log.Error("stats: activities count failed", zap.Error(err))
		http.Error(w, "stats failed", http.StatusBadGateway)
		return
	}
	gallery, err := h.DB.CountRows(r.Context(), "gallery_images")
	if err != nil {
		h.Log.Error("stats: gallery count failed", zap.Error(err))
		http.Error(w, "stats failed", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{
		Activities:    activities,
		GalleryImages: gallery,
	})
}
