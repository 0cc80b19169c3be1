package handlers

import (
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/SIDIQMUHAMMADTOHA24/karang-taruna-admin/internal/domain/content"
	pdfgen "github.com/SIDIQMUHAMMADTOHA24/karang-taruna-admin/internal/domain/content/report/gofpdf"
)

func (h *Handlers) ActivityReport(w http.ResponseWriter, r *http.Request) {
	values := url.Values{}
	values.Set("select", "*")
	values.Set("order", "event_date.desc")

	var rows []content.Activity
	if err := h.SB.Select(r.Context(), activitiesTable, values, &rows); err != nil {
		h.Log.Error("report: list failed", zap.Error(err))
		http.Error(w, "list failed", http.StatusBadGateway)
		return
	}

	gen := pdfgen.New()
	pdfBytes, err := gen.Generate(rows)
	if err != nil {
		h.Log.Error("report: pdf generation failed", zap.Error(err))
		http.Error(w, "pdf generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="activity-report.pdf"`)
	w.WriteHeader(http.StatusOK)
	w.Write(pdfBytes)
}
