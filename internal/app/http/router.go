package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/SIDIQMUHAMMADTOHA24/karang-taruna-admin/internal/app/config"
	"github.com/SIDIQMUHAMMADTOHA24/karang-taruna-admin/internal/app/http/handlers"
	"github.com/SIDIQMUHAMMADTOHA24/karang-taruna-admin/internal/app/http/middleware"
)

func NewRouter(cfg config.Config, h *handlers.Handlers, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logging(log))

	r.Get("/health", h.Health)

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.InternalAuth(cfg.AdminToken))

		r.Get("/activities", h.ListActivities)
		r.Post("/activities", h.CreateActivity)
		r.Get("/activities/report", h.ActivityReport)
		r.Put("/activities/{id}", h.UpdateActivity)
		r.Delete("/activities/{id}", h.DeleteActivity)
		r.Post("/activities/{id}/image", h.AttachActivityImage)
		r.Delete("/activities/{id}/image", h.RemoveActivityImage)

		r.Get("/gallery", h.ListGallery)
		r.Post("/gallery", h.AddGalleryImage)
		r.Delete("/gallery/{id}", h.DeleteGalleryImage)

		r.Get("/stats", h.Stats)
	})

	return r
}
