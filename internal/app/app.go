package app

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/SIDIQMUHAMMADTOHA24/karang-taruna-admin/internal/app/config"
	apphttp "github.com/SIDIQMUHAMMADTOHA24/karang-taruna-admin/internal/app/http"
	"github.com/SIDIQMUHAMMADTOHA24/karang-taruna-admin/internal/app/http/handlers"
	"github.com/SIDIQMUHAMMADTOHA24/karang-taruna-admin/internal/infra/db/postgres"
	"github.com/SIDIQMUHAMMADTOHA24/karang-taruna-admin/internal/infra/supabase"
	"github.com/SIDIQMUHAMMADTOHA24/karang-taruna-admin/internal/media"
	"github.com/SIDIQMUHAMMADTOHA24/karang-taruna-admin/pkg/logger"
)

func Run() {
	cfg := config.MustLoad()

	log, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := postgres.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("db", zap.Error(err))
	}
	defer db.Close()

	httpClient := &http.Client{Timeout: 15 * time.Second}
	sb := supabase.New(cfg.SupabaseURL, cfg.SupabaseServiceRoleKey, cfg.SupabaseBucket, httpClient)
	ing := media.NewIngestor(sb, log, cfg.ImageMaxDimension, cfg.ImageJPEGQuality)

	h := handlers.New(db, cfg, sb, ing, log)
	router := apphttp.NewRouter(cfg, h, log)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("listening", zap.String("addr", cfg.HTTPAddr))
	log.Fatal("server", zap.Error(srv.ListenAndServe()))
}
