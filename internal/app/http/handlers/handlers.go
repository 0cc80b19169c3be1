package handlers

import (
	"go.uber.org/zap"

	"github.com/SIDIQMUHAMMADTOHA24/karang-taruna-admin/internal/app/config"
	"github.com/SIDIQMUHAMMADTOHA24/karang-taruna-admin/internal/infra/db/postgres"
	"github.com/SIDIQMUHAMMADTOHA24/karang-taruna-admin/internal/infra/supabase"
	"github.com/SIDIQMUHAMMADTOHA24/karang-taruna-admin/internal/media"
)

type Handlers struct {
	DB     *postgres.DB
	Cfg    config.Config
	SB     *supabase.Client
	Ingest *media.Ingestor
	Log    *zap.Logger
}

func New(db *postgres.DB, cfg config.Config, sb *supabase.Client, ing *media.Ingestor, log *zap.Logger) *Handlers {
	return &Handlers{
		DB:     db,
		Cfg:    cfg,
		SB:     sb,
		Ingest: ing,
		Log:    log,
	}
}
