package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/hpungsan/hmchef/internal/catalog"
	"github.com/hpungsan/hmchef/internal/config"
	"github.com/hpungsan/hmchef/internal/mcp"
	"github.com/hpungsan/hmchef/internal/media"
	"github.com/hpungsan/hmchef/internal/ops"
	"github.com/hpungsan/hmchef/internal/store"
	"github.com/hpungsan/hmchef/internal/web"
)

// session owns the process-wide session state shared by every command.
type session struct {
	cfg     *config.Config
	logger  *zap.Logger
	level   *zap.AtomicLevel
	store   *store.Store
	catalog ops.Catalog
	media   *media.Library
}

func newSession(cfg *config.Config, logger *zap.Logger) (*session, error) {
	s, err := store.Open(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open recipe store: %w", err)
	}

	lib, err := media.NewLibrary(!cfg.DenyMediaLibrary, cfg.MaxUploadBytes)
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to create media library: %w", err)
	}

	return &session{
		cfg:     cfg,
		logger:  logger,
		store:   s,
		catalog: catalog.New(cfg, logger),
		media:   lib,
	}, nil
}

// Close releases the session store and removes uploaded images.
func (rt *session) Close() {
	if err := rt.store.Close(); err != nil {
		rt.logger.Warn("closing store", zap.Error(err))
	}
	if err := rt.media.Close(); err != nil {
		rt.logger.Warn("removing media library", zap.Error(err))
	}
}

func (rt *session) webDeps() web.Deps {
	return web.Deps{
		Store:   rt.store,
		Catalog: rt.catalog,
		Media:   rt.media,
		Config:  rt.cfg,
		Logger:  rt.logger,
		Version: Version,
	}
}

func (rt *session) mcpDeps() mcp.Deps {
	return mcp.Deps{
		Store:   rt.store,
		Catalog: rt.catalog,
		Media:   rt.media,
		Config:  rt.cfg,
		Logger:  rt.logger,
	}
}
