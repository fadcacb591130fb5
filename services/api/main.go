package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Danielbeltranh/competencia-los-cabos/services/api/assets"
	"github.com/Danielbeltranh/competencia-los-cabos/services/api/catalog"
	"github.com/Danielbeltranh/competencia-los-cabos/services/api/config"
	"github.com/Danielbeltranh/competencia-los-cabos/services/api/db"
	httpserver "github.com/Danielbeltranh/competencia-los-cabos/services/api/http"
	"github.com/Danielbeltranh/competencia-los-cabos/services/api/mapview"
	"github.com/Danielbeltranh/competencia-los-cabos/services/api/session"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("api failed: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if err := config.InitLogger(cfg.Log); err != nil {
		return fmt.Errorf("logger error: %w", err)
	}
	defer func() { _ = zap.L().Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv, cleanup, err := setup(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	zap.L().Info("REST API starting", zap.String("addr", cfg.ListenAddr()))
	return srv.Run(ctx)
}

// setup loads the catalogue and builds the server. A missing data source is
// not an error: the server then answers every API route with 503. cleanup
// releases the database pool, if any.
func setup(ctx context.Context, cfg config.Config) (*httpserver.Server, func(), error) {
	cleanup := func() {}

	tables := catalog.DefaultTables()
	if cfg.Data.TablesPath != "" {
		t, err := catalog.LoadTables(cfg.Data.TablesPath)
		if err != nil {
			return nil, cleanup, fmt.Errorf("lookup tables error: %w", err)
		}
		tables = t
	}

	var src catalog.Source
	if cfg.Data.DatabaseURL != "" {
		pg, err := db.New(ctx, cfg.Data.DatabaseURL)
		if err != nil {
			return nil, cleanup, fmt.Errorf("db connection error: %w", err)
		}
		cleanup = pg.Close
		src = pg
	} else {
		src = catalog.NewCSVSource(cfg.Data.CSVCandidates...)
	}

	loadCtx, loadCancel := context.WithTimeout(ctx, 30*time.Second)
	store, catalogErr := catalog.Load(loadCtx, src, catalog.BuildOptions{
		Tables:     tables,
		AssetDir:   cfg.Assets.LogoDir,
		AnchorName: cfg.Anchor.Name,
	})
	loadCancel()
	if catalogErr != nil {
		// Keep serving so clients get the blocking message instead of a dead port.
		zap.L().Error("catalogue unavailable", zap.Error(catalogErr))
		store = catalog.Build(nil, catalog.BuildOptions{Tables: tables})
	} else {
		zap.L().Info("catalogue loaded",
			zap.Int("records", store.Len()),
			zap.Int("mappable", len(store.Mappable())),
		)
	}

	layers := mapview.DefaultLayers()
	settings := cfg.SessionSettings(mapview.LayerNames(layers))

	srv := httpserver.New(cfg, httpserver.Deps{
		Catalog:    store,
		CatalogErr: catalogErr,
		Sessions:   session.NewRegistry(store, settings, cfg.Session.Max),
		Logos:      assets.NewResolver(cfg.Assets.Root),
		Layers:     layers,
	})
	return srv, cleanup, nil
}
