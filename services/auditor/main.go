package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Danielbeltranh/competencia-los-cabos/services/api/catalog"
	apiconfig "github.com/Danielbeltranh/competencia-los-cabos/services/api/config"
	"github.com/Danielbeltranh/competencia-los-cabos/services/api/db"
	"github.com/Danielbeltranh/competencia-los-cabos/services/auditor/internal/config"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "auditor",
	Short: "Audit the competencia catalogue",
	Long:  "Checks the Los Cabos competencia dataset for missing coordinates, unresolved logos, broken links and undisclosed prices.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := apiconfig.InitLogger(cfg.App.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadCatalog reads the catalogue from Postgres when a database URL is set,
// otherwise from the first CSV candidate found.
func loadCatalog(ctx context.Context, app apiconfig.Config) (*catalog.Store, error) {
	tables := catalog.DefaultTables()
	if app.Data.TablesPath != "" {
		t, err := catalog.LoadTables(app.Data.TablesPath)
		if err != nil {
			return nil, err
		}
		tables = t
	}

	var src catalog.Source
	if app.Data.DatabaseURL != "" {
		pg, err := db.New(ctx, app.Data.DatabaseURL)
		if err != nil {
			return nil, err
		}
		defer pg.Close()
		src = pg
	} else {
		src = catalog.NewCSVSource(app.Data.CSVCandidates...)
	}

	store, err := catalog.Load(ctx, src, catalog.BuildOptions{
		Tables:     tables,
		AssetDir:   app.Assets.LogoDir,
		AnchorName: app.Anchor.Name,
	})
	if err != nil {
		return nil, err
	}
	zap.L().Info("catalogue loaded", zap.Int("records", store.Len()))
	return store, nil
}
