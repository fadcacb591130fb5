package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Danielbeltranh/competencia-los-cabos/services/auditor/internal/checks"
	"github.com/Danielbeltranh/competencia-los-cabos/services/auditor/internal/config"
)

var distancesFormat string

var distancesCmd = &cobra.Command{
	Use:   "distances",
	Short: "List each development's distance to the anchor",
	Long:  "Prints the great-circle distance from every mapped development to the reference development, nearest first.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runDistances(cmd.Context(), cmd.OutOrStdout(), cfg, distancesFormat)
	},
}

func init() {
	distancesCmd.Flags().StringVar(&distancesFormat, "format", "table", "output format: table or json")
	rootCmd.AddCommand(distancesCmd)
}

func runDistances(ctx context.Context, out io.Writer, cfg config.Config, format string) error {
	store, err := loadCatalog(ctx, cfg.App)
	if err != nil {
		return err
	}

	anchor := cfg.App.SessionSettings(nil).Anchor
	rows := checks.Distances(store, anchor.Point)

	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "table", "":
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "DEVELOPMENT\tLAT\tLON\tKM TO %s\n", anchor.Name)
		for _, r := range rows {
			fmt.Fprintf(tw, "%s\t%.6f\t%.6f\t%.2f\n", r.Development, r.Lat, r.Lon, r.DistanceKM)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
