package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Danielbeltranh/competencia-los-cabos/services/api/assets"
	"github.com/Danielbeltranh/competencia-los-cabos/services/auditor/internal/checks"
	"github.com/Danielbeltranh/competencia-los-cabos/services/auditor/internal/config"
	"github.com/Danielbeltranh/competencia-los-cabos/services/auditor/internal/models"
	"github.com/Danielbeltranh/competencia-los-cabos/services/auditor/internal/probe"
)

// errWarnings is returned in strict mode when warnings were found.
var errWarnings = eris.New("auditor: catalogue has warnings")

type checkOptions struct {
	probe  bool
	strict bool
	format string
}

var checkOpts checkOptions

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the catalogue for data problems",
	Long:  "Runs offline checks over every development and, with --probe, verifies that remote websites and logos answer.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runCheck(ctx, cmd.OutOrStdout(), cfg, checkOpts)
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkOpts.probe, "probe", false, "probe remote websites and logos over HTTP")
	checkCmd.Flags().BoolVar(&checkOpts.strict, "strict", false, "exit with an error when warnings are found")
	checkCmd.Flags().StringVar(&checkOpts.format, "format", "table", "output format: table or json")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(ctx context.Context, out io.Writer, cfg config.Config, opts checkOptions) error {
	store, err := loadCatalog(ctx, cfg.App)
	if err != nil {
		return err
	}

	anchor := cfg.App.SessionSettings(nil).Anchor
	findings := checks.Run(store, checks.Options{
		Anchor:        anchor,
		MaxDistanceKM: cfg.MaxDistanceKM,
		Assets:        assets.NewResolver(cfg.App.Assets.Root),
	})

	if opts.probe {
		targets := checks.ProbeTargets(store)
		zap.L().Info("probing remote references",
			zap.Int("targets", len(targets)),
			zap.Float64("rps", cfg.ProbeRPS),
		)
		p := probe.New(&http.Client{Timeout: cfg.RequestTimeout}, cfg.ProbeRPS, cfg.ProbeWorkers)
		probed, err := p.Run(ctx, targets)
		if err != nil {
			return err
		}
		findings = append(findings, probed...)
	}

	if err := writeFindings(out, opts.format, findings); err != nil {
		return err
	}

	warnings := checks.CountWarnings(findings)
	zap.L().Info("check complete",
		zap.Int("findings", len(findings)),
		zap.Int("warnings", warnings),
	)
	if opts.strict && warnings > 0 {
		return eris.Wrapf(errWarnings, "auditor: %d warnings", warnings)
	}
	return nil
}

func writeFindings(out io.Writer, format string, findings []models.Finding) error {
	switch format {
	case "json":
		if findings == nil {
			findings = []models.Finding{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(findings)
	case "table", "":
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "SEVERITY\tDEVELOPMENT\tKIND\tDETAIL")
		for _, f := range findings {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.Severity, f.Development, f.Kind, f.Detail)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
