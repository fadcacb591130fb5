// Package probe checks that remote URLs referenced by the catalogue answer.
package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/Danielbeltranh/competencia-los-cabos/services/auditor/internal/models"
)

const userAgent = "competencia-auditor/1.0"

// Prober issues rate limited HEAD requests with bounded concurrency.
type Prober struct {
	client  *http.Client
	limiter *rate.Limiter
	workers int
}

// New creates a Prober allowing rps requests per second and at most workers
// requests in flight.
func New(client *http.Client, rps float64, workers int) *Prober {
	if workers <= 0 {
		workers = 1
	}
	return &Prober{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(rps), workers),
		workers: workers,
	}
}

// Run probes every target and returns a finding for each one that does not
// answer with a 2xx or 3xx status. Findings keep target order. Only context
// cancellation aborts the run.
func (p *Prober) Run(ctx context.Context, targets []models.ProbeTarget) ([]models.Finding, error) {
	results := make([]*models.Finding, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, target := range targets {
		g.Go(func() error {
			if err := p.limiter.Wait(gctx); err != nil {
				return eris.Wrap(err, "probe: wait")
			}
			if err := p.Check(gctx, target.URL); err != nil {
				zap.L().Debug("probe: target failed",
					zap.String("development", target.Development),
					zap.String("url", target.URL),
					zap.Error(err),
				)
				results[i] = &models.Finding{
					Development: target.Development,
					Kind:        target.Kind,
					Severity:    models.SeverityWarn,
					Detail:      fmt.Sprintf("%s: %v", target.URL, eris.Cause(err)),
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []models.Finding
	for _, f := range results {
		if f != nil {
			out = append(out, *f)
		}
	}
	return out, nil
}

// Check requests url with HEAD, falling back to GET for servers that reject
// HEAD.
func (p *Prober) Check(ctx context.Context, url string) error {
	status, err := p.do(ctx, http.MethodHead, url)
	if err != nil {
		return err
	}
	if status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented {
		if status, err = p.do(ctx, http.MethodGet, url); err != nil {
			return err
		}
	}
	if status < 200 || status >= 400 {
		return eris.Errorf("unexpected status %d", status)
	}
	return nil
}

func (p *Prober) do(ctx context.Context, method, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return 0, eris.Wrap(err, "probe: build request")
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, eris.Wrapf(err, "probe: %s %s", method, url)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	return resp.StatusCode, nil
}
