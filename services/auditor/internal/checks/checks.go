// Package checks audits the competencia catalogue offline: coordinates,
// assets, websites and prices.
package checks

import (
	"fmt"
	"sort"

	"github.com/Danielbeltranh/competencia-los-cabos/services/api/catalog"
	"github.com/Danielbeltranh/competencia-los-cabos/services/api/geo"
	"github.com/Danielbeltranh/competencia-los-cabos/services/auditor/internal/models"
)

// AssetChecker reports whether a local asset reference can be read.
type AssetChecker interface {
	Exists(ref string) bool
}

// Options tune the offline checks.
type Options struct {
	Anchor        geo.ReferencePoint
	MaxDistanceKM float64
	Assets        AssetChecker
}

// Run checks every record of the store and returns findings in store order.
func Run(s *catalog.Store, opts Options) []models.Finding {
	var out []models.Finding
	seen := make(map[string]int)

	for _, rec := range s.Records() {
		seen[rec.Name]++
		if rec.Selectable() && seen[rec.Name] == 2 {
			out = append(out, models.Finding{
				Development: rec.Name,
				Kind:        models.KindDuplicateName,
				Severity:    models.SeverityWarn,
				Detail:      "only the first row is reachable by name",
			})
		}
		out = append(out, Record(rec, opts)...)
	}
	return out
}

// Record checks a single record.
func Record(rec catalog.Record, opts Options) []models.Finding {
	var out []models.Finding
	add := func(kind models.Kind, sev models.Severity, detail string) {
		out = append(out, models.Finding{Development: rec.Name, Kind: kind, Severity: sev, Detail: detail})
	}

	switch {
	case rec.IsAnchor:
	case !rec.HasCoords:
		add(models.KindMissingCoordinates, models.SeverityWarn, "not shown on the map")
	case opts.MaxDistanceKM > 0:
		if d := rec.Coords.DistanceTo(opts.Anchor.Point); d > opts.MaxDistanceKM {
			add(models.KindFarFromAnchor, models.SeverityWarn,
				fmt.Sprintf("%.2f km from %s", d, opts.Anchor.Name))
		}
	}

	switch {
	case rec.Logo == "":
		add(models.KindMissingLogo, models.SeverityInfo, "")
	case !catalog.IsRemote(rec.Logo) && opts.Assets != nil && !opts.Assets.Exists(rec.Logo):
		add(models.KindUnresolvedLogo, models.SeverityWarn, rec.Logo)
	}

	if rec.Website == "" {
		add(models.KindMissingWebsite, models.SeverityInfo, "")
	}
	if rec.Price.Undisclosed {
		add(models.KindUndisclosedPrice, models.SeverityInfo, "")
	}
	return out
}

// ProbeTargets lists the remote URLs worth probing: websites and remote logos.
func ProbeTargets(s *catalog.Store) []models.ProbeTarget {
	var out []models.ProbeTarget
	for _, rec := range s.Records() {
		if catalog.IsRemote(rec.Website) {
			out = append(out, models.ProbeTarget{Development: rec.Name, Kind: models.KindUnreachableWebsite, URL: rec.Website})
		}
		if catalog.IsRemote(rec.Logo) {
			out = append(out, models.ProbeTarget{Development: rec.Name, Kind: models.KindUnreachableLogo, URL: rec.Logo})
		}
	}
	return out
}

// Distances returns each mappable record's distance to the anchor, nearest
// first. Ties keep store order.
func Distances(s *catalog.Store, anchor geo.Point) []models.DistanceRow {
	mappable := s.Mappable()
	rows := make([]models.DistanceRow, 0, len(mappable))
	for _, rec := range mappable {
		rows = append(rows, models.DistanceRow{
			Development: rec.Name,
			Lat:         rec.Coords.Lat,
			Lon:         rec.Coords.Lon,
			DistanceKM:  rec.Coords.DistanceTo(anchor),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].DistanceKM < rows[j].DistanceKM
	})
	return rows
}

// CountWarnings returns the number of warn-level findings.
func CountWarnings(findings []models.Finding) int {
	n := 0
	for _, f := range findings {
		if f.Severity == models.SeverityWarn {
			n++
		}
	}
	return n
}
