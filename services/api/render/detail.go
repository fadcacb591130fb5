// Package render produces the detail view of a development: a JSON payload
// and the HTML card shown next to the map.
package render

import (
	"fmt"

	"github.com/Danielbeltranh/competencia-los-cabos/services/api/catalog"
	"github.com/Danielbeltranh/competencia-los-cabos/services/api/geo"
)

// Detail is what the detail panel shows for one development.
type Detail struct {
	Record     catalog.Record     `json:"record"`
	Anchor     geo.ReferencePoint `json:"anchor"`
	DistanceKM *float64           `json:"distance_km,omitempty"`
	PriceLabel string             `json:"price_label"`
	LogoSrc    string             `json:"logo_src,omitempty"`
}

// LogoSource resolves a logo reference into an image source.
type LogoSource interface {
	Source(ref string) string
}

// NewDetail builds the detail of rec. The distance is absent when the record
// has no valid coordinates. logos may be nil.
func NewDetail(rec catalog.Record, anchor geo.ReferencePoint, logos LogoSource) Detail {
	d := Detail{
		Record:     rec,
		Anchor:     anchor,
		PriceLabel: rec.Price.Label(),
	}
	if rec.HasCoords {
		km := rec.Coords.DistanceTo(anchor.Point)
		d.DistanceKM = &km
	}
	if logos != nil {
		d.LogoSrc = logos.Source(rec.Logo)
	}
	return d
}

// DistanceLabel formats the distance line, or "" when there is none.
func (d Detail) DistanceLabel() string {
	if d.DistanceKM == nil {
		return ""
	}
	return fmt.Sprintf("Distancia a %s: %.2f km", d.Anchor.Name, *d.DistanceKM)
}
