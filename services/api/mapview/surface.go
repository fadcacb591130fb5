package mapview

import (
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/Danielbeltranh/competencia-los-cabos/services/api/catalog"
	"github.com/Danielbeltranh/competencia-los-cabos/services/api/geo"
	"github.com/Danielbeltranh/competencia-los-cabos/services/api/session"
)

// Feature kinds.
const (
	KindDevelopment = "development"
	KindAnchor      = "anchor"
	KindDistance    = "distance"
)

// Surface is everything the map widget needs to redraw.
type Surface struct {
	View     session.View               `json:"view"`
	Layer    TileLayer                  `json:"layer"`
	Features *geojson.FeatureCollection `json:"features"`
}

// Build assembles the map surface for a session snapshot.
func Build(store *catalog.Store, snap session.Snapshot, layers []TileLayer) Surface {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, store.Len()+2)}

	fc.Features = append(fc.Features, &geojson.Feature{
		ID:       "anchor",
		Geometry: point(snap.Anchor.Point),
		Properties: map[string]interface{}{
			"kind":    KindAnchor,
			"name":    snap.Anchor.Name,
			"tooltip": snap.Anchor.Name,
			"icon":    "star",
			"prefix":  "fa",
			"color":   "green",
		},
	})

	for _, rec := range store.Mappable() {
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry: point(rec.Coords),
			Properties: map[string]interface{}{
				"kind":     KindDevelopment,
				"name":     rec.Name,
				"tooltip":  rec.Name,
				"icon":     "info-sign",
				"color":    "blue",
				"selected": rec.Name == snap.Selected,
			},
		})
	}

	if line := distanceLine(snap); line != nil {
		fc.Features = append(fc.Features, line)
	}

	return Surface{
		View:     snap.View,
		Layer:    FindLayer(layers, snap.BaseLayer),
		Features: fc,
	}
}

func distanceLine(snap session.Snapshot) *geojson.Feature {
	if !snap.ShowLine || snap.Record == nil || !snap.Record.Mappable() || snap.DistanceKM == nil {
		return nil
	}
	from, to := snap.Record.Coords, snap.Anchor.Point
	return &geojson.Feature{
		Geometry: geom.NewLineStringFlat(geom.XY, []float64{from.Lon, from.Lat, to.Lon, to.Lat}),
		Properties: map[string]interface{}{
			"kind":        KindDistance,
			"name":        snap.Record.Name,
			"tooltip":     fmt.Sprintf("%.2f km", *snap.DistanceKM),
			"distance_km": *snap.DistanceKM,
			"color":       "green",
			"weight":      3,
		},
	}
}

func point(p geo.Point) *geom.Point {
	return geom.NewPointFlat(geom.XY, []float64{p.Lon, p.Lat})
}
