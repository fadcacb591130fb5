package catalog

import (
	"math"

	"github.com/Danielbeltranh/competencia-los-cabos/services/api/geo"
)

// DefaultClickThresholdKM is the maximum click-to-marker distance that
// still counts as a click on the marker.
const DefaultClickThresholdKM = 0.25

// Match is the record nearest to a map click.
type Match struct {
	Name       string  `json:"name"`
	Index      int     `json:"index"`
	DistanceKM float64 `json:"distance_km"`
}

// ResolveClick finds the named, mappable record nearest to (lat, lon). The first
// record reaching the minimum wins, and it only matches within thresholdKM.
func ResolveClick(s *Store, lat, lon, thresholdKM float64) (Match, bool) {
	best := Match{Index: -1, DistanceKM: math.Inf(1)}
	for i := 0; i < s.Len(); i++ {
		rec := s.records[i]
		if !rec.Mappable() || !rec.Selectable() {
			continue
		}
		d := geo.DistanceKM(lat, lon, rec.Coords.Lat, rec.Coords.Lon)
		if d < best.DistanceKM {
			best = Match{Name: rec.Name, Index: i, DistanceKM: d}
		}
	}

	if best.Index < 0 || best.DistanceKM > thresholdKM {
		return Match{}, false
	}
	return best, true
}
