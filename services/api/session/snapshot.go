package session

import (
	"github.com/Danielbeltranh/competencia-los-cabos/services/api/catalog"
	"github.com/Danielbeltranh/competencia-los-cabos/services/api/geo"
)

// Snapshot is a read-only copy of a session for renderers and the map
// surface.
type Snapshot struct {
	ID         string             `json:"id,omitempty"`
	Selected   string             `json:"selected"`
	Index      int                `json:"index"`
	Record     *catalog.Record    `json:"record,omitempty"`
	DistanceKM *float64           `json:"distance_km,omitempty"`
	View       View               `json:"view"`
	LastClick  *geo.Point         `json:"last_click,omitempty"`
	BaseLayer  string             `json:"base_layer"`
	ShowLine   bool               `json:"show_line"`
	Anchor     geo.ReferencePoint `json:"anchor"`
}

// Snapshot copies the current state.
func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		Selected:  s.selected,
		Index:     s.selectedIdx,
		View:      s.view,
		BaseLayer: s.baseLayer,
		ShowLine:  s.showLine,
		Anchor:    s.settings.Anchor,
	}
	if s.lastClick != nil {
		p := *s.lastClick
		snap.LastClick = &p
	}

	if s.selectedIdx >= 0 && s.selectedIdx < s.store.Len() {
		rec := s.store.At(s.selectedIdx)
		snap.Record = &rec
		if rec.HasCoords {
			d := rec.Coords.DistanceTo(s.settings.Anchor.Point)
			snap.DistanceKM = &d
		}
	}
	return snap
}
