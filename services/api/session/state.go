// Package session reconciles selector, navigation and map click events into
// one consistent selection and map view per browser session.
package session

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Danielbeltranh/competencia-los-cabos/services/api/catalog"
	"github.com/Danielbeltranh/competencia-los-cabos/services/api/geo"
)

// ErrUnknownDevelopment is returned when a selection names no record.
var ErrUnknownDevelopment = eris.New("session: unknown development")

// ErrUnknownLayer is returned for a base layer that is not configured.
var ErrUnknownLayer = eris.New("session: unknown base layer")

// Direction of a prev/next navigation.
type Direction int

// Navigation directions.
const (
	Prev Direction = -1
	Next Direction = 1
)

// ParseDirection maps "prev" / "next" to a Direction.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "prev", "anterior":
		return Prev, true
	case "next", "siguiente":
		return Next, true
	}
	return 0, false
}

// Settings are the fixed parameters of the state machine.
type Settings struct {
	Anchor           geo.ReferencePoint
	DefaultView      View
	FocusZoom        int
	AnchorZoom       int
	ClickThresholdKM float64
	BaseLayers       []string
	ShowLine         bool
}

// View is the map camera.
type View struct {
	Center geo.Point `json:"center"`
	Zoom   int       `json:"zoom"`
	Locked bool      `json:"locked"`
}

// ClickOutcome describes how a click pass ended.
type ClickOutcome string

// Click outcomes.
const (
	ClickMatched    ClickOutcome = "matched"
	ClickNoMatch    ClickOutcome = "no_match"
	ClickDuplicate  ClickOutcome = "duplicate"
	ClickSuppressed ClickOutcome = "suppressed"
)

// ClickResult reports the effect of a Click.
type ClickResult struct {
	Outcome ClickOutcome   `json:"outcome"`
	Match   *catalog.Match `json:"match,omitempty"`
	Changed bool           `json:"changed"`
}

// State is the selection and view of one session. It is not safe for
// concurrent use; Registry serializes access per session.
type State struct {
	store    *catalog.Store
	settings Settings

	selected      string
	selectedIdx   int
	view          View
	lastClick     *geo.Point
	suppressClick bool
	baseLayer     string
	showLine      bool
}

// NewState starts a session on the first record of the store.
func NewState(store *catalog.Store, settings Settings) *State {
	s := &State{
		store:       store,
		settings:    settings,
		selectedIdx: -1,
		view:        settings.DefaultView,
		showLine:    settings.ShowLine,
	}
	if len(settings.BaseLayers) > 0 {
		s.baseLayer = settings.BaseLayers[0]
	}

	if idx := store.FirstSelectable(); idx >= 0 {
		s.changeSelection(idx)
	}
	return s
}

// Selected returns the selected name, "" for an empty store.
func (s *State) Selected() string {
	return s.selected
}

// View returns the current camera.
func (s *State) View() View {
	return s.view
}

// Select makes name the active development.
func (s *State) Select(name string) error {
	idx := s.store.Index(name)
	if idx < 0 {
		return eris.Wrapf(ErrUnknownDevelopment, "session: select %q", name)
	}
	s.changeSelection(idx)
	return nil
}

// Navigate moves the selection one step in store order, wrapping at both
// ends and stepping over unnamed records. The next click pass is suppressed.
func (s *State) Navigate(dir Direction) {
	if s.selectedIdx < 0 {
		return
	}
	n := s.store.Len()
	idx := s.selectedIdx
	for step := 0; step < n; step++ {
		idx = ((idx+int(dir))%n + n) % n
		if s.store.At(idx).Selectable() {
			s.changeSelection(idx)
			s.suppressClick = true
			return
		}
	}
}

// ReturnToAnchor centers the map on the reference point and locks it there
// until the next selection change.
func (s *State) ReturnToAnchor() {
	if s.store.Len() == 0 {
		return
	}
	s.view = View{
		Center: s.settings.Anchor.Point,
		Zoom:   s.settings.AnchorZoom,
		Locked: true,
	}
}

// Click processes a map click at (lat, lon).
func (s *State) Click(lat, lon float64) ClickResult {
	p := geo.Point{Lat: lat, Lon: lon}

	if s.suppressClick {
		s.suppressClick = false
		s.lastClick = &p
		return ClickResult{Outcome: ClickSuppressed}
	}
	if s.lastClick != nil && *s.lastClick == p {
		return ClickResult{Outcome: ClickDuplicate}
	}
	s.lastClick = &p

	m, ok := catalog.ResolveClick(s.store, lat, lon, s.settings.ClickThresholdKM)
	if !ok {
		zap.L().Debug("session: click matched no development",
			zap.Float64("lat", lat),
			zap.Float64("lon", lon),
		)
		return ClickResult{Outcome: ClickNoMatch}
	}

	changed := s.changeSelection(m.Index)
	return ClickResult{Outcome: ClickMatched, Match: &m, Changed: changed}
}

// SetBaseLayer selects one of the configured tile layers.
func (s *State) SetBaseLayer(name string) error {
	for _, l := range s.settings.BaseLayers {
		if l == name {
			s.baseLayer = name
			return nil
		}
	}
	return eris.Wrapf(ErrUnknownLayer, "session: base layer %q", name)
}

// SetShowLine toggles the selection-to-anchor distance line.
func (s *State) SetShowLine(show bool) {
	s.showLine = show
}

// changeSelection selects the record at idx and applies the recenter rule.
// It reports whether the selected name changed.
func (s *State) changeSelection(idx int) bool {
	rec := s.store.At(idx)
	s.selectedIdx = idx
	if rec.Name == s.selected {
		return false
	}
	s.selected = rec.Name

	if s.view.Locked {
		s.view.Locked = false
		return true
	}
	if rec.HasCoords {
		s.view.Center = rec.Coords
		s.view.Zoom = s.settings.FocusZoom
	}
	return true
}
