package models

// Severity grades a finding.
type Severity string

// Severities.
const (
	SeverityWarn Severity = "warn"
	SeverityInfo Severity = "info"
)

// Kind names what a finding is about.
type Kind string

// Finding kinds.
const (
	KindMissingCoordinates Kind = "missing_coordinates"
	KindFarFromAnchor      Kind = "far_from_anchor"
	KindDuplicateName      Kind = "duplicate_name"
	KindMissingLogo        Kind = "missing_logo"
	KindUnresolvedLogo     Kind = "unresolved_logo"
	KindMissingWebsite     Kind = "missing_website"
	KindUndisclosedPrice   Kind = "undisclosed_price"
	KindUnreachableWebsite Kind = "unreachable_website"
	KindUnreachableLogo    Kind = "unreachable_logo"
)

// Finding is one problem detected in the catalogue.
type Finding struct {
	Development string   `json:"development"`
	Kind        Kind     `json:"kind"`
	Severity    Severity `json:"severity"`
	Detail      string   `json:"detail,omitempty"`
}

// ProbeTarget is a remote URL referenced by a development.
type ProbeTarget struct {
	Development string
	Kind        Kind
	URL         string
}

// DistanceRow is a development's distance to the anchor.
type DistanceRow struct {
	Development string  `json:"development"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DistanceKM  float64 `json:"distance_km"`
}
