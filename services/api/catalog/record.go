// Package catalog builds the read-only store of competing developments from
// raw data source rows and the static lookup tables.
package catalog

import (
	"strings"

	"github.com/Danielbeltranh/competencia-los-cabos/services/api/geo"
)

// Column names of the competencia dataset.
const (
	ColName       = "nombre"
	ColWebsite    = "website"
	ColCategory   = "tipo_desarrollo"
	ColStyle      = "diseno_estilo"
	ColStatus     = "estado_desarrollo"
	ColTypologies = "tipologias_superficie_m2"
	ColUnitCount  = "num_unidades"
	ColAmenities  = "amenidades"
	ColServices   = "servicios_adicionales"
	ColLat        = "lat"
	ColLon        = "lon"
	ColLogo       = "logo"
)

// Columns lists every field a data source row is expected to carry.
var Columns = []string{
	ColName, ColWebsite, ColCategory, ColStyle, ColStatus, ColTypologies,
	ColUnitCount, ColAmenities, ColServices, ColLat, ColLon, ColLogo,
}

// RawRow is one data source row keyed by column name.
type RawRow map[string]string

// Get returns the trimmed value of col, or "" when the column is missing.
func (r RawRow) Get(col string) string {
	return strings.TrimSpace(r[col])
}

// PriceRange is the display price of a development.
type PriceRange struct {
	Low         string `json:"low,omitempty"`
	High        string `json:"high,omitempty"`
	Undisclosed bool   `json:"undisclosed"`
}

// Label returns the text shown on the detail card.
func (p PriceRange) Label() string {
	if p.Undisclosed {
		return "Precio: " + UndisclosedPrice
	}
	return "Precio desde: " + p.Low
}

// Record is one normalized development of the catalogue.
type Record struct {
	Name       string     `json:"name"`
	RawName    string     `json:"raw_name"`
	Website    string     `json:"website"`
	Category   string     `json:"category"`
	Style      string     `json:"style"`
	Status     string     `json:"status"`
	Typologies string     `json:"typologies"`
	UnitCount  string     `json:"unit_count"`
	Amenities  []string   `json:"amenities"`
	Services   []string   `json:"services"`
	Coords     geo.Point  `json:"coords"`
	HasCoords  bool       `json:"has_coords"`
	Logo       string     `json:"logo,omitempty"`
	DarkLogo   bool       `json:"dark_logo"`
	Price      PriceRange `json:"price"`
	IsAnchor   bool       `json:"is_anchor"`
}

// Selectable reports whether the record can become the active selection.
func (r Record) Selectable() bool {
	return r.Name != ""
}

// Mappable reports whether the record can be placed on the map and matched
// by clicks.
func (r Record) Mappable() bool {
	return r.HasCoords && !r.IsAnchor
}
