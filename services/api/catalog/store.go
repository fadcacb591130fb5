package catalog

import (
	"math"
	"slices"
	"strconv"

	"go.uber.org/zap"

	"github.com/Danielbeltranh/competencia-los-cabos/services/api/geo"
)

// BuildOptions configures Build.
type BuildOptions struct {
	Tables     Tables
	AssetDir   string
	AnchorName string
}

// Store is the ordered, read-only collection of development records. It is
// safe to share between sessions.
type Store struct {
	records []Record
	index   map[string]int
}

// Build normalizes raw rows into a Store. Output order follows input order.
func Build(rows []RawRow, opts BuildOptions) *Store {
	s := &Store{
		records: make([]Record, 0, len(rows)),
		index:   make(map[string]int, len(rows)),
	}

	for i, row := range rows {
		rec := buildRecord(row, opts)
		if !rec.HasCoords {
			zap.L().Debug("catalog: malformed coordinates",
				zap.Int("row", i),
				zap.String("name", rec.Name),
				zap.String("lat", row.Get(ColLat)),
				zap.String("lon", row.Get(ColLon)),
			)
		}
		if _, dup := s.index[rec.Name]; !dup && rec.Selectable() {
			s.index[rec.Name] = len(s.records)
		}
		s.records = append(s.records, rec)
	}

	return s
}

func buildRecord(row RawRow, opts BuildOptions) Record {
	t := opts.Tables
	name := NormalizeName(t, row.Get(ColName))

	rec := Record{
		Name:       name,
		RawName:    row.Get(ColName),
		Website:    ResolveWebsite(t, row),
		Category:   row.Get(ColCategory),
		Style:      row.Get(ColStyle),
		Status:     row.Get(ColStatus),
		Typologies: row.Get(ColTypologies),
		UnitCount:  row.Get(ColUnitCount),
		Amenities:  SplitList(row.Get(ColAmenities)),
		Services:   SplitList(row.Get(ColServices)),
		Logo:       ResolveLogo(t, opts.AssetDir, row),
		DarkLogo:   t.isWhiteLogo(name),
		Price:      LookupPrice(t, name),
		IsAnchor:   opts.AnchorName != "" && name == opts.AnchorName,
	}

	lat, latErr := strconv.ParseFloat(row.Get(ColLat), 64)
	lon, lonErr := strconv.ParseFloat(row.Get(ColLon), 64)
	if latErr == nil && lonErr == nil && finite(lat) && finite(lon) {
		rec.Coords = geo.Point{Lat: lat, Lon: lon}
		rec.HasCoords = true
	}

	return rec
}

// Len returns the number of records.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.records)
}

// At returns a copy of the record at position i.
func (s *Store) At(i int) Record {
	return cloneRecord(s.records[i])
}

// Index returns the position of the first record named name, or -1.
// Records without a name are never found.
func (s *Store) Index(name string) int {
	if s == nil {
		return -1
	}
	if i, ok := s.index[name]; ok {
		return i
	}
	return -1
}

// Lookup returns the first record named name.
func (s *Store) Lookup(name string) (Record, bool) {
	i := s.Index(name)
	if i < 0 {
		return Record{}, false
	}
	return s.At(i), true
}

// Names returns the record names in store order.
func (s *Store) Names() []string {
	names := make([]string, 0, s.Len())
	for i := 0; i < s.Len(); i++ {
		names = append(names, s.records[i].Name)
	}
	return names
}

// Records returns copies of all records in store order.
func (s *Store) Records() []Record {
	out := make([]Record, 0, s.Len())
	for i := 0; i < s.Len(); i++ {
		out = append(out, s.At(i))
	}
	return out
}

// FirstSelectable returns the position of the first named record, or -1.
func (s *Store) FirstSelectable() int {
	for i := 0; i < s.Len(); i++ {
		if s.records[i].Selectable() {
			return i
		}
	}
	return -1
}

// Mappable returns the records that can be placed on the map.
func (s *Store) Mappable() []Record {
	out := make([]Record, 0, s.Len())
	for i := 0; i < s.Len(); i++ {
		if s.records[i].Mappable() {
			out = append(out, s.At(i))
		}
	}
	return out
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func cloneRecord(r Record) Record {
	r.Amenities = slices.Clone(r.Amenities)
	r.Services = slices.Clone(r.Services)
	return r
}
