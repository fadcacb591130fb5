package catalog

import (
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// TableColumns are the columns of the tabular view, in display order.
var TableColumns = []string{
	ColName, ColCategory, ColStyle, ColStatus, ColUnitCount, ColTypologies, ColAmenities, ColWebsite,
}

// TableRow flattens a record into the tabular view columns.
func TableRow(r Record) []string {
	return []string{
		r.Name,
		r.Category,
		r.Style,
		r.Status,
		r.UnitCount,
		r.Typologies,
		strings.Join(r.Amenities, ", "),
		r.Website,
	}
}

// WriteXLSX writes the tabular view of every record as a spreadsheet.
func WriteXLSX(w io.Writer, s *Store) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("competencia")
	if err != nil {
		return eris.Wrap(err, "catalog: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range TableColumns {
		header.AddCell().SetString(col)
	}

	for _, rec := range s.Records() {
		row := sheet.AddRow()
		for _, v := range TableRow(rec) {
			row.AddCell().SetString(v)
		}
	}

	if err := file.Write(w); err != nil {
		return eris.Wrap(err, "catalog: write xlsx")
	}
	return nil
}
