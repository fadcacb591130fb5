package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ErrMissingDataSource is returned when none of the configured dataset
// locations exists.
var ErrMissingDataSource = eris.New("catalog: competencia dataset not found")

// DefaultCSVCandidates are tried in order when no explicit path is set.
var DefaultCSVCandidates = []string{
	"competencia_los_cabos_completa.csv",
	"competencia_los_cabos.csv",
}

// Source yields the raw rows of the catalogue.
type Source interface {
	Rows(ctx context.Context) ([]RawRow, error)
}

// CSVSource reads the first existing file among Candidates.
type CSVSource struct {
	Candidates []string
}

// NewCSVSource creates a CSVSource. An empty candidate list falls back to
// DefaultCSVCandidates.
func NewCSVSource(candidates ...string) *CSVSource {
	if len(candidates) == 0 {
		candidates = DefaultCSVCandidates
	}
	return &CSVSource{Candidates: candidates}
}

// Path returns the first candidate that exists on disk.
func (s *CSVSource) Path() (string, error) {
	for _, c := range s.Candidates {
		if c == "" {
			continue
		}
		info, err := os.Stat(c)
		if err == nil && !info.IsDir() {
			return c, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", eris.Wrapf(err, "catalog: stat %s", c)
		}
	}
	return "", eris.Wrapf(ErrMissingDataSource, "catalog: tried %s", strings.Join(s.Candidates, ", "))
}

// Rows implements Source.
func (s *CSVSource) Rows(_ context.Context) ([]RawRow, error) {
	path, err := s.Path()
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: open %s", path)
	}
	defer f.Close()

	rows, err := ReadCSV(f)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: read %s", path)
	}
	zap.L().Info("catalog: loaded csv", zap.String("path", path), zap.Int("rows", len(rows)))
	return rows, nil
}

// ReadCSV parses a header-first CSV stream into rows. Every known column is
// present in each row, defaulting to "".
func ReadCSV(r io.Reader) ([]RawRow, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "catalog: parse csv")
	}
	if len(records) == 0 {
		return []RawRow{}, nil
	}

	header := records[0]
	colIdx := make(map[string]int, len(header))
	for i, col := range header {
		col = strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))
		if _, seen := colIdx[col]; !seen {
			colIdx[col] = i
		}
	}

	rows := make([]RawRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(RawRow, len(Columns))
		for _, col := range Columns {
			row[col] = getCol(rec, colIdx, col)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func getCol(rec []string, colIdx map[string]int, col string) string {
	i, ok := colIdx[col]
	if !ok || i >= len(rec) {
		return ""
	}
	return rec[i]
}

// Load reads rows from src and builds the store.
func Load(ctx context.Context, src Source, opts BuildOptions) (*Store, error) {
	rows, err := src.Rows(ctx)
	if err != nil {
		return nil, err
	}
	return Build(rows, opts), nil
}
