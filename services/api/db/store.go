// Package db reads the competencia catalogue from Postgres. The table is
// read-only for this service.
package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/Danielbeltranh/competencia-los-cabos/services/api/catalog"
)

// Pool is the subset of pgxpool.Pool used by Store.
type Pool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close()
}

// Store wraps database access helpers.
type Store struct {
	pool Pool
}

// New creates a Store backed by a pgx pool.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "db: connect")
	}
	return &Store{pool: pool}, nil
}

// NewWithPool creates a Store on an existing pool.
func NewWithPool(pool Pool) *Store {
	return &Store{pool: pool}
}

// Close releases the pool resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

const listDevelopmentsSQL = `
    SELECT nombre, website, tipo_desarrollo, diseno_estilo, estado_desarrollo,
           tipologias_superficie_m2, num_unidades, amenidades, servicios_adicionales,
           lat::text, lon::text, logo
    FROM competencia.desarrollos
    ORDER BY posicion, nombre
`

// Rows implements catalog.Source. NULL columns become "".
func (s *Store) Rows(ctx context.Context) ([]catalog.RawRow, error) {
	rows, err := s.pool.Query(ctx, listDevelopmentsSQL)
	if err != nil {
		return nil, eris.Wrap(err, "db: query developments")
	}
	defer rows.Close()

	out := make([]catalog.RawRow, 0)
	for rows.Next() {
		vals := make([]*string, len(catalog.Columns))
		dest := make([]any, len(vals))
		for i := range vals {
			dest[i] = &vals[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, eris.Wrap(err, "db: scan development")
		}

		row := make(catalog.RawRow, len(catalog.Columns))
		for i, col := range catalog.Columns {
			if vals[i] != nil {
				row[col] = *vals[i]
			} else {
				row[col] = ""
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "db: iterate developments")
	}
	return out, nil
}
