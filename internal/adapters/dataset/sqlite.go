package dataset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/okian/skillpulse/internal/domain/model"
)

const selectJobs = "SELECT * FROM jobs"

// SQLiteSource reads postings from the jobs table of a SQLite file.
type SQLiteSource struct {
	path string
}

// NewSQLiteSource creates a SQLiteSource for path.
func NewSQLiteSource(path string) *SQLiteSource {
	return &SQLiteSource{path: path}
}

// Name implements Source.
func (s *SQLiteSource) Name() string { return "sqlite" }

// Load implements Source. A missing database file yields no records.
func (s *SQLiteSource) Load(ctx context.Context) ([]model.JobRecord, error) {
	if s.path == "" {
		return nil, nil
	}
	if _, err := os.Stat(s.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat %s: %w", s.path, err)
	}

	db, err := sql.Open("sqlite", "file:"+s.path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrQuery, s.path, err)
	}
	defer func() { _ = db.Close() }()

	rows, err := db.QueryContext(ctx, selectJobs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%w: columns: %w", ErrQuery, err)
	}
	idx := indexColumns(cols)

	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	row := make([]string, len(cols))

	var out []model.JobRecord
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("%w: scan: %w", ErrQuery, err)
		}
		for i, v := range values {
			row[i] = stringify(v)
		}
		out = append(out, idx.record(row))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	return out, nil
}
