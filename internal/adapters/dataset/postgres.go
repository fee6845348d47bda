package dataset

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okian/skillpulse/internal/domain/model"
)

// PostgresSource reads postings from the jobs table of a PostgreSQL database.
type PostgresSource struct {
	url string
}

// NewPostgresSource creates a PostgresSource. An empty url disables it.
func NewPostgresSource(url string) *PostgresSource {
	return &PostgresSource{url: url}
}

// Name implements Source.
func (s *PostgresSource) Name() string { return "postgres" }

// Load implements Source.
func (s *PostgresSource) Load(ctx context.Context) ([]model.JobRecord, error) {
	if s.url == "" {
		return nil, nil
	}
	pool, err := pgxpool.New(ctx, s.url)
	if err != nil {
		return nil, fmt.Errorf("%w: connect: %w", ErrQuery, err)
	}
	defer pool.Close()

	rows, err := pool.Query(ctx, selectJobs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	idx := indexColumns(names)
	row := make([]string, len(fields))

	var out []model.JobRecord
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("%w: values: %w", ErrQuery, err)
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
