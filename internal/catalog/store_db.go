package catalog

import (
	"context"
	"database/sql"
	"time"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

// PostgresStore serves the catalog from the melons table. The pos column
// records file position at seed time so All keeps load order.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *PostgresStore) All(ctx context.Context) ([]Melon, error) {
	var out []Melon

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT id, name, price_cents, image_url, description
			FROM melons
			ORDER BY pos ASC
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]Melon, 0, 16)
		for rows.Next() {
			var m Melon
			if err := rows.Scan(&m.ID, &m.Name, &m.PriceCents, &m.ImageURL, &m.Description); err != nil {
				return err
			}
			out = append(out, m)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Melon, bool, error) {
	var m Melon

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, `
			SELECT id, name, price_cents, image_url, description
			FROM melons
			WHERE id = $1
		`, id).Scan(&m.ID, &m.Name, &m.PriceCents, &m.ImageURL, &m.Description)
	})

	if err == sql.ErrNoRows {
		return Melon{}, false, nil
	}
	if err != nil {
		return Melon{}, false, err
	}
	return m, true, nil
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
