package customer

import (
	"context"
	"database/sql"
	"time"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

// PostgresDirectory serves accounts from the customers table. The equality
// in the WHERE clause is Postgres's default byte-wise text comparison, which
// keeps the case-sensitive matching contract.
type PostgresDirectory struct {
	db *sql.DB
}

func NewPostgresDirectory(db *sql.DB) *PostgresDirectory {
	return &PostgresDirectory{db: db}
}

func (d *PostgresDirectory) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return d.db.PingContext(ctx)
}

func (d *PostgresDirectory) GetByEmail(ctx context.Context, email string) (Customer, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var c Customer
	err := d.db.QueryRowContext(ctx, `
		SELECT first_name, last_name, email, password
		FROM customers
		WHERE email = $1
	`, email).Scan(&c.FirstName, &c.LastName, &c.Email, &c.Password)

	if err == sql.ErrNoRows {
		return Customer{}, false, nil
	}
	if err != nil {
		return Customer{}, false, err
	}
	return c, true, nil
}
