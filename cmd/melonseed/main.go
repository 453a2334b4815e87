// melonseed loads the flat-file datasets into Postgres so the storefront
// can run with STORE=postgres. It creates the tables when missing and
// refuses to overwrite existing rows.
package main

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"melonsite/internal/catalog"
	"melonsite/internal/config"
	"melonsite/internal/customer"
	"melonsite/pkg/kit"
)

const pgUniqueCode = "23505"

func main() {
	log := kit.NewLogger("melonseed")
	defer func() { _ = log.Sync() }()

	cfg := config.Load(log)
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		log.Fatal("open database failed", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	melons, customers := readDatasets(cfg.DataDir, log)

	if err := createTables(ctx, db); err != nil {
		log.Fatal("create tables failed", zap.Error(err))
	}

	if err := seed(ctx, db, melons, customers); err != nil {
		if isUniqueViolation(err) {
			log.Fatal("seed failed: data already present", zap.Error(err))
		}
		log.Fatal("seed failed", zap.Error(err))
	}

	log.Info("seeded",
		zap.Int("melons", len(melons)),
		zap.Int("customers", len(customers)),
	)
}

func readDatasets(dataDir string, log *zap.Logger) ([]catalog.Melon, []customer.Customer) {
	mf, err := os.Open(filepath.Join(dataDir, "melons.txt"))
	if err != nil {
		log.Fatal("open melon file failed", zap.Error(err))
	}
	defer mf.Close()

	melons, err := catalog.ParseMelons(mf)
	if err != nil {
		log.Fatal("parse melons failed", zap.Error(err))
	}

	cf, err := os.Open(filepath.Join(dataDir, "customers.txt"))
	if err != nil {
		log.Fatal("open customer file failed", zap.Error(err))
	}
	defer cf.Close()

	customers, err := customer.ParseCustomers(cf)
	if err != nil {
		log.Fatal("parse customers failed", zap.Error(err))
	}

	return melons, customers
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS melons (
			pos         INT NOT NULL,
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			price_cents BIGINT NOT NULL CHECK (price_cents >= 0),
			image_url   TEXT NOT NULL,
			description TEXT NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS customers (
			first_name TEXT NOT NULL,
			last_name  TEXT NOT NULL,
			email      TEXT PRIMARY KEY,
			password   TEXT NOT NULL
		)
	`)
	return err
}

func seed(ctx context.Context, db *sql.DB, melons []catalog.Melon, customers []customer.Customer) error {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	mstmt, err := tx.PrepareContext(ctx, `
		INSERT INTO melons (pos, id, name, price_cents, image_url, description)
		VALUES ($1, $2, $3, $4, $5, $6)
	`)
	if err != nil {
		return err
	}
	defer mstmt.Close()

	for i, m := range melons {
		if _, err := mstmt.ExecContext(ctx, i, m.ID, m.Name, m.PriceCents, m.ImageURL, m.Description); err != nil {
			return err
		}
	}

	cstmt, err := tx.PrepareContext(ctx, `
		INSERT INTO customers (first_name, last_name, email, password)
		VALUES ($1, $2, $3, $4)
	`)
	if err != nil {
		return err
	}
	defer cstmt.Close()

	for _, c := range customers {
		if _, err := cstmt.ExecContext(ctx, c.FirstName, c.LastName, c.Email, c.Password); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueCode
}
