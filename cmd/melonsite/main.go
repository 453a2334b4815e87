package main

import (
	"database/sql"
	"path/filepath"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"melonsite/internal/catalog"
	"melonsite/internal/config"
	"melonsite/internal/customer"
	"melonsite/internal/session"
	"melonsite/internal/web"
	"melonsite/pkg/kit"
)

func main() {
	service := "melonsite"
	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	cfg := config.Load(log)

	store, directory := buildStores(cfg, log)

	tmpl, err := web.NewTemplates()
	if err != nil {
		log.Fatal("parse templates failed", zap.Error(err))
	}

	s := &web.Server{
		Log:       log,
		Catalog:   store,
		Customers: directory,
		Sessions:  session.NewMemStore(),
		Cookies:   session.NewCookieCodec(cfg.SessionSecret),
		Templates: tmpl,
	}

	reg := prometheus.NewRegistry()
	h := web.NewHandler(s, web.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: cfg.MetricsEnabled,
		MetricsToken:   cfg.MetricsToken,
	})

	if err := kit.RunHTTPServer(":"+cfg.Port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

// buildStores wires the catalog and customer directory per config. Data
// problems are fatal here: better to refuse to start than to serve a
// partial catalog.
func buildStores(cfg config.Config, log *zap.Logger) (catalog.Store, customer.Directory) {
	switch cfg.Store {
	case "postgres":
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			log.Fatal("open database failed", zap.Error(err))
		}
		return catalog.NewPostgresStore(db), customer.NewPostgresDirectory(db)

	case "memory":
		store, err := catalog.LoadFile(filepath.Join(cfg.DataDir, "melons.txt"))
		if err != nil {
			log.Fatal("load melon catalog failed", zap.Error(err))
		}

		directory, err := customer.NewFileDirectory(filepath.Join(cfg.DataDir, "customers.txt"))
		if err != nil {
			log.Fatal("load customer directory failed", zap.Error(err))
		}
		return store, directory

	default:
		log.Fatal("unknown STORE", zap.String("store", cfg.Store))
		return nil, nil
	}
}
