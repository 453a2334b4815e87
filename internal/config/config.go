package config

import (
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	Port          string
	DataDir       string
	SessionSecret string

	// Store selects the catalog/customer backing: "memory" loads the flat
	// files under DataDir, "postgres" uses DatabaseURL.
	Store       string
	DatabaseURL string

	MetricsEnabled bool
	MetricsToken   string
}

// Load reads .env (if present) and then the environment, with defaults fit
// for local development.
func Load(log *zap.Logger) Config {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file, using environment only")
	}

	return Config{
		Port:           getenv("PORT", "8080"),
		DataDir:        getenv("DATA_DIR", "data"),
		SessionSecret:  getenv("SESSION_SECRET", "this-should-be-something-unguessable"),
		Store:          getenv("STORE", "memory"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		MetricsEnabled: os.Getenv("METRICS_ENABLED") == "true",
		MetricsToken:   os.Getenv("METRICS_TOKEN"),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
