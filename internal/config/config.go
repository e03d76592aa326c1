package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config carries everything both server variants read from the
// environment. Every default is fine for local development and insecure
// for anything else; production deployments must override the admin
// credentials and the session secret.
type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"InvoiceVault"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	Mongo struct {
		URI        string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
		Database   string `envconfig:"MONGO_DB" default:"invoicevault"`
		Collection string `envconfig:"MONGO_COLLECTION" default:"invoices"`
	}

	Store struct {
		// DataFile backs the file-based variant: a single JSON array of
		// records, created empty on first start.
		DataFile string `envconfig:"DATA_FILE" default:"invoices.json"`
	}

	Auth struct {
		Username      string        `envconfig:"ADMIN_USERNAME" default:"admin"`
		Password      string        `envconfig:"ADMIN_PASSWORD" default:"admin"`
		SessionSecret string        `envconfig:"SESSION_SECRET" default:"dev-secret-change-me"`
		SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"168h"`
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
