package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds every tunable of the bidgate service, loaded from the
// environment with .env as a fallback for local development.
type Config struct {
	ServerAddress string `env:"SERVER_ADDRESS" envDefault:":9000"`

	// Collaborator service endpoints
	SessionServiceURL   string        `env:"SESSION_SERVICE_URL" envDefault:"http://localhost:9101"`
	IdentityServiceURL  string        `env:"IDENTITY_SERVICE_URL" envDefault:"http://localhost:9102"`
	CatalogServiceURL   string        `env:"CATALOG_SERVICE_URL" envDefault:"http://localhost:9103"`
	CollaboratorTimeout time.Duration `env:"COLLABORATOR_TIMEOUT" envDefault:"10s"`

	// Remediation routes used by the eligibility gate
	LoginRoute        string `env:"LOGIN_ROUTE" envDefault:"/login"`
	VerificationRoute string `env:"VERIFICATION_ROUTE" envDefault:"/account/verification"`

	// Fixed business constants kept configurable, defaults preserved as-is
	QuickIncrement      int64         `env:"QUICK_INCREMENT" envDefault:"100"`
	RejectRedirectDelay time.Duration `env:"REJECT_REDIRECT_DELAY" envDefault:"2s"`
	CountdownInterval   time.Duration `env:"COUNTDOWN_INTERVAL" envDefault:"1s"`
}

// NewConfig loads .env if present and parses the environment into a Config.
func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config.NewConfig: %w", err)
	}
	return cfg, nil
}
