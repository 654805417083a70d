// Package config loads runtime settings from a .env file and the process
// environment. Per-run options (time windows, folders) stay on CLI flags in
// the individual commands; anything secret or deployment-specific lives here.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Config holds every environment-driven setting shared by the commands.
type Config struct {
	SquareAccessToken string `env:"SQUARE_ACCESS_TOKEN"`
	SquareEnvironment string `env:"SQUARE_ENVIRONMENT" envDefault:"production"`
	SquareLocationID  string `env:"SQUARE_LOCATION_ID" envDefault:"LMDN6Z5DKNJ2P"`

	GeminiAPIKey string `env:"GEMINI_API_KEY"`

	Port  string `env:"PORT" envDefault:"5000"`
	Debug bool   `env:"DEBUG" envDefault:"false"`

	TransactionsDB string `env:"TRANSACTIONS_DB" envDefault:"transactions.db"`
	SalesDB        string `env:"SALES_DB" envDefault:"database/sales_data.db"`

	// BusinessTerms points at a Markdown document of hand-written business
	// rules fed into the NL->SQL prompt. Optional.
	BusinessTerms string `env:"BUSINESS_TERMS" envDefault:"pretrain/business_terms.md"`
}

// Load reads .env from the working directory when present, then parses the
// process environment. A missing .env file is not an error; a malformed one is.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("config.Load: reading .env: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parsing environment: %w", err)
	}
	return cfg, nil
}

// RequireSquareToken returns an error when no access token is configured.
// Commands that talk to the payments API call this up front so the failure
// names the missing variable instead of surfacing as a 401 later.
func (c *Config) RequireSquareToken() error {
	if c.SquareAccessToken == "" {
		return fmt.Errorf("config: SQUARE_ACCESS_TOKEN is not set")
	}
	return nil
}
