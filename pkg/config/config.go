package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds the service-level settings. The public base URL is carried
// here explicitly instead of being read from the environment at render time.
type AppConfig struct {
	ListenAddr     string
	AppURL         string
	CatalogURL     string
	CatalogToken   string
	CatalogTimeout time.Duration
}

// LoadEnv pulls in a local .env file when present. Missing files are fine;
// deployed environments set real variables.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
}

func LoadAppConfig() (AppConfig, error) {
	cfg := AppConfig{
		ListenAddr:     getenvDefault("LISTEN_ADDR", ":8080"),
		AppURL:         os.Getenv("APP_URL"),
		CatalogURL:     os.Getenv("CATALOG_GRAPHQL_URL"),
		CatalogToken:   os.Getenv("CATALOG_ACCESS_TOKEN"),
		CatalogTimeout: 5 * time.Second,
	}

	if cfg.AppURL == "" {
		return cfg, fmt.Errorf("APP_URL is required")
	}
	if cfg.CatalogURL == "" {
		return cfg, fmt.Errorf("CATALOG_GRAPHQL_URL is required")
	}

	if raw := os.Getenv("CATALOG_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return cfg, fmt.Errorf("invalid CATALOG_TIMEOUT: %w", err)
		}
		cfg.CatalogTimeout = d
	}

	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
