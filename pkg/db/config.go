// Package db owns the PostgreSQL connection for the qrcode store.
package db

import (
	"os"
	"strconv"
)

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// LoadPostgresConfig reads the DB_* variables. Host, port and sslmode get
// local-development defaults; credentials and the database name do not.
func LoadPostgresConfig() (PostgresConfig, error) {
	cfg := PostgresConfig{
		Host:     os.Getenv("DB_HOST"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		DBName:   os.Getenv("DB_NAME"),
		SSLMode:  os.Getenv("DB_SSLMODE"),
	}

	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = "disable"
	}

	cfg.Port = 5432
	if raw := os.Getenv("DB_PORT"); raw != "" {
		if port, err := strconv.Atoi(raw); err == nil {
			cfg.Port = port
		}
	}

	return cfg, nil
}
