package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// CatalogDatabaseURL is the Postgres URL of the role/privilege catalog.
	CatalogDatabaseURL string
	// MySQLDSN is the go-sql-driver DSN of the managed MariaDB/MySQL server.
	MySQLDSN           string
	MySQLMaxOpenConns  int
	MySQLTLSCert       string
	MySQLTLSKey        string
	MySQLTLSCACert     string
	MySQLTLSServerName string

	HTTPListenAddr     string
	LogLevel           string
	ServiceName        string
	CatalogCacheTTL    time.Duration
	DefaultAccountHost string
}

func Load() (*Config, error) {
	cfg := &Config{
		CatalogDatabaseURL: getEnv("CATALOG_DATABASE_URL", ""),
		MySQLDSN:           getEnv("MYSQL_DSN", ""),
		MySQLTLSCert:       getEnv("MYSQL_TLS_CERT", ""),
		MySQLTLSKey:        getEnv("MYSQL_TLS_KEY", ""),
		MySQLTLSCACert:     getEnv("MYSQL_TLS_CA_CERT", ""),
		MySQLTLSServerName: getEnv("MYSQL_TLS_SERVER_NAME", ""),
		HTTPListenAddr:     getEnv("HTTP_LISTEN_ADDR", ":8090"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		ServiceName:        getEnv("SERVICE_NAME", "dbaccess"),
		DefaultAccountHost: getEnv("DEFAULT_ACCOUNT_HOST", "%"),
	}

	maxOpen, err := strconv.Atoi(getEnv("MYSQL_MAX_OPEN_CONNS", "10"))
	if err != nil {
		return nil, fmt.Errorf("parse MYSQL_MAX_OPEN_CONNS: %w", err)
	}
	cfg.MySQLMaxOpenConns = maxOpen

	ttl, err := time.ParseDuration(getEnv("CATALOG_CACHE_TTL", "2m"))
	if err != nil {
		return nil, fmt.Errorf("parse CATALOG_CACHE_TTL: %w", err)
	}
	cfg.CatalogCacheTTL = ttl

	return cfg, nil
}

// Validate checks that every field the given command needs is set and reports
// all missing fields at once.
func (c *Config) Validate(command string) error {
	var missing []string

	if c.CatalogDatabaseURL == "" {
		missing = append(missing, "CATALOG_DATABASE_URL")
	}

	switch command {
	case "serve":
		if c.MySQLDSN == "" {
			missing = append(missing, "MYSQL_DSN")
		}
		if c.HTTPListenAddr == "" {
			missing = append(missing, "HTTP_LISTEN_ADDR")
		}
	case "sync-accounts", "apply-user":
		if c.MySQLDSN == "" {
			missing = append(missing, "MYSQL_DSN")
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables for %s: %s", command, strings.Join(missing, ", "))
	}

	if (c.MySQLTLSCert == "") != (c.MySQLTLSKey == "") {
		return fmt.Errorf("MYSQL_TLS_CERT and MYSQL_TLS_KEY must both be set")
	}
	if c.MySQLMaxOpenConns < 1 {
		return fmt.Errorf("MYSQL_MAX_OPEN_CONNS must be at least 1")
	}
	if c.CatalogCacheTTL < 0 {
		return fmt.Errorf("CATALOG_CACHE_TTL must not be negative")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
