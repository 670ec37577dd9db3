package config

import (
	"fmt"
	"net/url"
)

// Storage backends
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// DatabaseConfig holds PostgreSQL database configuration
type DatabaseConfig struct {
	Host     string `env:"CRM_PG_HOST" env-default:"localhost"`
	Port     uint16 `env:"CRM_PG_PORT" env-default:"5432"`
	Database string `env:"CRM_PG_DATABASE" env-default:"crm_db"`
	User     string `env:"CRM_PG_USER" env-default:"crm"`
	Password string `env:"CRM_PG_PASSWORD" env-default:"pwd"`
	Schema   string `env:"CRM_PG_SCHEMA" env-default:"public"`
}

// ToDatabaseURL converts the config to a PostgreSQL connection URL
func (d DatabaseConfig) ToDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable&search_path=%s,public",
		url.QueryEscape(d.User), url.QueryEscape(d.Password), d.Host, d.Port, d.Database, d.Schema)
}

// StorageConfig selects where entities are kept
type StorageConfig struct {
	Backend string `env:"CRM_STORAGE" env-default:"postgres"`
}

func (d DatabaseConfig) validate() ValidationErrors {
	return CollectErrors(
		RequireNonEmpty("CRM_PG_HOST", d.Host),
		RequirePort("CRM_PG_PORT", d.Port),
		RequireNonEmpty("CRM_PG_DATABASE", d.Database),
		RequireNonEmpty("CRM_PG_USER", d.User),
	)
}
