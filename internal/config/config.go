package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds environment-driven configuration.
type Config struct {
	HTTP struct {
		Addr           string `env:"HTTP_ADDR" envDefault:":8080"`
		MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"` // 10 MiB
	}
	MySQL struct {
		// Empty DSN disables the report archive.
		// e.g., user:pass@tcp(host:3306)/dbname?parseTime=true&multiStatements=true
		DSN string `env:"MYSQL_DSN"`
	}
}

// Load reads configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
