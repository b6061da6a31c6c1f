// Package config loads the tool configuration from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds everything the pack tools need.
type Config struct {
	LogLevel string `yaml:"log_level"`

	Database DatabaseConfig `yaml:"database"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Default returns Config with sensible defaults.
func Default() Config {
	return Config{
		LogLevel: "info",
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "wulingo",
			Password: "wulingo",
			DBName:   "wulingo",
			SSLMode:  "disable",
		},
	}
}

// Load loads config from a YAML file.
// If the file doesn't exist, returns defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}
