// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package config loads the search endpoint service configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yiakwy/edx-platform/pkg/errors"
)

// Search backends
const (
	SearchSourceBleve      = "bleve"
	SearchSourceOpenSearch = "opensearch"
	SearchSourceMock       = "mock"
)

// Access control backends
const (
	AccessControlSourceNATS = "nats"
	AccessControlSourceMock = "mock"
)

// Config holds all configuration for the search endpoint service.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Search        SearchConfig        `yaml:"search"`
	AccessControl AccessControlConfig `yaml:"access_control"`
	Catalog       CatalogConfig       `yaml:"catalog"`
	Auth          AuthConfig          `yaml:"auth"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Bind string `yaml:"bind"`
	Port string `yaml:"port"`
}

// Addr returns the listen address. A bind of "*" listens on every interface.
func (s ServerConfig) Addr() string {
	if s.Bind == "*" {
		return ":" + s.Port
	}
	return s.Bind + ":" + s.Port
}

// SearchConfig selects and configures the search backend.
type SearchConfig struct {
	Source          string `yaml:"source"`
	OpenSearchURL   string `yaml:"opensearch_url"`
	OpenSearchIndex string `yaml:"opensearch_index"`
}

// AccessControlConfig selects and configures the access checker.
type AccessControlConfig struct {
	Source            string        `yaml:"source"`
	NATSURL           string        `yaml:"nats_url"`
	NATSTimeout       time.Duration `yaml:"nats_timeout"`
	NATSMaxReconnect  int           `yaml:"nats_max_reconnect"`
	NATSReconnectWait time.Duration `yaml:"nats_reconnect_wait"`
}

// CatalogConfig holds the catalog store and seed file locations.
type CatalogConfig struct {
	DBPath   string `yaml:"db_path"`
	SeedPath string `yaml:"seed_path"`
	// Watch reloads the seed file when it changes
	Watch bool `yaml:"watch"`
}

// AuthConfig holds viewer authentication settings. A non-empty
// MockLocalPrincipal disables JWT validation.
type AuthConfig struct {
	JWKSURL            string `yaml:"jwks_url"`
	Audience           string `yaml:"audience"`
	MockLocalPrincipal string `yaml:"mock_local_principal"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Bind: "*",
			Port: "8080",
		},
		Search: SearchConfig{
			Source:          SearchSourceBleve,
			OpenSearchURL:   "http://localhost:9200",
			OpenSearchIndex: "courses",
		},
		AccessControl: AccessControlConfig{
			Source:            AccessControlSourceNATS,
			NATSURL:           "nats://localhost:4222",
			NATSTimeout:       10 * time.Second,
			NATSMaxReconnect:  3,
			NATSReconnectWait: 2 * time.Second,
		},
		Catalog: CatalogConfig{
			DBPath: "data/catalog.db",
			Watch:  true,
		},
	}
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
		configDir := filepath.Dir(path)
		cfg.Catalog.DBPath = expandPath(cfg.Catalog.DBPath, configDir)
		cfg.Catalog.SeedPath = expandPath(cfg.Catalog.SeedPath, configDir)
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from the environment variables the service
// has always honored
func (c *Config) ApplyEnv(getenv func(string) string) error {
	setString := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	setDuration := func(key string, dst *time.Duration) error {
		v := getenv(key)
		if v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.NewValidation(fmt.Sprintf("invalid %s duration %q", key, v), err)
		}
		*dst = d
		return nil
	}

	setString("SEARCH_SOURCE", &c.Search.Source)
	setString("OPENSEARCH_URL", &c.Search.OpenSearchURL)
	setString("OPENSEARCH_INDEX", &c.Search.OpenSearchIndex)

	setString("ACCESS_CONTROL_SOURCE", &c.AccessControl.Source)
	setString("NATS_URL", &c.AccessControl.NATSURL)
	if err := setDuration("NATS_TIMEOUT", &c.AccessControl.NATSTimeout); err != nil {
		return err
	}
	if v := getenv("NATS_MAX_RECONNECT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.NewValidation(fmt.Sprintf("invalid NATS_MAX_RECONNECT value %q", v), err)
		}
		c.AccessControl.NATSMaxReconnect = n
	}
	if err := setDuration("NATS_RECONNECT_WAIT", &c.AccessControl.NATSReconnectWait); err != nil {
		return err
	}

	setString("CATALOG_DB_PATH", &c.Catalog.DBPath)
	setString("CATALOG_SEED_PATH", &c.Catalog.SeedPath)

	setString("JWKS_URL", &c.Auth.JWKSURL)
	setString("AUDIENCE", &c.Auth.Audience)
	setString("JWT_AUTH_DISABLED_MOCK_LOCAL_PRINCIPAL", &c.Auth.MockLocalPrincipal)
	return nil
}

// Validate checks the backend selections
func (c *Config) Validate() error {
	switch c.Search.Source {
	case SearchSourceBleve, SearchSourceOpenSearch, SearchSourceMock:
	default:
		return errors.NewValidation(fmt.Sprintf("unsupported search implementation: %s", c.Search.Source))
	}
	switch c.AccessControl.Source {
	case AccessControlSourceNATS, AccessControlSourceMock:
	default:
		return errors.NewValidation(fmt.Sprintf("unsupported access control implementation: %s", c.AccessControl.Source))
	}
	if c.Server.Port == "" {
		return errors.NewValidation("server port is required")
	}
	return nil
}

// expandPath resolves paths relative to the config file directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(configDir, path)
}
