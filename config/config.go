// Package config provides YAML configuration parsing for the SuperHero CLI.
//
// This package enables running the store-backed CLI and the dev collection
// server from a configuration file, as an alternative to the programmatic
// SDK approach.
//
// Example configuration:
//
//	api_url: http://localhost:3000
//	page_size: 10
//	debounce: 300ms
//	request_timeout: 10s
//	headers:
//	  Authorization: Bearer ${API_TOKEN}
//
//	server:
//	  port: 3000
//	  db: heroes.db
//	  seed: true
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// maxDebounce is the largest accepted debounce window. Larger values almost
// always indicate a units mistake in the config file.
const maxDebounce = 10 * time.Second

// Config is the root configuration structure for the SuperHero CLI.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// APIURL is the root URL of the hero collection service.
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}.
	// Defaults to http://localhost:3000.
	APIURL string `yaml:"api_url"`

	// PageSize is the default number of heroes per page. Defaults to 10.
	PageSize int `yaml:"page_size"`

	// Debounce is the search pipeline's quiet window.
	// Accepts duration strings like "300ms", "1s". Defaults to 300ms.
	Debounce Duration `yaml:"debounce"`

	// RequestTimeout is the per-request timeout for collection calls.
	// Defaults to 10s.
	RequestTimeout Duration `yaml:"request_timeout"`

	// Headers are custom HTTP headers sent with every collection request.
	// Values support environment variable substitution.
	Headers map[string]string `yaml:"headers"`

	// Server configures the dev collection server for the serve command.
	Server ServerConfig `yaml:"server"`
}

// ServerConfig configures the dev collection server.
type ServerConfig struct {
	// Port is the TCP port to listen on. Defaults to 3000.
	Port int `yaml:"port"`

	// DB is the SQLite file backing the collection. ":memory:" (the
	// default) keeps the collection in memory for the server's lifetime.
	DB string `yaml:"db"`

	// Seed populates an empty collection with a set of well-known heroes.
	Seed bool `yaml:"seed"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		// already have an error, skip processing
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		// submatches[2] is ":-..." (non-empty if default syntax was used)
		// submatches[3] is the actual default value (may be empty for ${VAR:-})
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
//
// Environment variables in the file are expanded before validation.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Environment variables are expanded in APIURL and header values. Defaults
// are applied for APIURL (http://localhost:3000), PageSize (10), Debounce
// (300ms), RequestTimeout (10s), Server.Port (3000), and Server.DB
// (":memory:").
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.APIURL == "" {
		cfg.APIURL = "http://localhost:3000"
	}
	if cfg.PageSize == 0 {
		cfg.PageSize = 10
	}
	if cfg.Debounce == 0 {
		cfg.Debounce = Duration(300 * time.Millisecond)
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = Duration(10 * time.Second)
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3000
	}
	if cfg.Server.DB == "" {
		cfg.Server.DB = ":memory:"
	}

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// expandAndValidate expands environment variables and checks field bounds.
func (c *Config) expandAndValidate() error {
	expanded, err := expandEnvVars(c.APIURL)
	if err != nil {
		return fmt.Errorf("api_url: %w", err)
	}
	c.APIURL = expanded

	for key, value := range c.Headers {
		expandedValue, err := expandEnvVars(value)
		if err != nil {
			return fmt.Errorf("header %q: %w", key, err)
		}
		c.Headers[key] = expandedValue
	}

	parsed, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("invalid api_url: %w", err)
	}
	if parsed.Scheme == "" {
		return errors.New("api_url must have a scheme (http:// or https://)")
	}
	// url.Parse reads "localhost:3000" as scheme "localhost", so an
	// empty-scheme check alone lets schemeless host:port values through
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("api_url scheme must be http or https, got %q", parsed.Scheme)
	}

	if c.PageSize < 1 {
		return fmt.Errorf("page_size must be at least 1, got %d", c.PageSize)
	}
	if c.Debounce < 0 {
		return errors.New("debounce must not be negative")
	}
	if c.Debounce.Duration() > maxDebounce {
		return fmt.Errorf("debounce must not exceed %s", maxDebounce)
	}
	if c.RequestTimeout.Duration() <= 0 {
		return errors.New("request_timeout must be positive")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}
	return nil
}
