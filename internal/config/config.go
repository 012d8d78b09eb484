// Package config provides environment-driven configuration for chaintrail.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// Secret wraps a sensitive string to prevent accidental logging or marshalling.
type Secret string

// String implements fmt.Stringer, returning a redacted placeholder.
func (s Secret) String() string { return "[REDACTED]" }

// GoString implements fmt.GoStringer, returning a redacted placeholder.
func (s Secret) GoString() string { return "[REDACTED]" }

// MarshalText implements encoding.TextMarshaler, returning a redacted placeholder.
func (s Secret) MarshalText() ([]byte, error) { return []byte("[REDACTED]"), nil }

// Value returns the underlying secret string.
func (s Secret) Value() string { return string(s) }

// Environment modes.
const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

// devSigningSecret is the development-only fallback signing secret. It is
// well known and provides no authenticity whatsoever; Load refuses it
// outside development mode.
const devSigningSecret = "chaintrail-dev-secret-do-not-use-in-production"

// Config holds all application configuration values.
type Config struct {
	DatabaseURL Secret
	Port        string
	ListenHost  string
	CORSOrigins []string
	LogLevel    string
	Env         string

	SigningProvider string // "static" or "vault"
	SigningSecret   Secret
	UsingDevSecret  bool // true when the flagged development fallback is active
	VaultAddr       string
	VaultToken      Secret

	APIKeys   []Secret
	WSEnabled bool
}

// Load reads configuration from environment variables with sensible defaults.
// A missing signing secret is startup-fatal in production mode: the ledger
// fails closed rather than signing with a well-known default.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:     Secret(envOrDefault("DATABASE_URL", "")),
		Port:            envOrDefault("PORT", "3040"),
		ListenHost:      envOrDefault("LISTEN_HOST", "127.0.0.1"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		Env:             envOrDefault("CHAINTRAIL_ENV", EnvProduction),
		SigningProvider: envOrDefault("SIGNING_PROVIDER", "static"),
		SigningSecret:   Secret(envOrDefault("SIGNING_SECRET", "")),
		VaultAddr:       envOrDefault("VAULT_ADDR", "http://127.0.0.1:8200"),
		VaultToken:      Secret(envOrDefault("VAULT_TOKEN", "")),
		WSEnabled:       envOrDefault("WS_ENABLED", "true") == "true",
	}

	origins := envOrDefault("CORS_ORIGINS", "http://localhost:3002")
	cfg.CORSOrigins = strings.Split(origins, ",")
	for i, o := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(o)
	}

	for _, k := range strings.Split(envOrDefault("API_KEYS", ""), ",") {
		if k = strings.TrimSpace(k); k != "" {
			cfg.APIKeys = append(cfg.APIKeys, Secret(k))
		}
	}

	if cfg.SigningProvider == "static" && cfg.SigningSecret.Value() == "" {
		if cfg.Env != EnvDevelopment {
			return nil, fmt.Errorf("SIGNING_SECRET is required (set CHAINTRAIL_ENV=development to use the insecure dev fallback)")
		}
		cfg.SigningSecret = devSigningSecret
		cfg.UsingDevSecret = true
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address in host:port format.
func (c *Config) Addr() string {
	return c.ListenHost + ":" + c.Port
}

func (c *Config) validate() error {
	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validateNetwork(); err != nil {
		return err
	}

	if err := c.validateCORS(); err != nil {
		return err
	}

	if err := c.validateSigning(); err != nil {
		return err
	}

	switch c.Env {
	case EnvProduction, EnvDevelopment:
	default:
		return fmt.Errorf("CHAINTRAIL_ENV must be %q or %q, got %q", EnvProduction, EnvDevelopment, c.Env)
	}

	if len(c.APIKeys) == 0 && c.Env != EnvDevelopment {
		return fmt.Errorf("API_KEYS is required in production")
	}

	return nil
}

func (c *Config) validateDatabase() error {
	if c.DatabaseURL.Value() == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	dbURL, err := url.Parse(c.DatabaseURL.Value())
	if err != nil {
		return fmt.Errorf("DATABASE_URL is not a valid URL: %w", err)
	}

	if dbURL.Scheme != "postgres" && dbURL.Scheme != "postgresql" {
		return fmt.Errorf("DATABASE_URL scheme must be postgres:// or postgresql://")
	}

	if dbURL.Hostname() == "" {
		return fmt.Errorf("DATABASE_URL must include a host")
	}

	dbHost := dbURL.Hostname()
	if dbHost != "localhost" && dbHost != "127.0.0.1" && dbHost != "::1" {
		sslmode := dbURL.Query().Get("sslmode")
		if sslmode == "disable" {
			return fmt.Errorf("DATABASE_URL sslmode=disable is not allowed for non-local host %q", dbHost)
		}
	}

	return nil
}

func (c *Config) validateNetwork() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil {
		return fmt.Errorf("PORT must be a valid integer: %w", err)
	}

	if port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}

	return nil
}

func (c *Config) validateCORS() error {
	for _, origin := range c.CORSOrigins {
		if origin == "*" {
			return fmt.Errorf("CORS_ORIGINS must not contain wildcard '*'")
		}
		if strings.ContainsAny(origin, "*?[]") {
			return fmt.Errorf("CORS_ORIGINS must not contain glob characters (*?[]), got %q", origin)
		}
		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("CORS_ORIGINS contains invalid origin %q (must have scheme and host)", origin)
		}
	}

	return nil
}

func (c *Config) validateSigning() error {
	switch c.SigningProvider {
	case "static":
		// Secret presence already resolved in Load (fail closed vs dev fallback).
	case "vault":
		if c.VaultToken.Value() == "" {
			return fmt.Errorf("VAULT_TOKEN is required when SIGNING_PROVIDER is vault")
		}

		if !isLocalhost(c.VaultAddr) && !strings.HasPrefix(c.VaultAddr, "https://") {
			return fmt.Errorf("VAULT_ADDR must use HTTPS for non-localhost connections")
		}
	default:
		return fmt.Errorf("SIGNING_PROVIDER must be 'static' or 'vault', got %q", c.SigningProvider)
	}

	return nil
}

// isLocalhost returns true if the given address points to a loopback address.
func isLocalhost(addr string) bool {
	u, err := url.Parse(addr)
	if err != nil {
		return false
	}
	host := u.Hostname()
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
