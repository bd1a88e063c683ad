package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultBackendURL = "http://localhost:8000"

	SessionModeBackend = "backend"
	SessionModeJWT     = "jwt"
)

// Config holds all configuration for the web frontend
type Config struct {
	// Backend API Configuration
	Backend BackendConfig

	// HTTP Server Configuration
	Server ServerConfig

	// Session Configuration
	Session SessionConfig

	// Logging Configuration
	Logging LoggingConfig
}

// BackendConfig holds the upstream API configuration
type BackendConfig struct {
	BaseURL string        // Root address of the backend, no trailing slash
	Timeout time.Duration // Zero means no client-side timeout
}

// ServerConfig holds HTTP listener configuration
type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

// SessionConfig controls how the auth cookie is turned into a session
type SessionConfig struct {
	Mode      string // backend, jwt
	JWTSecret string
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // json, console
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	timeout := 30 * time.Second
	if raw := os.Getenv("BACKEND_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid BACKEND_TIMEOUT %q: %w", raw, err)
		}
		timeout = d
	}

	cfg := &Config{
		Backend: BackendConfig{
			BaseURL: strings.TrimRight(getEnv("PUBLIC_SERVER_URL", DefaultBackendURL), "/"),
			Timeout: timeout,
		},
		Server: ServerConfig{
			Port:           getEnv("PORT", "3000"),
			AllowedOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		},
		Session: SessionConfig{
			Mode:      strings.ToLower(getEnv("SESSION_MODE", SessionModeBackend)),
			JWTSecret: os.Getenv("SESSION_JWT_SECRET"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid backend URL %q: %w", c.Backend.BaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("backend URL must be an absolute http(s) URL, got %q", c.Backend.BaseURL)
	}
	if c.Backend.Timeout < 0 {
		return fmt.Errorf("backend timeout must not be negative")
	}

	for _, origin := range c.Server.AllowedOrigins {
		if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("CORS origin must start with http:// or https://, got %q", origin)
		}
	}

	switch c.Session.Mode {
	case SessionModeBackend:
	case SessionModeJWT:
		if c.Session.JWTSecret == "" {
			return fmt.Errorf("SESSION_JWT_SECRET is required when SESSION_MODE=jwt")
		}
	default:
		return fmt.Errorf("unknown session mode %q", c.Session.Mode)
	}

	return nil
}

// Addr returns the listen address for the HTTP server
func (s ServerConfig) Addr() string {
	return ":" + s.Port
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
