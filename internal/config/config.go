// Package config holds the configuration of the folio client and of the
// development server.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables read by LoadClientConfig and ApplyServerEnv.
const (
	EnvAPIURL        = "FOLIO_API_URL"
	EnvStateDir      = "FOLIO_STATE_DIR"
	EnvTimeout       = "FOLIO_TIMEOUT"
	EnvJWTSecret     = "FOLIO_JWT_SECRET"
	EnvAdminEmail    = "FOLIO_ADMIN_EMAIL"
	EnvAdminPassword = "FOLIO_ADMIN_PASSWORD"
)

// ConfigFileName is the client config file inside the state directory.
const ConfigFileName = "config.yaml"

// ClientConfig holds configuration for the folio CLI.
type ClientConfig struct {
	APIURL    string        `yaml:"apiUrl"`    // API base, e.g. http://localhost:8080/api
	StateDir  string        `yaml:"-"`         // Directory for state.json and config.yaml
	Timeout   time.Duration `yaml:"timeout"`   // Per-request timeout
	LogLevel  string        `yaml:"logLevel"`  // debug, info, warn, error
	LogFormat string        `yaml:"logFormat"` // text, json
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		APIURL:    "http://localhost:8080/api",
		StateDir:  defaultStateDir(),
		Timeout:   30 * time.Second,
		LogLevel:  "warn",
		LogFormat: "text",
	}
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".folio"
	}
	return filepath.Join(home, ".folio")
}

// LoadClientConfig resolves the client configuration.
// Precedence: flags (applied by the caller) > env > config file > defaults.
// stateDir overrides the default state directory when non-empty; the config
// file is looked up inside the resolved directory.
func LoadClientConfig(stateDir string) (ClientConfig, error) {
	cfg := DefaultClientConfig()
	if v := os.Getenv(EnvStateDir); v != "" {
		cfg.StateDir = v
	}
	if stateDir != "" {
		cfg.StateDir = stateDir
	}

	path := filepath.Join(cfg.StateDir, ConfigFileName)
	if err := mergeFile(&cfg, path); err != nil {
		return cfg, err
	}

	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		cfg.Timeout = d
	}
	return cfg, nil
}

// fileConfig mirrors ClientConfig with a string timeout so YAML files can
// say "timeout: 10s".
type fileConfig struct {
	APIURL    string `yaml:"apiUrl"`
	Timeout   string `yaml:"timeout"`
	LogLevel  string `yaml:"logLevel"`
	LogFormat string `yaml:"logFormat"`
}

// mergeFile overlays non-empty values from the YAML file at path.
// A missing file is not an error.
func mergeFile(cfg *ClientConfig, path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return &FileError{Path: path, Err: err}
	}
	if fc.APIURL != "" {
		cfg.APIURL = fc.APIURL
	}
	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return &FileError{Path: path, Err: fmt.Errorf("timeout: %w", err)}
		}
		cfg.Timeout = d
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	if fc.LogFormat != "" {
		cfg.LogFormat = fc.LogFormat
	}
	return nil
}

// FileError reports a malformed config file.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// ServerConfig holds configuration for the development server.
type ServerConfig struct {
	Addr          string        // Listen address (default ":8080")
	APIPrefix     string        // Mount point of the REST API (default "/api")
	LogLevel      string        // Log level: debug, info, warn, error
	LogFormat     string        // Log format: text, json
	DBPath        string        // SQLite database path (":memory:" for testing)
	UploadDir     string        // Where uploaded resumes are written
	JWTSecret     string        // HS256 signing key for admin tokens
	TokenTTL      time.Duration // Admin token lifetime
	AdminEmail    string        // Seeded admin account
	AdminPassword string
	AdminName     string
}

// DefaultServerConfig returns sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:       ":8080",
		APIPrefix:  "/api",
		LogLevel:   "info",
		LogFormat:  "text",
		TokenTTL:   24 * time.Hour,
		AdminEmail: "admin@example.com",
		AdminName:  "Site Admin",
	}
}

// ApplyServerEnv overlays the secret-bearing settings from the environment.
func ApplyServerEnv(cfg *ServerConfig) {
	if v := os.Getenv(EnvJWTSecret); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv(EnvAdminEmail); v != "" {
		cfg.AdminEmail = v
	}
	if v := os.Getenv(EnvAdminPassword); v != "" {
		cfg.AdminPassword = v
	}
}
