package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to every variable name read by Load.
const EnvPrefix = "REPORTGEN"

const (
	BackendSQLite  = "sqlite"
	BackendKeyring = "keyring"
)

// Config holds process-level options. User-editable settings (credential, model)
// live in the settings store, not here.
type Config struct {
	Env             string        `envconfig:"ENV" default:"development"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	DBPath          string        `envconfig:"DB_PATH"`
	SettingsBackend string        `envconfig:"SETTINGS_BACKEND" default:"sqlite"`
	KeyringDir      string        `envconfig:"KEYRING_DIR"`
	KeyringPassword string        `envconfig:"KEYRING_PASSWORD"`
	APIBaseURL      string        `envconfig:"API_BASE_URL" default:"https://openrouter.ai/api/v1"`
	AppOrigin       string        `envconfig:"APP_ORIGIN" default:"https://ai-report-generator.local"`
	AppTitle        string        `envconfig:"APP_TITLE" default:"AI Report Generator"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"0s"`
}

// Load reads an optional .env file from the working directory (or the nearest
// parent holding go.mod) and then decodes REPORTGEN_* variables.
func Load() (*Config, error) {
	if err := LoadEnv(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("config: process env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	c.SettingsBackend = strings.ToLower(strings.TrimSpace(c.SettingsBackend))
	switch c.SettingsBackend {
	case BackendSQLite, BackendKeyring:
	default:
		return fmt.Errorf("config: settings backend must be %q or %q, got %q", BackendSQLite, BackendKeyring, c.SettingsBackend)
	}
	c.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.APIBaseURL), "/")
	if c.APIBaseURL == "" {
		return errors.New("config: api base url is required")
	}
	if c.RequestTimeout < 0 {
		return errors.New("config: request timeout must not be negative")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// LoadEnv loads .env when one exists; a missing file is not an error.
func LoadEnv() error {
	candidates := []string{".env"}
	if root, err := FindProjectRoot(); err == nil {
		candidates = append(candidates, filepath.Join(root, ".env"))
	}
	for _, path := range candidates {
		err := godotenv.Load(path)
		if err == nil {
			return nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config: load %s: %w", path, err)
		}
	}
	return nil
}

func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}
