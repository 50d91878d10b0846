package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/coursedeck/internal/storage"
)

// Config holds coursedeck's settings after file, environment and defaults
// have been merged.
type Config struct {
	APIURL         string
	SessionBackend string `validate:"oneof=file sqlite memory"`
	SessionPath    string
	LogPath        string
	LogLevel       string `validate:"oneof=trace debug info warn error fatal panic disabled"`
	RequestTimeout time.Duration
}

// EnvPrefix prefixes every environment override, e.g. COURSEDECK_API_URL.
const EnvPrefix = "COURSEDECK"

// LogStderr as log_path sends logs to stderr.
const LogStderr = "-"

const (
	defaultConfigPath     = "~/.config/coursedeck/config.toml"
	defaultDataDir        = "~/.local/share/coursedeck"
	defaultAPIURL         = "http://localhost:3000"
	defaultLogLevel       = "info"
	defaultTimeoutSeconds = 10
)

// raw mirrors the file; pointer fields distinguish "unset" from "empty".
type raw struct {
	APIURL         string  `toml:"api_url" envconfig:"API_URL"`
	SessionBackend string  `toml:"session_backend" envconfig:"SESSION_BACKEND"`
	SessionPath    string  `toml:"session_path" envconfig:"SESSION_PATH"`
	LogPath        *string `toml:"log_path" envconfig:"LOG_PATH"`
	LogLevel       string  `toml:"log_level" envconfig:"LOG_LEVEL"`
	TimeoutSeconds int     `toml:"request_timeout_seconds" envconfig:"REQUEST_TIMEOUT_SECONDS"`
}

var validate = validator.New()

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return defaultConfigPath
}

// Load reads the config at path (the default location when empty), applies
// COURSEDECK_* environment overrides and fills in defaults. A missing file
// is not an error.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	var r raw
	file, err := os.Open(resolved)
	switch {
	case err == nil:
		defer file.Close()
		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(bytes, &r); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("open config: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, &r); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}

	cfg := Config{
		APIURL:         strings.TrimSpace(r.APIURL),
		SessionBackend: strings.ToLower(strings.TrimSpace(r.SessionBackend)),
		SessionPath:    strings.TrimSpace(r.SessionPath),
		LogLevel:       strings.ToLower(strings.TrimSpace(r.LogLevel)),
	}
	if cfg.APIURL == "" {
		cfg.APIURL = defaultAPIURL
	}
	if cfg.SessionBackend == "" {
		cfg.SessionBackend = storage.BackendFile
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}

	switch {
	case cfg.SessionBackend == storage.BackendMemory:
		cfg.SessionPath = ""
	case cfg.SessionPath == "":
		cfg.SessionPath = mustExpand(filepath.Join(defaultDataDir, defaultSessionFile(cfg.SessionBackend)))
	case cfg.SessionPath != ":memory:":
		cfg.SessionPath = mustExpand(cfg.SessionPath)
	}

	switch {
	case r.LogPath == nil:
		cfg.LogPath = mustExpand(filepath.Join(defaultDataDir, "coursedeck.log"))
	case strings.TrimSpace(*r.LogPath) == "" || strings.TrimSpace(*r.LogPath) == LogStderr:
		cfg.LogPath = strings.TrimSpace(*r.LogPath)
	default:
		cfg.LogPath = mustExpand(*r.LogPath)
	}

	seconds := r.TimeoutSeconds
	if seconds <= 0 {
		seconds = defaultTimeoutSeconds
	}
	cfg.RequestTimeout = time.Duration(seconds) * time.Second

	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func defaultSessionFile(backend string) string {
	if backend == storage.BackendSQLite {
		return "session.db"
	}
	return "session.toml"
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
