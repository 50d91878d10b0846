package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != defaultAPIURL {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, defaultAPIURL)
	}
	if cfg.SessionBackend != "file" {
		t.Fatalf("SessionBackend = %q, want file", cfg.SessionBackend)
	}
	wantSession, err := expandPath(defaultDataDir + "/session.toml")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	if cfg.SessionPath != wantSession {
		t.Fatalf("SessionPath = %q, want %q", cfg.SessionPath, wantSession)
	}
	if !strings.HasPrefix(cfg.LogPath, home) || !strings.HasSuffix(cfg.LogPath, "coursedeck.log") {
		t.Fatalf("LogPath = %q, want coursedeck.log under HOME", cfg.LogPath)
	}
	if cfg.LogLevel != "info" || cfg.RequestTimeout != 10*time.Second {
		t.Fatalf("LogLevel = %q RequestTimeout = %v", cfg.LogLevel, cfg.RequestTimeout)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeConfig(t, `
api_url = "  https://courses.example.com  "
session_backend = " SQLite "
session_path = "  ~/.coursedeck/state.db  "
log_path = "-"
log_level = "DEBUG"
request_timeout_seconds = 3
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "https://courses.example.com" {
		t.Fatalf("APIURL = %q", cfg.APIURL)
	}
	if cfg.SessionBackend != "sqlite" {
		t.Fatalf("SessionBackend = %q, want sqlite", cfg.SessionBackend)
	}
	if cfg.SessionPath != filepath.Join(home, ".coursedeck/state.db") {
		t.Fatalf("SessionPath = %q, want it under HOME %q", cfg.SessionPath, home)
	}
	if cfg.LogPath != LogStderr || cfg.LogLevel != "debug" || cfg.RequestTimeout != 3*time.Second {
		t.Fatalf("cfg = %#v", cfg)
	}
}

func TestLoad_SQLiteDefaultPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := Load(writeConfig(t, `session_backend = "sqlite"`))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if filepath.Base(cfg.SessionPath) != "session.db" {
		t.Fatalf("SessionPath = %q, want session.db", cfg.SessionPath)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(writeConfig(t, `
api_url = "   "
session_backend = ""
log_level = ""
request_timeout_seconds = 0
`))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != defaultAPIURL || cfg.SessionBackend != "file" || cfg.LogLevel != "info" {
		t.Fatalf("cfg = %#v, want defaults", cfg)
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Fatalf("RequestTimeout = %v", cfg.RequestTimeout)
	}
}

func TestLoad_EmptyLogPathDisablesLogging(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := Load(writeConfig(t, `log_path = ""`))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LogPath != "" {
		t.Fatalf("LogPath = %q, want empty", cfg.LogPath)
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("COURSEDECK_API_URL", "http://api.internal:8080")
	t.Setenv("COURSEDECK_SESSION_BACKEND", "memory")
	t.Setenv("COURSEDECK_REQUEST_TIMEOUT_SECONDS", "25")

	cfg, err := Load(writeConfig(t, `
api_url = "http://from-file:3000"
session_backend = "file"
log_level = "warn"
`))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "http://api.internal:8080" {
		t.Fatalf("APIURL = %q, want env override", cfg.APIURL)
	}
	if cfg.SessionBackend != "memory" || cfg.SessionPath != "" {
		t.Fatalf("SessionBackend = %q SessionPath = %q", cfg.SessionBackend, cfg.SessionPath)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("LogLevel = %q, want file value kept", cfg.LogLevel)
	}
	if cfg.RequestTimeout != 25*time.Second {
		t.Fatalf("RequestTimeout = %v", cfg.RequestTimeout)
	}
}

func TestLoad_RejectsUnknownValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	for _, body := range []string{`session_backend = "redis"`, `log_level = "loud"`} {
		if _, err := Load(writeConfig(t, body)); err == nil || !strings.Contains(err.Error(), "invalid config") {
			t.Fatalf("Load(%s) error = %v, want invalid config", body, err)
		}
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	_, err := Load(writeConfig(t, `api_url = [`))
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
