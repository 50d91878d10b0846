package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	p := Load("")
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
	if p.LastPage != "" {
		t.Fatalf("LastPage = %q, want empty", p.LastPage)
	}
}

func TestLoad_ReadsDefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	prefsDir := filepath.Join(home, ".config", "coursedeck")
	if err := os.MkdirAll(prefsDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	content := "theme = \"Slate\"\nlast_page = \"/courses/4\"\n"
	if err := os.WriteFile(filepath.Join(prefsDir, "prefs.toml"), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p := Load("")
	if p.Theme != "Slate" {
		t.Fatalf("Theme = %q, want %q", p.Theme, "Slate")
	}
	if p.LastPage != "/courses/4" {
		t.Fatalf("LastPage = %q, want %q", p.LastPage, "/courses/4")
	}
}

func TestSave_CreatesFileAndDirs(t *testing.T) {
	prefsFile := filepath.Join(t.TempDir(), "subdir", "prefs.toml")

	if err := Save(prefsFile, Prefs{Theme: "Kanagawa", LastPage: "/my-courses"}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded := Load(prefsFile)
	if loaded.Theme != "Kanagawa" || loaded.LastPage != "/my-courses" {
		t.Fatalf("loaded = %+v", loaded)
	}
	if _, err := os.Stat(prefsFile + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestUpdate_KeepsOtherFields(t *testing.T) {
	prefsFile := filepath.Join(t.TempDir(), "prefs.toml")
	if err := Save(prefsFile, Prefs{Theme: "Slate", LastPage: "/profile"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := Update(prefsFile, func(p *Prefs) { p.Theme = "Kanagawa" }); err != nil {
		t.Fatalf("Update: %v", err)
	}

	loaded := Load(prefsFile)
	if loaded.Theme != "Kanagawa" {
		t.Fatalf("Theme = %q, want Kanagawa", loaded.Theme)
	}
	if loaded.LastPage != "/profile" {
		t.Fatalf("LastPage = %q, want /profile", loaded.LastPage)
	}
}

func TestLoad_EmptyThemeFallsBackToDefault(t *testing.T) {
	prefsFile := filepath.Join(t.TempDir(), "prefs.toml")
	if err := os.WriteFile(prefsFile, []byte("theme = \"\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if p := Load(prefsFile); p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
}

func TestLoad_InvalidTOMLFallsBackToDefault(t *testing.T) {
	prefsFile := filepath.Join(t.TempDir(), "prefs.toml")
	if err := os.WriteFile(prefsFile, []byte("not valid toml {{{\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p := Load(prefsFile)
	if p.Theme != defaultTheme || p.LastPage != "" {
		t.Fatalf("p = %+v, want defaults", p)
	}
}
