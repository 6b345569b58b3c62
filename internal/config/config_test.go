package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Storage != StorageSQLite {
		t.Fatalf("expected sqlite storage, got %q", cfg.Storage)
	}
	if cfg.WebPort != 8080 {
		t.Fatalf("expected port 8080, got %d", cfg.WebPort)
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	want := Config{DBPath: "/tmp/todo.db", Storage: StorageFile, DataDir: "/tmp/data", WebEnabled: true, WebPort: 9090}

	if err := Save(path, want); err != nil {
		t.Fatalf("save config: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestLoadRejectsUnknownStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"storage":"cloud"}`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected unknown storage to be rejected")
	}
}

func TestApplyDefaultsUsesConfigDir(t *testing.T) {
	cfg := Config{Storage: " FILE "}
	cfg.ApplyDefaults("/home/me/.config/lazytodo/config.json")

	if cfg.Storage != StorageFile {
		t.Fatalf("expected normalized storage, got %q", cfg.Storage)
	}
	if cfg.DBPath != filepath.Join("/home/me/.config/lazytodo", "lazytodo.db") {
		t.Fatalf("unexpected db path %q", cfg.DBPath)
	}
	if cfg.DataDir != filepath.Join("/home/me/.config/lazytodo", "data") {
		t.Fatalf("unexpected data dir %q", cfg.DataDir)
	}
	if cfg.LogPath != filepath.Join("/home/me/.config/lazytodo", "lazytodo.log") {
		t.Fatalf("unexpected log path %q", cfg.LogPath)
	}
}
