package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.Graphics.Width != 1280 || cfg.Graphics.Height != 720 {
		t.Errorf("default resolution: %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if !cfg.Editor.GridSnap || cfg.Editor.GridSize != 1 {
		t.Errorf("editor defaults: snap=%v size=%v", cfg.Editor.GridSnap, cfg.Editor.GridSize)
	}
	if cfg.Server.URL == "" {
		t.Error("server URL default is empty")
	}
	if cfg.MapServer.Addr == "" || cfg.MapServer.MapsDir == "" {
		t.Errorf("map server defaults: %+v", cfg.MapServer)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("log level default: %q", cfg.Logging.Level)
	}
}

func TestLoadFromFileMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
graphics:
  width: 1920
  height: 1080
editor:
  grid_snap: false
logging:
  level: debug
`)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		t.Fatal(err)
	}

	if cfg.Graphics.Width != 1920 || cfg.Graphics.Height != 1080 {
		t.Errorf("resolution: %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if cfg.Editor.GridSnap {
		t.Error("grid_snap should be overridden to false")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level: %q", cfg.Logging.Level)
	}
	// Untouched sections keep their defaults.
	if cfg.Server.URL != Default().Server.URL {
		t.Errorf("server URL changed: %q", cfg.Server.URL)
	}
}

func TestLoadFromFileRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("graphics: [not a map"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := loadFromFile(Default(), path); err == nil {
		t.Error("expected a parse error")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Graphics.Fullscreen = true
	cfg.MapServer.Addr = ":9999"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatal(err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatal(err)
	}
	if !loaded.Graphics.Fullscreen {
		t.Error("fullscreen lost in round trip")
	}
	if loaded.MapServer.Addr != ":9999" {
		t.Errorf("addr: %q", loaded.MapServer.Addr)
	}
}
