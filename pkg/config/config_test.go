package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig() returned nil")
	}

	if !reflect.DeepEqual(cfg.Hosts, []string{"framerusercontent.com", "framer.com"}) {
		t.Errorf("unexpected default Hosts %v", cfg.Hosts)
	}

	if cfg.PublicDir != "public" || cfg.AssetsDir != "assets" {
		t.Errorf("expected public/assets layout, got %s/%s", cfg.PublicDir, cfg.AssetsDir)
	}

	if cfg.MappingFile != "framer-asset-mappings.json" {
		t.Errorf("unexpected default MappingFile %q", cfg.MappingFile)
	}

	if cfg.ChunkSize != 8192 {
		t.Errorf("expected default ChunkSize=8192, got %d", cfg.ChunkSize)
	}

	if cfg.TimeoutSeconds != 0 {
		t.Errorf("expected no default timeout, got %d", cfg.TimeoutSeconds)
	}

	if !cfg.FollowNested {
		t.Error("expected FollowNested by default")
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	// Loading a non-existent file should return default config
	cfg, err := Load("/nonexistent/path/.fl.yaml")

	if err != nil {
		t.Fatalf("unexpected error loading non-existent file: %v", err)
	}

	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}

	if cfg.HashLength != 8 {
		t.Errorf("expected default HashLength=8, got %d", cfg.HashLength)
	}
}

func TestSave_And_Load(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, FileName)

	cfg := DefaultConfig()
	cfg.Hosts = []string{"framerusercontent.com"}
	cfg.SkipExtensions = []string{".woff2"}
	cfg.HashLength = 12
	cfg.FollowNested = false
	cfg.UserAgent = "fl-test"

	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}

	loaded, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if !reflect.DeepEqual(loaded.Hosts, cfg.Hosts) {
		t.Errorf("expected Hosts=%v, got %v", cfg.Hosts, loaded.Hosts)
	}
	if !reflect.DeepEqual(loaded.SkipExtensions, []string{".woff2"}) {
		t.Errorf("expected SkipExtensions=[.woff2], got %v", loaded.SkipExtensions)
	}
	if loaded.HashLength != 12 {
		t.Errorf("expected HashLength=12, got %d", loaded.HashLength)
	}
	if loaded.FollowNested {
		t.Error("expected FollowNested=false after reload")
	}
	if loaded.UserAgent != "fl-test" {
		t.Errorf("expected UserAgent='fl-test', got %q", loaded.UserAgent)
	}
	if !reflect.DeepEqual(loaded.Categories, DefaultCategories()) {
		t.Errorf("expected default categories, got %v", loaded.Categories)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, FileName)

	content := `
public_dir: dist
skip_extensions: [WOFF2, ttf]
url_prefix: static/
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.PublicDir != "dist" {
		t.Errorf("expected PublicDir='dist', got %q", cfg.PublicDir)
	}
	if cfg.AssetsDir != "assets" {
		t.Errorf("expected AssetsDir default, got %q", cfg.AssetsDir)
	}
	if !reflect.DeepEqual(cfg.SkipExtensions, []string{".woff2", ".ttf"}) {
		t.Errorf("expected normalized SkipExtensions, got %v", cfg.SkipExtensions)
	}
	if cfg.URLPrefix != "/static" {
		t.Errorf("expected URLPrefix='/static', got %q", cfg.URLPrefix)
	}
	if !cfg.FollowNested || !cfg.Progress {
		t.Error("expected boolean defaults to survive a partial file")
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, FileName)

	content := `
hosts: []
hash_length: -3
chunk_size: 0
timeout_seconds: -10
color_theme: neon
watch_debounce_ms: 0
`
	os.WriteFile(configPath, []byte(content), 0644)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	def := DefaultConfig()
	if !reflect.DeepEqual(cfg.Hosts, def.Hosts) {
		t.Errorf("expected default hosts, got %v", cfg.Hosts)
	}
	if cfg.HashLength != def.HashLength || cfg.ChunkSize != def.ChunkSize {
		t.Errorf("expected default hash/chunk, got %d/%d", cfg.HashLength, cfg.ChunkSize)
	}
	if cfg.TimeoutSeconds != 0 {
		t.Errorf("expected negative timeout clamped to 0, got %d", cfg.TimeoutSeconds)
	}
	if cfg.ColorTheme != "auto" {
		t.Errorf("expected invalid theme to fall back to auto, got %q", cfg.ColorTheme)
	}
	if cfg.WatchDebounceMS != def.WatchDebounceMS {
		t.Errorf("expected default debounce, got %d", cfg.WatchDebounceMS)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, FileName)

	os.WriteFile(configPath, []byte("hosts: [unterminated"), 0644)

	if _, err := Load(configPath); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}
