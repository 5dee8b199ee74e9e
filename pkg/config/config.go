package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the default config file name, looked up in the site root
const FileName = ".fl.yaml"

// CategoryRule is one entry of the classification table
type CategoryRule struct {
	Name       string   `yaml:"name"`
	Extensions []string `yaml:"extensions,omitempty"`
	Keywords   []string `yaml:"keywords,omitempty"`
}

type Config struct {
	// Hosts whose URLs are localized
	Hosts []string `yaml:"hosts"`

	// Layout
	PublicDir   string `yaml:"public_dir"`
	AssetsDir   string `yaml:"assets_dir"`
	URLPrefix   string `yaml:"url_prefix"`
	MappingFile string `yaml:"mapping_file"`

	// Walker
	Extensions []string `yaml:"extensions"`
	SkipDirs   []string `yaml:"skip_dirs"`
	Exclude    []string `yaml:"exclude"`

	// Downloader
	SkipExtensions []string `yaml:"skip_extensions"`
	HashLength     int      `yaml:"hash_length"`
	ChunkSize      int      `yaml:"chunk_size"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`
	UserAgent      string   `yaml:"user_agent"`
	FollowNested   bool     `yaml:"follow_nested"`

	// Classification
	Categories []CategoryRule `yaml:"categories"`

	// UI Settings
	Progress   bool   `yaml:"progress"`
	ColorTheme string `yaml:"color_theme"`

	// Watch
	WatchDebounceMS int `yaml:"watch_debounce_ms"`
}

// DefaultCategories mirrors the built-in classification table
func DefaultCategories() []CategoryRule {
	return []CategoryRule{
		{Name: "fonts", Extensions: []string{".woff", ".woff2", ".ttf", ".otf", ".eot"}},
		{Name: "scripts", Extensions: []string{".js", ".mjs"}},
		{Name: "styles", Extensions: []string{".css"}},
		{Name: "icons", Extensions: []string{".ico"}, Keywords: []string{"icon"}},
		{Name: "images", Extensions: []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg", ".avif"}},
	}
}

// DefaultConfig returns a Config struct with default values
func DefaultConfig() *Config {
	return &Config{
		Hosts:           []string{"framerusercontent.com", "framer.com"},
		PublicDir:       "public",
		AssetsDir:       "assets",
		URLPrefix:       "/assets",
		MappingFile:     "framer-asset-mappings.json",
		Extensions:      []string{".html", ".htm", ".css", ".js", ".mjs", ".json"},
		SkipDirs:        []string{"node_modules", ".git"},
		Exclude:         []string{},
		SkipExtensions:  []string{},
		HashLength:      8,
		ChunkSize:       8192,
		TimeoutSeconds:  0,
		UserAgent:       "",
		FollowNested:    true,
		Categories:      DefaultCategories(),
		Progress:        true,
		ColorTheme:      "auto",
		WatchDebounceMS: 500,
	}
}

// Load reads configuration from the specified file path
func Load(path string) (*Config, error) {
	// Start with default config
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		// If file doesn't exist, return default config (not an error)
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults fills essential values left empty by the config file
func (c *Config) applyDefaults() {
	def := DefaultConfig()

	if len(c.Hosts) == 0 {
		c.Hosts = def.Hosts
	}
	if c.PublicDir == "" {
		c.PublicDir = def.PublicDir
	}
	if c.AssetsDir == "" {
		c.AssetsDir = def.AssetsDir
	}
	if c.URLPrefix == "" {
		c.URLPrefix = def.URLPrefix
	}
	if c.MappingFile == "" {
		c.MappingFile = def.MappingFile
	}
	if len(c.Extensions) == 0 {
		c.Extensions = def.Extensions
	}
	if c.SkipDirs == nil {
		c.SkipDirs = def.SkipDirs
	}
	if c.HashLength <= 0 {
		c.HashLength = def.HashLength
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = def.ChunkSize
	}
	if c.TimeoutSeconds < 0 {
		c.TimeoutSeconds = 0
	}
	if len(c.Categories) == 0 {
		c.Categories = def.Categories
	}
	if c.WatchDebounceMS <= 0 {
		c.WatchDebounceMS = def.WatchDebounceMS
	}
	if !isValidTheme(c.ColorTheme) {
		c.ColorTheme = def.ColorTheme
	}

	c.Extensions = NormalizeExtensions(c.Extensions)
	c.SkipExtensions = NormalizeExtensions(c.SkipExtensions)
	c.URLPrefix = "/" + strings.Trim(c.URLPrefix, "/")
}

// Save persists the current configuration to the specified file path
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// NormalizeExtensions lower-cases extensions and makes sure they start with a dot
func NormalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}

func isValidTheme(theme string) bool {
	switch theme {
	case "auto", "dark", "light":
		return true
	}
	return false
}
