package cmd

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kamal-hamza/fl-cli/internal/core/domain"
	"github.com/kamal-hamza/fl-cli/internal/core/services"
	"github.com/kamal-hamza/fl-cli/pkg/config"
)

// TestCommandStructure verifies that all commands are properly registered
func TestCommandStructure(t *testing.T) {
	commands := []string{
		"run", "watch", "mappings", "browse", "report", "verify",
		"doctor", "clean", "config", "version",
	}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			cmd, _, err := rootCmd.Find([]string{cmdName})
			if err != nil {
				t.Fatalf("Command '%s' not found: %v", cmdName, err)
			}
			if cmd == nil {
				t.Fatalf("Command '%s' is nil", cmdName)
			}
			if cmd.Use == "" {
				t.Errorf("Command '%s' has no Use field", cmdName)
			}
		})
	}
}

// TestRootCommandExists verifies the root command is properly configured
func TestRootCommandExists(t *testing.T) {
	if rootCmd == nil {
		t.Fatal("Root command is nil")
	}

	if rootCmd.Use != "fl" {
		t.Errorf("Expected root command Use to be 'fl', got '%s'", rootCmd.Use)
	}

	if rootCmd.Short == "" {
		t.Error("Root command Short description is empty")
	}

	for _, name := range []string{"config", "quiet"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("Expected persistent flag --%s", name)
		}
	}
}

// TestCommandsHaveHelp verifies all commands have help text
func TestCommandsHaveHelp(t *testing.T) {
	commands := rootCmd.Commands()

	if len(commands) == 0 {
		t.Fatal("No commands registered")
	}

	for _, cmd := range commands {
		t.Run(cmd.Name(), func(t *testing.T) {
			if cmd.Short == "" {
				t.Errorf("Command '%s' has no Short description", cmd.Name())
			}
		})
	}
}

// TestLocalizeFlags verifies the localize flags exist on every command that runs a localization
func TestLocalizeFlags(t *testing.T) {
	for _, c := range []string{"", "run", "watch"} {
		cmd, _, err := rootCmd.Find(strings.Fields(c))
		if err != nil {
			t.Fatalf("Find(%q) failed: %v", c, err)
		}
		for _, flag := range []string{"skip-ext", "no-nested", "timeout"} {
			if cmd.Flags().Lookup(flag) == nil {
				t.Errorf("Command %q is missing --%s", cmd.Name(), flag)
			}
		}
	}
}

// TestConfigSubcommands verifies config init/show/edit are registered
func TestConfigSubcommands(t *testing.T) {
	for _, name := range []string{"init", "show", "edit"} {
		cmd, _, err := rootCmd.Find([]string{"config", name})
		if err != nil || cmd.Name() != name {
			t.Errorf("Expected 'config %s' to be registered", name)
		}
	}
}

func TestNewClassifier(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Categories = []config.CategoryRule{
		{Name: "fonts", Extensions: []string{".woff2"}},
		{Name: "images", Extensions: []string{".png"}, Keywords: []string{"hero"}},
	}
	c := newClassifier(cfg)

	tests := []struct {
		url  string
		want domain.Category
	}{
		{"https://framerusercontent.com/a/inter.woff2", domain.CategoryFonts},
		{"https://framerusercontent.com/a/logo.png", domain.CategoryImages},
		{"https://framerusercontent.com/a/hero-banner.bin", domain.CategoryImages},
		{"https://framerusercontent.com/a/app.mjs", domain.CategoryMisc},
	}

	for _, tt := range tests {
		if got := c.Classify(tt.url, ""); got != tt.want {
			t.Errorf("Classify(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestConsoleReporter_Quiet(t *testing.T) {
	var out, errOut bytes.Buffer
	r := newConsoleReporter(&out, &errOut, "/site", true)

	r.Processing("/site/public/index.html")
	r.Downloaded(domain.AssetRecord{LocalPath: "/assets/fonts/a.woff2", Bytes: 10})
	r.Skipped("https://framerusercontent.com/a.woff2", "skipped extension")
	r.Rewritten("/site/public/index.html", 2)

	if out.Len() != 0 {
		t.Errorf("Expected no output in quiet mode, got %q", out.String())
	}

	r.Failed("/site/public/app.js", errors.New("boom"))
	if !strings.Contains(errOut.String(), "public/app.js: boom") {
		t.Errorf("Expected failure with relative path, got %q", errOut.String())
	}
}

func TestConsoleReporter_Verbose(t *testing.T) {
	var out, errOut bytes.Buffer
	r := newConsoleReporter(&out, &errOut, "/site", false)

	r.Rewritten("/site/public/index.html", 1)
	r.Rewritten("/elsewhere/page.html", 3)

	got := out.String()
	if !strings.Contains(got, "public/index.html (1 URL)") {
		t.Errorf("Expected relative path and singular noun, got %q", got)
	}
	if !strings.Contains(got, "/elsewhere/page.html (3 URLs)") {
		t.Errorf("Expected absolute path outside root, got %q", got)
	}
	if errOut.Len() != 0 {
		t.Errorf("Expected no error output, got %q", errOut.String())
	}
}

// TestRunCommand localizes a small site against a local HTTP server
func TestRunCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/assets/inter.woff2" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "font/woff2")
		w.Write([]byte("wOF2"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Hosts = []string{strings.TrimPrefix(srv.URL, "http://")}
	cfg.Progress = false
	if err := cfg.Save(filepath.Join(dir, config.FileName)); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	index := filepath.Join(dir, "public", "index.html")
	if err := os.MkdirAll(filepath.Dir(index), 0755); err != nil {
		t.Fatal(err)
	}
	source := `<link rel="preload" href="` + srv.URL + `/assets/inter.woff2">`
	if err := os.WriteFile(index, []byte(source), 0644); err != nil {
		t.Fatal(err)
	}

	rootCmd.SetArgs([]string{"run", dir, "-q"})
	defer rootCmd.SetArgs(nil)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	data, err := os.ReadFile(index)
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)
	if strings.Contains(got, srv.URL) {
		t.Errorf("Expected remote URL to be replaced, got %q", got)
	}
	if !strings.Contains(got, `href="/assets/fonts/`) {
		t.Errorf("Expected local font path, got %q", got)
	}

	mapping := filepath.Join(dir, "public", "assets", "framer-asset-mappings.json")
	data, err = os.ReadFile(mapping)
	if err != nil {
		t.Fatalf("Expected mapping file: %v", err)
	}
	if !strings.Contains(string(data), srv.URL+"/assets/inter.woff2") {
		t.Errorf("Expected URL in mapping file, got %s", data)
	}
}

func TestRenderReportTable(t *testing.T) {
	resp := &services.ReportResponse{
		Categories: []services.CategoryStat{
			{Category: domain.CategoryFonts, Count: 2, Bytes: 2048, Missing: 1},
			{Category: domain.CategoryIcons},
			{Category: domain.CategoryImages, Count: 1, Bytes: 1000},
		},
		TotalCount: 3,
		TotalBytes: 3048,
	}

	out := renderReportTable(resp)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	// header, separator, fonts, images, total
	if len(lines) != 5 {
		t.Fatalf("Expected 5 lines, got %d:\n%s", len(lines), out)
	}
	if strings.Contains(out, "icons") {
		t.Errorf("Empty categories should be left out:\n%s", out)
	}
	total := strings.Fields(lines[4])
	if len(total) != 5 || total[0] != "total" || total[1] != "3" || total[4] != "1" {
		t.Errorf("Unexpected total row %q", lines[4])
	}
}
