package domain

import "testing"

func TestClassifier_Classify(t *testing.T) {
	c := NewClassifier(nil)

	tests := []struct {
		url         string
		contentType string
		expected    Category
	}{
		{"https://framerusercontent.com/assets/abc/font.woff2", "", CategoryFonts},
		{"https://framerusercontent.com/assets/Inter.TTF", "", CategoryFonts},
		{"https://framerusercontent.com/sites/x/app.mjs", "", CategoryScripts},
		{"https://framerusercontent.com/sites/x/chunk.js?v=1", "", CategoryScripts},
		{"https://framerusercontent.com/sites/x/styles.css", "", CategoryStyles},
		{"https://framerusercontent.com/images/favicon.ico", "", CategoryIcons},
		{"https://framerusercontent.com/images/icon-192.png", "", CategoryIcons},
		{"https://framerusercontent.com/images/hero.webp", "", CategoryImages},
		{"https://framerusercontent.com/images/abc", "image/png", CategoryImages},
		{"https://framerusercontent.com/modules/x/data.json", "", CategoryMisc},
		{"https://framerusercontent.com/unknown", "", CategoryMisc},
		{"not a url at all", "", CategoryMisc},
	}

	for _, tt := range tests {
		got := c.Classify(tt.url, tt.contentType)
		if got != tt.expected {
			t.Errorf("Classify(%q, %q) = %s, want %s", tt.url, tt.contentType, got, tt.expected)
		}
	}
}

func TestClassifier_FirstRuleWins(t *testing.T) {
	c := NewClassifier([]CategoryRule{
		{Category: CategoryImages, Keywords: []string{"logo"}},
		{Category: CategoryIcons, Extensions: []string{"SVG"}},
	})

	if got := c.Classify("https://framer.com/logo.svg", ""); got != CategoryImages {
		t.Errorf("expected first rule to win, got %s", got)
	}
	if got := c.Classify("https://framer.com/arrow.svg", ""); got != CategoryIcons {
		t.Errorf("expected normalized extension rule to match, got %s", got)
	}
}

func TestClassifier_Rules(t *testing.T) {
	c := NewClassifier([]CategoryRule{{Category: CategoryFonts, Extensions: []string{"woff2", " "}}})
	rules := c.Rules()
	if len(rules) != 1 || len(rules[0].Extensions) != 1 || rules[0].Extensions[0] != ".woff2" {
		t.Errorf("unexpected normalized rules: %+v", rules)
	}

	rules[0].Category = CategoryMisc
	if c.Rules()[0].Category != CategoryFonts {
		t.Error("Rules() should return a copy")
	}
}

func TestURLExtension(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"https://framerusercontent.com/a/b.WOFF2", ".woff2"},
		{"https://framerusercontent.com/a/b.png?x=1#frag", ".png"},
		{"https://framerusercontent.com/a/b", ""},
		{"https://framerusercontent.com/a/b.", ""},
		{"https://framerusercontent.com/a/b.not-an-ext", ""},
	}

	for _, tt := range tests {
		if got := URLExtension(tt.url); got != tt.expected {
			t.Errorf("URLExtension(%q) = %q, want %q", tt.url, got, tt.expected)
		}
	}
}

func TestExtensionForContentType(t *testing.T) {
	tests := []struct {
		contentType string
		expected    string
	}{
		{"image/png", ".png"},
		{"font/woff2", ".woff2"},
		{"text/css; charset=utf-8", ".css"},
		{"", ""},
		{"application/x-unknown-thing", ""},
		{"application/pdf", ".pdf"},
		{"IMAGE/WEBP", ".webp"},
		// Only the built-in table is consulted, never the host mime database
		{"application/zip", ""},
		{"text/plain; charset=utf-8", ""},
	}

	for _, tt := range tests {
		if got := ExtensionForContentType(tt.contentType); got != tt.expected {
			t.Errorf("ExtensionForContentType(%q) = %q, want %q", tt.contentType, got, tt.expected)
		}
	}
}

func TestCategoryFromLocalPath(t *testing.T) {
	tests := []struct {
		path     string
		expected Category
	}{
		{"/assets/fonts/inter-1a2b3c4d.woff2", CategoryFonts},
		{"/assets/images/hero.png", CategoryImages},
		{"/assets/other/x.bin", CategoryMisc},
	}

	for _, tt := range tests {
		if got := CategoryFromLocalPath(tt.path); got != tt.expected {
			t.Errorf("CategoryFromLocalPath(%q) = %s, want %s", tt.path, got, tt.expected)
		}
	}

	rec := AssetRecord{LocalPath: "/assets/fonts/inter-1a2b3c4d.woff2"}
	if rec.Filename() != "inter-1a2b3c4d.woff2" {
		t.Errorf("unexpected Filename() %q", rec.Filename())
	}
}
