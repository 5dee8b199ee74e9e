package domain

import (
	"mime"
	"net/url"
	"path"
	"strings"
)

// CategoryRule assigns a category to URLs carrying one of the extensions
// or containing one of the keywords in their path
type CategoryRule struct {
	Category   Category
	Extensions []string
	Keywords   []string
}

// DefaultRules is the built-in rule table. Order matters: the first matching rule wins.
func DefaultRules() []CategoryRule {
	return []CategoryRule{
		{Category: CategoryFonts, Extensions: []string{".woff", ".woff2", ".ttf", ".otf", ".eot"}},
		{Category: CategoryScripts, Extensions: []string{".js", ".mjs"}},
		{Category: CategoryStyles, Extensions: []string{".css"}},
		{Category: CategoryIcons, Extensions: []string{".ico"}, Keywords: []string{"icon"}},
		{Category: CategoryImages, Extensions: []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg", ".avif"}},
	}
}

// Classifier maps URLs onto categories using an ordered rule table
type Classifier struct {
	rules []CategoryRule
}

// NewClassifier normalizes the given rules. An empty table falls back to DefaultRules.
func NewClassifier(rules []CategoryRule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules()
	}

	normalized := make([]CategoryRule, 0, len(rules))
	for _, r := range rules {
		n := CategoryRule{Category: r.Category}
		for _, ext := range r.Extensions {
			ext = strings.ToLower(strings.TrimSpace(ext))
			if ext == "" {
				continue
			}
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			n.Extensions = append(n.Extensions, ext)
		}
		for _, kw := range r.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				n.Keywords = append(n.Keywords, kw)
			}
		}
		normalized = append(normalized, n)
	}

	return &Classifier{rules: normalized}
}

// Rules returns a copy of the normalized rule table
func (c *Classifier) Rules() []CategoryRule {
	out := make([]CategoryRule, len(c.rules))
	copy(out, c.rules)
	return out
}

// Classify returns the category for a URL. It never fails: anything
// unmatched lands in CategoryMisc.
func (c *Classifier) Classify(rawURL, contentType string) Category {
	ext := URLExtension(rawURL)
	if ext == "" {
		ext = ExtensionForContentType(contentType)
	}
	keywordTarget := strings.ToLower(urlPath(rawURL))

	for _, rule := range c.rules {
		for _, e := range rule.Extensions {
			if e == ext {
				return rule.Category
			}
		}
		for _, kw := range rule.Keywords {
			if strings.Contains(keywordTarget, kw) {
				return rule.Category
			}
		}
	}

	return CategoryMisc
}

// URLExtension returns the lower-cased extension of the URL path,
// or "" when the last segment has none
func URLExtension(rawURL string) string {
	ext := strings.ToLower(path.Ext(urlPath(rawURL)))
	if len(ext) < 2 || len(ext) > 10 {
		return ""
	}
	for _, r := range ext[1:] {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9') {
			return ""
		}
	}
	return ext
}

var contentTypeExtensions = map[string]string{
	"image/png":                     ".png",
	"image/jpeg":                    ".jpg",
	"image/gif":                     ".gif",
	"image/webp":                    ".webp",
	"image/avif":                    ".avif",
	"image/svg+xml":                 ".svg",
	"image/x-icon":                  ".ico",
	"image/vnd.microsoft.icon":      ".ico",
	"font/woff":                     ".woff",
	"font/woff2":                    ".woff2",
	"font/ttf":                      ".ttf",
	"font/otf":                      ".otf",
	"application/font-woff":         ".woff",
	"application/font-woff2":        ".woff2",
	"application/vnd.ms-fontobject": ".eot",
	"text/css":                      ".css",
	"text/javascript":               ".js",
	"application/javascript":        ".js",
	"application/json":              ".json",
	"text/html":                     ".html",
	"video/mp4":                     ".mp4",
	"video/webm":                    ".webm",
	"audio/mpeg":                    ".mp3",
	"application/pdf":               ".pdf",
}

// ExtensionForContentType infers a file extension from a Content-Type header value
func ExtensionForContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	}
	return contentTypeExtensions[mediaType]
}

// urlPath returns the decoded path component, falling back to the raw string
func urlPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Path
}
