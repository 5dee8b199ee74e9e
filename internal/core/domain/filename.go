package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path"
	"regexp"
	"strings"
)

const (
	// DefaultHashLength is the number of hex characters of the URL digest used in filenames
	DefaultHashLength = 8
	MinHashLength     = 6
	MaxHashLength     = sha256.Size * 2

	maxBaseLength = 96
)

var fontExtensions = []string{".woff", ".woff2", ".ttf", ".otf", ".eot"}

var (
	slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)
	slugDashes  = regexp.MustCompile(`-+`)
)

// SynthesizeFilename derives the local filename for a URL.
// Format: <base>-<hash><ext>, e.g. "abc-inter-1a2b3c4d.woff2".
// The result depends only on its arguments.
func SynthesizeFilename(rawURL, contentType string, hashLength int) string {
	p := urlPath(rawURL)
	originalName := strings.ToLower(path.Base(p))

	var meaningful []string
	for _, seg := range strings.Split(strings.ToLower(p), "/") {
		if seg == "" || strings.HasPrefix(seg, ".") || len(seg) <= 1 {
			continue
		}
		meaningful = append(meaningful, seg)
	}
	// The file's own extension is carried separately
	if n := len(meaningful); n > 0 && meaningful[n-1] == originalName {
		meaningful[n-1] = strings.TrimSuffix(originalName, path.Ext(originalName))
	}

	var base string
	if isFontURL(rawURL, originalName) {
		parts := make([]string, 0, len(meaningful))
		for _, seg := range meaningful {
			if seg == "assets" || seg == "fonts" {
				continue
			}
			parts = append(parts, seg)
		}
		base = strings.Join(parts, "-")
	} else if len(meaningful) > 0 {
		base = meaningful[len(meaningful)-1]
	}

	base = GenerateSlug(base)
	if len(base) > maxBaseLength {
		base = strings.Trim(base[:maxBaseLength], "-")
	}
	if base == "" {
		base = "asset"
	}

	ext := URLExtension(rawURL)
	if ext == "" {
		ext = ExtensionForContentType(contentType)
	}

	return fmt.Sprintf("%s-%s%s", base, URLHash(rawURL, hashLength), ext)
}

// URLHash returns a hex prefix of the SHA-256 of the URL string.
// The length is clamped to [MinHashLength, MaxHashLength]; zero means DefaultHashLength.
func URLHash(rawURL string, length int) string {
	switch {
	case length == 0:
		length = DefaultHashLength
	case length < MinHashLength:
		length = MinHashLength
	case length > MaxHashLength:
		length = MaxHashLength
	}
	sum := sha256.Sum256([]byte(rawURL))
	return hex.EncodeToString(sum[:])[:length]
}

// GenerateSlug creates a filesystem-friendly slug
// Converts "Inter Display_Bold" -> "inter-display-bold"
func GenerateSlug(s string) string {
	slug := strings.ToLower(s)
	slug = slugInvalid.ReplaceAllString(slug, "-")
	slug = slugDashes.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

func isFontURL(rawURL, originalName string) bool {
	if strings.Contains(strings.ToLower(urlPath(rawURL)), "font") {
		return true
	}
	ext := path.Ext(originalName)
	for _, fe := range fontExtensions {
		if ext == fe {
			return true
		}
	}
	return false
}
