package services

import (
	"regexp"
	"sort"
	"strings"
)

// URLExtractor finds references to the configured asset hosts inside text
type URLExtractor struct {
	hosts   []string
	pattern *regexp.Regexp
}

// NewURLExtractor builds an extractor for the given hosts.
// A match runs from the scheme up to the first whitespace, quote, backtick or ')'.
func NewURLExtractor(hosts []string) *URLExtractor {
	cleaned := make([]string, 0, len(hosts))
	for _, h := range hosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			cleaned = append(cleaned, h)
		}
	}
	// Longest first so a host never shadows a longer one sharing its prefix
	sort.Slice(cleaned, func(i, j int) bool { return len(cleaned[i]) > len(cleaned[j]) })

	quoted := make([]string, len(cleaned))
	for i, h := range cleaned {
		quoted[i] = regexp.QuoteMeta(h)
	}

	var pattern *regexp.Regexp
	if len(quoted) > 0 {
		pattern = regexp.MustCompile("https?://(?:" + strings.Join(quoted, "|") + ")/[^\"'`\\s)]+")
	}

	return &URLExtractor{hosts: cleaned, pattern: pattern}
}

// Hosts returns the hosts this extractor matches
func (e *URLExtractor) Hosts() []string {
	return e.hosts
}

// ExtractURLs returns the distinct host URLs in content, sorted
func (e *URLExtractor) ExtractURLs(content string) []string {
	if e.pattern == nil {
		return nil
	}

	matches := e.pattern.FindAllString(content, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(matches))
	urls := make([]string, 0, len(matches))
	for _, m := range matches {
		// Escaped JSON quotes and list separators are not part of the URL
		m = strings.TrimRight(m, `\,`)
		if seen[m] {
			continue
		}
		seen[m] = true
		urls = append(urls, m)
	}

	sort.Strings(urls)
	return urls
}
