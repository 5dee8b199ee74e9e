package services

import (
	"sort"
	"strings"
)

// Rewrite replaces every occurrence of each remote URL with its local path.
// It returns the new content and how many distinct URLs were substituted.
// Longer URLs go first so a URL that prefixes another cannot break it.
func Rewrite(content string, replacements map[string]string) (string, int) {
	if len(replacements) == 0 {
		return content, 0
	}

	keys := make([]string, 0, len(replacements))
	for k := range replacements {
		if k != "" {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	count := 0
	for _, remote := range keys {
		if !strings.Contains(content, remote) {
			continue
		}
		content = strings.ReplaceAll(content, remote, replacements[remote])
		count++
	}

	return content, count
}
