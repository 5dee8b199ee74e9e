package services

import "testing"

func TestRewrite(t *testing.T) {
	tests := []struct {
		name          string
		content       string
		replacements  map[string]string
		expected      string
		expectedCount int
	}{
		{
			name:          "single url",
			content:       `<img src="https://framerusercontent.com/images/a.png">`,
			replacements:  map[string]string{"https://framerusercontent.com/images/a.png": "/assets/images/a-1.png"},
			expected:      `<img src="/assets/images/a-1.png">`,
			expectedCount: 1,
		},
		{
			name:          "every occurrence",
			content:       `a https://framer.com/x.js b https://framer.com/x.js`,
			replacements:  map[string]string{"https://framer.com/x.js": "/assets/scripts/x-1.js"},
			expected:      `a /assets/scripts/x-1.js b /assets/scripts/x-1.js`,
			expectedCount: 1,
		},
		{
			name:    "prefix url does not break longer url",
			content: `https://framer.com/a.png https://framer.com/a.png?x=1`,
			replacements: map[string]string{
				"https://framer.com/a.png":     "/assets/images/a-1.png",
				"https://framer.com/a.png?x=1": "/assets/images/a-2.png",
			},
			expected:      `/assets/images/a-1.png /assets/images/a-2.png`,
			expectedCount: 2,
		},
		{
			name:          "no match leaves content unchanged",
			content:       `nothing to see`,
			replacements:  map[string]string{"https://framer.com/a.png": "/assets/images/a-1.png"},
			expected:      `nothing to see`,
			expectedCount: 0,
		},
		{
			name:          "empty table",
			content:       `https://framer.com/a.png`,
			replacements:  nil,
			expected:      `https://framer.com/a.png`,
			expectedCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, count := Rewrite(tt.content, tt.replacements)
			if got != tt.expected {
				t.Errorf("Rewrite() content = %q, want %q", got, tt.expected)
			}
			if count != tt.expectedCount {
				t.Errorf("Rewrite() count = %d, want %d", count, tt.expectedCount)
			}
		})
	}
}
