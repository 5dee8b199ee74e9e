package domain

import (
	"path"
	"strings"
)

// Category is the bucket a downloaded asset is sorted into
type Category string

const (
	CategoryFonts   Category = "fonts"
	CategoryIcons   Category = "icons"
	CategoryImages  Category = "images"
	CategoryScripts Category = "scripts"
	CategoryStyles  Category = "styles"
	CategoryMisc    Category = "misc"
)

// AllCategories lists every category in directory-creation order
var AllCategories = []Category{
	CategoryFonts,
	CategoryIcons,
	CategoryImages,
	CategoryScripts,
	CategoryStyles,
	CategoryMisc,
}

// ParseCategory maps a name onto a known category ("misc" when unknown)
func ParseCategory(name string) Category {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, c := range AllCategories {
		if string(c) == name {
			return c
		}
	}
	return CategoryMisc
}

// AssetRecord is the result of localizing one remote URL
type AssetRecord struct {
	URL         string   `json:"url"`        // Original remote URL (unique key)
	LocalPath   string   `json:"local_path"` // Site-relative path written into sources (e.g. /assets/fonts/x.woff2)
	FilePath    string   `json:"-"`          // Absolute path on disk
	Category    Category `json:"category"`
	ContentType string   `json:"content_type,omitempty"`
	Bytes       int64    `json:"bytes,omitempty"`
}

// Filename returns the base name of the local file
func (r AssetRecord) Filename() string {
	return path.Base(r.LocalPath)
}

// CategoryFromLocalPath recovers the category from a site path such as
// "/assets/fonts/inter-1a2b3c4d.woff2". The category is the parent directory.
func CategoryFromLocalPath(localPath string) Category {
	dir := path.Base(path.Dir(localPath))
	return ParseCategory(dir)
}
