package workspace

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/kamal-hamza/fl-cli/internal/core/domain"
	"github.com/kamal-hamza/fl-cli/pkg/config"
)

// ErrLocked is returned when another run holds the workspace lock
var ErrLocked = errors.New("another fl run is already using this workspace")

const lockFileName = ".fl.lock"

// Workspace represents the directory layout of a site being localized
type Workspace struct {
	RootPath    string // Site sources
	PublicPath  string // Served directory (root of site-relative URLs)
	AssetsPath  string // Downloaded assets, one sub-directory per category
	MappingPath string // URL -> local path table
	ConfigPath  string
	URLPrefix   string // Site path that AssetsPath is served under

	lock *flock.Flock
}

// New creates a Workspace for root using the layout from cfg
func New(root string, cfg *config.Config) (*Workspace, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", root, err)
	}

	publicPath := filepath.Join(absRoot, cfg.PublicDir)
	assetsPath := filepath.Join(publicPath, cfg.AssetsDir)

	return &Workspace{
		RootPath:    absRoot,
		PublicPath:  publicPath,
		AssetsPath:  assetsPath,
		MappingPath: filepath.Join(assetsPath, cfg.MappingFile),
		ConfigPath:  filepath.Join(absRoot, config.FileName),
		URLPrefix:   cfg.URLPrefix,
	}, nil
}

// Initialize creates the category directory structure if it doesn't exist
func (w *Workspace) Initialize() error {
	directories := []string{w.AssetsPath}
	for _, c := range domain.AllCategories {
		directories = append(directories, w.CategoryPath(c))
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// Exists checks if the site root exists
func (w *Workspace) Exists() bool {
	info, err := os.Stat(w.RootPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// CategoryPath returns the directory holding assets of a category
func (w *Workspace) CategoryPath(c domain.Category) string {
	return filepath.Join(w.AssetsPath, string(c))
}

// GetAssetPath returns the full disk path for an asset file
func (w *Workspace) GetAssetPath(c domain.Category, filename string) string {
	return filepath.Join(w.CategoryPath(c), filename)
}

// SitePath returns the path written into sources for an asset file,
// e.g. "/assets/fonts/inter-1a2b3c4d.woff2"
func (w *Workspace) SitePath(c domain.Category, filename string) string {
	return path.Join(w.URLPrefix, string(c), filename)
}

// DiskPath resolves a site path produced by SitePath back to a file on disk
func (w *Workspace) DiskPath(sitePath string) string {
	rel, err := filepath.Rel(filepath.FromSlash(w.URLPrefix), filepath.FromSlash(sitePath))
	if err != nil {
		return filepath.Join(w.PublicPath, filepath.FromSlash(sitePath))
	}
	return filepath.Join(w.AssetsPath, rel)
}

// LockPath returns the path of the run lock file
func (w *Workspace) LockPath() string {
	return filepath.Join(w.AssetsPath, lockFileName)
}

// Lock acquires the workspace lock so two runs never rewrite the same tree
func (w *Workspace) Lock() error {
	if err := os.MkdirAll(w.AssetsPath, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", w.AssetsPath, err)
	}
	if w.lock == nil {
		w.lock = flock.New(w.LockPath())
	}

	ok, err := w.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return ErrLocked
	}
	return nil
}

// Unlock releases the workspace lock
func (w *Workspace) Unlock() error {
	if w.lock == nil {
		return nil
	}
	return w.lock.Unlock()
}

// Clean removes all downloaded assets and the mapping file
func (w *Workspace) Clean() error {
	for _, c := range domain.AllCategories {
		if err := os.RemoveAll(w.CategoryPath(c)); err != nil {
			return fmt.Errorf("failed to remove %s: %w", w.CategoryPath(c), err)
		}
	}
	if err := os.Remove(w.MappingPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", w.MappingPath, err)
	}
	return nil
}
