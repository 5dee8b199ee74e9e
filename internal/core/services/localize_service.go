package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/net/html"

	"github.com/kamal-hamza/fl-cli/internal/core/domain"
	"github.com/kamal-hamza/fl-cli/internal/core/ports"
	"github.com/kamal-hamza/fl-cli/pkg/workspace"
)

// WalkOptions controls which files are localized
type WalkOptions struct {
	Extensions   []string // Eligible source extensions (".html", ".css", ...)
	SkipDirs     []string // Directory names never entered
	Exclude      []string // doublestar globs, relative to the root
	FollowNested bool     // Also localize downloaded text assets
}

// LocalizeService drives extraction, download and rewrite across a site
type LocalizeService struct {
	workspace  *workspace.Workspace
	extractor  *URLExtractor
	downloader *DownloadService
	repo       ports.MappingRepository
	reporter   ports.Reporter
	opts       WalkOptions
}

// NewLocalizeService creates a new localize service
func NewLocalizeService(
	ws *workspace.Workspace,
	extractor *URLExtractor,
	downloader *DownloadService,
	repo ports.MappingRepository,
	reporter ports.Reporter,
	opts WalkOptions,
) *LocalizeService {
	return &LocalizeService{
		workspace:  ws,
		extractor:  extractor,
		downloader: downloader,
		repo:       repo,
		reporter:   reporter,
		opts:       opts,
	}
}

// LocalizeRequest represents a localization run
type LocalizeRequest struct {
	// Paths limits the run to these files. Empty means walk the whole root.
	Paths []string
}

// LocalizeResponse summarizes a localization run
type LocalizeResponse struct {
	FilesScanned   int
	FilesRewritten int
	URLsFound      int
	Downloaded     int
	Skipped        int
	Failed         int
	Bytes          int64
	Duration       time.Duration
}

// Execute localizes every eligible file and then writes the mapping file
func (s *LocalizeService) Execute(ctx context.Context, req LocalizeRequest) (*LocalizeResponse, error) {
	start := time.Now()
	resp := &LocalizeResponse{}

	downloadedBefore := s.downloader.Downloaded()
	bytesBefore := s.downloader.BytesWritten()

	// Directory layout problems are the one fatal filesystem error
	if err := s.workspace.Initialize(); err != nil {
		return nil, err
	}

	if len(req.Paths) > 0 {
		for _, p := range req.Paths {
			if err := s.ProcessFile(ctx, p, resp); err != nil {
				return nil, err
			}
		}
	} else {
		if err := s.walk(ctx, resp); err != nil {
			return nil, err
		}
	}

	if s.opts.FollowNested {
		if err := s.processNested(ctx, resp); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Flush(ctx); err != nil {
		return nil, fmt.Errorf("failed to write mapping file: %w", err)
	}

	resp.Downloaded = s.downloader.Downloaded() - downloadedBefore
	resp.Bytes = s.downloader.BytesWritten() - bytesBefore
	resp.Duration = time.Since(start)
	return resp, nil
}

func (s *LocalizeService) walk(ctx context.Context, resp *LocalizeResponse) error {
	root := s.workspace.RootPath

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == root {
				return err
			}
			s.reporter.Failed(path, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != root && s.skipDir(path, d.Name()) {
				return fs.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() || !s.IsEligible(path) {
			return nil
		}

		return s.ProcessFile(ctx, path, resp)
	})
}

// processNested localizes downloaded assets that may reference the host themselves
func (s *LocalizeService) processNested(ctx context.Context, resp *LocalizeResponse) error {
	for {
		batch := s.downloader.TakeNew()
		if len(batch) == 0 {
			return nil
		}
		for _, rec := range batch {
			if !s.hasEligibleExtension(rec.FilePath) {
				continue
			}
			if err := s.ProcessFile(ctx, rec.FilePath, resp); err != nil {
				return err
			}
		}
	}
}

// ProcessFile extracts, downloads and rewrites a single file.
// Only cancellation is returned as an error; everything else is reported.
func (s *LocalizeService) ProcessFile(ctx context.Context, path string, resp *LocalizeResponse) error {
	s.reporter.Processing(path)
	resp.FilesScanned++

	data, err := os.ReadFile(path)
	if err != nil {
		s.reporter.Failed(path, err)
		return nil
	}
	content := string(data)

	literals := s.extractor.ExtractURLs(content)
	resp.URLsFound += len(literals)
	if len(literals) == 0 {
		return nil
	}

	isHTML := isHTMLFile(path)
	replacements := make(map[string]string)
	for _, literal := range literals {
		fetchURL := literal
		if isHTML {
			// Attribute values carry entities such as &amp;
			fetchURL = html.UnescapeString(literal)
		}

		record, err := s.downloader.Download(ctx, fetchURL)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if errors.Is(err, ErrSkipped) {
				resp.Skipped++
			} else {
				resp.Failed++
			}
			continue
		}
		replacements[literal] = record.LocalPath
	}

	if len(replacements) == 0 {
		return nil
	}

	updated, count := Rewrite(content, replacements)
	if count == 0 {
		return nil
	}

	perm := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(updated), perm); err != nil {
		s.reporter.Failed(path, err)
		return nil
	}

	resp.FilesRewritten++
	s.reporter.Rewritten(path, count)
	return nil
}

// IsEligible reports whether a file would be localized by a walk
func (s *LocalizeService) IsEligible(path string) bool {
	if !s.hasEligibleExtension(path) || path == s.workspace.MappingPath {
		return false
	}
	if rel, err := filepath.Rel(s.workspace.RootPath, path); err == nil && s.isExcluded(rel) {
		return false
	}
	return !s.isInsideSkippedDir(path)
}

// SkipsDir reports whether a walk would leave out the directory at path
func (s *LocalizeService) SkipsDir(path string) bool {
	if path == s.workspace.RootPath {
		return false
	}
	return s.skipDir(path, filepath.Base(path)) || s.isInsideSkippedDir(path)
}

func (s *LocalizeService) hasEligibleExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range s.opts.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

func (s *LocalizeService) skipDir(path, name string) bool {
	// Downloads are handled by the nested pass
	return s.skipUserDir(path, name) || s.isCategoryDir(path)
}

// skipUserDir applies the configured skip_dirs and exclude rules
func (s *LocalizeService) skipUserDir(path, name string) bool {
	for _, skip := range s.opts.SkipDirs {
		if name == skip {
			return true
		}
	}
	if rel, err := filepath.Rel(s.workspace.RootPath, path); err == nil && s.isExcluded(rel) {
		return true
	}
	return false
}

// isCategoryDir reports whether path is one of the generated public/assets/<category> directories
func (s *LocalizeService) isCategoryDir(path string) bool {
	for _, c := range domain.AllCategories {
		if path == s.workspace.CategoryPath(c) {
			return true
		}
	}
	return false
}

// isInsideSkippedDir checks an explicit path against the directory rules a walk applies
func (s *LocalizeService) isInsideSkippedDir(path string) bool {
	rel, err := filepath.Rel(s.workspace.RootPath, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	dir := filepath.Dir(path)
	for dir != s.workspace.RootPath && dir != "." && dir != string(filepath.Separator) {
		if s.skipDir(dir, filepath.Base(dir)) {
			return true
		}
		dir = filepath.Dir(dir)
	}
	return false
}

func (s *LocalizeService) isExcluded(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range s.opts.Exclude {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

func isHTMLFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	}
	return false
}
