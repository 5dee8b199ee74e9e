package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kamal-hamza/fl-cli/internal/core/domain"
	"github.com/kamal-hamza/fl-cli/internal/core/ports"
	"github.com/kamal-hamza/fl-cli/pkg/workspace"
)

var (
	// ErrSkipped marks an asset that is intentionally not downloaded
	ErrSkipped = errors.New("asset skipped")

	// ErrAlreadyFailed marks a URL whose download already failed in this run
	ErrAlreadyFailed = errors.New("download already failed in this run")
)

const defaultChunkSize = 8192

// DownloadOptions tunes the downloader
type DownloadOptions struct {
	HashLength     int
	ChunkSize      int
	SkipExtensions []string
}

// DownloadService fetches remote assets into the workspace.
// It owns the processed-URL set for the lifetime of a run.
type DownloadService struct {
	fetcher    ports.Fetcher
	repo       ports.MappingRepository
	workspace  *workspace.Workspace
	classifier *domain.Classifier
	reporter   ports.Reporter
	opts       DownloadOptions
	progress   ports.ProgressFunc

	processed map[string]domain.AssetRecord
	failed    map[string]error
	skipped   map[string]error // skipped after the fetch, by content type
	pending   []domain.AssetRecord // downloaded but not yet handed out by TakeNew
	bytes     int64
}

// NewDownloadService creates a new download service
func NewDownloadService(
	fetcher ports.Fetcher,
	repo ports.MappingRepository,
	ws *workspace.Workspace,
	classifier *domain.Classifier,
	reporter ports.Reporter,
	opts DownloadOptions,
) *DownloadService {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = defaultChunkSize
	}
	if classifier == nil {
		classifier = domain.NewClassifier(nil)
	}

	return &DownloadService{
		fetcher:    fetcher,
		repo:       repo,
		workspace:  ws,
		classifier: classifier,
		reporter:   reporter,
		opts:       opts,
		processed:  make(map[string]domain.AssetRecord),
		failed:     make(map[string]error),
		skipped:    make(map[string]error),
	}
}

// WithProgress attaches a progress display to every download
func (s *DownloadService) WithProgress(fn ports.ProgressFunc) *DownloadService {
	s.progress = fn
	return s
}

// Download localizes rawURL and returns its record.
// A URL already processed in this run is answered without a network call.
func (s *DownloadService) Download(ctx context.Context, rawURL string) (*domain.AssetRecord, error) {
	if rec, ok := s.processed[rawURL]; ok {
		return &rec, nil
	}
	if err, ok := s.failed[rawURL]; ok {
		return nil, fmt.Errorf("%w: %v", ErrAlreadyFailed, err)
	}
	if err, ok := s.skipped[rawURL]; ok {
		s.reporter.Skipped(rawURL, err.Error())
		return nil, err
	}

	if ext := domain.URLExtension(rawURL); ext != "" && s.isSkippedExtension(ext) {
		s.reporter.Skipped(rawURL, "extension "+ext+" is skipped")
		return nil, ErrSkipped
	}

	record, err := s.fetch(ctx, rawURL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, ErrSkipped) {
			s.skipped[rawURL] = err
			s.reporter.Skipped(rawURL, err.Error())
			return nil, err
		}
		s.failed[rawURL] = err
		s.reporter.Failed(rawURL, err)
		return nil, err
	}

	s.processed[rawURL] = *record
	s.pending = append(s.pending, *record)
	s.bytes += record.Bytes

	if err := s.repo.Save(ctx, *record); err != nil {
		s.reporter.Failed(rawURL, fmt.Errorf("failed to record mapping: %w", err))
	}
	s.reporter.Downloaded(*record)

	return record, nil
}

func (s *DownloadService) fetch(ctx context.Context, rawURL string) (*domain.AssetRecord, error) {
	res, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if domain.URLExtension(rawURL) == "" {
		if ext := domain.ExtensionForContentType(res.ContentType); ext != "" && s.isSkippedExtension(ext) {
			return nil, fmt.Errorf("%w: content type %s maps to %s", ErrSkipped, res.ContentType, ext)
		}
	}

	category := s.classifier.Classify(rawURL, res.ContentType)
	filename := domain.SynthesizeFilename(rawURL, res.ContentType, s.opts.HashLength)
	destPath := s.workspace.GetAssetPath(category, filename)

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	written, err := s.writeFile(destPath, res, filename)
	if err != nil {
		return nil, err
	}

	return &domain.AssetRecord{
		URL:         rawURL,
		LocalPath:   s.workspace.SitePath(category, filename),
		FilePath:    destPath,
		Category:    category,
		ContentType: res.ContentType,
		Bytes:       written,
	}, nil
}

// writeFile streams the body into a temporary file and renames it into place
func (s *DownloadService) writeFile(destPath string, res *ports.FetchResult, label string) (int64, error) {
	tmpPath := destPath + ".part"
	f, err := os.Create(tmpPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}

	var dst io.Writer = f
	if s.progress != nil {
		w, done := s.progress(f, res.ContentLength, label)
		dst = w
		defer done()
	}

	written, copyErr := copyChunks(dst, res.Body, s.opts.ChunkSize)
	closeErr := f.Close()
	if copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("failed to write %s: %w", filepath.Base(destPath), copyErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("failed to move %s into place: %w", filepath.Base(destPath), err)
	}

	return written, nil
}

// copyChunks copies src to dst through a fixed-size buffer
func copyChunks(dst io.Writer, src io.Reader, chunkSize int) (int64, error) {
	buf := make([]byte, chunkSize)
	var written int64
	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			w, err := dst.Write(buf[:n])
			written += int64(w)
			if err != nil {
				return written, err
			}
			if w != n {
				return written, io.ErrShortWrite
			}
		}
		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			return written, readErr
		}
	}
}

func (s *DownloadService) isSkippedExtension(ext string) bool {
	for _, skip := range s.opts.SkipExtensions {
		if skip == ext {
			return true
		}
	}
	return false
}

// IsProcessed reports whether rawURL was downloaded in this run
func (s *DownloadService) IsProcessed(rawURL string) bool {
	_, ok := s.processed[rawURL]
	return ok
}

// Downloaded returns the number of assets downloaded in this run
func (s *DownloadService) Downloaded() int {
	return len(s.processed)
}

// BytesWritten returns the total size of all downloaded assets
func (s *DownloadService) BytesWritten() int64 {
	return s.bytes
}

// TakeNew returns the records downloaded since the previous call
func (s *DownloadService) TakeNew() []domain.AssetRecord {
	out := s.pending
	s.pending = nil
	return out
}
