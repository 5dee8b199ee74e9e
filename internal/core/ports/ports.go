package ports

import (
	"context"
	"io"

	"github.com/kamal-hamza/fl-cli/internal/core/domain"
)

// FetchResult is an open response body for a remote asset
type FetchResult struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64 // -1 when unknown
}

// Fetcher defines the port for retrieving remote assets
type Fetcher interface {
	// Fetch performs a GET for rawURL. Non-success statuses are returned as errors.
	Fetch(ctx context.Context, rawURL string) (*FetchResult, error)
}

// MappingRepository defines the port for the URL -> local path table
type MappingRepository interface {
	// Load reads a previously written mapping file (missing file is not an error)
	Load(ctx context.Context) error

	// Save records an asset in memory
	Save(ctx context.Context, record domain.AssetRecord) error

	// Get retrieves a record by its original URL
	Get(ctx context.Context, rawURL string) (*domain.AssetRecord, error)

	// List returns all records sorted by URL
	List(ctx context.Context) ([]domain.AssetRecord, error)

	// Search finds records whose URL or local path contains the query
	Search(ctx context.Context, query string) ([]domain.AssetRecord, error)

	// Flush writes the table to disk, replacing any previous file
	Flush(ctx context.Context) error
}

// Reporter receives progress events from the localization services
type Reporter interface {
	// Processing is called before a source file is scanned
	Processing(path string)

	// Downloaded is called after an asset has been written to disk
	Downloaded(record domain.AssetRecord)

	// Skipped is called when an asset is intentionally not downloaded
	Skipped(rawURL string, reason string)

	// Failed is called for any recoverable error; the run continues
	Failed(subject string, err error)

	// Rewritten is called after a source file was updated
	Rewritten(path string, replacements int)
}

// ProgressFunc wraps a download destination with progress reporting.
// It returns the writer to copy into and a function to finish the display.
type ProgressFunc func(dst io.Writer, total int64, label string) (io.Writer, func())
