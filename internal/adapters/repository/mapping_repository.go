package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/kamal-hamza/fl-cli/internal/core/domain"
	"github.com/kamal-hamza/fl-cli/pkg/workspace"
)

// FileMappingRepository keeps the URL -> local path table and persists it
// as a flat JSON object
type FileMappingRepository struct {
	workspace   *workspace.Workspace
	mappingPath string
	mu          sync.RWMutex
	cache       map[string]domain.AssetRecord
}

func NewFileMappingRepository(w *workspace.Workspace) *FileMappingRepository {
	return &FileMappingRepository{
		workspace:   w,
		mappingPath: w.MappingPath,
		cache:       make(map[string]domain.AssetRecord),
	}
}

// Load reads the mapping file from disk, replacing the in-memory table
func (r *FileMappingRepository) Load(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.mappingPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var table map[string]string
	if err := json.Unmarshal(data, &table); err != nil {
		return fmt.Errorf("failed to parse %s: %w", filepath.Base(r.mappingPath), err)
	}

	r.cache = make(map[string]domain.AssetRecord, len(table))
	for rawURL, localPath := range table {
		r.cache[rawURL] = domain.AssetRecord{
			URL:       rawURL,
			LocalPath: localPath,
			FilePath:  r.workspace.DiskPath(localPath),
			Category:  domain.CategoryFromLocalPath(localPath),
		}
	}
	return nil
}

// Save records an asset; nothing is written until Flush
func (r *FileMappingRepository) Save(ctx context.Context, record domain.AssetRecord) error {
	if record.URL == "" {
		return fmt.Errorf("mapping record has no URL")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache[record.URL] = record
	return nil
}

// Flush writes the table to disk, overwriting any previous mapping file
func (r *FileMappingRepository) Flush(ctx context.Context) error {
	r.mu.RLock()
	table := make(map[string]string, len(r.cache))
	for rawURL, rec := range r.cache {
		table[rawURL] = rec.LocalPath
	}
	r.mu.RUnlock()

	// Keys stay sorted and URLs keep their literal '&'
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(table); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(r.mappingPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(r.mappingPath, buf.Bytes(), 0644)
}

func (r *FileMappingRepository) Get(ctx context.Context, rawURL string) (*domain.AssetRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.cache[rawURL]
	if !ok {
		return nil, os.ErrNotExist
	}
	return &rec, nil
}

func (r *FileMappingRepository) List(ctx context.Context) ([]domain.AssetRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]domain.AssetRecord, 0, len(r.cache))
	for _, rec := range r.cache {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].URL < records[j].URL })
	return records, nil
}

func (r *FileMappingRepository) Search(ctx context.Context, query string) ([]domain.AssetRecord, error) {
	records, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(query)
	var matches []domain.AssetRecord
	for _, rec := range records {
		if strings.Contains(strings.ToLower(rec.URL), query) ||
			strings.Contains(strings.ToLower(rec.LocalPath), query) ||
			strings.Contains(string(rec.Category), query) {
			matches = append(matches, rec)
		}
	}
	return matches, nil
}
