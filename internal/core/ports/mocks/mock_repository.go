package mocks

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/kamal-hamza/fl-cli/internal/core/domain"
	"github.com/kamal-hamza/fl-cli/internal/core/ports"
)

// --- MockFetcher ---

// MockResponse is a canned response served by MockFetcher
type MockResponse struct {
	Body        []byte
	ContentType string
	Err         error
}

// MockFetcher is a mock implementation of the Fetcher interface for testing
type MockFetcher struct {
	mu        sync.Mutex
	responses map[string]MockResponse
	calls     []string
}

// NewMockFetcher creates a new mock fetcher
func NewMockFetcher() *MockFetcher {
	return &MockFetcher{
		responses: make(map[string]MockResponse),
	}
}

// SetResponse registers the response for a URL
func (m *MockFetcher) SetResponse(rawURL string, body []byte, contentType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[rawURL] = MockResponse{Body: body, ContentType: contentType}
}

// SetError makes fetches of a URL fail
func (m *MockFetcher) SetError(rawURL string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[rawURL] = MockResponse{Err: err}
}

// Fetch returns the registered response, or an error for unknown URLs
func (m *MockFetcher) Fetch(ctx context.Context, rawURL string) (*ports.FetchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, rawURL)

	resp, ok := m.responses[rawURL]
	if !ok {
		return nil, fmt.Errorf("unexpected status 404 Not Found for %s", rawURL)
	}
	if resp.Err != nil {
		return nil, resp.Err
	}
	return &ports.FetchResult{
		Body:          io.NopCloser(bytes.NewReader(resp.Body)),
		ContentType:   resp.ContentType,
		ContentLength: int64(len(resp.Body)),
	}, nil
}

// GetCalls returns every URL fetched so far
func (m *MockFetcher) GetCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]string, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// CallCount returns how often a URL was fetched
func (m *MockFetcher) CallCount(rawURL string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == rawURL {
			n++
		}
	}
	return n
}

// --- MockMappingRepository ---

// MockMappingRepository is an in-memory MappingRepository
type MockMappingRepository struct {
	mu      sync.Mutex
	records map[string]domain.AssetRecord
	flushes int
}

// NewMockMappingRepository creates a new mock mapping repository
func NewMockMappingRepository() *MockMappingRepository {
	return &MockMappingRepository{
		records: make(map[string]domain.AssetRecord),
	}
}

func (m *MockMappingRepository) Load(ctx context.Context) error {
	return nil
}

func (m *MockMappingRepository) Save(ctx context.Context, record domain.AssetRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.URL] = record
	return nil
}

func (m *MockMappingRepository) Get(ctx context.Context, rawURL string) (*domain.AssetRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[rawURL]
	if !ok {
		return nil, fmt.Errorf("mapping not found")
	}
	return &rec, nil
}

func (m *MockMappingRepository) List(ctx context.Context) ([]domain.AssetRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.AssetRecord, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].URL < out[j].URL })
	return out, nil
}

func (m *MockMappingRepository) Search(ctx context.Context, query string) ([]domain.AssetRecord, error) {
	all, _ := m.List(ctx)
	query = strings.ToLower(query)
	var results []domain.AssetRecord
	for _, r := range all {
		if query == "" || strings.Contains(strings.ToLower(r.URL), query) || strings.Contains(strings.ToLower(r.LocalPath), query) {
			results = append(results, r)
		}
	}
	return results, nil
}

func (m *MockMappingRepository) Flush(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flushes++
	return nil
}

// Flushes returns how many times Flush was called
func (m *MockMappingRepository) Flushes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flushes
}

// --- MockReporter ---

// MockReporter records every event it receives
type MockReporter struct {
	mu        sync.Mutex
	Processed []string
	Downloads []domain.AssetRecord
	Skips     []string
	Failures  []string
	Rewrites  map[string]int
}

// NewMockReporter creates a new mock reporter
func NewMockReporter() *MockReporter {
	return &MockReporter{Rewrites: make(map[string]int)}
}

func (m *MockReporter) Processing(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Processed = append(m.Processed, path)
}

func (m *MockReporter) Downloaded(record domain.AssetRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Downloads = append(m.Downloads, record)
}

func (m *MockReporter) Skipped(rawURL string, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Skips = append(m.Skips, rawURL)
}

func (m *MockReporter) Failed(subject string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Failures = append(m.Failures, subject)
}

func (m *MockReporter) Rewritten(path string, replacements int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Rewrites[path] = replacements
}
