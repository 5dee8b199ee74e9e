package services

import (
	"context"
	"fmt"
	"os"

	"github.com/kamal-hamza/fl-cli/internal/core/domain"
	"github.com/kamal-hamza/fl-cli/internal/core/ports"
)

// ReportService summarizes the mapping file per category
type ReportService struct {
	repo ports.MappingRepository
}

// NewReportService creates a new report service
func NewReportService(repo ports.MappingRepository) *ReportService {
	return &ReportService{repo: repo}
}

// CategoryStat holds totals for one category
type CategoryStat struct {
	Category domain.Category
	Count    int
	Bytes    int64
	Missing  int
}

// ReportResponse is the per-category breakdown of localized assets
type ReportResponse struct {
	Categories []CategoryStat // always one entry per category, in AllCategories order
	TotalCount int
	TotalBytes int64
}

// Execute loads the mapping file and sizes every asset on disk
func (s *ReportService) Execute(ctx context.Context) (*ReportResponse, error) {
	if err := s.repo.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load mappings: %w", err)
	}
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[domain.Category]*CategoryStat, len(domain.AllCategories))
	resp := &ReportResponse{}
	for _, c := range domain.AllCategories {
		resp.Categories = append(resp.Categories, CategoryStat{Category: c})
	}
	for i := range resp.Categories {
		byCategory[resp.Categories[i].Category] = &resp.Categories[i]
	}

	for _, rec := range records {
		stat := byCategory[rec.Category]
		if stat == nil {
			stat = byCategory[domain.CategoryMisc]
		}
		stat.Count++
		resp.TotalCount++

		info, err := os.Stat(rec.FilePath)
		if err != nil {
			stat.Missing++
			continue
		}
		stat.Bytes += info.Size()
		resp.TotalBytes += info.Size()
	}

	return resp, nil
}
