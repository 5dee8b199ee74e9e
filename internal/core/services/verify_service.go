package services

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/kamal-hamza/fl-cli/internal/core/domain"
	"github.com/kamal-hamza/fl-cli/internal/core/ports"
)

// VerifyService checks a localized site for leftovers
type VerifyService struct {
	localizer *LocalizeService
	extractor *URLExtractor
	repo      ports.MappingRepository
}

// NewVerifyService creates a new verify service
func NewVerifyService(localizer *LocalizeService, extractor *URLExtractor, repo ports.MappingRepository) *VerifyService {
	return &VerifyService{
		localizer: localizer,
		extractor: extractor,
		repo:      repo,
	}
}

// Residual is a remote reference still present in a source file
type Residual struct {
	Path  string
	URL   string
	Where string // e.g. "link[href]", "script", "text"
}

// VerifyResponse lists everything that still points at the remote host
type VerifyResponse struct {
	FilesChecked  int
	Residuals     []Residual
	MissingAssets []domain.AssetRecord // mapped, but no file on disk
}

// Execute scans the site and cross-checks the mapping file
func (s *VerifyService) Execute(ctx context.Context) (*VerifyResponse, error) {
	resp := &VerifyResponse{}
	root := s.localizer.workspace.RootPath

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if d.IsDir() {
			// The downloaded assets are checked here too, unlike a localize walk
			if path != root && s.localizer.skipUserDir(path, d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if path == s.localizer.workspace.MappingPath || !s.localizer.hasEligibleExtension(path) {
			return nil
		}

		residuals, err := s.CheckFile(path)
		if err != nil {
			return nil
		}
		resp.FilesChecked++
		resp.Residuals = append(resp.Residuals, residuals...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.repo.Load(ctx); err != nil {
		return nil, err
	}
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if _, err := os.Stat(rec.FilePath); err != nil {
			resp.MissingAssets = append(resp.MissingAssets, rec)
		}
	}

	return resp, nil
}

// CheckFile returns the remote references left in one file
func (s *VerifyService) CheckFile(path string) ([]Residual, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if isHTMLFile(path) {
		return s.checkHTML(path, f), nil
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	var out []Residual
	for _, u := range s.extractor.ExtractURLs(string(data)) {
		out = append(out, Residual{Path: path, URL: u, Where: "text"})
	}
	return out, nil
}

// checkHTML tokenizes the document so residuals can be reported per tag attribute
func (s *VerifyService) checkHTML(path string, r io.Reader) []Residual {
	seen := make(map[string]bool)
	var out []Residual
	add := func(u, where string) {
		key := u + "\x00" + where
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, Residual{Path: path, URL: u, Where: where})
	}

	z := html.NewTokenizer(r)
	rawTag := ""
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			sort.Slice(out, func(i, j int) bool {
				if out[i].Where != out[j].Where {
					return out[i].Where < out[j].Where
				}
				return out[i].URL < out[j].URL
			})
			return out
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			rawTag = ""
			if tok.Data == "script" || tok.Data == "style" {
				rawTag = tok.Data
			}
			for _, attr := range tok.Attr {
				for _, u := range s.extractor.ExtractURLs(attr.Val) {
					add(u, tok.Data+"["+attr.Key+"]")
				}
			}
		case html.EndTagToken:
			rawTag = ""
		case html.TextToken:
			where := "text"
			if rawTag != "" {
				where = rawTag
			}
			for _, u := range s.extractor.ExtractURLs(string(z.Text())) {
				add(u, where)
			}
		case html.CommentToken:
			for _, u := range s.extractor.ExtractURLs(strings.TrimSpace(string(z.Token().Data))) {
				add(u, "comment")
			}
		}
	}
}
