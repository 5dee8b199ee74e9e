package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/fl-cli/internal/core/domain"
	"github.com/kamal-hamza/fl-cli/pkg/ui"
)

var (
	mappingsCategory string
	mappingsList     bool
)

// Assets shown as highlighted source in the picker preview
var previewableExtensions = map[string]bool{
	".css": true, ".js": true, ".mjs": true, ".json": true, ".svg": true, ".html": true,
}

const previewLimit = 8 << 10

var mappingsCmd = &cobra.Command{
	Use:     "mappings [query]",
	Aliases: []string{"ls"},
	Short:   "List or search localized assets (alias: ls)",
	Long: `Show the URL -> local path table written by the last run.

With a query, lists the entries whose URL, local path or category contains it.
Without a query (on a terminal), opens a fuzzy finder; the selected local
path is copied to the clipboard.

Examples:
  fl mappings                  # Interactive picker
  fl mappings --list           # Plain table of everything
  fl mappings woff2            # Entries matching 'woff2'
  fl mappings --category fonts # Only fonts`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMappings,
}

func init() {
	mappingsCmd.Flags().StringVar(&mappingsCategory, "category", "", "Only show one category (fonts, icons, images, scripts, styles, misc)")
	mappingsCmd.Flags().BoolVarP(&mappingsList, "list", "l", false, "Print a table instead of opening the picker")
}

func runMappings(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	if err := mappingRepo.Load(ctx); err != nil {
		return err
	}

	query := ""
	if len(args) > 0 {
		query = args[0]
	}
	records, err := mappingRepo.Search(ctx, query)
	if err != nil {
		return err
	}
	records = filterByCategory(records, mappingsCategory)

	if len(records) == 0 {
		if query != "" {
			fmt.Println(ui.FormatWarning("No mappings found matching: " + query))
		} else {
			fmt.Println(ui.FormatWarning("No mappings found."))
			fmt.Println(ui.FormatInfo("Run 'fl' to localize this site first"))
		}
		return nil
	}

	if query == "" && !mappingsList && ui.IsTerminal(os.Stdout) {
		return runInteractiveMappingSearch(records)
	}

	fmt.Print(renderMappingsTable(records))
	fmt.Println()
	fmt.Println(ui.FormatMuted(fmt.Sprintf("%d mappings", len(records))))
	return nil
}

func filterByCategory(records []domain.AssetRecord, category string) []domain.AssetRecord {
	if category == "" {
		return records
	}
	want := domain.ParseCategory(category)
	out := records[:0:0]
	for _, r := range records {
		if r.Category == want {
			out = append(out, r)
		}
	}
	return out
}

func renderMappingsTable(records []domain.AssetRecord) string {
	table := ui.NewTable([]ui.TableColumn{
		{Header: "CATEGORY"},
		{Header: "LOCAL PATH", MaxWidth: 48},
		{Header: "SIZE", Align: "right"},
		{Header: "URL", MaxWidth: 64},
	})
	for _, r := range records {
		table.AddRow([]string{string(r.Category), r.LocalPath, assetSize(r), r.URL})
	}
	return table.Render()
}

// assetSize formats the size of the file on disk, or "missing"
func assetSize(r domain.AssetRecord) string {
	info, err := os.Stat(r.FilePath)
	if err != nil {
		return "missing"
	}
	return ui.FormatBytes(info.Size())
}

// runInteractiveMappingSearch launches the fuzzy finder for mappings
func runInteractiveMappingSearch(records []domain.AssetRecord) error {
	idx, err := fuzzyfinder.Find(
		records,
		func(i int) string {
			r := records[i]
			return fmt.Sprintf("%-8s %s  %s", r.Category, r.LocalPath, r.URL)
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			return mappingPreview(records[i])
		}),
	)
	if err != nil {
		fmt.Println(ui.FormatInfo("Selection cancelled."))
		return nil
	}

	selected := records[idx]
	fmt.Println(ui.FormatSuccess("Selected: " + selected.Filename()))
	fmt.Println()
	fmt.Println(ui.FormatInfo("Local path (Copied):"))
	fmt.Println(ui.FormatBold(selected.LocalPath))

	if err := clipboard.WriteAll(selected.LocalPath); err != nil {
		fmt.Println(ui.FormatMuted("(Clipboard access failed)"))
	}

	return nil
}

// mappingPreview renders the picker preview: metadata and, for text assets, the source
func mappingPreview(r domain.AssetRecord) string {
	var s strings.Builder
	s.WriteString(fmt.Sprintf("File: %s\n", ui.StyleBold.Render(r.Filename())))
	s.WriteString(fmt.Sprintf("Category: %s\n", r.Category))
	s.WriteString(fmt.Sprintf("Size: %s\n", assetSize(r)))
	s.WriteString("\n")
	s.WriteString(ui.StyleHeader.Render("Remote URL") + "\n")
	s.WriteString(r.URL + "\n\n")

	if !previewableExtensions[strings.ToLower(filepath.Ext(r.FilePath))] {
		return s.String()
	}

	f, err := os.Open(r.FilePath)
	if err != nil {
		s.WriteString(ui.FormatMuted("(file missing)"))
		return s.String()
	}
	defer f.Close()

	head, _ := io.ReadAll(io.LimitReader(f, previewLimit))
	s.WriteString(ui.StyleHeader.Render("Content") + "\n")
	s.WriteString(highlightSource(r.Filename(), string(head)))
	return s.String()
}
