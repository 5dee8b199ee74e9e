package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/fl-cli/internal/adapters/chart"
	"github.com/kamal-hamza/fl-cli/internal/core/services"
	"github.com/kamal-hamza/fl-cli/pkg/ui"
)

var (
	reportChart string
	reportOpen  bool
)

var reportCmd = &cobra.Command{
	Use:   "report [dir]",
	Short: "Summarize localized assets per category",
	Long: `Count the assets in the mapping file and their size on disk,
grouped by category.

With --chart, also writes a standalone HTML bar chart.

Examples:
  fl report                      # Table in the terminal
  fl report --chart              # Also write report.html
  fl report --chart out.html -o  # Write out.html and open it`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{annotationDirArg: "true"},
	RunE:        runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportChart, "chart", "", "Write an HTML chart to this file")
	reportCmd.Flags().Lookup("chart").NoOptDefVal = "report.html"
	reportCmd.Flags().BoolVarP(&reportOpen, "open", "o", false, "Open the chart after writing it")
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	resp, err := services.NewReportService(mappingRepo).Execute(ctx)
	if err != nil {
		return err
	}

	if resp.TotalCount == 0 {
		fmt.Println(ui.FormatWarning("No mappings found."))
		fmt.Println(ui.FormatInfo("Run 'fl' to localize this site first"))
		return nil
	}

	fmt.Println(ui.FormatTitle("Asset report"))
	fmt.Println()
	fmt.Print(renderReportTable(resp))

	if reportChart == "" {
		return nil
	}

	path, err := writeReportChart(reportChart, resp)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(ui.FormatSuccess("Chart written to " + path))

	if reportOpen {
		return OpenFile(path, "")
	}
	return nil
}

func renderReportTable(resp *services.ReportResponse) string {
	table := ui.NewTable([]ui.TableColumn{
		{Header: "CATEGORY"},
		{Header: "ASSETS", Align: "right"},
		{Header: "SIZE", Align: "right"},
		{Header: "MISSING", Align: "right"},
	})

	missing := 0
	for _, c := range resp.Categories {
		if c.Count == 0 {
			continue
		}
		table.AddRow([]string{
			string(c.Category),
			strconv.Itoa(c.Count),
			ui.FormatBytes(c.Bytes),
			strconv.Itoa(c.Missing),
		})
		missing += c.Missing
	}
	table.AddRow([]string{
		ui.FormatBold("total"),
		strconv.Itoa(resp.TotalCount),
		ui.FormatBytes(resp.TotalBytes),
		strconv.Itoa(missing),
	})

	return table.Render()
}

// writeReportChart renders the chart and returns its absolute path
func writeReportChart(path string, resp *services.ReportResponse) (string, error) {
	bars := make([]chart.Bar, 0, len(resp.Categories))
	for _, c := range resp.Categories {
		bars = append(bars, chart.Bar{Label: string(c.Category), Count: c.Count, Bytes: c.Bytes})
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create chart file: %w", err)
	}
	if err := chart.RenderCategoryChart(f, "fl report", bars); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to render chart: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	if abs, err := filepath.Abs(path); err == nil {
		return abs, nil
	}
	return path, nil
}
