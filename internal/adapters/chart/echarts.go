package chart

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Bar is one category column of the report chart
type Bar struct {
	Label string
	Count int
	Bytes int64
}

// RenderCategoryChart writes a standalone HTML page with asset counts
// and sizes (KiB) per category
func RenderCategoryChart(w io.Writer, title string, bars []Bar) error {
	labels := make([]string, 0, len(bars))
	counts := make([]opts.BarData, 0, len(bars))
	sizes := make([]opts.BarData, 0, len(bars))

	for _, b := range bars {
		labels = append(labels, b.Label)
		counts = append(counts, opts.BarData{Value: b.Count})
		sizes = append(sizes, opts.BarData{Value: b.Bytes / 1024})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: "assets per category"}),
	)
	bar.SetXAxis(labels).
		AddSeries("Assets", counts).
		AddSeries("KiB", sizes)

	return bar.Render(w)
}
