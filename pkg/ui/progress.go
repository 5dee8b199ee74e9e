package ui

import (
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// IsTerminal reports whether f is attached to an interactive terminal
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// NewDownloadProgress returns a progress hook that draws one byte-counting bar
// per download on out. The bar is cleared once the download finishes.
func NewDownloadProgress(out io.Writer) func(dst io.Writer, total int64, label string) (io.Writer, func()) {
	return func(dst io.Writer, total int64, label string) (io.Writer, func()) {
		if total <= 0 {
			total = -1 // spinner
		}
		bar := progressbar.NewOptions64(total,
			progressbar.OptionSetWriter(out),
			progressbar.OptionSetDescription(StyleMuted.Render(Truncate(label, 40))),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(24),
			progressbar.OptionThrottle(80*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
		return io.MultiWriter(dst, bar), func() { _ = bar.Finish() }
	}
}

// FormatBytes renders a byte count for humans, e.g. "42 kB"
func FormatBytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}
