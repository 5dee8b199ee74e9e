package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/kamal-hamza/fl-cli/internal/core/domain"
	"github.com/kamal-hamza/fl-cli/pkg/ui"
)

// consoleReporter prints service events as styled console lines.
// Errors are always printed; everything else is dropped in quiet mode.
type consoleReporter struct {
	out    io.Writer
	errOut io.Writer
	root   string
	quiet  bool
}

func newConsoleReporter(out, errOut io.Writer, root string, quiet bool) *consoleReporter {
	return &consoleReporter{out: out, errOut: errOut, root: root, quiet: quiet}
}

func (r *consoleReporter) Processing(path string) {
	if r.quiet {
		return
	}
	fmt.Fprintln(r.out, ui.FormatMuted("  "+r.rel(path)))
}

func (r *consoleReporter) Downloaded(record domain.AssetRecord) {
	if r.quiet {
		return
	}
	msg := fmt.Sprintf("%s (%s)", strings.TrimPrefix(record.LocalPath, "/"), ui.FormatBytes(record.Bytes))
	fmt.Fprintln(r.out, ui.FormatDownload(msg))
}

func (r *consoleReporter) Skipped(rawURL string, reason string) {
	if r.quiet {
		return
	}
	fmt.Fprintln(r.out, ui.FormatSkip(rawURL+" ("+reason+")"))
}

func (r *consoleReporter) Failed(subject string, err error) {
	fmt.Fprintln(r.errOut, ui.FormatError(r.rel(subject)+": "+err.Error()))
}

func (r *consoleReporter) Rewritten(path string, replacements int) {
	if r.quiet {
		return
	}
	noun := "URLs"
	if replacements == 1 {
		noun = "URL"
	}
	fmt.Fprintln(r.out, ui.FormatRewrite(fmt.Sprintf("%s (%d %s)", r.rel(path), replacements, noun)))
}

// rel shortens paths inside the site root; URLs pass through unchanged
func (r *consoleReporter) rel(subject string) string {
	if r.root == "" || !filepath.IsAbs(subject) {
		return subject
	}
	if rel, err := filepath.Rel(r.root, subject); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return subject
}
