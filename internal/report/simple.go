package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/therapytips/tipsgen/internal/model"
)

// SimpleWriter outputs human-readable text reports for terminal display.
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether empty sections are shown.
	showEmpty bool

	// verbose lists every output file.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables the per-file listing.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the build report in human-readable format.
func (w *SimpleWriter) Write(build *model.Build) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, build)
	w.writePages(&sb, build)
	w.writeTrending(&sb, build)
	w.writeFiles(&sb, build)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, build *model.Build) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                        TIPSGEN BUILD REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Environment:    %s\n", build.Environment))
	sb.WriteString(fmt.Sprintf("Build:          %s\n", build.ID))
	sb.WriteString(fmt.Sprintf("Started:        %s\n", build.StartedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Duration:       %s\n", build.Duration().Round(time.Millisecond)))
	sb.WriteString(fmt.Sprintf("Output:         %s\n", build.OutputDir))
	sb.WriteString(fmt.Sprintf("Status:         %s\n", status(build)))
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeSection(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
}

func (w *SimpleWriter) writePages(sb *strings.Builder, build *model.Build) {
	counts := pageCounts(build)
	if len(counts) == 0 && !w.showEmpty {
		return
	}

	w.writeSection(sb, "PAGES")
	for _, c := range counts {
		sb.WriteString(fmt.Sprintf("  %-20s %d\n", c.Label+":", c.Count))
	}
	sb.WriteString(fmt.Sprintf("\n  %-20s %d\n", "TOTAL:", len(build.Pages)))
	if n := unavailableVideos(build); n > 0 {
		sb.WriteString(fmt.Sprintf("  [!] %d video(s) unavailable\n", n))
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeTrending(sb *strings.Builder, build *model.Build) {
	items := trending(build)
	if len(items) == 0 && !w.showEmpty {
		return
	}

	w.writeSection(sb, "TRENDING")
	if len(items) == 0 {
		sb.WriteString("  No trending pages\n")
	}
	for i, item := range items {
		sb.WriteString(fmt.Sprintf("  %d. %s (%s views)\n", i+1, item.Title, humanize.Comma(item.Views)))
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeFiles(sb *strings.Builder, build *model.Build) {
	if len(build.Files) == 0 && !w.showEmpty {
		return
	}

	w.writeSection(sb, "OUTPUT")
	sb.WriteString(fmt.Sprintf("  Files:      %d\n", len(build.Files)))
	sb.WriteString(fmt.Sprintf("  Total size: %s\n", humanize.IBytes(uint64(build.TotalSize())))) //nolint:gosec // sizes are never negative
	if w.verbose {
		sb.WriteString("\n")
		for _, f := range build.Files {
			sb.WriteString(fmt.Sprintf("  %s  %s (%s)\n", f.Digest[:min(12, len(f.Digest))], f.Path, humanize.IBytes(uint64(f.Size)))) //nolint:gosec // sizes are never negative
		}
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
