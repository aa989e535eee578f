package report

import (
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/therapytips/tipsgen/internal/model"
)

// MarkdownWriter outputs build reports in Markdown format.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the build report in Markdown format.
func (w *MarkdownWriter) Write(build *model.Build) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, build)
	w.writePages(md, build)
	w.writeTrending(md, build)
	w.writeFiles(md, build)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, build *model.Build) {
	md.H1("Build Report: " + build.Environment)
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Build", "`" + build.ID + "`"},
			{"Started", build.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", build.Duration().Round(time.Millisecond).String()},
			{"Output", "`" + build.OutputDir + "`"},
			{"Status", w.statusText(build)},
		},
	})
	md.PlainText("")

	if !build.Succeeded() {
		md.Cautionf("The build failed: %s", build.ErrorMessage)
		md.PlainText("")
	}
}

func (w *MarkdownWriter) statusText(build *model.Build) string {
	if build.Succeeded() {
		return "✅ " + status(build)
	}
	return "❌ " + status(build)
}

func (w *MarkdownWriter) writePages(md *markdown.Markdown, build *model.Build) {
	md.H2("Pages")
	md.PlainText("")

	counts := pageCounts(build)
	if len(counts) == 0 {
		md.PlainText("No pages were rendered.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(counts)+1)
	for _, c := range counts {
		rows = append(rows, []string{c.Label, strconv.Itoa(c.Count)})
	}
	rows = append(rows, []string{"**Total**", "**" + strconv.Itoa(len(build.Pages)) + "**"})
	md.Table(markdown.TableSet{
		Header: []string{"Kind", "Pages"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writePieChart(md, counts)

	if n := unavailableVideos(build); n > 0 {
		md.Warningf("%d video(s) had no metadata and were left out of the pages.", n)
		md.PlainText("")
	}
}

// writePieChart writes a mermaid pie chart of pages per kind.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, counts []pageCount) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Pages per content type"),
		piechart.WithShowData(true),
	)
	for _, c := range counts {
		chart.LabelAndIntValue(c.Label, uint64(c.Count)) //nolint:gosec // counts are never negative
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeTrending(md *markdown.Markdown, build *model.Build) {
	md.H2("Trending")
	md.PlainText("")

	items := trending(build)
	if len(items) == 0 {
		md.Note("No trending pages this build.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(items))
	for i, item := range items {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			markdown.Link(item.Title, item.Link),
			humanize.Comma(item.Views),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"#", "Page", "Views"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeFiles(md *markdown.Markdown, build *model.Build) {
	md.H2("Output")
	md.PlainText("")

	md.BulletList(
		"Files: "+strconv.Itoa(len(build.Files)),
		"Total size: "+humanize.IBytes(uint64(build.TotalSize())), //nolint:gosec // sizes are never negative
	)
	md.PlainText("")

	if len(build.Files) == 0 {
		return
	}

	rows := make([][]string, len(build.Files))
	for i, f := range build.Files {
		rows[i] = []string{
			"`" + f.Path + "`",
			humanize.IBytes(uint64(f.Size)), //nolint:gosec // sizes are never negative
			"`" + truncateString(f.Digest, 16) + "`",
		}
	}

	table := markdown.NewMarkdown(io.Discard)
	table.Table(markdown.TableSet{
		Header: []string{"Path", "Size", "SHA3-256"},
		Rows:   rows,
	})
	md.Details("Files", table.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by tipsgen on %s*", time.Now().Format("2006-01-02"))
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
