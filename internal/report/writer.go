package report

import (
	"io"
	"sort"

	"github.com/therapytips/tipsgen/internal/model"
)

// Writer defines the interface for build report output.
type Writer interface {
	// Write outputs the report of one build.
	// Returns the number of bytes written and any error encountered.
	Write(build *model.Build) (int, error)
}

// MultiWriter writes to multiple Writers in order.
// This is useful for printing to the terminal and saving a file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(build *model.Build) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(build)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// pageCount is the number of rendered pages of one kind.
type pageCount struct {
	Label string
	Count int
}

// pageCounts orders the per-type page counts: listing pages first, then
// content types in generation order.
func pageCounts(build *model.Build) []pageCount {
	counts := build.PageCounts()

	var out []pageCount
	if n := counts["pages"]; n > 0 {
		out = append(out, pageCount{Label: "pages", Count: n})
		delete(counts, "pages")
	}
	for _, t := range model.ContentTypes {
		if n := counts[string(t)]; n > 0 {
			out = append(out, pageCount{Label: string(t), Count: n})
			delete(counts, string(t))
		}
	}

	// Unknown content types keep a stable order.
	rest := make([]string, 0, len(counts))
	for k := range counts {
		rest = append(rest, k)
	}
	sort.Strings(rest)
	for _, k := range rest {
		out = append(out, pageCount{Label: k, Count: counts[k]})
	}
	return out
}

// trending returns the trending list, or nil when aggregation did not run.
func trending(build *model.Build) []model.TrendingItem {
	if build.Site == nil {
		return nil
	}
	return build.Site.Trending
}

// unavailableVideos returns the number of videos without metadata.
func unavailableVideos(build *model.Build) int {
	if build.Site == nil {
		return 0
	}
	return build.Site.Videos.Unavailable()
}

// status describes the outcome of the build.
func status(build *model.Build) string {
	if build.Succeeded() {
		return "Complete"
	}
	return "Failed - " + build.ErrorMessage
}
