package model

import (
	"time"

	"github.com/google/uuid"
)

// PageKind distinguishes listing pages from per-article pages.
type PageKind string

const (
	// PageListing is a top-level page such as index.html.
	PageListing PageKind = "listing"
	// PageDetail is a per-article page under a content-type directory.
	PageDetail PageKind = "detail"
)

// RenderedPage is one planned output file. It is written exactly once.
type RenderedPage struct {
	Kind        PageKind
	ContentType ContentType
	// Template is the template name without extension.
	Template string
	// Path is relative to the build output directory, slash separated.
	Path string
	Data any
}

// OutputFile is one file of a finished build tree.
type OutputFile struct {
	Path   string `json:"path"`
	Size   int64  `json:"size"`
	Digest string `json:"digest"`
}

// Build tracks a single environment's build from aggregation to output.
type Build struct {
	ID          string
	Environment string
	OutputDir   string
	StartedAt   time.Time
	FinishedAt  time.Time

	Site  *Site
	Pages []RenderedPage
	Files []OutputFile

	// Steps records the pipeline steps that completed.
	Steps []string

	Err          error
	ErrorMessage string
}

// NewBuild creates a Build for env writing to outputDir.
func NewBuild(env, outputDir string) *Build {
	return &Build{
		ID:          uuid.NewString(),
		Environment: env,
		OutputDir:   outputDir,
		StartedAt:   time.Now(),
	}
}

// Succeeded reports whether the build finished without error.
func (b *Build) Succeeded() bool {
	return b.Err == nil && b.ErrorMessage == ""
}

// Duration is the wall time of the build so far.
func (b *Build) Duration() time.Duration {
	end := b.FinishedAt
	if end.IsZero() {
		end = time.Now()
	}
	return end.Sub(b.StartedAt)
}

// TotalSize sums the sizes of the output files.
func (b *Build) TotalSize() int64 {
	var total int64
	for _, f := range b.Files {
		total += f.Size
	}
	return total
}

// PageCounts returns the number of rendered pages per content type.
// Listing pages without a content type are counted under "pages".
func (b *Build) PageCounts() map[string]int {
	counts := make(map[string]int)
	for _, p := range b.Pages {
		key := "pages"
		if p.Kind == PageDetail {
			key = string(p.ContentType)
		}
		counts[key]++
	}
	return counts
}
