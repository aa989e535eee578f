package pipeline

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/crypto/sha3"

	"github.com/therapytips/tipsgen/internal/config"
	"github.com/therapytips/tipsgen/internal/model"
)

// Step names.
const (
	StepAggregate = "aggregate"
	StepRender    = "render"
	StepManifest  = "manifest"
	StepRecord    = "record"
)

// ErrNoSite is returned when rendering runs before aggregation.
var ErrNoSite = errors.New("no aggregated site to render")

// Aggregator gathers the site content.
type Aggregator interface {
	Aggregate(ctx context.Context) (*model.Site, error)
}

// AggregateStep fills build.Site.
type AggregateStep struct {
	aggregator Aggregator
}

// NewAggregateStep creates an AggregateStep.
func NewAggregateStep(a Aggregator) *AggregateStep {
	return &AggregateStep{aggregator: a}
}

// Name returns the step name.
func (s *AggregateStep) Name() string { return StepAggregate }

// Do executes the aggregation.
func (s *AggregateStep) Do(ctx context.Context, build *model.Build) error {
	site, err := s.aggregator.Aggregate(ctx)
	if err != nil {
		return fmt.Errorf("aggregate content: %w", err)
	}
	build.Site = site
	return nil
}

// Renderer writes a site to disk.
type Renderer interface {
	Render(ctx context.Context, site *model.Site, cfg config.BuildConfig, outputDir string) ([]model.RenderedPage, error)
}

// RenderStep writes build.Site into build.OutputDir.
type RenderStep struct {
	renderer Renderer
	cfg      config.BuildConfig
}

// NewRenderStep creates a RenderStep for one environment.
func NewRenderStep(r Renderer, cfg config.BuildConfig) *RenderStep {
	return &RenderStep{renderer: r, cfg: cfg}
}

// Name returns the step name.
func (s *RenderStep) Name() string { return StepRender }

// Do renders the pages. Pages written before a failure are kept on the build.
func (s *RenderStep) Do(ctx context.Context, build *model.Build) error {
	if build.Site == nil {
		return ErrNoSite
	}
	pages, err := s.renderer.Render(ctx, build.Site, s.cfg, build.OutputDir)
	build.Pages = pages
	return err
}

// ManifestStep lists the output tree with a SHA3-256 digest per file.
type ManifestStep struct{}

// NewManifestStep creates a ManifestStep.
func NewManifestStep() *ManifestStep {
	return &ManifestStep{}
}

// Name returns the step name.
func (s *ManifestStep) Name() string { return StepManifest }

// Do walks build.OutputDir.
func (s *ManifestStep) Do(ctx context.Context, build *model.Build) error {
	files, err := Manifest(ctx, build.OutputDir)
	if err != nil {
		return err
	}
	build.Files = files
	return nil
}

// Manifest returns every regular file under dir sorted by slash path.
func Manifest(ctx context.Context, dir string) ([]model.OutputFile, error) {
	var files []model.OutputFile
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		digest, size, err := digestFile(path)
		if err != nil {
			return err
		}
		files = append(files, model.OutputFile{
			Path:   filepath.ToSlash(rel),
			Size:   size,
			Digest: digest,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build manifest: %w", err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

func digestFile(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	h := sha3.New256()
	n, err := io.Copy(h, f)
	if err != nil {
		return "", 0, err
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}

// BuildStore persists finished builds.
type BuildStore interface {
	SaveBuild(ctx context.Context, build *model.Build) error
}

// RecordStep saves the build in the history database. It is meant to run
// through AddFinally so failed builds are recorded too.
type RecordStep struct {
	store  BuildStore
	logger *slog.Logger
}

// NewRecordStep creates a RecordStep.
func NewRecordStep(store BuildStore, logger *slog.Logger) *RecordStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordStep{store: store, logger: logger}
}

// Name returns the step name.
func (s *RecordStep) Name() string { return StepRecord }

// Do saves the build.
func (s *RecordStep) Do(ctx context.Context, build *model.Build) error {
	if err := s.store.SaveBuild(ctx, build); err != nil {
		return fmt.Errorf("record build %s: %w", build.ID, err)
	}
	s.logger.Debug("build recorded", "build", build.ID, "files", len(build.Files))
	return nil
}
