package render

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tdewolff/minify/v2"

	"github.com/therapytips/tipsgen/internal/assets"
	"github.com/therapytips/tipsgen/internal/config"
	"github.com/therapytips/tipsgen/internal/content"
	"github.com/therapytips/tipsgen/internal/model"
)

// Options configures a Renderer.
type Options struct {
	// TemplatesDir overrides embedded templates file by file.
	TemplatesDir string
	AssetsDir    string
	PhotosDir    string
	Logger       *slog.Logger
}

// Renderer turns an aggregated site into files on disk.
type Renderer struct {
	templates map[string]*template.Template
	minifier  *minify.M
	assetsDir string
	photosDir string
	logger    *slog.Logger
}

// New parses the templates.
func New(opts Options) (*Renderer, error) {
	fsys, err := templateFS(opts.TemplatesDir)
	if err != nil {
		return nil, err
	}
	set, err := parseTemplates(fsys, content.NewRenderer())
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		templates: set,
		minifier:  NewMinifier(),
		assetsDir: opts.AssetsDir,
		photosDir: opts.PhotosDir,
		logger:    logger,
	}, nil
}

// Render recreates outputDir and writes every planned page followed by the
// static assets. Pages are written one at a time; the first failure stops
// the batch and leaves already written files in place.
func (r *Renderer) Render(ctx context.Context, site *model.Site, cfg config.BuildConfig, outputDir string) ([]model.RenderedPage, error) {
	if err := os.RemoveAll(outputDir); err != nil {
		return nil, fmt.Errorf("failed to clean output directory: %w", err)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	pages := Plan(site, cfg)
	for i, page := range pages {
		if err := ctx.Err(); err != nil {
			return pages[:i], err
		}
		if err := r.writePage(outputDir, page, cfg); err != nil {
			return pages[:i], &RenderError{Path: page.Path, Err: err}
		}
		r.logger.Debug("page written", "path", page.Path)
	}

	copyOpts := assets.Options{
		AssetsDir:  r.assetsDir,
		PhotosDir:  r.photosDir,
		CopyPhotos: cfg.CopyPhotos,
		Logger:     r.logger,
	}
	if cfg.MinifyAssets {
		copyOpts.Minifier = r.minifier
	}
	if _, err := assets.Copy(outputDir, copyOpts); err != nil {
		return pages, err
	}
	return pages, nil
}

// RenderPage executes a single planned page into a byte slice.
func (r *Renderer) RenderPage(page model.RenderedPage, cfg config.BuildConfig) ([]byte, error) {
	t, ok := r.templates[page.Template]
	if !ok {
		return nil, fmt.Errorf("unknown template %q", page.Template)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", page.Data); err != nil {
		return nil, err
	}
	out := buf.Bytes()

	if cfg.MinifyAssets {
		minified, err := r.minifier.Bytes(MediaHTML, out)
		if err != nil {
			return nil, fmt.Errorf("minify: %w", err)
		}
		out = minified
	}
	if cfg.IncludeDebugInfo {
		out = append(out, debugComment(page, cfg)...)
	}
	return out, nil
}

func (r *Renderer) writePage(outputDir string, page model.RenderedPage, cfg config.BuildConfig) error {
	if err := CheckPath(page); err != nil {
		return err
	}
	out, err := r.RenderPage(page, cfg)
	if err != nil {
		return err
	}

	dst := filepath.Join(outputDir, filepath.FromSlash(page.Path))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, out, 0o644)
}

func debugComment(page model.RenderedPage, cfg config.BuildConfig) string {
	buildTime := ""
	if d, ok := page.Data.(PageData); ok {
		buildTime = d.BuildTime
	}
	return fmt.Sprintf("\n<!-- tipsgen env=%s api=%s built=%s template=%s -->\n",
		cfg.Environment, cfg.APIBaseURL, buildTime, page.Template)
}
