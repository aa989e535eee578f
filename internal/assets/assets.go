package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// Layout of the assets directory and of the build output.
const (
	StylesheetSrc = "css/style.css"
	StylesheetDst = "style.css"
	ImagesSrc     = "images"
	ImagesDst     = "assets/images"
	PhotosDst     = "photos"
)

// Minifier shrinks a file of the given media type.
type Minifier interface {
	Bytes(mediatype string, b []byte) ([]byte, error)
}

// Options configures Copy.
type Options struct {
	AssetsDir  string
	PhotosDir  string
	CopyPhotos bool
	// Minifier, when set, is applied to the stylesheet.
	Minifier Minifier
	Logger   *slog.Logger
}

// Result summarises a copy.
type Result struct {
	Images        int
	Photos        int
	PhotoWarnings []PhotoWarning
}

// Copy installs the stylesheet, the images and optionally the photos into
// outputDir. A missing stylesheet or images directory is an error; a
// missing photos directory is only logged.
func Copy(outputDir string, opts Options) (Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	var res Result

	if err := copyStylesheet(opts, outputDir); err != nil {
		return res, err
	}

	images, err := CopyDir(filepath.Join(opts.AssetsDir, ImagesSrc), filepath.Join(outputDir, ImagesDst))
	if err != nil {
		return res, fmt.Errorf("failed to copy images: %w", err)
	}
	res.Images = len(images)

	if !opts.CopyPhotos {
		logger.Debug("skipping photos directory")
		return res, nil
	}

	if _, err := os.Stat(opts.PhotosDir); errors.Is(err, fs.ErrNotExist) {
		logger.Warn("photos directory not found", "dir", opts.PhotosDir)
		return res, nil
	}
	photos, err := CopyDir(opts.PhotosDir, filepath.Join(outputDir, PhotosDst))
	if err != nil {
		return res, fmt.Errorf("failed to copy photos: %w", err)
	}
	res.Photos = len(photos)

	for _, p := range photos {
		warnings, err := AuditPhoto(p)
		if err != nil {
			logger.Warn("photo metadata audit failed", "path", p, "error", err)
			continue
		}
		for _, w := range warnings {
			logger.Warn("photo carries identifying metadata", "path", w.Path, "kind", w.Kind, "tag", w.Tag)
		}
		res.PhotoWarnings = append(res.PhotoWarnings, warnings...)
	}
	return res, nil
}

func copyStylesheet(opts Options, outputDir string) error {
	src := filepath.Join(opts.AssetsDir, filepath.FromSlash(StylesheetSrc))
	dst := filepath.Join(outputDir, StylesheetDst)

	if opts.Minifier == nil {
		if err := CopyFile(src, dst); err != nil {
			return fmt.Errorf("failed to copy stylesheet: %w", err)
		}
		return nil
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read stylesheet: %w", err)
	}
	out, err := opts.Minifier.Bytes("text/css", data)
	if err != nil {
		return fmt.Errorf("failed to minify stylesheet: %w", err)
	}
	if err := os.WriteFile(dst, out, 0o644); err != nil {
		return fmt.Errorf("failed to write stylesheet: %w", err)
	}
	return nil
}
