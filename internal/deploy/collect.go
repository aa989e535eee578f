package deploy

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/therapytips/tipsgen/internal/config"
)

// File is one local file and its destination on the server.
type File struct {
	Local  string
	Remote string
	Size   int64
}

// Collect lists every regular file under buildDir in lexical order and maps
// it below remoteRoot.
func Collect(buildDir, remoteRoot string) ([]File, error) {
	info, err := os.Stat(buildDir)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && !info.IsDir()) {
		return nil, fmt.Errorf("%w: %s", config.ErrBuildDirNotFound, buildDir)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat build directory: %w", err)
	}
	if remoteRoot == "" {
		remoteRoot = "/"
	}

	var files []File
	err = filepath.WalkDir(buildDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(buildDir, p)
		if err != nil {
			return err
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, File{
			Local:  p,
			Remote: path.Join(remoteRoot, filepath.ToSlash(rel)),
			Size:   fi.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk build directory: %w", err)
	}
	return files, nil
}

// TotalSize sums the sizes of files.
func TotalSize(files []File) int64 {
	var total int64
	for _, f := range files {
		total += f.Size
	}
	return total
}

// DryRun prints what an upload of files would transfer.
func DryRun(w io.Writer, files []File) error {
	if _, err := fmt.Fprintf(w, "Dry run: %d file(s) would be uploaded\n", len(files)); err != nil {
		return err
	}
	for i, f := range files {
		if _, err := fmt.Fprintf(w, "  %d. %s → %s (%s)\n", i+1, f.Local, f.Remote, humanize.IBytes(uint64(f.Size))); err != nil { //nolint:gosec // sizes are never negative
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Total: %d file(s), %s\n", len(files), humanize.IBytes(uint64(TotalSize(files)))) //nolint:gosec // sizes are never negative
	return err
}
