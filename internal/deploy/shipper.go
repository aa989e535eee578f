package deploy

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"

	"github.com/therapytips/tipsgen/internal/config"
)

// Result summarises a finished upload.
type Result struct {
	Files int
	Bytes int64
}

// Shipper uploads a build tree to one FTP target.
type Shipper struct {
	cfg      config.FTPConfig
	dialer   Dialer
	progress io.Writer
	verbose  bool
	logger   *slog.Logger

	// made caches remote directories already ensured in this session.
	made map[string]bool
}

// ShipperOption configures a Shipper.
type ShipperOption func(*Shipper)

// WithDialer replaces the FTP dialer.
func WithDialer(d Dialer) ShipperOption {
	return func(s *Shipper) {
		s.dialer = d
	}
}

// WithProgress sets where progress is printed.
func WithProgress(w io.Writer) ShipperOption {
	return func(s *Shipper) {
		s.progress = w
	}
}

// WithVerbose prints one line per file instead of a progress counter.
func WithVerbose(verbose bool) ShipperOption {
	return func(s *Shipper) {
		s.verbose = verbose
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) ShipperOption {
	return func(s *Shipper) {
		s.logger = l
	}
}

// NewShipper creates a Shipper for cfg.
func NewShipper(cfg config.FTPConfig, opts ...ShipperOption) *Shipper {
	s := &Shipper{
		cfg:      cfg,
		dialer:   NewFTPDialer(),
		progress: io.Discard,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ship validates the target, connects and uploads files in order.
// The first failed transfer aborts the upload.
func (s *Shipper) Ship(ctx context.Context, files []File) (Result, error) {
	var res Result
	if err := s.cfg.Validate(); err != nil {
		return res, err
	}

	conn, err := s.dialer.Dial(ctx, s.cfg)
	if err != nil {
		return res, err
	}
	defer func() {
		if err := conn.Quit(); err != nil {
			s.logger.Debug("ftp quit failed", "error", err)
		}
	}()

	s.made = map[string]bool{"/": true, ".": true}
	s.ensureDir(conn, s.cfg.RemotePath)

	total := len(files)
	for i, f := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := s.upload(conn, f); err != nil {
			if !s.verbose && i > 0 {
				fmt.Fprintln(s.progress)
			}
			return res, err
		}
		res.Files++
		res.Bytes += f.Size

		if s.verbose {
			fmt.Fprintf(s.progress, "Uploaded %s → %s\n", f.Local, f.Remote)
		} else {
			fmt.Fprintf(s.progress, "\rUploading files... %d%% (%d/%d)", (i+1)*100/total, i+1, total)
		}
	}
	if !s.verbose && total > 0 {
		fmt.Fprintln(s.progress)
	}

	s.logger.Debug("upload finished", "host", s.cfg.Host, "files", res.Files, "bytes", res.Bytes)
	return res, nil
}

func (s *Shipper) upload(conn Conn, f File) error {
	s.ensureDir(conn, path.Dir(f.Remote))

	file, err := os.Open(f.Local)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", f.Local, err)
	}
	defer file.Close()

	if err := conn.Stor(f.Remote, file); err != nil {
		return fmt.Errorf("failed to upload %s to %s: %w", f.Local, f.Remote, err)
	}
	return nil
}

// ensureDir creates dir and its parents. Servers answer MKD on an existing
// directory with an error, so failures are only logged; a missing directory
// surfaces on the following STOR.
func (s *Shipper) ensureDir(conn Conn, dir string) {
	dir = path.Clean(dir)
	if s.made[dir] {
		return
	}
	s.ensureDir(conn, path.Dir(dir))

	if err := conn.MakeDir(dir); err != nil {
		s.logger.Debug("mkdir skipped", "dir", dir, "error", err)
	}
	s.made[dir] = true
}
