package deploy

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"time"

	"github.com/jlaffaye/ftp"

	"github.com/therapytips/tipsgen/internal/config"
)

// DefaultDialTimeout bounds connecting to the FTP server.
const DefaultDialTimeout = 30 * time.Second

// Conn is the subset of an FTP session used for uploads.
type Conn interface {
	MakeDir(path string) error
	Stor(path string, r io.Reader) error
	Quit() error
}

// Dialer opens logged-in FTP sessions.
type Dialer interface {
	Dial(ctx context.Context, cfg config.FTPConfig) (Conn, error)
}

// FTPDialer dials real servers with jlaffaye/ftp.
type FTPDialer struct {
	timeout time.Duration
}

// FTPDialerOption configures an FTPDialer.
type FTPDialerOption func(*FTPDialer)

// WithDialTimeout sets the connection timeout.
func WithDialTimeout(timeout time.Duration) FTPDialerOption {
	return func(d *FTPDialer) {
		d.timeout = timeout
	}
}

// NewFTPDialer creates an FTPDialer.
func NewFTPDialer(opts ...FTPDialerOption) *FTPDialer {
	d := &FTPDialer{timeout: DefaultDialTimeout}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dial connects to cfg.Addr and logs in. Secure configs use explicit TLS.
func (d *FTPDialer) Dial(ctx context.Context, cfg config.FTPConfig) (Conn, error) {
	opts := []ftp.DialOption{
		ftp.DialWithContext(ctx),
		ftp.DialWithTimeout(d.timeout),
	}
	if cfg.Secure {
		opts = append(opts, ftp.DialWithExplicitTLS(&tls.Config{
			ServerName: cfg.Host,
			MinVersion: tls.VersionTLS12,
		}))
	}

	conn, err := ftp.Dial(cfg.Addr(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Addr(), err)
	}
	if err := conn.Login(cfg.User, cfg.Password); err != nil {
		_ = conn.Quit()
		return nil, fmt.Errorf("failed to log in to %s as %s: %w", cfg.Addr(), cfg.User, err)
	}
	return conn, nil
}
