package trending

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/therapytips/tipsgen/internal/config"
	"github.com/therapytips/tipsgen/internal/model"
)

// MaxItems is the number of trending entries shown on the site.
const MaxItems = 6

// Source yields the most read pages of the site.
type Source interface {
	Name() string
	Top(ctx context.Context) ([]model.TrendingItem, error)
}

// NoopSource always returns an empty list.
type NoopSource struct{}

// Name returns "none".
func (NoopSource) Name() string { return string(config.TrendingNone) }

// Top returns an empty list.
func (NoopSource) Top(context.Context) ([]model.TrendingItem, error) {
	return []model.TrendingItem{}, nil
}

// New selects the source named by cfg. An analytics source without a
// property id or a readable key file degrades to NoopSource with a warning.
func New(ctx context.Context, cfg config.TrendingConfig, siteURL string, logger *slog.Logger) (Source, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %q", err, cfg.Source)
	}

	switch cfg.Source {
	case config.TrendingLegacy:
		return NewLegacySource(cfg.LegacyURL), nil
	case config.TrendingNone:
		return NoopSource{}, nil
	}

	if cfg.PropertyID == "" {
		logger.Warn("analytics property id not configured, trending list will be empty")
		return NoopSource{}, nil
	}
	if _, err := os.Stat(cfg.KeyFile); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("analytics key file not found, trending list will be empty", "key_file", cfg.KeyFile)
			return NoopSource{}, nil
		}
		return nil, fmt.Errorf("failed to read analytics key file: %w", err)
	}
	return NewAnalyticsSource(ctx, cfg.PropertyID, siteURL, WithCredentialsFile(cfg.KeyFile))
}
