package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/therapytips/tipsgen/internal/config"
	"github.com/therapytips/tipsgen/internal/database"
	tlog "github.com/therapytips/tipsgen/internal/log"
)

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates the secret-masking logger on stderr and installs it
// as the default.
func setupLogger(verbose bool) *slog.Logger {
	logger := tlog.NewSecureLogger(os.Stderr, verbose)
	slog.SetDefault(logger)
	return logger
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// loadSiteFile applies the site file named by --config, or the one found in
// the current or home directory, to cfg.
// An explicit path that does not exist is an error.
func loadSiteFile(cmd *cobra.Command, cfg *config.Config) error {
	explicit, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}

	path := config.FindConfigFile(explicit)
	switch {
	case path != "":
		site, err := config.LoadSiteFile(path)
		if err != nil {
			return fmt.Errorf("failed to load site file %s: %w", path, err)
		}
		site.Apply(cfg)
		cfg.ConfigFilePath = path
	case explicit != "":
		return fmt.Errorf("%w: %s", config.ErrConfigNotFound, explicit)
	}
	return nil
}

// historyFlags reads --history-dir and --no-history into cfg.
func historyFlags(cmd *cobra.Command, cfg *config.Config) error {
	dir, err := cmd.Flags().GetString("history-dir")
	if err != nil {
		return err
	}
	if dir != "" {
		cfg.HistoryDir = dir
	}

	noHistory, err := cmd.Flags().GetBool("no-history")
	if err != nil {
		return err
	}
	cfg.SaveHistory = !noHistory
	return nil
}

// addHistoryFlags registers the history database flags.
func addHistoryFlags(cmd *cobra.Command) {
	cmd.Flags().String("history-dir", "",
		"Directory of the build history database (default: $XDG_DATA_HOME/tipsgen)")
	cmd.Flags().Bool("no-history", false,
		"Do not record this run in the build history database")
}

// openHistory opens the history database when enabled. Failures are logged
// and disable history for the run.
func openHistory(cfg *config.Config, logger *slog.Logger) *database.HistoryDB {
	if !cfg.SaveHistory {
		return nil
	}
	db, err := database.Open(cfg.HistoryDir, database.DefaultOptions())
	if err != nil {
		logger.Warn("build history disabled", "dir", cfg.HistoryDir, "error", err)
		return nil
	}
	logger.Debug("history database opened", "path", db.Path())
	return db
}
