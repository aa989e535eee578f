package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/therapytips/tipsgen/internal/config"
	"github.com/therapytips/tipsgen/internal/database"
)

// defaultHistoryLimit is the number of entries listed per table.
const defaultHistoryLimit = 10

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [dev|stage|prod]",
		Short: "Show recent builds and uploads",
		Long: `History lists the builds and uploads recorded in the history database,
newest first. Without an environment every environment is listed.

Examples:
  # Show recent activity
  tipsgen history

  # Show the last 3 production builds and uploads
  tipsgen history prod -n 3

  # List the files of one build with their SHA3-256 digests
  tipsgen history --build 2b1e0c6e-6c1d-4a52-9d83-5f0f5d0b7a11`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", defaultHistoryLimit,
		"Number of builds and uploads to show")
	cmd.Flags().StringP("build", "b", "",
		"List the output files of the build with this ID")
	cmd.Flags().String("history-dir", "",
		"Directory of the build history database (default: $XDG_DATA_HOME/tipsgen)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	var env string
	if len(args) == 1 {
		e, err := config.ParseEnvironment(args[0])
		if err != nil {
			return err
		}
		env = e.String()
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	if limit < 1 {
		return errors.New("limit must be at least 1")
	}
	buildID, err := cmd.Flags().GetString("build")
	if err != nil {
		return err
	}
	dir, err := cmd.Flags().GetString("history-dir")
	if err != nil {
		return err
	}
	if dir == "" {
		dir = config.XDGDataDir()
	}

	out := cmd.OutOrStdout()
	db, err := database.Open(dir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(out, "No build history yet.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if buildID != "" {
		return printBuildFiles(ctx, out, db, buildID)
	}
	return printHistory(ctx, out, db, env, limit)
}

func printHistory(ctx context.Context, out io.Writer, db *database.HistoryDB, env string, limit int) error {
	builds, err := db.RecentBuilds(ctx, env, limit)
	if err != nil {
		return err
	}
	uploads, err := db.RecentUploads(ctx, env, limit)
	if err != nil {
		return err
	}

	now := time.Now()
	fmt.Fprintln(out, "BUILDS")
	if len(builds) == 0 {
		fmt.Fprintln(out, "  none")
	}
	for _, b := range builds {
		status := "ok"
		if !b.Succeeded {
			status = "FAILED: " + b.Error
		}
		fmt.Fprintf(out, "  %s  %-5s  %-14s  %3d pages  %4d files  %8s  %s\n",
			b.ID, b.Environment, humanize.RelTime(b.StartedAt, now, "ago", "from now"),
			b.Pages, b.Files, humanize.IBytes(uint64(b.TotalSize)), status) //nolint:gosec // sizes are never negative
	}

	fmt.Fprintln(out, "\nUPLOADS")
	if len(uploads) == 0 {
		fmt.Fprintln(out, "  none")
	}
	for _, u := range uploads {
		status := "ok"
		if !u.Succeeded {
			status = "FAILED: " + u.Error
		}
		fmt.Fprintf(out, "  #%-4d %-5s  %-14s  %s%s  %4d files  %8s  %s\n",
			u.ID, u.Environment, humanize.RelTime(u.StartedAt, now, "ago", "from now"),
			u.Host, u.RemotePath, u.Files, humanize.IBytes(uint64(u.Bytes)), status) //nolint:gosec // sizes are never negative
	}
	return nil
}

func printBuildFiles(ctx context.Context, out io.Writer, db *database.HistoryDB, buildID string) error {
	files, err := db.BuildFiles(ctx, buildID)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files recorded for build %s", buildID)
	}

	var total int64
	for _, f := range files {
		fmt.Fprintf(out, "%s  %8s  %s\n", f.Digest, humanize.IBytes(uint64(f.Size)), f.Path) //nolint:gosec // sizes are never negative
		total += f.Size
	}
	fmt.Fprintf(out, "%d file(s), %s\n", len(files), humanize.IBytes(uint64(total))) //nolint:gosec // sizes are never negative
	return nil
}
