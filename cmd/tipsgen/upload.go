package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/therapytips/tipsgen/internal/config"
	"github.com/therapytips/tipsgen/internal/database"
	"github.com/therapytips/tipsgen/internal/deploy"
)

// NewUploadCmd creates the upload command.
func NewUploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload [dev|stage|prod]",
		Short: "Upload a finished build over FTP",
		Long: `Upload transfers ./builds/{env} to the FTP server of that environment.
The environment defaults to prod.

Connection settings come from the process environment, falling back to
.env.development, .env.staging or .env.production:
  FTP_HOST, FTP_PORT (21), FTP_USER, FTP_PASSWORD,
  FTP_REMOTE_PATH (/ for prod, /{env} otherwise), FTP_SECURE

Examples:
  # Upload the production build
  tipsgen upload

  # Show what would be uploaded to staging without connecting
  tipsgen upload stage --dry-run

  # Log every transferred file
  tipsgen upload dev -v`,
		Args: cobra.MaximumNArgs(1),
		RunE: runUploadCmd,
	}

	cmd.Flags().BoolP("dry-run", "d", false,
		"List the files that would be uploaded without connecting")
	cmd.Flags().StringP("config", "c", "",
		"Site file path (default: .tipsgen.yaml in current or home directory)")
	addHistoryFlags(cmd)

	return cmd
}

// uploadOptions are the resolved inputs of one upload.
type uploadOptions struct {
	env      config.Environment
	buildDir string
	ftp      config.FTPConfig
	dryRun   bool
	verbose  bool
	cfg      *config.Config
}

// runUploadCmd executes the upload command.
func runUploadCmd(cmd *cobra.Command, args []string) error {
	opts, err := uploadConfig(cmd, args, config.NewViper())
	if err != nil {
		return err
	}

	logger := setupLogger(opts.verbose)
	ctx, cancel := signalContext(logger)
	defer cancel()

	return runUpload(ctx, opts, nil, cmd.OutOrStdout(), logger)
}

// uploadConfig resolves the environment, the build directory and the FTP
// settings. The dotenv file of the environment is read beneath v.
func uploadConfig(cmd *cobra.Command, args []string, v *viper.Viper) (*uploadOptions, error) {
	env := config.EnvProd
	if len(args) == 1 {
		var err error
		if env, err = config.ParseEnvironment(args[0]); err != nil {
			return nil, err
		}
	}

	cfg := config.NewConfig()
	if err := loadSiteFile(cmd, cfg); err != nil {
		return nil, err
	}
	if err := historyFlags(cmd, cfg); err != nil {
		return nil, err
	}
	if err := config.ReadDotEnv(v, env.DotEnvFile()); err != nil {
		return nil, err
	}

	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return nil, err
	}

	return &uploadOptions{
		env:      env,
		buildDir: cfg.OutputDir(env),
		ftp:      config.LoadFTPConfig(v, env),
		dryRun:   dryRun,
		verbose:  getVerboseFlag(cmd),
		cfg:      cfg,
	}, nil
}

// runUpload collects the build tree, checks the FTP settings and either
// lists the files or ships them.
// A nil dialer uses a real FTP connection.
func runUpload(ctx context.Context, opts *uploadOptions, dialer deploy.Dialer, out io.Writer, logger *slog.Logger) error {
	files, err := deploy.Collect(opts.buildDir, opts.ftp.RemotePath)
	if err != nil {
		return err
	}

	if err := opts.ftp.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	if opts.dryRun {
		fmt.Fprintf(out, "Upload of %s to %s%s\n", opts.env, opts.ftp.Host, opts.ftp.RemotePath)
		return deploy.DryRun(out, files)
	}

	shipperOpts := []deploy.ShipperOption{
		deploy.WithProgress(out),
		deploy.WithVerbose(opts.verbose),
		deploy.WithLogger(logger),
	}
	if dialer != nil {
		shipperOpts = append(shipperOpts, deploy.WithDialer(dialer))
	}

	fmt.Fprintf(out, "Uploading %d file(s) from %s to %s%s...\n",
		len(files), opts.buildDir, opts.ftp.Addr(), opts.ftp.RemotePath)

	start := time.Now()
	res, shipErr := deploy.NewShipper(opts.ftp, shipperOpts...).Ship(ctx, files)
	recordUpload(ctx, opts, res, start, shipErr, logger)

	if shipErr != nil {
		return fmt.Errorf("upload to %s failed: %w", opts.ftp.Addr(), shipErr)
	}
	fmt.Fprintf(out, "Uploaded %d file(s), %s in %s\n",
		res.Files, humanize.IBytes(uint64(res.Bytes)), time.Since(start).Round(time.Millisecond)) //nolint:gosec // sizes are never negative
	return nil
}

// recordUpload stores the outcome in the history database. Failures are
// only logged.
func recordUpload(ctx context.Context, opts *uploadOptions, res deploy.Result, start time.Time, shipErr error, logger *slog.Logger) {
	db := openHistory(opts.cfg, logger)
	if db == nil {
		return
	}
	defer db.Close()

	rec := &database.UploadRecord{
		Environment: opts.env.String(),
		Host:        opts.ftp.Addr(),
		RemotePath:  opts.ftp.RemotePath,
		Files:       res.Files,
		Bytes:       res.Bytes,
		StartedAt:   start,
		FinishedAt:  time.Now(),
		Succeeded:   shipErr == nil,
	}
	if shipErr != nil {
		rec.Error = shipErr.Error()
	}
	if err := db.SaveUpload(context.WithoutCancel(ctx), rec); err != nil {
		logger.Warn("failed to record upload", "error", err)
	}
}
