package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/therapytips/tipsgen/internal/aggregate"
	"github.com/therapytips/tipsgen/internal/api"
	"github.com/therapytips/tipsgen/internal/config"
	"github.com/therapytips/tipsgen/internal/database"
	"github.com/therapytips/tipsgen/internal/model"
	"github.com/therapytips/tipsgen/internal/pipeline"
	"github.com/therapytips/tipsgen/internal/render"
	"github.com/therapytips/tipsgen/internal/report"
	"github.com/therapytips/tipsgen/internal/trending"
	"github.com/therapytips/tipsgen/internal/youtube"
)

// NewBuildCmd creates the build command.
func NewBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the static site",
		Long: `Build fetches content from the TherapyTips API and renders the site into
./builds/{env}.

The environment comes from --env, then NODE_ENV or BUILD_ENV, then the shape
of API_BASE_URL. When none of them names an environment, dev, stage and prod
are built one after another.

Environments differ in:
- dev:   local API, readable output, build info comment in every page
- stage: staging API, minified output, build info comment in every page
- prod:  production API, minified output

Examples:
  # Build every environment
  tipsgen build

  # Build production only
  tipsgen build --env=prod

  # Build staging with photos and write a Markdown report
  tipsgen build --env=stage -p --report build-report.md`,
		Args: cobra.NoArgs,
		RunE: runBuildCmd,
	}

	cmd.Flags().String("env", "",
		"Environment to build: dev, stage or prod")
	cmd.Flags().BoolP("copy-photos", "p", false,
		"Copy the photos directory into the build")
	cmd.Flags().Bool("include-photos", false,
		"Alias for --copy-photos")
	cmd.Flags().String("report", "",
		"Write a Markdown build report to the given file")
	cmd.Flags().StringP("config", "c", "",
		"Site file path (default: .tipsgen.yaml in current or home directory)")
	addHistoryFlags(cmd)

	return cmd
}

// runBuildCmd executes the build command.
func runBuildCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd, config.NewViper())
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Verbose)
	ctx, cancel := signalContext(logger)
	defer cancel()

	return runBuild(ctx, cfg, cmd.OutOrStdout(), logger)
}

// buildConfig creates a Config from defaults, the site file, the process
// environment and cobra flags, in that order of precedence.
// Nothing is written before it returns.
func buildConfig(cmd *cobra.Command, v *viper.Viper) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	if err := loadSiteFile(cmd, cfg); err != nil {
		return nil, err
	}

	config.ApplyEnv(cfg, v)

	envFlag, err := cmd.Flags().GetString("env")
	if err != nil {
		return nil, err
	}
	cfg.Environments, err = config.ResolveEnvironments(envFlag, v)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	for _, name := range []string{"copy-photos", "include-photos"} {
		on, err := cmd.Flags().GetBool(name)
		if err != nil {
			return nil, err
		}
		if on {
			cfg.CopyPhotos = true
		}
	}

	cfg.ReportFile, err = cmd.Flags().GetString("report")
	if err != nil {
		return nil, err
	}
	if err := historyFlags(cmd, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// runBuild builds every configured environment in order and stops at the
// first failure.
func runBuild(ctx context.Context, cfg *config.Config, out io.Writer, logger *slog.Logger) error {
	logger.Info("starting build",
		"environments", cfg.Environments,
		"copyPhotos", cfg.CopyPhotos,
		"saveHistory", cfg.SaveHistory,
	)

	renderer, err := render.New(render.Options{
		TemplatesDir: cfg.TemplatesDir,
		AssetsDir:    cfg.AssetsDir,
		PhotosDir:    cfg.PhotosDir,
		Logger:       logger,
	})
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	videos, err := youtube.NewFetcher(ctx, cfg.YouTubeAPIKey, youtube.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create YouTube client: %w", err)
	}
	if !videos.Enabled() {
		logger.Warn("YT_API_KEY is not set; videos will be left out")
	}

	source, err := trending.New(ctx, cfg.Trending, cfg.Site.SiteURL, logger)
	if err != nil {
		return fmt.Errorf("failed to create trending source: %w", err)
	}

	writer, closeReport, err := reportWriter(cfg, out)
	if err != nil {
		return err
	}
	defer closeReport()

	db := openHistory(cfg, logger)
	if db != nil {
		defer db.Close()
	}

	start := time.Now()
	for _, env := range cfg.Environments {
		if err := ctx.Err(); err != nil {
			return err
		}

		build, err := buildEnvironment(ctx, cfg, env, buildDeps{
			renderer: renderer,
			videos:   videos,
			trending: source,
			db:       db,
			logger:   logger,
		}, out)

		if _, werr := writer.Write(build); werr != nil {
			logger.Error("report failed", "env", env, "error", werr)
		}
		if err != nil {
			return fmt.Errorf("build %s failed: %w", env, err)
		}
	}

	fmt.Fprintf(out, "Built %d environment(s) in %s\n", len(cfg.Environments), time.Since(start).Round(time.Millisecond))
	return nil
}

// buildDeps are shared by the builds of one invocation.
type buildDeps struct {
	renderer *render.Renderer
	videos   *youtube.Fetcher
	trending trending.Source
	db       *database.HistoryDB
	logger   *slog.Logger
}

// buildEnvironment runs the pipeline of one environment. The returned build
// is never nil so failures can still be reported.
func buildEnvironment(ctx context.Context, cfg *config.Config, env config.Environment, deps buildDeps, out io.Writer) (*model.Build, error) {
	bc := cfg.BuildConfig(env)
	build := model.NewBuild(env.String(), cfg.OutputDir(env))

	client, err := api.NewClient(bc.APIBaseURL,
		api.WithLogger(deps.logger),
		api.WithUserAgent(cfg.UserAgent),
	)
	if err != nil {
		build.Err = err
		build.ErrorMessage = err.Error()
		return build, err
	}

	agg := aggregate.New(client, deps.videos, deps.trending, aggregate.PlanFromSite(cfg.Site),
		aggregate.WithLogger(deps.logger),
	)

	p := pipeline.New(pipeline.WithLogger(deps.logger))
	p.AddSteps(
		pipeline.NewAggregateStep(agg),
		pipeline.NewRenderStep(deps.renderer, bc),
		pipeline.NewManifestStep(),
	)
	if deps.db != nil {
		p.AddFinally(pipeline.NewRecordStep(deps.db, deps.logger))
	}

	fmt.Fprintf(out, "Building %s from %s...\n", env, bc.APIBaseURL)
	if err := p.Execute(ctx, build); err != nil {
		return build, err
	}
	fmt.Fprintf(out, "Wrote %d page(s) to %s in %s\n",
		len(build.Pages), build.OutputDir, build.Duration().Round(time.Millisecond))
	return build, nil
}

// reportWriter prints a text summary to out and, with --report, appends a
// Markdown report per environment to the report file.
func reportWriter(cfg *config.Config, out io.Writer) (report.Writer, func(), error) {
	text := report.NewSimpleWriter(out, report.WithVerbose(cfg.Verbose))
	if cfg.ReportFile == "" {
		return text, func() {}, nil
	}

	if dir := filepath.Dir(cfg.ReportFile); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, nil, fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create report file: %w", err)
	}
	return report.NewMultiWriter(text, report.NewMarkdownWriter(f)), func() { _ = f.Close() }, nil
}
