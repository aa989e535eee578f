package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/therapytips/tipsgen/internal/model"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) (*HistoryDB, func()) {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	cleanup := func() {
		_ = db.Close()
	}
	return db, cleanup
}

func newTestBuild(env string, started time.Time) *model.Build {
	b := model.NewBuild(env, filepath.Join("builds", env))
	b.StartedAt = started
	b.FinishedAt = started.Add(3 * time.Second)
	b.Steps = []string{"aggregate", "render", "manifest"}
	b.Pages = []model.RenderedPage{{Path: "index.html"}, {Path: "articles.html"}}
	b.Files = []model.OutputFile{
		{Path: "articles.html", Size: 10, Digest: "aa"},
		{Path: "index.html", Size: 20, Digest: "bb"},
	}
	return b
}

// TestOpen tests database opening and creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := os.Stat(filepath.Join(dbDir, FileName)); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
		if db.Path() != filepath.Join(dbDir, FileName) {
			t.Errorf("unexpected path %q", db.Path())
		}
	})

	t.Run("CreateIfNotExists=false returns error when database does not exist", func(t *testing.T) {
		t.Parallel()

		_, err := Open(filepath.Join(t.TempDir(), "missing"), Options{CreateIfNotExists: false})
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected not-exist error, got %v", err)
		}
	})

	t.Run("reopens an existing database", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		db, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		if err := db.SaveBuild(context.Background(), newTestBuild("dev", time.Now())); err != nil {
			t.Fatalf("failed to save build: %v", err)
		}
		_ = db.Close()

		db, err = Open(dir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("failed to reopen database: %v", err)
		}
		defer db.Close()

		builds, err := db.RecentBuilds(context.Background(), "", 10)
		if err != nil {
			t.Fatalf("failed to list builds: %v", err)
		}
		if len(builds) != 1 {
			t.Errorf("expected 1 build, got %d", len(builds))
		}
	})
}

// TestSaveBuild tests storing and reading back builds.
func TestSaveBuild(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	base := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

	t.Run("stores the summary and manifest", func(t *testing.T) {
		t.Parallel()

		db, cleanup := setupTestDB(t)
		defer cleanup()

		build := newTestBuild("stage", base)
		if err := db.SaveBuild(ctx, build); err != nil {
			t.Fatalf("failed to save build: %v", err)
		}

		builds, err := db.RecentBuilds(ctx, "stage", 5)
		if err != nil {
			t.Fatalf("failed to list builds: %v", err)
		}
		if len(builds) != 1 {
			t.Fatalf("expected 1 build, got %d", len(builds))
		}
		got := builds[0]
		if got.ID != build.ID || !got.Succeeded || got.Pages != 2 || got.Files != 2 || got.TotalSize != 30 {
			t.Errorf("unexpected record %+v", got)
		}
		if !got.StartedAt.Equal(base) || got.Duration() != 3*time.Second {
			t.Errorf("unexpected timing %v / %v", got.StartedAt, got.Duration())
		}
		if len(got.Steps) != 3 || got.Steps[2] != "manifest" {
			t.Errorf("unexpected steps %v", got.Steps)
		}

		files, err := db.BuildFiles(ctx, build.ID)
		if err != nil {
			t.Fatalf("failed to list files: %v", err)
		}
		if len(files) != 2 || files[0].Path != "articles.html" || files[1].Digest != "bb" {
			t.Errorf("unexpected files %v", files)
		}
	})

	t.Run("failed builds keep their error", func(t *testing.T) {
		t.Parallel()

		db, cleanup := setupTestDB(t)
		defer cleanup()

		build := newTestBuild("dev", base)
		build.Files = nil
		build.Err = errors.New("api down")
		build.ErrorMessage = "aggregate content: api down"
		if err := db.SaveBuild(ctx, build); err != nil {
			t.Fatalf("failed to save build: %v", err)
		}

		builds, err := db.RecentBuilds(ctx, "dev", 5)
		if err != nil {
			t.Fatalf("failed to list builds: %v", err)
		}
		if len(builds) != 1 || builds[0].Succeeded || builds[0].Error != build.ErrorMessage {
			t.Errorf("unexpected record %+v", builds)
		}
	})

	t.Run("saving again replaces the manifest", func(t *testing.T) {
		t.Parallel()

		db, cleanup := setupTestDB(t)
		defer cleanup()

		build := newTestBuild("prod", base)
		if err := db.SaveBuild(ctx, build); err != nil {
			t.Fatalf("failed to save build: %v", err)
		}
		build.Files = build.Files[:1]
		if err := db.SaveBuild(ctx, build); err != nil {
			t.Fatalf("failed to save build again: %v", err)
		}

		files, err := db.BuildFiles(ctx, build.ID)
		if err != nil {
			t.Fatalf("failed to list files: %v", err)
		}
		if len(files) != 1 {
			t.Errorf("expected 1 file, got %v", files)
		}
	})
}

// TestRecentBuilds tests ordering and filtering.
func TestRecentBuilds(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, cleanup := setupTestDB(t)
	t.Cleanup(cleanup)

	base := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	for i, env := range []string{"dev", "prod", "dev", "dev"} {
		if err := db.SaveBuild(ctx, newTestBuild(env, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("failed to save build: %v", err)
		}
	}

	t.Run("filters by environment newest first", func(t *testing.T) {
		t.Parallel()

		builds, err := db.RecentBuilds(ctx, "dev", 2)
		if err != nil {
			t.Fatalf("failed to list builds: %v", err)
		}
		if len(builds) != 2 {
			t.Fatalf("expected 2 builds, got %d", len(builds))
		}
		if !builds[0].StartedAt.Equal(base.Add(3*time.Hour)) || !builds[1].StartedAt.Equal(base.Add(2*time.Hour)) {
			t.Errorf("unexpected order %v, %v", builds[0].StartedAt, builds[1].StartedAt)
		}
	})

	t.Run("empty environment lists everything", func(t *testing.T) {
		t.Parallel()

		builds, err := db.RecentBuilds(ctx, "", 10)
		if err != nil {
			t.Fatalf("failed to list builds: %v", err)
		}
		if len(builds) != 4 {
			t.Errorf("expected 4 builds, got %d", len(builds))
		}
	})
}

// TestUploads tests storing uploads.
func TestUploads(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, cleanup := setupTestDB(t)
	defer cleanup()

	base := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	first := &UploadRecord{
		Environment: "prod",
		Host:        "ftp.example.com:21",
		RemotePath:  "/",
		Files:       12,
		Bytes:       4096,
		StartedAt:   base,
		FinishedAt:  base.Add(time.Minute),
		Succeeded:   true,
	}
	second := &UploadRecord{
		Environment: "prod",
		Host:        "ftp.example.com:21",
		RemotePath:  "/",
		StartedAt:   base.Add(time.Hour),
		FinishedAt:  base.Add(time.Hour),
		Error:       "530 login incorrect",
	}
	for _, u := range []*UploadRecord{first, second} {
		if err := db.SaveUpload(ctx, u); err != nil {
			t.Fatalf("failed to save upload: %v", err)
		}
	}
	if first.ID == 0 || second.ID <= first.ID {
		t.Errorf("expected increasing ids, got %d and %d", first.ID, second.ID)
	}

	uploads, err := db.RecentUploads(ctx, "prod", 10)
	if err != nil {
		t.Fatalf("failed to list uploads: %v", err)
	}
	if len(uploads) != 2 {
		t.Fatalf("expected 2 uploads, got %d", len(uploads))
	}
	if uploads[0].ID != second.ID || uploads[0].Succeeded || uploads[0].Error != second.Error {
		t.Errorf("unexpected newest upload %+v", uploads[0])
	}
	if uploads[1].Bytes != 4096 || !uploads[1].FinishedAt.Equal(base.Add(time.Minute)) {
		t.Errorf("unexpected oldest upload %+v", uploads[1])
	}

	others, err := db.RecentUploads(ctx, "stage", 10)
	if err != nil {
		t.Fatalf("failed to list uploads: %v", err)
	}
	if len(others) != 0 {
		t.Errorf("expected no stage uploads, got %d", len(others))
	}
}

// TestParseTimestamp tests timestamp parsing.
func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	want := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	for _, s := range []string{formatTimestamp(want), "2025-01-02 03:04:05", "2025-01-02T03:04:05Z"} {
		if got := parseTimestamp(s); !got.Equal(want) {
			t.Errorf("parseTimestamp(%q) = %v", s, got)
		}
	}
	if !parseTimestamp("").IsZero() || !parseTimestamp("yesterday").IsZero() {
		t.Error("expected zero time for unknown input")
	}
}
