package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/therapytips/tipsgen/internal/model"
)

// FileName is the database file created inside the history directory.
const FileName = "tipsgen.db"

// HistoryDB stores past builds and uploads in SQLite.
type HistoryDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the history database in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s: %w", dbPath, err)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// mode=rw refuses to create a missing file.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	h := &HistoryDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := h.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return h, nil
}

// Path returns the database file path.
func (h *HistoryDB) Path() string {
	return h.dbPath
}

// Close closes the database connection.
func (h *HistoryDB) Close() error {
	return h.db.Close()
}

func (h *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id TEXT PRIMARY KEY,
		environment TEXT NOT NULL,
		output_dir TEXT NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT,
		succeeded INTEGER NOT NULL,
		error TEXT,
		pages INTEGER DEFAULT 0,
		files INTEGER DEFAULT 0,
		total_size INTEGER DEFAULT 0,
		steps TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_builds_env ON builds(environment);
	CREATE INDEX IF NOT EXISTS idx_builds_started ON builds(started_at);

	CREATE TABLE IF NOT EXISTS build_files (
		build_id TEXT NOT NULL REFERENCES builds(id) ON DELETE CASCADE,
		path TEXT NOT NULL,
		size INTEGER NOT NULL,
		digest TEXT NOT NULL,
		PRIMARY KEY (build_id, path)
	);

	CREATE TABLE IF NOT EXISTS uploads (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		environment TEXT NOT NULL,
		host TEXT NOT NULL,
		remote_path TEXT NOT NULL,
		files INTEGER DEFAULT 0,
		bytes INTEGER DEFAULT 0,
		started_at TEXT NOT NULL,
		finished_at TEXT,
		succeeded INTEGER NOT NULL,
		error TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_uploads_env ON uploads(environment);
	`

	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// BuildRecord is the stored summary of one build.
type BuildRecord struct {
	ID          string
	Environment string
	OutputDir   string
	StartedAt   time.Time
	FinishedAt  time.Time
	Succeeded   bool
	Error       string
	Pages       int
	Files       int
	TotalSize   int64
	Steps       []string
}

// Duration is the wall time of the build.
func (r BuildRecord) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// SaveBuild stores a build and its output manifest. Saving the same build
// again replaces the earlier record.
func (h *HistoryDB) SaveBuild(ctx context.Context, build *model.Build) error {
	steps, err := json.Marshal(build.Steps)
	if err != nil {
		return fmt.Errorf("failed to serialize steps: %w", err)
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
	INSERT INTO builds (id, environment, output_dir, started_at, finished_at, succeeded, error, pages, files, total_size, steps)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		finished_at = excluded.finished_at,
		succeeded = excluded.succeeded,
		error = excluded.error,
		pages = excluded.pages,
		files = excluded.files,
		total_size = excluded.total_size,
		steps = excluded.steps
	`,
		build.ID,
		build.Environment,
		build.OutputDir,
		formatTimestamp(build.StartedAt),
		formatTimestamp(build.FinishedAt),
		build.Succeeded(),
		build.ErrorMessage,
		len(build.Pages),
		len(build.Files),
		build.TotalSize(),
		string(steps),
	)
	if err != nil {
		return fmt.Errorf("failed to save build: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM build_files WHERE build_id = ?`, build.ID); err != nil {
		return fmt.Errorf("failed to clear build files: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO build_files (build_id, path, size, digest) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare build file insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range build.Files {
		if _, err := stmt.ExecContext(ctx, build.ID, f.Path, f.Size, f.Digest); err != nil {
			return fmt.Errorf("failed to save build file %s: %w", f.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit build: %w", err)
	}
	return nil
}

// RecentBuilds returns the newest builds first. An empty env matches every
// environment.
func (h *HistoryDB) RecentBuilds(ctx context.Context, env string, limit int) ([]BuildRecord, error) {
	query := `
	SELECT id, environment, output_dir, started_at, finished_at, succeeded, error, pages, files, total_size, steps
	FROM builds
	WHERE (? = '' OR environment = ?)
	ORDER BY started_at DESC
	LIMIT ?
	`

	rows, err := h.db.QueryContext(ctx, query, env, env, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query builds: %w", err)
	}
	defer rows.Close()

	var records []BuildRecord
	for rows.Next() {
		var (
			r                           BuildRecord
			started                     string
			finished, errMsg, stepsJSON sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.Environment, &r.OutputDir, &started, &finished, &r.Succeeded,
			&errMsg, &r.Pages, &r.Files, &r.TotalSize, &stepsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan build: %w", err)
		}
		r.StartedAt = parseTimestamp(started)
		r.FinishedAt = parseTimestamp(finished.String)
		r.Error = errMsg.String
		if stepsJSON.Valid && stepsJSON.String != "" {
			if err := json.Unmarshal([]byte(stepsJSON.String), &r.Steps); err != nil {
				return nil, fmt.Errorf("failed to parse steps of build %s: %w", r.ID, err)
			}
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// BuildFiles returns the manifest of a build ordered by path.
func (h *HistoryDB) BuildFiles(ctx context.Context, buildID string) ([]model.OutputFile, error) {
	rows, err := h.db.QueryContext(ctx, `
	SELECT path, size, digest FROM build_files
	WHERE build_id = ?
	ORDER BY path
	`, buildID)
	if err != nil {
		return nil, fmt.Errorf("failed to query build files: %w", err)
	}
	defer rows.Close()

	var files []model.OutputFile
	for rows.Next() {
		var f model.OutputFile
		if err := rows.Scan(&f.Path, &f.Size, &f.Digest); err != nil {
			return nil, fmt.Errorf("failed to scan build file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// UploadRecord is the stored summary of one deployment.
type UploadRecord struct {
	ID          int64
	Environment string
	Host        string
	RemotePath  string
	Files       int
	Bytes       int64
	StartedAt   time.Time
	FinishedAt  time.Time
	Succeeded   bool
	Error       string
}

// SaveUpload stores an upload and sets its ID.
func (h *HistoryDB) SaveUpload(ctx context.Context, u *UploadRecord) error {
	res, err := h.db.ExecContext(ctx, `
	INSERT INTO uploads (environment, host, remote_path, files, bytes, started_at, finished_at, succeeded, error)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		u.Environment,
		u.Host,
		u.RemotePath,
		u.Files,
		u.Bytes,
		formatTimestamp(u.StartedAt),
		formatTimestamp(u.FinishedAt),
		u.Succeeded,
		u.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to save upload: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read upload id: %w", err)
	}
	u.ID = id
	return nil
}

// RecentUploads returns the newest uploads first. An empty env matches
// every environment.
func (h *HistoryDB) RecentUploads(ctx context.Context, env string, limit int) ([]UploadRecord, error) {
	rows, err := h.db.QueryContext(ctx, `
	SELECT id, environment, host, remote_path, files, bytes, started_at, finished_at, succeeded, error
	FROM uploads
	WHERE (? = '' OR environment = ?)
	ORDER BY started_at DESC, id DESC
	LIMIT ?
	`, env, env, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query uploads: %w", err)
	}
	defer rows.Close()

	var records []UploadRecord
	for rows.Next() {
		var (
			u                UploadRecord
			started          string
			finished, errMsg sql.NullString
		)
		if err := rows.Scan(&u.ID, &u.Environment, &u.Host, &u.RemotePath, &u.Files, &u.Bytes,
			&started, &finished, &u.Succeeded, &errMsg); err != nil {
			return nil, fmt.Errorf("failed to scan upload: %w", err)
		}
		u.StartedAt = parseTimestamp(started)
		u.FinishedAt = parseTimestamp(finished.String)
		u.Error = errMsg.String
		records = append(records, u)
	}
	return records, rows.Err()
}

// storedTimestamp sorts lexically in time order.
const storedTimestamp = "2006-01-02T15:04:05.000000000Z07:00"

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(storedTimestamp)
}

// timestampFormats contains the timestamp formats that may be stored.
var timestampFormats = []string{
	storedTimestamp,
	"2006-01-02 15:04:05", // SQLite default datetime format
	"2006-01-02T15:04:05Z",
	time.RFC3339,
	time.RFC3339Nano,
}

// parseTimestamp tries each known format and returns the zero time when
// none matches.
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
