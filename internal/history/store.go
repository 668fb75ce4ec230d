package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a build id has no record.
var ErrNotFound = errors.New("build not found")

// Store manages build history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database at path and applies
// migrations.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// Pragmas below are per connection.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// StartBuild records a new running build.
func (s *Store) StartBuild(ctx context.Context, id string, startedAt time.Time) error {
	if id == "" {
		return errors.New("build id required")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO builds (id, status, started_at) VALUES (?, ?, ?)`,
		id, string(StatusRunning), formatTime(startedAt),
	)
	if err != nil {
		return fmt.Errorf("insert build: %w", err)
	}
	return nil
}

// AddPackage attaches a produced package to a build.
func (s *Store) AddPackage(ctx context.Context, buildID string, pkg Package) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO build_packages (
            build_id, kind, manifest_id, samples, transcoded, markers, archive_path, archive_bytes
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		buildID, pkg.Kind, pkg.ManifestID, pkg.Samples, pkg.Transcoded, pkg.Markers, pkg.ArchivePath, pkg.ArchiveBytes,
	)
	if err != nil {
		return fmt.Errorf("insert package: %w", err)
	}
	return nil
}

// FinishBuild marks a build as finished. runErr, when non-nil, marks it failed
// and stores the error message.
func (s *Store) FinishBuild(ctx context.Context, id string, finishedAt time.Time, distributable string, runErr error) error {
	status := StatusSucceeded
	var message any
	if runErr != nil {
		status = StatusFailed
		message = runErr.Error()
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE builds SET status = ?, error_message = ?, finished_at = ?, distributable = ? WHERE id = ?`,
		string(status), message, formatTime(finishedAt), nullableString(distributable), id,
	)
	if err != nil {
		return fmt.Errorf("update build: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Get fetches one build with its packages.
func (s *Store) Get(ctx context.Context, id string) (*Build, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, status, error_message, started_at, finished_at, distributable FROM builds WHERE id = ?`, id)
	build, err := scanBuild(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadPackages(ctx, build); err != nil {
		return nil, err
	}
	return build, nil
}

// Recent returns up to limit builds, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Build, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, status, error_message, started_at, finished_at, distributable
         FROM builds ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer rows.Close()

	var builds []Build
	for rows.Next() {
		build, err := scanBuild(rows)
		if err != nil {
			return nil, err
		}
		builds = append(builds, *build)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate builds: %w", err)
	}
	for i := range builds {
		if err := s.loadPackages(ctx, &builds[i]); err != nil {
			return nil, err
		}
	}
	return builds, nil
}

func (s *Store) loadPackages(ctx context.Context, build *Build) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, manifest_id, samples, transcoded, markers, archive_path, archive_bytes
         FROM build_packages WHERE build_id = ? ORDER BY id`, build.ID)
	if err != nil {
		return fmt.Errorf("query packages: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var pkg Package
		if err := rows.Scan(&pkg.Kind, &pkg.ManifestID, &pkg.Samples, &pkg.Transcoded, &pkg.Markers, &pkg.ArchivePath, &pkg.ArchiveBytes); err != nil {
			return fmt.Errorf("scan package: %w", err)
		}
		build.Packages = append(build.Packages, pkg)
	}
	return rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBuild(row scanner) (*Build, error) {
	var (
		build         Build
		status        string
		message       sql.NullString
		startedAt     string
		finishedAt    sql.NullString
		distributable sql.NullString
	)
	if err := row.Scan(&build.ID, &status, &message, &startedAt, &finishedAt, &distributable); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan build: %w", err)
	}
	build.Status = Status(status)
	build.ErrorMessage = message.String
	build.StartedAt = parseTime(startedAt)
	if finishedAt.Valid {
		build.FinishedAt = parseTime(finishedAt.String)
	}
	build.Distributable = distributable.String
	return &build, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
