package history

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// schemaVersions maps each embedded file to its numeric prefix, so
// "001_init.sql" is version 1. The applied version lives in PRAGMA user_version.
func schemaVersions() (map[int]string, int, error) {
	names, err := fs.Glob(migrationFS, "migrations/*.sql")
	if err != nil {
		return nil, 0, fmt.Errorf("list migrations: %w", err)
	}
	versions := make(map[int]string, len(names))
	latest := 0
	for _, name := range names {
		base := strings.TrimPrefix(name, "migrations/")
		prefix, _, _ := strings.Cut(base, "_")
		v, err := strconv.Atoi(prefix)
		if err != nil || v <= 0 {
			return nil, 0, fmt.Errorf("migration %s: name must start with a positive number", base)
		}
		if _, dup := versions[v]; dup {
			return nil, 0, fmt.Errorf("migration %s: duplicate version %d", base, v)
		}
		versions[v] = name
		latest = max(latest, v)
	}
	return versions, latest, nil
}

func (s *Store) applyMigrations(ctx context.Context) error {
	versions, latest, err := schemaVersions()
	if err != nil {
		return err
	}

	var current int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("history database schema v%d is newer than this binary (v%d)", current, latest)
	}

	for v := current + 1; v <= latest; v++ {
		name, ok := versions[v]
		if !ok {
			return fmt.Errorf("missing migration for schema v%d", v)
		}
		script, err := migrationFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration v%d: %w", v, err)
		}
		if _, err := tx.ExecContext(ctx, string(script)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration v%d: %w", v, err)
		}
		// PRAGMA does not accept bound parameters.
		if _, err := tx.ExecContext(ctx, "PRAGMA user_version = "+strconv.Itoa(v)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record schema v%d: %w", v, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration v%d: %w", v, err)
		}
	}
	return nil
}
