package postgresdb

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AppliedMigration is one row of the schema_migrations tracking table.
type AppliedMigration struct {
	Version   string    `db:"version" json:"version"`
	Checksum  string    `db:"checksum" json:"checksum"`
	AppliedAt time.Time `db:"applied_at" json:"appliedAt"`
}

// Migrate runs all pending migrations found in dir of migrationsFS. Files are applied in
// name order (001_xxx.sql before 002_xxx.sql) and tracked in schema_migrations with a
// checksum. This is forward-only: an applied file that changed is an error.
func Migrate(ctx context.Context, log *slog.Logger, pool *pgxpool.Pool, migrationsFS fs.FS, dir string) error {
	if err := StatusCheck(ctx, pool); err != nil {
		return fmt.Errorf("status check database: %w", err)
	}

	log.InfoContext(ctx, "running database migrations")

	if err := createMigrationsTable(ctx, pool); err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	files, err := migrationFiles(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("get migration files: %w", err)
	}

	for _, file := range files {
		if err := applyMigration(ctx, log, pool, migrationsFS, path.Join(dir, file)); err != nil {
			return fmt.Errorf("apply migration %s: %w", file, err)
		}
	}

	log.InfoContext(ctx, "migrations complete", "files", len(files))
	return nil
}

// AppliedMigrations lists the tracked migrations in version order.
func AppliedMigrations(ctx context.Context, db Querier) ([]AppliedMigration, error) {
	return QueryRaw[AppliedMigration](ctx, db,
		`SELECT version, checksum, applied_at FROM schema_migrations ORDER BY version`)
}

func createMigrationsTable(ctx context.Context, db Querier) error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(255) PRIMARY KEY,
			checksum VARCHAR(64) NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	_, err := db.Exec(ctx, query)
	return err
}

func migrationFiles(migrationsFS fs.FS, dir string) ([]string, error) {
	var files []string

	err := fs.WalkDir(migrationsFS, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(p, ".sql") {
			files = append(files, path.Base(p))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

func applyMigration(ctx context.Context, log *slog.Logger, pool *pgxpool.Pool, migrationsFS fs.FS, filePath string) error {
	version := path.Base(filePath)

	content, err := fs.ReadFile(migrationsFS, filePath)
	if err != nil {
		return fmt.Errorf("read migration file: %w", err)
	}

	checksum := fmt.Sprintf("%x", sha256.Sum256(content))

	var existingChecksum string
	err = pool.QueryRow(ctx, "SELECT checksum FROM schema_migrations WHERE version = $1", version).Scan(&existingChecksum)
	if err == nil {
		if existingChecksum != checksum {
			return fmt.Errorf("checksum mismatch: migration %s has been modified after being applied (expected: %s, got: %s)",
				version, existingChecksum, checksum)
		}
		log.InfoContext(ctx, "migration already applied", "version", version)
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("read applied checksum: %w", err)
	}

	return WithinTran(ctx, pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, string(content)); err != nil {
			return fmt.Errorf("execute migration: %w", err)
		}

		if _, err := tx.Exec(ctx, "INSERT INTO schema_migrations (version, checksum) VALUES ($1, $2)", version, checksum); err != nil {
			return fmt.Errorf("record migration: %w", err)
		}

		log.InfoContext(ctx, "migration applied", "version", version, "checksum", checksum[:8])
		return nil
	})
}
