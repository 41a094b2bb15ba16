// Command migrate-json-to-postgres moves stored data from the JSON datastore
// into PostgreSQL, preserving ids and password hashes.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/OliverMaketso/alx-files-manager/internal/storage"
)

func main() {
	jsonPath := flag.String("json", "data/files_manager.json", "path to the JSON datastore to migrate")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	dsn := strings.TrimSpace(*postgresDSN)
	if dsn == "" {
		dsn = strings.TrimSpace(os.Getenv("FILES_MANAGER_POSTGRES_DSN"))
	}
	if dsn == "" {
		dsn = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}
	if dsn == "" {
		logger.Error("postgres DSN required", "hint", "set --postgres-dsn, FILES_MANAGER_POSTGRES_DSN, or DATABASE_URL")
		os.Exit(1)
	}

	snapshot, err := storage.LoadSnapshotFromJSON(*jsonPath)
	if err != nil {
		logger.Error("failed to load JSON snapshot", "error", err)
		os.Exit(1)
	}
	counts := snapshot.Counts()
	logger.Info("loaded JSON snapshot", "path", *jsonPath, "users", counts.Users, "files", counts.Files, "folders", counts.Folders)

	ctx := context.Background()

	if err := storage.EnsurePostgresSchema(ctx, dsn); err != nil {
		logger.Error("failed to ensure postgres schema", "error", err)
		os.Exit(1)
	}

	if err := storage.ImportSnapshotToPostgres(ctx, dsn, snapshot); err != nil {
		logger.Error("failed to import snapshot", "error", err)
		os.Exit(1)
	}

	if err := verifyCounts(ctx, dsn, counts); err != nil {
		logger.Error("verification failed", "error", err)
		os.Exit(1)
	}

	logger.Info("migration completed", "users", counts.Users, "files", counts.Files)
}

func verifyCounts(ctx context.Context, dsn string, counts storage.SnapshotCounts) error {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("open verification connection: %w", err)
	}
	defer pool.Close()

	checks := []struct {
		name     string
		query    string
		expected int
	}{
		{"users", "SELECT COUNT(*) FROM users", counts.Users},
		{"files", "SELECT COUNT(*) FROM files", counts.Files},
	}

	for _, check := range checks {
		var actual int
		if err := pool.QueryRow(ctx, check.query).Scan(&actual); err != nil {
			return fmt.Errorf("query %s: %w", check.name, err)
		}
		if actual != check.expected {
			return fmt.Errorf("mismatch for %s: expected %d, got %d", check.name, check.expected, actual)
		}
	}
	return nil
}
