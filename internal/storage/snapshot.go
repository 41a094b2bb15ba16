package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/OliverMaketso/alx-files-manager/internal/models"
)

// Snapshot is a full export of the datastore, including password hashes, so
// records can be moved between backends without resetting credentials.
type Snapshot struct {
	Users []models.User
	Files []models.File
}

// SnapshotCounts summarises a snapshot for logging and verification.
type SnapshotCounts struct {
	Users   int
	Files   int
	Folders int
}

// Counts tallies the snapshot contents.
func (s Snapshot) Counts() SnapshotCounts {
	counts := SnapshotCounts{Users: len(s.Users), Files: len(s.Files)}
	for _, file := range s.Files {
		if file.IsFolder() {
			counts.Folders++
		}
	}
	return counts
}

// LoadSnapshotFromJSON reads the JSON datastore at path into a snapshot.
// Records are ordered by creation time so foreign keys resolve on import.
func LoadSnapshotFromJSON(path string) (Snapshot, error) {
	file, err := os.Open(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("open store file: %w", err)
	}
	defer file.Close()

	var data dataset
	if err := json.NewDecoder(file).Decode(&data); err != nil {
		if errors.Is(err, io.EOF) {
			return Snapshot{}, nil
		}
		return Snapshot{}, fmt.Errorf("decode store file: %w", err)
	}

	snapshot := Snapshot{
		Users: make([]models.User, 0, len(data.Users)),
		Files: make([]models.File, 0, len(data.Files)),
	}
	for _, user := range data.Users {
		snapshot.Users = append(snapshot.Users, user)
	}
	for _, record := range data.Files {
		snapshot.Files = append(snapshot.Files, record)
	}
	sort.Slice(snapshot.Users, func(i, j int) bool {
		if snapshot.Users[i].CreatedAt.Equal(snapshot.Users[j].CreatedAt) {
			return snapshot.Users[i].ID < snapshot.Users[j].ID
		}
		return snapshot.Users[i].CreatedAt.Before(snapshot.Users[j].CreatedAt)
	})
	sortFiles(snapshot.Files)
	return snapshot, nil
}

// ImportSnapshotToPostgres bulk loads the snapshot into the Postgres schema.
// The target tables must be empty; the import runs in a single transaction.
func ImportSnapshotToPostgres(ctx context.Context, dsn string, snapshot Snapshot) error {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("open postgres pool: %w", err)
	}
	defer pool.Close()

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, table := range []string{"users", "files"} {
		var existing int64
		if err := tx.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&existing); err != nil {
			return fmt.Errorf("inspect %s: %w", table, err)
		}
		if existing > 0 {
			return fmt.Errorf("table %s is not empty", table)
		}
	}

	userRows := make([][]any, 0, len(snapshot.Users))
	for _, user := range snapshot.Users {
		userRows = append(userRows, []any{user.ID, user.Email, user.PasswordHash, user.CreatedAt})
	}
	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"users"},
		[]string{"id", "email", "password_hash", "created_at"},
		pgx.CopyFromRows(userRows),
	); err != nil {
		return fmt.Errorf("copy users: %w", err)
	}

	fileRows := make([][]any, 0, len(snapshot.Files))
	for _, record := range snapshot.Files {
		fileRows = append(fileRows, []any{
			record.ID,
			record.UserID,
			record.Name,
			string(record.Kind),
			record.ParentID,
			record.IsPublic,
			record.LocalPath,
			record.CreatedAt,
		})
	}
	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"files"},
		[]string{"id", "user_id", "name", "type", "parent_id", "is_public", "local_path", "created_at"},
		pgx.CopyFromRows(fileRows),
	); err != nil {
		return fmt.Errorf("copy files: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}
