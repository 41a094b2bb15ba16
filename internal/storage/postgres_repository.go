package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/OliverMaketso/alx-files-manager/internal/models"
)

type postgresRepository struct {
	pool *pgxpool.Pool
	cfg  PostgresConfig
}

// NewPostgresRepository opens a Postgres-backed repository. The caller must
// ensure the schema has been applied prior to invoking this constructor.
func NewPostgresRepository(dsn string, opts ...PostgresOption) (Repository, error) {
	cfg := newPostgresConfig(dsn, opts...)
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("postgres dsn required")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	if cfg.MaxConnections > 0 {
		poolCfg.MaxConns = cfg.MaxConnections
	}
	if cfg.MinConnections > 0 {
		poolCfg.MinConns = cfg.MinConnections
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	if cfg.HealthCheckInterval > 0 {
		poolCfg.HealthCheckPeriod = cfg.HealthCheckInterval
	}
	if cfg.ConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}
	if cfg.ApplicationName != "" {
		if poolCfg.ConnConfig.RuntimeParams == nil {
			poolCfg.ConnConfig.RuntimeParams = make(map[string]string)
		}
		poolCfg.ConnConfig.RuntimeParams["application_name"] = cfg.ApplicationName
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	return &postgresRepository{pool: pool, cfg: cfg}, nil
}

// Close releases the connection pool resources.
func (r *postgresRepository) Close(ctx context.Context) error {
	if r == nil || r.pool == nil {
		return nil
	}
	done := make(chan struct{})
	go func() {
		r.pool.Close()
		close(done)
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

func (r *postgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *postgresRepository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

func (r *postgresRepository) CountFiles(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM files`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count files: %w", err)
	}
	return count, nil
}

func (r *postgresRepository) CreateUser(ctx context.Context, email, password string) (models.User, error) {
	normalized := normalizeEmail(email)
	if normalized == "" {
		return models.User{}, errors.New("email is required")
	}
	if password == "" {
		return models.User{}, errors.New("password is required")
	}
	hashed, err := hashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}
	id, err := generateID()
	if err != nil {
		return models.User{}, err
	}

	user := models.User{ID: id, Email: normalized, PasswordHash: hashed, CreatedAt: nowUTC()}
	_, err = r.pool.Exec(ctx, `
INSERT INTO users (id, email, password_hash, created_at)
VALUES ($1, $2, $3, $4)
`, user.ID, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

func (r *postgresRepository) AuthenticateUser(ctx context.Context, email, password string) (models.User, error) {
	if password == "" {
		return models.User{}, ErrInvalidCredentials
	}
	user, ok, err := r.FindUserByEmail(ctx, email)
	if err != nil {
		return models.User{}, err
	}
	if !ok {
		return models.User{}, ErrInvalidCredentials
	}
	if err := verifyPassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}
	return user, nil
}

func (r *postgresRepository) GetUser(ctx context.Context, id string) (models.User, bool, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, email, password_hash, created_at
FROM users
WHERE id = $1
`, id)
	return scanUser(row)
}

func (r *postgresRepository) FindUserByEmail(ctx context.Context, email string) (models.User, bool, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, email, password_hash, created_at
FROM users
WHERE email = $1
`, normalizeEmail(email))
	return scanUser(row)
}

func (r *postgresRepository) CreateFile(ctx context.Context, params CreateFileParams) (models.File, error) {
	name := NormalizeName(params.Name)
	if name == "" {
		return models.File{}, errors.New("name is required")
	}
	if !models.ValidKind(params.Kind) {
		return models.File{}, errors.New("invalid file type")
	}
	parentID := params.ParentID
	if parentID == "" {
		parentID = models.RootFolderID
	}
	id, err := generateID()
	if err != nil {
		return models.File{}, err
	}

	file := models.File{
		ID:        id,
		UserID:    params.UserID,
		Name:      name,
		Kind:      params.Kind,
		ParentID:  parentID,
		IsPublic:  params.IsPublic,
		LocalPath: params.LocalPath,
		CreatedAt: nowUTC(),
	}
	_, err = r.pool.Exec(ctx, `
INSERT INTO files (id, user_id, name, type, parent_id, is_public, local_path, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`, file.ID, file.UserID, file.Name, string(file.Kind), file.ParentID, file.IsPublic, file.LocalPath, file.CreatedAt)
	if err != nil {
		return models.File{}, fmt.Errorf("insert file: %w", err)
	}
	return file, nil
}

func (r *postgresRepository) GetFile(ctx context.Context, id string) (models.File, bool, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, user_id, name, type, parent_id, is_public, local_path, created_at
FROM files
WHERE id = $1
`, id)
	return scanFile(row)
}

func (r *postgresRepository) GetUserFile(ctx context.Context, id, userID string) (models.File, bool, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, user_id, name, type, parent_id, is_public, local_path, created_at
FROM files
WHERE id = $1 AND user_id = $2
`, id, userID)
	return scanFile(row)
}

func (r *postgresRepository) ListFiles(ctx context.Context, userID, parentID string, page int) ([]models.File, error) {
	if parentID == "" {
		parentID = models.RootFolderID
	}
	if page < 0 {
		page = 0
	}
	rows, err := r.pool.Query(ctx, `
SELECT id, user_id, name, type, parent_id, is_public, local_path, created_at
FROM files
WHERE user_id = $1 AND parent_id = $2
ORDER BY created_at, id
LIMIT $3 OFFSET $4
`, userID, parentID, PageSize, page*PageSize)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	files := make([]models.File, 0, PageSize)
	for rows.Next() {
		file, ok, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		if ok {
			files = append(files, file)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return files, nil
}

func (r *postgresRepository) SetFilePublic(ctx context.Context, id, userID string, public bool) (models.File, error) {
	tag, err := r.pool.Exec(ctx, `
UPDATE files SET is_public = $3
WHERE id = $1 AND user_id = $2
`, id, userID, public)
	if err != nil {
		return models.File{}, fmt.Errorf("update file visibility: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.File{}, ErrNotFound
	}
	file, ok, err := r.GetUserFile(ctx, id, userID)
	if err != nil {
		return models.File{}, err
	}
	if !ok {
		return models.File{}, ErrNotFound
	}
	return file, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (models.User, bool, error) {
	var user models.User
	if err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, false, nil
		}
		return models.User{}, false, err
	}
	return user, true, nil
}

func scanFile(row rowScanner) (models.File, bool, error) {
	var file models.File
	var kind string
	if err := row.Scan(&file.ID, &file.UserID, &file.Name, &kind, &file.ParentID, &file.IsPublic, &file.LocalPath, &file.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.File{}, false, nil
		}
		return models.File{}, false, err
	}
	file.Kind = models.FileKind(kind)
	return file, true, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ Repository = (*postgresRepository)(nil)
