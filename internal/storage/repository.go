package storage

import (
	"context"

	"github.com/OliverMaketso/alx-files-manager/internal/models"
)

// Repository exposes the datastore operations required by the API handlers
// and the thumbnail worker.
type Repository interface {
	Ping(ctx context.Context) error
	CountUsers(ctx context.Context) (int64, error)
	CountFiles(ctx context.Context) (int64, error)

	CreateUser(ctx context.Context, email, password string) (models.User, error)
	AuthenticateUser(ctx context.Context, email, password string) (models.User, error)
	GetUser(ctx context.Context, id string) (models.User, bool, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, bool, error)

	CreateFile(ctx context.Context, params CreateFileParams) (models.File, error)
	GetFile(ctx context.Context, id string) (models.File, bool, error)
	GetUserFile(ctx context.Context, id, userID string) (models.File, bool, error)
	ListFiles(ctx context.Context, userID, parentID string, page int) ([]models.File, error)
	SetFilePublic(ctx context.Context, id, userID string, public bool) (models.File, error)
}

// CreateFileParams captures the attributes recorded for a new file or folder.
// LocalPath is empty for folders and points at the stored object otherwise.
type CreateFileParams struct {
	UserID    string
	Name      string
	Kind      models.FileKind
	ParentID  string
	IsPublic  bool
	LocalPath string
}

// PageSize is the fixed number of records returned by ListFiles.
const PageSize = 20

var _ Repository = (*Storage)(nil)
