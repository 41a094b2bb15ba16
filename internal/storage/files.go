package storage

import (
	"context"
	"errors"
	"strings"

	"github.com/OliverMaketso/alx-files-manager/internal/models"
	"golang.org/x/text/unicode/norm"
)

// CreateFile inserts a file or folder record. Parent constraints are enforced
// by the caller; the storage layer records what it is given.
func (s *Storage) CreateFile(ctx context.Context, params CreateFileParams) (models.File, error) {
	if err := ctx.Err(); err != nil {
		return models.File{}, err
	}
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

	s.mu.Lock()
	defer s.mu.Unlock()

	updated := cloneDataset(s.data)
	updated.Files[file.ID] = file
	if err := s.persistDataset(updated); err != nil {
		return models.File{}, err
	}
	s.data = updated
	return file, nil
}

// GetFile fetches a file record by id regardless of ownership.
func (s *Storage) GetFile(ctx context.Context, id string) (models.File, bool, error) {
	if err := ctx.Err(); err != nil {
		return models.File{}, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	file, ok := s.data.Files[id]
	return file, ok, nil
}

// GetUserFile fetches a file record constrained by both id and owner. A
// record owned by someone else is reported as absent.
func (s *Storage) GetUserFile(ctx context.Context, id, userID string) (models.File, bool, error) {
	file, ok, err := s.GetFile(ctx, id)
	if err != nil || !ok {
		return models.File{}, false, err
	}
	if file.UserID != userID {
		return models.File{}, false, nil
	}
	return file, true, nil
}

// ListFiles returns up to PageSize records owned by userID whose parent
// matches parentID, ordered oldest first. page is zero based.
func (s *Storage) ListFiles(ctx context.Context, userID, parentID string, page int) ([]models.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if parentID == "" {
		parentID = models.RootFolderID
	}
	if page < 0 {
		page = 0
	}

	s.mu.RLock()
	matched := make([]models.File, 0)
	for _, file := range s.data.Files {
		if file.UserID == userID && file.ParentID == parentID {
			matched = append(matched, file)
		}
	}
	s.mu.RUnlock()

	sortFiles(matched)

	start := page * PageSize
	if start >= len(matched) {
		return []models.File{}, nil
	}
	end := start + PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

// SetFilePublic toggles visibility on a record owned by userID. The ownership
// check doubles as the existence check, so a mismatch surfaces as ErrNotFound.
func (s *Storage) SetFilePublic(ctx context.Context, id, userID string, public bool) (models.File, error) {
	if err := ctx.Err(); err != nil {
		return models.File{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, ok := s.data.Files[id]
	if !ok || file.UserID != userID {
		return models.File{}, ErrNotFound
	}

	file.IsPublic = public
	updated := cloneDataset(s.data)
	updated.Files[id] = file
	if err := s.persistDataset(updated); err != nil {
		return models.File{}, err
	}
	s.data = updated
	return file, nil
}

// NormalizeName trims and NFC-normalises a user-supplied file name so lookups
// and display agree on one byte representation.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}
