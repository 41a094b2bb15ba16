package models

import "time"

// FileKind enumerates the record types stored in the files collection.
// Folders carry no bytes; files and images both point at a stored object,
// and images additionally receive thumbnail derivatives.
type FileKind string

const (
	KindFolder FileKind = "folder"
	KindFile   FileKind = "file"
	KindImage  FileKind = "image"
)

// RootFolderID is the parent sentinel for top-level records.
const RootFolderID = "0"

// ValidKind reports whether the provided value is one of the enumerated kinds.
func ValidKind(kind FileKind) bool {
	switch kind {
	case KindFolder, KindFile, KindImage:
		return true
	}
	return false
}

// User is an account record. The password hash never leaves the storage
// layer; API responses expose id and email only.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// File describes a stored file or folder. LocalPath points at the object in
// the local byte store and is empty for folders; it is never returned to API
// callers.
type File struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Kind      FileKind  `json:"type"`
	ParentID  string    `json:"parentId"`
	IsPublic  bool      `json:"isPublic"`
	LocalPath string    `json:"localPath,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsFolder reports whether the record is a folder.
func (f File) IsFolder() bool {
	return f.Kind == KindFolder
}
