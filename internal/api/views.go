package api

import "github.com/OliverMaketso/alx-files-manager/internal/models"

type userView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func newUserView(user models.User) userView {
	return userView{ID: user.ID, Email: user.Email}
}

// fileView is the public shape of a file record. The local storage path never
// leaves the server.
type fileView struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	IsPublic bool   `json:"isPublic"`
	ParentID string `json:"parentId"`
}

func newFileView(file models.File) fileView {
	return fileView{
		ID:       file.ID,
		UserID:   file.UserID,
		Name:     file.Name,
		Type:     string(file.Kind),
		IsPublic: file.IsPublic,
		ParentID: file.ParentID,
	}
}

func newFileViews(files []models.File) []fileView {
	views := make([]fileView, 0, len(files))
	for _, file := range files {
		views = append(views, newFileView(file))
	}
	return views
}
