package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/OliverMaketso/alx-files-manager/internal/models"
	"github.com/OliverMaketso/alx-files-manager/internal/queue"
	"github.com/OliverMaketso/alx-files-manager/internal/storage"
)

// thumbnailWidths are the size query values accepted by Download.
var thumbnailWidths = map[string]struct{}{
	"500": {},
	"250": {},
	"100": {},
}

type uploadRequest struct {
	Name     string          `json:"name"`
	Type     string          `json:"type"`
	ParentID json.RawMessage `json:"parentId"`
	IsPublic bool            `json:"isPublic"`
	Data     string          `json:"data"`
}

// Upload handles POST /files.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireAuthenticatedUser(w, r)
	if !ok {
		return
	}

	var req uploadRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, errMissingName)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, errMissingName)
		return
	}
	kind := models.FileKind(req.Type)
	if !models.ValidKind(kind) {
		writeError(w, http.StatusBadRequest, errMissingType)
		return
	}
	if req.Data == "" && kind != models.KindFolder {
		writeError(w, http.StatusBadRequest, errMissingData)
		return
	}

	parentID := parseParentID(req.ParentID)
	if parentID != models.RootFolderID {
		parent, exists, err := h.Store.GetFile(r.Context(), parentID)
		if err != nil {
			h.Logger.Error("parent lookup failed", "parentId", parentID, "error", err)
			writeError(w, http.StatusInternalServerError, errInternal)
			return
		}
		if !exists {
			writeError(w, http.StatusBadRequest, errParentNotFound)
			return
		}
		if !parent.IsFolder() {
			writeError(w, http.StatusBadRequest, errParentNoFolder)
			return
		}
	}

	params := storage.CreateFileParams{
		UserID:   user.ID,
		Name:     req.Name,
		Kind:     kind,
		ParentID: parentID,
		IsPublic: req.IsPublic,
	}
	if kind != models.KindFolder {
		data, err := base64.StdEncoding.DecodeString(req.Data)
		if err != nil {
			writeError(w, http.StatusBadRequest, errInvalidData)
			return
		}
		path, err := h.Blobs.Save(data)
		if err != nil {
			h.Logger.Error("write file content failed", "error", err)
			writeError(w, http.StatusInternalServerError, errInternal)
			return
		}
		params.LocalPath = path
	}

	file, err := h.Store.CreateFile(r.Context(), params)
	if err != nil {
		h.Logger.Error("create file failed", "error", err)
		writeError(w, http.StatusInternalServerError, errInternal)
		return
	}

	if file.Kind == models.KindImage && h.Queue != nil {
		job := queue.Job{FileID: file.ID, UserID: file.UserID}
		if err := h.Queue.Publish(r.Context(), job); err != nil {
			// The upload already succeeded, so the missing thumbnails are
			// reported but do not fail the request.
			h.Logger.Error("enqueue thumbnail job failed", "fileId", file.ID, "error", err)
		}
	}

	writeJSON(w, http.StatusCreated, newFileView(file))
}

// Show handles GET /files/{id}.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request, fileID string) {
	user, ok := h.requireAuthenticatedUser(w, r)
	if !ok {
		return
	}
	file, exists, err := h.Store.GetUserFile(r.Context(), fileID, user.ID)
	if err != nil {
		h.Logger.Error("file lookup failed", "fileId", fileID, "error", err)
		writeError(w, http.StatusInternalServerError, errInternal)
		return
	}
	if !exists {
		writeError(w, http.StatusNotFound, errNotFound)
		return
	}
	writeJSON(w, http.StatusOK, newFileView(file))
}

// Index handles GET /files.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireAuthenticatedUser(w, r)
	if !ok {
		return
	}
	parentID := strings.TrimSpace(r.URL.Query().Get("parentId"))
	if parentID == "" {
		parentID = models.RootFolderID
	}
	page := 0
	if raw := r.URL.Query().Get("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			page = parsed
		}
	}
	files, err := h.Store.ListFiles(r.Context(), user.ID, parentID, page)
	if err != nil {
		h.Logger.Error("list files failed", "parentId", parentID, "error", err)
		writeError(w, http.StatusInternalServerError, errInternal)
		return
	}
	writeJSON(w, http.StatusOK, newFileViews(files))
}

// Publish handles PUT /files/{id}/publish.
func (h *Handler) Publish(w http.ResponseWriter, r *http.Request, fileID string) {
	h.setVisibility(w, r, fileID, true)
}

// Unpublish handles PUT /files/{id}/unpublish.
func (h *Handler) Unpublish(w http.ResponseWriter, r *http.Request, fileID string) {
	h.setVisibility(w, r, fileID, false)
}

func (h *Handler) setVisibility(w http.ResponseWriter, r *http.Request, fileID string, public bool) {
	user, ok := h.requireAuthenticatedUser(w, r)
	if !ok {
		return
	}
	file, err := h.Store.SetFilePublic(r.Context(), fileID, user.ID, public)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, errNotFound)
			return
		}
		h.Logger.Error("update file visibility failed", "fileId", fileID, "error", err)
		writeError(w, http.StatusInternalServerError, errInternal)
		return
	}
	writeJSON(w, http.StatusOK, newFileView(file))
}

// Download handles GET /files/{id}/data. Authentication is optional: public
// files are served to anyone, private files only to their owner, and every
// refusal looks like a missing file.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request, fileID string) {
	file, exists, err := h.Store.GetFile(r.Context(), fileID)
	if err != nil {
		h.Logger.Error("file lookup failed", "fileId", fileID, "error", err)
		writeError(w, http.StatusInternalServerError, errInternal)
		return
	}
	if !exists {
		writeError(w, http.StatusNotFound, errNotFound)
		return
	}
	if !file.IsPublic {
		viewer, ok := UserFromContext(r.Context())
		if !ok {
			var err error
			viewer, err = h.AuthenticateRequest(r)
			if err != nil {
				if errors.Is(err, ErrStoreUnavailable) {
					writeError(w, http.StatusInternalServerError, errInternal)
					return
				}
				writeError(w, http.StatusNotFound, errNotFound)
				return
			}
		}
		if viewer.ID != file.UserID {
			writeError(w, http.StatusNotFound, errNotFound)
			return
		}
	}
	if file.IsFolder() {
		writeError(w, http.StatusBadRequest, errFolderNoData)
		return
	}

	path := file.LocalPath
	if size := r.URL.Query().Get("size"); size != "" {
		if _, ok := thumbnailWidths[size]; ok {
			path = fmt.Sprintf("%s_%s", path, size)
		}
	}
	f, info, err := h.Blobs.Open(path)
	if err != nil {
		writeError(w, http.StatusNotFound, errNotFound)
		return
	}
	defer f.Close()

	contentType := mime.TypeByExtension(filepath.Ext(file.Name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.Copy(w, f); err != nil {
		h.Logger.Error("stream file content failed", "fileId", file.ID, "error", err)
	}
}

// parseParentID accepts the parent reference as either a JSON string or a
// number, defaulting to the root sentinel.
func parseParentID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return models.RootFolderID
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		if trimmed := strings.TrimSpace(asString); trimmed != "" {
			return trimmed
		}
		return models.RootFolderID
	}
	var asNumber json.Number
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		if asNumber.String() == "0" {
			return models.RootFolderID
		}
		return asNumber.String()
	}
	return models.RootFolderID
}
