package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/OliverMaketso/alx-files-manager/internal/storage"
)

type createUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateUser handles POST /users.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
		return
	}

	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, errMissingEmail)
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, errMissingEmail)
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, errMissingPasswd)
		return
	}

	user, err := h.Store.CreateUser(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			writeError(w, http.StatusBadRequest, errAlreadyExist)
			return
		}
		h.Logger.Error("create user failed", "error", err)
		writeError(w, http.StatusInternalServerError, errInternal)
		return
	}
	writeJSON(w, http.StatusCreated, newUserView(user))
}

// Me handles GET /users/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
		return
	}
	user, ok := h.requireAuthenticatedUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newUserView(user))
}
