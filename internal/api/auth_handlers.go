package api

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/OliverMaketso/alx-files-manager/internal/storage"
)

// Connect handles GET /connect. Credentials arrive as a Basic Authorization
// header; success mints a session token the client presents as X-Token.
func (h *Handler) Connect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
		return
	}

	email, password, ok := basicCredentials(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, errUnauthorized)
		return
	}
	user, err := h.Store.AuthenticateUser(r.Context(), email, password)
	if err != nil {
		if !errors.Is(err, storage.ErrInvalidCredentials) {
			h.Logger.Error("authenticate user failed", "error", err)
		}
		writeError(w, http.StatusUnauthorized, errUnauthorized)
		return
	}
	token, err := h.sessionManager().Create(r.Context(), user.ID)
	if err != nil {
		h.Logger.Error("create session failed", "userId", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, errInternal)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// Disconnect handles GET /disconnect.
func (h *Handler) Disconnect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
		return
	}

	if _, ok := h.requireAuthenticatedUser(w, r); !ok {
		return
	}
	token := ExtractToken(r)
	if err := h.sessionManager().Revoke(r.Context(), token); err != nil {
		h.Logger.Error("revoke session failed", "error", err)
		writeError(w, http.StatusInternalServerError, errInternal)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// basicCredentials decodes a Basic Authorization header into an email and
// password pair. The password keeps any colons after the first separator.
func basicCredentials(r *http.Request) (string, string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "Basic "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(header[len(prefix):])
	if err != nil {
		return "", "", false
	}
	email, password, found := strings.Cut(string(decoded), ":")
	if !found || email == "" {
		return "", "", false
	}
	return email, password, true
}
