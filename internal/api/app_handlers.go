package api

import (
	"fmt"
	"net/http"
)

// Status handles GET /status, reporting liveness of the session backend and
// the metadata store.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
		return
	}
	redisAlive := h.sessionManager().Ping(r.Context()) == nil
	dbAlive := h.Store.Ping(r.Context()) == nil
	writeJSON(w, http.StatusOK, map[string]bool{
		"redis": redisAlive,
		"db":    dbAlive,
	})
}

// Stats handles GET /stats, reporting store counters.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
		return
	}
	users, err := h.Store.CountUsers(r.Context())
	if err != nil {
		h.Logger.Error("count users failed", "error", err)
		writeError(w, http.StatusInternalServerError, errInternal)
		return
	}
	files, err := h.Store.CountFiles(r.Context())
	if err != nil {
		h.Logger.Error("count files failed", "error", err)
		writeError(w, http.StatusInternalServerError, errInternal)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{
		"users": users,
		"files": files,
	})
}
