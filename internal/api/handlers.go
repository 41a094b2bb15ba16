package api

import (
	"log/slog"
	"time"

	"github.com/OliverMaketso/alx-files-manager/internal/auth"
	"github.com/OliverMaketso/alx-files-manager/internal/blob"
	"github.com/OliverMaketso/alx-files-manager/internal/queue"
	"github.com/OliverMaketso/alx-files-manager/internal/storage"
)

// Handler bundles the collaborators every endpoint needs. Fields are exported
// so tests and the server wiring can swap in fakes.
type Handler struct {
	Store    storage.Repository
	Sessions *auth.SessionManager
	Queue    queue.Queue
	Blobs    *blob.DiskStore
	Logger   *slog.Logger
}

func NewHandler(store storage.Repository, sessions *auth.SessionManager, q queue.Queue, blobs *blob.DiskStore, logger *slog.Logger) *Handler {
	if sessions == nil {
		sessions = auth.NewSessionManager(24 * time.Hour)
	}
	if blobs == nil {
		blobs = blob.NewDiskStore("")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		Store:    store,
		Sessions: sessions,
		Queue:    q,
		Blobs:    blobs,
		Logger:   logger,
	}
}

func (h *Handler) sessionManager() *auth.SessionManager {
	if h.Sessions == nil {
		h.Sessions = auth.NewSessionManager(24 * time.Hour)
	}
	return h.Sessions
}
