package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/OliverMaketso/alx-files-manager/internal/models"
)

// ErrStoreUnavailable reports that authentication could not be decided
// because a backing store failed. It maps to a 500, never a 401: an outage
// must not be mistaken for an invalid token.
var ErrStoreUnavailable = errors.New("auth store unavailable")

type contextKey string

const userContextKey contextKey = "authenticatedUser"

// TokenHeader carries the session token on authenticated requests.
const TokenHeader = "X-Token"

// ContextWithUser stores the authenticated user in the provided context.
func ContextWithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext retrieves the authenticated user from context if present.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userContextKey).(models.User)
	return user, ok
}

// ExtractToken returns the session token on the request, if any.
func ExtractToken(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(TokenHeader))
}

// AuthenticateRequest validates the session token on the request and returns
// the user it belongs to. Missing, unknown and orphaned tokens all collapse
// into the same Unauthorized error so callers leak nothing about which check
// failed; store failures surface as ErrStoreUnavailable instead.
func (h *Handler) AuthenticateRequest(r *http.Request) (models.User, error) {
	token := ExtractToken(r)
	if token == "" {
		return models.User{}, errUnauthorized
	}
	userID, ok, err := h.sessionManager().Resolve(r.Context(), token)
	if err != nil {
		h.Logger.Error("session lookup failed", "error", err)
		return models.User{}, fmt.Errorf("%w: resolve session: %v", ErrStoreUnavailable, err)
	}
	if !ok {
		return models.User{}, errUnauthorized
	}
	user, exists, err := h.Store.GetUser(r.Context(), userID)
	if err != nil {
		h.Logger.Error("user lookup failed", "userId", userID, "error", err)
		return models.User{}, fmt.Errorf("%w: load user: %v", ErrStoreUnavailable, err)
	}
	if !exists {
		return models.User{}, errUnauthorized
	}
	return user, nil
}

// WriteAuthError maps an AuthenticateRequest failure onto the wire. Store
// outages become 500 Internal Server Error, everything else the standard 401.
func WriteAuthError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrStoreUnavailable) {
		writeError(w, http.StatusInternalServerError, errInternal)
		return
	}
	writeError(w, http.StatusUnauthorized, errUnauthorized)
}

func (h *Handler) requireAuthenticatedUser(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	user, ok := UserFromContext(r.Context())
	if ok {
		return user, true
	}
	user, err := h.AuthenticateRequest(r)
	if err != nil {
		WriteAuthError(w, err)
		return models.User{}, false
	}
	return user, true
}
