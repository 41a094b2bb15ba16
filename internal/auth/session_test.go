package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSessionManagerCreateAndResolve(t *testing.T) {
	manager := NewSessionManager(time.Hour, WithTokenFactory(func() string { return "fixed-token" }))
	ctx := context.Background()

	token, err := manager.Create(ctx, "user-1")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if token != "fixed-token" {
		t.Fatalf("expected injected token, got %q", token)
	}

	userID, ok, err := manager.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if !ok || userID != "user-1" {
		t.Fatalf("expected user-1, got %q ok=%v", userID, ok)
	}
}

func TestSessionManagerRejectsEmptyUserID(t *testing.T) {
	manager := NewSessionManager(time.Hour)
	if _, err := manager.Create(context.Background(), ""); !errors.Is(err, ErrInvalidUserID) {
		t.Fatalf("expected ErrInvalidUserID, got %v", err)
	}
}

func TestSessionManagerResolveUnknownToken(t *testing.T) {
	manager := NewSessionManager(time.Hour)
	ctx := context.Background()

	if _, ok, err := manager.Resolve(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected miss, ok=%v err=%v", ok, err)
	}
	if _, ok, err := manager.Resolve(ctx, ""); err != nil || ok {
		t.Fatalf("expected empty token to miss, ok=%v err=%v", ok, err)
	}
}

func TestSessionManagerRevoke(t *testing.T) {
	manager := NewSessionManager(time.Hour)
	ctx := context.Background()

	token, err := manager.Create(ctx, "user-1")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if err := manager.Revoke(ctx, token); err != nil {
		t.Fatalf("Revoke returned error: %v", err)
	}
	if _, ok, _ := manager.Resolve(ctx, token); ok {
		t.Fatal("expected token to be revoked")
	}
	if err := manager.Revoke(ctx, ""); err != nil {
		t.Fatalf("expected empty revoke to be a no-op, got %v", err)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	if err := store.Save(ctx, "tok", "user-1", -time.Second); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if _, ok, err := store.Get(ctx, "tok"); err != nil || ok {
		t.Fatalf("expected expired token to miss, ok=%v err=%v", ok, err)
	}
}

func TestMemoryStorePurgeExpired(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	if err := store.Save(ctx, "stale", "user-1", -time.Second); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if err := store.Save(ctx, "live", "user-2", time.Hour); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	if purged := store.PurgeExpired(); purged != 1 {
		t.Fatalf("PurgeExpired removed %d sessions, want 1", purged)
	}

	store.mu.RLock()
	_, staleKept := store.sessions["stale"]
	_, liveKept := store.sessions["live"]
	store.mu.RUnlock()
	if staleKept {
		t.Fatal("expected the stale session to be purged")
	}
	if !liveKept {
		t.Fatal("expected the live session to survive")
	}
}

func TestSessionManagerPingDefaults(t *testing.T) {
	manager := NewSessionManager(time.Hour)
	if err := manager.Ping(context.Background()); err != nil {
		t.Fatalf("expected memory store ping to succeed, got %v", err)
	}
}
