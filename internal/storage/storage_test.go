package storage

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	store, err := NewStorage(filepath.Join(t.TempDir(), "store.json"))
	if err != nil {
		t.Fatalf("NewStorage returned error: %v", err)
	}
	return store
}

func TestCreateUserHashesPassword(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	user, err := store.CreateUser(ctx, "Bob@Example.COM", "secret123")
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	if user.Email != "bob@example.com" {
		t.Fatalf("expected normalised email, got %q", user.Email)
	}
	if user.ID == "" {
		t.Fatal("expected a generated user id")
	}
	if strings.Contains(user.PasswordHash, "secret123") {
		t.Fatal("password stored in plaintext")
	}
	if !strings.HasPrefix(user.PasswordHash, "pbkdf2$sha256$") {
		t.Fatalf("unexpected hash format %q", user.PasswordHash)
	}
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	if _, err := store.CreateUser(ctx, "bob@example.com", "secret123"); err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	_, err := store.CreateUser(ctx, "BOB@example.com", "other456")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthenticateUser(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	created, err := store.CreateUser(ctx, "bob@example.com", "secret123")
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}

	user, err := store.AuthenticateUser(ctx, "bob@example.com", "secret123")
	if err != nil {
		t.Fatalf("AuthenticateUser returned error: %v", err)
	}
	if user.ID != created.ID {
		t.Fatalf("expected user %s, got %s", created.ID, user.ID)
	}

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{name: "wrong password", email: "bob@example.com", password: "wrong"},
		{name: "unknown email", email: "alice@example.com", password: "secret123"},
		{name: "empty password", email: "bob@example.com", password: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := store.AuthenticateUser(ctx, tc.email, tc.password); !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestStoragePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	ctx := context.Background()

	store, err := NewStorage(path)
	if err != nil {
		t.Fatalf("NewStorage returned error: %v", err)
	}
	created, err := store.CreateUser(ctx, "bob@example.com", "secret123")
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}

	reopened, err := NewStorage(path)
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	user, ok, err := reopened.GetUser(ctx, created.ID)
	if err != nil || !ok {
		t.Fatalf("expected persisted user, ok=%v err=%v", ok, err)
	}
	if user.Email != "bob@example.com" {
		t.Fatalf("unexpected email %q", user.Email)
	}
	if _, err := reopened.AuthenticateUser(ctx, "bob@example.com", "secret123"); err != nil {
		t.Fatalf("expected credentials to survive reopen, got %v", err)
	}
}

func TestPersistFailureLeavesStateUntouched(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	store.persistOverride = func(dataset) error {
		return errors.New("disk full")
	}
	if _, err := store.CreateUser(ctx, "bob@example.com", "secret123"); err == nil {
		t.Fatal("expected persist failure to surface")
	}
	store.persistOverride = nil

	count, err := store.CountUsers(ctx)
	if err != nil {
		t.Fatalf("CountUsers returned error: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no users after failed persist, got %d", count)
	}
}

func TestFindUserByEmailNormalises(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	created, err := store.CreateUser(ctx, "bob@example.com", "secret123")
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	user, ok, err := store.FindUserByEmail(ctx, "  BOB@Example.com ")
	if err != nil || !ok {
		t.Fatalf("expected lookup to succeed, ok=%v err=%v", ok, err)
	}
	if user.ID != created.ID {
		t.Fatalf("expected user %s, got %s", created.ID, user.ID)
	}
}

func TestCountUsersAndFiles(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	users, err := store.CountUsers(ctx)
	if err != nil || users != 0 {
		t.Fatalf("expected empty store, users=%d err=%v", users, err)
	}

	created, err := store.CreateUser(ctx, "bob@example.com", "secret123")
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	if _, err := store.CreateFile(ctx, CreateFileParams{UserID: created.ID, Name: "docs", Kind: "folder"}); err != nil {
		t.Fatalf("CreateFile returned error: %v", err)
	}

	users, _ = store.CountUsers(ctx)
	files, _ := store.CountFiles(ctx)
	if users != 1 || files != 1 {
		t.Fatalf("expected 1 user and 1 file, got %d and %d", users, files)
	}
}
