// Command create-user seeds a user account directly in the datastore. It is
// meant for bootstrapping environments that have no signup traffic yet.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/OliverMaketso/alx-files-manager/internal/storage"
)

func main() {
	var (
		jsonPath    string
		postgresDSN string
		email       string
		password    string
	)

	flag.StringVar(&jsonPath, "json", "", "Path to the JSON datastore")
	flag.StringVar(&postgresDSN, "postgres-dsn", "", "PostgreSQL connection string")
	flag.StringVar(&email, "email", "", "Email address for the account")
	flag.StringVar(&password, "password", "", "Password for the account")
	flag.Parse()

	if jsonPath == "" && postgresDSN == "" {
		fatalf("either --json or --postgres-dsn must be provided")
	}
	if jsonPath != "" && postgresDSN != "" {
		fatalf("only one datastore option may be provided")
	}
	if strings.TrimSpace(email) == "" {
		fatalf("--email is required")
	}
	if len(password) < 8 {
		fatalf("--password must be at least 8 characters")
	}

	repo, err := openRepository(jsonPath, postgresDSN)
	if err != nil {
		fatalf("open datastore: %v", err)
	}
	defer closeRepository(repo)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	user, err := repo.CreateUser(ctx, strings.TrimSpace(email), password)
	if err != nil {
		fatalf("create user: %v", err)
	}

	fmt.Printf("User %s created with id %s.\n", user.Email, user.ID)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func openRepository(jsonPath, postgresDSN string) (storage.Repository, error) {
	if jsonPath != "" {
		return storage.NewStorage(jsonPath)
	}
	return storage.NewPostgresRepository(postgresDSN)
}

func closeRepository(repo storage.Repository) {
	type closer interface {
		Close(context.Context) error
	}
	if c, ok := repo.(closer); ok {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = c.Close(ctx)
	}
}
