// seed inserts a verified dev user into the local database.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/doccluster/auth-service/internal/domain"
	"github.com/doccluster/auth-service/internal/infrastructure/postgres"
	pw "github.com/doccluster/auth-service/internal/password"
	"github.com/google/uuid"
)

const (
	seedEmail    = "seed@test.local"
	seedUsername = "seeduser"
	seedPassword = "seed-password-1"
)

func main() {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	hash, err := pw.Hash(seedPassword)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	store := postgres.NewStore(pool)
	user, err := store.Users().Create(ctx, &domain.User{
		FullName:     "Seed User",
		Email:        seedEmail,
		Username:     seedUsername,
		PasswordHash: hash,
		IsVerified:   true,
		Version:      uuid.NewString(),
		AvatarURL:    "/",
		AvatarID:     "/",
		CoverInfo:    map[string]any{},
	})
	if err != nil {
		log.Fatalf("create seed user: %v", err)
	}

	fmt.Printf("seeded user %s (%s / %s)\n", user.ID, seedEmail, seedPassword)
}
