package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/ciclexpress/website/internal/model"
)

func TestUserRepository_Create_AndFind(t *testing.T) {
	repo := NewSQLiteUserRepository(openTestDB(t))
	ctx := context.Background()

	u := &model.User{
		Username:     "carlos",
		Email:        "carlos@example.com",
		PasswordHash: "$2a$10$hash",
		DisplayName:  "Carlos",
		IsAdmin:      true,
	}
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID == "" {
		t.Error("expected a generated user ID")
	}

	byID, err := repo.FindByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if byID.Username != "carlos" || !byID.IsAdmin {
		t.Errorf("unexpected user: %+v", byID)
	}

	byUsername, err := repo.FindByUsername(ctx, "carlos")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if byUsername.ID != u.ID {
		t.Errorf("expected same user, got %q and %q", byUsername.ID, u.ID)
	}

	byEmail, err := repo.FindByEmail(ctx, "carlos@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if byEmail.ID != u.ID {
		t.Errorf("expected same user, got %q and %q", byEmail.ID, u.ID)
	}
}

func TestUserRepository_FindByGoogleID(t *testing.T) {
	repo := NewSQLiteUserRepository(openTestDB(t))
	ctx := context.Background()

	u := &model.User{
		Username:    "google@example.com",
		Email:       "google@example.com",
		GoogleID:    "sub-12345",
		DisplayName: "Google User",
	}
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found, err := repo.FindByGoogleID(ctx, "sub-12345")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.ID != u.ID {
		t.Errorf("expected same user, got %q and %q", found.ID, u.ID)
	}
	if found.PasswordHash != "" {
		t.Errorf("expected empty password hash for OAuth user, got %q", found.PasswordHash)
	}
}

func TestUserRepository_FindByID_NotFound(t *testing.T) {
	repo := NewSQLiteUserRepository(openTestDB(t))

	_, err := repo.FindByID(context.Background(), "no-such-user")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepository_Create_DuplicateUsername(t *testing.T) {
	repo := NewSQLiteUserRepository(openTestDB(t))
	ctx := context.Background()

	if err := repo.Create(ctx, &model.User{Username: "dup", Email: "a@example.com"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.Create(ctx, &model.User{Username: "dup", Email: "b@example.com"}); err == nil {
		t.Error("expected an error for a duplicate username")
	}
}
