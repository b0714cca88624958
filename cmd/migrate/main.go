package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/ciclexpress/website/internal/logging"
	"github.com/ciclexpress/website/internal/model"
	"github.com/ciclexpress/website/internal/repository"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// migrate applies the schema and seeds the initial administrator account
// from ADMIN_USERNAME / ADMIN_PASSWORD when one does not exist yet.
func main() {
	_ = godotenv.Load()
	logging.Setup()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "data/ciclexpress.db"
	}

	db, err := repository.Open(dbPath)
	if err != nil {
		logging.Fatal("failed to open database", "error", err, "path", dbPath)
	}
	defer db.Close()
	slog.Info("schema applied", "path", dbPath)

	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		slog.Info("ADMIN_USERNAME/ADMIN_PASSWORD not set, skipping admin seed")
		return
	}

	ctx := context.Background()
	users := repository.NewSQLiteUserRepository(db)

	if _, err := users.FindByUsername(ctx, username); err == nil {
		slog.Info("admin user already exists", "username", username)
		return
	} else if !errors.Is(err, repository.ErrNotFound) {
		logging.Fatal("failed to look up admin user", "error", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logging.Fatal("failed to hash admin password", "error", err)
	}

	admin := &model.User{
		Username:     username,
		Email:        os.Getenv("ADMIN_EMAIL"),
		PasswordHash: string(hash),
		DisplayName:  "Administrador",
		IsAdmin:      true,
	}
	if err := users.Create(ctx, admin); err != nil {
		logging.Fatal("failed to create admin user", "error", err)
	}
	slog.Info("admin user created", "username", username, "id", admin.ID)
}
