package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ciclexpress/website/internal/model"
	"github.com/ciclexpress/website/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// authServiceImpl is the production implementation of AuthService.
type authServiceImpl struct {
	userRepo repository.UserRepository
}

// NewAuthService creates an AuthService backed by the given user repository.
func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authServiceImpl{userRepo: userRepo}
}

// LoginLocal validates the password against the stored bcrypt hash. Unknown
// usernames and wrong passwords both return ErrInvalidCredentials so the
// login form does not reveal which accounts exist.
func (s *authServiceImpl) LoginLocal(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user.PasswordHash == "" {
		// OAuth-only account, no local password set.
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Register creates a local account after checking the username and email are
// unused.
func (s *authServiceImpl) Register(ctx context.Context, username, email, password, displayName string) (*model.User, error) {
	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  displayName,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	slog.Info("local user registered", "user_id", user.ID, "username", username)
	return user, nil
}

// GetOrCreateUserFromGoogle returns the user for the Google subject id,
// creating one on first sign-in.
func (s *authServiceImpl) GetOrCreateUserFromGoogle(ctx context.Context, info *GoogleUserInfo) (*model.User, error) {
	user, err := s.userRepo.FindByGoogleID(ctx, info.Sub)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("find google user: %w", err)
	}

	newUser := &model.User{
		Username:    info.Email,
		Email:       info.Email,
		GoogleID:    info.Sub,
		DisplayName: info.Name,
	}
	if err := s.userRepo.Create(ctx, newUser); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	slog.Info("new user created", "user_id", newUser.ID, "provider", "google")
	return newUser, nil
}
