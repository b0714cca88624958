package service

import (
	"context"
	"errors"

	"github.com/ciclexpress/website/internal/model"
)

// ErrInvalidCredentials is returned when a username/password pair does not
// match a local account.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrUserExists is returned when registering a username or email that is
// already taken.
var ErrUserExists = errors.New("user already exists")

// GoogleUserInfo is the profile returned by the Google userinfo endpoint.
type GoogleUserInfo struct {
	Sub   string
	Email string
	Name  string
}

// AuthService defines the authentication business logic.
type AuthService interface {
	// LoginLocal validates a username/password pair against the stored hash.
	LoginLocal(ctx context.Context, username, password string) (*model.User, error)

	// Register creates a local account with a bcrypt-hashed password.
	Register(ctx context.Context, username, email, password, displayName string) (*model.User, error)

	// GetOrCreateUserFromGoogle returns the user linked to the Google subject
	// id, creating one on first sign-in.
	GetOrCreateUserFromGoogle(ctx context.Context, info *GoogleUserInfo) (*model.User, error)
}
