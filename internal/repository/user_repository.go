package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ciclexpress/website/internal/model"
	"github.com/rs/xid"
)

// UserRepository defines the persistence interface for user accounts.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
}

// SQLiteUserRepository is the SQLite implementation of UserRepository.
type SQLiteUserRepository struct {
	db *sql.DB
}

// NewSQLiteUserRepository creates a SQLiteUserRepository backed by the given database.
func NewSQLiteUserRepository(db *sql.DB) *SQLiteUserRepository {
	return &SQLiteUserRepository{db: db}
}

var _ UserRepository = (*SQLiteUserRepository)(nil)

const userSelectCols = `id, username, email, password_hash, google_id, display_name, is_admin, created_at, updated_at`

func scanUser(scan func(...any) error) (*model.User, error) {
	var u model.User
	var googleID sql.NullString
	err := scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &googleID,
		&u.DisplayName, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.GoogleID = googleID.String
	return &u, nil
}

// FindByID returns the user with the given id, or ErrNotFound.
func (r *SQLiteUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userSelectCols+` FROM users WHERE id = ?`, id)
	return scanUser(row.Scan)
}

// FindByUsername returns the user with the given handle, or ErrNotFound.
func (r *SQLiteUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userSelectCols+` FROM users WHERE username = ?`, username)
	return scanUser(row.Scan)
}

// FindByEmail returns the user with the given email, or ErrNotFound.
func (r *SQLiteUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userSelectCols+` FROM users WHERE email = ?`, email)
	return scanUser(row.Scan)
}

// FindByGoogleID returns the user linked to the given Google subject id, or ErrNotFound.
func (r *SQLiteUserRepository) FindByGoogleID(ctx context.Context, googleID string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userSelectCols+` FROM users WHERE google_id = ?`, googleID)
	return scanUser(row.Scan)
}

// Create inserts a new user and populates its ID and timestamps.
func (r *SQLiteUserRepository) Create(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	var googleID any
	if user.GoogleID != "" {
		googleID = user.GoogleID
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, google_id, display_name, is_admin, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Username, user.Email, user.PasswordHash, googleID,
		user.DisplayName, user.IsAdmin, user.CreatedAt, user.UpdatedAt)
	return err
}
