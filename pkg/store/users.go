package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// User is a registered account. PasswordHash never leaves this package's
// callers unredacted — handlers must not serialize it.
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	DateCreated  time.Time  `json:"date_created"`
	DateLoggedIn *time.Time `json:"date_logged_in,omitempty"`
}

// UserRepo provides user persistence.
type UserRepo struct {
	s *Store
}

// GetByEmail fetches a user by email, ErrNotFound when absent.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := r.s.rebind(`
	SELECT id, username, email, password_hash, date_created, date_logged_in
	FROM users WHERE email = ?`)

	u := &User{}
	var loggedIn sql.NullTime
	err := r.s.db.QueryRowContext(ctx, query, email).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.DateCreated, &loggedIn)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	if loggedIn.Valid {
		u.DateLoggedIn = &loggedIn.Time
	}
	return u, nil
}

// Create inserts a new user.
func (r *UserRepo) Create(ctx context.Context, username, email, passwordHash string) error {
	query := r.s.rebind(`
	INSERT INTO users (username, email, password_hash, date_created)
	VALUES (?, ?, ?, ?)`)

	if _, err := r.s.db.ExecContext(ctx, query, username, email, passwordHash, time.Now()); err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// TouchLogin records a successful login instant.
func (r *UserRepo) TouchLogin(ctx context.Context, id int64) error {
	query := r.s.rebind(`UPDATE users SET date_logged_in = ? WHERE id = ?`)
	if _, err := r.s.db.ExecContext(ctx, query, time.Now(), id); err != nil {
		return fmt.Errorf("failed to update login time: %w", err)
	}
	return nil
}
