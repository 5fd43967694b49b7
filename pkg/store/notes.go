package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Note is a private note owned by one user.
type Note struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Content     string    `json:"content"`
	Image       string    `json:"image"`
	Position    string    `json:"position"`
	Hidden      string    `json:"hidden"`
	DateCreated time.Time `json:"date_created"`
	Categories  string    `json:"categories"`
	UserEmail   string    `json:"-"`
}

// NoteRepo provides note persistence, scoped by the owner's email.
type NoteRepo struct {
	s *Store
}

const noteColumns = `id, title, slug, content, image, position, hidden, date_created, categories, user_email`

func scanNote(row interface{ Scan(...interface{}) error }) (*Note, error) {
	n := &Note{}
	var created sql.NullTime
	err := row.Scan(&n.ID, &n.Title, &n.Slug, &n.Content, &n.Image,
		&n.Position, &n.Hidden, &created, &n.Categories, &n.UserEmail)
	if err != nil {
		return nil, err
	}
	if created.Valid {
		n.DateCreated = created.Time
	}
	return n, nil
}

// ListByOwner returns all notes of one user.
func (r *NoteRepo) ListByOwner(ctx context.Context, email string) ([]Note, error) {
	query := r.s.rebind(`SELECT ` + noteColumns + ` FROM notes WHERE user_email = ? ORDER BY position`)

	rows, err := r.s.db.QueryContext(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	notes := []Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, *n)
	}
	return notes, rows.Err()
}

// GetBySlug fetches one note by slug within an owner's scope.
func (r *NoteRepo) GetBySlug(ctx context.Context, email, slug string) (*Note, error) {
	query := r.s.rebind(`SELECT ` + noteColumns + ` FROM notes WHERE user_email = ? AND slug = ?`)

	n, err := scanNote(r.s.db.QueryRowContext(ctx, query, email, slug))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to query note: %w", err)
	}
	return n, nil
}

// Exists reports whether a slug is already taken within an owner's scope.
func (r *NoteRepo) Exists(ctx context.Context, email, slug string) (bool, error) {
	query := r.s.rebind(`SELECT COUNT(1) FROM notes WHERE user_email = ? AND slug = ?`)
	var n int
	if err := r.s.db.QueryRowContext(ctx, query, email, slug).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to check note existence: %w", err)
	}
	return n > 0, nil
}

// Create inserts a note for the given owner. A zero DateCreated is stamped
// with the current time.
func (r *NoteRepo) Create(ctx context.Context, email string, n Note) error {
	if n.DateCreated.IsZero() {
		n.DateCreated = time.Now()
	}
	query := r.s.rebind(`
	INSERT INTO notes (title, slug, content, image, position, hidden, date_created, categories, user_email)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.s.db.ExecContext(ctx, query, n.Title, n.Slug, n.Content, n.Image,
		n.Position, n.Hidden, n.DateCreated, n.Categories, email)
	if err != nil {
		return fmt.Errorf("failed to insert note: %w", err)
	}
	return nil
}

// Update replaces a note by id within an owner's scope and returns the
// updated row.
func (r *NoteRepo) Update(ctx context.Context, email string, n Note) (*Note, error) {
	query := r.s.rebind(`
	UPDATE notes SET title = ?, slug = ?, content = ?, image = ?, position = ?,
		hidden = ?, categories = ?
	WHERE id = ? AND user_email = ?`)

	_, err := r.s.db.ExecContext(ctx, query, n.Title, n.Slug, n.Content, n.Image,
		n.Position, n.Hidden, n.Categories, n.ID, email)
	if err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	get := r.s.rebind(`SELECT ` + noteColumns + ` FROM notes WHERE id = ? AND user_email = ?`)
	updated, err := scanNote(r.s.db.QueryRowContext(ctx, get, n.ID, email))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to fetch updated note: %w", err)
	}
	return updated, nil
}

// Delete removes a note by id within an owner's scope.
func (r *NoteRepo) Delete(ctx context.Context, email string, id int64) error {
	query := r.s.rebind(`DELETE FROM notes WHERE id = ? AND user_email = ?`)
	if _, err := r.s.db.ExecContext(ctx, query, id, email); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return nil
}
