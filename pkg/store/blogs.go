package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Blog is one locale-scoped blog post.
type Blog struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Lang        string    `json:"lang"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	Image       string    `json:"image"`
	Author      string    `json:"author"`
	Date        time.Time `json:"date"`
	Categories  string    `json:"categories"`
}

// BlogRepo provides blog persistence.
type BlogRepo struct {
	s *Store
}

const blogColumns = `id, title, slug, lang, description, content, image, author, date, categories`

func scanBlog(row interface{ Scan(...interface{}) error }) (*Blog, error) {
	b := &Blog{}
	var date sql.NullTime
	err := row.Scan(&b.ID, &b.Title, &b.Slug, &b.Lang, &b.Description,
		&b.Content, &b.Image, &b.Author, &date, &b.Categories)
	if err != nil {
		return nil, err
	}
	if date.Valid {
		b.Date = date.Time
	}
	return b, nil
}

// ListByLang returns posts for one locale, newest first, without bodies.
func (r *BlogRepo) ListByLang(ctx context.Context, lang string) ([]Blog, error) {
	query := r.s.rebind(`
	SELECT id, title, slug, lang, description, image, author, date, categories
	FROM blogs WHERE lang = ? ORDER BY date DESC`)

	rows, err := r.s.db.QueryContext(ctx, query, lang)
	if err != nil {
		return nil, fmt.Errorf("failed to list blogs: %w", err)
	}
	defer rows.Close()

	blogs := []Blog{}
	for rows.Next() {
		b := Blog{}
		var date sql.NullTime
		if err := rows.Scan(&b.ID, &b.Title, &b.Slug, &b.Lang, &b.Description,
			&b.Image, &b.Author, &date, &b.Categories); err != nil {
			return nil, fmt.Errorf("failed to scan blog: %w", err)
		}
		if date.Valid {
			b.Date = date.Time
		}
		blogs = append(blogs, b)
	}
	return blogs, rows.Err()
}

// GetBySlug fetches one post by slug within a locale, ErrNotFound when absent.
func (r *BlogRepo) GetBySlug(ctx context.Context, lang, slug string) (*Blog, error) {
	query := r.s.rebind(`SELECT ` + blogColumns + ` FROM blogs WHERE lang = ? AND slug = ?`)

	b, err := scanBlog(r.s.db.QueryRowContext(ctx, query, lang, slug))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to query blog: %w", err)
	}
	return b, nil
}

// Exists reports whether a slug is already taken within a locale.
func (r *BlogRepo) Exists(ctx context.Context, lang, slug string) (bool, error) {
	query := r.s.rebind(`SELECT COUNT(1) FROM blogs WHERE lang = ? AND slug = ?`)
	var n int
	if err := r.s.db.QueryRowContext(ctx, query, lang, slug).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to check blog existence: %w", err)
	}
	return n > 0, nil
}

// Create inserts a post. A zero Date is stamped with the current time.
func (r *BlogRepo) Create(ctx context.Context, b Blog) error {
	if b.Date.IsZero() {
		b.Date = time.Now()
	}
	query := r.s.rebind(`
	INSERT INTO blogs (title, slug, lang, description, content, image, author, date, categories)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.s.db.ExecContext(ctx, query, b.Title, b.Slug, b.Lang, b.Description,
		b.Content, b.Image, b.Author, b.Date, b.Categories)
	if err != nil {
		return fmt.Errorf("failed to insert blog: %w", err)
	}
	return nil
}

// Update replaces a post by id and returns the updated row.
func (r *BlogRepo) Update(ctx context.Context, b Blog) (*Blog, error) {
	query := r.s.rebind(`
	UPDATE blogs SET title = ?, slug = ?, lang = ?, description = ?, content = ?,
		image = ?, author = ?, categories = ?
	WHERE id = ?`)

	_, err := r.s.db.ExecContext(ctx, query, b.Title, b.Slug, b.Lang, b.Description,
		b.Content, b.Image, b.Author, b.Categories, b.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update blog: %w", err)
	}

	get := r.s.rebind(`SELECT ` + blogColumns + ` FROM blogs WHERE id = ?`)
	updated, err := scanBlog(r.s.db.QueryRowContext(ctx, get, b.ID))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to fetch updated blog: %w", err)
	}
	return updated, nil
}

// Delete removes a post by id.
func (r *BlogRepo) Delete(ctx context.Context, id int64) error {
	query := r.s.rebind(`DELETE FROM blogs WHERE id = ?`)
	if _, err := r.s.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete blog: %w", err)
	}
	return nil
}
