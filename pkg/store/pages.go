package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Page is one locale-scoped content page. Content is raw markdown/HTML; the
// rendering pipeline downstream owns sanitization.
type Page struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	MetaTitle   string `json:"metaTitle"`
	Slug        string `json:"slug"`
	URL         string `json:"url"`
	Lang        string `json:"lang"`
	Description string `json:"description"`
	Content     string `json:"content"`
	Image       string `json:"image"`
	Position    string `json:"position"`
	Hidden      string `json:"hidden"`
	OnlyHTML    string `json:"onlyHTML"`
}

// DefaultPage is the placeholder served when a slug has no content yet, so a
// fresh install renders a welcome page instead of a 404.
func DefaultPage(title, slug, url, lang string) Page {
	return Page{
		Title:     title,
		MetaTitle: title,
		Slug:      slug,
		URL:       url,
		Lang:      lang,
		Content:   "<h1>Welcome</h1><p>This page has no content yet. Log in as the administrator to edit it.</p>",
	}
}

// PageRepo provides page persistence.
type PageRepo struct {
	s *Store
}

const pageColumns = `id, title, meta_title, slug, url, lang, description, content, image, position, hidden, only_html`

func scanPage(row interface{ Scan(...interface{}) error }) (*Page, error) {
	p := &Page{}
	err := row.Scan(&p.ID, &p.Title, &p.MetaTitle, &p.Slug, &p.URL, &p.Lang,
		&p.Description, &p.Content, &p.Image, &p.Position, &p.Hidden, &p.OnlyHTML)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListByLang returns the page index for one locale, without content bodies.
func (r *PageRepo) ListByLang(ctx context.Context, lang string) ([]Page, error) {
	query := r.s.rebind(`
	SELECT id, title, meta_title, slug, url, lang, description, position, hidden, only_html
	FROM pages WHERE lang = ? ORDER BY position`)

	rows, err := r.s.db.QueryContext(ctx, query, lang)
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	defer rows.Close()

	pages := []Page{}
	for rows.Next() {
		p := Page{}
		if err := rows.Scan(&p.ID, &p.Title, &p.MetaTitle, &p.Slug, &p.URL, &p.Lang,
			&p.Description, &p.Position, &p.Hidden, &p.OnlyHTML); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// GetBySlug fetches a page by slug or url within one locale, ErrNotFound
// when absent.
func (r *PageRepo) GetBySlug(ctx context.Context, lang, slug string) (*Page, error) {
	query := r.s.rebind(`
	SELECT ` + pageColumns + `
	FROM pages WHERE lang = ? AND (slug = ? OR url = ?)`)

	p, err := scanPage(r.s.db.QueryRowContext(ctx, query, lang, slug, slug))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to query page: %w", err)
	}
	return p, nil
}

// Exists reports whether a slug is already taken within a locale.
func (r *PageRepo) Exists(ctx context.Context, lang, slug string) (bool, error) {
	query := r.s.rebind(`SELECT COUNT(1) FROM pages WHERE lang = ? AND slug = ?`)
	var n int
	if err := r.s.db.QueryRowContext(ctx, query, lang, slug).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to check page existence: %w", err)
	}
	return n > 0, nil
}

// Create inserts a page.
func (r *PageRepo) Create(ctx context.Context, p Page) error {
	query := r.s.rebind(`
	INSERT INTO pages (title, meta_title, slug, url, lang, description, content, image, position, hidden, only_html)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.s.db.ExecContext(ctx, query, p.Title, p.MetaTitle, p.Slug, p.URL, p.Lang,
		p.Description, p.Content, p.Image, p.Position, p.Hidden, p.OnlyHTML)
	if err != nil {
		return fmt.Errorf("failed to insert page: %w", err)
	}
	return nil
}

// Update replaces a page by id and returns the updated row.
func (r *PageRepo) Update(ctx context.Context, p Page) (*Page, error) {
	query := r.s.rebind(`
	UPDATE pages SET title = ?, meta_title = ?, slug = ?, url = ?, lang = ?,
		description = ?, content = ?, image = ?, position = ?, hidden = ?, only_html = ?
	WHERE id = ?`)

	_, err := r.s.db.ExecContext(ctx, query, p.Title, p.MetaTitle, p.Slug, p.URL, p.Lang,
		p.Description, p.Content, p.Image, p.Position, p.Hidden, p.OnlyHTML, p.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update page: %w", err)
	}

	get := r.s.rebind(`SELECT ` + pageColumns + ` FROM pages WHERE id = ?`)
	updated, err := scanPage(r.s.db.QueryRowContext(ctx, get, p.ID))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to fetch updated page: %w", err)
	}
	return updated, nil
}

// Delete removes a page by id.
func (r *PageRepo) Delete(ctx context.Context, id int64) error {
	query := r.s.rebind(`DELETE FROM pages WHERE id = ?`)
	if _, err := r.s.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete page: %w", err)
	}
	return nil
}
