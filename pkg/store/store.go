package store

import (
	"database/sql"
	"fmt"
	"strings"

	// Database drivers registered for database/sql.
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Store wraps the sql.DB handle with driver awareness.
type Store struct {
	db     *sql.DB
	driver string

	Users    *UserRepo
	Pages    *PageRepo
	Blogs    *BlogRepo
	Expenses *ExpenseRepo
	Notes    *NoteRepo
}

// Open connects with the named driver ("sqlite3" or "postgres"), verifies
// the connection and ensures the schema.
func Open(driver, dsn string) (*Store, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := New(db, driver)
	if err := s.EnsureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing handle; used by tests with sqlmock.
func New(db *sql.DB, driver string) *Store {
	s := &Store{db: db, driver: driver}
	s.Users = &UserRepo{s}
	s.Pages = &PageRepo{s}
	s.Blogs = &BlogRepo{s}
	s.Expenses = &ExpenseRepo{s}
	s.Notes = &NoteRepo{s}
	return s
}

// DB exposes the handle for health checks.
func (s *Store) DB() *sql.DB { return s.db }

// Close closes the underlying pool.
func (s *Store) Close() error { return s.db.Close() }

// rebind converts ? placeholders to $n for postgres.
func (s *Store) rebind(query string) string {
	if s.driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// serial returns the driver-appropriate autoincrement primary key column.
func (s *Store) serial() string {
	if s.driver == "postgres" {
		return "BIGSERIAL PRIMARY KEY"
	}
	return "INTEGER PRIMARY KEY AUTOINCREMENT"
}

// EnsureSchema creates all tables if they do not exist.
func (s *Store) EnsureSchema() error {
	tables := []struct {
		name string
		ddl  string
	}{
		{"users", `
	CREATE TABLE IF NOT EXISTS users (
		id ` + s.serial() + `,
		username TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		date_created TIMESTAMP,
		date_logged_in TIMESTAMP
	)`},
		{"pages", `
	CREATE TABLE IF NOT EXISTS pages (
		id ` + s.serial() + `,
		title TEXT,
		meta_title TEXT,
		slug TEXT,
		url TEXT,
		lang TEXT,
		description TEXT,
		content TEXT,
		image TEXT,
		position TEXT,
		hidden TEXT,
		only_html TEXT
	)`},
		{"blogs", `
	CREATE TABLE IF NOT EXISTS blogs (
		id ` + s.serial() + `,
		title TEXT,
		slug TEXT,
		lang TEXT,
		description TEXT,
		content TEXT,
		image TEXT,
		author TEXT,
		date TIMESTAMP,
		categories TEXT
	)`},
		{"expenses", `
	CREATE TABLE IF NOT EXISTS expenses (
		id ` + s.serial() + `,
		title TEXT,
		slug TEXT,
		description TEXT,
		value INTEGER,
		repeat TEXT,
		last_payment TIMESTAMP,
		currency TEXT,
		categories TEXT,
		user_email TEXT
	)`},
		{"notes", `
	CREATE TABLE IF NOT EXISTS notes (
		id ` + s.serial() + `,
		title TEXT,
		slug TEXT,
		content TEXT,
		image TEXT,
		position TEXT,
		hidden TEXT,
		date_created TIMESTAMP,
		categories TEXT,
		user_email TEXT
	)`},
	}

	for _, tbl := range tables {
		if _, err := s.db.Exec(tbl.ddl); err != nil {
			return fmt.Errorf("failed to ensure %s table: %w", tbl.name, err)
		}
	}
	return nil
}
