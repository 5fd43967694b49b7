package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Expense is a recurring or one-off expense owned by one user. Ownership is
// by email so rows survive account re-registration with the same address.
type Expense struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Value       int64     `json:"value"`
	Repeat      string    `json:"repeat"`
	LastPayment time.Time `json:"last_payment"`
	Currency    string    `json:"currency"`
	Categories  string    `json:"categories"`
	UserEmail   string    `json:"-"`
}

// ExpenseRepo provides expense persistence. Every query is scoped by the
// owner's email; there is no cross-user access path.
type ExpenseRepo struct {
	s *Store
}

const expenseColumns = `id, title, slug, description, value, repeat, last_payment, currency, categories, user_email`

func scanExpense(row interface{ Scan(...interface{}) error }) (*Expense, error) {
	e := &Expense{}
	var paid sql.NullTime
	err := row.Scan(&e.ID, &e.Title, &e.Slug, &e.Description, &e.Value,
		&e.Repeat, &paid, &e.Currency, &e.Categories, &e.UserEmail)
	if err != nil {
		return nil, err
	}
	if paid.Valid {
		e.LastPayment = paid.Time
	}
	return e, nil
}

// ListByOwner returns all expenses of one user.
func (r *ExpenseRepo) ListByOwner(ctx context.Context, email string) ([]Expense, error) {
	query := r.s.rebind(`SELECT ` + expenseColumns + ` FROM expenses WHERE user_email = ? ORDER BY id`)

	rows, err := r.s.db.QueryContext(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, *e)
	}
	return expenses, rows.Err()
}

// GetBySlug fetches one expense by slug within an owner's scope.
func (r *ExpenseRepo) GetBySlug(ctx context.Context, email, slug string) (*Expense, error) {
	query := r.s.rebind(`SELECT ` + expenseColumns + ` FROM expenses WHERE user_email = ? AND slug = ?`)

	e, err := scanExpense(r.s.db.QueryRowContext(ctx, query, email, slug))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to query expense: %w", err)
	}
	return e, nil
}

// Exists reports whether a slug is already taken within an owner's scope.
func (r *ExpenseRepo) Exists(ctx context.Context, email, slug string) (bool, error) {
	query := r.s.rebind(`SELECT COUNT(1) FROM expenses WHERE user_email = ? AND slug = ?`)
	var n int
	if err := r.s.db.QueryRowContext(ctx, query, email, slug).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to check expense existence: %w", err)
	}
	return n > 0, nil
}

// Create inserts an expense for the given owner.
func (r *ExpenseRepo) Create(ctx context.Context, email string, e Expense) error {
	query := r.s.rebind(`
	INSERT INTO expenses (title, slug, description, value, repeat, last_payment, currency, categories, user_email)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.s.db.ExecContext(ctx, query, e.Title, e.Slug, e.Description, e.Value,
		e.Repeat, e.LastPayment, e.Currency, e.Categories, email)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}
	return nil
}

// Update replaces an expense by id within an owner's scope and returns the
// updated row.
func (r *ExpenseRepo) Update(ctx context.Context, email string, e Expense) (*Expense, error) {
	query := r.s.rebind(`
	UPDATE expenses SET title = ?, slug = ?, description = ?, value = ?, repeat = ?,
		last_payment = ?, currency = ?, categories = ?
	WHERE id = ? AND user_email = ?`)

	_, err := r.s.db.ExecContext(ctx, query, e.Title, e.Slug, e.Description, e.Value,
		e.Repeat, e.LastPayment, e.Currency, e.Categories, e.ID, email)
	if err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}

	get := r.s.rebind(`SELECT ` + expenseColumns + ` FROM expenses WHERE id = ? AND user_email = ?`)
	updated, err := scanExpense(r.s.db.QueryRowContext(ctx, get, e.ID, email))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to fetch updated expense: %w", err)
	}
	return updated, nil
}

// Delete removes an expense by id within an owner's scope.
func (r *ExpenseRepo) Delete(ctx context.Context, email string, id int64) error {
	query := r.s.rebind(`DELETE FROM expenses WHERE id = ? AND user_email = ?`)
	if _, err := r.s.db.ExecContext(ctx, query, id, email); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return nil
}
