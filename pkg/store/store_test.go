package store

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T, driver string) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db, driver), mock
}

func TestRebind(t *testing.T) {
	sqlite, _ := newMockStore(t, "sqlite3")
	pg, _ := newMockStore(t, "postgres")

	q := "SELECT id FROM users WHERE email = ? AND username = ?"
	assert.Equal(t, q, sqlite.rebind(q))
	assert.Equal(t, "SELECT id FROM users WHERE email = $1 AND username = $2", pg.rebind(q))
}

func TestEnsureSchema(t *testing.T) {
	s, mock := newMockStore(t, "sqlite3")

	for _, table := range []string{"users", "pages", "blogs", "expenses", "notes"} {
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS " + table).
			WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, s.EnsureSchema())
	assert.NoError(t, mock.ExpectationsWereMet())
}
