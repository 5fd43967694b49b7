package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/pressleaf/pressleaf/pkg/auth"
	"github.com/pressleaf/pressleaf/pkg/i18n"
	"github.com/pressleaf/pressleaf/pkg/observability"
	"github.com/pressleaf/pressleaf/pkg/prefs"
	"github.com/pressleaf/pressleaf/pkg/render"
	"github.com/pressleaf/pressleaf/pkg/session"
	"github.com/pressleaf/pressleaf/pkg/store"
)

const testAdminEmail = "admin@example.com"

type memSessions struct {
	records map[string]session.Record
}

func newMemSessions() *memSessions {
	return &memSessions{records: make(map[string]session.Record)}
}

func (m *memSessions) Load(_ context.Context, sid string) (session.Record, error) {
	return m.records[sid], nil
}

func (m *memSessions) Save(_ context.Context, sid string, rec session.Record) error {
	m.records[sid] = rec
	return nil
}

type testEnv struct {
	server   *Server
	handler  http.Handler
	mock     sqlmock.Sqlmock
	sessions *memSessions
	codec    *auth.Codec
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	bundle, err := i18n.Load(i18n.EmbeddedLocales, []string{"en", "sk"})
	require.NoError(t, err)

	renderer, err := render.NewRenderer(render.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { renderer.Close() })

	sessions := newMemSessions()
	codec := auth.NewCodec("api-test-secret", 0)

	srv := NewServer(Deps{
		Store:      store.New(db, "sqlite3"),
		Sessions:   sessions,
		Codec:      codec,
		Resolver:   prefs.NewResolver([]string{"en", "sk"}),
		Renderer:   renderer,
		Bundle:     bundle,
		Metrics:    observability.NewMetrics(),
		Logger:     observability.NewLogger(observability.ErrorLevel, io.Discard),
		AdminEmail: testAdminEmail,
	})

	return &testEnv{
		server:   srv,
		handler:  srv.Handler(),
		mock:     mock,
		sessions: sessions,
		codec:    codec,
	}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

// issueToken mints a valid token for tests that need a verified identity.
func (e *testEnv) issueToken(t *testing.T, id int64, username, email string) string {
	t.Helper()
	token, err := e.codec.Issue(auth.Claims{UserID: id, Username: username, Email: email})
	require.NoError(t, err)
	return token
}

func responseCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
