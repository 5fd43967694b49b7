package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pressleaf/pressleaf/pkg/auth"
	"github.com/pressleaf/pressleaf/pkg/credentials"
	"github.com/pressleaf/pressleaf/pkg/session"
)

func userRows(t *testing.T, id int64, username, email, password string) *sqlmock.Rows {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	return sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "date_created", "date_logged_in"}).
		AddRow(id, username, email, hash, time.Now(), nil)
}

func decodeResult(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var res map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func TestLogin_BindsTokenToSession(t *testing.T) {
	env := newTestEnv(t)

	env.mock.ExpectQuery("SELECT (.+) FROM users WHERE email =").
		WithArgs("alice@example.com").
		WillReturnRows(userRows(t, 1, "alice", "alice@example.com", "secret"))
	env.mock.ExpectExec("UPDATE users SET date_logged_in").
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := httptest.NewRequest("POST", "/api/v1/login",
		strings.NewReader(`{"email":"alice@example.com","password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "sid-1"})
	w := env.do(req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	res := decodeResult(t, w)
	data := res["data"].(map[string]interface{})
	token := data["token"].(string)
	require.NotEmpty(t, token)

	// Token lands in the session record and the cookie.
	assert.Equal(t, token, env.sessions.records["sid-1"].Token)
	c := responseCookie(w, credentials.TokenCookie)
	require.NotNil(t, c)
	assert.Equal(t, token, c.Value)

	claims, err := env.codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newTestEnv(t)

	env.mock.ExpectQuery("SELECT (.+) FROM users WHERE email =").
		WithArgs("alice@example.com").
		WillReturnRows(userRows(t, 1, "alice", "alice@example.com", "secret"))

	req := httptest.NewRequest("POST", "/api/v1/login",
		strings.NewReader(`{"email":"alice@example.com","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	w := env.do(req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, responseCookie(w, credentials.TokenCookie))
	assert.Empty(t, env.sessions.records["sid-1"].Token)
}

func TestLogin_UnknownEmailSameRejection(t *testing.T) {
	env := newTestEnv(t)

	env.mock.ExpectQuery("SELECT (.+) FROM users WHERE email =").
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "date_created", "date_logged_in"}))

	req := httptest.NewRequest("POST", "/api/v1/login",
		strings.NewReader(`{"email":"ghost@example.com","password":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	w := env.do(req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid email or password")
}

func TestCurrentUser_SessionOnly(t *testing.T) {
	env := newTestEnv(t)
	token := env.issueToken(t, 1, "alice", "alice@example.com")
	env.sessions.records["sid-1"] = session.Record{Token: token}

	req := httptest.NewRequest("GET", "/api/v1/user", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "sid-1"})
	w := env.do(req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"email":"alice@example.com"`)
}

func TestCurrentUser_AnonymousIsEmptyObject(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest("GET", "/api/v1/user", nil)
	w := env.do(req)

	require.Equal(t, http.StatusOK, w.Code)
	res := decodeResult(t, w)
	assert.Equal(t, "ok", res["status"])
	assert.Empty(t, res["data"])
}

func TestLogout_ClearsSessionRecordOnly(t *testing.T) {
	env := newTestEnv(t)
	token := env.issueToken(t, 1, "alice", "alice@example.com")
	env.sessions.records["sid-1"] = session.Record{Token: token}

	req := httptest.NewRequest("GET", "/api/v1/logout", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "sid-1"})
	req.AddCookie(&http.Cookie{Name: credentials.TokenCookie, Value: token})
	w := env.do(req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, env.sessions.records["sid-1"].Token)
	// The token cookie is deliberately left alone.
	assert.Nil(t, responseCookie(w, credentials.TokenCookie))
}

func TestLogout_StaleCookieResurrectsSession(t *testing.T) {
	env := newTestEnv(t)
	token := env.issueToken(t, 1, "alice", "alice@example.com")
	env.sessions.records["sid-1"] = session.Record{Token: token}

	logout := httptest.NewRequest("GET", "/api/v1/logout", nil)
	logout.AddCookie(&http.Cookie{Name: session.CookieName, Value: "sid-1"})
	env.do(logout)
	require.Empty(t, env.sessions.records["sid-1"].Token)

	// The browser still holds the token cookie; presenting it re-adopts the
	// credential into the cleared session record.
	again := httptest.NewRequest("GET", "/api/v1/user", nil)
	again.AddCookie(&http.Cookie{Name: session.CookieName, Value: "sid-1"})
	again.AddCookie(&http.Cookie{Name: credentials.TokenCookie, Value: token})
	w := env.do(again)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)
	assert.Equal(t, token, env.sessions.records["sid-1"].Token)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)

	env.mock.ExpectQuery("SELECT (.+) FROM users WHERE email =").
		WithArgs("alice@example.com").
		WillReturnRows(userRows(t, 1, "alice", "alice@example.com", "secret"))

	req := httptest.NewRequest("POST", "/api/v1/register",
		strings.NewReader(`{"username":"alice2","email":"alice@example.com","password":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	w := env.do(req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegister_CreatesUser(t *testing.T) {
	env := newTestEnv(t)

	env.mock.ExpectQuery("SELECT (.+) FROM users WHERE email =").
		WithArgs("bob@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "date_created", "date_logged_in"}))
	env.mock.ExpectExec("INSERT INTO users").
		WithArgs("bob", "bob@example.com", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(2, 1))

	req := httptest.NewRequest("POST", "/api/v1/register",
		strings.NewReader(`{"username":"bob","email":"Bob@Example.com","password":"hunter2"}`))
	req.Header.Set("Content-Type", "application/json")
	w := env.do(req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NoError(t, env.mock.ExpectationsWereMet())
}
