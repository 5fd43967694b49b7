package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_IssueAndVerify(t *testing.T) {
	codec := NewCodec("test-secret", time.Hour)

	claims := Claims{
		UserID:   42,
		Username: "alice",
		Email:    "alice@example.com",
	}

	token, err := codec.Issue(claims)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.UserID)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.NotNil(t, got.IssuedAt)
	assert.NotNil(t, got.ExpiresAt)
}

func TestCodec_VerifyExpired(t *testing.T) {
	codec := NewCodec("test-secret", time.Nanosecond)

	token, err := codec.Issue(Claims{UserID: 1, Email: "a@b.c"})
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	_, err = codec.Verify(token)
	require.Error(t, err)

	terr, ok := err.(*TokenError)
	require.True(t, ok, "expected *TokenError, got %T", err)
	assert.Equal(t, KindExpired, terr.Kind)
}

func TestCodec_VerifyTamperedSignature(t *testing.T) {
	codec := NewCodec("test-secret", time.Hour)

	token, err := codec.Issue(Claims{UserID: 7, Username: "bob", Email: "bob@example.com"})
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	// Flip a single byte in the signature segment.
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = codec.Verify(tampered)
	require.Error(t, err)

	terr, ok := err.(*TokenError)
	require.True(t, ok)
	assert.Equal(t, KindMalformed, terr.Kind)
}

func TestCodec_VerifyGarbage(t *testing.T) {
	codec := NewCodec("test-secret", time.Hour)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := codec.Verify(token)
		require.Error(t, err, "token %q", token)

		terr, ok := err.(*TokenError)
		require.True(t, ok)
		assert.Equal(t, KindMalformed, terr.Kind)
	}
}

func TestCodec_VerifyWrongSecret(t *testing.T) {
	issuer := NewCodec("secret-one", time.Hour)
	verifier := NewCodec("secret-two", time.Hour)

	token, err := issuer.Issue(Claims{UserID: 1, Email: "a@b.c"})
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.Error(t, err)

	terr, ok := err.(*TokenError)
	require.True(t, ok)
	assert.Equal(t, KindMalformed, terr.Kind)
}

func TestNewCodec_DefaultTTL(t *testing.T) {
	codec := NewCodec("s", 0)
	assert.Equal(t, DefaultTTL, codec.TTL())
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	require.NotEqual(t, "hunter2", hash)

	assert.NoError(t, CheckPassword(hash, "hunter2"))
	assert.Error(t, CheckPassword(hash, "hunter3"))
}
