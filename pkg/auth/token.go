package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the issuance lifetime used when no TTL is configured.
// Matches the deployed behavior of 1000-day tokens.
const DefaultTTL = 24000 * time.Hour

// ErrorKind classifies token verification failures.
type ErrorKind int

const (
	// KindMalformed covers structural and signature failures.
	KindMalformed ErrorKind = iota
	// KindExpired means the token was well-formed and correctly signed but
	// its expiry has elapsed.
	KindExpired
)

func (k ErrorKind) String() string {
	if k == KindExpired {
		return "expired"
	}
	return "malformed"
}

// TokenError is the verification failure type returned by Codec.Verify.
type TokenError struct {
	Kind ErrorKind
	Err  error
}

func (e *TokenError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("token %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("token %s", e.Kind)
}

func (e *TokenError) Unwrap() error { return e.Err }

// Claims is the identity assertion payload. The embedded registered claims
// carry issued-at and expiry.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// Codec signs and verifies identity assertions. Stateless and safe for
// concurrent use.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec creates a codec with the given signing secret and token lifetime.
// A non-positive ttl falls back to DefaultTTL.
func NewCodec(secret string, ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Codec{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// TTL returns the configured token lifetime.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Issue signs a new token for the given identity. Issued-at and expiry are
// stamped from the current instant; the caller-supplied registered claims are
// overwritten.
func (c *Codec) Issue(claims Claims) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token string. On failure it returns a
// *TokenError whose Kind distinguishes expiry from everything else; callers
// that do not care collapse both into a uniform authentication error.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, &TokenError{Kind: KindExpired, Err: err}
		}
		return nil, &TokenError{Kind: KindMalformed, Err: err}
	}
	if !token.Valid {
		return nil, &TokenError{Kind: KindMalformed}
	}
	return claims, nil
}
