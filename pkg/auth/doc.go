// Package auth implements the identity assertion for Pressleaf.
//
// # Overview
//
// An identity assertion is a compact HMAC-signed JWT carrying the user id,
// username and email. Tokens are long-lived (1000 days by default) and are
// invalidated only by expiry or signing-secret rotation; there is no
// revocation list and no refresh flow. Once a signature verifies, every
// downstream consumer trusts the claims verbatim.
//
// # Token Codec
//
// Issuing:
//
//	codec := auth.NewCodec(secret, 24000*time.Hour)
//	token, err := codec.Issue(auth.Claims{
//		UserID:   user.ID,
//		Username: user.Username,
//		Email:    user.Email,
//	})
//
// Verifying:
//
//	claims, err := codec.Verify(token)
//	var terr *auth.TokenError
//	if errors.As(err, &terr) {
//		// terr.Kind is KindExpired or KindMalformed
//	}
//
// Verification is synchronous and side-effect free. Expiry is checked lazily
// at verify time; there is no background sweep.
//
// # Passwords
//
// Credential storage uses bcrypt:
//
//	hash, err := auth.HashPassword(plaintext)
//	err = auth.CheckPassword(hash, plaintext)
//
// # Related Packages
//
//   - pkg/credentials: resolves the authoritative token for a request
//   - pkg/middleware: the user/admin authorization gates
//   - pkg/session: durable token cache keyed by session id
package auth
