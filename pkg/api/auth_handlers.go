package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/pressleaf/pressleaf/pkg/auth"
	"github.com/pressleaf/pressleaf/pkg/contextkeys"
	"github.com/pressleaf/pressleaf/pkg/credentials"
	"github.com/pressleaf/pressleaf/pkg/httputil"
	"github.com/pressleaf/pressleaf/pkg/session"
	"github.com/pressleaf/pressleaf/pkg/store"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// login verifies credentials, issues a token and binds it to the caller's
// session record. The token is also mirrored into a cookie so the browser
// can present it without the session.
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if !httputil.RequireNonEmpty(w, req.Email, "email") ||
		!httputil.RequireNonEmpty(w, req.Password, "password") {
		return
	}

	user, err := s.store.Users.GetByEmail(r.Context(), req.Email)
	if errors.Is(err, store.ErrNotFound) {
		httputil.WriteUnauthorized(w, "invalid email or password")
		return
	} else if err != nil {
		s.log(r).WithError(err).Error("login lookup failed")
		httputil.WriteInternalError(w)
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		httputil.WriteUnauthorized(w, "invalid email or password")
		return
	}

	token, err := s.codec.Issue(auth.Claims{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
	if err != nil {
		s.log(r).WithError(err).Error("token issue failed")
		httputil.WriteInternalError(w)
		return
	}

	if sid := contextkeys.GetSessionID(r.Context()); sid != "" {
		if err := s.sessions.Save(r.Context(), sid, session.Record{Token: token}); err != nil {
			s.log(r).WithError(err).Warn("session save failed on login")
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     credentials.TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.codec.TTL().Seconds()),
		SameSite: http.SameSiteLaxMode,
	})

	if err := s.store.Users.TouchLogin(r.Context(), user.ID); err != nil {
		s.log(r).WithError(err).Warn("failed to record login time")
	}
	if s.metrics != nil {
		s.metrics.Logins.Inc()
	}

	httputil.WriteOk(w, loginResponse{
		Token: token,
		User:  userResponse{ID: user.ID, Username: user.Username, Email: user.Email},
	})
}

// register creates a new account. Emails are unique.
func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Username = strings.TrimSpace(req.Username)
	if !httputil.RequireNonEmpty(w, req.Username, "username") ||
		!httputil.RequireNonEmpty(w, req.Email, "email") ||
		!httputil.RequireNonEmpty(w, req.Password, "password") {
		return
	}

	if _, err := s.store.Users.GetByEmail(r.Context(), req.Email); err == nil {
		httputil.WriteConflict(w, "email already registered")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		s.log(r).WithError(err).Error("register lookup failed")
		httputil.WriteInternalError(w)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.log(r).WithError(err).Error("password hash failed")
		httputil.WriteInternalError(w)
		return
	}
	if err := s.store.Users.Create(r.Context(), req.Username, req.Email, hash); err != nil {
		s.log(r).WithError(err).Error("user insert failed")
		httputil.WriteInternalError(w)
		return
	}

	httputil.WriteOk(w, map[string]string{"email": req.Email})
}

// logout clears the token held in the caller's session record. The token
// cookie is left untouched; a later request presenting it is re-adopted by
// the credential extractor.
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if sid := contextkeys.GetSessionID(r.Context()); sid != "" {
		if err := s.sessions.Save(r.Context(), sid, session.Record{Token: ""}); err != nil {
			s.log(r).WithError(err).Warn("session clear failed on logout")
		}
	}
	httputil.WriteOk(w, map[string]bool{"loggedOut": true})
}

// currentUser reports the verified identity behind the caller's credential,
// or an empty object for anonymous callers. It never rejects.
func (s *Server) currentUser(w http.ResponseWriter, r *http.Request) {
	token, err := s.extractor.Resolve(r.Context(), r)
	if err != nil || token == "" {
		httputil.WriteOk(w, struct{}{})
		return
	}
	claims, err := s.codec.Verify(token)
	if err != nil {
		httputil.WriteOk(w, struct{}{})
		return
	}
	httputil.WriteOk(w, userResponse{
		ID:       claims.UserID,
		Username: claims.Username,
		Email:    claims.Email,
	})
}
