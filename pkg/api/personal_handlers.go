package api

import (
	"errors"
	"net/http"

	"github.com/pressleaf/pressleaf/pkg/httputil"
	"github.com/pressleaf/pressleaf/pkg/middleware"
	"github.com/pressleaf/pressleaf/pkg/store"
)

// ownerEmail returns the verified caller's email. The gates guarantee an
// identity is present on these routes.
func ownerEmail(r *http.Request) string {
	if claims := middleware.Identity(r); claims != nil {
		return claims.Email
	}
	return ""
}

func (s *Server) listExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.store.Expenses.ListByOwner(r.Context(), ownerEmail(r))
	if err != nil {
		s.log(r).WithError(err).Error("expense list failed")
		httputil.WriteInternalError(w)
		return
	}
	httputil.WriteOk(w, expenses)
}

func (s *Server) createExpense(w http.ResponseWriter, r *http.Request) {
	var e store.Expense
	if !httputil.ParseJSONOrError(w, r, &e) {
		return
	}
	if !httputil.RequireNonEmpty(w, e.Slug, "slug") {
		return
	}
	email := ownerEmail(r)

	taken, err := s.store.Expenses.Exists(r.Context(), email, e.Slug)
	if err != nil {
		s.log(r).WithError(err).Error("expense existence check failed")
		httputil.WriteInternalError(w)
		return
	}
	if taken {
		httputil.WriteConflict(w, "slug already in use")
		return
	}
	if err := s.store.Expenses.Create(r.Context(), email, e); err != nil {
		s.log(r).WithError(err).Error("expense insert failed")
		httputil.WriteInternalError(w)
		return
	}
	httputil.WriteOk(w, e)
}

func (s *Server) updateExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	var e store.Expense
	if !httputil.ParseJSONOrError(w, r, &e) {
		return
	}
	e.ID = id

	updated, err := s.store.Expenses.Update(r.Context(), ownerEmail(r), e)
	if errors.Is(err, store.ErrNotFound) {
		httputil.WriteNotFound(w, "expense not found")
		return
	} else if err != nil {
		s.log(r).WithError(err).Error("expense update failed")
		httputil.WriteInternalError(w)
		return
	}
	httputil.WriteOk(w, updated)
}

func (s *Server) deleteExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	if err := s.store.Expenses.Delete(r.Context(), ownerEmail(r), id); err != nil {
		s.log(r).WithError(err).Error("expense delete failed")
		httputil.WriteInternalError(w)
		return
	}
	httputil.WriteOk(w, map[string]bool{"deleted": true})
}

func (s *Server) listNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := s.store.Notes.ListByOwner(r.Context(), ownerEmail(r))
	if err != nil {
		s.log(r).WithError(err).Error("note list failed")
		httputil.WriteInternalError(w)
		return
	}
	httputil.WriteOk(w, notes)
}

func (s *Server) createNote(w http.ResponseWriter, r *http.Request) {
	var n store.Note
	if !httputil.ParseJSONOrError(w, r, &n) {
		return
	}
	if !httputil.RequireNonEmpty(w, n.Slug, "slug") {
		return
	}
	email := ownerEmail(r)

	taken, err := s.store.Notes.Exists(r.Context(), email, n.Slug)
	if err != nil {
		s.log(r).WithError(err).Error("note existence check failed")
		httputil.WriteInternalError(w)
		return
	}
	if taken {
		httputil.WriteConflict(w, "slug already in use")
		return
	}
	if err := s.store.Notes.Create(r.Context(), email, n); err != nil {
		s.log(r).WithError(err).Error("note insert failed")
		httputil.WriteInternalError(w)
		return
	}
	httputil.WriteOk(w, n)
}

func (s *Server) updateNote(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	var n store.Note
	if !httputil.ParseJSONOrError(w, r, &n) {
		return
	}
	n.ID = id

	updated, err := s.store.Notes.Update(r.Context(), ownerEmail(r), n)
	if errors.Is(err, store.ErrNotFound) {
		httputil.WriteNotFound(w, "note not found")
		return
	} else if err != nil {
		s.log(r).WithError(err).Error("note update failed")
		httputil.WriteInternalError(w)
		return
	}
	httputil.WriteOk(w, updated)
}

func (s *Server) deleteNote(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	if err := s.store.Notes.Delete(r.Context(), ownerEmail(r), id); err != nil {
		s.log(r).WithError(err).Error("note delete failed")
		httputil.WriteInternalError(w)
		return
	}
	httputil.WriteOk(w, map[string]bool{"deleted": true})
}
