package api

import (
	"errors"
	"net/http"

	"github.com/pressleaf/pressleaf/pkg/httputil"
	"github.com/pressleaf/pressleaf/pkg/store"
)

// localeOr404 validates the {lang} path segment against the approved list.
func (s *Server) localeOr404(w http.ResponseWriter, r *http.Request) (string, bool) {
	lang, ok := httputil.ParsePathStringOrError(w, r, "lang")
	if !ok {
		return "", false
	}
	if !s.resolver.Allowed(lang) {
		httputil.WriteNotFound(w, "unknown locale")
		return "", false
	}
	return lang, true
}

func (s *Server) getMessages(w http.ResponseWriter, r *http.Request) {
	lang, ok := s.localeOr404(w, r)
	if !ok {
		return
	}
	httputil.WriteOk(w, s.bundle.Messages(lang))
}

func (s *Server) listPages(w http.ResponseWriter, r *http.Request) {
	lang, ok := s.localeOr404(w, r)
	if !ok {
		return
	}
	pages, err := s.store.Pages.ListByLang(r.Context(), lang)
	if err != nil {
		s.log(r).WithError(err).Error("page list failed")
		httputil.WriteInternalError(w)
		return
	}
	httputil.WriteOk(w, pages)
}

func (s *Server) getPage(w http.ResponseWriter, r *http.Request) {
	lang, ok := s.localeOr404(w, r)
	if !ok {
		return
	}
	slug, ok := httputil.ParsePathStringOrError(w, r, "slug")
	if !ok {
		return
	}
	page, err := s.store.Pages.GetBySlug(r.Context(), lang, slug)
	if errors.Is(err, store.ErrNotFound) {
		httputil.WriteNotFound(w, "page not found")
		return
	} else if err != nil {
		s.log(r).WithError(err).Error("page fetch failed")
		httputil.WriteInternalError(w)
		return
	}
	httputil.WriteOk(w, page)
}

func (s *Server) createPage(w http.ResponseWriter, r *http.Request) {
	var p store.Page
	if !httputil.ParseJSONOrError(w, r, &p) {
		return
	}
	if !httputil.RequireNonEmpty(w, p.Slug, "slug") ||
		!httputil.RequireNonEmpty(w, p.Lang, "lang") {
		return
	}
	if !s.resolver.Allowed(p.Lang) {
		httputil.WriteBadRequest(w, "unknown locale")
		return
	}

	taken, err := s.store.Pages.Exists(r.Context(), p.Lang, p.Slug)
	if err != nil {
		s.log(r).WithError(err).Error("page existence check failed")
		httputil.WriteInternalError(w)
		return
	}
	if taken {
		httputil.WriteConflict(w, "slug already in use")
		return
	}
	if err := s.store.Pages.Create(r.Context(), p); err != nil {
		s.log(r).WithError(err).Error("page insert failed")
		httputil.WriteInternalError(w)
		return
	}
	s.invalidateRenderCache()
	httputil.WriteOk(w, p)
}

func (s *Server) updatePage(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	var p store.Page
	if !httputil.ParseJSONOrError(w, r, &p) {
		return
	}
	p.ID = id

	updated, err := s.store.Pages.Update(r.Context(), p)
	if errors.Is(err, store.ErrNotFound) {
		httputil.WriteNotFound(w, "page not found")
		return
	} else if err != nil {
		s.log(r).WithError(err).Error("page update failed")
		httputil.WriteInternalError(w)
		return
	}
	s.invalidateRenderCache()
	httputil.WriteOk(w, updated)
}

func (s *Server) deletePage(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	if err := s.store.Pages.Delete(r.Context(), id); err != nil {
		s.log(r).WithError(err).Error("page delete failed")
		httputil.WriteInternalError(w)
		return
	}
	s.invalidateRenderCache()
	httputil.WriteOk(w, map[string]bool{"deleted": true})
}

func (s *Server) listBlogs(w http.ResponseWriter, r *http.Request) {
	lang, ok := s.localeOr404(w, r)
	if !ok {
		return
	}
	blogs, err := s.store.Blogs.ListByLang(r.Context(), lang)
	if err != nil {
		s.log(r).WithError(err).Error("blog list failed")
		httputil.WriteInternalError(w)
		return
	}
	httputil.WriteOk(w, blogs)
}

func (s *Server) getBlog(w http.ResponseWriter, r *http.Request) {
	lang, ok := s.localeOr404(w, r)
	if !ok {
		return
	}
	slug, ok := httputil.ParsePathStringOrError(w, r, "slug")
	if !ok {
		return
	}
	blog, err := s.store.Blogs.GetBySlug(r.Context(), lang, slug)
	if errors.Is(err, store.ErrNotFound) {
		httputil.WriteNotFound(w, "blog not found")
		return
	} else if err != nil {
		s.log(r).WithError(err).Error("blog fetch failed")
		httputil.WriteInternalError(w)
		return
	}
	httputil.WriteOk(w, blog)
}

func (s *Server) createBlog(w http.ResponseWriter, r *http.Request) {
	var b store.Blog
	if !httputil.ParseJSONOrError(w, r, &b) {
		return
	}
	if !httputil.RequireNonEmpty(w, b.Slug, "slug") ||
		!httputil.RequireNonEmpty(w, b.Lang, "lang") {
		return
	}
	if !s.resolver.Allowed(b.Lang) {
		httputil.WriteBadRequest(w, "unknown locale")
		return
	}

	taken, err := s.store.Blogs.Exists(r.Context(), b.Lang, b.Slug)
	if err != nil {
		s.log(r).WithError(err).Error("blog existence check failed")
		httputil.WriteInternalError(w)
		return
	}
	if taken {
		httputil.WriteConflict(w, "slug already in use")
		return
	}
	if err := s.store.Blogs.Create(r.Context(), b); err != nil {
		s.log(r).WithError(err).Error("blog insert failed")
		httputil.WriteInternalError(w)
		return
	}
	s.invalidateRenderCache()
	httputil.WriteOk(w, b)
}

func (s *Server) updateBlog(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	var b store.Blog
	if !httputil.ParseJSONOrError(w, r, &b) {
		return
	}
	b.ID = id

	updated, err := s.store.Blogs.Update(r.Context(), b)
	if errors.Is(err, store.ErrNotFound) {
		httputil.WriteNotFound(w, "blog not found")
		return
	} else if err != nil {
		s.log(r).WithError(err).Error("blog update failed")
		httputil.WriteInternalError(w)
		return
	}
	s.invalidateRenderCache()
	httputil.WriteOk(w, updated)
}

func (s *Server) deleteBlog(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	if err := s.store.Blogs.Delete(r.Context(), id); err != nil {
		s.log(r).WithError(err).Error("blog delete failed")
		httputil.WriteInternalError(w)
		return
	}
	s.invalidateRenderCache()
	httputil.WriteOk(w, map[string]bool{"deleted": true})
}
