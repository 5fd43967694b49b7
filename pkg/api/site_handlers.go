package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/pressleaf/pressleaf/pkg/httputil"
	"github.com/pressleaf/pressleaf/pkg/mail"
	"github.com/pressleaf/pressleaf/pkg/render"
	"github.com/pressleaf/pressleaf/pkg/store"
)

// renderSite serves a content page. The root path maps to the "welcome"
// slug; a slug with no content renders a placeholder page instead of a bare
// 404 so the site chrome stays navigable.
func (s *Server) renderSite(w http.ResponseWriter, r *http.Request) {
	rc := render.FromRequest(r)
	locale := "en"
	if rc != nil {
		locale = rc.Locale
	}

	slug := mux.Vars(r)["slug"]
	root := slug == ""
	if root {
		slug = "welcome"
	}

	page, err := s.store.Pages.GetBySlug(r.Context(), locale, slug)
	if errors.Is(err, store.ErrNotFound) {
		fallback := store.DefaultPage(titleize(slug), slug, "/"+slug, locale)
		if !root {
			w.WriteHeader(http.StatusNotFound)
		}
		s.renderOrFail(w, r, render.PageView{Page: fallback, Ctx: rc, Messages: s.bundle.Messages(locale)})
		return
	} else if err != nil {
		s.log(r).WithError(err).Error("site page fetch failed")
		httputil.WriteInternalError(w)
		return
	}

	s.renderOrFail(w, r, render.PageView{Page: *page, Ctx: rc, Messages: s.bundle.Messages(locale)})
}

// renderBlogIndex serves the localized blog listing.
func (s *Server) renderBlogIndex(w http.ResponseWriter, r *http.Request) {
	rc := render.FromRequest(r)
	locale := "en"
	if rc != nil {
		locale = rc.Locale
	}

	blogs, err := s.store.Blogs.ListByLang(r.Context(), locale)
	if err != nil {
		s.log(r).WithError(err).Error("blog index fetch failed")
		httputil.WriteInternalError(w)
		return
	}

	view := render.PageView{
		Page:     store.Page{Title: s.bundle.T(locale, "nav.blog"), Slug: "blog"},
		Blogs:    blogs,
		Ctx:      rc,
		Messages: s.bundle.Messages(locale),
	}
	s.renderOrFail(w, r, view)
}

// renderBlogPost serves one post as a page.
func (s *Server) renderBlogPost(w http.ResponseWriter, r *http.Request) {
	rc := render.FromRequest(r)
	locale := "en"
	if rc != nil {
		locale = rc.Locale
	}
	slug := mux.Vars(r)["slug"]

	blog, err := s.store.Blogs.GetBySlug(r.Context(), locale, slug)
	if errors.Is(err, store.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		fallback := store.DefaultPage("Not found", slug, "/blog/"+slug, locale)
		s.renderOrFail(w, r, render.PageView{Page: fallback, Ctx: rc, Messages: s.bundle.Messages(locale)})
		return
	} else if err != nil {
		s.log(r).WithError(err).Error("blog post fetch failed")
		httputil.WriteInternalError(w)
		return
	}

	view := render.PageView{
		Page: store.Page{
			Title:       blog.Title,
			MetaTitle:   blog.Title,
			Slug:        "blog/" + blog.Slug,
			Description: blog.Description,
			Content:     blog.Content,
		},
		Ctx:      rc,
		Messages: s.bundle.Messages(locale),
	}
	s.renderOrFail(w, r, view)
}

func titleize(slug string) string {
	slug = strings.ReplaceAll(slug, "-", " ")
	if slug == "" {
		return slug
	}
	return strings.ToUpper(slug[:1]) + slug[1:]
}

func (s *Server) renderOrFail(w http.ResponseWriter, r *http.Request, view render.PageView) {
	if err := s.renderer.RenderPage(w, r, view); err != nil {
		s.log(r).WithError(err).Error("render failed")
		httputil.WriteInternalError(w)
	}
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// contact forwards a contact-form submission to the operator's inbox.
func (s *Server) contact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Email, "email") ||
		!httputil.RequireNonEmpty(w, req.Message, "message") {
		return
	}

	if s.mailer == nil {
		s.log(r).Warn("contact message dropped: no mail sender configured")
		httputil.WriteError(w, http.StatusServiceUnavailable, "mail", "contact form is not available")
		return
	}

	msg := mail.Message{
		Name:    req.Name,
		ReplyTo: req.Email,
		Subject: req.Subject,
		Body:    req.Message,
	}
	if err := s.mailer.SendContact(r.Context(), msg); err != nil {
		s.log(r).WithError(err).Error("contact send failed")
		httputil.WriteInternalError(w)
		return
	}
	httputil.WriteOk(w, map[string]bool{"sent": true})
}
