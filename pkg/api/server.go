package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/pressleaf/pressleaf/pkg/auth"
	"github.com/pressleaf/pressleaf/pkg/credentials"
	"github.com/pressleaf/pressleaf/pkg/httputil"
	"github.com/pressleaf/pressleaf/pkg/i18n"
	"github.com/pressleaf/pressleaf/pkg/mail"
	"github.com/pressleaf/pressleaf/pkg/middleware"
	"github.com/pressleaf/pressleaf/pkg/observability"
	"github.com/pressleaf/pressleaf/pkg/prefs"
	"github.com/pressleaf/pressleaf/pkg/render"
	"github.com/pressleaf/pressleaf/pkg/session"
	"github.com/pressleaf/pressleaf/pkg/store"
)

// Deps carries everything the server needs. Limiter and Mailer may be nil;
// the corresponding behaviors (login throttling, contact delivery) degrade
// gracefully.
type Deps struct {
	Store    *store.Store
	Sessions session.Store
	Codec    *auth.Codec
	Resolver *prefs.Resolver
	Renderer *render.Renderer
	Bundle   *i18n.Bundle
	Mailer   mail.Sender
	Limiter  *middleware.RateLimiter
	Metrics  *observability.Metrics
	Logger   *observability.Logger

	AdminEmail  string
	CORSOrigins []string
	MaxBodySize int64
}

// Server is the HTTP server for the whole site.
type Server struct {
	router    *mux.Router
	store     *store.Store
	sessions  session.Store
	codec     *auth.Codec
	extractor *credentials.Extractor
	gates     *middleware.Auth
	resolver  *prefs.Resolver
	renderer  *render.Renderer
	bundle    *i18n.Bundle
	mailer    mail.Sender
	limiter   *middleware.RateLimiter
	metrics   *observability.Metrics
	logger    *observability.Logger

	corsOrigins []string
	maxBody     int64
}

// NewServer builds the server and registers all routes.
func NewServer(deps Deps) *Server {
	extractor := credentials.NewExtractor(deps.Sessions).WithMetrics(deps.Metrics)
	s := &Server{
		router:      mux.NewRouter(),
		store:       deps.Store,
		sessions:    deps.Sessions,
		codec:       deps.Codec,
		extractor:   extractor,
		gates:       middleware.NewAuth(extractor, deps.Codec, deps.AdminEmail, deps.Metrics),
		resolver:    deps.Resolver,
		renderer:    deps.Renderer,
		bundle:      deps.Bundle,
		mailer:      deps.Mailer,
		limiter:     deps.Limiter,
		metrics:     deps.Metrics,
		logger:      deps.Logger,
		corsOrigins: deps.CORSOrigins,
		maxBody:     deps.MaxBodySize,
	}
	if s.maxBody == 0 {
		s.maxBody = 1 << 20
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all routes.
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()

	// Auth. Login is throttled when a limiter is configured.
	login := http.Handler(http.HandlerFunc(s.login))
	if s.limiter != nil {
		login = s.limiter.Limit(login)
	}
	api.Handle("/login", login).Methods("POST")
	api.HandleFunc("/register", s.register).Methods("POST")
	api.HandleFunc("/logout", s.logout).Methods("GET")
	api.HandleFunc("/user", s.currentUser).Methods("GET")

	// Localized public content.
	api.HandleFunc("/i18n/{lang}", s.getMessages).Methods("GET")
	api.HandleFunc("/{lang}/pages", s.listPages).Methods("GET")
	api.HandleFunc("/{lang}/pages/{slug}", s.getPage).Methods("GET")
	api.HandleFunc("/{lang}/blogs", s.listBlogs).Methods("GET")
	api.HandleFunc("/{lang}/blogs/{slug}", s.getBlog).Methods("GET")

	// CMS writes, admin only.
	api.Handle("/pages", s.gates.RequireAdmin(http.HandlerFunc(s.createPage))).Methods("POST")
	api.Handle("/pages/{id}", s.gates.RequireAdmin(http.HandlerFunc(s.updatePage))).Methods("PUT")
	api.Handle("/pages/{id}", s.gates.RequireAdmin(http.HandlerFunc(s.deletePage))).Methods("DELETE")
	api.Handle("/blogs", s.gates.RequireAdmin(http.HandlerFunc(s.createBlog))).Methods("POST")
	api.Handle("/blogs/{id}", s.gates.RequireAdmin(http.HandlerFunc(s.updateBlog))).Methods("PUT")
	api.Handle("/blogs/{id}", s.gates.RequireAdmin(http.HandlerFunc(s.deleteBlog))).Methods("DELETE")

	// Personal resources, any verified identity.
	api.Handle("/expenses", s.gates.RequireUser(http.HandlerFunc(s.listExpenses))).Methods("GET")
	api.Handle("/expenses", s.gates.RequireUser(http.HandlerFunc(s.createExpense))).Methods("POST")
	api.Handle("/expenses/{id}", s.gates.RequireUser(http.HandlerFunc(s.updateExpense))).Methods("PUT")
	api.Handle("/expenses/{id}", s.gates.RequireUser(http.HandlerFunc(s.deleteExpense))).Methods("DELETE")
	api.Handle("/notes", s.gates.RequireUser(http.HandlerFunc(s.listNotes))).Methods("GET")
	api.Handle("/notes", s.gates.RequireUser(http.HandlerFunc(s.createNote))).Methods("POST")
	api.Handle("/notes/{id}", s.gates.RequireUser(http.HandlerFunc(s.updateNote))).Methods("PUT")
	api.Handle("/notes/{id}", s.gates.RequireUser(http.HandlerFunc(s.deleteNote))).Methods("DELETE")

	api.HandleFunc("/contact", s.contact).Methods("POST")

	// Preference switches.
	s.router.HandleFunc("/lang-switch", s.resolver.SwitchLang).Methods("POST")
	s.router.HandleFunc("/mode-switch", s.resolver.SwitchMode).Methods("POST")

	// Static assets and the rendered site.
	s.router.PathPrefix("/assets/").Handler(render.AssetsHandler()).Methods("GET")
	if s.renderer != nil {
		s.router.HandleFunc("/", s.renderSite).Methods("GET")
		s.router.HandleFunc("/blog", s.renderBlogIndex).Methods("GET")
		s.router.HandleFunc("/blog/{slug}", s.renderBlogPost).Methods("GET")
		s.router.HandleFunc("/{slug}", s.renderSite).Methods("GET")
	}
}

// Router exposes the raw router for tests.
func (s *Server) Router() *mux.Router { return s.router }

// log returns the request-scoped logger when the middleware stack installed
// one, falling back to the server logger.
func (s *Server) log(r *http.Request) *observability.Logger {
	return httputil.RequestLogger(r, s.logger)
}

// invalidateRenderCache purges cached anonymous renders after a CMS write.
func (s *Server) invalidateRenderCache() {
	if s.renderer != nil {
		s.renderer.InvalidateCache()
	}
}

// Handler wraps the router in the full middleware stack: request id,
// logging, recovery, body limits, CORS, session minting and the render
// context injector.
func (s *Server) Handler() http.Handler {
	injector := render.NewInjector(s.extractor, s.codec, s.resolver)

	middlewares := []func(http.Handler) http.Handler{
		httputil.RequestIDMiddleware,
		httputil.LoggingMiddleware(s.logger),
		httputil.RecoveryMiddleware(s.logger),
	}
	if s.metrics != nil {
		middlewares = append(middlewares, httputil.MetricsMiddleware(s.metrics))
	}
	middlewares = append(middlewares,
		httputil.MaxBytesMiddleware(s.maxBody),
		session.EnsureSession(s.sessions),
		injector.Inject,
	)
	chain := httputil.Chain(middlewares...)

	c := cors.New(cors.Options{
		AllowedOrigins:   s.corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	return c.Handler(chain(s.router))
}
