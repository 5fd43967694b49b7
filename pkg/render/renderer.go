package render

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/pressleaf/pressleaf/pkg/observability"
	"github.com/pressleaf/pressleaf/pkg/store"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

//go:embed assets/*
var embeddedAssets embed.FS

// Options configures a Renderer.
type Options struct {
	// TemplatesDir overrides the embedded templates with a directory on
	// disk. Empty means embedded only.
	TemplatesDir string
	// DevReload re-parses templates when files under TemplatesDir change.
	// Ignored when TemplatesDir is empty.
	DevReload bool
	// CacheSize bounds the anonymous render cache. Zero disables caching.
	CacheSize int

	Metrics *observability.Metrics
	Logger  *observability.Logger
}

// Renderer executes page templates and serves the client bootstrap asset.
// Template state is guarded for dev reload; render state is per-request.
type Renderer struct {
	mu   sync.RWMutex
	tmpl *template.Template

	dir     string
	cache   *lru.Cache[string, []byte]
	metrics *observability.Metrics
	logger  *observability.Logger
	watcher *fsnotify.Watcher
}

// PageView is the data handed to page templates.
type PageView struct {
	Page     store.Page
	Blogs    []store.Blog
	Ctx      *Context
	Messages map[string]string
	State    template.JS
	Year     int
}

// NewRenderer parses templates and, when requested, starts watching the
// template directory for changes.
func NewRenderer(opts Options) (*Renderer, error) {
	r := &Renderer{
		dir:     opts.TemplatesDir,
		metrics: opts.Metrics,
		logger:  opts.Logger,
	}
	if opts.CacheSize > 0 {
		cache, err := lru.New[string, []byte](opts.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create render cache: %w", err)
		}
		r.cache = cache
	}

	if err := r.reload(); err != nil {
		return nil, err
	}

	if opts.DevReload && opts.TemplatesDir != "" {
		if err := r.watch(); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Renderer) reload() error {
	var src fs.FS
	if r.dir != "" {
		src = os.DirFS(r.dir)
	} else {
		sub, err := fs.Sub(embeddedTemplates, "templates")
		if err != nil {
			return err
		}
		src = sub
	}

	funcs := template.FuncMap{
		"safeHTML": func(s string) template.HTML { return template.HTML(s) },
	}
	tmpl, err := template.New("page.html").Funcs(funcs).ParseFS(src, "*.html")
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}

	r.mu.Lock()
	r.tmpl = tmpl
	r.mu.Unlock()

	if r.cache != nil {
		r.cache.Purge()
	}
	return nil
}

func (r *Renderer) watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create template watcher: %w", err)
	}
	if err := watcher.Add(r.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", r.dir, err)
	}
	r.watcher = watcher

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if err := r.reload(); err != nil && r.logger != nil {
					r.logger.WithError(err).Error("template reload failed")
				} else if r.logger != nil {
					r.logger.WithField("file", event.Name).Info("templates reloaded")
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				if r.logger != nil {
					r.logger.WithError(err).Warn("template watcher error")
				}
			}
		}
	}()
	return nil
}

// Close stops the dev-reload watcher if one is running.
func (r *Renderer) Close() error {
	if r.watcher != nil {
		return r.watcher.Close()
	}
	return nil
}

// InvalidateCache drops every cached anonymous render. Called after CMS
// writes so stale HTML never outlives the content it was built from. The
// cache is keyed per slug, locale and theme variant, but navigation and
// index pages can embed any page's content, so a full purge is the only
// safe invalidation.
func (r *Renderer) InvalidateCache() {
	if r.cache != nil {
		r.cache.Purge()
	}
}

// cacheKey identifies one anonymous render variant.
func cacheKey(slug, locale, theme string) string {
	return slug + "|" + locale + "|" + theme
}

// RenderPage executes the page template into the response. Anonymous
// variants are cached; any render carrying an identity bypasses the cache
// because its hydration state is personal.
func (r *Renderer) RenderPage(w http.ResponseWriter, req *http.Request, view PageView) error {
	rc := view.Ctx
	if rc == nil {
		rc = FromRequest(req)
		view.Ctx = rc
	}
	if rc == nil {
		rc = &Context{Locale: "en", Theme: "light"}
		view.Ctx = rc
	}
	if view.Year == 0 {
		view.Year = time.Now().Year()
	}

	state, err := json.Marshal(rc.State())
	if err != nil {
		return fmt.Errorf("failed to marshal hydration state: %w", err)
	}
	view.State = template.JS(state)

	key := cacheKey(view.Page.Slug, rc.Locale, rc.Theme)
	cacheable := r.cache != nil && rc.Anonymous()

	if cacheable {
		if body, ok := r.cache.Get(key); ok {
			if r.metrics != nil {
				r.metrics.RenderCacheHit.Inc()
			}
			writeHTML(w, body)
			return nil
		}
	}

	r.mu.RLock()
	tmpl := r.tmpl
	r.mu.RUnlock()

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "page.html", view); err != nil {
		return fmt.Errorf("failed to render %s: %w", view.Page.Slug, err)
	}

	if cacheable {
		r.cache.Add(key, buf.Bytes())
	}
	if r.metrics != nil {
		r.metrics.PageRenders.WithLabelValues(rc.Locale).Inc()
	}
	writeHTML(w, buf.Bytes())
	return nil
}

func writeHTML(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(body)
}

// AssetsHandler serves the embedded static assets (the client bootstrap
// script and base stylesheet) under /assets/.
func AssetsHandler() http.Handler {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		// The embed directive guarantees the directory exists.
		panic(err)
	}
	return http.StripPrefix("/assets/", http.FileServer(http.FS(sub)))
}
