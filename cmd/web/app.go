package main

import (
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"polarismall.org/mall-web/internal/api"
	"polarismall.org/mall-web/internal/cms"
	"polarismall.org/mall-web/internal/config"
	"polarismall.org/mall-web/internal/format"
	"polarismall.org/mall-web/internal/i18n"
	mw "polarismall.org/mall-web/internal/middleware"
	"polarismall.org/mall-web/internal/nav"
	"polarismall.org/mall-web/internal/router"
	"polarismall.org/mall-web/internal/seo"
	"polarismall.org/mall-web/internal/session"
)

// App wires configuration, templates, i18n and the view router together.
// One App serves all requests; per-request state lives in the session scope.
type App struct {
	cfg     config.Config
	log     *zap.Logger
	bundle  *i18n.Bundle
	content *cms.Library
	store   *session.Store
	httpc   *http.Client

	mu    sync.Mutex
	pages map[string]*template.Template
}

func newApp(cfg config.Config, log *zap.Logger, bundle *i18n.Bundle) *App {
	return &App{
		cfg:     cfg,
		log:     log,
		bundle:  bundle,
		content: cms.NewLibrary(cfg.ContentDir),
		store:   session.NewStore(cfg.SigningKey, cfg.IsProd()),
		httpc:   &http.Client{Timeout: 10 * time.Second},
		pages:   map[string]*template.Template{},
	}
}

// routes builds the view router with the full route table. Guard settings
// mirror which pages need a logged-in user or the admin role.
func (a *App) routes() *router.Router {
	rt := router.New(
		func(r *http.Request) session.Session { return mw.CurrentSession(r) },
		func(r *http.Request, path string) {
			a.log.Debug("route rendered", zap.String("path", path))
		},
		a.log,
	)
	rt.Register(
		router.Route{Pattern: "/", Render: a.homeView},
		router.Route{Pattern: "/login", Render: a.loginView},
		router.Route{Pattern: "/products", Render: a.productListView},
		router.Route{Pattern: "/products/:id", Render: a.productDetailView},
		router.Route{Pattern: "/cart", RequiresAuth: true, Render: a.cartView},
		router.Route{Pattern: "/checkout", RequiresAuth: true, Render: a.checkoutView},
		router.Route{Pattern: "/payments/:orderId", RequiresAuth: true, Render: a.paymentView},
		router.Route{Pattern: "/payment-result/:orderId", RequiresAuth: true, Render: a.paymentResultView},
		router.Route{Pattern: "/orders", RequiresAuth: true, Render: a.orderListView},
		router.Route{Pattern: "/orders/:id", RequiresAuth: true, Render: a.orderDetailView},
		router.Route{Pattern: "/account", RequiresAuth: true, Render: a.accountView},
		router.Route{Pattern: "/admin", RequiresAuth: true, RequiredRole: "admin", Render: a.adminView},
		router.Route{Pattern: router.Wildcard, Render: a.notFoundView},
	)
	return rt
}

// api builds a backend client bound to the request's session scope, so token
// changes from login or refresh persist into the response cookie.
func (a *App) api(r *http.Request) *api.Client {
	return api.New(a.cfg.APIBaseURL, a.httpc, mw.Scope(r))
}

// ViewError is an inline failure notice. Transient failures render a retry
// link back to the same page.
type ViewError struct {
	Message   string
	Transient bool
	RetryPath string
}

// PageData is the envelope every template receives.
type PageData struct {
	Title string
	Lang  string
	Path  string
	Nav   []nav.RenderedItem
	CSRF  string
	User  *session.User
	Meta  seo.Meta
	Err   *ViewError
	View  any

	bundle *i18n.Bundle
}

// T resolves a translation key in the page language.
func (p *PageData) T(key string) string { return p.bundle.T(p.Lang, key) }

// Date formats a backend timestamp for the page language.
func (p *PageData) Date(value string) string { return format.Date(value, p.Lang) }

func (a *App) newPageData(r *http.Request, title, path string) *PageData {
	sess := mw.CurrentSession(r)
	lang := mw.Lang(r)
	pd := &PageData{
		Title:  title,
		Lang:   lang,
		Path:   path,
		Nav:    nav.Build(path, sess),
		CSRF:   mw.CSRFToken(r),
		Meta:   seo.ForPage(title, "", path),
		bundle: a.bundle,
	}
	if sess.User != nil {
		u := *sess.User
		pd.User = &u
	}
	return pd
}

// fail attaches an inline error to the page and logs it. Rendering continues
// so the shell and nav stay usable around the failed section.
func (a *App) fail(r *http.Request, pd *PageData, err error, retryPath string) {
	pd.Err = &ViewError{
		Message:   api.Message(err),
		Transient: api.IsTransient(err),
		RetryPath: retryPath,
	}
	a.log.Warn("view data load failed",
		zap.String("path", pd.Path),
		zap.Bool("transient", pd.Err.Transient),
		zap.Error(err),
	)
}

var templateFuncs = template.FuncMap{
	"price": format.Price,
	"add":   func(a, b int) int { return a + b },
	"sub":   func(a, b int) int { return a - b },
	"pages": func(n int) []int {
		out := make([]int, n)
		for i := range out {
			out[i] = i + 1
		}
		return out
	},
}

// page returns the parsed template set for one page, caching in prod and
// reparsing per request in dev.
func (a *App) page(name string) (*template.Template, error) {
	if !a.cfg.Dev {
		a.mu.Lock()
		t, ok := a.pages[name]
		a.mu.Unlock()
		if ok {
			return t, nil
		}
	}
	files := []string{
		filepath.Join(a.cfg.TemplatesDir, "base.tmpl"),
		filepath.Join(a.cfg.TemplatesDir, "nav.tmpl"),
		filepath.Join(a.cfg.TemplatesDir, name+".tmpl"),
	}
	t, err := template.New("base.tmpl").Funcs(templateFuncs).ParseFiles(files...)
	if err != nil {
		return nil, fmt.Errorf("parse page %s: %w", name, err)
	}
	if !a.cfg.Dev {
		a.mu.Lock()
		a.pages[name] = t
		a.mu.Unlock()
	}
	return t, nil
}

// render executes the base layout around the named page template.
func (a *App) render(w http.ResponseWriter, r *http.Request, name string, pd *PageData) {
	t, err := a.page(name)
	if err != nil {
		a.log.Error("template parse", zap.String("page", name), zap.Error(err))
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.ExecuteTemplate(w, "base", pd); err != nil {
		a.log.Error("template exec", zap.String("page", name), zap.Error(err))
	}
}
