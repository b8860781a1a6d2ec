// Package router dispatches storefront paths to view render functions with
// auth and role guards. Matching is deterministic: an exact pattern wins,
// then the first registered parameterized pattern with the same segment
// shape, then the wildcard fallback.
package router

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"polarismall.org/mall-web/internal/session"
)

// Wildcard is the catch-all pattern rendered when nothing else matches.
const Wildcard = "*"

// Redirect targets used by the guard pipeline.
const (
	loginPath   = "/login"
	accountPath = "/account"
)

// Context carries resolved route state into a render function.
type Context struct {
	Path   string
	Params map[string]string
}

// RenderFunc renders one view.
type RenderFunc func(w http.ResponseWriter, r *http.Request, rc Context)

// Route is one static route-table entry. Entries are configuration; they are
// never mutated after Register.
type Route struct {
	Pattern      string
	RequiresAuth bool
	RequiredRole string
	Render       RenderFunc
}

// Router resolves paths against the route table and enforces guards before
// rendering. Guard redirects are plain 302s, so they re-enter the same
// pipeline on the follow-up request; the login and account routes must
// therefore be reachable under their own guard settings.
type Router struct {
	routes   []Route
	wildcard *Route
	state    func(*http.Request) session.Session
	onRoute  func(r *http.Request, path string)
	log      *zap.Logger
}

// New builds a Router. state supplies the current session for guard checks;
// onRoute, when non-nil, fires after a successful render (nav highlighting,
// instrumentation).
func New(state func(*http.Request) session.Session, onRoute func(*http.Request, string), log *zap.Logger) *Router {
	if log == nil {
		log = zap.NewNop()
	}
	return &Router{state: state, onRoute: onRoute, log: log}
}

// Register appends routes to the table. Registration order decides ties
// between parameterized patterns.
func (rt *Router) Register(routes ...Route) {
	for _, route := range routes {
		if route.Pattern == Wildcard {
			r := route
			rt.wildcard = &r
			continue
		}
		rt.routes = append(rt.routes, route)
	}
}

// NormalizePath guarantees a non-empty, slash-prefixed path.
func NormalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		return "/" + path
	}
	return path
}

// Match resolves a path. The boolean result is false only when the path
// fell through to the wildcard.
func (rt *Router) Match(path string) (Route, map[string]string, bool) {
	path = NormalizePath(path)

	for _, route := range rt.routes {
		if !strings.Contains(route.Pattern, "/:") && route.Pattern == path {
			return route, map[string]string{}, true
		}
	}
	pathParts := strings.Split(path, "/")
	for _, route := range rt.routes {
		if !strings.Contains(route.Pattern, "/:") {
			continue
		}
		patternParts := strings.Split(route.Pattern, "/")
		if len(patternParts) != len(pathParts) {
			continue
		}
		params := map[string]string{}
		ok := true
		for i, part := range patternParts {
			if strings.HasPrefix(part, ":") {
				params[part[1:]] = pathParts[i]
				continue
			}
			if part != pathParts[i] {
				ok = false
				break
			}
		}
		if ok {
			return route, params, true
		}
	}
	if rt.wildcard != nil {
		return *rt.wildcard, map[string]string{}, false
	}
	return Route{}, map[string]string{}, false
}

// Navigate redirects to a normalized path. Redirecting to the current path
// is allowed; the follow-up request simply renders again.
func Navigate(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, NormalizePath(path), http.StatusFound)
}

// ServeHTTP resolves the request path, runs the guard pipeline and renders.
func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := NormalizePath(r.URL.Path)
	route, params, matched := rt.Match(path)
	if route.Render == nil {
		http.NotFound(w, r)
		return
	}
	sess := rt.state(r)

	if route.RequiresAuth && !sess.LoggedIn() {
		rt.log.Debug("guard redirect to login", zap.String("path", path))
		Navigate(w, r, loginPath)
		return
	}
	if route.RequiredRole != "" && sess.Role() != route.RequiredRole {
		rt.log.Debug("guard redirect to account",
			zap.String("path", path),
			zap.String("required_role", route.RequiredRole),
			zap.String("role", sess.Role()))
		Navigate(w, r, accountPath)
		return
	}

	if !matched {
		// headers freeze at WriteHeader, so the content type must land first
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
	}
	route.Render(w, r, Context{Path: path, Params: params})
	if rt.onRoute != nil {
		rt.onRoute(r, path)
	}
}
