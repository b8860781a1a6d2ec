package middleware

import (
	"net/http"

	"polarismall.org/mall-web/internal/session"
)

// context keys are unexported to avoid collisions
type ctxKey string

const (
	ctxKeyScope ctxKey = "session_scope"
	ctxKeyLang  ctxKey = "lang"
)

// Scope returns the request's session scope. Handlers outside the session
// middleware get an empty throwaway scope rather than a nil pointer.
func Scope(r *http.Request) *session.Scope {
	if v, ok := r.Context().Value(ctxKeyScope).(*session.Scope); ok && v != nil {
		return v
	}
	return session.NewStore("", false).NewScope(discardWriter{}, r)
}

// CurrentSession is a convenience read of the scoped session.
func CurrentSession(r *http.Request) session.Session {
	return Scope(r).Get()
}

type discardWriter struct{}

func (discardWriter) Header() http.Header        { return http.Header{} }
func (discardWriter) Write(b []byte) (int, error) { return len(b), nil }
func (discardWriter) WriteHeader(int)            {}
