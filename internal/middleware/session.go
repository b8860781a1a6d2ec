package middleware

import (
	"context"
	"net/http"

	"polarismall.org/mall-web/internal/session"
)

// Session loads the signed session cookie into a request-scoped
// session.Scope. Views and the API client read and replace the session
// exclusively through the scope, so cookie and in-memory state can never
// diverge within a request.
func Session(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope := store.NewScope(w, r)
			ctx := context.WithValue(r.Context(), ctxKeyScope, scope)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
