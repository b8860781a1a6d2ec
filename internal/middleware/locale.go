package middleware

import (
	"context"
	"net/http"
	"strings"

	"polarismall.org/mall-web/internal/i18n"
)

const localeCookie = "hl"

// Locale resolves the display language from the ?hl override, the hl cookie
// or Accept-Language, and stores it in the request context.
func Locale(bundle *i18n.Bundle) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := ""
			if q := r.URL.Query().Get(localeCookie); q != "" {
				lang = strings.ToLower(q)
				http.SetCookie(w, &http.Cookie{Name: localeCookie, Value: lang, Path: "/"})
			} else if c, err := r.Cookie(localeCookie); err == nil && c.Value != "" {
				lang = strings.ToLower(c.Value)
			} else {
				lang = bundle.Resolve(r.Header.Get("Accept-Language"))
			}
			if !bundle.IsSupported(lang) {
				lang = bundle.Fallback()
			}
			w.Header().Set("Content-Language", lang)
			ctx := context.WithValue(r.Context(), ctxKeyLang, lang)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Lang returns the resolved display language, defaulting to zh.
func Lang(r *http.Request) string {
	if v, ok := r.Context().Value(ctxKeyLang).(string); ok && v != "" {
		return v
	}
	return "zh"
}

// VaryLocale sets the Vary header for Accept-Language on dynamic responses.
func VaryLocale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Accept-Language")
		next.ServeHTTP(w, r)
	})
}
