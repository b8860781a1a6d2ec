package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"polarismall.org/mall-web/internal/session"
)

func TestWithinBudget(t *testing.T) {
	tests := []struct {
		duration time.Duration
		budget   time.Duration
		want     bool
	}{
		{24 * time.Millisecond, 40 * time.Millisecond, true},
		{41 * time.Millisecond, 40 * time.Millisecond, false},
		{0, 0, true},
	}
	for _, tt := range tests {
		if got := WithinBudget(tt.duration, tt.budget); got != tt.want {
			t.Fatalf("WithinBudget(%v, %v) = %v, want %v", tt.duration, tt.budget, got, tt.want)
		}
	}
}

func TestSessionMiddlewareScope(t *testing.T) {
	store := session.NewStore("test-key", false)
	var seen session.Session
	h := Session(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scope := Scope(r)
		seen = scope.Get()
		scope.Set(session.Session{AccessToken: "a1"})
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen.LoggedIn() {
		t.Fatalf("first request should start logged out")
	}
	// the handler's Set must be persisted as a cookie
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	if got := store.Load(req); got.AccessToken != "a1" {
		t.Fatalf("expected persisted access token, got %+v", got)
	}
}

func TestScopeWithoutMiddlewareIsEmpty(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := CurrentSession(r); got.LoggedIn() {
		t.Fatalf("expected empty session, got %+v", got)
	}
}

func TestCSRFRejectsPostWithoutToken(t *testing.T) {
	h := CSRF(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cart", nil))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestCSRFAcceptsFormToken(t *testing.T) {
	h := CSRF(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// first request yields the token cookie
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected csrf cookie")
	}
	token := cookies[0].Value

	form := url.Values{}
	form.Set("_csrf", token)
	req := httptest.NewRequest(http.MethodPost, "/cart", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with form token, got %d", rec.Code)
	}
}

func TestLoggerPassesThrough(t *testing.T) {
	h := Logger(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected status to pass through, got %d", rec.Code)
	}
}

func TestLoggerRecordsWrittenStatus(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := Logger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if got := fields["status"]; got != int64(http.StatusNotFound) {
		t.Fatalf("logged status = %v, want 404", got)
	}
}

func TestLangDefaultsToZh(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := Lang(r); got != "zh" {
		t.Fatalf("expected zh, got %s", got)
	}
}
