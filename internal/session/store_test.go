package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestWithCookies(t *testing.T, rec *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestLoadMissingCookieReturnsEmpty(t *testing.T) {
	st := NewStore("test-key", false)
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	got := st.Load(req)
	assert.Equal(t, Empty(), got)
	assert.False(t, got.LoggedIn())
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	st := NewStore("test-key", false)
	want := Session{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		User:         &User{ID: "U1", Email: "buyer@example.com", Role: "buyer"},
	}

	rec := httptest.NewRecorder()
	st.Save(rec, want)
	got := st.Load(requestWithCookies(t, rec))

	assert.Equal(t, want, got)
	assert.Equal(t, "buyer", got.Role())
}

func TestLoadRejectsCorruptValues(t *testing.T) {
	st := NewStore("test-key", false)

	for _, value := range []string{"garbage", "a.b.c", "!!!.###", "eyJ9.bad-sig"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: StorageKey, Value: value})
		assert.Equal(t, Empty(), st.Load(req), "value %q", value)
	}
}

func TestLoadRejectsForeignSignature(t *testing.T) {
	writer := NewStore("key-one", false)
	reader := NewStore("key-two", false)

	rec := httptest.NewRecorder()
	writer.Save(rec, Session{AccessToken: "tok"})

	assert.Equal(t, Empty(), reader.Load(requestWithCookies(t, rec)))
}

func TestClearExpiresCookie(t *testing.T) {
	st := NewStore("test-key", false)
	rec := httptest.NewRecorder()
	st.Clear(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, StorageKey, cookies[0].Name)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestScopeSetPersistsWholesale(t *testing.T) {
	st := NewStore("test-key", false)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	scope := st.NewScope(rec, req)
	assert.Equal(t, Empty(), scope.Get())

	next := Session{AccessToken: "a", RefreshToken: "r", User: &User{ID: "U1", Role: "admin"}}
	scope.Set(next)
	assert.Equal(t, next, scope.Get())
	assert.Equal(t, next, st.Load(requestWithCookies(t, rec)))
}

func TestScopeReset(t *testing.T) {
	st := NewStore("test-key", false)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	scope := st.NewScope(rec, req)
	scope.Set(Session{AccessToken: "a"})
	scope.Reset()

	assert.Equal(t, Empty(), scope.Get())
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "U1",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("backend-secret"))
	require.NoError(t, err)

	got, ok := TokenExpiry(signed)
	require.True(t, ok)
	assert.True(t, got.Equal(exp), "got %v want %v", got, exp)

	_, ok = TokenExpiry("not-a-jwt")
	assert.False(t, ok)
	_, ok = TokenExpiry("")
	assert.False(t, ok)
}
