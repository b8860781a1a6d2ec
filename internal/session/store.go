package session

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

const cookieTTL = 30 * 24 * time.Hour

// Store persists the session blob as an HMAC-SHA256-signed cookie. A missing,
// malformed or tampered cookie always loads as the empty session; Load never
// fails.
type Store struct {
	signKey []byte
	secure  bool
}

// NewStore builds a Store. An empty signing key gets replaced with a random
// process-ephemeral one, which is fine for development but logs everyone out
// on restart.
func NewStore(signingKey string, secure bool) *Store {
	key := []byte(signingKey)
	if len(key) == 0 {
		key = make([]byte, 32)
		_, _ = rand.Read(key)
	}
	return &Store{signKey: key, secure: secure}
}

// Load reads and verifies the session cookie.
func (st *Store) Load(r *http.Request) Session {
	c, err := r.Cookie(StorageKey)
	if err != nil || c.Value == "" {
		return Empty()
	}
	return st.decode(c.Value)
}

// Save writes the full session as a signed cookie. Partial updates do not
// exist; callers always hand over a complete replacement.
func (st *Store) Save(w http.ResponseWriter, s Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     StorageKey,
		Value:    st.encode(s),
		Path:     "/",
		HttpOnly: true,
		Secure:   st.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(cookieTTL),
	})
}

// Clear removes the persisted session.
func (st *Store) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     StorageKey,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   st.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func (st *Store) encode(s Session) string {
	b, _ := json.Marshal(s)
	payload := base64.RawURLEncoding.EncodeToString(b)
	mac := hmac.New(sha256.New, st.signKey)
	mac.Write(b)
	sig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	return payload + "." + sig
}

func (st *Store) decode(value string) Session {
	parts := strings.Split(value, ".")
	if len(parts) != 2 {
		return Empty()
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return Empty()
	}
	sig, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return Empty()
	}
	mac := hmac.New(sha256.New, st.signKey)
	mac.Write(payload)
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return Empty()
	}
	var s Session
	if err := json.Unmarshal(payload, &s); err != nil {
		return Empty()
	}
	return s
}

// Scope binds a Store to one in-flight request so views and the API client
// share a single mutable session value. Set persists immediately, keeping
// memory and cookie state consistent.
type Scope struct {
	store *Store
	w     http.ResponseWriter
	cur   Session
}

// NewScope loads the request's session into a Scope.
func (st *Store) NewScope(w http.ResponseWriter, r *http.Request) *Scope {
	return &Scope{store: st, w: w, cur: st.Load(r)}
}

// Get returns the current session value.
func (sc *Scope) Get() Session { return sc.cur }

// Set replaces the session wholesale and persists it.
func (sc *Scope) Set(s Session) {
	sc.cur = s
	sc.store.Save(sc.w, s)
}

// Reset drops the session in memory and storage.
func (sc *Scope) Reset() {
	sc.cur = Empty()
	sc.store.Clear(sc.w)
}
