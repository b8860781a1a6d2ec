package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// StorageKey is the fixed client-side key the session blob lives under.
// It doubles as the cookie name so the browser shows the same identifier
// the legacy storefront used.
const StorageKey = "polaris.mall.session"

// User is the authenticated account attached to a session.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Session holds the client auth state. All three fields are always present:
// tokens default to the empty string and User to nil, never to a partial
// object. Mutations replace the whole value.
type Session struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         *User  `json:"user"`
}

// Empty returns the logged-out session.
func Empty() Session {
	return Session{AccessToken: "", RefreshToken: "", User: nil}
}

// LoggedIn reports whether an access token is present.
func (s Session) LoggedIn() bool { return s.AccessToken != "" }

// Role returns the user role, or "" when logged out.
func (s Session) Role() string {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}

// TokenExpiry reads the exp claim from the access token without verifying
// the signature. Verification belongs to the backend; the storefront only
// surfaces the expiry on the account page.
func TokenExpiry(accessToken string) (time.Time, bool) {
	if accessToken == "" {
		return time.Time{}, false
	}
	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(accessToken, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
