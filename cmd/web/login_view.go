package main

import (
	"net/http"
	"strings"

	"polarismall.org/mall-web/internal/api"
	mw "polarismall.org/mall-web/internal/middleware"
	"polarismall.org/mall-web/internal/router"
)

// LoginView backs the combined login and register page. Submitted values are
// echoed back on failure so the user does not retype them.
type LoginView struct {
	Email         string
	RegisterEmail string
	RegisterRole  string
	Roles         []string
	Notice        string
}

// Roles offered on the register form. Unknown values collapse to buyer.
var registerRoles = []string{"buyer", "admin", "ops"}

func normalizeRole(role string) string {
	role = strings.ToLower(strings.TrimSpace(role))
	for _, r := range registerRoles {
		if role == r {
			return r
		}
	}
	return "buyer"
}

func (a *App) loginView(w http.ResponseWriter, r *http.Request, rc router.Context) {
	if mw.CurrentSession(r).LoggedIn() {
		router.Navigate(w, r, "/account")
		return
	}

	pd := a.newPageData(r, "", rc.Path)
	pd.Title = pd.T("login.title")
	view := LoginView{RegisterRole: "buyer", Roles: registerRoles}

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		switch r.PostFormValue("form") {
		case "register":
			a.handleRegister(w, r, pd, &view)
		default:
			a.handleLogin(w, r, pd, &view)
		}
		if pd.Err == nil {
			return // navigated away
		}
	}

	pd.View = view
	a.render(w, r, "login", pd)
}

func (a *App) handleLogin(w http.ResponseWriter, r *http.Request, pd *PageData, view *LoginView) {
	creds := api.Credentials{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	view.Email = creds.Email
	if _, err := a.api(r).Login(r.Context(), creds); err != nil {
		a.fail(r, pd, err, "/login")
		return
	}
	next := r.URL.Query().Get("next")
	if next == "" || !strings.HasPrefix(next, "/") {
		next = "/"
	}
	router.Navigate(w, r, next)
}

// handleRegister creates the account and immediately logs it in, so a fresh
// visitor lands on the storefront with a live session.
func (a *App) handleRegister(w http.ResponseWriter, r *http.Request, pd *PageData, view *LoginView) {
	in := api.RegisterInput{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
		Role:     normalizeRole(r.PostFormValue("role")),
	}
	view.RegisterEmail = in.Email
	view.RegisterRole = in.Role
	client := a.api(r)
	if err := client.Register(r.Context(), in); err != nil {
		a.fail(r, pd, err, "/login")
		return
	}
	if _, err := client.Login(r.Context(), api.Credentials{Email: in.Email, Password: in.Password}); err != nil {
		a.fail(r, pd, err, "/login")
		return
	}
	router.Navigate(w, r, "/")
}
