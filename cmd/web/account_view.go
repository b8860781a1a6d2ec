package main

import (
	"net/http"
	"time"

	mw "polarismall.org/mall-web/internal/middleware"
	"polarismall.org/mall-web/internal/router"
	"polarismall.org/mall-web/internal/session"
)

// AccountViewModel backs the account page.
type AccountViewModel struct {
	User      *session.User
	Expiry    time.Time
	HasExpiry bool
	Notice    string
}

func (a *App) accountView(w http.ResponseWriter, r *http.Request, rc router.Context) {
	pd := a.newPageData(r, "", rc.Path)
	pd.Title = pd.T("account.title")
	client := a.api(r)
	notice := ""

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		switch r.PostFormValue("action") {
		case "logout":
			mw.Scope(r).Reset()
			router.Navigate(w, r, "/")
			return
		case "refresh":
			if _, err := client.RefreshSession(r.Context()); err != nil {
				a.fail(r, pd, err, "/account")
			} else {
				notice = pd.T("account.refreshed")
			}
		case "reload":
			if _, err := client.Me(r.Context()); err != nil {
				a.fail(r, pd, err, "/account")
			} else {
				notice = pd.T("account.reloaded")
			}
		}
	}

	// Session may have changed above; read it back through the scope.
	sess := mw.CurrentSession(r)
	view := AccountViewModel{User: sess.User, Notice: notice}
	if expiry, ok := session.TokenExpiry(sess.AccessToken); ok {
		view.Expiry = expiry
		view.HasExpiry = true
	}

	pd.User = sess.User
	pd.View = view
	a.render(w, r, "account", pd)
}
