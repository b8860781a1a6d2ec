package main

import (
	"net/http"

	"polarismall.org/mall-web/internal/router"
)

// AdminViewModel backs the admin probe page. The raw payload is shown
// verbatim so operators can see exactly what the backend returned.
type AdminViewModel struct {
	Payload string
}

func (a *App) adminView(w http.ResponseWriter, r *http.Request, rc router.Context) {
	pd := a.newPageData(r, "", rc.Path)
	pd.Title = pd.T("admin.title")

	view := AdminViewModel{}
	raw, err := a.api(r).AdminPing(r.Context())
	if err != nil {
		a.fail(r, pd, err, "/admin")
	} else {
		view.Payload = string(raw)
	}

	pd.View = view
	a.render(w, r, "admin", pd)
}
