package main

import (
	"net/http"

	"polarismall.org/mall-web/internal/router"
)

func (a *App) notFoundView(w http.ResponseWriter, r *http.Request, rc router.Context) {
	pd := a.newPageData(r, "", rc.Path)
	pd.Title = pd.T("notfound.title")
	a.render(w, r, "notfound", pd)
}
