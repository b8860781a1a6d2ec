package main

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"polarismall.org/mall-web/internal/cms"
	"polarismall.org/mall-web/internal/router"
)

// HomeView carries the landing page content.
type HomeView struct {
	Page *cms.Page
}

func (a *App) homeView(w http.ResponseWriter, r *http.Request, rc router.Context) {
	pd := a.newPageData(r, "", rc.Path)
	pd.Title = pd.T("home.title")

	view := HomeView{}
	page, err := a.content.Get("home", pd.Lang)
	switch {
	case err == nil:
		view.Page = page
		if page.Title != "" {
			pd.Title = page.Title
		}
	case errors.Is(err, cms.ErrNotFound):
		// no local content is fine, the page renders its static shell
	default:
		a.log.Warn("home content", zap.Error(err))
	}

	pd.View = view
	a.render(w, r, "home", pd)
}
