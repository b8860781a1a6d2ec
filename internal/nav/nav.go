package nav

import (
	"strings"

	"polarismall.org/mall-web/internal/session"
)

// Item is one top-level navigation entry.
type Item struct {
	Path     string
	LabelKey string
}

// RenderedItem is the template view model for a nav link.
type RenderedItem struct {
	Href     string
	LabelKey string
	Active   bool
}

// Build assembles the nav for the current session. Logged-out visitors see
// the login link; logged-in users get cart, orders and account, and admins
// additionally the admin probe.
func Build(currentPath string, sess session.Session) []RenderedItem {
	if currentPath == "" {
		currentPath = "/"
	}
	items := []Item{
		{Path: "/", LabelKey: "nav.home"},
		{Path: "/products", LabelKey: "nav.products"},
	}
	if !sess.LoggedIn() {
		items = append(items, Item{Path: "/login", LabelKey: "nav.login"})
	} else {
		items = append(items,
			Item{Path: "/cart", LabelKey: "nav.cart"},
			Item{Path: "/orders", LabelKey: "nav.orders"},
			Item{Path: "/account", LabelKey: "nav.account"},
		)
		if sess.Role() == "admin" {
			items = append(items, Item{Path: "/admin", LabelKey: "nav.admin"})
		}
	}
	out := make([]RenderedItem, 0, len(items))
	for _, it := range items {
		out = append(out, RenderedItem{
			Href:     it.Path,
			LabelKey: it.LabelKey,
			Active:   isActive(it.Path, currentPath),
		})
	}
	return out
}

func isActive(itemPath, currentPath string) bool {
	if itemPath == "/" {
		return currentPath == "/"
	}
	if currentPath == itemPath {
		return true
	}
	return strings.HasPrefix(currentPath, itemPath+"/")
}
