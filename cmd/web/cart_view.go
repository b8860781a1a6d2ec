package main

import (
	"net/http"
	"strconv"

	"polarismall.org/mall-web/internal/api"
	"polarismall.org/mall-web/internal/router"
)

// CartViewModel backs the cart page.
type CartViewModel struct {
	Cart  api.Cart
	Empty bool
}

func (a *App) cartView(w http.ResponseWriter, r *http.Request, rc router.Context) {
	pd := a.newPageData(r, "", rc.Path)
	pd.Title = pd.T("cart.title")
	client := a.api(r)

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		productID := r.PostFormValue("product_id")
		qty, _ := strconv.Atoi(r.PostFormValue("quantity"))
		var err error
		switch r.PostFormValue("action") {
		case "remove":
			err = client.RemoveCartItem(r.Context(), productID)
		case "update":
			if qty < 1 {
				qty = 1
			}
			err = client.UpdateCartItem(r.Context(), productID, qty)
		case "add":
			if qty < 1 {
				qty = 1
			}
			err = client.AddCartItem(r.Context(), productID, qty)
		}
		if err == nil {
			router.Navigate(w, r, "/cart")
			return
		}
		a.fail(r, pd, err, "/cart")
	}

	view := CartViewModel{}
	cart, err := client.GetCart(r.Context())
	if err != nil {
		if pd.Err == nil {
			a.fail(r, pd, err, "/cart")
		}
	} else {
		view.Cart = cart
		view.Empty = len(cart.Items) == 0
	}

	pd.View = view
	a.render(w, r, "cart", pd)
}
