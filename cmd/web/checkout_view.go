package main

import (
	"net/http"

	"polarismall.org/mall-web/internal/api"
	"polarismall.org/mall-web/internal/checkout"
	"polarismall.org/mall-web/internal/router"
)

// CheckoutViewModel backs the checkout page: the cart being purchased, the
// adjustable inputs and, once previewed, the computed totals.
type CheckoutViewModel struct {
	Cart    api.Cart
	Empty   bool
	Input   checkout.PreviewInput
	Preview *api.Preview
}

func (a *App) checkoutView(w http.ResponseWriter, r *http.Request, rc router.Context) {
	pd := a.newPageData(r, "", rc.Path)
	pd.Title = pd.T("checkout.title")
	client := a.api(r)
	view := CheckoutViewModel{}

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		view.Input = checkout.BuildPreviewInput(r.PostForm)
		switch r.PostFormValue("action") {
		case "submit":
			order, err := client.CreateOrder(r.Context())
			if err != nil {
				a.fail(r, pd, err, "/checkout")
				break
			}
			router.Navigate(w, r, "/payments/"+order.ID)
			return
		default: // preview
			preview, err := client.CheckoutPreview(r.Context(), view.Input)
			if err != nil {
				a.fail(r, pd, err, "/checkout")
				break
			}
			view.Preview = &preview
		}
	}

	cart, err := client.GetCart(r.Context())
	if err != nil {
		if pd.Err == nil {
			a.fail(r, pd, err, "/checkout")
		}
	} else {
		view.Cart = cart
		view.Empty = len(cart.Items) == 0
	}

	pd.View = view
	a.render(w, r, "checkout", pd)
}
