package main

import (
	"net/http"

	"go.uber.org/zap"

	"polarismall.org/mall-web/internal/api"
	"polarismall.org/mall-web/internal/orders"
	"polarismall.org/mall-web/internal/payment"
	"polarismall.org/mall-web/internal/router"
)

// PaymentViewModel backs the payment page for one order.
type PaymentViewModel struct {
	Order   orders.Order
	Payment *api.Payment
	Paid    bool
}

func (a *App) paymentView(w http.ResponseWriter, r *http.Request, rc router.Context) {
	orderID := rc.Params["orderId"]
	pd := a.newPageData(r, "", rc.Path)
	pd.Title = pd.T("payment.title")
	client := a.api(r)

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		switch r.PostFormValue("action") {
		case "simulate":
			if err := a.simulateCallback(r, client, orderID, r.PostFormValue("result")); err != nil {
				a.fail(r, pd, err, rc.Path)
				break
			}
			router.Navigate(w, r, "/payment-result/"+orderID)
			return
		default: // create
			if _, err := client.CreatePayment(r.Context(), orderID, r.PostFormValue("provider")); err != nil {
				a.fail(r, pd, err, rc.Path)
				break
			}
			router.Navigate(w, r, rc.Path)
			return
		}
	}

	view := PaymentViewModel{}
	order, err := client.GetOrder(r.Context(), orderID)
	if err != nil {
		if pd.Err == nil {
			a.fail(r, pd, err, rc.Path)
		}
	} else {
		view.Order = order
		view.Paid = order.Status != orders.StatusPendingPayment
		pay, perr := client.GetPaymentByOrder(r.Context(), orderID)
		if perr != nil {
			a.log.Warn("load payment", zap.String("order_id", orderID), zap.Error(perr))
		} else {
			view.Payment = pay
		}
	}

	pd.View = view
	a.render(w, r, "payment", pd)
}

// simulateCallback plays the provider side of mockpay: it signs a callback
// body with the shared secret and posts it to the backend, the same way the
// real provider would.
func (a *App) simulateCallback(r *http.Request, client *api.Client, orderID, result string) error {
	order, err := client.GetOrder(r.Context(), orderID)
	if err != nil {
		return err
	}
	payload := payment.BuildCallbackPayload(orderID, result, order.TotalCents)
	body, signature, err := payment.SignPayload(a.cfg.MockpaySecret, payload)
	if err != nil {
		return err
	}
	return client.MockpayCallback(r.Context(), body, signature)
}
