package main

import (
	"net/http"

	"go.uber.org/zap"

	"polarismall.org/mall-web/internal/api"
	"polarismall.org/mall-web/internal/orders"
	"polarismall.org/mall-web/internal/payment"
	"polarismall.org/mall-web/internal/router"
)

// PaymentResultViewModel backs the post-payment landing page.
type PaymentResultViewModel struct {
	Order   orders.Order
	Payment *api.Payment
	Outcome payment.Outcome
}

func (a *App) paymentResultView(w http.ResponseWriter, r *http.Request, rc router.Context) {
	orderID := rc.Params["orderId"]
	pd := a.newPageData(r, "", rc.Path)
	pd.Title = pd.T("payment.result.title")
	client := a.api(r)

	view := PaymentResultViewModel{Outcome: payment.OutcomePending}
	order, err := client.GetOrder(r.Context(), orderID)
	if err != nil {
		a.fail(r, pd, err, rc.Path)
	} else {
		view.Order = order
		paymentStatus := ""
		pay, perr := client.GetPaymentByOrder(r.Context(), orderID)
		if perr != nil {
			a.log.Warn("load payment", zap.String("order_id", orderID), zap.Error(perr))
		} else if pay != nil {
			view.Payment = pay
			paymentStatus = pay.Status
		}
		view.Outcome = payment.DeriveOutcome(order.Status, paymentStatus)
	}

	pd.View = view
	a.render(w, r, "payment_result", pd)
}
