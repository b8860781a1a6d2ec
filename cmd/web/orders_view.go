package main

import (
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"polarismall.org/mall-web/internal/api"
	"polarismall.org/mall-web/internal/orders"
	"polarismall.org/mall-web/internal/paging"
	"polarismall.org/mall-web/internal/router"
)

// OrderListView backs the order history page.
type OrderListView struct {
	Page     paging.Page[orders.Order]
	Status   string
	Statuses []string
}

// Status filter choices shown above the list, in lifecycle order.
var orderStatusFilters = []string{
	orders.StatusPendingPayment,
	orders.StatusPaid,
	orders.StatusShipped,
	orders.StatusDone,
	orders.StatusCanceled,
}

func (a *App) orderListView(w http.ResponseWriter, r *http.Request, rc router.Context) {
	pd := a.newPageData(r, "", rc.Path)
	pd.Title = pd.T("orders.title")

	status := r.URL.Query().Get("status")
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	view := OrderListView{Status: status, Statuses: orderStatusFilters}

	list, err := a.api(r).ListOrders(r.Context())
	if err != nil {
		a.fail(r, pd, err, "/orders")
	} else {
		filtered := orders.FilterByStatus(list, status)
		view.Page = orders.Paginate(filtered, page, orders.DefaultPageSize)
	}

	pd.View = view
	a.render(w, r, "orders", pd)
}

// OrderDetailView backs one order's page, with tracking and refund state
// when the order has reached the matching part of its lifecycle.
type OrderDetailView struct {
	Order      orders.Order
	Tracking   *api.Tracking
	Refund     *api.Refund
	Refundable bool
}

func (a *App) orderDetailView(w http.ResponseWriter, r *http.Request, rc router.Context) {
	orderID := rc.Params["id"]
	pd := a.newPageData(r, "", rc.Path)
	pd.Title = pd.T("orders.detail.title")
	client := a.api(r)

	if r.Method == http.MethodPost && r.PostFormValue("action") == "refund" {
		reason := strings.TrimSpace(r.PostFormValue("reason"))
		if _, err := client.RequestRefund(r.Context(), orderID, reason); err != nil {
			a.fail(r, pd, err, rc.Path)
		} else {
			router.Navigate(w, r, rc.Path)
			return
		}
	}

	view := OrderDetailView{}
	order, err := client.GetOrder(r.Context(), orderID)
	if err != nil {
		if pd.Err == nil {
			a.fail(r, pd, err, rc.Path)
		}
	} else {
		view.Order = order
		if orders.HasTracking(order.Status) {
			tracking, terr := client.GetOrderTracking(r.Context(), orderID)
			if terr != nil {
				a.log.Warn("load tracking", zap.String("order_id", orderID), zap.Error(terr))
			} else {
				view.Tracking = tracking
			}
		}
		refund, rerr := client.GetRefund(r.Context(), orderID)
		if rerr != nil {
			a.log.Warn("load refund", zap.String("order_id", orderID), zap.Error(rerr))
		} else {
			view.Refund = refund
		}
		view.Refundable = orders.IsRefundableStatus(order.Status) && view.Refund == nil
	}

	pd.View = view
	a.render(w, r, "order_detail", pd)
}
