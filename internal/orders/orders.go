package orders

import (
	"strings"

	"polarismall.org/mall-web/internal/paging"
)

// Order statuses used across the order center views.
const (
	StatusPendingPayment = "pending_payment"
	StatusPaid           = "paid"
	StatusShipped        = "shipped"
	StatusDone           = "done"
	StatusCanceled       = "canceled"
)

// DefaultPageSize for the order center list.
const DefaultPageSize = 5

// Line is one purchased product inside an order.
type Line struct {
	ProductID      string `json:"product_id"`
	Name           string `json:"name"`
	PriceCents     int64  `json:"price_cents"`
	Quantity       int    `json:"quantity"`
	LineTotalCents int64  `json:"line_total_cents"`
}

// Order is the normalized order record.
type Order struct {
	ID         string
	Status     string
	TotalCents int64
	Items      []Line
	CreatedAt  string
	UpdatedAt  string
}

// RawOrder mirrors the backend order payload.
type RawOrder struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	TotalCents int64  `json:"total_cents"`
	Items      []Line `json:"items"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// Normalize coerces raw backend orders; items are always a non-nil slice and
// unknown statuses pass through lowercased so filters stay predictable.
func Normalize(raw []RawOrder) []Order {
	out := make([]Order, 0, len(raw))
	for _, r := range raw {
		out = append(out, NormalizeOne(r))
	}
	return out
}

// NormalizeOne normalizes a single raw order.
func NormalizeOne(r RawOrder) Order {
	o := Order{
		ID:         strings.TrimSpace(r.ID),
		Status:     strings.ToLower(strings.TrimSpace(r.Status)),
		TotalCents: r.TotalCents,
		Items:      r.Items,
		CreatedAt:  strings.TrimSpace(r.CreatedAt),
		UpdatedAt:  strings.TrimSpace(r.UpdatedAt),
	}
	if o.Status == "" {
		o.Status = StatusPendingPayment
	}
	if o.TotalCents < 0 {
		o.TotalCents = 0
	}
	if o.Items == nil {
		o.Items = []Line{}
	}
	return o
}

// FilterByStatus keeps orders matching status. Empty or "all" passes
// everything through unchanged.
func FilterByStatus(list []Order, status string) []Order {
	status = strings.ToLower(strings.TrimSpace(status))
	if status == "" || status == "all" {
		return list
	}
	out := make([]Order, 0, len(list))
	for _, o := range list {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out
}

// IsRefundableStatus reports whether an order in this status may request a
// refund. Only paid, shipped and done qualify.
func IsRefundableStatus(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case StatusPaid, StatusShipped, StatusDone:
		return true
	default:
		return false
	}
}

// HasTracking reports whether the order center should ask the backend for a
// shipment timeline.
func HasTracking(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case StatusShipped, StatusDone:
		return true
	default:
		return false
	}
}

// Paginate applies order-center paging defaults.
func Paginate(list []Order, page, size int) paging.Page[Order] {
	if size <= 0 {
		size = DefaultPageSize
	}
	return paging.Paginate(list, page, size)
}
