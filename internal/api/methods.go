package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"polarismall.org/mall-web/internal/catalog"
	"polarismall.org/mall-web/internal/checkout"
	"polarismall.org/mall-web/internal/orders"
	"polarismall.org/mall-web/internal/payment"
	"polarismall.org/mall-web/internal/session"
)

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterInput is the registration request body.
type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type authPayload struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	User         *session.User `json:"user"`
}

// Cart is the current user's cart.
type Cart struct {
	Items      []CartLine `json:"items"`
	TotalCents int64      `json:"total_cents"`
}

// CartLine is one product entry in the cart.
type CartLine struct {
	ProductID  string `json:"product_id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int    `json:"quantity"`
	Stock      int    `json:"stock"`
}

// Preview is the checkout preview result.
type Preview struct {
	SubtotalCents int64  `json:"subtotal_cents"`
	ShippingCents int64  `json:"shipping_cents"`
	DiscountCents int64  `json:"discount_cents"`
	TotalCents    int64  `json:"total_cents"`
	CouponCode    string `json:"coupon_code"`
}

// Payment is a payment record attached to an order.
type Payment struct {
	ID          string `json:"id"`
	OrderID     string `json:"order_id"`
	Provider    string `json:"provider"`
	Status      string `json:"status"`
	AmountCents int64  `json:"amount_cents"`
}

// Tracking is the shipment timeline for a shipped order.
type Tracking struct {
	Carrier string          `json:"carrier"`
	Events  []TrackingEvent `json:"events"`
}

// TrackingEvent is one timeline entry.
type TrackingEvent struct {
	Status string `json:"status"`
	Note   string `json:"note"`
	At     string `json:"at"`
}

// Refund is a refund record for an order.
type Refund struct {
	ID          string `json:"id"`
	OrderID     string `json:"order_id"`
	Status      string `json:"status"`
	Reason      string `json:"reason"`
	AmountCents int64  `json:"amount_cents"`
	CreatedAt   string `json:"created_at"`
}

// Register creates a new account. The caller logs in separately.
func (c *Client) Register(ctx context.Context, in RegisterInput) error {
	_, err := c.Request(ctx, http.MethodPost, "/auth/register", in, nil)
	return err
}

// Login authenticates and replaces the stored session with the returned
// tokens and user.
func (c *Client) Login(ctx context.Context, in Credentials) (session.Session, error) {
	raw, err := c.Request(ctx, http.MethodPost, "/auth/login", in, nil)
	if err != nil {
		return session.Empty(), err
	}
	var p authPayload
	_ = json.Unmarshal(raw, &p)
	next := session.Session{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		User:         p.User,
	}
	c.session.Set(next)
	return next, nil
}

// RefreshSession exchanges the refresh token for fresh tokens, keeping the
// current user. Without a refresh token it fails fast with REFRESH_REQUIRED
// and never touches the network.
func (c *Client) RefreshSession(ctx context.Context) (session.Session, error) {
	cur := c.session.Get()
	if cur.RefreshToken == "" {
		return session.Empty(), &Error{
			Status:  http.StatusUnauthorized,
			Code:    CodeRefreshRequired,
			Message: "没有可用的刷新令牌",
		}
	}
	body := map[string]string{"refresh_token": cur.RefreshToken}
	raw, err := c.Request(ctx, http.MethodPost, "/auth/refresh", body, nil)
	if err != nil {
		return session.Empty(), err
	}
	var p authPayload
	_ = json.Unmarshal(raw, &p)
	next := session.Session{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		User:         cur.User,
	}
	c.session.Set(next)
	return next, nil
}

// Me fetches the current user and folds it into the stored session without
// touching the tokens.
func (c *Client) Me(ctx context.Context) (*session.User, error) {
	raw, err := c.Request(ctx, http.MethodGet, "/auth/me", nil, nil)
	if err != nil {
		return nil, err
	}
	var p authPayload
	_ = json.Unmarshal(raw, &p)
	cur := c.session.Get()
	c.session.Set(session.Session{
		AccessToken:  cur.AccessToken,
		RefreshToken: cur.RefreshToken,
		User:         p.User,
	})
	return p.User, nil
}

// AdminPing probes the admin-only endpoint and returns the raw payload for
// display.
func (c *Client) AdminPing(ctx context.Context) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodGet, "/admin/ping", nil, nil)
}

// ListProducts fetches and normalizes the catalog.
func (c *Client) ListProducts(ctx context.Context) ([]catalog.Item, error) {
	raw, err := c.Request(ctx, http.MethodGet, "/products", nil, nil)
	if err != nil {
		return nil, err
	}
	var p struct {
		Items []catalog.RawItem `json:"items"`
	}
	_ = json.Unmarshal(raw, &p)
	return catalog.Normalize(p.Items), nil
}

// GetProduct fetches one catalog item.
func (c *Client) GetProduct(ctx context.Context, id string) (catalog.Item, error) {
	raw, err := c.Request(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return catalog.Item{}, err
	}
	var p struct {
		Item catalog.RawItem `json:"item"`
	}
	_ = json.Unmarshal(raw, &p)
	items := catalog.Normalize([]catalog.RawItem{p.Item})
	return items[0], nil
}

// GetCart fetches the current cart.
func (c *Client) GetCart(ctx context.Context) (Cart, error) {
	raw, err := c.Request(ctx, http.MethodGet, "/cart", nil, nil)
	if err != nil {
		return Cart{}, err
	}
	var cart Cart
	_ = json.Unmarshal(raw, &cart)
	if cart.Items == nil {
		cart.Items = []CartLine{}
	}
	return cart, nil
}

// AddCartItem puts quantity units of a product into the cart.
func (c *Client) AddCartItem(ctx context.Context, productID string, quantity int) error {
	body := map[string]any{"product_id": productID, "quantity": quantity}
	_, err := c.Request(ctx, http.MethodPost, "/cart/items", body, nil)
	return err
}

// UpdateCartItem sets the quantity for a cart line.
func (c *Client) UpdateCartItem(ctx context.Context, productID string, quantity int) error {
	body := map[string]any{"quantity": quantity}
	_, err := c.Request(ctx, http.MethodPatch, "/cart/items/"+url.PathEscape(productID), body, nil)
	return err
}

// RemoveCartItem deletes a cart line.
func (c *Client) RemoveCartItem(ctx context.Context, productID string) error {
	_, err := c.Request(ctx, http.MethodDelete, "/cart/items/"+url.PathEscape(productID), nil, nil)
	return err
}

// CheckoutPreview asks the backend to price the cart with shipping,
// discount and coupon applied.
func (c *Client) CheckoutPreview(ctx context.Context, in checkout.PreviewInput) (Preview, error) {
	raw, err := c.Request(ctx, http.MethodPost, "/checkout/preview", in, nil)
	if err != nil {
		return Preview{}, err
	}
	var p Preview
	_ = json.Unmarshal(raw, &p)
	return p, nil
}

// CreateOrder turns the cart into an order.
func (c *Client) CreateOrder(ctx context.Context) (orders.Order, error) {
	raw, err := c.Request(ctx, http.MethodPost, "/orders", map[string]any{}, nil)
	if err != nil {
		return orders.Order{}, err
	}
	var p struct {
		Order orders.RawOrder `json:"order"`
	}
	_ = json.Unmarshal(raw, &p)
	return orders.NormalizeOne(p.Order), nil
}

// ListOrders fetches the user's orders.
func (c *Client) ListOrders(ctx context.Context) ([]orders.Order, error) {
	raw, err := c.Request(ctx, http.MethodGet, "/orders", nil, nil)
	if err != nil {
		return nil, err
	}
	var p struct {
		Items []orders.RawOrder `json:"items"`
	}
	_ = json.Unmarshal(raw, &p)
	return orders.Normalize(p.Items), nil
}

// GetOrder fetches one order.
func (c *Client) GetOrder(ctx context.Context, orderID string) (orders.Order, error) {
	raw, err := c.Request(ctx, http.MethodGet, "/orders/"+url.PathEscape(orderID), nil, nil)
	if err != nil {
		return orders.Order{}, err
	}
	var p struct {
		Order orders.RawOrder `json:"order"`
	}
	_ = json.Unmarshal(raw, &p)
	return orders.NormalizeOne(p.Order), nil
}

// CreatePayment opens a payment for an order. Provider defaults to mockpay.
func (c *Client) CreatePayment(ctx context.Context, orderID, provider string) (Payment, error) {
	if provider == "" {
		provider = "mockpay"
	}
	body := map[string]string{"order_id": orderID, "provider": provider}
	raw, err := c.Request(ctx, http.MethodPost, "/payments/create", body, nil)
	if err != nil {
		return Payment{}, err
	}
	var p struct {
		Payment Payment `json:"payment"`
	}
	_ = json.Unmarshal(raw, &p)
	return p.Payment, nil
}

// GetPaymentByOrder returns the payment for an order, or nil when the
// backend has no payment yet (404).
func (c *Client) GetPaymentByOrder(ctx context.Context, orderID string) (*Payment, error) {
	raw, err := c.Request(ctx, http.MethodGet, "/payments/order/"+url.PathEscape(orderID), nil, nil)
	if err != nil {
		if isAbsent(err) {
			return nil, nil
		}
		return nil, err
	}
	var p struct {
		Payment Payment `json:"payment"`
	}
	_ = json.Unmarshal(raw, &p)
	return &p.Payment, nil
}

// MockpayCallback posts a pre-signed provider callback. The body must be the
// exact bytes the signature was computed over.
func (c *Client) MockpayCallback(ctx context.Context, body []byte, signature string) error {
	header := http.Header{}
	header.Set(payment.SignatureHeader, signature)
	header.Set("Content-Type", "application/json")
	_, err := c.Request(ctx, http.MethodPost, "/payments/callback/mockpay", json.RawMessage(body), header)
	return err
}

// GetOrderTracking returns the shipment timeline, or nil when none exists
// yet (404).
func (c *Client) GetOrderTracking(ctx context.Context, orderID string) (*Tracking, error) {
	raw, err := c.Request(ctx, http.MethodGet, "/orders/"+url.PathEscape(orderID)+"/tracking", nil, nil)
	if err != nil {
		if isAbsent(err) {
			return nil, nil
		}
		return nil, err
	}
	var p struct {
		Tracking Tracking `json:"tracking"`
	}
	_ = json.Unmarshal(raw, &p)
	return &p.Tracking, nil
}

// RequestRefund asks for a refund on an order.
func (c *Client) RequestRefund(ctx context.Context, orderID, reason string) (Refund, error) {
	body := map[string]string{"reason": reason}
	raw, err := c.Request(ctx, http.MethodPost, "/orders/"+url.PathEscape(orderID)+"/refunds", body, nil)
	if err != nil {
		return Refund{}, err
	}
	var p struct {
		Refund Refund `json:"refund"`
	}
	_ = json.Unmarshal(raw, &p)
	return p.Refund, nil
}

// GetRefund returns the refund record for an order, or nil when none exists
// (404).
func (c *Client) GetRefund(ctx context.Context, orderID string) (*Refund, error) {
	raw, err := c.Request(ctx, http.MethodGet, "/orders/"+url.PathEscape(orderID)+"/refunds", nil, nil)
	if err != nil {
		if isAbsent(err) {
			return nil, nil
		}
		return nil, err
	}
	var p struct {
		Refund Refund `json:"refund"`
	}
	_ = json.Unmarshal(raw, &p)
	return &p.Refund, nil
}
