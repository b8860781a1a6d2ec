package checkout

import (
	"net/url"
	"strconv"
	"strings"
)

// PreviewInput is the body for the checkout preview endpoint.
type PreviewInput struct {
	ShippingCents int64  `json:"shipping_cents"`
	DiscountCents int64  `json:"discount_cents"`
	CouponCode    string `json:"coupon_code"`
}

// BuildPreviewInput coerces raw form values into a preview request. Numbers
// that fail to parse or come out negative collapse to 0 and the coupon code
// is trimmed, so the backend always sees a well-formed payload.
func BuildPreviewInput(form url.Values) PreviewInput {
	return PreviewInput{
		ShippingCents: centsField(form, "shipping_cents"),
		DiscountCents: centsField(form, "discount_cents"),
		CouponCode:    strings.TrimSpace(form.Get("coupon_code")),
	}
}

func centsField(form url.Values, key string) int64 {
	raw := strings.TrimSpace(form.Get(key))
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
