package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"polarismall.org/mall-web/internal/orders"
)

// Outcome summarizes order+payment state as a display tri-state.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailed  Outcome = "failed"
	OutcomePending Outcome = "pending"
)

// Payment statuses reported by the backend.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
	StatusPending   = "pending"
)

// SignatureHeader carries the mockpay HMAC over the callback body.
const SignatureHeader = "X-Mockpay-Signature"

// txnPrefix marks externally generated transaction ids from this front-end.
const txnPrefix = "txn-web-"

// DeriveOutcome maps order and payment status to a display outcome. The
// success check runs before the failure check, so a succeeded payment on a
// canceled order still reads as success.
func DeriveOutcome(orderStatus, paymentStatus string) Outcome {
	orderStatus = strings.ToLower(strings.TrimSpace(orderStatus))
	paymentStatus = strings.ToLower(strings.TrimSpace(paymentStatus))

	if paymentStatus == StatusSucceeded {
		return OutcomeSuccess
	}
	switch orderStatus {
	case orders.StatusPaid, orders.StatusShipped, orders.StatusDone:
		return OutcomeSuccess
	}
	if paymentStatus == StatusFailed || orderStatus == orders.StatusCanceled {
		return OutcomeFailed
	}
	return OutcomePending
}

// CallbackPayload is the body posted to the mockpay callback endpoint.
type CallbackPayload struct {
	OrderID       string `json:"order_id"`
	Result        string `json:"result"`
	ExternalTxnID string `json:"external_txn_id"`
	AmountCents   int64  `json:"amount_cents,omitempty"`
}

// BuildCallbackPayload assembles a simulated provider callback. Result is
// lowercased so "Success" from a form select still matches the backend enum.
func BuildCallbackPayload(orderID, result string, amountCents int64) CallbackPayload {
	return CallbackPayload{
		OrderID:       strings.TrimSpace(orderID),
		Result:        strings.ToLower(strings.TrimSpace(result)),
		ExternalTxnID: txnPrefix + uuid.NewString(),
		AmountCents:   amountCents,
	}
}

// Sign computes the hex HMAC-SHA256 of body with the shared mockpay secret.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// SignPayload marshals the payload exactly as it will be sent and signs it.
func SignPayload(secret string, p CallbackPayload) (body []byte, signature string, err error) {
	body, err = json.Marshal(p)
	if err != nil {
		return nil, "", err
	}
	return body, Sign(secret, body), nil
}
