// Package queue defines the message payloads exchanged over the broker
// and the background consumer for price-change events.
package queue

// Queue names on the default exchange.
const (
	PriceChangedQueue = "product.price_changed"
	OTPEmailQueue     = "email.otp"
)

// PriceChangedEvent is published when an upsert supersedes a product's
// price. Downstream consumers (audit log today, price-drop alerts
// eventually) get enough context to act without querying the database.
type PriceChangedEvent struct {
	ProductID uint64  `json:"product_id"`
	URL       string  `json:"url"`
	Name      string  `json:"name"`
	Shop      string  `json:"shop"`
	OldPrice  float64 `json:"old_price"`
	NewPrice  float64 `json:"new_price"`
	ChangedAt string  `json:"changed_at"`
}

// OTPEmailEvent carries a one-time code to the mail worker. The code rides
// along because the worker has no access to the OTP store.
type OTPEmailEvent struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	OTP       string `json:"otp"`
	Procedure string `json:"procedure"` // "verify email" | "reset password"
	ExpiresIn int    `json:"expires_in_s"`
}
