package checkoutstripe

import (
	"fmt"
	"time"
)

const (
	IdempotencyKeyHeader    = "Idempotency-Key"
	maxIdempotencyKeyLength = 255
	providerName            = "stripe"
)

// Settings are the fixed parts of every checkout session request.
type Settings struct {
	SuccessURL string
	CancelURL  string
	Timeout    time.Duration
}

type checkoutRequest struct {
	ProductUID     string `form:"productUid" json:"productUid"`
	IdempotencyKey string `form:"-" json:"-"`
}

type CheckoutSessionResponse struct {
	ID string `json:"id"`
}

// IdempotencyRecord remembers which session was created for a caller supplied idempotency key.
type IdempotencyRecord struct {
	Key        string
	SessionID  string
	ProductUID string
	CreatedAt  time.Time
}

type Amount struct {
	Currency string
	Value    int64
}

func (a Amount) String() string {
	return fmt.Sprintf("%s %d.%02d", a.Currency, a.Value/100, a.Value%100)
}
