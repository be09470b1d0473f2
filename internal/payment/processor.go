// AngelaMos | 2026
// processor.go

package payment

import (
	"context"
)

const (
	DefaultPaymentMethod = "credit_card"

	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Details describes one charge attempt. It is returned to the caller on
// success and on failure but never persisted on its own.
type Details struct {
	TransactionID string  `json:"transaction_id"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	PaymentMethod string  `json:"payment_method"`
	Status        string  `json:"status"`
}

// Processor settles a charge in full or not at all. A non-nil error means
// no money moved.
type Processor interface {
	Charge(ctx context.Context, d Details) error
}

// SimulatedProcessor approves every charge. It stands in for a real
// gateway until one is integrated.
type SimulatedProcessor struct{}

func (SimulatedProcessor) Charge(context.Context, Details) error {
	return nil
}
