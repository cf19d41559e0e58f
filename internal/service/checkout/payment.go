package checkout

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Payment charges the buyer. A returned error means nothing was charged.
type Payment interface {
	Charge(ctx context.Context, amount decimal.Decimal, form PaymentForm) error
}

// SimulatedPayment waits Delay and succeeds. It stands in for a real processor.
type SimulatedPayment struct {
	Delay time.Duration
}

func (p SimulatedPayment) Charge(ctx context.Context, _ decimal.Decimal, _ PaymentForm) error {
	if p.Delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(p.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// PaymentFunc adapts a function to Payment.
type PaymentFunc func(ctx context.Context, amount decimal.Decimal, form PaymentForm) error

func (f PaymentFunc) Charge(ctx context.Context, amount decimal.Decimal, form PaymentForm) error {
	return f(ctx, amount, form)
}
