// Package payment defines the boundary to an external payment provider.
package payment

import (
	"context"

	"go.uber.org/zap"
)

// Charge identifies what a caller claims to have paid for.
type Charge struct {
	BookingID   string
	RequesterID string
	Reference   string
}

// Gateway confirms that a payment reference settles a booking. A non-nil
// error means the provider refused it.
type Gateway interface {
	Confirm(ctx context.Context, charge Charge) error
}

// StubGateway accepts every charge without contacting a provider.
type StubGateway struct {
	logger *zap.Logger
}

// NewStubGateway returns the always-succeeding gateway.
func NewStubGateway(logger *zap.Logger) *StubGateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StubGateway{logger: logger}
}

// Confirm logs the charge and reports success.
func (g *StubGateway) Confirm(_ context.Context, charge Charge) error {
	g.logger.Debug("stub payment confirmed",
		zap.String("booking_id", charge.BookingID),
		zap.String("payment_ref", charge.Reference))
	return nil
}
