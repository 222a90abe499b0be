package sales

import (
	"context"
	"errors"
	"fmt"
)

// ErrSaleNotFound is returned when no sale exists for a payment code.
var ErrSaleNotFound = errors.New("sale not found")

// ErrVehicleUnavailable is returned when the vehicle targeted by a sale
// is not in the AVAILABLE state at reservation time.
var ErrVehicleUnavailable = errors.New("vehicle is not available for sale")

// AlreadyProcessedError reports a webhook delivery for a sale whose
// payment already reached a terminal state. Status carries the existing
// terminal state; the delivery is rejected, never re-applied.
type AlreadyProcessedError struct {
	PaymentCode string
	Status      PaymentStatus
}

func (e *AlreadyProcessedError) Error() string {
	return fmt.Sprintf("payment %s already processed with status %s", e.PaymentCode, e.Status)
}

// Storage persists sales. Reserve and Settle are the two transactional
// operations of the sale state machine; each one executes atomically
// with respect to concurrent calls on the same vehicle or sale, even
// when several service instances share one store.
type Storage interface {
	// Reserve persists a new PENDING sale and flips its vehicle from
	// AVAILABLE to SOLD in one transaction. It assigns sale.ID and
	// returns ErrVehicleUnavailable, leaving no trace, when the vehicle
	// is unknown, not AVAILABLE, or already carries a PENDING or
	// CONFIRMED sale — the snapshot status alone is not trusted, since a
	// sync can overwrite it with a stale AVAILABLE from the authority.
	Reserve(ctx context.Context, sale *Sale) error

	// Settle moves the sale with the given payment code from PENDING to
	// the given terminal status and, when that status is CANCELLED,
	// flips the vehicle back to AVAILABLE, all in one transaction.
	// Returns ErrSaleNotFound for an unknown code and
	// *AlreadyProcessedError when the sale is no longer PENDING.
	Settle(ctx context.Context, paymentCode string, status PaymentStatus) (*Sale, error)

	// SaleByPaymentCode returns the sale with the given payment code, or
	// ErrSaleNotFound.
	SaleByPaymentCode(ctx context.Context, paymentCode string) (*Sale, error)

	// AllSales returns every recorded sale.
	AllSales(ctx context.Context) ([]*Sale, error)
}
