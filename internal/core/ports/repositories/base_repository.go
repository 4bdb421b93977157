package repositories

import (
	"context"

	"github.com/SscSPs/property_ledger/internal/core/domain"
)

// ObligationMutation changes a locked obligation in place. It may return a payment to be
// inserted in the same transaction. Returning an error aborts the transaction and leaves
// the stored obligation untouched.
type ObligationMutation func(ob *domain.Obligation) (*domain.ObligationPayment, error)

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
