package repositories

import (
	"context"

	"github.com/SscSPs/property_ledger/internal/core/domain"
)

// ContractLookup reads contract terms owned by the contracts subsystem. Read-only.
type ContractLookup interface {
	FindContractTerms(ctx context.Context, userID, contractID string) (*domain.ContractTerms, error)
}

// OwnerLookup reads owner data owned by the properties subsystem. Read-only.
type OwnerLookup interface {
	FindOwnerByID(ctx context.Context, userID, ownerID string) (*domain.Owner, error)
}

// LegacyPaymentReader lists rows of the legacy payments table.
type LegacyPaymentReader interface {
	ListLegacyPayments(ctx context.Context) ([]domain.LegacyPayment, error)
}
