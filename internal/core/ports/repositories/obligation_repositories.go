package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/property_ledger/internal/core/domain"
)

// ObligationReader defines read operations for obligation data
type ObligationReader interface {
	// FindObligationByID retrieves an obligation of the agency account by its ID.
	FindObligationByID(ctx context.Context, userID, obligationID string) (*domain.Obligation, error)

	// FindPaymentsByObligationID retrieves the payments of an obligation ordered by payment date.
	FindPaymentsByObligationID(ctx context.Context, userID, obligationID string) ([]domain.ObligationPayment, error)

	// ListObligations retrieves obligations matching the filter ordered by period, due date and ID.
	ListObligations(ctx context.Context, userID string, filter domain.ObligationFilter) ([]domain.Obligation, error)

	// ExistsByLegacyPaymentID reports whether a legacy payment was already migrated.
	ExistsByLegacyPaymentID(ctx context.Context, legacyPaymentID string) (bool, error)
}

// ObligationWriter defines write operations for obligation data
type ObligationWriter interface {
	// SaveObligation inserts a new obligation.
	SaveObligation(ctx context.Context, obligation domain.Obligation) error

	// SaveMigratedObligation inserts an obligation and its optional payment atomically.
	// A second insert with the same legacy payment ID fails with apperrors.ErrDuplicate.
	SaveMigratedObligation(ctx context.Context, obligation domain.Obligation, payment *domain.ObligationPayment) error

	// UpdateObligationLocked locks the obligation, applies mutate, inserts the returned payment if
	// any and persists the result with a version check, all in one transaction.
	UpdateObligationLocked(ctx context.Context, userID, obligationID string, mutate ObligationMutation) (*domain.Obligation, error)

	// MarkOverdue moves pending obligations due before asOf to overdue with a conditional update.
	// An empty userID sweeps every agency account. Returns the number of rows transitioned.
	MarkOverdue(ctx context.Context, userID string, asOf time.Time) (int64, error)
}

// SettlementReader reads the obligation set a settlement statement is built from.
type SettlementReader interface {
	// LoadSettlementSnapshot reads the in-period and overdue obligations in one consistent snapshot.
	LoadSettlementSnapshot(ctx context.Context, userID string, query domain.SettlementQuery) (*domain.SettlementSnapshot, error)
}

// ObligationRepositoryFacade combines all obligation-related repository interfaces
type ObligationRepositoryFacade interface {
	ObligationReader
	ObligationWriter
	SettlementReader
}
