package services

import (
	"context"

	"github.com/SscSPs/property_ledger/internal/core/domain"
	"github.com/SscSPs/property_ledger/internal/dto"
)

// ObligationReaderSvc defines read operations for obligation data
type ObligationReaderSvc interface {
	// GetObligation retrieves an obligation together with its payments.
	GetObligation(ctx context.Context, userID, obligationID string) (*domain.Obligation, error)

	// ListObligations retrieves obligations of the agency account matching the parameters.
	ListObligations(ctx context.Context, userID string, params dto.ListObligationsParams) ([]domain.Obligation, error)
}

// ObligationWriterSvc defines write operations for obligation data
type ObligationWriterSvc interface {
	// CreateObligation validates and persists a new obligation.
	CreateObligation(ctx context.Context, userID string, req dto.CreateObligationRequest) (*domain.Obligation, error)

	// Recompute re-evaluates the status of an obligation from its amounts.
	Recompute(ctx context.Context, userID, obligationID string) (*domain.Obligation, error)

	// AdjustAmount changes the total owed and recomputes the status in one transaction.
	AdjustAmount(ctx context.Context, userID, obligationID string, req dto.AdjustAmountRequest) (*domain.Obligation, error)
}

// ObligationSvcFacade combines all obligation-related service interfaces
type ObligationSvcFacade interface {
	ObligationReaderSvc
	ObligationWriterSvc
}

// PaymentSvc records payment events.
type PaymentSvc interface {
	// ApplyPayment applies one payment to one obligation atomically.
	ApplyPayment(ctx context.Context, userID, obligationID string, req dto.ApplyPaymentRequest) (*domain.Obligation, error)
}

// OverdueSvc runs the overdue sweep.
type OverdueSvc interface {
	// MarkOverdue transitions pending obligations past their due date. An empty userID sweeps all accounts.
	MarkOverdue(ctx context.Context, userID string) (int64, error)
}

// SettlementSvc builds settlement statements.
type SettlementSvc interface {
	AggregateSettlement(ctx context.Context, userID string, params dto.SettlementParams) (*domain.SettlementSummary, error)
}

// MigrationSvc moves legacy payments into the obligation model.
type MigrationSvc interface {
	MigrateLegacyPayments(ctx context.Context) (*domain.MigrationResult, error)
}
