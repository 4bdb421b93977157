package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/property_ledger/internal/apperrors"
	"github.com/SscSPs/property_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/property_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/property_ledger/internal/core/ports/services"
	"github.com/SscSPs/property_ledger/internal/utils/accounting"
)

type migrationOutcome int

const (
	outcomeMigrated migrationOutcome = iota
	outcomeSkipped
)

// migrationService moves legacy payments into obligations and obligation payments.
type migrationService struct {
	BaseService
	legacyRepo     portsrepo.LegacyPaymentReader
	obligationRepo portsrepo.ObligationRepositoryFacade
	contracts      portsrepo.ContractLookup
	settler        *commissionSettler
}

// NewMigrationService creates the legacy payment migration service.
func NewMigrationService(legacy portsrepo.LegacyPaymentReader, repo portsrepo.ObligationRepositoryFacade, contracts portsrepo.ContractLookup, owners portsrepo.OwnerLookup, calc *accounting.Calculator, options ...ServiceOption) portssvc.MigrationSvc {
	base := newBaseService(options...)
	return &migrationService{
		BaseService:    base,
		legacyRepo:     legacy,
		obligationRepo: repo,
		contracts:      contracts,
		settler:        newCommissionSettler(base, contracts, owners, calc),
	}
}

var _ portssvc.MigrationSvc = (*migrationService)(nil)

// MigrateLegacyPayments migrates every legacy row not migrated before. A failing row is
// logged and reported without aborting the batch; failing to list the rows is fatal.
func (s *migrationService) MigrateLegacyPayments(ctx context.Context) (*domain.MigrationResult, error) {
	rows, err := s.legacyRepo.ListLegacyPayments(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list legacy payments")
		return nil, fmt.Errorf("failed to list legacy payments: %w", err)
	}
	s.LogInfo(ctx, "Starting legacy payment migration", slog.Int("rows", len(rows)))

	result := &domain.MigrationResult{Errors: []domain.MigrationError{}}
	for i := range rows {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		lp := &rows[i]
		outcome, paymentCreated, err := s.migrateOne(ctx, lp)
		if err != nil {
			s.LogWarn(ctx, "Legacy payment not migrated", slog.String("legacy_id", lp.ID), slog.String("reason", err.Error()))
			result.Errors = append(result.Errors, domain.MigrationError{LegacyID: lp.ID, Reason: err.Error()})
			continue
		}
		switch outcome {
		case outcomeSkipped:
			result.Skipped++
		case outcomeMigrated:
			result.Migrated++
			if paymentCreated {
				result.PaymentsCreated++
			}
		}
	}

	s.LogInfo(ctx, "Legacy payment migration finished",
		slog.Int("migrated", result.Migrated),
		slog.Int("payments_created", result.PaymentsCreated),
		slog.Int("skipped", result.Skipped),
		slog.Int("errors", len(result.Errors)))
	return result, nil
}

func (s *migrationService) migrateOne(ctx context.Context, lp *domain.LegacyPayment) (migrationOutcome, bool, error) {
	exists, err := s.obligationRepo.ExistsByLegacyPaymentID(ctx, lp.ID)
	if err != nil {
		return 0, false, err
	}
	if exists {
		return outcomeSkipped, false, nil
	}

	ob, payment, err := s.buildObligation(ctx, lp)
	if err != nil {
		return 0, false, err
	}

	if err := s.obligationRepo.SaveMigratedObligation(ctx, *ob, payment); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// Another run inserted the same legacy row first.
			return outcomeSkipped, false, nil
		}
		return 0, false, err
	}
	return outcomeMigrated, payment != nil, nil
}

func (s *migrationService) buildObligation(ctx context.Context, lp *domain.LegacyPayment) (*domain.Obligation, *domain.ObligationPayment, error) {
	if lp.ContractID == "" {
		return nil, nil, fmt.Errorf("%w: legacy payment has no contract", apperrors.ErrValidation)
	}
	if lp.Month.IsZero() {
		return nil, nil, fmt.Errorf("%w: legacy payment has no month", apperrors.ErrValidation)
	}
	if lp.Amount.IsNegative() {
		return nil, nil, fmt.Errorf("%w: legacy amount %s is negative", apperrors.ErrValidation, lp.Amount)
	}
	status, err := lp.NormalizedStatus()
	if err != nil {
		return nil, nil, err
	}

	terms, err := s.contracts.FindContractTerms(ctx, lp.UserID, lp.ContractID)
	if err != nil {
		return nil, nil, fmt.Errorf("contract %s: %w", lp.ContractID, err)
	}
	apartmentID := lp.ApartmentID
	if apartmentID == nil {
		apartmentID = terms.ApartmentID
	}

	notes := domain.MigrationNote(lp.ID)
	if extra := strings.TrimSpace(lp.Notes); extra != "" {
		notes += "; " + extra
	}

	now := s.Now()
	legacyID := lp.ID
	ob := &domain.Obligation{
		ObligationID:     uuid.NewString(),
		UserID:           lp.UserID,
		ContractID:       lp.ContractID,
		ApartmentID:      apartmentID,
		OwnerID:          terms.OwnerID,
		Type:             domain.ObligationRent,
		Description:      "Rent " + domain.FirstOfMonth(lp.Month).Format(domain.SettlementPeriodLayout),
		Period:           domain.FirstOfMonth(lp.Month),
		DueDate:          domain.DateOnly(lp.Month),
		Amount:           lp.Amount,
		PaidAmount:       decimal.Zero,
		CommissionRate:   decimal.Zero,
		CommissionAmount: decimal.Zero,
		OwnerAmount:      decimal.Zero,
		OwnerImpact:      decimal.Zero,
		AgencyImpact:     decimal.Zero,
		Status:           status,
		Notes:            notes,
		LegacyPaymentID:  &legacyID,
		Version:          1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     lp.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: lp.UserID,
		},
	}

	if status != domain.StatusPaid {
		if err := ob.Validate(); err != nil {
			return nil, nil, err
		}
		return ob, nil, nil
	}

	ob.PaidAmount = lp.Amount
	rate, err := s.settler.resolveRate(ctx, lp.UserID, terms)
	if err != nil {
		return nil, nil, err
	}
	if err := s.settler.settle(ob, rate); err != nil {
		return nil, nil, err
	}
	if err := ob.Validate(); err != nil {
		return nil, nil, err
	}
	// Without a recorded date the obligation stays paid with no payment row; the note keeps the trail.
	if !lp.Amount.IsPositive() || lp.PaymentDate == nil {
		if lp.PaymentDate == nil {
			ob.Notes += "; paid in legacy system without payment date"
		}
		return ob, nil, nil
	}

	method, err := lp.NormalizedMethod()
	if err != nil {
		return nil, nil, err
	}
	payment := &domain.ObligationPayment{
		PaymentID:    uuid.NewString(),
		UserID:       lp.UserID,
		ObligationID: ob.ObligationID,
		Amount:       lp.Amount,
		PaymentDate:  domain.DateOnly(*lp.PaymentDate),
		Method:       method,
		Notes:        domain.MigrationNote(lp.ID),
		CreatedAt:    now,
		CreatedBy:    lp.UserID,
	}
	return ob, payment, nil
}
