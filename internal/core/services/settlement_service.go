package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/property_ledger/internal/apperrors"
	"github.com/SscSPs/property_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/property_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/property_ledger/internal/core/ports/services"
	"github.com/SscSPs/property_ledger/internal/dto"
	"github.com/SscSPs/property_ledger/internal/utils/accounting"
)

// maxSettlementMonths bounds the monthly series of one statement.
const maxSettlementMonths = 120

// settlementService builds settlement statements over a consistent snapshot.
type settlementService struct {
	BaseService
	settlementRepo portsrepo.SettlementReader
	calc           *accounting.Calculator
	sweeper        portssvc.OverdueSvc
}

// SettlementServiceOption is a functional option for configuring the settlement service
type SettlementServiceOption func(*settlementService)

// WithSweepBeforeReports refreshes overdue statuses before every statement.
func WithSweepBeforeReports(sweeper portssvc.OverdueSvc) SettlementServiceOption {
	return func(s *settlementService) {
		s.sweeper = sweeper
	}
}

// WithSettlementClock replaces the wall clock of the settlement service.
func WithSettlementClock(option ServiceOption) SettlementServiceOption {
	return func(s *settlementService) {
		option(&s.BaseService)
	}
}

// NewSettlementService creates a new settlement service with the provided options
func NewSettlementService(repo portsrepo.SettlementReader, calc *accounting.Calculator, options ...SettlementServiceOption) portssvc.SettlementSvc {
	if calc == nil {
		calc = accounting.NewCalculator(nil, accounting.DefaultMinorUnits)
	}
	svc := &settlementService{
		BaseService:    newBaseService(),
		settlementRepo: repo,
		calc:           calc,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.SettlementSvc = (*settlementService)(nil)

func (s *settlementService) AggregateSettlement(ctx context.Context, userID string, params dto.SettlementParams) (*domain.SettlementSummary, error) {
	query, err := s.buildQuery(params)
	if err != nil {
		return nil, err
	}

	if s.sweeper != nil {
		if _, err := s.sweeper.MarkOverdue(ctx, userID); err != nil {
			// Statuses may be slightly stale; the statement is still consistent.
			s.LogWarn(ctx, "Overdue sweep before settlement failed", slog.String("error", err.Error()))
		}
	}

	snapshot, err := s.settlementRepo.LoadSettlementSnapshot(ctx, userID, query)
	if err != nil {
		s.LogError(ctx, err, "Failed to load settlement snapshot")
		return nil, err
	}

	summary := accounting.AggregateSettlement(*snapshot, query, s.calc)
	if len(summary.Discrepancies) > 0 {
		s.LogWarn(ctx, "Persisted impacts differ from recomputed values",
			slog.Int("count", len(summary.Discrepancies)),
			slog.String("obligation_ids", strings.Join(summary.Discrepancies, ",")))
	}

	s.LogDebug(ctx, "Settlement aggregated",
		slog.String("period_from", summary.PeriodFrom),
		slog.String("period_to", summary.PeriodTo),
		slog.Int("owners", len(summary.Owners)))
	return summary, nil
}

func (s *settlementService) buildQuery(params dto.SettlementParams) (domain.SettlementQuery, error) {
	if err := s.ValidateRequest(params); err != nil {
		return domain.SettlementQuery{}, err
	}
	from, err := parsePeriod("periodFrom", params.PeriodFrom)
	if err != nil {
		return domain.SettlementQuery{}, err
	}
	to, err := parsePeriod("periodTo", params.PeriodTo)
	if err != nil {
		return domain.SettlementQuery{}, err
	}
	if to.Before(from) {
		return domain.SettlementQuery{}, fmt.Errorf("%w: periodTo is before periodFrom", apperrors.ErrValidation)
	}
	if months := (to.Year()-from.Year())*12 + int(to.Month()-from.Month()) + 1; months > maxSettlementMonths {
		return domain.SettlementQuery{}, fmt.Errorf("%w: period range of %d months exceeds %d", apperrors.ErrValidation, months, maxSettlementMonths)
	}
	return domain.SettlementQuery{
		PeriodFrom:  from,
		PeriodTo:    to,
		OwnerID:     optionalString(params.OwnerID),
		ApartmentID: optionalString(params.ApartmentID),
	}, nil
}
