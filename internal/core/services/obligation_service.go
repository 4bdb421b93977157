package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/property_ledger/internal/apperrors"
	"github.com/SscSPs/property_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/property_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/property_ledger/internal/core/ports/services"
	"github.com/SscSPs/property_ledger/internal/dto"
	"github.com/SscSPs/property_ledger/internal/utils/accounting"
	"github.com/SscSPs/property_ledger/internal/utils/pagination"
)

const defaultListLimit = 100

// obligationService provides creation, lookup and correction of obligations.
type obligationService struct {
	BaseService
	obligationRepo portsrepo.ObligationRepositoryFacade
	contracts      portsrepo.ContractLookup
	settler        *commissionSettler
}

// NewObligationService creates a new ObligationSvcFacade.
func NewObligationService(repo portsrepo.ObligationRepositoryFacade, contracts portsrepo.ContractLookup, owners portsrepo.OwnerLookup, calc *accounting.Calculator, options ...ServiceOption) portssvc.ObligationSvcFacade {
	base := newBaseService(options...)
	return &obligationService{
		BaseService:    base,
		obligationRepo: repo,
		contracts:      contracts,
		settler:        newCommissionSettler(base, contracts, owners, calc),
	}
}

// Ensure obligationService implements the portssvc.ObligationSvcFacade interface
var _ portssvc.ObligationSvcFacade = (*obligationService)(nil)

func (s *obligationService) CreateObligation(ctx context.Context, userID string, req dto.CreateObligationRequest) (*domain.Obligation, error) {
	if err := s.ValidateRequest(req); err != nil {
		return nil, err
	}
	obType, err := domain.ParseObligationType(req.Type)
	if err != nil {
		return nil, err
	}
	period, err := parsePeriod("period", req.Period)
	if err != nil {
		return nil, err
	}
	dueDate, err := parseDate("dueDate", req.DueDate)
	if err != nil {
		return nil, err
	}
	amount, err := requiredAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	if amount.IsNegative() {
		return nil, fmt.Errorf("%w: amount must not be negative", apperrors.ErrValidation)
	}

	terms, err := s.contracts.FindContractTerms(ctx, userID, req.ContractID)
	if err != nil {
		s.LogWarn(ctx, "Contract lookup failed for CreateObligation", slog.String("contract_id", req.ContractID), slog.String("error", err.Error()))
		return nil, err
	}

	now := s.Now()
	ob := domain.Obligation{
		ObligationID:     uuid.NewString(),
		UserID:           userID,
		ContractID:       req.ContractID,
		ApartmentID:      terms.ApartmentID,
		OwnerID:          terms.OwnerID,
		Type:             obType,
		Description:      strings.TrimSpace(req.Description),
		Period:           period,
		DueDate:          dueDate,
		Amount:           amount,
		PaidAmount:       decimal.Zero,
		CommissionRate:   decimal.Zero,
		CommissionAmount: decimal.Zero,
		OwnerAmount:      decimal.Zero,
		OwnerImpact:      decimal.Zero,
		AgencyImpact:     decimal.Zero,
		Status:           domain.StatusPending,
		Notes:            req.Notes,
		Version:          1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	// Nothing to collect: the obligation is settled on creation.
	if ob.Amount.IsZero() {
		rate := decimal.Zero
		if ob.Type == domain.ObligationRent {
			if rate, err = s.settler.resolveRate(ctx, userID, terms); err != nil {
				return nil, err
			}
		}
		if err := s.settler.settle(&ob, rate); err != nil {
			return nil, err
		}
	}

	if err := ob.Validate(); err != nil {
		return nil, err
	}

	if err := s.obligationRepo.SaveObligation(ctx, ob); err != nil {
		s.LogError(ctx, err, "Failed to save obligation", slog.String("obligation_id", ob.ObligationID))
		return nil, err
	}

	s.LogInfo(ctx, "Obligation created",
		slog.String("obligation_id", ob.ObligationID),
		slog.String("contract_id", ob.ContractID),
		slog.String("type", string(ob.Type)),
		slog.String("amount", ob.Amount.String()))
	return &ob, nil
}

func (s *obligationService) GetObligation(ctx context.Context, userID, obligationID string) (*domain.Obligation, error) {
	ob, err := s.obligationRepo.FindObligationByID(ctx, userID, obligationID)
	if err != nil {
		return nil, err
	}
	payments, err := s.obligationRepo.FindPaymentsByObligationID(ctx, userID, obligationID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load payments", slog.String("obligation_id", obligationID))
		return nil, err
	}
	ob.Payments = payments
	return ob, nil
}

func (s *obligationService) ListObligations(ctx context.Context, userID string, params dto.ListObligationsParams) ([]domain.Obligation, error) {
	if err := s.ValidateRequest(params); err != nil {
		return nil, err
	}
	filter, err := toObligationFilter(params)
	if err != nil {
		return nil, err
	}
	obligations, err := s.obligationRepo.ListObligations(ctx, userID, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list obligations")
		return nil, err
	}
	return obligations, nil
}

func (s *obligationService) Recompute(ctx context.Context, userID, obligationID string) (*domain.Obligation, error) {
	now := s.Now()
	ob, err := s.obligationRepo.UpdateObligationLocked(ctx, userID, obligationID, func(ob *domain.Obligation) (*domain.ObligationPayment, error) {
		if err := s.settler.reevaluate(ctx, ob, now); err != nil {
			return nil, err
		}
		ob.Touch(userID, now)
		return nil, nil
	})
	if err != nil {
		s.LogWarn(ctx, "Recompute failed", slog.String("obligation_id", obligationID), slog.String("error", err.Error()))
		return nil, err
	}
	s.LogInfo(ctx, "Obligation recomputed", slog.String("obligation_id", obligationID), slog.String("status", string(ob.Status)))
	return ob, nil
}

func (s *obligationService) AdjustAmount(ctx context.Context, userID, obligationID string, req dto.AdjustAmountRequest) (*domain.Obligation, error) {
	if err := s.ValidateRequest(req); err != nil {
		return nil, err
	}
	newAmount, err := requiredAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	now := s.Now()
	var previous decimal.Decimal
	ob, err := s.obligationRepo.UpdateObligationLocked(ctx, userID, obligationID, func(ob *domain.Obligation) (*domain.ObligationPayment, error) {
		previous = ob.Amount
		if err := ob.ChangeAmount(newAmount); err != nil {
			return nil, err
		}
		if req.Notes != nil {
			ob.Notes = *req.Notes
		}
		if err := s.settler.reevaluate(ctx, ob, now); err != nil {
			return nil, err
		}
		ob.Touch(userID, now)
		return nil, nil
	})
	if err != nil {
		s.LogWarn(ctx, "Amount adjustment failed", slog.String("obligation_id", obligationID), slog.String("error", err.Error()))
		return nil, err
	}
	s.LogInfo(ctx, "Obligation amount adjusted",
		slog.String("obligation_id", obligationID),
		slog.String("previous_amount", previous.String()),
		slog.String("new_amount", ob.Amount.String()),
		slog.String("status", string(ob.Status)))
	return ob, nil
}

func toObligationFilter(params dto.ListObligationsParams) (domain.ObligationFilter, error) {
	filter := domain.ObligationFilter{
		ContractID:  optionalString(params.ContractID),
		ApartmentID: optionalString(params.ApartmentID),
		OwnerID:     optionalString(params.OwnerID),
		Limit:       params.Limit,
		Offset:      params.Offset,
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if params.Type != "" {
		t, err := domain.ParseObligationType(params.Type)
		if err != nil {
			return filter, err
		}
		filter.Type = &t
	}
	if params.Status != "" {
		st, err := domain.ParseObligationStatus(params.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &st
	}
	if params.PeriodFrom != "" {
		from, err := parsePeriod("periodFrom", params.PeriodFrom)
		if err != nil {
			return filter, err
		}
		filter.PeriodFrom = &from
	}
	if params.PeriodTo != "" {
		to, err := parsePeriod("periodTo", params.PeriodTo)
		if err != nil {
			return filter, err
		}
		filter.PeriodTo = &to
	}
	if filter.PeriodFrom != nil && filter.PeriodTo != nil && filter.PeriodTo.Before(*filter.PeriodFrom) {
		return filter, fmt.Errorf("%w: periodTo is before periodFrom", apperrors.ErrValidation)
	}
	if params.PageToken != "" {
		period, dueDate, obligationID, err := pagination.DecodeObligationCursor(params.PageToken)
		if err != nil {
			return filter, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		filter.After = &domain.ObligationCursor{Period: period, DueDate: dueDate, ObligationID: obligationID}
		filter.Offset = 0
	}
	return filter, nil
}
