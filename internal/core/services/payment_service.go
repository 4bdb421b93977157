package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/property_ledger/internal/apperrors"
	"github.com/SscSPs/property_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/property_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/property_ledger/internal/core/ports/services"
	"github.com/SscSPs/property_ledger/internal/dto"
	"github.com/SscSPs/property_ledger/internal/utils/accounting"
)

// paymentService records payment events against obligations.
type paymentService struct {
	BaseService
	obligationRepo portsrepo.ObligationWriter
	settler        *commissionSettler
}

// NewPaymentService creates a new PaymentSvc.
func NewPaymentService(repo portsrepo.ObligationWriter, contracts portsrepo.ContractLookup, owners portsrepo.OwnerLookup, calc *accounting.Calculator, options ...ServiceOption) portssvc.PaymentSvc {
	base := newBaseService(options...)
	return &paymentService{
		BaseService:    base,
		obligationRepo: repo,
		settler:        newCommissionSettler(base, contracts, owners, calc),
	}
}

var _ portssvc.PaymentSvc = (*paymentService)(nil)

// ApplyPayment locks the obligation, records the payment and settles the obligation when
// it becomes fully collected. A concurrency conflict is retried once.
func (s *paymentService) ApplyPayment(ctx context.Context, userID, obligationID string, req dto.ApplyPaymentRequest) (*domain.Obligation, error) {
	if err := s.ValidateRequest(req); err != nil {
		return nil, err
	}
	amount, err := requiredAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
	}
	method, err := domain.ParsePaymentMethod(req.Method)
	if err != nil {
		return nil, err
	}
	paymentDate, err := parseDate("paymentDate", req.PaymentDate)
	if err != nil {
		return nil, err
	}

	ob, err := s.applyOnce(ctx, userID, obligationID, amount, req, method, paymentDate)
	if errors.Is(err, apperrors.ErrConflict) {
		s.LogWarn(ctx, "Concurrency conflict applying payment, retrying once",
			slog.String("obligation_id", obligationID), slog.String("error", err.Error()))
		ob, err = s.applyOnce(ctx, userID, obligationID, amount, req, method, paymentDate)
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrOverpayment) || errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrNotFound) {
			s.LogWarn(ctx, "Payment rejected", slog.String("obligation_id", obligationID), slog.String("error", err.Error()))
		} else {
			s.LogError(ctx, err, "Failed to apply payment", slog.String("obligation_id", obligationID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Payment applied",
		slog.String("obligation_id", obligationID),
		slog.String("amount", amount.String()),
		slog.String("paid_amount", ob.PaidAmount.String()),
		slog.String("status", string(ob.Status)))
	return ob, nil
}

func (s *paymentService) applyOnce(ctx context.Context, userID, obligationID string, amount decimal.Decimal, req dto.ApplyPaymentRequest, method domain.PaymentMethod, paymentDate time.Time) (*domain.Obligation, error) {
	now := s.Now()
	return s.obligationRepo.UpdateObligationLocked(ctx, userID, obligationID, func(ob *domain.Obligation) (*domain.ObligationPayment, error) {
		if err := ob.RegisterPayment(amount); err != nil {
			return nil, err
		}
		payment := &domain.ObligationPayment{
			PaymentID:    uuid.NewString(),
			UserID:       userID,
			ObligationID: ob.ObligationID,
			Amount:       amount,
			PaymentDate:  paymentDate,
			Method:       method,
			Reference:    optionalString(derefString(req.Reference)),
			Notes:        strings.TrimSpace(req.Notes),
			CreatedAt:    now,
			CreatedBy:    userID,
		}
		if err := payment.Validate(); err != nil {
			return nil, err
		}
		if ob.IsFullyCollected() {
			rate, err := s.settler.rateForObligation(ctx, ob)
			if err != nil {
				return nil, err
			}
			if err := s.settler.settle(ob, rate); err != nil {
				return nil, err
			}
		}
		ob.Touch(userID, now)
		return payment, nil
	})
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
