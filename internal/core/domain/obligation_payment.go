package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/property_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// ObligationPayment is one recorded payment event against an obligation. Immutable once stored.
type ObligationPayment struct {
	PaymentID    string          `json:"paymentID"`    // Primary Key (UUID)
	UserID       string          `json:"userID"`       // Agency account
	ObligationID string          `json:"obligationID"` // FK -> obligations
	Amount       decimal.Decimal `json:"amount"`       // Increment applied, > 0
	PaymentDate  time.Time       `json:"paymentDate"`
	Method       PaymentMethod   `json:"method"`
	Reference    *string         `json:"reference,omitempty"` // External reference, e.g. gateway id
	Notes        string          `json:"notes"`
	CreatedAt    time.Time       `json:"createdAt"`
	CreatedBy    string          `json:"createdBy"`
}

// Validate checks the payment row before it is stored.
func (p *ObligationPayment) Validate() error {
	if p.ObligationID == "" {
		return fmt.Errorf("%w: obligation ID is required", apperrors.ErrValidation)
	}
	if !p.Amount.IsPositive() {
		return fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
	}
	if p.PaymentDate.IsZero() {
		return fmt.Errorf("%w: payment date is required", apperrors.ErrValidation)
	}
	if !p.Method.IsValid() {
		return fmt.Errorf("%w: unknown payment method %q", apperrors.ErrValidation, p.Method)
	}
	return nil
}

// SumPayments adds up the amounts of the given payments.
func SumPayments(payments []ObligationPayment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total
}
