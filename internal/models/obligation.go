package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Obligation is a row of the obligations table.
type Obligation struct {
	ObligationID     string          `db:"obligation_id"`
	UserID           string          `db:"user_id"`
	ContractID       string          `db:"contract_id"`
	ApartmentID      *string         `db:"apartment_id"` // Nullable
	OwnerID          string          `db:"owner_id"`
	ObligationType   string          `db:"obligation_type"`
	Description      string          `db:"description"`
	Period           time.Time       `db:"period"`   // DATE, first of month
	DueDate          time.Time       `db:"due_date"` // DATE
	Amount           decimal.Decimal `db:"amount"`
	PaidAmount       decimal.Decimal `db:"paid_amount"`
	CommissionRate   decimal.Decimal `db:"commission_rate"`
	CommissionAmount decimal.Decimal `db:"commission_amount"`
	OwnerAmount      decimal.Decimal `db:"owner_amount"`
	OwnerImpact      decimal.Decimal `db:"owner_impact"`
	AgencyImpact     decimal.Decimal `db:"agency_impact"`
	Status           string          `db:"status"`
	Notes            string          `db:"notes"`
	LegacyPaymentID  *string         `db:"legacy_payment_id"` // Unique when set
	Version          int64           `db:"version"`
	AuditFields
}

// ObligationPayment is a row of the obligation_payments table.
type ObligationPayment struct {
	PaymentID    string          `db:"payment_id"`
	UserID       string          `db:"user_id"`
	ObligationID string          `db:"obligation_id"`
	Amount       decimal.Decimal `db:"amount"`
	PaymentDate  time.Time       `db:"payment_date"`
	Method       string          `db:"method"`
	Reference    *string         `db:"reference"`
	Notes        string          `db:"notes"`
	CreatedAt    time.Time       `db:"created_at"`
	CreatedBy    string          `db:"created_by"`
}

// LegacyPayment is a row of the pre-obligation payments table.
type LegacyPayment struct {
	PaymentID   string          `db:"payment_id"`
	UserID      string          `db:"user_id"`
	ContractID  *string         `db:"contract_id"`
	ApartmentID *string         `db:"apartment_id"`
	Amount      decimal.Decimal `db:"amount"`
	Month       *time.Time      `db:"month"`
	Status      string          `db:"status"`
	PaymentDate *time.Time      `db:"payment_date"`
	Method      *string         `db:"method"`
	Notes       *string         `db:"notes"`
}
