package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/property_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// LegacyPayment is a row of the pre-obligation payments table, read during migration only.
type LegacyPayment struct {
	ID          string
	UserID      string
	ContractID  string
	ApartmentID *string
	Amount      decimal.Decimal
	Month       time.Time
	Status      string     // Free text as stored by the old system
	PaymentDate *time.Time // Nil when the legacy row never recorded a date
	Method      *string
	Notes       string
}

var legacyStatusAliases = map[string]ObligationStatus{
	"paid":      StatusPaid,
	"pagado":    StatusPaid,
	"pending":   StatusPending,
	"pendiente": StatusPending,
	"overdue":   StatusOverdue,
	"vencido":   StatusOverdue,
}

var legacyMethodAliases = map[string]PaymentMethod{
	"transfer":      MethodTransfer,
	"transferencia": MethodTransfer,
	"bank_transfer": MethodTransfer,
	"cash":          MethodCash,
	"efectivo":      MethodCash,
	"card":          MethodCard,
	"tarjeta":       MethodCard,
	"gateway":       MethodGateway,
	"mercadopago":   MethodGateway,
	"stripe":        MethodGateway,
}

// NormalizedStatus maps the legacy free-text status onto ObligationStatus.
func (p *LegacyPayment) NormalizedStatus() (ObligationStatus, error) {
	st, ok := legacyStatusAliases[strings.ToLower(strings.TrimSpace(p.Status))]
	if !ok {
		return "", fmt.Errorf("%w: unrecognized legacy status %q", apperrors.ErrValidation, p.Status)
	}
	return st, nil
}

// NormalizedMethod maps the legacy method onto PaymentMethod. A missing method is a transfer.
func (p *LegacyPayment) NormalizedMethod() (PaymentMethod, error) {
	if p.Method == nil || strings.TrimSpace(*p.Method) == "" {
		return MethodTransfer, nil
	}
	m, ok := legacyMethodAliases[strings.ToLower(strings.TrimSpace(*p.Method))]
	if !ok {
		return "", fmt.Errorf("%w: unrecognized legacy payment method %q", apperrors.ErrValidation, *p.Method)
	}
	return m, nil
}

// MigrationNote is the provenance tag written into the notes of a migrated obligation.
func MigrationNote(legacyID string) string {
	return "migrated from legacy payment " + legacyID
}

// MigrationError records a legacy row that could not be migrated.
type MigrationError struct {
	LegacyID string `json:"legacyId"`
	Reason   string `json:"reason"`
}

// MigrationResult summarises one run of the legacy migration.
type MigrationResult struct {
	Migrated        int              `json:"migrated"`
	PaymentsCreated int              `json:"paymentsCreated"`
	Skipped         int              `json:"skipped"`
	Errors          []MigrationError `json:"errors"`
}
