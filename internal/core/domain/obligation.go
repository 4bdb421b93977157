package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/property_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// ObligationType classifies what an obligation is charged for.
type ObligationType string

const (
	ObligationRent        ObligationType = "rent"
	ObligationExpenses    ObligationType = "expenses"
	ObligationMaintenance ObligationType = "maintenance"
	ObligationTax         ObligationType = "tax"
	ObligationService     ObligationType = "service"
)

// ObligationTypes lists every valid type in a stable order.
var ObligationTypes = []ObligationType{ObligationRent, ObligationExpenses, ObligationMaintenance, ObligationTax, ObligationService}

// IsValid checks if the type is one of the known obligation types.
func (t ObligationType) IsValid() bool {
	switch t {
	case ObligationRent, ObligationExpenses, ObligationMaintenance, ObligationTax, ObligationService:
		return true
	}
	return false
}

// ParseObligationType converts free text into an ObligationType.
func ParseObligationType(s string) (ObligationType, error) {
	t := ObligationType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: unknown obligation type %q", apperrors.ErrValidation, s)
	}
	return t, nil
}

// ObligationStatus is the lifecycle state of an obligation.
// A partially paid obligation stays pending or overdue; see Obligation.IsPartiallyPaid.
type ObligationStatus string

const (
	StatusPending ObligationStatus = "pending"
	StatusOverdue ObligationStatus = "overdue"
	StatusPaid    ObligationStatus = "paid"
)

// OverdueSweepActor is recorded as the last updater of obligations moved by the overdue sweep.
const OverdueSweepActor = "system:overdue-sweep"

// IsValid checks if the status is a known ObligationStatus.
func (s ObligationStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusOverdue, StatusPaid:
		return true
	}
	return false
}

// ParseObligationStatus converts free text into an ObligationStatus.
func ParseObligationStatus(s string) (ObligationStatus, error) {
	st := ObligationStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", fmt.Errorf("%w: unknown obligation status %q", apperrors.ErrValidation, s)
	}
	return st, nil
}

// PaymentMethod is how a payment was collected.
type PaymentMethod string

const (
	MethodTransfer PaymentMethod = "transfer"
	MethodCash     PaymentMethod = "cash"
	MethodCard     PaymentMethod = "card"
	MethodGateway  PaymentMethod = "gateway"
)

// IsValid checks if the method is a known PaymentMethod.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodTransfer, MethodCash, MethodCard, MethodGateway:
		return true
	}
	return false
}

// ParsePaymentMethod converts free text into a PaymentMethod.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToLower(strings.TrimSpace(s)))
	if !m.IsValid() {
		return "", fmt.Errorf("%w: unknown payment method %q", apperrors.ErrValidation, s)
	}
	return m, nil
}

// Impact is the commission split and signed balance effect of a settled obligation.
type Impact struct {
	CommissionAmount decimal.Decimal `json:"commissionAmount"`
	OwnerAmount      decimal.Decimal `json:"ownerAmount"`
	OwnerImpact      decimal.Decimal `json:"ownerImpact"`  // > 0 credits the owner, < 0 is a deduction
	AgencyImpact     decimal.Decimal `json:"agencyImpact"` // agency commission revenue
}

// Equal reports whether two impacts carry the same amounts.
func (i Impact) Equal(other Impact) bool {
	return i.CommissionAmount.Equal(other.CommissionAmount) &&
		i.OwnerAmount.Equal(other.OwnerAmount) &&
		i.OwnerImpact.Equal(other.OwnerImpact) &&
		i.AgencyImpact.Equal(other.AgencyImpact)
}

// Obligation is a single amount owed for one purpose in one billing period.
type Obligation struct {
	ObligationID     string           `json:"obligationID"`     // Primary Key (UUID)
	UserID           string           `json:"userID"`           // Agency account owning the record
	ContractID       string           `json:"contractID"`       // Reference into the contracts subsystem
	ApartmentID      *string          `json:"apartmentID"`      // Nullable for non-rent charges
	OwnerID          string           `json:"ownerID"`          // Resolved from contract -> apartment -> owner
	Type             ObligationType   `json:"type"`             // rent, expenses, ...
	Description      string           `json:"description"`      // Free text
	Period           time.Time        `json:"period"`           // First day of the billed month
	DueDate          time.Time        `json:"dueDate"`          // Calendar date
	Amount           decimal.Decimal  `json:"amount"`           // Total owed, >= 0
	PaidAmount       decimal.Decimal  `json:"paidAmount"`       // 0 <= PaidAmount <= Amount
	CommissionRate   decimal.Decimal  `json:"commissionRate"`   // Fraction applied when settled
	CommissionAmount decimal.Decimal  `json:"commissionAmount"` // Only non-zero for rent
	OwnerAmount      decimal.Decimal  `json:"ownerAmount"`
	OwnerImpact      decimal.Decimal  `json:"ownerImpact"`
	AgencyImpact     decimal.Decimal  `json:"agencyImpact"`
	Status           ObligationStatus `json:"status"`
	Notes            string           `json:"notes"`
	LegacyPaymentID  *string          `json:"legacyPaymentID,omitempty"` // Provenance of migrated rows
	Version          int64            `json:"version"`
	AuditFields
	Payments []ObligationPayment `json:"payments,omitempty"` // Loaded on demand
}

// Validate checks the invariants every stored obligation must satisfy.
func (o *Obligation) Validate() error {
	if o.ContractID == "" {
		return fmt.Errorf("%w: contract ID is required", apperrors.ErrValidation)
	}
	if !o.Type.IsValid() {
		return fmt.Errorf("%w: unknown obligation type %q", apperrors.ErrValidation, o.Type)
	}
	if o.Period.IsZero() {
		return fmt.Errorf("%w: period is required", apperrors.ErrValidation)
	}
	if o.DueDate.IsZero() {
		return fmt.Errorf("%w: due date is required", apperrors.ErrValidation)
	}
	if o.Amount.IsNegative() {
		return fmt.Errorf("%w: amount must not be negative", apperrors.ErrValidation)
	}
	if o.PaidAmount.IsNegative() || o.PaidAmount.GreaterThan(o.Amount) {
		return fmt.Errorf("%w: paid amount %s must be between 0 and amount %s", apperrors.ErrValidation, o.PaidAmount, o.Amount)
	}
	if !o.Status.IsValid() {
		return fmt.Errorf("%w: unknown obligation status %q", apperrors.ErrValidation, o.Status)
	}
	if o.Type != ObligationRent && !o.CommissionAmount.IsZero() {
		return fmt.Errorf("%w: commission only applies to rent obligations", apperrors.ErrValidation)
	}
	return nil
}

// Outstanding returns the amount still owed.
func (o *Obligation) Outstanding() decimal.Decimal {
	return o.Amount.Sub(o.PaidAmount)
}

// IsPartiallyPaid reports a payment has been collected but the obligation is not settled.
func (o *Obligation) IsPartiallyPaid() bool {
	return o.PaidAmount.IsPositive() && o.PaidAmount.LessThan(o.Amount)
}

// IsFullyCollected reports whether the paid amount covers the total.
func (o *Obligation) IsFullyCollected() bool {
	return o.PaidAmount.GreaterThanOrEqual(o.Amount)
}

// CanMarkOverdue reports whether the overdue sweep applies as of now.
// An obligation becomes overdue the day after its due date.
func (o *Obligation) CanMarkOverdue(now time.Time) bool {
	return o.Status == StatusPending && DateOnly(o.DueDate).Before(DateOnly(now))
}

// RegisterPayment adds amount to the paid total. It does not change the status;
// the caller settles the obligation when IsFullyCollected becomes true.
func (o *Obligation) RegisterPayment(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
	}
	if o.Status == StatusPaid {
		return fmt.Errorf("%w: obligation %s is already paid", apperrors.ErrOverpayment, o.ObligationID)
	}
	newPaid := o.PaidAmount.Add(amount)
	if newPaid.GreaterThan(o.Amount) {
		return fmt.Errorf("%w: paying %s would take paid amount to %s over total %s",
			apperrors.ErrOverpayment, amount, newPaid, o.Amount)
	}
	o.PaidAmount = newPaid
	return nil
}

// Settle marks the obligation paid and records the finalized commission split.
func (o *Obligation) Settle(rate decimal.Decimal, impact Impact) {
	o.Status = StatusPaid
	o.CommissionRate = rate
	o.CommissionAmount = impact.CommissionAmount
	o.OwnerAmount = impact.OwnerAmount
	o.OwnerImpact = impact.OwnerImpact
	o.AgencyImpact = impact.AgencyImpact
}

// Reopen moves a paid obligation back to pending and clears the finalized split.
func (o *Obligation) Reopen() {
	o.Status = StatusPending
	o.CommissionRate = decimal.Zero
	o.CommissionAmount = decimal.Zero
	o.OwnerAmount = decimal.Zero
	o.OwnerImpact = decimal.Zero
	o.AgencyImpact = decimal.Zero
}

// PersistedImpact returns the impact fields as stored on the obligation.
func (o *Obligation) PersistedImpact() Impact {
	return Impact{
		CommissionAmount: o.CommissionAmount,
		OwnerAmount:      o.OwnerAmount,
		OwnerImpact:      o.OwnerImpact,
		AgencyImpact:     o.AgencyImpact,
	}
}

// ChangeAmount edits the total owed. The new total may not drop below what was already collected.
func (o *Obligation) ChangeAmount(newAmount decimal.Decimal) error {
	if newAmount.IsNegative() {
		return fmt.Errorf("%w: amount must not be negative", apperrors.ErrValidation)
	}
	if newAmount.LessThan(o.PaidAmount) {
		return fmt.Errorf("%w: amount %s is below the %s already collected", apperrors.ErrValidation, newAmount, o.PaidAmount)
	}
	o.Amount = newAmount
	return nil
}

// Touch stamps the update audit fields.
func (o *Obligation) Touch(userID string, now time.Time) {
	o.LastUpdatedAt = now
	o.LastUpdatedBy = userID
}

// ObligationFilter narrows ListObligations. Nil fields do not filter.
type ObligationFilter struct {
	ContractID  *string
	ApartmentID *string
	OwnerID     *string
	Type        *ObligationType
	Status      *ObligationStatus
	PeriodFrom  *time.Time
	PeriodTo    *time.Time
	After       *ObligationCursor // Keyset position; only obligations sorting after it match
	Limit       int
	Offset      int
}

// ObligationCursor is a position in the (period, due date, obligation ID) listing order.
type ObligationCursor struct {
	Period       time.Time
	DueDate      time.Time
	ObligationID string
}

// Before reports whether the cursor position sorts strictly before ob.
func (c ObligationCursor) Before(ob *Obligation) bool {
	period := FirstOfMonth(c.Period)
	if !period.Equal(ob.Period) {
		return period.Before(ob.Period)
	}
	due := DateOnly(c.DueDate)
	if !due.Equal(ob.DueDate) {
		return due.Before(ob.DueDate)
	}
	return c.ObligationID < ob.ObligationID
}

// Matches reports whether ob passes every set field of the filter. Limit and Offset are ignored.
func (f ObligationFilter) Matches(ob *Obligation) bool {
	if f.ContractID != nil && ob.ContractID != *f.ContractID {
		return false
	}
	if f.ApartmentID != nil && (ob.ApartmentID == nil || *ob.ApartmentID != *f.ApartmentID) {
		return false
	}
	if f.OwnerID != nil && ob.OwnerID != *f.OwnerID {
		return false
	}
	if f.Type != nil && ob.Type != *f.Type {
		return false
	}
	if f.Status != nil && ob.Status != *f.Status {
		return false
	}
	if f.PeriodFrom != nil && ob.Period.Before(FirstOfMonth(*f.PeriodFrom)) {
		return false
	}
	if f.PeriodTo != nil && ob.Period.After(FirstOfMonth(*f.PeriodTo)) {
		return false
	}
	if f.After != nil && !f.After.Before(ob) {
		return false
	}
	return true
}
