package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettlementPeriodLayout is the key format of monthly buckets.
const SettlementPeriodLayout = "2006-01"

// SettlementQuery selects the obligations a settlement statement covers.
// PeriodFrom and PeriodTo are first-of-month normalized and inclusive.
type SettlementQuery struct {
	PeriodFrom  time.Time
	PeriodTo    time.Time
	OwnerID     *string
	ApartmentID *string
}

// Matches reports whether ob falls inside the owner/apartment filter.
func (q SettlementQuery) Matches(ob *Obligation) bool {
	if q.OwnerID != nil && ob.OwnerID != *q.OwnerID {
		return false
	}
	if q.ApartmentID != nil && (ob.ApartmentID == nil || *ob.ApartmentID != *q.ApartmentID) {
		return false
	}
	return true
}

// InPeriod reports whether ob's period falls inside the query range.
func (q SettlementQuery) InPeriod(ob *Obligation) bool {
	p := FirstOfMonth(ob.Period)
	return !p.Before(q.PeriodFrom) && !p.After(q.PeriodTo)
}

// SettlementSnapshot is the obligation set read in one consistent transaction.
type SettlementSnapshot struct {
	InPeriod []Obligation // Obligations whose period falls in the query range
	Overdue  []Obligation // Every overdue obligation matching the owner/apartment filter
	AsOf     time.Time
}

// SettlementFigures are the four amounts a liquidación reports.
type SettlementFigures struct {
	Collected   decimal.Decimal `json:"cobrado"`
	Adjustments decimal.Decimal `json:"ajustes"`
	Commissions decimal.Decimal `json:"comisiones"`
	ToSettle    decimal.Decimal `json:"aLiquidar"`
}

// ZeroFigures returns figures with every amount set to zero.
func ZeroFigures() SettlementFigures {
	return SettlementFigures{
		Collected:   decimal.Zero,
		Adjustments: decimal.Zero,
		Commissions: decimal.Zero,
		ToSettle:    decimal.Zero,
	}
}

// Add accumulates other into f and recomputes ToSettle.
func (f *SettlementFigures) Add(other SettlementFigures) {
	f.Collected = f.Collected.Add(other.Collected)
	f.Adjustments = f.Adjustments.Add(other.Adjustments)
	f.Commissions = f.Commissions.Add(other.Commissions)
	f.Finalize()
}

// Finalize computes ToSettle from the other three figures.
func (f *SettlementFigures) Finalize() {
	f.ToSettle = f.Collected.Sub(f.Adjustments).Sub(f.Commissions)
}

// ApartmentSettlement holds the figures of one apartment.
type ApartmentSettlement struct {
	ApartmentID string `json:"apartmentId"` // Empty for charges without an apartment
	SettlementFigures
	Mora decimal.Decimal `json:"mora"`
}

// OwnerSettlement holds the figures of one owner and their apartments.
type OwnerSettlement struct {
	OwnerID string `json:"ownerId"`
	SettlementFigures
	Mora       decimal.Decimal       `json:"mora"`
	Apartments []ApartmentSettlement `json:"apartments"`
}

// SettlementBucket is one month of the charting series.
type SettlementBucket struct {
	Period string `json:"period"` // YYYY-MM
	SettlementFigures
}

// SettlementSummary is the settlement statement for a period range.
type SettlementSummary struct {
	PeriodFrom    string             `json:"periodFrom"`
	PeriodTo      string             `json:"periodTo"`
	OwnerID       *string            `json:"ownerId,omitempty"`
	ApartmentID   *string            `json:"apartmentId,omitempty"`
	Totals        SettlementFigures  `json:"totals"`
	Mora          decimal.Decimal    `json:"mora"`
	Monthly       []SettlementBucket `json:"monthly"`
	Owners        []OwnerSettlement  `json:"owners"`
	Discrepancies []string           `json:"discrepancies"`
}
