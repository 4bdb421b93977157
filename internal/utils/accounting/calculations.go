package accounting

import (
	"fmt"
	"strings"

	"github.com/SscSPs/property_ledger/internal/apperrors"
	"github.com/SscSPs/property_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DefaultMinorUnits is the number of decimal places money is rounded to.
const DefaultMinorUnits int32 = 2

// ImpactSign says how a settled obligation moves the owner's balance.
type ImpactSign string

const (
	SignCredit ImpactSign = "credit" // owner receives the net amount
	SignDebit  ImpactSign = "debit"  // the full amount is deducted from the owner
	SignNone   ImpactSign = "none"   // agency-only expense, owner unaffected
)

// ParseImpactSign converts configuration text into an ImpactSign.
func ParseImpactSign(s string) (ImpactSign, error) {
	switch sign := ImpactSign(strings.ToLower(strings.TrimSpace(s))); sign {
	case SignCredit, SignDebit, SignNone:
		return sign, nil
	}
	return "", fmt.Errorf("%w: unknown impact sign %q", apperrors.ErrValidation, s)
}

// ImpactPolicy maps each obligation type to its owner impact sign.
type ImpactPolicy map[domain.ObligationType]ImpactSign

// DefaultImpactPolicy credits rent to the owner and debits everything else.
func DefaultImpactPolicy() ImpactPolicy {
	return ImpactPolicy{
		domain.ObligationRent:        SignCredit,
		domain.ObligationExpenses:    SignDebit,
		domain.ObligationMaintenance: SignDebit,
		domain.ObligationTax:         SignDebit,
		domain.ObligationService:     SignDebit,
	}
}

// PolicyWithOverrides starts from the default policy and applies per-type overrides
// given as configuration text, e.g. {"tax": "none"}.
func PolicyWithOverrides(overrides map[string]string) (ImpactPolicy, error) {
	policy := DefaultImpactPolicy()
	for rawType, rawSign := range overrides {
		if strings.TrimSpace(rawSign) == "" {
			continue
		}
		t, err := domain.ParseObligationType(rawType)
		if err != nil {
			return nil, err
		}
		sign, err := ParseImpactSign(rawSign)
		if err != nil {
			return nil, fmt.Errorf("impact sign for %s: %w", t, err)
		}
		policy[t] = sign
	}
	return policy, nil
}

func (p ImpactPolicy) signFor(t domain.ObligationType) ImpactSign {
	if sign, ok := p[t]; ok {
		return sign
	}
	return DefaultImpactPolicy()[t]
}

// Calculator computes the commission split and the owner/agency impacts of an obligation.
// It is the only place sign and rounding rules live.
type Calculator struct {
	Policy     ImpactPolicy
	MinorUnits int32
}

// NewCalculator creates a Calculator. A nil policy means DefaultImpactPolicy.
func NewCalculator(policy ImpactPolicy, minorUnits int32) *Calculator {
	if policy == nil {
		policy = DefaultImpactPolicy()
	}
	if minorUnits < 0 {
		minorUnits = DefaultMinorUnits
	}
	return &Calculator{Policy: policy, MinorUnits: minorUnits}
}

// ValidateRate checks that a commission rate is a fraction between 0 and 1.
func ValidateRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("%w: commission rate %s must be between 0 and 1", apperrors.ErrValidation, rate)
	}
	return nil
}

// RoundMoney rounds half away from zero to the configured minor unit.
// For the non-negative amounts the ledger stores this is round-half-up.
func (c *Calculator) RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(c.MinorUnits)
}

// Calculate returns the impact of a fully settled obligation of the given amount and type.
func (c *Calculator) Calculate(amount decimal.Decimal, t domain.ObligationType, rate decimal.Decimal) (domain.Impact, error) {
	if amount.IsNegative() {
		return domain.Impact{}, fmt.Errorf("%w: amount must not be negative", apperrors.ErrValidation)
	}
	if !t.IsValid() {
		return domain.Impact{}, fmt.Errorf("%w: unknown obligation type %q", apperrors.ErrValidation, t)
	}
	if err := ValidateRate(rate); err != nil {
		return domain.Impact{}, err
	}

	commission := decimal.Zero
	if t == domain.ObligationRent {
		commission = c.RoundMoney(amount.Mul(rate))
	}
	ownerAmount := amount.Sub(commission)

	var ownerImpact decimal.Decimal
	switch c.Policy.signFor(t) {
	case SignCredit:
		ownerImpact = ownerAmount
	case SignDebit:
		ownerImpact = amount.Neg()
	default:
		ownerImpact = decimal.Zero
	}

	return domain.Impact{
		CommissionAmount: commission,
		OwnerAmount:      ownerAmount,
		OwnerImpact:      ownerImpact,
		AgencyImpact:     commission,
	}, nil
}

// ForObligation computes the impact of ob using its own amount, type and stored commission rate.
func (c *Calculator) ForObligation(ob *domain.Obligation) (domain.Impact, error) {
	return c.Calculate(ob.Amount, ob.Type, ob.CommissionRate)
}

// Verify recomputes the impact of a paid obligation and compares it with what is persisted.
func (c *Calculator) Verify(ob *domain.Obligation) (bool, error) {
	if ob.Status != domain.StatusPaid {
		return true, nil
	}
	want, err := c.ForObligation(ob)
	if err != nil {
		return false, err
	}
	return want.Equal(ob.PersistedImpact()), nil
}
