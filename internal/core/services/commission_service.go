package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/property_ledger/internal/apperrors"
	"github.com/SscSPs/property_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/property_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/property_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// commissionSettler resolves commission rates and finalizes obligation impacts.
// Every service that settles an obligation goes through it.
type commissionSettler struct {
	BaseService
	contracts portsrepo.ContractLookup
	owners    portsrepo.OwnerLookup
	calc      *accounting.Calculator
}

func newCommissionSettler(base BaseService, contracts portsrepo.ContractLookup, owners portsrepo.OwnerLookup, calc *accounting.Calculator) *commissionSettler {
	if calc == nil {
		calc = accounting.NewCalculator(nil, accounting.DefaultMinorUnits)
	}
	return &commissionSettler{BaseService: base, contracts: contracts, owners: owners, calc: calc}
}

// resolveRate returns the contract rate if set, else the owner's default rate, else zero.
func (c *commissionSettler) resolveRate(ctx context.Context, userID string, terms *domain.ContractTerms) (decimal.Decimal, error) {
	if terms.CommissionPercentage != nil {
		if err := accounting.ValidateRate(*terms.CommissionPercentage); err != nil {
			return decimal.Zero, fmt.Errorf("contract %s: %w", terms.ContractID, err)
		}
		return *terms.CommissionPercentage, nil
	}
	if terms.OwnerID == "" || c.owners == nil {
		return decimal.Zero, nil
	}

	owner, err := c.owners.FindOwnerByID(ctx, userID, terms.OwnerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.LogWarn(ctx, "Owner not found while resolving commission rate, using zero",
				slog.String("owner_id", terms.OwnerID), slog.String("contract_id", terms.ContractID))
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("failed to look up owner %s: %w", terms.OwnerID, err)
	}
	if owner.CommissionPercentage == nil {
		return decimal.Zero, nil
	}
	if err := accounting.ValidateRate(*owner.CommissionPercentage); err != nil {
		return decimal.Zero, fmt.Errorf("owner %s: %w", owner.OwnerID, err)
	}
	return *owner.CommissionPercentage, nil
}

// rateForObligation looks up the contract of ob and resolves its commission rate.
func (c *commissionSettler) rateForObligation(ctx context.Context, ob *domain.Obligation) (decimal.Decimal, error) {
	if ob.Type != domain.ObligationRent {
		return decimal.Zero, nil
	}
	terms, err := c.contracts.FindContractTerms(ctx, ob.UserID, ob.ContractID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to look up contract %s: %w", ob.ContractID, err)
	}
	return c.resolveRate(ctx, ob.UserID, terms)
}

// settle marks ob paid and finalizes its impacts with the given rate.
func (c *commissionSettler) settle(ob *domain.Obligation, rate decimal.Decimal) error {
	impact, err := c.calc.Calculate(ob.Amount, ob.Type, rate)
	if err != nil {
		return err
	}
	ob.Settle(rate, impact)
	return nil
}

// reevaluate brings status and impacts in line with the amounts of ob:
// fully collected becomes paid, a paid obligation that is no longer covered is reopened.
func (c *commissionSettler) reevaluate(ctx context.Context, ob *domain.Obligation, now time.Time) error {
	switch {
	case ob.IsFullyCollected() && ob.Status != domain.StatusPaid:
		rate, err := c.rateForObligation(ctx, ob)
		if err != nil {
			return err
		}
		return c.settle(ob, rate)
	case ob.IsFullyCollected():
		// Already paid: refresh the impacts from the stored rate and the active policy.
		return c.settle(ob, ob.CommissionRate)
	case ob.Status == domain.StatusPaid:
		ob.Reopen()
		if ob.CanMarkOverdue(now) {
			ob.Status = domain.StatusOverdue
		}
	}
	return nil
}
