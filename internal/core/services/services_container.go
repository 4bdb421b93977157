package services

import (
	portsrepo "github.com/SscSPs/property_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/property_ledger/internal/core/ports/services"
	"github.com/SscSPs/property_ledger/internal/platform/config"
	"github.com/SscSPs/property_ledger/internal/utils/accounting"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, options ...ServiceOption) (*portssvc.ServiceContainer, error) {
	policy, err := accounting.PolicyWithOverrides(cfg.ImpactSigns)
	if err != nil {
		return nil, err
	}
	calc := accounting.NewCalculator(policy, cfg.CurrencyMinorUnits)

	container := &portssvc.ServiceContainer{}
	container.Obligation = NewObligationService(repos.ObligationRepo, repos.ContractRepo, repos.OwnerRepo, calc, options...)
	container.Payment = NewPaymentService(repos.ObligationRepo, repos.ContractRepo, repos.OwnerRepo, calc, options...)
	container.Overdue = NewOverdueService(repos.ObligationRepo, options...)
	container.Migration = NewMigrationService(repos.LegacyRepo, repos.ObligationRepo, repos.ContractRepo, repos.OwnerRepo, calc, options...)

	settlementOptions := make([]SettlementServiceOption, 0, len(options)+1)
	for _, option := range options {
		settlementOptions = append(settlementOptions, WithSettlementClock(option))
	}
	if cfg.SweepBeforeReports {
		settlementOptions = append(settlementOptions, WithSweepBeforeReports(container.Overdue))
	}
	container.Settlement = NewSettlementService(repos.ObligationRepo, calc, settlementOptions...)

	return container, nil
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.ObligationSvcFacade = (*obligationService)(nil)
	_ portssvc.SettlementSvc       = (*settlementService)(nil)
)
