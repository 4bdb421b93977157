package pgsql

import (
	portsrepo "github.com/SscSPs/property_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	obligationRepo := newPgxObligationRepository(dbPool)
	lookupRepo := newPgxLookupRepository(dbPool)
	legacyRepo := newPgxLegacyPaymentRepository(dbPool)

	return portsrepo.RepositoryProvider{
		ObligationRepo: obligationRepo,
		ContractRepo:   lookupRepo,
		OwnerRepo:      lookupRepo,
		LegacyRepo:     legacyRepo,
		Health:         obligationRepo,
	}
}
