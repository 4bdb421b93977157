package pgsql

import (
	"context"

	"github.com/SscSPs/property_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/property_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxLookupRepository reads contract and owner data owned by other subsystems.
type PgxLookupRepository struct {
	BaseRepository
}

func newPgxLookupRepository(pool *pgxpool.Pool) *PgxLookupRepository {
	return &PgxLookupRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var (
	_ portsrepo.ContractLookup = (*PgxLookupRepository)(nil)
	_ portsrepo.OwnerLookup    = (*PgxLookupRepository)(nil)
)

// FindContractTerms resolves contract -> apartment -> owner along with the contract commission.
func (r *PgxLookupRepository) FindContractTerms(ctx context.Context, userID, contractID string) (*domain.ContractTerms, error) {
	query := `
		SELECT c.contract_id, c.user_id, c.apartment_id, a.owner_id, c.commission_percentage
		FROM contracts c
		JOIN apartments a ON a.apartment_id = c.apartment_id
		WHERE c.contract_id = $1 AND c.user_id = $2;`

	var terms domain.ContractTerms
	var apartmentID string
	var commission decimal.NullDecimal
	err := r.Pool.QueryRow(ctx, query, contractID, userID).Scan(
		&terms.ContractID,
		&terms.UserID,
		&apartmentID,
		&terms.OwnerID,
		&commission,
	)
	if err != nil {
		return nil, translatePgError(err, "contract "+contractID)
	}
	terms.ApartmentID = &apartmentID
	if commission.Valid {
		terms.CommissionPercentage = &commission.Decimal
	}
	return &terms, nil
}

// FindOwnerByID retrieves an owner's commission default and balance.
func (r *PgxLookupRepository) FindOwnerByID(ctx context.Context, userID, ownerID string) (*domain.Owner, error) {
	query := `SELECT owner_id, user_id, commission_percentage, balance FROM owners WHERE owner_id = $1 AND user_id = $2;`

	var owner domain.Owner
	var commission decimal.NullDecimal
	err := r.Pool.QueryRow(ctx, query, ownerID, userID).Scan(
		&owner.OwnerID,
		&owner.UserID,
		&commission,
		&owner.Balance,
	)
	if err != nil {
		return nil, translatePgError(err, "owner "+ownerID)
	}
	if commission.Valid {
		owner.CommissionPercentage = &commission.Decimal
	}
	return &owner, nil
}
