package pgsql

import (
	"context"

	"github.com/SscSPs/property_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/property_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/property_ledger/internal/models"
	"github.com/SscSPs/property_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxLegacyPaymentRepository reads the legacy payments table.
type PgxLegacyPaymentRepository struct {
	BaseRepository
}

func newPgxLegacyPaymentRepository(pool *pgxpool.Pool) *PgxLegacyPaymentRepository {
	return &PgxLegacyPaymentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LegacyPaymentReader = (*PgxLegacyPaymentRepository)(nil)

// ListLegacyPayments returns every legacy row in a stable order.
func (r *PgxLegacyPaymentRepository) ListLegacyPayments(ctx context.Context) ([]domain.LegacyPayment, error) {
	query := `
		SELECT payment_id, user_id, contract_id, apartment_id, amount, month, status, payment_date, method, notes
		FROM payments
		ORDER BY month NULLS LAST, payment_id;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, translatePgError(err, "failed to query legacy payments")
	}
	modelRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.LegacyPayment])
	if err != nil {
		return nil, translatePgError(err, "failed to scan legacy payments")
	}
	out := make([]domain.LegacyPayment, len(modelRows))
	for i, m := range modelRows {
		out[i] = mapping.ToDomainLegacyPayment(m)
	}
	return out, nil
}
