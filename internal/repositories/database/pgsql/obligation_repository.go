package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/property_ledger/internal/apperrors"
	"github.com/SscSPs/property_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/property_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/property_ledger/internal/models"
	"github.com/SscSPs/property_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const obligationColumns = `obligation_id, user_id, contract_id, apartment_id, owner_id, obligation_type, description,
	period, due_date, amount, paid_amount, commission_rate, commission_amount, owner_amount, owner_impact,
	agency_impact, status, notes, legacy_payment_id, version, created_at, created_by, last_updated_at, last_updated_by`

const paymentColumns = `payment_id, user_id, obligation_id, amount, payment_date, method, reference, notes, created_at, created_by`

// PgxObligationRepository stores obligations and their payments in PostgreSQL.
type PgxObligationRepository struct {
	BaseRepository
}

// newPgxObligationRepository creates a new repository for obligation data.
func newPgxObligationRepository(pool *pgxpool.Pool) *PgxObligationRepository {
	return &PgxObligationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var (
	_ portsrepo.ObligationRepositoryFacade = (*PgxObligationRepository)(nil)
	_ portsrepo.HealthChecker              = (*PgxObligationRepository)(nil)
)

func collectObligations(rows pgx.Rows) ([]domain.Obligation, error) {
	modelObs, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Obligation])
	if err != nil {
		return nil, err
	}
	obs := make([]domain.Obligation, len(modelObs))
	for i, m := range modelObs {
		obs[i] = mapping.ToDomainObligation(m)
	}
	return obs, nil
}

// FindObligationByID retrieves an obligation by its ID.
func (r *PgxObligationRepository) FindObligationByID(ctx context.Context, userID, obligationID string) (*domain.Obligation, error) {
	query := `SELECT ` + obligationColumns + ` FROM obligations WHERE obligation_id = $1 AND user_id = $2;`
	rows, err := r.Pool.Query(ctx, query, obligationID, userID)
	if err != nil {
		return nil, translatePgError(err, "failed to query obligation "+obligationID)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Obligation])
	if err != nil {
		return nil, translatePgError(err, "obligation "+obligationID)
	}
	ob := mapping.ToDomainObligation(m)
	return &ob, nil
}

// FindPaymentsByObligationID retrieves the payments of an obligation ordered by payment date.
func (r *PgxObligationRepository) FindPaymentsByObligationID(ctx context.Context, userID, obligationID string) ([]domain.ObligationPayment, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM obligations WHERE obligation_id = $1 AND user_id = $2);`,
		obligationID, userID).Scan(&exists)
	if err != nil {
		return nil, translatePgError(err, "failed to check obligation "+obligationID)
	}
	if !exists {
		return nil, fmt.Errorf("%w: obligation %s", apperrors.ErrNotFound, obligationID)
	}

	query := `SELECT ` + paymentColumns + ` FROM obligation_payments
		WHERE obligation_id = $1 AND user_id = $2
		ORDER BY payment_date, created_at, payment_id;`
	rows, err := r.Pool.Query(ctx, query, obligationID, userID)
	if err != nil {
		return nil, translatePgError(err, "failed to query payments of obligation "+obligationID)
	}
	modelPayments, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.ObligationPayment])
	if err != nil {
		return nil, translatePgError(err, "failed to scan payments of obligation "+obligationID)
	}
	payments := make([]domain.ObligationPayment, len(modelPayments))
	for i, m := range modelPayments {
		payments[i] = mapping.ToDomainObligationPayment(m)
	}
	return payments, nil
}

// ListObligations retrieves obligations matching the filter. A zero limit returns every row.
func (r *PgxObligationRepository) ListObligations(ctx context.Context, userID string, filter domain.ObligationFilter) ([]domain.Obligation, error) {
	query := `SELECT ` + obligationColumns + ` FROM obligations
		WHERE user_id = @user_id
		  AND (@contract_id::text IS NULL OR contract_id = @contract_id)
		  AND (@apartment_id::text IS NULL OR apartment_id = @apartment_id)
		  AND (@owner_id::text IS NULL OR owner_id = @owner_id)
		  AND (@obligation_type::text IS NULL OR obligation_type = @obligation_type)
		  AND (@status::text IS NULL OR status = @status)
		  AND (@period_from::date IS NULL OR period >= @period_from)
		  AND (@period_to::date IS NULL OR period <= @period_to)
		  AND (@after_id::text IS NULL OR (period, due_date, obligation_id) > (@after_period::date, @after_due::date, @after_id::text))
		ORDER BY period, due_date, obligation_id
		LIMIT NULLIF(@limit::int, 0) OFFSET @offset;`

	args := pgx.NamedArgs{
		"user_id":         userID,
		"contract_id":     filter.ContractID,
		"apartment_id":    filter.ApartmentID,
		"owner_id":        filter.OwnerID,
		"obligation_type": nil,
		"status":          nil,
		"period_from":     nil,
		"period_to":       nil,
		"after_period":    nil,
		"after_due":       nil,
		"after_id":        nil,
		"limit":           filter.Limit,
		"offset":          filter.Offset,
	}
	if filter.Type != nil {
		args["obligation_type"] = string(*filter.Type)
	}
	if filter.Status != nil {
		args["status"] = string(*filter.Status)
	}
	if filter.PeriodFrom != nil {
		args["period_from"] = domain.FirstOfMonth(*filter.PeriodFrom)
	}
	if filter.PeriodTo != nil {
		args["period_to"] = domain.FirstOfMonth(*filter.PeriodTo)
	}
	if filter.After != nil {
		args["after_period"] = domain.FirstOfMonth(filter.After.Period)
		args["after_due"] = domain.DateOnly(filter.After.DueDate)
		args["after_id"] = filter.After.ObligationID
	}

	rows, err := r.Pool.Query(ctx, query, args)
	if err != nil {
		return nil, translatePgError(err, "failed to list obligations")
	}
	obs, err := collectObligations(rows)
	if err != nil {
		return nil, translatePgError(err, "failed to scan obligations")
	}
	return obs, nil
}

// ExistsByLegacyPaymentID reports whether a legacy payment was already migrated.
func (r *PgxObligationRepository) ExistsByLegacyPaymentID(ctx context.Context, legacyPaymentID string) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM obligations WHERE legacy_payment_id = $1);`, legacyPaymentID).Scan(&exists)
	if err != nil {
		return false, translatePgError(err, "failed to check legacy payment "+legacyPaymentID)
	}
	return exists, nil
}

const insertObligationSQL = `
	INSERT INTO obligations (` + obligationColumns + `)
	VALUES (@obligation_id, @user_id, @contract_id, @apartment_id, @owner_id, @obligation_type, @description,
		@period, @due_date, @amount, @paid_amount, @commission_rate, @commission_amount, @owner_amount, @owner_impact,
		@agency_impact, @status, @notes, @legacy_payment_id, @version, @created_at, @created_by, @last_updated_at, @last_updated_by);`

const insertPaymentSQL = `
	INSERT INTO obligation_payments (` + paymentColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`

func obligationArgs(m models.Obligation) pgx.NamedArgs {
	return pgx.NamedArgs{
		"obligation_id":     m.ObligationID,
		"user_id":           m.UserID,
		"contract_id":       m.ContractID,
		"apartment_id":      m.ApartmentID,
		"owner_id":          m.OwnerID,
		"obligation_type":   m.ObligationType,
		"description":       m.Description,
		"period":            m.Period,
		"due_date":          m.DueDate,
		"amount":            m.Amount,
		"paid_amount":       m.PaidAmount,
		"commission_rate":   m.CommissionRate,
		"commission_amount": m.CommissionAmount,
		"owner_amount":      m.OwnerAmount,
		"owner_impact":      m.OwnerImpact,
		"agency_impact":     m.AgencyImpact,
		"status":            m.Status,
		"notes":             m.Notes,
		"legacy_payment_id": m.LegacyPaymentID,
		"version":           m.Version,
		"created_at":        m.CreatedAt,
		"created_by":        m.CreatedBy,
		"last_updated_at":   m.LastUpdatedAt,
		"last_updated_by":   m.LastUpdatedBy,
	}
}

func insertPayment(ctx context.Context, tx pgx.Tx, p domain.ObligationPayment) error {
	m := mapping.ToModelObligationPayment(p)
	_, err := tx.Exec(ctx, insertPaymentSQL,
		m.PaymentID, m.UserID, m.ObligationID, m.Amount, m.PaymentDate,
		m.Method, m.Reference, m.Notes, m.CreatedAt, m.CreatedBy)
	if err != nil {
		return translatePgError(err, "failed to save payment "+m.PaymentID)
	}
	return nil
}

// SaveObligation inserts a new obligation.
func (r *PgxObligationRepository) SaveObligation(ctx context.Context, obligation domain.Obligation) error {
	if obligation.Version == 0 {
		obligation.Version = 1
	}
	m := mapping.ToModelObligation(obligation)
	if _, err := r.Pool.Exec(ctx, insertObligationSQL, obligationArgs(m)); err != nil {
		return translatePgError(err, "failed to save obligation "+m.ObligationID)
	}
	return nil
}

// SaveMigratedObligation inserts an obligation and its optional payment in one transaction.
// The partial unique index on legacy_payment_id rejects a second migration of the same row.
func (r *PgxObligationRepository) SaveMigratedObligation(ctx context.Context, obligation domain.Obligation, payment *domain.ObligationPayment) error {
	if obligation.Version == 0 {
		obligation.Version = 1
	}
	m := mapping.ToModelObligation(obligation)
	return r.inTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, insertObligationSQL, obligationArgs(m)); err != nil {
			return translatePgError(err, "failed to save migrated obligation "+m.ObligationID)
		}
		if payment == nil {
			return nil
		}
		return insertPayment(ctx, tx, *payment)
	})
}

// UpdateObligationLocked locks the row with FOR UPDATE, applies mutate and writes the result
// back guarded by the version read under the lock.
func (r *PgxObligationRepository) UpdateObligationLocked(ctx context.Context, userID, obligationID string, mutate portsrepo.ObligationMutation) (*domain.Obligation, error) {
	var updated domain.Obligation
	err := r.inTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		query := `SELECT ` + obligationColumns + ` FROM obligations WHERE obligation_id = $1 AND user_id = $2 FOR UPDATE;`
		rows, err := tx.Query(ctx, query, obligationID, userID)
		if err != nil {
			return translatePgError(err, "failed to lock obligation "+obligationID)
		}
		current, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Obligation])
		if err != nil {
			return translatePgError(err, "obligation "+obligationID)
		}

		working := mapping.ToDomainObligation(current)
		payment, err := mutate(&working)
		if err != nil {
			return err
		}
		if err := working.Validate(); err != nil {
			return err
		}
		if working.Version != current.Version {
			return fmt.Errorf("%w: obligation %s changed concurrently", apperrors.ErrConflict, obligationID)
		}

		if payment != nil {
			if err := payment.Validate(); err != nil {
				return err
			}
			if err := insertPayment(ctx, tx, *payment); err != nil {
				return err
			}
		}

		m := mapping.ToModelObligation(working)
		tag, err := tx.Exec(ctx, `
			UPDATE obligations
			SET amount = @amount, paid_amount = @paid_amount, commission_rate = @commission_rate,
				commission_amount = @commission_amount, owner_amount = @owner_amount,
				owner_impact = @owner_impact, agency_impact = @agency_impact, status = @status,
				notes = @notes, version = version + 1,
				last_updated_at = @last_updated_at, last_updated_by = @last_updated_by
			WHERE obligation_id = @obligation_id AND user_id = @user_id AND version = @version;`,
			obligationArgs(m))
		if err != nil {
			return translatePgError(err, "failed to update obligation "+obligationID)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: obligation %s changed concurrently", apperrors.ErrConflict, obligationID)
		}

		working.Version++
		updated = working
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// MarkOverdue moves pending obligations due before asOf's date to overdue. The status
// predicate in the UPDATE lets a concurrent payment that settles the row win.
func (r *PgxObligationRepository) MarkOverdue(ctx context.Context, userID string, asOf time.Time) (int64, error) {
	query := `
		UPDATE obligations
		SET status = 'overdue', version = version + 1, last_updated_at = $1, last_updated_by = $2
		WHERE status = 'pending'
		  AND due_date < $3::date
		  AND paid_amount < amount
		  AND ($4 = '' OR user_id = $4);`
	tag, err := r.Pool.Exec(ctx, query, asOf.UTC(), domain.OverdueSweepActor, domain.DateOnly(asOf), userID)
	if err != nil {
		return 0, translatePgError(err, "failed to mark obligations overdue")
	}
	return tag.RowsAffected(), nil
}

// LoadSettlementSnapshot reads both obligation sets inside one REPEATABLE READ read-only
// transaction so the statement never mixes states from concurrent writes.
func (r *PgxObligationRepository) LoadSettlementSnapshot(ctx context.Context, userID string, q domain.SettlementQuery) (*domain.SettlementSnapshot, error) {
	snap := &domain.SettlementSnapshot{}
	opts := pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}
	err := r.inTx(ctx, opts, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `SELECT NOW();`).Scan(&snap.AsOf); err != nil {
			return translatePgError(err, "failed to read snapshot time")
		}
		snap.AsOf = snap.AsOf.UTC()

		inPeriod, err := tx.Query(ctx, `SELECT `+obligationColumns+` FROM obligations
			WHERE user_id = $1 AND period >= $2 AND period <= $3
			  AND ($4::text IS NULL OR owner_id = $4)
			  AND ($5::text IS NULL OR apartment_id = $5)
			ORDER BY period, due_date, obligation_id;`,
			userID, q.PeriodFrom, q.PeriodTo, q.OwnerID, q.ApartmentID)
		if err != nil {
			return translatePgError(err, "failed to query settlement obligations")
		}
		if snap.InPeriod, err = collectObligations(inPeriod); err != nil {
			return translatePgError(err, "failed to scan settlement obligations")
		}

		overdue, err := tx.Query(ctx, `SELECT `+obligationColumns+` FROM obligations
			WHERE user_id = $1 AND status = 'overdue'
			  AND ($2::text IS NULL OR owner_id = $2)
			  AND ($3::text IS NULL OR apartment_id = $3)
			ORDER BY period, due_date, obligation_id;`,
			userID, q.OwnerID, q.ApartmentID)
		if err != nil {
			return translatePgError(err, "failed to query overdue obligations")
		}
		if snap.Overdue, err = collectObligations(overdue); err != nil {
			return translatePgError(err, "failed to scan overdue obligations")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}
