package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/SscSPs/property_ledger/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgreSQL error codes the ledger translates into domain errors.
const (
	pgUniqueViolation      = "23505"
	pgCheckViolation       = "23514"
	pgForeignKeyViolation  = "23503"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.BeginTx(ctx, pgx.TxOptions{})
}

// BeginTx starts a new database transaction with the given options
func (r *BaseRepository) BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error) {
	tx, err := r.Pool.BeginTx(ctx, opts)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return translatePgError(err, "failed to commit transaction")
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) && !errors.Is(err, sql.ErrTxDone) {
		return apperrors.NewAppError(500, "failed to rollback transaction", err)
	}
	return nil
}

// Ping checks that the pool can reach the database.
func (r *BaseRepository) Ping(ctx context.Context) error {
	if err := r.Pool.Ping(ctx); err != nil {
		return apperrors.NewAppError(503, "database unreachable", err)
	}
	return nil
}

// inTx runs fn inside a transaction, committing on success and rolling back otherwise.
func (r *BaseRepository) inTx(ctx context.Context, opts pgx.TxOptions, fn func(tx pgx.Tx) error) error {
	tx, err := r.BeginTx(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		_ = r.Rollback(context.WithoutCancel(ctx), tx)
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// translatePgError maps driver errors onto the apperrors sentinels.
func translatePgError(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", apperrors.ErrNotFound, msg)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s: %s", apperrors.ErrDuplicate, msg, pgErr.ConstraintName)
		case pgCheckViolation, pgForeignKeyViolation:
			return fmt.Errorf("%w: %s: %s", apperrors.ErrValidation, msg, pgErr.ConstraintName)
		case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
			return fmt.Errorf("%w: %s: %s", apperrors.ErrConflict, msg, pgErr.Message)
		}
	}
	return fmt.Errorf("%s: %w", msg, err)
}
