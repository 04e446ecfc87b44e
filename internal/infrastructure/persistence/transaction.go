package persistence

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/nexerp/backend/internal/domain/shared"
)

// lockWaitTimeout bounds how long a unit of work blocks on a contended row
// lock before Postgres aborts the statement with SQLSTATE 55P03.
const lockWaitTimeout = "3s"

// Postgres SQLSTATE codes that mean the unit of work lost a race and can be
// retried with fresh state.
const (
	sqlstateLockNotAvailable     = "55P03"
	sqlstateSerializationFailure = "40001"
	sqlstateDeadlockDetected     = "40P01"
)

// runInTransaction executes fn within one database transaction. SET LOCAL
// scopes the lock timeout to this transaction, so pooled connections keep
// the server default. Lock-wait timeouts, serialization failures, and
// deadlocks come back as the retryable conflict error.
func runInTransaction(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SET LOCAL lock_timeout = '" + lockWaitTimeout + "'").Error; err != nil {
			return err
		}
		return fn(tx)
	})
	return translateConflictError(err)
}

// translateConflictError maps the Postgres concurrency SQLSTATEs to the
// retryable conflict error. Anything else passes through unchanged.
func translateConflictError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case sqlstateLockNotAvailable, sqlstateSerializationFailure, sqlstateDeadlockDetected:
		return shared.ErrConflictRetryable
	}
	return err
}
