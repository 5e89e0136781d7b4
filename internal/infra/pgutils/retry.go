package pgutils

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrStoreUnavailable is returned when a transaction kept aborting on
// concurrent-write conflicts and the retry budget ran out.
var ErrStoreUnavailable = errors.New("store unavailable: transaction conflict retries exhausted")

const (
	maxTxAttempts  = 4
	retryBaseDelay = 25 * time.Millisecond
)

// WithTxRetry runs fn inside a transaction like WithTx, retrying the whole
// unit when Postgres aborts it with a serialization failure (40001) or a
// deadlock (40P01). Those are transient races, not logic errors, so fn
// must be safe to re-run from scratch. Backoff doubles per attempt.
//
// Any other error is returned as-is after rollback.
func WithTxRetry(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	delay := retryBaseDelay

	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = WithTx(ctx, db, fn)
		if err == nil || !isConflict(err) {
			return err
		}

		if attempt == maxTxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("retry wait: %w", ctx.Err())
		case <-time.After(delay):
		}

		delay *= 2
	}

	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}

func isConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	// serialization_failure / deadlock_detected
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}
