package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sethvargo/go-retry"
)

// CallPolicy bounds every store call with a timeout and retries transient
// failures a fixed number of times.
type CallPolicy struct {
	Timeout time.Duration
	Retries uint64
	Backoff time.Duration
}

func DefaultCallPolicy() CallPolicy {
	return CallPolicy{Timeout: 5 * time.Second, Retries: 1, Backoff: 100 * time.Millisecond}
}

type retryMode int

const (
	// reads and full-field updates can be replayed
	idempotent retryMode = iota
	// inserts are replayed only when the statement never reached the server
	notIdempotent
)

func (p CallPolicy) do(ctx context.Context, mode retryMode, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(p.Retries, retry.NewConstant(p.backoff()))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		callCtx, cancel := p.withTimeout(ctx)
		defer cancel()
		err := fn(callCtx)
		if err == nil {
			return nil
		}
		if shouldRetry(err, mode) {
			return retry.RetryableError(err)
		}
		return err
	})
}

func (p CallPolicy) backoff() time.Duration {
	if p.Backoff <= 0 {
		return time.Millisecond
	}
	return p.Backoff
}

func (p CallPolicy) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.Timeout)
}

func shouldRetry(err error, mode retryMode) bool {
	if mode == notIdempotent {
		return pgconn.SafeToRetry(err)
	}
	return isTransient(err)
}

// isTransient reports whether a failed idempotent call is worth one more attempt.
func isTransient(err error) bool {
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, context.Canceled) {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgerrcode.IsConnectionException(pgErr.Code) ||
			pgerrcode.IsTransactionRollback(pgErr.Code) ||
			pgerrcode.IsInsufficientResources(pgErr.Code) ||
			pgerrcode.IsOperatorIntervention(pgErr.Code)
	}
	// network errors and per-call timeouts
	return true
}
