package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/jhoicas/stock-ledger/internal/application/ports"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

const (
	defaultRetryBase = 5 * time.Millisecond
	defaultRetryMax  = 200 * time.Millisecond
)

// Retrier reintenta la transacción completa cuando el ledger reporta conflicto de versión.
// fn debe ser idempotente respecto a su estado local: se vuelve a ejecutar desde cero en cada intento.
// Entre intentos espera con backoff exponencial y jitter, acotado por MaxDelay.
type Retrier struct {
	Tx          TxRunner
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Metrics     ports.Metrics
	Log         *logger.Logger
}

func (r Retrier) backoff(attempts int) retry.Backoff {
	base, capDelay := r.BaseDelay, r.MaxDelay
	if base <= 0 {
		base = defaultRetryBase
	}
	if capDelay < base {
		capDelay = defaultRetryMax
		if capDelay < base {
			capDelay = base
		}
	}
	b := retry.NewExponential(base)
	b = retry.WithJitterPercent(50, b)
	b = retry.WithCappedDuration(capDelay, b)
	return retry.WithMaxRetries(uint64(attempts-1), b)
}

// Run ejecuta fn en una transacción hasta MaxAttempts veces. Agotados los intentos devuelve
// domain.ErrVersionConflict envuelto; si ctx se cancela durante la espera devuelve ctx.Err().
func (r Retrier) Run(ctx context.Context, op string, fn TxFunc) error {
	attempts := r.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	attempt := 0
	err := retry.Do(ctx, r.backoff(attempts), func(ctx context.Context) error {
		attempt++
		err := r.Tx.Run(ctx, fn)
		if !errors.Is(err, domain.ErrVersionConflict) {
			return err
		}
		if r.Metrics != nil {
			r.Metrics.LedgerConflict()
		}
		if r.Log != nil {
			r.Log.Debug().Str("op", op).Int("attempt", attempt).Msg("conflicto de versión en ledger, reintentando")
		}
		return retry.RetryableError(err)
	})
	if errors.Is(err, domain.ErrVersionConflict) {
		return fmt.Errorf("%s: %d intentos: %w", op, attempt, err)
	}
	return err
}
