package resilience

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/sony/gobreaker/v2"

	"github.com/HuzaifaIlyas02/order-service/internal/config"
	"github.com/HuzaifaIlyas02/order-service/internal/domain"
	"github.com/HuzaifaIlyas02/order-service/internal/logger"
)

// CheckFunc is the raw inventory lookup guarded by a Policy.
type CheckFunc func(ctx context.Context, skus []string) (domain.StockResult, error)

// Policy wraps an inventory lookup with a per-attempt timeout, bounded
// retries and a circuit breaker. The breaker state is the only shared
// state; one Policy instance guards one downstream dependency and is safe
// for concurrent use.
//
// The breaker observes the whole retried sequence as a single request, so
// one caller-visible failure counts once against the failure ratio.
type Policy struct {
	check   CheckFunc
	breaker *gobreaker.CircuitBreaker[domain.StockResult]
	timeout time.Duration
	retries uint64
	backoff time.Duration
}

func NewPolicy(name string, check CheckFunc, cfg config.InventoryGuard) *Policy {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.HalfOpenProbes,
		Interval:    cfg.BreakerWindow,
		Timeout:     cfg.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit state changed", "name", name, "from", from.String(), "to", to.String())
		},
		// A caller hanging up mid-check says nothing about the dependency's
		// health; only real failures feed the ratio.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}

	return &Policy{
		check:   check,
		breaker: gobreaker.NewCircuitBreaker[domain.StockResult](settings),
		timeout: cfg.Timeout,
		retries: cfg.MaxRetries,
		backoff: cfg.RetryBackoff,
	}
}

// Check runs the guarded lookup. It fails with ErrInventoryCircuitOpen when
// the breaker refuses the call outright, or ErrInventoryUnavailable when
// every retry attempt failed. An answer saying a SKU is out of stock is
// data, not an error, and passes through untouched.
func (p *Policy) Check(ctx context.Context, skus []string) (domain.StockResult, error) {
	res, err := p.breaker.Execute(func() (domain.StockResult, error) {
		return p.checkWithRetry(ctx, skus)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", domain.ErrInventoryCircuitOpen, err)
		}
		return nil, err
	}
	return res, nil
}

func (p *Policy) checkWithRetry(ctx context.Context, skus []string) (domain.StockResult, error) {
	var result domain.StockResult

	b := retry.WithMaxRetries(p.retries, retry.NewConstant(p.backoff))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		attemptCtx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()

		res, err := p.check(attemptCtx, skus)
		if err != nil {
			// Timeouts and transport failures look the same from here.
			return retry.RetryableError(err)
		}
		result = res
		return nil
	})
	if err != nil {
		// Keep the cause in the chain; the breaker needs to recognize a
		// caller cancellation underneath.
		return nil, fmt.Errorf("%w: %w", domain.ErrInventoryUnavailable, err)
	}
	return result, nil
}
