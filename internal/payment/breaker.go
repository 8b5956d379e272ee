package payment

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"
)

const (
	breakerOpenTimeout      = 30 * time.Second
	breakerFailureThreshold = 5
)

// BreakerProvider wraps a Provider with a circuit breaker so a degraded
// payment service fails fast instead of stacking up slow calls. An open
// breaker surfaces to the caller as a regular provider failure.
type BreakerProvider struct {
	inner Provider
	cb    *gobreaker.CircuitBreaker[*Session]
}

func NewBreakerProvider(inner Provider) *BreakerProvider {
	settings := gobreaker.Settings{
		Name:        "payment-provider",
		MaxRequests: 1,
		Timeout:     breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailureThreshold
		},
	}
	return &BreakerProvider{
		inner: inner,
		cb:    gobreaker.NewCircuitBreaker[*Session](settings),
	}
}

func (b *BreakerProvider) CreateCheckoutSession(ctx context.Context, params *SessionParams) (*Session, error) {
	sess, err := b.cb.Execute(func() (*Session, error) {
		return b.inner.CreateCheckoutSession(ctx, params)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, &ProviderError{
			Code:    "provider_unavailable",
			Message: "payment provider is temporarily unavailable, please try again later",
		}
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}
