package breaker

import (
	"fmt"
	"time"

	"github.com/sony/gobreaker"
)

// halfOpenProbes is how many trial calls gobreaker admits once the
// wait elapses.
const halfOpenProbes = 5

// CircuitBreaker fails calls fast while the guarded backend is
// considered down.
type CircuitBreaker interface {
	Execute(fn func() error) error
}

type sonyBreaker struct {
	inner *gobreaker.CircuitBreaker
}

// NewCircuitBreaker opens after maxFailures consecutive failures and
// probes the backend again once wait has elapsed.
func NewCircuitBreaker(name string, wait time.Duration, maxFailures uint32) CircuitBreaker {
	inner := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: halfOpenProbes,
		Timeout:     wait,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
	})
	return &sonyBreaker{inner: inner}
}

func (b *sonyBreaker) Execute(fn func() error) error {
	_, err := b.inner.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	if err != nil {
		return fmt.Errorf("breaker (%s): %w", b.inner.Name(), err)
	}
	return nil
}
