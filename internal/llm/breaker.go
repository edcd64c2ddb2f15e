package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"resume-ats/internal/shared/telemetry"
)

// BreakerSettings configures the per-backend circuit breaker.
type BreakerSettings struct {
	Enabled bool
	// Failures is the number of consecutive transient failures that opens the breaker.
	Failures uint32
	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration
}

type guardedBackend struct {
	Backend
	cb *gobreaker.CircuitBreaker[string]
}

// withBreaker wraps b so repeated transient failures fail fast.
func withBreaker(b Backend, s BreakerSettings) Backend {
	if b == nil || !s.Enabled {
		return b
	}
	failures := s.Failures
	if failures == 0 {
		failures = 5
	}
	settings := gobreaker.Settings{
		Name:        "llm-" + b.Name(),
		MaxRequests: 1,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			return !countsAsFailure(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			telemetry.Warn("llm.breaker.state", map[string]any{
				"name": name,
				"from": from.String(),
				"to":   to.String(),
			})
		},
	}
	return &guardedBackend{Backend: b, cb: gobreaker.NewCircuitBreaker[string](settings)}
}

func (g *guardedBackend) Generate(ctx context.Context, system, user string) (string, error) {
	out, err := g.cb.Execute(func() (string, error) {
		return g.Backend.Generate(ctx, system, user)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", fmt.Errorf("%s: %w", g.Name(), ErrBackendUnavailable)
	}
	return out, err
}

func (g *guardedBackend) State() string {
	return g.cb.State().String()
}

// countsAsFailure reports whether err indicates an unhealthy backend rather
// than a bad request or a caller going away.
func countsAsFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, ErrSecondaryBadRequest) {
		return false
	}
	if errors.Is(err, ErrRateLimited) || errors.Is(err, ErrSecondaryUnavailable) {
		return true
	}
	var be *BackendError
	if errors.As(err, &be) {
		return be.Status >= http.StatusInternalServerError || be.Status == http.StatusRequestTimeout
	}
	return true
}
