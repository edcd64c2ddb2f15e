package llm

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"resume-ats/internal/shared/metrics"
	"resume-ats/internal/shared/telemetry"
)

const (
	DefaultMaxRetries = 2
	defaultBackoff    = time.Second
)

// Options wires the backends into a Provider. A nil backend means its
// credential is absent.
type Options struct {
	Primary         Backend
	Secondary       Backend
	PreferSecondary bool
	MaxRetries      int
	Breaker         BreakerSettings
}

// Provider runs prompts against the configured backends and returns
// validated JSON.
type Provider struct {
	primary         Backend
	secondary       Backend
	preferSecondary bool
	maxRetries      int
	backoff         time.Duration
	sleep           func(ctx context.Context, d time.Duration) error
}

// NewProvider builds a Provider. Configuration is fixed after construction.
func NewProvider(opts Options) *Provider {
	maxRetries := opts.MaxRetries
	if maxRetries < 0 {
		maxRetries = DefaultMaxRetries
	}
	return &Provider{
		primary:         withBreaker(opts.Primary, opts.Breaker),
		secondary:       withBreaker(opts.Secondary, opts.Breaker),
		preferSecondary: opts.PreferSecondary,
		maxRetries:      maxRetries,
		backoff:         defaultBackoff,
		sleep:           sleepContext,
	}
}

// Option tunes a single GenerateJSON call.
type Option func(*callOptions)

type callOptions struct {
	maxRetries int
	onBackend  func(name string)
}

// WithMaxRetries overrides the retry bound for one call.
func WithMaxRetries(n int) Option {
	return func(o *callOptions) {
		if n >= 0 {
			o.maxRetries = n
		}
	}
}

// WithBackendReport registers fn to receive the name of the backend that
// produced the accepted response.
func WithBackendReport(fn func(name string)) Option {
	return func(o *callOptions) {
		o.onBackend = fn
	}
}

// SetSleep replaces the backoff sleeper. Tests use it to skip real delays.
func (p *Provider) SetSleep(fn func(ctx context.Context, d time.Duration) error) {
	if fn != nil {
		p.sleep = fn
	}
}

// GenerateJSON sends system and user prompts to the selected backend and
// returns the fence-stripped JSON once it validates against schema.
//
// Malformed JSON is retried immediately; transport and HTTP failures are
// retried after a linear backoff; schema violations fail at once. When the
// secondary backend rejects the request as invalid and a primary backend is
// configured, the next attempt moves to the primary without spending a retry,
// waiting attempt*backoff first.
func (p *Provider) GenerateJSON(ctx context.Context, schema Schema, system, user string, opts ...Option) (json.RawMessage, error) {
	co := callOptions{maxRetries: p.maxRetries}
	for _, o := range opts {
		o(&co)
	}

	backend, err := p.selectBackend()
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt <= co.maxRetries; attempt++ {
		raw, err := p.call(ctx, backend, attempt, system, user)
		if err != nil {
			if backend == p.secondary && p.primary != nil && errors.Is(err, ErrSecondaryBadRequest) {
				telemetry.Warn("llm.failover", map[string]any{
					"from":    backend.Name(),
					"to":      p.primary.Name(),
					"attempt": attempt,
				})
				metrics.IncLLMFailover(backend.Name(), p.primary.Name())
				backend = p.primary
				// the switched attempt keeps the current attempt's backoff
				if attempt > 0 {
					if err := p.sleep(ctx, time.Duration(attempt)*p.backoff); err != nil {
						return nil, err
					}
				}
				attempt--
				continue
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			if attempt == co.maxRetries {
				return nil, err
			}
			telemetry.Warn("llm.retry", map[string]any{
				"backend": backend.Name(),
				"attempt": attempt,
				"error":   err.Error(),
			})
			if err := p.sleep(ctx, time.Duration(attempt+1)*p.backoff); err != nil {
				return nil, err
			}
			continue
		}

		cleaned := StripCodeFences(raw)
		if !json.Valid([]byte(cleaned)) {
			if attempt == co.maxRetries {
				return nil, ErrInvalidJSON
			}
			telemetry.Warn("llm.invalid_json", map[string]any{
				"backend": backend.Name(),
				"attempt": attempt,
				"length":  len(cleaned),
			})
			continue
		}

		out := json.RawMessage(cleaned)
		if err := schema.Validate(out); err != nil {
			var se *SchemaError
			if !errors.As(err, &se) {
				se = &SchemaError{Issues: []string{err.Error()}}
			}
			return nil, se
		}
		if co.onBackend != nil {
			co.onBackend(backend.Name())
		}
		return out, nil
	}
	return nil, ErrInvalidJSON
}

// Status reports which backends are configured and the state of their breakers.
func (p *Provider) Status() map[string]any {
	return map[string]any{
		"primary":         backendStatus(p.primary),
		"secondary":       backendStatus(p.secondary),
		"preferSecondary": p.preferSecondary,
	}
}

func backendStatus(b Backend) map[string]any {
	if b == nil {
		return map[string]any{"configured": false}
	}
	out := map[string]any{"configured": true, "name": b.Name()}
	if g, ok := b.(*guardedBackend); ok {
		out["breaker"] = g.State()
	}
	return out
}

func (p *Provider) selectBackend() (Backend, error) {
	switch {
	case p.preferSecondary && p.secondary != nil:
		return p.secondary, nil
	case p.primary != nil:
		return p.primary, nil
	case p.secondary != nil:
		return p.secondary, nil
	default:
		return nil, ErrNoProvider
	}
}

func (p *Provider) call(ctx context.Context, b Backend, attempt int, system, user string) (string, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "llm.generate", trace.WithAttributes(
		attribute.String("llm.backend", b.Name()),
		attribute.Int("llm.attempt", attempt),
	))
	defer span.End()

	start := time.Now()
	raw, err := b.Generate(ctx, system, user)
	outcome := "success"
	if err != nil {
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	metrics.ObserveLLMCall(b.Name(), outcome, time.Since(start))
	return raw, err
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
