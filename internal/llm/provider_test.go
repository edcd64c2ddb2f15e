package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type step struct {
	out string
	err error
}

type fakeBackend struct {
	mu    sync.Mutex
	name  string
	steps []step
	calls int
}

func (f *fakeBackend) Name() string { return f.name }

func (f *fakeBackend) Generate(ctx context.Context, system, user string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.calls
	f.calls++
	if i >= len(f.steps) {
		return "", errors.New("unexpected call")
	}
	return f.steps[i].out, f.steps[i].err
}

func (f *fakeBackend) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type schemaFunc func(json.RawMessage) error

func (s schemaFunc) Validate(raw json.RawMessage) error { return s(raw) }

var anySchema = schemaFunc(func(json.RawMessage) error { return nil })

type sleepRecorder struct {
	delays []time.Duration
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.delays = append(s.delays, d)
	return ctx.Err()
}

func newTestProvider(opts Options) (*Provider, *sleepRecorder) {
	p := NewProvider(opts)
	rec := &sleepRecorder{}
	p.SetSleep(rec.sleep)
	return p, rec
}

func TestGenerateJSONNoProvider(t *testing.T) {
	p, _ := newTestProvider(Options{MaxRetries: 2})

	_, err := p.GenerateJSON(context.Background(), anySchema, "sys", "user")
	require.ErrorIs(t, err, ErrNoProvider)
}

func TestSelectBackend(t *testing.T) {
	primary := &fakeBackend{name: "openrouter"}
	secondary := &fakeBackend{name: "gemini"}

	tests := []struct {
		name   string
		opts   Options
		expect Backend
	}{
		{name: "primary preferred by default", opts: Options{Primary: primary, Secondary: secondary}, expect: primary},
		{name: "prefer secondary flag", opts: Options{Primary: primary, Secondary: secondary, PreferSecondary: true}, expect: secondary},
		{name: "prefer secondary without key falls back", opts: Options{Primary: primary, PreferSecondary: true}, expect: primary},
		{name: "secondary only", opts: Options{Secondary: secondary}, expect: secondary},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProvider(tt.opts)
			got, err := p.selectBackend()
			require.NoError(t, err)
			assert.Same(t, tt.expect, got)
		})
	}
}

func TestGenerateJSONStripsFences(t *testing.T) {
	primary := &fakeBackend{name: "openrouter", steps: []step{{out: "```json\n{\"ok\":true}\n```"}}}
	p, _ := newTestProvider(Options{Primary: primary, MaxRetries: 2})

	out, err := p.GenerateJSON(context.Background(), anySchema, "sys", "user")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(out))
}

func TestGenerateJSONRetriesMalformedJSONWithoutBackoff(t *testing.T) {
	primary := &fakeBackend{name: "openrouter", steps: []step{{out: "not json"}, {out: `{"ok":1}`}}}
	p, rec := newTestProvider(Options{Primary: primary, MaxRetries: 2})

	out, err := p.GenerateJSON(context.Background(), anySchema, "sys", "user")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":1}`, string(out))
	assert.Equal(t, 2, primary.Calls())
	assert.Empty(t, rec.delays)
}

func TestGenerateJSONInvalidJSONOnLastAttempt(t *testing.T) {
	primary := &fakeBackend{name: "openrouter", steps: []step{{out: "{"}, {out: "nope"}, {out: "[1,"}}}
	p, _ := newTestProvider(Options{Primary: primary, MaxRetries: 2})

	_, err := p.GenerateJSON(context.Background(), anySchema, "sys", "user")
	require.ErrorIs(t, err, ErrInvalidJSON)
	assert.Equal(t, 3, primary.Calls())
}

func TestGenerateJSONSchemaFailureIsNotRetried(t *testing.T) {
	primary := &fakeBackend{name: "openrouter", steps: []step{{out: `{"a":1}`}, {out: `{"a":2}`}}}
	p, _ := newTestProvider(Options{Primary: primary, MaxRetries: 2})
	schema := schemaFunc(func(json.RawMessage) error { return &SchemaError{Issues: []string{"ats_score: is required"}} })

	_, err := p.GenerateJSON(context.Background(), schema, "sys", "user")
	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.Contains(t, err.Error(), "Schema validation failed: ats_score: is required")
	assert.Equal(t, 1, primary.Calls())
}

func TestGenerateJSONBackoffIsLinear(t *testing.T) {
	boom := &BackendError{Backend: "openrouter", Status: 500}
	primary := &fakeBackend{name: "openrouter", steps: []step{{err: boom}, {err: boom}, {out: `{}`}}}
	p, rec := newTestProvider(Options{Primary: primary, MaxRetries: 2})

	_, err := p.GenerateJSON(context.Background(), anySchema, "sys", "user")
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, rec.delays)
}

func TestGenerateJSONReturnsLastBackendError(t *testing.T) {
	primary := &fakeBackend{name: "openrouter", steps: []step{
		{err: ErrRateLimited}, {err: ErrRateLimited}, {err: &BackendError{Backend: "openrouter", Status: 502}},
	}}
	p, _ := newTestProvider(Options{Primary: primary, MaxRetries: 2})

	_, err := p.GenerateJSON(context.Background(), anySchema, "sys", "user")
	var be *BackendError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, 502, be.Status)
	assert.Equal(t, "OpenRouter API error: 502", err.Error())
}

func TestGenerateJSONFailoverDoesNotConsumeRetry(t *testing.T) {
	primary := &fakeBackend{name: "openrouter", steps: []step{{out: `{"from":"primary"}`}}}
	secondary := &fakeBackend{name: "gemini", steps: []step{{err: ErrSecondaryBadRequest}}}
	p, rec := newTestProvider(Options{Primary: primary, Secondary: secondary, PreferSecondary: true, MaxRetries: 0})

	out, err := p.GenerateJSON(context.Background(), anySchema, "sys", "user")
	require.NoError(t, err)
	assert.JSONEq(t, `{"from":"primary"}`, string(out))
	assert.Equal(t, 1, secondary.Calls())
	assert.Equal(t, 1, primary.Calls())
	assert.Empty(t, rec.delays)
}

func TestGenerateJSONFailoverAfterRetryWaits(t *testing.T) {
	primary := &fakeBackend{name: "openrouter", steps: []step{{out: `{}`}}}
	secondary := &fakeBackend{name: "gemini", steps: []step{{err: ErrRateLimited}, {err: ErrSecondaryBadRequest}}}
	p, rec := newTestProvider(Options{Primary: primary, Secondary: secondary, PreferSecondary: true, MaxRetries: 1})

	_, err := p.GenerateJSON(context.Background(), anySchema, "sys", "user")
	require.NoError(t, err)
	assert.Equal(t, 2, secondary.Calls())
	assert.Equal(t, 1, primary.Calls())
	assert.Equal(t, []time.Duration{time.Second, time.Second}, rec.delays)
}

func TestGenerateJSONReportsServingBackend(t *testing.T) {
	primary := &fakeBackend{name: "openrouter", steps: []step{{out: `{}`}}}
	secondary := &fakeBackend{name: "gemini", steps: []step{{err: ErrSecondaryBadRequest}}}
	p, _ := newTestProvider(Options{Primary: primary, Secondary: secondary, PreferSecondary: true})

	var served string
	_, err := p.GenerateJSON(context.Background(), anySchema, "sys", "user", WithBackendReport(func(name string) { served = name }))
	require.NoError(t, err)
	assert.Equal(t, "openrouter", served)
}

func TestGenerateJSONNoFailoverWithoutPrimaryKey(t *testing.T) {
	secondary := &fakeBackend{name: "gemini", steps: []step{{err: ErrSecondaryBadRequest}, {err: ErrSecondaryBadRequest}}}
	p, rec := newTestProvider(Options{Secondary: secondary, PreferSecondary: true, MaxRetries: 1})

	_, err := p.GenerateJSON(context.Background(), anySchema, "sys", "user")
	require.ErrorIs(t, err, ErrSecondaryBadRequest)
	assert.Equal(t, 2, secondary.Calls())
	assert.Equal(t, []time.Duration{time.Second}, rec.delays)
}

func TestGenerateJSONWithMaxRetriesOverride(t *testing.T) {
	primary := &fakeBackend{name: "openrouter", steps: []step{{err: ErrRateLimited}, {out: `{}`}}}
	p, _ := newTestProvider(Options{Primary: primary, MaxRetries: 2})

	_, err := p.GenerateJSON(context.Background(), anySchema, "sys", "user", WithMaxRetries(0))
	require.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, 1, primary.Calls())
}

func TestGenerateJSONStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	primary := &fakeBackend{name: "openrouter", steps: []step{{err: context.Canceled}}}
	p, rec := newTestProvider(Options{Primary: primary, MaxRetries: 2})
	cancel()

	_, err := p.GenerateJSON(ctx, anySchema, "sys", "user")
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, rec.delays)
}

func TestSleepContextHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	err := sleepContext(ctx, time.Minute)
	require.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestStatusReportsBackends(t *testing.T) {
	p := NewProvider(Options{
		Primary: &fakeBackend{name: "openrouter"},
		Breaker: BreakerSettings{Enabled: true, Failures: 3, Timeout: time.Second},
	})
	status := p.Status()
	primary := status["primary"].(map[string]any)
	assert.Equal(t, true, primary["configured"])
	assert.Equal(t, "closed", primary["breaker"])
	assert.Equal(t, false, status["secondary"].(map[string]any)["configured"])
}
