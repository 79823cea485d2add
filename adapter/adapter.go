package adapter

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/adapterkit/cache"
	apperrors "github.com/kbukum/adapterkit/errors"
	"github.com/kbukum/adapterkit/logger"
	"github.com/kbukum/adapterkit/observability"
	"github.com/kbukum/adapterkit/resilience"
)

// Adapter wraps one external dependency with the full protection chain:
// rate limiting, result caching, circuit breaking, timeout-bounded retries
// with exponential backoff, and fallback. Call never returns an error and
// never panics; every outcome, expected or not, is reported through a
// Result.
type Adapter[I, O any] struct {
	name   string
	config Config
	hooks  Hooks[I, O]

	breaker *resilience.CircuitBreaker
	limiter *resilience.RateLimiter
	results *cache.Store[O]

	log     *logger.Logger
	metrics *observability.Metrics

	totalCalls      atomic.Int64
	successfulCalls atomic.Int64
	failedCalls     atomic.Int64
	cacheHits       atomic.Int64
	fallbackUses    atomic.Int64

	closed atomic.Bool
}

// Option customizes adapter construction.
type Option func(*settings)

type settings struct {
	log     *logger.Logger
	metrics *observability.Metrics
}

// WithLogger sets the logger the adapter derives its component logger from.
// Defaults to the global logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *settings) { s.log = l }
}

// WithMetrics sets the OpenTelemetry instruments the adapter records to.
// Nil (the default) disables metric recording.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *settings) { s.metrics = m }
}

// New builds an adapter around the given hooks. The config is defaulted and
// validated; an INVALID_CONFIG error here is the only failure this package
// surfaces as a returned error rather than through a Result.
func New[I, O any](name string, hooks Hooks[I, O], cfg Config, opts ...Option) (*Adapter[I, O], error) {
	if name == "" {
		return nil, apperrors.InvalidConfig("adapter name must not be empty")
	}
	if hooks == nil {
		return nil, apperrors.InvalidConfig("adapter hooks must not be nil")
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := settings{}
	for _, opt := range opts {
		opt(&s)
	}
	if s.log == nil {
		s.log = logger.GetGlobalLogger()
	}

	// A disabled cache is modeled as a zero-TTL store so the call path
	// needs no separate branch for it.
	cacheTTL := cfg.CacheTTL
	if !cfg.CacheEnabled {
		cacheTTL = 0
	}

	a := &Adapter[I, O]{
		name:    name,
		config:  cfg,
		hooks:   hooks,
		results: cache.New[O](cacheTTL),
		limiter: resilience.NewRateLimiter(resilience.RateLimiterConfig{
			Name:  name,
			Rate:  cfg.RateLimitPerSecond,
			Burst: cfg.RateLimitBurst,
		}),
		log: s.log.WithComponent("adapter").WithFields(map[string]interface{}{
			logger.FieldAdapter: name,
		}),
		metrics: s.metrics,
	}
	a.breaker = resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Name:             name,
		FailureThreshold: cfg.CircuitFailureThreshold,
		RecoveryTimeout:  cfg.CircuitRecoveryTimeout,
		HalfOpenMaxCalls: cfg.CircuitHalfOpenMaxCalls,
		OnStateChange:    a.onCircuitStateChange,
	})

	return a, nil
}

// Name returns the adapter's registry name.
func (a *Adapter[I, O]) Name() string { return a.name }

// Config returns a copy of the adapter's configuration.
func (a *Adapter[I, O]) Config() Config { return a.config }

// CircuitState returns the current circuit breaker state.
func (a *Adapter[I, O]) CircuitState() resilience.State { return a.breaker.State() }

// Call runs one request through the protection chain, in order: rate limit,
// cache, circuit check, execution with retries, fallback.
func (a *Adapter[I, O]) Call(ctx context.Context, req I) Result[O] {
	start := time.Now()
	callID := uuid.NewString()
	a.totalCalls.Add(1)

	ctx, span := observability.StartSpan(ctx, observability.SpanAdapterCall)
	defer span.End()

	res := a.protectedCall(ctx, callID, req)
	res.Latency = time.Since(start)
	a.finish(ctx, callID, &res)
	return res
}

// protectedCall runs the call chain and converts a panic escaping the hooks
// into a failure result, keeping the no-raise guarantee of Call.
func (a *Adapter[I, O]) protectedCall(ctx context.Context, callID string, req I) (res Result[O]) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error("panic escaped adapter hooks", logger.Fields(
				logger.FieldCallID, callID,
				logger.FieldError, fmt.Sprint(r),
			))
			res = failureResult[O](apperrors.Internal(fmt.Errorf("panic: %v", r)))
		}
	}()
	return a.call(ctx, callID, req)
}

func (a *Adapter[I, O]) call(ctx context.Context, callID string, req I) Result[O] {
	// Rate limit gate. Nothing else runs on denial.
	if !a.limiter.Acquire() {
		return failureResult[O](apperrors.RateLimited(a.name))
	}

	// A cache hit bypasses the circuit and the retry machinery entirely.
	var key string
	if a.config.CacheEnabled {
		key = a.hooks.CacheKey(req)
		if data, ok := a.results.Get(key); ok {
			res := successResult(data)
			res.FromCache = true
			return res
		}
	}

	// An open circuit skips execution. The fallback substitutes for the
	// unavailable primary path; ordinary execution failures never consult
	// it, so a failing-but-reachable dependency still reports failures.
	if a.breaker.State() == resilience.StateOpen {
		if res, ok := a.fallback(req); ok {
			return res
		}
		return failureResult[O](apperrors.CircuitOpen(a.name, a.breaker.TimeUntilRecovery()))
	}

	res := a.executeWithRetry(ctx, callID, req)
	if res.Success && a.config.CacheEnabled {
		a.results.Put(key, res.Data)
	}
	return res
}

// executeWithRetry runs attempts 0..MaxRetries, each under its own timeout,
// sleeping the capped exponential backoff between failures.
func (a *Adapter[I, O]) executeWithRetry(ctx context.Context, callID string, req I) Result[O] {
	var lastErr *apperrors.AppError

	for attempt := 0; attempt <= a.config.MaxRetries; attempt++ {
		resp, aerr := a.attempt(ctx, req)
		if aerr == nil {
			a.breaker.RecordSuccess()
			res := successResult(resp)
			res.RetryCount = attempt
			return res
		}

		// The caller abandoning the call is not a dependency failure;
		// stop immediately without charging the breaker.
		if ctx.Err() != nil {
			res := failureResult[O](apperrors.Cancelled(a.name).WithCause(ctx.Err()))
			res.RetryCount = attempt
			return res
		}

		a.breaker.RecordFailure()
		lastErr = aerr
		a.log.Debug("call attempt failed", logger.Fields(
			logger.FieldCallID, callID,
			logger.FieldAttempt, attempt,
			logger.FieldError, aerr.Error(),
		))

		if attempt < a.config.MaxRetries {
			if !a.sleepBackoff(ctx, attempt) {
				res := failureResult[O](apperrors.Cancelled(a.name).WithCause(ctx.Err()))
				res.RetryCount = attempt
				return res
			}
		}
	}

	res := failureResult[O](lastErr)
	res.RetryCount = a.config.MaxRetries
	return res
}

// attempt runs one execution under the per-attempt timeout and classifies
// its outcome. A panic in the hooks counts as an execution failure so it is
// retried like any other.
func (a *Adapter[I, O]) attempt(parent context.Context, req I) (resp O, aerr *apperrors.AppError) {
	defer func() {
		if r := recover(); r != nil {
			aerr = apperrors.ExecutionFailed(a.name, fmt.Errorf("panic: %v", r))
		}
	}()

	ctx, cancel := context.WithTimeout(parent, a.config.Timeout)
	defer cancel()

	resp, err := a.hooks.Execute(ctx, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return resp, apperrors.Timeout(a.name, a.config.Timeout)
		}
		if appErr, ok := apperrors.AsAppError(err); ok {
			return resp, appErr
		}
		return resp, apperrors.ExecutionFailed(a.name, err)
	}

	if !a.hooks.ValidateResponse(resp) {
		return resp, apperrors.InvalidResponse(a.name)
	}
	return resp, nil
}

// fallback returns the hook's substitute response as a Result when fallback
// is enabled and the hook provides one.
func (a *Adapter[I, O]) fallback(req I) (Result[O], bool) {
	if !a.config.FallbackEnabled {
		return Result[O]{}, false
	}
	data, ok := a.hooks.FallbackResponse(req)
	if !ok {
		return Result[O]{}, false
	}
	res := successResult(data)
	res.FromFallback = true
	return res, true
}

// sleepBackoff waits min(base * expBase^attempt, maxDelay), returning false
// if the caller's context ended first.
func (a *Adapter[I, O]) sleepBackoff(ctx context.Context, attempt int) bool {
	timer := time.NewTimer(a.backoffDelay(attempt))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (a *Adapter[I, O]) backoffDelay(attempt int) time.Duration {
	d := time.Duration(float64(a.config.RetryBaseDelay) *
		math.Pow(a.config.RetryExponentialBase, float64(attempt)))
	if d <= 0 || d > a.config.RetryMaxDelay {
		return a.config.RetryMaxDelay
	}
	return d
}

// finish updates counters and emits metrics, span attributes and the debug
// log line for a completed call. Never fails the call.
func (a *Adapter[I, O]) finish(ctx context.Context, callID string, res *Result[O]) {
	outcome := a.outcomeLabel(res)

	if res.Success {
		a.successfulCalls.Add(1)
	} else {
		a.failedCalls.Add(1)
	}
	if res.FromCache {
		a.cacheHits.Add(1)
		a.metrics.RecordCacheHit(ctx, a.name)
	}
	if res.FromFallback {
		a.fallbackUses.Add(1)
		a.metrics.RecordFallback(ctx, a.name)
	}
	a.metrics.RecordCall(ctx, a.name, outcome, res.Latency)
	a.metrics.RecordRetries(ctx, a.name, res.RetryCount)

	observability.SetSpanAttribute(ctx, observability.AttrAdapterName, a.name)
	observability.SetSpanAttribute(ctx, observability.AttrCallID, callID)
	observability.SetSpanAttribute(ctx, observability.AttrOutcome, outcome)
	observability.SetSpanAttribute(ctx, observability.AttrRetryCount, res.RetryCount)
	observability.SetSpanAttribute(ctx, observability.AttrFromCache, res.FromCache)
	observability.SetSpanAttribute(ctx, observability.AttrFromFallback, res.FromFallback)
	observability.SetSpanAttribute(ctx, observability.AttrDurationMs, float64(res.Latency)/float64(time.Millisecond))
	if res.Err != nil {
		observability.SetSpanError(ctx, res.Err)
		observability.SetSpanAttribute(ctx, observability.AttrErrorCode, string(res.Err.Code))
	}

	a.log.Debug("call finished", logger.Fields(
		logger.FieldCallID, callID,
		logger.FieldOutcome, outcome,
		logger.FieldDuration, res.Latency.Milliseconds(),
		"retries", res.RetryCount,
	))
}

func (a *Adapter[I, O]) outcomeLabel(res *Result[O]) string {
	switch {
	case res.FromCache:
		return "cache_hit"
	case res.FromFallback:
		return "fallback"
	case res.Success:
		return "success"
	case res.Err != nil:
		return strings.ToLower(string(res.Err.Code))
	default:
		return "failure"
	}
}

func (a *Adapter[I, O]) onCircuitStateChange(name string, from, to resilience.State) {
	a.log.Warn("circuit state changed", logger.Fields(
		"from", from.String(),
		logger.FieldState, to.String(),
	))
	a.metrics.RecordCircuitTransition(context.Background(), name, from.String(), to.String())
}

// ResetCircuitBreaker forces the circuit closed. Administrative override.
func (a *Adapter[I, O]) ResetCircuitBreaker() {
	a.breaker.Reset()
	a.log.Info("circuit breaker reset")
}

// ClearCache empties the result cache. Administrative override.
func (a *Adapter[I, O]) ClearCache() {
	a.results.Clear()
	a.log.Info("cache cleared")
}

// Health reports the adapter's current health. An adapter is healthy
// whenever its circuit is not open.
func (a *Adapter[I, O]) Health() Health {
	state := a.breaker.State()
	return Health{
		Healthy:           state != resilience.StateOpen,
		State:             state.String(),
		TimeUntilRecovery: a.breaker.TimeUntilRecovery().Seconds(),
	}
}

// Metrics returns a snapshot of the adapter's call counters with derived
// rates. Rates are 0 when no calls have been made.
func (a *Adapter[I, O]) Metrics() Metrics {
	total := a.totalCalls.Load()
	m := Metrics{
		TotalCalls:      total,
		SuccessfulCalls: a.successfulCalls.Load(),
		FailedCalls:     a.failedCalls.Load(),
		CacheHits:       a.cacheHits.Load(),
		FallbackUses:    a.fallbackUses.Load(),
		CircuitState:    a.breaker.State().String(),
	}
	if total > 0 {
		m.SuccessRate = float64(m.SuccessfulCalls) / float64(total)
		m.CacheHitRate = float64(m.CacheHits) / float64(total)
	}
	return m
}

// Close releases the adapter's resources: the cache is emptied and the
// hooks' Close is forwarded to when implemented. Safe to call more than
// once; repeat calls are no-ops.
func (a *Adapter[I, O]) Close(ctx context.Context) error {
	if !a.closed.CompareAndSwap(false, true) {
		return nil
	}
	a.results.Clear()
	if c, ok := any(a.hooks).(Closeable); ok {
		if err := c.Close(ctx); err != nil {
			return err
		}
	}
	a.log.Debug("adapter closed")
	return nil
}
