package adapter

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/kbukum/adapterkit/logger"
)

// Managed is the type-erased view the Registry holds of an adapter, so
// adapters with different request/response types share one directory.
// *Adapter[I, O] implements it for any I, O.
type Managed interface {
	Name() string
	Health() Health
	Metrics() Metrics
	ResetCircuitBreaker()
	ClearCache()
	Close(ctx context.Context) error
}

// Registry is a directory of named adapters with aggregated health and
// metrics and bulk shutdown. Construct one per process and pass it around;
// there is no package-level instance.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Managed
	log      *logger.Logger
}

// RegistryOption customizes registry construction.
type RegistryOption func(*Registry)

// WithRegistryLogger sets the logger the registry derives its component
// logger from. Defaults to the global logger.
func WithRegistryLogger(l *logger.Logger) RegistryOption {
	return func(r *Registry) { r.log = l }
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		adapters: make(map[string]Managed),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logger.GetGlobalLogger()
	}
	r.log = r.log.WithComponent("registry")
	return r
}

// GetOrCreate returns the adapter registered under name, building and
// registering it first if absent. Creation is idempotent per name: on
// repeat calls build is ignored, and concurrent calls for one unseen name
// construct exactly one instance. A build error is returned as-is and
// nothing is stored.
func (r *Registry) GetOrCreate(name string, build func() (Managed, error)) (Managed, error) {
	r.mu.RLock()
	if a, ok := r.adapters[name]; ok {
		r.mu.RUnlock()
		return a, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.adapters[name]; ok {
		return a, nil
	}

	a, err := build()
	if err != nil {
		return nil, err
	}
	r.adapters[name] = a
	r.log.Info("adapter registered", logger.Fields(logger.FieldAdapter, name))
	return a, nil
}

// Get returns the adapter registered under name.
func (r *Registry) Get(name string) (Managed, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.adapters[name]
	return a, ok
}

// Remove drops the adapter registered under name without closing it,
// reporting whether it was present.
func (r *Registry) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.adapters[name]; !ok {
		return false
	}
	delete(r.adapters, name)
	return true
}

// List returns the sorted names of all registered adapters.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered adapters.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.adapters)
}

// AllHealth aggregates health across all registered adapters. The score is
// healthyCount/totalCount, defined as 1.0 for an empty registry; overall
// health is "healthy" at a score of 0.8 or above, "degraded" below.
func (r *Registry) AllHealth() RegistryHealth {
	r.mu.RLock()
	defer r.mu.RUnlock()

	health := RegistryHealth{
		TotalCount: len(r.adapters),
		Adapters:   make(map[string]Health, len(r.adapters)),
	}
	for name, a := range r.adapters {
		h := a.Health()
		health.Adapters[name] = h
		if h.Healthy {
			health.HealthyCount++
		}
	}

	if health.TotalCount == 0 {
		health.HealthScore = 1.0
	} else {
		health.HealthScore = float64(health.HealthyCount) / float64(health.TotalCount)
	}
	if health.HealthScore >= healthyScoreThreshold {
		health.OverallHealth = HealthLabelHealthy
	} else {
		health.OverallHealth = HealthLabelDegraded
	}
	return health
}

// AllMetrics sums the call counters across all registered adapters and
// derives aggregate rates, 0 when no calls have been made anywhere.
func (r *Registry) AllMetrics() RegistryMetrics {
	r.mu.RLock()
	defer r.mu.RUnlock()

	metrics := RegistryMetrics{
		Adapters: make(map[string]Metrics, len(r.adapters)),
	}
	for name, a := range r.adapters {
		m := a.Metrics()
		metrics.Adapters[name] = m
		metrics.TotalCalls += m.TotalCalls
		metrics.SuccessfulCalls += m.SuccessfulCalls
		metrics.FailedCalls += m.FailedCalls
		metrics.CacheHits += m.CacheHits
		metrics.FallbackUses += m.FallbackUses
	}

	if metrics.TotalCalls > 0 {
		metrics.SuccessRate = float64(metrics.SuccessfulCalls) / float64(metrics.TotalCalls)
		metrics.CacheHitRate = float64(metrics.CacheHits) / float64(metrics.TotalCalls)
	}
	return metrics
}

// CloseAll closes every registered adapter and empties the registry. One
// adapter's close error never stops the others from closing; the errors
// are joined into the returned error.
func (r *Registry) CloseAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for name, a := range r.adapters {
		if err := a.Close(ctx); err != nil {
			r.log.Error("adapter close failed", logger.Fields(
				logger.FieldAdapter, name,
				logger.FieldError, err.Error(),
			))
			errs = append(errs, fmt.Errorf("closing %s: %w", name, err))
		}
	}
	r.adapters = make(map[string]Managed)
	return errors.Join(errs...)
}

// Clear drops all adapters without closing them. Test/reset utility.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters = make(map[string]Managed)
}
