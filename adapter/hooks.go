package adapter

import "context"

// Hooks is the extension point every concrete adapter implements. The core
// supplies the protection chain; the hooks supply the dependency-specific
// behavior.
type Hooks[I, O any] interface {
	// Execute performs the actual external operation. It may fail or block
	// up to the configured call timeout and must honor ctx cancellation.
	Execute(ctx context.Context, req I) (O, error)

	// ValidateResponse reports whether a response that arrived without a
	// transport error is acceptable at the domain level. Rejected responses
	// are treated as call failures and retried.
	ValidateResponse(resp O) bool

	// CacheKey maps a request deterministically to a cache key.
	// Must be a pure function of the request.
	CacheKey(req I) string

	// FallbackResponse returns a safe substitute response for when the
	// primary path is unavailable, or ok=false when no fallback exists.
	// Must be pure and perform no I/O.
	FallbackResponse(req I) (O, bool)
}

// Closeable is optionally implemented by hooks that hold resources
// requiring explicit cleanup (e.g., HTTP client pools, subprocess handles).
// Adapter.Close and Registry.CloseAll forward to it when present.
type Closeable interface {
	Close(ctx context.Context) error
}
