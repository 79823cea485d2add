// Package adapter implements a resilient call framework for external
// dependencies. Every outbound call passes through one protection chain,
// in a fixed order: token-bucket rate limiting, a time-boxed result cache,
// a circuit breaker, timeout-bounded retries with capped exponential
// backoff, and an optional fallback response.
//
// A concrete adapter supplies four hooks and nothing else:
//
//	type policyHooks struct{ client *policyClient }
//
//	func (h *policyHooks) Execute(ctx context.Context, req PolicyRequest) (PolicyDecision, error) {
//	    return h.client.Evaluate(ctx, req)
//	}
//	func (h *policyHooks) ValidateResponse(d PolicyDecision) bool  { return d.Verdict != "" }
//	func (h *policyHooks) CacheKey(req PolicyRequest) string       { return req.Subject + "/" + req.Action }
//	func (h *policyHooks) FallbackResponse(req PolicyRequest) (PolicyDecision, bool) {
//	    return PolicyDecision{Verdict: "deny"}, true
//	}
//
//	a, err := adapter.New[PolicyRequest, PolicyDecision]("policy-engine", &policyHooks{client}, adapter.DefaultConfig())
//	res := a.Call(ctx, req)
//	if !res.Success {
//	    // res.Err carries the failure; nothing was raised.
//	}
//
// Call never returns an error and never panics. Expected failures (timeout,
// open circuit, exhausted rate limit, rejected response, cancellation) come
// back as typed errors inside the Result; only invalid configuration at
// construction time is surfaced as a returned error.
//
// The Registry is a process-wide directory of named adapters with
// idempotent creation, aggregated health and metrics, and bulk shutdown:
//
//	reg := adapter.NewRegistry()
//	m, err := reg.GetOrCreate("policy-engine", func() (adapter.Managed, error) {
//	    return adapter.New[PolicyRequest, PolicyDecision]("policy-engine", hooks, cfg)
//	})
//	defer reg.CloseAll(ctx)
package adapter
