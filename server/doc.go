// Package server exposes the ops HTTP surface for a registry of managed
// adapters.
//
// The server reports aggregate and per-adapter health and metrics, and
// offers the administrative circuit-reset and cache-clear operations:
//
//	GET  /health                        aggregate health, 503 when degraded
//	GET  /metrics                       aggregate call metrics
//	GET  /adapters                      registered adapter names
//	GET  /adapters/:name                one adapter's health and metrics
//	POST /adapters/:name/circuit/reset  force the circuit closed
//	POST /adapters/:name/cache/clear    empty the result cache
//	GET  /version                       build information
//
// Usage:
//
//	srv := server.New(cfg, registry, log)
//	if err := srv.Start(ctx); err != nil {
//	    return err
//	}
//	defer srv.Stop(ctx)
//
// Gin handles the ops routes; the engine sits behind an http.ServeMux
// wrapped in h2c, so gRPC or other http.Handlers can be mounted on the same
// port with Handle.
package server
