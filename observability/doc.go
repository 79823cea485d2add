// Package observability provides OpenTelemetry tracing and metrics integration
// for the adapter call path.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("my-service"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanAdapterCall)
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("my-service"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("my-service"))
//	metrics.RecordCall(ctx, "policy-engine", "success", latency)
//
// A nil *Metrics disables recording, so wiring metrics into an adapter is
// always optional.
package observability
