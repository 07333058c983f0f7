// Package observability provides OpenTelemetry tracing and metrics for rxkit.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("rxdemo"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanStream)
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("rxdemo"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("rxkit"))
//	subject := rx.NewSubject[int](rx.WithMetrics(metrics))
//
// A nil *Metrics is valid and records nothing, so instrumented code does not
// need to check whether metrics are enabled.
package observability
