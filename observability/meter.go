package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/rxkit/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(ctx, config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the instruments recorded by subjects and stream bridges.
type Metrics struct {
	valuesSent          metric.Int64Counter
	valuesDelivered     metric.Int64Counter
	valuesDropped       metric.Int64Counter
	subscriptionsActive metric.Int64UpDownCounter
	completions         metric.Int64Counter
	panics              metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	valuesSent, err := meter.Int64Counter("rx.values.sent",
		metric.WithDescription("Values accepted by a subject"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating rx.values.sent counter: %w", err)
	}

	valuesDelivered, err := meter.Int64Counter("rx.values.delivered",
		metric.WithDescription("Value deliveries to subscriptions"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating rx.values.delivered counter: %w", err)
	}

	valuesDropped, err := meter.Int64Counter("rx.values.dropped",
		metric.WithDescription("Values dropped by reason"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating rx.values.dropped counter: %w", err)
	}

	subscriptionsActive, err := meter.Int64UpDownCounter("rx.subscriptions.active",
		metric.WithDescription("Subscriptions currently registered with a subject"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating rx.subscriptions.active gauge: %w", err)
	}

	completions, err := meter.Int64Counter("rx.completions",
		metric.WithDescription("Completions sent by status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating rx.completions counter: %w", err)
	}

	panics, err := meter.Int64Counter("rx.subscriber.panics",
		metric.WithDescription("Recovered subscriber panics"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating rx.subscriber.panics counter: %w", err)
	}

	return &Metrics{
		valuesSent:          valuesSent,
		valuesDelivered:     valuesDelivered,
		valuesDropped:       valuesDropped,
		subscriptionsActive: subscriptionsActive,
		completions:         completions,
		panics:              panics,
	}, nil
}

// RecordSent records a value accepted by a subject.
func (m *Metrics) RecordSent(ctx context.Context, subject string) {
	if m == nil {
		return
	}
	m.valuesSent.Add(ctx, 1, subjectAttr(subject))
}

// RecordDelivered records n deliveries of one value.
func (m *Metrics) RecordDelivered(ctx context.Context, subject string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.valuesDelivered.Add(ctx, int64(n), subjectAttr(subject))
}

// RecordDropped records a dropped value.
func (m *Metrics) RecordDropped(ctx context.Context, subject, reason string) {
	if m == nil {
		return
	}
	m.valuesDropped.Add(ctx, 1, metric.WithAttributes(
		attribute.String("subject", subject),
		attribute.String("reason", reason),
	))
}

// RecordSubscribed adjusts the active subscription gauge by delta.
func (m *Metrics) RecordSubscribed(ctx context.Context, subject string, delta int) {
	if m == nil || delta == 0 {
		return
	}
	m.subscriptionsActive.Add(ctx, int64(delta), subjectAttr(subject))
}

// RecordCompletion records a completion sent by a subject.
func (m *Metrics) RecordCompletion(ctx context.Context, subject, status string) {
	if m == nil {
		return
	}
	m.completions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("subject", subject),
		attribute.String("status", status),
	))
}

// RecordPanic records a recovered subscriber panic.
func (m *Metrics) RecordPanic(ctx context.Context, subject string) {
	if m == nil {
		return
	}
	m.panics.Add(ctx, 1, subjectAttr(subject))
}

func subjectAttr(subject string) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("subject", subject))
}
