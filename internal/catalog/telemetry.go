package catalog

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/five82/shelf/internal/catalog"

type telemetry struct {
	tracer   trace.Tracer
	requests metric.Int64Counter
	errors   metric.Int64Counter
}

// newTelemetry falls back to the global providers, which are no-ops until an
// SDK is registered.
func newTelemetry(tp trace.TracerProvider, mp metric.MeterProvider) *telemetry {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(instrumentationName)
	t := &telemetry{tracer: tp.Tracer(instrumentationName)}

	var err error
	t.requests, err = meter.Int64Counter(
		"shelf.catalog.requests",
		metric.WithDescription("Catalog API requests issued"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		t.requests, _ = meter.Int64Counter("shelf.catalog.requests")
	}
	t.errors, err = meter.Int64Counter(
		"shelf.catalog.errors",
		metric.WithDescription("Catalog API requests that failed"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		t.errors, _ = meter.Int64Counter("shelf.catalog.errors")
	}
	return t
}

func (t *telemetry) start(ctx context.Context, path string) (context.Context, func(error)) {
	attrs := []attribute.KeyValue{attribute.String("catalog.path", path)}
	ctx, span := t.tracer.Start(ctx, "catalog.fetch", trace.WithAttributes(attrs...))
	t.requests.Add(ctx, 1, metric.WithAttributes(attrs...))

	return ctx, func(err error) {
		defer span.End()
		if err == nil {
			return
		}
		if reqErr, ok := AsRequestError(err); ok && reqErr.Status > 0 {
			span.SetAttributes(attribute.Int("http.status_code", reqErr.Status))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		t.errors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}
