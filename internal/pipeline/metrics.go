package pipeline

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var tracer = otel.Tracer("parly.pipeline")
var meter = otel.Meter("parly.pipeline")

var processedCounter, _ = meter.Int64Counter("entities_processed")
var insertedCounter, _ = meter.Int64Counter("records_inserted")
var skippedCounter, _ = meter.Int64Counter("records_skipped")
var errorCounter, _ = meter.Int64Counter("entity_errors")
var notFoundCounter, _ = meter.Int64Counter("entities_not_found")
var entityDuration, _ = meter.Float64Histogram("entity_duration_seconds")

func recordEntity(ctx context.Context, job string, c Counts, outcome string, seconds float64) {
	attrs := metric.WithAttributes(attribute.String("job", job))
	processedCounter.Add(ctx, 1, attrs)
	insertedCounter.Add(ctx, int64(c.Inserted), attrs)
	skippedCounter.Add(ctx, int64(c.Skipped), attrs)
	switch outcome {
	case outcomeError:
		errorCounter.Add(ctx, 1, attrs)
	case outcomeNotFound:
		notFoundCounter.Add(ctx, 1, attrs)
	}
	entityDuration.Record(ctx, seconds, metric.WithAttributes(
		attribute.String("job", job),
		attribute.String("outcome", outcome),
	))
}
