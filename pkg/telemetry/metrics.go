package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Meter is the global meter for taskmd metrics
var meter = otel.Meter("taskmd")

// Attribute keys
const (
	KeyChangeID  = "taskmd.change_id"
	KeyIDType    = "taskmd.id_type"
	KeyFormat    = "taskmd.format"
	KeyResolved  = "taskmd.resolved"
	KeyOperation = "taskmd.operation"
)

// Counter instruments
var (
	documentsParsedCounter metric.Int64Counter
	tasksParsedCounter     metric.Int64Counter
	parseWarningsCounter   metric.Int64Counter
	idsResolvedCounter     metric.Int64Counter
	fallbackHitsCounter    metric.Int64Counter
	statusUpdatesCounter   metric.Int64Counter
)

// Histogram instruments
var (
	parseDurationHistogram metric.Float64Histogram
)

// initMetrics initializes all metric instruments
// Must be called after Init() has set up the global meter provider
func initMetrics() error {
	var err error

	if documentsParsedCounter, err = meter.Int64Counter(
		"taskmd_documents_parsed_total",
		metric.WithDescription("Total number of documents parsed"),
		metric.WithUnit("{document}"),
	); err != nil {
		return err
	}

	if tasksParsedCounter, err = meter.Int64Counter(
		"taskmd_tasks_parsed_total",
		metric.WithDescription("Total number of task lines parsed into the tree"),
		metric.WithUnit("{task}"),
	); err != nil {
		return err
	}

	if parseWarningsCounter, err = meter.Int64Counter(
		"taskmd_parse_warnings_total",
		metric.WithDescription("Total number of soft parse warnings"),
		metric.WithUnit("{warning}"),
	); err != nil {
		return err
	}

	if idsResolvedCounter, err = meter.Int64Counter(
		"taskmd_ids_resolved_total",
		metric.WithDescription("Total number of task id resolutions attempted"),
		metric.WithUnit("{id}"),
	); err != nil {
		return err
	}

	if fallbackHitsCounter, err = meter.Int64Counter(
		"taskmd_resolve_fallback_hits_total",
		metric.WithDescription("Total number of resolutions that needed the fallback chain"),
		metric.WithUnit("{id}"),
	); err != nil {
		return err
	}

	if statusUpdatesCounter, err = meter.Int64Counter(
		"taskmd_status_updates_total",
		metric.WithDescription("Total number of checkbox status mutations"),
		metric.WithUnit("{update}"),
	); err != nil {
		return err
	}

	if parseDurationHistogram, err = meter.Float64Histogram(
		"taskmd_parse_duration_seconds",
		metric.WithDescription("Duration of document parses in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return err
	}

	return nil
}

// RecordDocumentParsed records one completed parse with its task count,
// warning count, and duration
func RecordDocumentParsed(ctx context.Context, format string, tasks, warnings int, duration time.Duration) {
	if documentsParsedCounter == nil {
		return
	}
	documentsParsedCounter.Add(ctx, 1,
		metric.WithAttributes(attribute.String(KeyFormat, format)),
	)
	if tasksParsedCounter != nil {
		tasksParsedCounter.Add(ctx, int64(tasks),
			metric.WithAttributes(attribute.String(KeyFormat, format)),
		)
	}
	if parseWarningsCounter != nil && warnings > 0 {
		parseWarningsCounter.Add(ctx, int64(warnings),
			metric.WithAttributes(attribute.String(KeyFormat, format)),
		)
	}
	if parseDurationHistogram != nil {
		parseDurationHistogram.Record(ctx, duration.Seconds(),
			metric.WithAttributes(attribute.String(KeyFormat, format)),
		)
	}
}

// RecordIDResolved records one resolution attempt and its outcome
func RecordIDResolved(ctx context.Context, idType string, resolved bool) {
	if idsResolvedCounter == nil {
		return
	}
	idsResolvedCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String(KeyIDType, idType),
			attribute.Bool(KeyResolved, resolved),
		),
	)
}

// RecordFallbackHit records a resolution that only succeeded through the
// fallback chain
func RecordFallbackHit(ctx context.Context, idType string) {
	if fallbackHitsCounter == nil {
		return
	}
	fallbackHitsCounter.Add(ctx, 1,
		metric.WithAttributes(attribute.String(KeyIDType, idType)),
	)
}

// RecordStatusUpdate records one checkbox mutation
func RecordStatusUpdate(ctx context.Context, operation string) {
	if statusUpdatesCounter == nil {
		return
	}
	statusUpdatesCounter.Add(ctx, 1,
		metric.WithAttributes(attribute.String(KeyOperation, operation)),
	)
}
