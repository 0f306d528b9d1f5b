package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Instruments are created lazily against the global meter so packages
// can count events without caring whether telemetry was initialized.
var (
	instrumentsOnce sync.Once

	apiRequests  metric.Int64Counter
	gradeWrites  metric.Int64Counter
	linkChecks   metric.Int64Counter
	commandSpans metric.Float64Histogram
)

func instruments() {
	instrumentsOnce.Do(func() {
		m := Meter("")
		apiRequests, _ = m.Int64Counter("canvassak.api.requests",
			metric.WithDescription("Canvas API requests issued"))
		gradeWrites, _ = m.Int64Counter("canvassak.grades.written",
			metric.WithDescription("Grades committed to Canvas"))
		linkChecks, _ = m.Int64Counter("canvassak.links.checked",
			metric.WithDescription("External link reachability checks performed"))
		commandSpans, _ = m.Float64Histogram("canvassak.command.duration",
			metric.WithDescription("Command wall time in seconds"),
			metric.WithUnit("s"))
	})
}

// CountAPIRequest records one Canvas API request.
func CountAPIRequest(ctx context.Context, method string) {
	instruments()
	if apiRequests != nil {
		apiRequests.Add(ctx, 1, metric.WithAttributes(attribute.String("http.method", method)))
	}
}

// CountGradeWrite records one committed grade.
func CountGradeWrite(ctx context.Context) {
	instruments()
	if gradeWrites != nil {
		gradeWrites.Add(ctx, 1)
	}
}

// CountLinkCheck records one real (non-memoized) link check.
func CountLinkCheck(ctx context.Context, ok bool) {
	instruments()
	if linkChecks != nil {
		linkChecks.Add(ctx, 1, metric.WithAttributes(attribute.Bool("ok", ok)))
	}
}

// RecordCommand records a finished command invocation.
func RecordCommand(ctx context.Context, name string, elapsed time.Duration) {
	instruments()
	if commandSpans != nil {
		commandSpans.Record(ctx, elapsed.Seconds(),
			metric.WithAttributes(attribute.String("command", name)))
	}
}
