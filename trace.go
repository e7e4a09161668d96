package ezstorage

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "code.byted.org/khicago/ezstorage"

func (s *Storage) startSpan(ctx context.Context, op, key string) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{}
	if key != "" {
		attrs = append(attrs, attribute.String("ezstorage.key", key))
	}
	return s.tracer.Start(ctx, "ezstorage."+op, trace.WithAttributes(attrs...))
}

// endSpan annotates span with the serving backend and any error. The caller
// still ends the span.
func endSpan(span trace.Span, backend Backend, err error) {
	span.SetAttributes(attribute.String("ezstorage.backend", backend.String()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
