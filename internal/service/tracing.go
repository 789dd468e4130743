package service

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/Freeeeeet/sports_booking/internal/service"

func newTracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// endSpan закрывает span, помечая его ошибкой при необходимости
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
