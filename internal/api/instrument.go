package api

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/idilsaglam/tada/internal/model"
)

const tracerName = "github.com/idilsaglam/tada/internal/api"

type instrumented struct {
	next   Service
	logger *zap.Logger
	tracer trace.Tracer
}

// Instrument wraps svc so every call is logged and traced.
// Spans go to the global tracer provider (no-op unless tracing is set up).
func Instrument(svc Service, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &instrumented{
		next:   svc,
		logger: logger,
		tracer: otel.Tracer(tracerName),
	}
}

func (s *instrumented) GetAll(ctx context.Context, statuses []model.Status) ([]model.Todo, error) {
	ctx, done := s.start(ctx, "GetAll", attribute.Int("todo.statuses", len(statuses)))
	todos, err := s.next.GetAll(ctx, statuses)
	done(err, zap.Int("count", len(todos)))
	return todos, err
}

func (s *instrumented) Create(ctx context.Context, body string) (model.Todo, error) {
	ctx, done := s.start(ctx, "Create", attribute.Int("todo.body_len", len(body)))
	t, err := s.next.Create(ctx, body)
	done(err, zap.Int64("id", t.ID))
	return t, err
}

func (s *instrumented) UpdateStatus(ctx context.Context, id int64, status model.Status) (model.Todo, error) {
	ctx, done := s.start(ctx, "UpdateStatus",
		attribute.Int64("todo.id", id),
		attribute.String("todo.status", string(status)),
	)
	t, err := s.next.UpdateStatus(ctx, id, status)
	done(err, zap.Int64("id", id), zap.String("status", string(status)))
	return t, err
}

func (s *instrumented) Delete(ctx context.Context, id int64) error {
	ctx, done := s.start(ctx, "Delete", attribute.Int64("todo.id", id))
	err := s.next.Delete(ctx, id)
	done(err, zap.Int64("id", id))
	return err
}

// start opens a span and returns a finisher that records the outcome on both
// the span and the log.
func (s *instrumented) start(ctx context.Context, method string, attrs ...attribute.KeyValue) (context.Context, func(error, ...zap.Field)) {
	begin := time.Now()
	ctx, span := s.tracer.Start(ctx, "todo."+method, trace.WithAttributes(attrs...))

	return ctx, func(err error, extra ...zap.Field) {
		fields := append([]zap.Field{
			zap.String("method", method),
			zap.Duration("duration", time.Since(begin)),
		}, extra...)

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.logger.Error("todo api request", append(fields, zap.Error(err))...)
		} else {
			s.logger.Info("todo api request", fields...)
		}
		span.End()
	}
}
