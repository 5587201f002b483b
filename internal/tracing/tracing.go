// Package tracing installs an OpenTelemetry tracer provider that writes spans
// to a file.
package tracing

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Shutdown flushes pending spans and releases the output file.
type Shutdown func(ctx context.Context) error

// Setup exports spans as JSON lines to path and registers the provider
// globally. An empty path leaves the global no-op provider in place.
func Setup(path string) (Shutdown, error) {
	if path == "" {
		return func(context.Context) error { return nil }, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open trace file: %w", err)
	}

	exp, err := stdouttrace.New(stdouttrace.WithWriter(f))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stdouttrace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exp))
	otel.SetTracerProvider(tp)

	return func(ctx context.Context) error {
		return errors.Join(tp.Shutdown(ctx), f.Close())
	}, nil
}
