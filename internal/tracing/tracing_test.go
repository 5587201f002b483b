package tracing

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestSetup_WritesSpans(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spans.jsonl")
	shutdown, err := Setup(path)
	require.NoError(t, err)

	_, span := otel.Tracer("tada-test").Start(context.Background(), "todo.Create")
	span.End()

	require.NoError(t, shutdown(context.Background()))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"Name":"todo.Create"`)
}

func TestSetup_EmptyPath(t *testing.T) {
	shutdown, err := Setup("")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
