package tracing

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestInitWithoutEndpoint(t *testing.T) {
	tp, err := Init(context.Background(), "inventory-service", "", testLogger())
	require.NoError(t, err)
	require.NotNil(t, tp)
	require.NoError(t, tp.Shutdown(context.Background()))
}

// Exporter construction and the resource merge must both succeed when an
// endpoint is configured; a failure here is fatal at startup.
func TestInitWithEndpoint(t *testing.T) {
	tp, err := Init(context.Background(), "inventory-service", "http://localhost:4318", testLogger())
	require.NoError(t, err)
	require.NotNil(t, tp)
	// Nothing is listening; shutdown may fail to flush and that is fine.
	_ = tp.Shutdown(context.Background())
}
