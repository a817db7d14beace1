package infrastructure

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestRegisterRuntimeMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	reg, err := RegisterRuntimeMetrics(provider.Meter("test"), time.Now().Add(-time.Minute))
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	names := map[string]bool{}
	for _, m := range rm.ScopeMetrics[0].Metrics {
		names[m.Name] = true
		if m.Name == "system_process_uptime_seconds" {
			gauge, ok := m.Data.(metricdata.Gauge[float64])
			require.True(t, ok)
			assert.GreaterOrEqual(t, gauge.DataPoints[0].Value, 60.0)
		}
	}
	for _, want := range []string{
		"system_goroutines",
		"system_memory_allocated_bytes",
		"system_memory_system_bytes",
		"system_gc_count_total",
		"system_process_uptime_seconds",
	} {
		assert.True(t, names[want], want)
	}

	require.NoError(t, reg.Unregister())
}
