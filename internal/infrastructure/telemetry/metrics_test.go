package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func TestNewMeterProvider_Disabled(t *testing.T) {
	mp, err := NewMeterProvider(context.Background(), MetricsConfig{
		Enabled:     false,
		ServiceName: "terravest-backend",
	}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, mp.IsEnabled())
	assert.NoError(t, mp.ForceFlush(context.Background()))
	assert.NoError(t, mp.Shutdown(context.Background()))

	// Instruments created against the no-op meter must still work
	meter := mp.Meter("terravest.funding")
	counter, err := NewCounter(meter, "investments_submitted_total", "Investments submitted", "{investment}")
	require.NoError(t, err)
	counter.Inc(context.Background())
}

func TestMeterProviderGetConfig(t *testing.T) {
	cfg := MetricsConfig{
		Enabled:           false,
		CollectorEndpoint: "collector:4317",
		ExportInterval:    30 * time.Second,
		ServiceName:       "terravest-backend",
	}
	mp, err := NewMeterProvider(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, cfg, mp.GetConfig())
}

// manualMeter returns a meter backed by a manual reader so recorded
// values can be asserted without a collector.
func manualMeter(t *testing.T) (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return reader, provider
}

func collectSum(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total
		}
	}
	t.Fatalf("metric %s not collected", name)
	return 0
}

func TestCounterRecordsValues(t *testing.T) {
	reader, provider := manualMeter(t)
	meter := provider.Meter("terravest.funding")

	counter, err := NewCounter(meter, "investments_submitted_total", "Investments submitted", "{investment}")
	require.NoError(t, err)

	ctx := context.Background()
	counter.Inc(ctx, AttrPropertyType.String("RESIDENTIAL"))
	counter.Add(ctx, 3, AttrPropertyType.String("COMMERCIAL"))

	assert.Equal(t, int64(4), collectSum(t, reader, "investments_submitted_total"))
}

func TestHistogramRecordsDurations(t *testing.T) {
	reader, provider := manualMeter(t)
	meter := provider.Meter("terravest.http")

	hist, err := NewHistogram(meter, HistogramOpts{
		Name:        "http_request_duration_seconds",
		Description: "Request latency",
		Unit:        "s",
		Boundaries:  HTTPDurationBuckets,
	})
	require.NoError(t, err)

	ctx := context.Background()
	hist.Record(ctx, 0.042, AttrHTTPRoute.String("/api/v1/projects"))
	hist.RecordDuration(ctx, 150*time.Millisecond, AttrHTTPRoute.String("/api/v1/investments"))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	found := false
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != "http_request_duration_seconds" {
				continue
			}
			h, ok := m.Data.(metricdata.Histogram[float64])
			require.True(t, ok)
			var count uint64
			for _, dp := range h.DataPoints {
				count += dp.Count
			}
			assert.Equal(t, uint64(2), count)
			found = true
		}
	}
	assert.True(t, found)
}

func TestHistogramDefaultBoundaries(t *testing.T) {
	_, provider := manualMeter(t)
	meter := provider.Meter("terravest.db")

	// No explicit boundaries still produces a working instrument
	hist, err := NewHistogram(meter, HistogramOpts{
		Name:        "db_query_duration_seconds",
		Description: "Query latency",
		Unit:        "s",
	})
	require.NoError(t, err)
	hist.Record(context.Background(), 0.003)
}

func TestGaugeRecordsLatestValue(t *testing.T) {
	reader, provider := manualMeter(t)
	meter := provider.Meter("terravest.db")

	gauge, err := NewGauge(meter, "db_pool_connections", "Open connections", "{connection}")
	require.NoError(t, err)

	ctx := context.Background()
	gauge.Record(ctx, 5, AttrDBState.String("open"))
	gauge.Record(ctx, 8, AttrDBState.String("open"))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != "db_pool_connections" {
				continue
			}
			g, ok := m.Data.(metricdata.Gauge[int64])
			require.True(t, ok)
			require.Len(t, g.DataPoints, 1)
			assert.Equal(t, int64(8), g.DataPoints[0].Value)
			return
		}
	}
	t.Fatal("gauge not collected")
}

func TestFloatGaugeRecords(t *testing.T) {
	_, provider := manualMeter(t)
	meter := provider.Meter("terravest.funding")

	gauge, err := NewFloatGauge(meter, "funding_progress_ratio", "Funding progress", "1")
	require.NoError(t, err)
	gauge.Record(context.Background(), 0.83, AttrProjectStatus.String("PUBLISHED"))
}

func TestAttributeKeys(t *testing.T) {
	// Keys are part of the dashboard contract; renaming breaks queries
	assert.Equal(t, attribute.Key("property_type"), AttrPropertyType)
	assert.Equal(t, attribute.Key("project_id"), AttrProjectID)
	assert.Equal(t, attribute.Key("investment_status"), AttrInvestmentStatus)
	assert.Equal(t, attribute.Key("document_category"), AttrDocumentCategory)
	assert.Equal(t, attribute.Key("db.pool.state"), AttrDBState)
	assert.Equal(t, attribute.Key("http.route"), AttrHTTPRoute)
}

func TestBucketBoundariesAscending(t *testing.T) {
	for name, buckets := range map[string][]float64{
		"http":  HTTPDurationBuckets,
		"db":    DBDurationBuckets,
		"small": SmallDurationBuckets,
	} {
		require.NotEmpty(t, buckets, name)
		for i := 1; i < len(buckets); i++ {
			assert.Less(t, buckets[i-1], buckets[i], "%s bucket %d", name, i)
		}
	}
}
