package telemetry

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newDBMetricsForTest(t *testing.T) (*DBMetrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	metrics, err := NewDBMetrics(provider.Meter("db.client"), DefaultDBMetricsConfig(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(metrics.Stop)
	return metrics, reader
}

func metricByName(t *testing.T, reader *sdkmetric.ManualReader, name string) (metricdata.Metrics, bool) {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name == name {
				return m, true
			}
		}
	}
	return metricdata.Metrics{}, false
}

func TestDefaultDBMetricsConfig(t *testing.T) {
	cfg := DefaultDBMetricsConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThreshold)
	assert.Equal(t, 15*time.Second, cfg.PoolStatsInterval)
}

func TestNewDBMetrics_FillsDefaults(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := NewDBMetrics(provider.Meter("db.client"), DBMetricsConfig{Enabled: true}, nil)
	require.NoError(t, err)
	t.Cleanup(m.Stop)

	assert.Equal(t, 200*time.Millisecond, m.config.SlowQueryThreshold)
	assert.Equal(t, 15*time.Second, m.config.PoolStatsInterval)
}

func TestRecordQuery_CountsAndLatency(t *testing.T) {
	metrics, reader := newDBMetricsForTest(t)
	ctx := context.Background()

	metrics.RecordQuery(ctx, "select", "projects", 5*time.Millisecond, nil)
	metrics.RecordQuery(ctx, "INSERT", "investments", 2*time.Millisecond, nil)
	metrics.RecordQuery(ctx, "", "investments", time.Millisecond, nil)

	total, ok := metricByName(t, reader, "db_query_total")
	require.True(t, ok)
	sum := total.Data.(metricdata.Sum[int64])
	assert.Len(t, sum.DataPoints, 3, "SELECT, INSERT and UNKNOWN labels")

	_, ok = metricByName(t, reader, "db_query_duration_seconds")
	assert.True(t, ok)
}

func TestRecordQuery_SlowThreshold(t *testing.T) {
	metrics, reader := newDBMetricsForTest(t)
	ctx := context.Background()

	metrics.RecordQuery(ctx, "SELECT", "projects", 50*time.Millisecond, nil)
	if _, ok := metricByName(t, reader, "db_slow_query_total"); ok {
		t.Fatal("fast query must not count as slow")
	}

	metrics.RecordQuery(ctx, "SELECT", "projects", 300*time.Millisecond, nil)
	metrics.RecordQuery(ctx, "SELECT", "", 300*time.Millisecond, nil)

	slow, ok := metricByName(t, reader, "db_slow_query_total")
	require.True(t, ok)
	sum := slow.Data.(metricdata.Sum[int64])
	assert.Len(t, sum.DataPoints, 2, "projects and unknown table labels")
}

func TestPoolStatsSampling(t *testing.T) {
	metrics, reader := newDBMetricsForTest(t)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	metrics.SetSQLDB(sqlDB)

	metrics.samplePool(context.Background())

	pool, ok := metricByName(t, reader, "db_pool_connections")
	require.True(t, ok)
	gauge := pool.Data.(metricdata.Gauge[int64])
	states := map[string]bool{}
	for _, dp := range gauge.DataPoints {
		for _, attr := range dp.Attributes.ToSlice() {
			if attr.Key == AttrDBState {
				states[attr.Value.AsString()] = true
			}
		}
	}
	assert.True(t, states["idle"])
	assert.True(t, states["in_use"])
	assert.True(t, states["open"])
}

func TestStartPoolStatsCollection_NoDBIsNoop(t *testing.T) {
	metrics, _ := newDBMetricsForTest(t)
	metrics.StartPoolStatsCollection(context.Background())
	metrics.Stop()
}

func TestStopIsIdempotent(t *testing.T) {
	metrics, _ := newDBMetricsForTest(t)
	metrics.Stop()
	metrics.Stop()
}

func TestDBMetricsPlugin_ObservesQueries(t *testing.T) {
	metrics, reader := newDBMetricsForTest(t)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedProject{}))
	require.NoError(t, db.Use(NewDBMetricsPlugin(metrics, zap.NewNop())))

	require.NoError(t, db.Create(&tracedProject{Title: "Harbor Offices"}).Error)
	var got tracedProject
	require.NoError(t, db.First(&got).Error)

	total, ok := metricByName(t, reader, "db_query_total")
	require.True(t, ok)
	sum := total.Data.(metricdata.Sum[int64])

	ops := map[string]int64{}
	for _, dp := range sum.DataPoints {
		for _, attr := range dp.Attributes.ToSlice() {
			if attr.Key == AttrDBOperation {
				ops[attr.Value.AsString()] += dp.Value
			}
		}
	}
	assert.GreaterOrEqual(t, ops["INSERT"], int64(1))
	assert.GreaterOrEqual(t, ops["SELECT"], int64(1))
}

func TestClassifySQL(t *testing.T) {
	cases := map[string]string{
		"SELECT * FROM projects":                  "SELECT",
		"  select 1":                              "SELECT",
		"INSERT INTO investments VALUES (1)":      "INSERT",
		"update projects set status='PUBLISHED'":  "UPDATE",
		"DELETE FROM documents WHERE id = 1":      "DELETE",
		"CREATE INDEX idx_projects ON projects()": "OTHER",
		"": "OTHER",
	}
	for sql, want := range cases {
		assert.Equal(t, want, classifySQL(sql), "sql %q", sql)
	}
}

func TestRegisterDBMetrics_DisabledPaths(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	cfg := DefaultDBMetricsConfig()
	cfg.Enabled = false
	m, err := RegisterDBMetrics(db, nil, cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, m)

	disabledMP, err := NewMeterProvider(context.Background(), MetricsConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	m, err = RegisterDBMetrics(db, disabledMP, DefaultDBMetricsConfig(), zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestRecordQuery_Concurrent(t *testing.T) {
	metrics, reader := newDBMetricsForTest(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			metrics.RecordQuery(context.Background(), "SELECT", "investments", time.Millisecond, nil)
		}()
	}
	wg.Wait()

	total, ok := metricByName(t, reader, "db_query_total")
	require.True(t, ok)
	sum := total.Data.(metricdata.Sum[int64])
	var n int64
	for _, dp := range sum.DataPoints {
		n += dp.Value
	}
	assert.Equal(t, int64(20), n)
}
