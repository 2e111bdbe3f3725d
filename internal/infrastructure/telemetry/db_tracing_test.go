package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type tracedProject struct {
	ID    uint   `gorm:"primaryKey"`
	Title string `gorm:"size:200"`
}

func openTracedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedProject{}))
	return db
}

func recordingTracer(t *testing.T) (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return tp, recorder
}

func TestDefaultDBTracingConfig(t *testing.T) {
	cfg := DefaultDBTracingConfig()
	assert.False(t, cfg.Enabled)
	assert.False(t, cfg.LogFullSQL)
	assert.True(t, cfg.WithoutVariables)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThresh)
	assert.Equal(t, "postgresql", cfg.DBSystem)
}

func TestRegisterOtelGorm_Disabled(t *testing.T) {
	db := openTracedDB(t)
	plugin := NewDBTracingPlugin(DefaultDBTracingConfig(), zap.NewNop())

	require.NoError(t, plugin.RegisterOtelGorm(db))

	// No callbacks installed, queries still work
	require.NoError(t, db.Create(&tracedProject{Title: "Dockside Plaza"}).Error)
}

func TestRegisterOtelGorm_Enabled(t *testing.T) {
	db := openTracedDB(t)
	cfg := DefaultDBTracingConfig()
	cfg.Enabled = true
	plugin := NewDBTracingPlugin(cfg, zap.NewNop())

	require.NoError(t, plugin.RegisterOtelGorm(db))
	require.NoError(t, db.Create(&tracedProject{Title: "Riverside Lofts"}).Error)

	var got tracedProject
	require.NoError(t, db.First(&got, "title = ?", "Riverside Lofts").Error)
}

func TestRegisterOtelGorm_DoubleRegistrationFails(t *testing.T) {
	db := openTracedDB(t)
	cfg := DefaultDBTracingConfig()
	cfg.Enabled = true

	require.NoError(t, NewDBTracingPlugin(cfg, zap.NewNop()).RegisterOtelGorm(db))
	assert.Error(t, NewDBTracingPlugin(cfg, zap.NewNop()).RegisterOtelGorm(db))
}

func TestAnnotateSpan_RowsAndTable(t *testing.T) {
	tp, recorder := recordingTracer(t)
	tracer := tp.Tracer("test")

	ctx, span := tracer.Start(context.Background(), "db.query")
	db := openTracedDB(t).WithContext(ctx)
	db.Statement.RowsAffected = 3
	db.Statement.Table = "projects"

	plugin := NewDBTracingPlugin(DefaultDBTracingConfig(), zap.NewNop())
	plugin.annotateSpan(db)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	attrs := map[string]any{}
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	assert.Equal(t, int64(3), attrs["db.rows_affected"])
	assert.Equal(t, "projects", attrs["db.sql.table"])
}

func TestAnnotateSpan_SlowQuery(t *testing.T) {
	tp, recorder := recordingTracer(t)
	tracer := tp.Tracer("test")

	ctx, span := tracer.Start(context.Background(), "db.query")
	ctx = WithQueryStartTime(ctx)
	time.Sleep(2 * time.Millisecond)

	db := openTracedDB(t).WithContext(ctx)
	cfg := DefaultDBTracingConfig()
	cfg.SlowQueryThresh = time.Nanosecond
	NewDBTracingPlugin(cfg, zap.NewNop()).annotateSpan(db)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	var flagged bool
	for _, kv := range spans[0].Attributes() {
		if string(kv.Key) == "db.slow_query" && kv.Value.AsBool() {
			flagged = true
		}
	}
	assert.True(t, flagged, "slow query should be flagged on the span")

	events := spans[0].Events()
	require.NotEmpty(t, events)
	assert.Equal(t, "slow_query_warning", events[0].Name)
}

func TestAnnotateSpan_RecordsErrors(t *testing.T) {
	tp, recorder := recordingTracer(t)
	tracer := tp.Tracer("test")

	ctx, span := tracer.Start(context.Background(), "db.query")
	db := openTracedDB(t).WithContext(ctx)
	db.Error = errors.New("deadlock detected")

	NewDBTracingPlugin(DefaultDBTracingConfig(), zap.NewNop()).annotateSpan(db)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	require.NotEmpty(t, spans[0].Events())
	assert.Equal(t, "exception", spans[0].Events()[0].Name)
}

func TestAnnotateSpan_IgnoresNotFound(t *testing.T) {
	tp, recorder := recordingTracer(t)
	tracer := tp.Tracer("test")

	ctx, span := tracer.Start(context.Background(), "db.query")
	db := openTracedDB(t).WithContext(ctx)
	db.Error = gorm.ErrRecordNotFound

	NewDBTracingPlugin(DefaultDBTracingConfig(), zap.NewNop()).annotateSpan(db)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Empty(t, spans[0].Events(), "not-found must not be recorded as an error")
}

func TestAnnotateSpan_NilContextIsSafe(t *testing.T) {
	db := openTracedDB(t)
	db.Statement.Context = nil
	NewDBTracingPlugin(DefaultDBTracingConfig(), zap.NewNop()).annotateSpan(db)
}

func TestWithQueryStartTime(t *testing.T) {
	ctx := WithQueryStartTime(context.Background())
	start, ok := ctx.Value(queryStartTimeKey).(time.Time)
	require.True(t, ok)
	assert.WithinDuration(t, time.Now(), start, time.Second)
}
