// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// FundingMetrics provides business metrics for the funding platform.
// It tracks investment activity, settled capital, and project pipeline health.
type FundingMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	investmentSubmittedTotal *Counter
	investmentDecidedTotal   *Counter
	fundingAmountTotal       *Counter
	projectPublishedTotal    *Counter

	// Gauge metrics (point-in-time values)
	pendingInvestments *Gauge
	projectsByStatus   *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	provider FundingMetricsProvider
}

// FundingMetricsProvider provides aggregated funding data for periodic
// collection. The interface keeps the telemetry layer free of a direct
// dependency on the domain packages.
type FundingMetricsProvider interface {
	// CountPendingInvestments returns the number of investments awaiting a decision
	CountPendingInvestments(ctx context.Context) (int64, error)

	// CountProjectsByStatus returns the number of projects per lifecycle status
	CountProjectsByStatus(ctx context.Context) (map[string]int64, error)
}

// FundingMetricsConfig holds configuration for funding metrics.
type FundingMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CollectInterval time.Duration // Default: 5 minutes
	Provider        FundingMetricsProvider
}

// NewFundingMetrics creates a new FundingMetrics instance.
func NewFundingMetrics(cfg FundingMetricsConfig) (*FundingMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	fm := &FundingMetrics{
		meter:    cfg.Meter,
		logger:   logger,
		stopChan: make(chan struct{}),
		provider: cfg.Provider,
	}

	var err error

	fm.investmentSubmittedTotal, err = NewCounter(
		cfg.Meter,
		"terravest_investment_submitted_total",
		"Total number of investments submitted",
		"{investments}",
	)
	if err != nil {
		return nil, err
	}

	fm.investmentDecidedTotal, err = NewCounter(
		cfg.Meter,
		"terravest_investment_decided_total",
		"Total number of investment decisions, labeled by outcome",
		"{investments}",
	)
	if err != nil {
		return nil, err
	}

	fm.fundingAmountTotal, err = NewCounter(
		cfg.Meter,
		"terravest_funding_amount_total",
		"Total confirmed capital in cents",
		"{cents}",
	)
	if err != nil {
		return nil, err
	}

	fm.projectPublishedTotal, err = NewCounter(
		cfg.Meter,
		"terravest_project_published_total",
		"Total number of projects published",
		"{projects}",
	)
	if err != nil {
		return nil, err
	}

	fm.pendingInvestments, err = NewGauge(
		cfg.Meter,
		"terravest_pending_investments",
		"Current number of investments awaiting a decision",
		"{investments}",
	)
	if err != nil {
		return nil, err
	}

	fm.projectsByStatus, err = NewGauge(
		cfg.Meter,
		"terravest_projects",
		"Current number of projects per lifecycle status",
		"{projects}",
	)
	if err != nil {
		return nil, err
	}

	return fm, nil
}

// =============================================================================
// Investment Metrics
// =============================================================================

// RecordInvestmentSubmitted records a newly placed investment.
func (fm *FundingMetrics) RecordInvestmentSubmitted(ctx context.Context, propertyType string) {
	fm.investmentSubmittedTotal.Inc(ctx,
		AttrPropertyType.String(propertyType),
	)
}

// RecordInvestmentDecided records a settled investment decision.
func (fm *FundingMetrics) RecordInvestmentDecided(ctx context.Context, outcome string) {
	fm.investmentDecidedTotal.Inc(ctx,
		AttrInvestmentStatus.String(outcome),
	)
}

// RecordConfirmedAmount records capital added by a confirmed investment.
// The amount is converted to cents before export.
func (fm *FundingMetrics) RecordConfirmedAmount(ctx context.Context, propertyType string, amount decimal.Decimal) {
	cents := amount.Mul(decimal.NewFromInt(100)).IntPart()
	fm.fundingAmountTotal.Add(ctx, cents,
		AttrPropertyType.String(propertyType),
	)
}

// RecordProjectPublished records a project going live.
func (fm *FundingMetrics) RecordProjectPublished(ctx context.Context, propertyType string) {
	fm.projectPublishedTotal.Inc(ctx,
		AttrPropertyType.String(propertyType),
	)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// StartPeriodicCollection starts periodic collection of gauge metrics.
// This is non-blocking; use Stop() to stop collection.
func (fm *FundingMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	fm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go fm.runPeriodicCollection(ctx, interval)
	})
}

func (fm *FundingMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	fm.collectGauges(ctx)

	for {
		select {
		case <-fm.stopChan:
			fm.logger.Info("Stopping periodic funding metrics collection")
			return
		case <-ctx.Done():
			fm.logger.Info("Context cancelled, stopping periodic funding metrics collection")
			return
		case <-ticker.C:
			fm.collectGauges(ctx)
		}
	}
}

func (fm *FundingMetrics) collectGauges(ctx context.Context) {
	if fm.provider == nil {
		fm.logger.Debug("No funding provider configured, skipping gauge collection")
		return
	}

	pending, err := fm.provider.CountPendingInvestments(ctx)
	if err != nil {
		fm.logger.Warn("Failed to count pending investments", zap.Error(err))
	} else {
		fm.pendingInvestments.Record(ctx, pending)
	}

	byStatus, err := fm.provider.CountProjectsByStatus(ctx)
	if err != nil {
		fm.logger.Warn("Failed to count projects by status", zap.Error(err))
		return
	}
	for status, count := range byStatus {
		fm.projectsByStatus.Record(ctx, count,
			AttrProjectStatus.String(status),
		)
	}
}

// Stop stops the periodic collection.
func (fm *FundingMetrics) Stop() {
	fm.stopOnce.Do(func() {
		close(fm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewFundingMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
