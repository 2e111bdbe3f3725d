// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"

	"gorm.io/gorm"
)

// GormFundingMetricsProvider implements FundingMetricsProvider using GORM.
// It queries the projects and investments tables directly for aggregates.
type GormFundingMetricsProvider struct {
	db *gorm.DB
}

// NewGormFundingMetricsProvider creates a new GormFundingMetricsProvider.
func NewGormFundingMetricsProvider(db *gorm.DB) *GormFundingMetricsProvider {
	return &GormFundingMetricsProvider{db: db}
}

// CountPendingInvestments returns the number of investments awaiting a decision.
func (p *GormFundingMetricsProvider) CountPendingInvestments(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("investments").
		Where("status = ?", "PENDING").
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CountProjectsByStatus returns the number of projects per lifecycle status.
func (p *GormFundingMetricsProvider) CountProjectsByStatus(ctx context.Context) (map[string]int64, error) {
	type result struct {
		Status string `gorm:"column:status"`
		Count  int64  `gorm:"column:count"`
	}

	var results []result
	err := p.db.WithContext(ctx).
		Table("projects").
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(results))
	for _, r := range results {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

// Ensure GormFundingMetricsProvider implements FundingMetricsProvider
var _ FundingMetricsProvider = (*GormFundingMetricsProvider)(nil)
