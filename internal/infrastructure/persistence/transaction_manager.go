package persistence

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/terravest/backend/internal/application/funding"
)

// GormTransactionManager implements funding.TransactionManager by
// running the unit of work inside a single database transaction, with
// repositories bound to the transactional connection.
type GormTransactionManager struct {
	db            *Database
	overfundRatio decimal.Decimal
	maxRetries    int
}

// NewGormTransactionManager creates a new GormTransactionManager. The
// overfund ratio and retry bound are handed to the per-transaction
// project repository.
func NewGormTransactionManager(db *Database, overfundRatio decimal.Decimal, maxRetries int) *GormTransactionManager {
	return &GormTransactionManager{db: db, overfundRatio: overfundRatio, maxRetries: maxRetries}
}

// Execute runs fn within a transaction. Any error from fn rolls the
// transaction back; a nil return commits it.
func (m *GormTransactionManager) Execute(ctx context.Context, fn func(repos funding.Repositories) error) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		scoped := tx.WithContext(ctx)
		return fn(funding.Repositories{
			Projects:    NewGormProjectRepository(scoped, m.overfundRatio, m.maxRetries),
			Investments: NewGormInvestmentRepository(scoped),
		})
	})
}

// Ensure GormTransactionManager implements funding.TransactionManager
var _ funding.TransactionManager = (*GormTransactionManager)(nil)
