package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/terravest/backend/internal/domain/investment"
	"github.com/terravest/backend/internal/domain/shared"
	"github.com/terravest/backend/internal/domain/shared/valueobject"
)

// newMockInvestmentRepository creates a GormInvestmentRepository with a mocked SQL connection
func newMockInvestmentRepository(t *testing.T) (*GormInvestmentRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormInvestmentRepository(gormDB), mock, mockDB
}

func investmentColumns() []string {
	return []string{
		"id", "created_at", "updated_at", "version",
		"project_id", "member_id", "amount", "status",
		"contract_ref", "note", "decided_at",
	}
}

func addInvestmentRow(rows *sqlmock.Rows, id, projectID, memberID uuid.UUID, status investment.InvestmentStatus) {
	now := time.Now()
	rows.AddRow(
		id, now, now, 1,
		projectID, memberID, decimal.NewFromInt(5000), status,
		"", "", nil,
	)
}

func TestGormInvestmentRepository_FindByID(t *testing.T) {
	t.Run("finds existing investment", func(t *testing.T) {
		repo, mock, mockDB := newMockInvestmentRepository(t)
		defer mockDB.Close()

		investmentID := uuid.New()
		rows := sqlmock.NewRows(investmentColumns())
		addInvestmentRow(rows, investmentID, uuid.New(), uuid.New(), investment.StatusPending)

		mock.ExpectQuery(`SELECT \* FROM "investments" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(investmentID, 1).
			WillReturnRows(rows)

		inv, err := repo.FindByID(context.Background(), investmentID)

		require.NoError(t, err)
		assert.Equal(t, investmentID, inv.ID)
		assert.Equal(t, investment.StatusPending, inv.Status)
	})

	t.Run("returns ErrNotFound for missing investment", func(t *testing.T) {
		repo, mock, mockDB := newMockInvestmentRepository(t)
		defer mockDB.Close()

		investmentID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "investments" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(investmentID, 1).
			WillReturnRows(sqlmock.NewRows(investmentColumns()))

		inv, err := repo.FindByID(context.Background(), investmentID)

		assert.Nil(t, inv)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormInvestmentRepository_FindByProject(t *testing.T) {
	t.Run("lists all investments for a project", func(t *testing.T) {
		repo, mock, mockDB := newMockInvestmentRepository(t)
		defer mockDB.Close()

		projectID := uuid.New()
		rows := sqlmock.NewRows(investmentColumns())
		addInvestmentRow(rows, uuid.New(), projectID, uuid.New(), investment.StatusPending)
		addInvestmentRow(rows, uuid.New(), projectID, uuid.New(), investment.StatusConfirmed)

		mock.ExpectQuery(`SELECT \* FROM "investments" WHERE project_id = \$1 ORDER BY created_at DESC LIMIT .*`).
			WillReturnRows(rows)

		investments, err := repo.FindByProject(context.Background(), projectID, nil, shared.DefaultFilter())

		require.NoError(t, err)
		assert.Len(t, investments, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("narrows to a single status", func(t *testing.T) {
		repo, mock, mockDB := newMockInvestmentRepository(t)
		defer mockDB.Close()

		projectID := uuid.New()
		rows := sqlmock.NewRows(investmentColumns())
		addInvestmentRow(rows, uuid.New(), projectID, uuid.New(), investment.StatusPending)

		mock.ExpectQuery(`SELECT \* FROM "investments" WHERE project_id = \$1 AND status = \$2 ORDER BY created_at DESC LIMIT .*`).
			WillReturnRows(rows)

		status := investment.StatusPending
		investments, err := repo.FindByProject(context.Background(), projectID, &status, shared.DefaultFilter())

		require.NoError(t, err)
		assert.Len(t, investments, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInvestmentRepository_FindByMember(t *testing.T) {
	t.Run("lists a member's investments", func(t *testing.T) {
		repo, mock, mockDB := newMockInvestmentRepository(t)
		defer mockDB.Close()

		memberID := uuid.New()
		rows := sqlmock.NewRows(investmentColumns())
		addInvestmentRow(rows, uuid.New(), uuid.New(), memberID, investment.StatusConfirmed)

		mock.ExpectQuery(`SELECT \* FROM "investments" WHERE member_id = \$1 ORDER BY created_at DESC LIMIT .*`).
			WillReturnRows(rows)

		investments, err := repo.FindByMember(context.Background(), memberID, nil, shared.DefaultFilter())

		require.NoError(t, err)
		assert.Len(t, investments, 1)
	})
}

func TestGormInvestmentRepository_Create(t *testing.T) {
	t.Run("inserts a pending investment", func(t *testing.T) {
		repo, mock, mockDB := newMockInvestmentRepository(t)
		defer mockDB.Close()

		inv := newStoredInvestment(t)

		mock.ExpectExec(`INSERT INTO "investments"`).
			WillReturnResult(sqlmock.NewResult(1, 1))

		err := repo.Create(context.Background(), inv)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps the unique index violation to ErrDuplicatePending", func(t *testing.T) {
		repo, mock, mockDB := newMockInvestmentRepository(t)
		defer mockDB.Close()

		inv := newStoredInvestment(t)

		mock.ExpectExec(`INSERT INTO "investments"`).
			WillReturnError(gorm.ErrDuplicatedKey)

		err := repo.Create(context.Background(), inv)

		assert.ErrorIs(t, err, investment.ErrDuplicatePending)
	})
}

func TestGormInvestmentRepository_SaveWithLock(t *testing.T) {
	t.Run("succeeds when version matches", func(t *testing.T) {
		repo, mock, mockDB := newMockInvestmentRepository(t)
		defer mockDB.Close()

		inv := newStoredInvestment(t)
		inv.IncrementVersion()

		mock.ExpectExec(`UPDATE "investments" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SaveWithLock(context.Background(), inv)

		assert.NoError(t, err)
	})

	t.Run("returns concurrency conflict when row changed", func(t *testing.T) {
		repo, mock, mockDB := newMockInvestmentRepository(t)
		defer mockDB.Close()

		inv := newStoredInvestment(t)
		inv.IncrementVersion()

		mock.ExpectExec(`UPDATE "investments" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SaveWithLock(context.Background(), inv)

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})
}

func TestGormInvestmentRepository_CountByProjectAndStatus(t *testing.T) {
	t.Run("counts pending investments", func(t *testing.T) {
		repo, mock, mockDB := newMockInvestmentRepository(t)
		defer mockDB.Close()

		projectID := uuid.New()
		mock.ExpectQuery(`SELECT count\(\*\) FROM "investments" WHERE project_id = \$1 AND status = \$2`).
			WithArgs(projectID, investment.StatusPending).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

		count, err := repo.CountByProjectAndStatus(context.Background(), projectID, investment.StatusPending)

		require.NoError(t, err)
		assert.Equal(t, int64(4), count)
	})
}

// newStoredInvestment builds a pending investment ready for persistence tests
func newStoredInvestment(t *testing.T) *investment.Investment {
	t.Helper()

	inv, err := investment.NewInvestment(uuid.New(), uuid.New(), valueobject.NewMoneyUSD(decimal.NewFromInt(5000)), "retirement allocation")
	require.NoError(t, err)
	return inv
}
