package leaverequest_test

import (
	"context"
	"testing"
	"time"

	"go-leave/internal/leaverequest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func mockedRepo(t *testing.T) (leaverequest.Repository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return leaverequest.NewRepository(gdb), mock
}

// Pins the clash recount statement: the correlated count must keep the
// department-or-position predicate, skip terminal peers on both sides, and
// touch only the changed request plus rows overlapping its window.
func TestRecountClashes_StatementAndBindings(t *testing.T) {
	repo, mock := mockedRepo(t)

	companyID := "6b1f2a3c-9d4e-4f5a-8b6c-7d8e9f0a1b2c"
	requestID := "0a1b2c3d-4e5f-6a7b-8c9d-0e1f2a3b4c5d"
	start := time.Date(2026, time.September, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.September, 14, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(`(?s)UPDATE leave_requests lr` +
		`.*SET leave_clashes_count = \(` +
		`.*SELECT COUNT\(\*\)` +
		`.*peer\.id <> lr\.id` +
		`.*peer\.status NOT IN \('cancelled', 'rejected'\)` +
		`.*lr\.status NOT IN \('cancelled', 'rejected'\)` +
		`.*peer\.start_date <= lr\.end_date` +
		`.*peer\.end_date >= lr\.start_date` +
		`.*\(pe\.department_id = le\.department_id OR pe\.position_id = le\.position_id\)` +
		`.*WHERE lr\.company_id = \$1` +
		`.*\(lr\.id = \$2 OR \(lr\.start_date <= \$3 AND lr\.end_date >= \$4\)\)`).
		WithArgs(companyID, requestID, end, start).
		WillReturnResult(sqlmock.NewResult(0, 3))

	err := repo.RecountClashes(context.Background(), companyID, requestID, start, end)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
