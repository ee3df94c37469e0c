package service

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"comm-service/internal/audit"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *gorm.DB) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 conn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:               gormlogger.Default.LogMode(gormlogger.Silent),
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)

	return conn, mock, db
}

func newTestRecorder() *audit.Recorder {
	return audit.NewRecorder(zap.NewNop())
}

// expectAuditInsert sets up the audit row insert that every audited
// operation performs on its open transaction.
func expectAuditInsert(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(`INSERT INTO "audit_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
}

// expectStandaloneAuditInsert covers read paths, where the audit row is the
// only write and gorm wraps it in its own transaction.
func expectStandaloneAuditInsert(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	expectAuditInsert(mock)
	mock.ExpectCommit()
}

func packageColumns() []string {
	return []string{"id", "package_name", "description", "monthly_price", "subscriber_count"}
}

func customerColumns() []string {
	return []string{"id", "first_name", "last_name", "phone_number", "email_address", "address", "package_id"}
}

func userColumns() []string {
	return []string{"id", "full_name", "username", "email", "phone_number", "password", "is_active", "is_logged_in"}
}
