package service

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newPackageService(t *testing.T) (sqlmock.Sqlmock, *PackageService, func()) {
	conn, mock, db := setupMockDB(t)
	svc := NewPackageService(db, newTestRecorder(), zap.NewNop())
	return mock, svc, func() { conn.Close() }
}

func TestPackageList(t *testing.T) {
	mock, svc, closeDB := newPackageService(t)
	defer closeDB()

	rows := sqlmock.NewRows(packageColumns()).
		AddRow(1, "Basic", "Basic package with limited features.", 50, 2).
		AddRow(2, "Premium", "Premium package with all features included.", 150, 0)
	mock.ExpectQuery(`SELECT \* FROM "packages"`).WillReturnRows(rows)
	expectStandaloneAuditInsert(mock)

	packages, err := svc.List(9)
	require.NoError(t, err)
	assert.Len(t, packages, 2)
	assert.Equal(t, "Basic", packages[0].PackageName)
	assert.Equal(t, 2, packages[0].SubscriberCount)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPackageGet_NotFound(t *testing.T) {
	mock, svc, closeDB := newPackageService(t)
	defer closeDB()

	mock.ExpectQuery(`SELECT \* FROM "packages"`).
		WillReturnRows(sqlmock.NewRows(packageColumns()))

	_, err := svc.Get(9, 42)
	assert.True(t, errors.Is(err, ErrNotFound))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPackageCreate(t *testing.T) {
	mock, svc, closeDB := newPackageService(t)
	defer closeDB()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "packages"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "packages"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	expectAuditInsert(mock)
	mock.ExpectCommit()

	pkg, err := svc.Create(9, "Family", "Shared plan for up to five lines.", 120)
	require.NoError(t, err)
	assert.Equal(t, uint(5), pkg.ID)
	assert.Equal(t, 0, pkg.SubscriberCount)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPackageCreate_DuplicateName(t *testing.T) {
	mock, svc, closeDB := newPackageService(t)
	defer closeDB()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "packages"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, err := svc.Create(9, "Basic", "", 50)
	assert.True(t, errors.Is(err, ErrConflict))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPackageUpdate(t *testing.T) {
	mock, svc, closeDB := newPackageService(t)
	defer closeDB()

	mock.ExpectQuery(`SELECT \* FROM "packages"`).
		WillReturnRows(sqlmock.NewRows(packageColumns()).
			AddRow(3, "Standard", "Standard package with additional features.", 100, 4))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "packages" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectAuditInsert(mock)
	mock.ExpectCommit()

	newPrice := 110
	pkg, err := svc.Update(9, 3, PackageUpdate{MonthlyPrice: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, 110, pkg.MonthlyPrice)
	// Name untouched by design.
	assert.Equal(t, "Standard", pkg.PackageName)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPackageUpdate_NotFound(t *testing.T) {
	mock, svc, closeDB := newPackageService(t)
	defer closeDB()

	mock.ExpectQuery(`SELECT \* FROM "packages"`).
		WillReturnRows(sqlmock.NewRows(packageColumns()))

	desc := "gone"
	_, err := svc.Update(9, 404, PackageUpdate{Description: &desc})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestPackageDelete(t *testing.T) {
	mock, svc, closeDB := newPackageService(t)
	defer closeDB()

	mock.ExpectQuery(`SELECT \* FROM "packages"`).
		WillReturnRows(sqlmock.NewRows(packageColumns()).
			AddRow(4, "VIP", "VIP package with exclusive benefits.", 200, 0))
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "packages"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectAuditInsert(mock)
	mock.ExpectCommit()

	err := svc.Delete(9, 4)
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPackageDelete_WithSubscribers(t *testing.T) {
	mock, svc, closeDB := newPackageService(t)
	defer closeDB()

	mock.ExpectQuery(`SELECT \* FROM "packages"`).
		WillReturnRows(sqlmock.NewRows(packageColumns()).
			AddRow(4, "VIP", "VIP package with exclusive benefits.", 200, 3))

	err := svc.Delete(9, 4)
	assert.True(t, errors.Is(err, ErrConflict))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPackageCreate_AuditFailureRollsBack(t *testing.T) {
	mock, svc, closeDB := newPackageService(t)
	defer closeDB()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "packages"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "packages"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(6))
	mock.ExpectQuery(`INSERT INTO "audit_logs"`).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := svc.Create(9, "Family", "", 120)
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}
