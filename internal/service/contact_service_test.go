package service

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestContactSubmit(t *testing.T) {
	conn, mock, db := setupMockDB(t)
	defer conn.Close()
	svc := NewContactService(db, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "contact_submissions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectCommit()

	submission, err := svc.Submit("Dana Levi", "dana@example.com", "When does the VIP plan launch?")
	require.NoError(t, err)
	assert.Equal(t, uint(3), submission.ID)
	assert.Equal(t, "dana@example.com", submission.Email)
	assert.False(t, submission.SubmittedAt.IsZero())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactSubmit_StorageFailure(t *testing.T) {
	conn, mock, db := setupMockDB(t)
	defer conn.Close()
	svc := NewContactService(db, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "contact_submissions"`).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := svc.Submit("Dana Levi", "dana@example.com", "hello")
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}
