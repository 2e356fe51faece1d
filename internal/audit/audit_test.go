package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"verify-service/internal/db"
)

func TestDBRecorderRecord(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectExec("INSERT INTO verification_events").
		WithArgs("sess-1", "a@x.com", EventVerified).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := NewDBRecorder(&db.DB{DB: sqlDB})
	require.NoError(t, rec.Record(context.Background(), "sess-1", "a@x.com", EventVerified))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDBRecorderPropagatesError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectExec("INSERT INTO verification_events").
		WillReturnError(errors.New("connection reset"))

	rec := NewDBRecorder(&db.DB{DB: sqlDB})
	require.Error(t, rec.Record(context.Background(), "sess-1", "a@x.com", EventCreated))
}

func TestNopRecorder(t *testing.T) {
	require.NoError(t, NopRecorder{}.Record(context.Background(), "sess-1", "a@x.com", EventCreated))
}
