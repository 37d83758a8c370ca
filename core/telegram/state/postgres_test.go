package state

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockBackend(t *testing.T) (Backend, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresBackend(sqlx.NewDb(db, "postgres")), mock
}

func TestPostgresBackendSave(t *testing.T) {
	b, mock := newMockBackend(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO pending_states")).
		WithArgs(int64(7), "awaiting_amount:RUB_USD").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, b.Save(context.Background(), 7, "awaiting_amount:RUB_USD"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBackendTake(t *testing.T) {
	b, mock := newMockBackend(t)
	mock.ExpectQuery(regexp.QuoteMeta(queryTake)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"state"}).AddRow("awaiting_amount:RUB_USD"))
	mock.ExpectQuery(regexp.QuoteMeta(queryTake)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"state"}))

	st, ok, err := b.Take(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, State("awaiting_amount:RUB_USD"), st)

	st, ok, err = b.Take(context.Background(), 7)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, StateIdle, st)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBackendLoadAndDelete(t *testing.T) {
	b, mock := newMockBackend(t)
	mock.ExpectQuery(regexp.QuoteMeta(queryLoad)).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"state"}).AddRow("x"))
	mock.ExpectExec(regexp.QuoteMeta(queryDelete)).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	st, ok, err := b.Load(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, State("x"), st)

	require.NoError(t, b.Delete(context.Background(), 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBackendPropagatesErrors(t *testing.T) {
	b, mock := newMockBackend(t)
	boom := errors.New("connection reset")
	mock.ExpectQuery(regexp.QuoteMeta(queryTake)).
		WithArgs(int64(1)).
		WillReturnError(boom)

	s, err := NewStore(b)
	require.NoError(t, err)

	_, err = s.Take(context.Background(), 1)
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
