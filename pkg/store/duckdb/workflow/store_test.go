package workflow

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/de-tools/queue-atlas/pkg/store/duckdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db    *sql.DB
	mock  sqlmock.Sqlmock
	store Store
}

func setupFixture(t *testing.T) *fixture {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	s, err := NewStore(db)
	require.NoError(t, err)

	return &fixture{db: db, mock: mock, store: s}
}

func TestNewStore(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := setupFixture(t)
		assert.NotNil(t, f.store)
	})

	t.Run("nil db", func(t *testing.T) {
		s, err := NewStore(nil)
		assert.Error(t, err)
		assert.Nil(t, s)
	})
}

func TestStore_CreateSyncState(t *testing.T) {
	f := setupFixture(t)
	f.mock.ExpectExec(regexp.QuoteMeta("INSERT OR IGNORE INTO sync_state")).
		WithArgs("licensing", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	state, err := f.store.CreateSyncState(context.Background(), "licensing")

	require.NoError(t, err)
	assert.Equal(t, "licensing", state.Department)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestStore_ListSyncStates(t *testing.T) {
	f := setupFixture(t)
	created := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	synced := time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC)

	f.mock.ExpectQuery("FROM sync_state").
		WillReturnRows(sqlmock.NewRows([]string{"department", "created_at", "last_synced_at", "last_error"}).
			AddRow("licensing", created, synced, nil).
			AddRow("permits", created, nil, "portal down"))

	states, err := f.store.ListSyncStates(context.Background())

	require.NoError(t, err)
	require.Len(t, states, 2)
	assert.Equal(t, "licensing", states[0].Department)
	require.NotNil(t, states[0].LastSyncedAt)
	assert.Equal(t, synced, *states[0].LastSyncedAt)
	assert.Nil(t, states[0].LastError)
	assert.Nil(t, states[1].LastSyncedAt)
	require.NotNil(t, states[1].LastError)
	assert.Equal(t, "portal down", *states[1].LastError)
}

func TestStore_RecordSuccess(t *testing.T) {
	ctx := context.Background()
	synced := time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC)

	t.Run("uses the transaction from context", func(t *testing.T) {
		f := setupFixture(t)
		f.mock.ExpectBegin()
		f.mock.ExpectExec(regexp.QuoteMeta("UPDATE sync_state SET last_synced_at")).
			WithArgs(synced, "licensing").
			WillReturnResult(sqlmock.NewResult(0, 1))
		f.mock.ExpectCommit()

		tx, err := f.db.Begin()
		require.NoError(t, err)
		require.NoError(t, f.store.RecordSuccess(duckdb.WithTransaction(ctx, tx), "licensing", synced))
		require.NoError(t, tx.Commit())
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})

	t.Run("unknown department", func(t *testing.T) {
		f := setupFixture(t)
		f.mock.ExpectExec(regexp.QuoteMeta("UPDATE sync_state")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := f.store.RecordSuccess(ctx, "ghost", synced)

		assert.ErrorIs(t, err, ErrSyncStateNotFound)
	})
}

func TestStore_RecordFailure(t *testing.T) {
	f := setupFixture(t)
	f.mock.ExpectExec(regexp.QuoteMeta("UPDATE sync_state SET last_error")).
		WithArgs("portal down", "permits").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := f.store.RecordFailure(context.Background(), "permits", errors.New("portal down"))

	require.NoError(t, err)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestStore_DeleteSyncState(t *testing.T) {
	f := setupFixture(t)
	f.mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sync_state")).
		WithArgs("permits").
		WillReturnError(errors.New("locked"))

	err := f.store.DeleteSyncState(context.Background(), "permits")

	assert.ErrorContains(t, err, "delete sync state: locked")
}
