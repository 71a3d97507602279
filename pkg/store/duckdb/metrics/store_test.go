package metrics

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/de-tools/queue-atlas/pkg/models/store"
	"github.com/de-tools/queue-atlas/pkg/store/duckdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
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

	return &fixture{mock: mock, store: s}
}

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestNewStore(t *testing.T) {
	_, err := NewStore(nil)
	assert.Error(t, err)
}

func TestMetricsStore_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("success - add records", func(t *testing.T) {
		f := setupFixture(t)
		prep := f.mock.ExpectPrepare(regexp.QuoteMeta("INSERT OR REPLACE INTO daily_metrics"))
		prep.ExpectExec().
			WithArgs("licensing", day(1), int64(120), 12.5, true, int64(4)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		prep.ExpectExec().
			WithArgs("licensing", day(2), int64(90), 0.0, false, int64(0)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := f.store.Add(ctx, "licensing", []store.DailyMetricRecord{
			{Day: day(1), TransactionCount: 120, AvgWaitMinutes: 12.5, HasWait: true, CanceledCount: 4},
			{Day: day(2), TransactionCount: 90},
		})

		require.NoError(t, err)
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})

	t.Run("success - empty records", func(t *testing.T) {
		f := setupFixture(t)
		require.NoError(t, f.store.Add(ctx, "licensing", nil))
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})

	t.Run("uses the transaction from context", func(t *testing.T) {
		f := setupFixture(t)
		f.mock.ExpectBegin()
		f.mock.ExpectPrepare(regexp.QuoteMeta("INSERT OR REPLACE INTO cancellation_reasons")).
			ExpectExec().
			WithArgs("licensing", day(1), "no show", int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		f.mock.ExpectCommit()

		db := f.store.(*metricsStore).db
		tx, err := db.Begin()
		require.NoError(t, err)

		err = f.store.AddCancellationReasons(duckdb.WithTransaction(ctx, tx), "licensing", []store.CancellationReasonRecord{
			{Day: day(1), Reason: "no show", Count: 3},
		})
		require.NoError(t, err)
		require.NoError(t, tx.Commit())
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})

	t.Run("error - insert fails", func(t *testing.T) {
		f := setupFixture(t)
		f.mock.ExpectPrepare("INSERT OR REPLACE INTO daily_metrics").
			ExpectExec().
			WillReturnError(errors.New("constraint violation"))

		err := f.store.Add(ctx, "licensing", []store.DailyMetricRecord{{Day: day(1)}})

		assert.ErrorContains(t, err, "insert daily metric")
	})
}

func TestMetricsStore_GetDailyMetrics(t *testing.T) {
	ctx := context.Background()
	f := setupFixture(t)

	rows := sqlmock.NewRows([]string{"day", "transaction_count", "avg_wait_minutes", "has_wait", "canceled_count"}).
		AddRow(day(1), int64(120), 12.5, true, int64(4)).
		AddRow(day(2), int64(90), 0.0, false, int64(0))
	f.mock.ExpectQuery(regexp.QuoteMeta("FROM daily_metrics")).
		WithArgs("licensing", day(1), day(31)).
		WillReturnRows(rows)

	records, err := f.store.GetDailyMetrics(ctx, "licensing", day(1), day(31))

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, int64(120), records[0].TransactionCount)
	assert.True(t, records[0].HasWait)
	assert.Equal(t, day(2), records[1].Day)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestMetricsStore_GetCancellationReasons(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		f := setupFixture(t)
		f.mock.ExpectQuery(regexp.QuoteMeta("GROUP BY reason")).
			WithArgs("licensing", day(1), day(31)).
			WillReturnRows(sqlmock.NewRows([]string{"reason", "total"}).
				AddRow("no show", int64(9)).
				AddRow("left queue", int64(4)))

		totals, err := f.store.GetCancellationReasons(ctx, "licensing", day(1), day(31))

		require.NoError(t, err)
		assert.Equal(t, []store.ReasonTotal{{Reason: "no show", Count: 9}, {Reason: "left queue", Count: 4}}, totals)
	})

	t.Run("query error is wrapped", func(t *testing.T) {
		f := setupFixture(t)
		f.mock.ExpectQuery("FROM cancellation_reasons").WillReturnError(errors.New("boom"))

		_, err := f.store.GetCancellationReasons(ctx, "licensing", day(1), day(31))

		assert.ErrorContains(t, err, "query cancellation reasons: boom")
	})
}

func TestMetricsStore_ListDepartments(t *testing.T) {
	f := setupFixture(t)
	f.mock.ExpectQuery("SELECT DISTINCT department").
		WillReturnRows(sqlmock.NewRows([]string{"department"}).AddRow("licensing").AddRow("permits"))

	departments, err := f.store.ListDepartments(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"licensing", "permits"}, departments)
}

func TestMetricsStore_ClearCancellationReasons(t *testing.T) {
	f := setupFixture(t)
	f.mock.ExpectPrepare(regexp.QuoteMeta("DELETE FROM cancellation_reasons")).
		ExpectExec().
		WithArgs("licensing", day(1), day(31)).
		WillReturnResult(sqlmock.NewResult(0, 5))

	err := f.store.ClearCancellationReasons(context.Background(), "licensing", day(1), day(31))

	require.NoError(t, err)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}
