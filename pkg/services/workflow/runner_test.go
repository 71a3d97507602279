package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/de-tools/queue-atlas/pkg/metrics"
	"github.com/de-tools/queue-atlas/pkg/models/domain"
	"github.com/de-tools/queue-atlas/pkg/models/store"
	"github.com/de-tools/queue-atlas/pkg/store/duckdb"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type sourceFunc func(ctx context.Context, department domain.Department, period domain.TimePeriod) (domain.Dataset, error)

func (f sourceFunc) Fetch(ctx context.Context, department domain.Department, period domain.TimePeriod) (domain.Dataset, error) {
	return f(ctx, department, period)
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Add(ctx context.Context, department string, records []store.DailyMetricRecord) error {
	return m.Called(ctx, department, records).Error(0)
}

func (m *mockStore) AddCancellationReasons(ctx context.Context, department string, records []store.CancellationReasonRecord) error {
	return m.Called(ctx, department, records).Error(0)
}

func (m *mockStore) ClearCancellationReasons(ctx context.Context, department string, startDay, endDay time.Time) error {
	return m.Called(ctx, department, startDay, endDay).Error(0)
}

func (m *mockStore) GetDailyMetrics(ctx context.Context, department string, startDay, endDay time.Time) ([]store.DailyMetricRecord, error) {
	args := m.Called(ctx, department, startDay, endDay)
	return args.Get(0).([]store.DailyMetricRecord), args.Error(1)
}

func (m *mockStore) GetCancellationReasons(ctx context.Context, department string, startDay, endDay time.Time) ([]store.ReasonTotal, error) {
	args := m.Called(ctx, department, startDay, endDay)
	return args.Get(0).([]store.ReasonTotal), args.Error(1)
}

func (m *mockStore) ListDepartments(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

type mockStateStore struct {
	mock.Mock
}

func (m *mockStateStore) ListSyncStates(ctx context.Context) ([]store.SyncState, error) {
	args := m.Called(ctx)
	return args.Get(0).([]store.SyncState), args.Error(1)
}

func (m *mockStateStore) CreateSyncState(ctx context.Context, department string) (*store.SyncState, error) {
	args := m.Called(ctx, department)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.SyncState), args.Error(1)
}

func (m *mockStateStore) RecordSuccess(ctx context.Context, department string, syncedAt time.Time) error {
	return m.Called(ctx, department, syncedAt).Error(0)
}

func (m *mockStateStore) RecordFailure(ctx context.Context, department string, syncErr error) error {
	return m.Called(ctx, department, syncErr).Error(0)
}

func (m *mockStateStore) DeleteSyncState(ctx context.Context, department string) error {
	return m.Called(ctx, department).Error(0)
}

func inTx() interface{} {
	return mock.MatchedBy(func(ctx context.Context) bool {
		return duckdb.GetTransaction(ctx) != nil
	})
}

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func twoDays(context.Context, domain.Department, domain.TimePeriod) (domain.Dataset, error) {
	return domain.Dataset{
		Transactions:        []domain.DatePoint{{Date: "2024-03-02", Value: 8}, {Date: "2024-03-01", Value: 5}},
		WaitTimes:           []domain.DatePoint{{Date: "2024-03-01", Value: 12}},
		Canceled:            []domain.DatePoint{{Date: "2024-03-02", Value: 1}},
		CancellationReasons: []domain.CancellationReason{{Reason: "Late", Count: 1}},
	}, nil
}

func TestRunner_SyncOnce(t *testing.T) {
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlMock.ExpectBegin()
	sqlMock.ExpectCommit()

	s := new(mockStore)
	s.On("Add", inTx(), "licensing", []store.DailyMetricRecord{
		{Day: day(1), TransactionCount: 5, AvgWaitMinutes: 12, HasWait: true},
		{Day: day(2), TransactionCount: 8, CanceledCount: 1},
	}).Return(nil)
	s.On("ClearCancellationReasons", inTx(), "licensing", day(1), day(2)).Return(nil)
	s.On("AddCancellationReasons", inTx(), "licensing", []store.CancellationReasonRecord{
		{Day: day(2), Reason: "Late", Count: 1},
	}).Return(nil)

	m := metrics.New(nil)
	states := new(mockStateStore)
	states.On("RecordSuccess", inTx(), "licensing", mock.AnythingOfType("time.Time")).Return(nil)

	runner := NewRunner(domain.Department{ID: "licensing"}, Dependencies{
		DB:      db,
		Source:  sourceFunc(twoDays),
		Store:   s,
		States:  states,
		Metrics: m,
	}, RunnerConfig{Period: domain.PeriodMonth})

	synced, err := runner.SyncOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, synced)
	assert.Equal(t, float64(2), testutil.ToFloat64(m.SyncedDays.WithLabelValues("licensing")))
	s.AssertExpectations(t)
	states.AssertExpectations(t)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestRunner_SyncOnceRollsBack(t *testing.T) {
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlMock.ExpectBegin()
	sqlMock.ExpectRollback()

	s := new(mockStore)
	s.On("Add", inTx(), "licensing", mock.Anything).Return(errors.New("disk full"))

	runner := NewRunner(domain.Department{ID: "licensing"}, Dependencies{DB: db, Source: sourceFunc(twoDays), Store: s}, RunnerConfig{})

	_, err = runner.SyncOnce(context.Background())

	assert.ErrorContains(t, err, "disk full")
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestRunner_SyncOnceSkipsEmptyHistory(t *testing.T) {
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	empty := sourceFunc(func(context.Context, domain.Department, domain.TimePeriod) (domain.Dataset, error) {
		return domain.Dataset{}, nil
	})
	runner := NewRunner(domain.Department{ID: "licensing"}, Dependencies{DB: db, Source: empty, Store: new(mockStore)}, RunnerConfig{})

	synced, err := runner.SyncOnce(context.Background())

	require.NoError(t, err)
	assert.Zero(t, synced)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestRunner_SyncOnceFetchError(t *testing.T) {
	failing := sourceFunc(func(context.Context, domain.Department, domain.TimePeriod) (domain.Dataset, error) {
		return domain.Dataset{}, errors.New("portal down")
	})
	runner := NewRunner(domain.Department{ID: "licensing"}, Dependencies{Source: failing, Store: new(mockStore)}, RunnerConfig{})

	_, err := runner.SyncOnce(context.Background())

	assert.ErrorContains(t, err, "portal down")
}

func TestRunner_RunRecordsFailure(t *testing.T) {
	failing := sourceFunc(func(context.Context, domain.Department, domain.TimePeriod) (domain.Dataset, error) {
		return domain.Dataset{}, errors.New("portal down")
	})
	states := new(mockStateStore)
	recorded := make(chan struct{})
	states.On("RecordFailure", mock.Anything, "licensing", mock.Anything).
		Return(nil).
		Run(func(mock.Arguments) { close(recorded) }).
		Once()

	runner := NewRunner(domain.Department{ID: "licensing"},
		Dependencies{Source: failing, Store: new(mockStore), States: states},
		RunnerConfig{Interval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	go runner.Run(ctx)

	select {
	case <-recorded:
	case <-time.After(5 * time.Second):
		t.Fatal("failure was not recorded")
	}
	cancel()
	<-runner.Done()
	states.AssertExpectations(t)
}

func TestRunner_RunPublishesProgress(t *testing.T) {
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	sqlMock.ExpectBegin()
	sqlMock.ExpectCommit()

	s := new(mockStore)
	s.On("Add", inTx(), "licensing", mock.Anything).Return(nil)
	s.On("ClearCancellationReasons", inTx(), "licensing", day(1), day(2)).Return(nil)
	s.On("AddCancellationReasons", inTx(), "licensing", mock.Anything).Return(nil)

	runner := NewRunner(domain.Department{ID: "licensing"},
		Dependencies{DB: db, Source: sourceFunc(twoDays), Store: s},
		RunnerConfig{Interval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	go runner.Run(ctx)

	select {
	case p := <-runner.Progress():
		assert.Equal(t, 2, p.SyncedDays)
		assert.False(t, p.LastSyncedAt.IsZero())
	case <-time.After(5 * time.Second):
		t.Fatal("no progress published")
	}

	cancel()
	<-runner.Done()
	_, open := <-runner.Progress()
	assert.False(t, open)
}
