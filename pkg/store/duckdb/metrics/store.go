package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/de-tools/queue-atlas/pkg/models/store"
	"github.com/de-tools/queue-atlas/pkg/store/duckdb"
	"github.com/rs/zerolog"
)

// Store keeps per-department daily counters in DuckDB.
type Store interface {
	Add(ctx context.Context, department string, records []store.DailyMetricRecord) error
	AddCancellationReasons(ctx context.Context, department string, records []store.CancellationReasonRecord) error
	ClearCancellationReasons(ctx context.Context, department string, startDay, endDay time.Time) error
	GetDailyMetrics(ctx context.Context, department string, startDay, endDay time.Time) ([]store.DailyMetricRecord, error)
	GetCancellationReasons(ctx context.Context, department string, startDay, endDay time.Time) ([]store.ReasonTotal, error)
	ListDepartments(ctx context.Context) ([]string, error)
}

type metricsStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &metricsStore{db: db}, nil
}

type preparer interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

func (m *metricsStore) preparer(ctx context.Context) preparer {
	if tx := duckdb.GetTransaction(ctx); tx != nil {
		return tx
	}
	return m.db
}

func (m *metricsStore) Add(ctx context.Context, department string, records []store.DailyMetricRecord) error {
	if len(records) == 0 {
		return nil
	}

	stmt, err := m.preparer(ctx).PrepareContext(ctx, `
		INSERT OR REPLACE INTO daily_metrics (
			department, day, transaction_count, avg_wait_minutes, has_wait, canceled_count
		) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, record := range records {
		_, err = stmt.ExecContext(ctx,
			department,
			record.Day,
			record.TransactionCount,
			record.AvgWaitMinutes,
			record.HasWait,
			record.CanceledCount,
		)
		if err != nil {
			return fmt.Errorf("insert daily metric: %w", err)
		}
	}

	return nil
}

func (m *metricsStore) AddCancellationReasons(ctx context.Context, department string, records []store.CancellationReasonRecord) error {
	if len(records) == 0 {
		return nil
	}

	stmt, err := m.preparer(ctx).PrepareContext(ctx, `
		INSERT OR REPLACE INTO cancellation_reasons (department, day, reason, count)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, record := range records {
		if _, err := stmt.ExecContext(ctx, department, record.Day, record.Reason, record.Count); err != nil {
			return fmt.Errorf("insert cancellation reason: %w", err)
		}
	}

	return nil
}

// ClearCancellationReasons drops reason rows in [startDay, endDay] so a fresh
// period total can replace them.
func (m *metricsStore) ClearCancellationReasons(ctx context.Context, department string, startDay, endDay time.Time) error {
	stmt, err := m.preparer(ctx).PrepareContext(ctx, `
		DELETE FROM cancellation_reasons
		WHERE department = ? AND day >= ? AND day <= ?`)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, department, startDay, endDay); err != nil {
		return fmt.Errorf("clear cancellation reasons: %w", err)
	}
	return nil
}

// GetDailyMetrics returns the department's days in [startDay, endDay], oldest first.
func (m *metricsStore) GetDailyMetrics(ctx context.Context, department string, startDay, endDay time.Time) ([]store.DailyMetricRecord, error) {
	logger := zerolog.Ctx(ctx)
	query := `
		SELECT day, transaction_count, avg_wait_minutes, has_wait, canceled_count
		FROM daily_metrics
		WHERE department = ? AND day >= ? AND day <= ?
		ORDER BY day ASC
	`
	rows, err := m.db.QueryContext(ctx, query, department, startDay, endDay)
	if err != nil {
		return nil, fmt.Errorf("query daily metrics: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close daily metrics rows")
		}
	}(rows)

	records := make([]store.DailyMetricRecord, 0)
	for rows.Next() {
		var r store.DailyMetricRecord
		if err := rows.Scan(&r.Day, &r.TransactionCount, &r.AvgWaitMinutes, &r.HasWait, &r.CanceledCount); err != nil {
			return nil, fmt.Errorf("scan daily metric: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// GetCancellationReasons sums reasons over the range, most frequent first.
func (m *metricsStore) GetCancellationReasons(ctx context.Context, department string, startDay, endDay time.Time) ([]store.ReasonTotal, error) {
	query := `
		SELECT reason, SUM(count) AS total
		FROM cancellation_reasons
		WHERE department = ? AND day >= ? AND day <= ?
		GROUP BY reason
		ORDER BY total DESC, reason ASC
	`
	rows, err := m.db.QueryContext(ctx, query, department, startDay, endDay)
	if err != nil {
		return nil, fmt.Errorf("query cancellation reasons: %w", err)
	}
	defer rows.Close()

	totals := make([]store.ReasonTotal, 0)
	for rows.Next() {
		var r store.ReasonTotal
		if err := rows.Scan(&r.Reason, &r.Count); err != nil {
			return nil, fmt.Errorf("scan cancellation reason: %w", err)
		}
		totals = append(totals, r)
	}
	return totals, rows.Err()
}

func (m *metricsStore) ListDepartments(ctx context.Context) ([]string, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT DISTINCT department FROM daily_metrics ORDER BY department`)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()

	var departments []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}
