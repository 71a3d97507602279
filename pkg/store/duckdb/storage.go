package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const DailyMetricsSchema = `
	CREATE TABLE IF NOT EXISTS daily_metrics (
		department VARCHAR NOT NULL,
		day DATE NOT NULL,
		transaction_count BIGINT NOT NULL DEFAULT 0,
		avg_wait_minutes DOUBLE NOT NULL DEFAULT 0,
		has_wait BOOLEAN NOT NULL DEFAULT FALSE,
		canceled_count BIGINT NOT NULL DEFAULT 0,
		PRIMARY KEY (department, day)
	);
`

const CancellationReasonsSchema = `
	CREATE TABLE IF NOT EXISTS cancellation_reasons (
		department VARCHAR NOT NULL,
		day DATE NOT NULL,
		reason VARCHAR NOT NULL,
		count BIGINT NOT NULL DEFAULT 0,
		PRIMARY KEY (department, day, reason)
	);
`

const SyncStateSchema = `
	CREATE TABLE IF NOT EXISTS sync_state (
		department VARCHAR NOT NULL PRIMARY KEY,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		last_synced_at TIMESTAMP NULL,
		last_error VARCHAR NULL
	);
`

var bootQueries = []string{
	DailyMetricsSchema,
	CancellationReasonsSchema,
	SyncStateSchema,
}

type Settings struct {
	DbPath string
}

func NewDB(settings Settings) (*sql.DB, error) {
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", settings.DbPath), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return sql.OpenDB(c), nil
}
