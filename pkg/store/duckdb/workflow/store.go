package workflow

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/de-tools/queue-atlas/pkg/models/store"
	"github.com/de-tools/queue-atlas/pkg/store/duckdb"
)

var ErrSyncStateNotFound = errors.New("sync state not found")

// Store persists which departments are synced and how far they got, so
// runners can be resumed after a restart.
type Store interface {
	ListSyncStates(ctx context.Context) ([]store.SyncState, error)
	CreateSyncState(ctx context.Context, department string) (*store.SyncState, error)
	RecordSuccess(ctx context.Context, department string, syncedAt time.Time) error
	RecordFailure(ctx context.Context, department string, syncErr error) error
	DeleteSyncState(ctx context.Context, department string) error
}

type defaultStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &defaultStore{
		db: db,
	}, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *defaultStore) execer(ctx context.Context) execer {
	if tx := duckdb.GetTransaction(ctx); tx != nil {
		return tx
	}
	return s.db
}

func (s *defaultStore) ListSyncStates(ctx context.Context) ([]store.SyncState, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT department, created_at, last_synced_at, last_error
		FROM sync_state
		ORDER BY department`)
	if err != nil {
		return nil, fmt.Errorf("query sync states: %w", err)
	}
	defer rows.Close()

	states := make([]store.SyncState, 0)
	for rows.Next() {
		var (
			state    store.SyncState
			syncedAt sql.NullTime
			lastErr  sql.NullString
		)
		if err := rows.Scan(&state.Department, &state.CreatedAt, &syncedAt, &lastErr); err != nil {
			return nil, fmt.Errorf("scan sync state: %w", err)
		}
		if syncedAt.Valid {
			state.LastSyncedAt = &syncedAt.Time
		}
		if lastErr.Valid {
			state.LastError = &lastErr.String
		}
		states = append(states, state)
	}
	return states, rows.Err()
}

// CreateSyncState registers department; an existing state is kept as is.
func (s *defaultStore) CreateSyncState(ctx context.Context, department string) (*store.SyncState, error) {
	_, err := s.execer(ctx).ExecContext(ctx,
		`INSERT OR IGNORE INTO sync_state (department, created_at) VALUES (?, ?)`,
		department, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("create sync state: %w", err)
	}
	return &store.SyncState{Department: department}, nil
}

func (s *defaultStore) RecordSuccess(ctx context.Context, department string, syncedAt time.Time) error {
	return s.update(ctx, department,
		`UPDATE sync_state SET last_synced_at = ?, last_error = NULL WHERE department = ?`,
		syncedAt, department)
}

func (s *defaultStore) RecordFailure(ctx context.Context, department string, syncErr error) error {
	return s.update(ctx, department,
		`UPDATE sync_state SET last_error = ? WHERE department = ?`,
		syncErr.Error(), department)
}

func (s *defaultStore) DeleteSyncState(ctx context.Context, department string) error {
	_, err := s.execer(ctx).ExecContext(ctx, `DELETE FROM sync_state WHERE department = ?`, department)
	if err != nil {
		return fmt.Errorf("delete sync state: %w", err)
	}
	return nil
}

func (s *defaultStore) update(ctx context.Context, department, query string, args ...any) error {
	res, err := s.execer(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update sync state: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update sync state: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrSyncStateNotFound, department)
	}
	return nil
}
