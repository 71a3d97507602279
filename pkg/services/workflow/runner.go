package workflow

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/de-tools/queue-atlas/pkg/adapters"
	"github.com/de-tools/queue-atlas/pkg/metrics"
	"github.com/de-tools/queue-atlas/pkg/models/domain"
	"github.com/de-tools/queue-atlas/pkg/models/store"
	"github.com/de-tools/queue-atlas/pkg/services/analytics"
	"github.com/de-tools/queue-atlas/pkg/services/fetch"
	"github.com/de-tools/queue-atlas/pkg/store/duckdb"
	duckdbmetrics "github.com/de-tools/queue-atlas/pkg/store/duckdb/metrics"
	duckdbworkflow "github.com/de-tools/queue-atlas/pkg/store/duckdb/workflow"
	"github.com/rs/zerolog"
)

// Dependencies are shared by the controller and all of its runners. States
// is optional; without it sync progress is not persisted.
type Dependencies struct {
	DB      *sql.DB
	Source  fetch.Source
	Store   duckdbmetrics.Store
	States  duckdbworkflow.Store
	Metrics *metrics.Metrics
}

// Runner copies one department's remote history into the local store on a
// fixed interval until its context is cancelled.
type Runner struct {
	department domain.Department
	deps       Dependencies
	done       chan struct{}
	progress   chan RunnerProgress
	config     RunnerConfig
}

type RunnerConfig struct {
	Period   domain.TimePeriod
	Interval time.Duration
}

type RunnerProgress struct {
	SyncedDays   int
	LastSyncedAt time.Time
}

func NewRunner(department domain.Department, deps Dependencies, config RunnerConfig) *Runner {
	if config.Interval <= 0 {
		config.Interval = time.Hour
	}
	if !config.Period.Known() {
		config.Period = domain.PeriodMonth
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New(nil)
	}
	return &Runner{
		department: department,
		deps:       deps,
		done:       make(chan struct{}),
		progress:   make(chan RunnerProgress, 100),
		config:     config,
	}
}

func (r *Runner) Done() <-chan struct{} {
	return r.done
}

func (r *Runner) Progress() <-chan RunnerProgress {
	return r.progress
}

func (r *Runner) Run(ctx context.Context) {
	logger := zerolog.Ctx(ctx).With().Str("department", r.department.ID).Logger()
	defer close(r.done)
	defer close(r.progress)

	for {
		synced, err := r.SyncOnce(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("department sync failed")
			if r.deps.States != nil && ctx.Err() == nil {
				if recErr := r.deps.States.RecordFailure(ctx, r.department.ID, err); recErr != nil {
					logger.Warn().Err(recErr).Msg("failed to record sync failure")
				}
			}
		} else {
			select {
			case r.progress <- RunnerProgress{SyncedDays: synced, LastSyncedAt: time.Now()}:
			default:
			}
		}

		select {
		case <-ctx.Done():
			logger.Info().Msg("department sync stopped")
			return
		case <-time.After(r.config.Interval):
		}
	}
}

// SyncOnce fetches the configured period and upserts it in one transaction.
// It returns the number of days written.
func (r *Runner) SyncOnce(ctx context.Context) (int, error) {
	ds, err := r.deps.Source.Fetch(ctx, r.department, r.config.Period)
	if err != nil {
		return 0, fmt.Errorf("fetch history: %w", err)
	}

	records := adapters.MapDomainHistoryToStore(analytics.Normalize(ds))
	if len(records) == 0 {
		return 0, nil
	}
	first, last := records[0].Day, records[len(records)-1].Day

	tx, err := r.deps.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to instantiate transaction: %w", err)
	}
	ctxWithTx := duckdb.WithTransaction(ctx, tx)

	if err := r.write(ctxWithTx, records, ds.CancellationReasons, first, last); err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit sync: %w", err)
	}

	r.deps.Metrics.SyncedDays.WithLabelValues(r.department.ID).Add(float64(len(records)))
	return len(records), nil
}

func (r *Runner) write(
	ctx context.Context,
	records []store.DailyMetricRecord,
	reasons []domain.CancellationReason,
	first, last time.Time,
) error {
	id := r.department.ID
	if err := r.deps.Store.Add(ctx, id, records); err != nil {
		return fmt.Errorf("store daily metrics: %w", err)
	}
	if err := r.deps.Store.ClearCancellationReasons(ctx, id, first, last); err != nil {
		return err
	}
	if err := r.deps.Store.AddCancellationReasons(ctx, id, adapters.MapDomainReasonsToStore(reasons, last)); err != nil {
		return fmt.Errorf("store cancellation reasons: %w", err)
	}
	if r.deps.States != nil {
		if err := r.deps.States.RecordSuccess(ctx, id, time.Now().UTC()); err != nil {
			return fmt.Errorf("record sync progress: %w", err)
		}
	}
	return nil
}
