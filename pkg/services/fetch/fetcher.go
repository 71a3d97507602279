package fetch

import (
	"context"
	"time"

	"github.com/de-tools/queue-atlas/pkg/metrics"
	"github.com/de-tools/queue-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultConcurrency = 4
	DefaultTimeout     = 10 * time.Second
)

type Config struct {
	SourceName  string
	Concurrency int
	Timeout     time.Duration
	Now         func() time.Time
}

// Fetcher loads several departments in parallel. A department whose fetch
// fails is reported as degraded with zero-filled history instead of failing
// the whole batch.
type Fetcher struct {
	source  Source
	config  Config
	metrics *metrics.Metrics
}

func NewFetcher(source Source, m *metrics.Metrics, config Config) *Fetcher {
	if config.Concurrency < 1 {
		config.Concurrency = DefaultConcurrency
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.SourceName == "" {
		config.SourceName = "http"
	}
	if m == nil {
		m = metrics.New(nil)
	}
	return &Fetcher{source: source, config: config, metrics: m}
}

// FetchAll returns one history per department in input order. It only errors
// when ctx is done.
func (f *Fetcher) FetchAll(
	ctx context.Context,
	departments []domain.Department,
	period domain.TimePeriod,
) ([]domain.DepartmentHistory, error) {
	results := make([]domain.DepartmentHistory, len(departments))

	g := new(errgroup.Group)
	g.SetLimit(f.config.Concurrency)

	for i, department := range departments {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			history, err := f.fetchOne(ctx, department, period)
			if err != nil {
				return err
			}
			results[i] = history
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (f *Fetcher) fetchOne(
	ctx context.Context,
	department domain.Department,
	period domain.TimePeriod,
) (domain.DepartmentHistory, error) {
	logger := zerolog.Ctx(ctx).With().Str("department", department.ID).Logger()

	fetchCtx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	started := time.Now()
	ds, err := f.source.Fetch(fetchCtx, department, period)
	f.metrics.FetchDuration.WithLabelValues(f.config.SourceName).Observe(time.Since(started).Seconds())

	if err == nil {
		return domain.DepartmentHistory{Department: department, Dataset: ds}, nil
	}
	if ctx.Err() != nil {
		return domain.DepartmentHistory{}, ctx.Err()
	}

	logger.Warn().Err(err).Str("period", period.String()).Msg("history fetch failed, using zero-filled data")
	f.metrics.FetchFailures.WithLabelValues(department.ID).Inc()

	return domain.DepartmentHistory{
		Department: department,
		Dataset:    ZeroFill(period, f.config.Now()),
		Degraded:   true,
		Err:        err,
	}, nil
}

// ZeroFill produces a dataset with a zero count for every day in the period's
// lookback window and no wait samples.
func ZeroFill(period domain.TimePeriod, now time.Time) domain.Dataset {
	start, end := Window(period, now)
	days := period.LookbackDays()

	ds := domain.Dataset{
		Transactions:        make([]domain.DatePoint, 0, days),
		WaitTimes:           []domain.DatePoint{},
		Canceled:            make([]domain.DatePoint, 0, days),
		CancellationReasons: []domain.CancellationReason{},
	}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		date := d.Format("2006-01-02")
		ds.Transactions = append(ds.Transactions, domain.DatePoint{Date: date})
		ds.Canceled = append(ds.Canceled, domain.DatePoint{Date: date})
	}
	return ds
}
