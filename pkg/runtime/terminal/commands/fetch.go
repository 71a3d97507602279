package commands

import (
	"context"
	"fmt"
	"net/http"

	"github.com/de-tools/queue-atlas/pkg/archive"
	"github.com/de-tools/queue-atlas/pkg/metrics"
	"github.com/de-tools/queue-atlas/pkg/models/domain"
	"github.com/de-tools/queue-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/queue-atlas/pkg/services/analytics"
	"github.com/de-tools/queue-atlas/pkg/services/config"
	"github.com/de-tools/queue-atlas/pkg/services/fetch"
	"github.com/de-tools/queue-atlas/pkg/services/report"
	"github.com/de-tools/queue-atlas/pkg/store/duckdb"
	duckdbmetrics "github.com/de-tools/queue-atlas/pkg/store/duckdb/metrics"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const (
	SourceHTTP  = "http"
	SourceStore = "store"
)

type FetchCmd struct {
	globals     *Globals
	departments []string
	period      string
	source      string
	format      string
	analyzer    *analytics.Analyzer
	reporter    *export.Reporter
}

func NewFetchCmd(globals *Globals, analyzer *analytics.Analyzer, reporter *export.Reporter) *cobra.Command {
	fc := &FetchCmd{globals: globals, analyzer: analyzer, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch department histories and report on them",
		RunE:  fc.run,
	}

	cmd.Flags().StringSliceVar(&fc.departments, "departments", nil, "Comma separated department ids (default: all)")
	cmd.Flags().StringVar(&fc.period, "period", "month", "Period: day, week, month, 6months or year")
	cmd.Flags().StringVar(&fc.source, "source", "", "History source: http or store (default from settings)")
	cmd.Flags().StringVar(&fc.format, "format", FormatText, "Output format: text or json")

	return cmd
}

func (fc *FetchCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := zerolog.Ctx(ctx)

	settings, err := fc.globals.Settings()
	if err != nil {
		return err
	}
	registry, err := fc.globals.Registry(settings)
	if err != nil {
		return err
	}

	sourceName := fc.source
	if sourceName == "" {
		sourceName = settings.Fetch.Source
	}
	source, closeSource, err := openSource(sourceName, settings)
	if err != nil {
		return err
	}
	defer closeSource()

	m := metrics.New(nil)
	deps := report.Dependencies{
		Registry: registry,
		Fetcher: fetch.NewFetcher(source, m, fetch.Config{
			SourceName:  sourceName,
			Concurrency: settings.Fetch.Concurrency,
			Timeout:     settings.Fetch.Timeout,
		}),
		Analyzer: fc.analyzer,
		Metrics:  m,
	}
	if settings.Archive.Bucket != "" {
		archiver, err := newArchiver(ctx, settings.Archive)
		if err != nil {
			return err
		}
		deps.Archiver = archiver
	}

	result, err := report.NewService(deps).Generate(ctx, fc.departments, domain.ParsePeriod(fc.period))
	if err != nil {
		return fmt.Errorf("failed to generate reports: %w", err)
	}
	for _, id := range result.Degraded {
		logger.Warn().Str("department", id).Msg("history unavailable, report uses zero values")
	}

	return render(fc.reporter, fc.format, result.Reports)
}

func openSource(name string, settings *config.Settings) (fetch.Source, func(), error) {
	switch name {
	case SourceHTTP:
		return fetch.NewHTTPSource(&http.Client{}), func() {}, nil
	case SourceStore:
		db, err := duckdb.NewDB(duckdb.Settings{DbPath: settings.Store.Path})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open store: %w", err)
		}
		store, err := duckdbmetrics.NewStore(db)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return fetch.NewStoreSource(store, nil), func() { _ = db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported source %q, expected %s or %s", name, SourceHTTP, SourceStore)
	}
}

func newArchiver(ctx context.Context, s config.ArchiveSettings) (archive.Archiver, error) {
	archiver, err := archive.New(ctx, s.Bucket, s.Prefix, s.Profile, s.Region)
	if err != nil {
		return nil, fmt.Errorf("failed to configure report archive: %w", err)
	}
	return archiver, nil
}
