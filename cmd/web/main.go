package main

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/de-tools/queue-atlas/pkg/archive"
	"github.com/de-tools/queue-atlas/pkg/metrics"
	"github.com/de-tools/queue-atlas/pkg/models/domain"
	"github.com/de-tools/queue-atlas/pkg/server"
	"github.com/de-tools/queue-atlas/pkg/services/analytics"
	"github.com/de-tools/queue-atlas/pkg/services/config"
	"github.com/de-tools/queue-atlas/pkg/services/fetch"
	"github.com/de-tools/queue-atlas/pkg/services/report"
	"github.com/de-tools/queue-atlas/pkg/services/workflow"
	"github.com/de-tools/queue-atlas/pkg/store/duckdb"
	duckdbmetrics "github.com/de-tools/queue-atlas/pkg/store/duckdb/metrics"
	duckdbworkflow "github.com/de-tools/queue-atlas/pkg/store/duckdb/workflow"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Queue Atlas",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to atlas.yaml (defaults and ATLAS_* environment variables apply without it)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	settings, err := config.LoadSettings(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	registry, err := config.NewRegistry(settings.DepartmentsPath)
	if err != nil {
		return fmt.Errorf("failed to create department registry: %w", err)
	}

	departments, _ := registry.ListDepartments(ctx)
	logger.Info().Msgf("Departments found at `%s` successfully loaded.", settings.DepartmentsPath)
	for _, d := range departments {
		logger.Info().Msgf("ID: `%s`, Name: `%s`", d.ID, d.Name)
	}

	db, err := duckdb.NewDB(duckdb.Settings{
		DbPath: settings.Store.Path,
	})
	if err != nil {
		return fmt.Errorf("failed to create DuckDB instance: %w", err)
	}
	defer db.Close()

	metricsStore, err := duckdbmetrics.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create metrics store: %w", err)
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(promRegistry)

	httpSource := fetch.NewHTTPSource(&http.Client{Timeout: settings.Fetch.Timeout})
	var source fetch.Source = httpSource
	if settings.Fetch.Source == "store" {
		source = fetch.NewStoreSource(metricsStore, time.Now)
	}

	deps := report.Dependencies{
		Registry: registry,
		Fetcher: fetch.NewFetcher(source, m, fetch.Config{
			SourceName:  settings.Fetch.Source,
			Concurrency: settings.Fetch.Concurrency,
			Timeout:     settings.Fetch.Timeout,
		}),
		Analyzer: analytics.NewAnalyzer(),
		Metrics:  m,
	}
	if settings.Archive.Bucket != "" {
		archiver, err := archive.New(ctx, settings.Archive.Bucket, settings.Archive.Prefix,
			settings.Archive.Profile, settings.Archive.Region)
		if err != nil {
			return fmt.Errorf("failed to configure report archive: %w", err)
		}
		deps.Archiver = archiver
		logger.Info().Msgf("Archiving reports to s3://%s/%s", settings.Archive.Bucket, settings.Archive.Prefix)
	}

	syncStateStore, err := duckdbworkflow.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create sync state store: %w", err)
	}
	syncCtrl := workflow.NewController(registry, workflow.Dependencies{
		DB:      db,
		Source:  httpSource,
		Store:   metricsStore,
		States:  syncStateStore,
		Metrics: m,
	}, workflow.RunnerConfig{
		Period:   domain.ParsePeriod(settings.Sync.Period),
		Interval: settings.Sync.Interval,
	})
	defer syncCtrl.Stop()
	if err := syncCtrl.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize department sync: %w", err)
	}
	if settings.Sync.Enabled {
		if err := syncCtrl.StartAll(ctx); err != nil {
			return fmt.Errorf("failed to start department sync: %w", err)
		}
	}

	api := server.NewWebAPI(logger, server.Config{
		Addr:            net.JoinHostPort(settings.Server.Host, settings.Server.Port),
		ShutdownTimeout: settings.Server.ShutdownTimeout,
		Dependencies: server.Dependencies{
			Reports: report.NewService(deps),
			Sync:    syncCtrl,
			Metrics: m,
		},
	})

	return api.Start(ctx)
}
