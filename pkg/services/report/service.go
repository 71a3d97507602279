package report

import (
	"context"
	"fmt"

	"github.com/de-tools/queue-atlas/pkg/adapters"
	"github.com/de-tools/queue-atlas/pkg/archive"
	"github.com/de-tools/queue-atlas/pkg/metrics"
	"github.com/de-tools/queue-atlas/pkg/models/domain"
	"github.com/de-tools/queue-atlas/pkg/services/analytics"
	"github.com/de-tools/queue-atlas/pkg/services/config"
	"github.com/de-tools/queue-atlas/pkg/services/fetch"
	"github.com/rs/zerolog"
)

// CombinedDepartment names the merged report produced for multi-department requests.
const CombinedDepartment = "all"

type Service interface {
	Analyze(ctx context.Context, department string, period domain.TimePeriod, ds domain.Dataset) domain.AnalysisReport
	Generate(ctx context.Context, departmentIDs []string, period domain.TimePeriod) (*Result, error)
	ListDepartments(ctx context.Context) ([]domain.Department, error)
}

// Result holds one report per requested department, followed by the combined
// report when more than one department was requested.
type Result struct {
	Reports  []domain.AnalysisReport
	Degraded []string
}

type Dependencies struct {
	Registry config.Registry
	Fetcher  *fetch.Fetcher
	Analyzer *analytics.Analyzer
	Archiver archive.Archiver // optional
	Metrics  *metrics.Metrics
}

type service struct {
	deps Dependencies
}

func NewService(deps Dependencies) Service {
	if deps.Analyzer == nil {
		deps.Analyzer = analytics.NewAnalyzer()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New(nil)
	}
	return &service{deps: deps}
}

func (s *service) Analyze(
	ctx context.Context,
	department string,
	period domain.TimePeriod,
	ds domain.Dataset,
) domain.AnalysisReport {
	return s.publish(ctx, s.deps.Analyzer.Analyze(department, period, ds))
}

// publish counts and archives a finished report.
func (s *service) publish(ctx context.Context, report domain.AnalysisReport) domain.AnalysisReport {
	s.deps.Metrics.ReportsGenerated.WithLabelValues(report.Period.String()).Inc()
	s.archive(ctx, report)
	return report
}

func (s *service) Generate(
	ctx context.Context,
	departmentIDs []string,
	period domain.TimePeriod,
) (*Result, error) {
	departments, err := s.resolve(ctx, departmentIDs)
	if err != nil {
		return nil, err
	}
	if s.deps.Fetcher == nil {
		return nil, fmt.Errorf("no history source configured")
	}

	histories, err := s.deps.Fetcher.FetchAll(ctx, departments, period)
	if err != nil {
		return nil, fmt.Errorf("fetch histories: %w", err)
	}

	result := &Result{
		Reports:  make([]domain.AnalysisReport, 0, len(histories)+1),
		Degraded: []string{},
	}
	datasets := make([]domain.Dataset, 0, len(histories))
	for _, h := range histories {
		report := s.deps.Analyzer.Analyze(h.Department.ID, period, h.Dataset)
		if h.Degraded {
			result.Degraded = append(result.Degraded, h.Department.ID)
			report.Notes = append(report.Notes, fmt.Sprintf("History for %s could not be loaded; zero values are shown.", h.Department))
		}
		result.Reports = append(result.Reports, s.publish(ctx, report))
		datasets = append(datasets, h.Dataset)
	}

	if len(histories) > 1 {
		result.Reports = append(result.Reports, s.Analyze(ctx, CombinedDepartment, period, fetch.Merge(datasets...)))
	}
	return result, nil
}

func (s *service) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	return s.deps.Registry.ListDepartments(ctx)
}

// resolve maps ids to registry entries; no ids selects every department.
func (s *service) resolve(ctx context.Context, ids []string) ([]domain.Department, error) {
	if len(ids) == 0 {
		departments, err := s.deps.Registry.ListDepartments(ctx)
		if err != nil {
			return nil, fmt.Errorf("list departments: %w", err)
		}
		return departments, nil
	}

	departments := make([]domain.Department, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		d, err := s.deps.Registry.GetDepartment(ctx, id)
		if err != nil {
			return nil, err
		}
		departments = append(departments, d)
	}
	return departments, nil
}

func (s *service) archive(ctx context.Context, report domain.AnalysisReport) {
	if s.deps.Archiver == nil {
		return
	}
	logger := zerolog.Ctx(ctx)

	location, err := s.deps.Archiver.Archive(ctx, adapters.MapDomainReportToAPI(report))
	if err != nil {
		s.deps.Metrics.ArchiveFailures.Inc()
		logger.Error().Err(err).Str("report_id", report.ID).Msg("failed to archive report")
		return
	}
	logger.Debug().Str("location", location).Msg("report archived")
}
