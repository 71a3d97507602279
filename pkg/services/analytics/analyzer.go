package analytics

import (
	"sort"
	"time"

	"github.com/de-tools/queue-atlas/pkg/models/domain"
	"github.com/de-tools/queue-atlas/pkg/services/insight"
	"github.com/google/uuid"
)

// Analyzer runs the report pipeline: normalize, KPIs, trends, patterns, narratives.
// It performs no I/O and keeps no state between calls.
type Analyzer struct {
	insights *insight.Engine
	now      func() time.Time
	newID    func() string
}

type Option func(*Analyzer)

func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(a *Analyzer) { a.newID = newID }
}

func WithInsightEngine(e *insight.Engine) Option {
	return func(a *Analyzer) { a.insights = e }
}

func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		insights: insight.NewEngine(),
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze builds the full report for one department's dataset.
func (a *Analyzer) Analyze(department string, period domain.TimePeriod, ds domain.Dataset) domain.AnalysisReport {
	series := Normalize(ds)
	kpis := ComputeKPIs(series)
	trends := ComputeTrends(series, period)
	patterns := ComputePatterns(series, kpis, period)

	signals := insight.Signals{
		Period:   period,
		KPIs:     kpis,
		Trends:   trends,
		Patterns: patterns,
	}

	return domain.AnalysisReport{
		ID:                  a.newID(),
		Department:          department,
		Period:              period,
		GeneratedAt:         a.now().UTC(),
		KPIs:                kpis,
		Trends:              trends,
		Patterns:            patterns,
		Insights:            a.insights.Insights(signals),
		Recommendations:     a.insights.Recommendations(signals),
		CancellationReasons: rankReasons(ds.CancellationReasons),
		Notes:               notes(series, kpis, period),
	}
}

// rankReasons orders reasons by count, highest first, and fills in missing percentages.
func rankReasons(reasons []domain.CancellationReason) []domain.CancellationReason {
	if len(reasons) == 0 {
		return []domain.CancellationReason{}
	}
	ranked := make([]domain.CancellationReason, len(reasons))
	copy(ranked, reasons)

	var total uint
	for _, r := range ranked {
		total += r.Count
	}
	for i := range ranked {
		if ranked[i].Percentage == 0 && total > 0 {
			ranked[i].Percentage = 100 * float64(ranked[i].Count) / float64(total)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	return ranked
}

func notes(series []domain.DailyMetric, kpis domain.KpiSnapshot, period domain.TimePeriod) []string {
	out := []string{}
	if kpis.AvgServiceMinutes > 0 {
		out = append(out, ServiceEstimateCaveat)
	}
	if !period.Known() {
		out = append(out, "Unrecognized period; trends use an even 50/50 split.")
	}
	if len(series) < minTrendPoints {
		out = append(out, "Fewer than 3 days of data; trends are reported as 0%.")
	}
	return out
}
