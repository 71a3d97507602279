package insight

import (
	"fmt"
	"math"
	"strings"

	"github.com/de-tools/queue-atlas/pkg/models/domain"
)

// Signals is everything the engines read; nothing is computed from raw data here.
type Signals struct {
	Period   domain.TimePeriod
	KPIs     domain.KpiSnapshot
	Trends   []domain.TrendResult
	Patterns domain.PatternSummary
}

func (s Signals) trend(metric domain.TrendMetric) float64 {
	for _, t := range s.Trends {
		if t.Metric == metric {
			return t.PercentChange
		}
	}
	return 0
}

func (s Signals) bucketed() bool {
	return s.Patterns.BucketKind != "" && s.Patterns.BucketKind != domain.BucketNone
}

func signedPct(v float64) string {
	if v > 0 {
		return fmt.Sprintf("+%.0f%%", v)
	}
	return fmt.Sprintf("%.0f%%", v)
}

func movement(v float64) string {
	switch {
	case v > 0:
		return fmt.Sprintf("up %.0f%%", v)
	case v < 0:
		return fmt.Sprintf("down %.0f%%", math.Abs(v))
	default:
		return "unchanged"
	}
}

// contextPhrase is the context label in a form that can follow a noun or a verb.
func contextPhrase(p domain.TimePeriod) string {
	switch p {
	case domain.PeriodSixMonths:
		return "over " + p.ContextLabel()
	case domain.PeriodDay, domain.PeriodWeek, domain.PeriodMonth, domain.PeriodYear:
		return p.ContextLabel()
	default:
		return "in " + p.ContextLabel()
	}
}

// replacer expands the shared placeholders; metric-specific ones are layered on top.
func (s Signals) replacer(extra ...string) *strings.Replacer {
	wait := s.trend(domain.MetricWaitTime)
	volume := s.trend(domain.MetricTransactionVolume)
	abandon := s.trend(domain.MetricAbandonment)

	pairs := []string{
		"{context}", contextPhrase(s.Period),
		"{peakDay}", s.Patterns.PeakDay,
		"{peakCount}", fmt.Sprintf("%d", s.Patterns.PeakDayCount),
		"{worstDay}", s.Patterns.WorstDay,
		"{worstWait}", fmt.Sprintf("%.0f", s.Patterns.WorstDayWait),
		"{topBucket}", s.Patterns.TopBucketLabel,
		"{topBucketCount}", fmt.Sprintf("%d", s.Patterns.TopBucketCount),
		"{waitTrend}", signedPct(wait),
		"{waitMovement}", movement(wait),
		"{volumeTrend}", signedPct(volume),
		"{volumeMovement}", movement(volume),
		"{abandonTrend}", signedPct(abandon),
		"{sla}", fmt.Sprintf("%.0f", s.KPIs.SLACompliancePct),
	}
	return strings.NewReplacer(append(extra, pairs...)...)
}

func (s Signals) metricReplacer(rule MetricRule) *strings.Replacer {
	value := rule.Value(s.KPIs)
	trend := s.trend(rule.Metric)
	return s.replacer(
		"{value}", fmt.Sprintf(rule.Format, value),
		"{trend}", signedPct(trend),
		"{absTrend}", fmt.Sprintf("%.0f%%", math.Abs(trend)),
		"{movement}", movement(trend),
	)
}

func (s Signals) grade(rule MetricRule) Grade {
	if rule.Missing != nil && rule.Missing(s.KPIs) {
		return GradeNoData
	}
	return rule.Classify(rule.Value(s.KPIs), s.trend(rule.Metric))
}
