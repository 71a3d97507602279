package insight

import (
	"math"

	"github.com/de-tools/queue-atlas/pkg/models/domain"
)

// Grade is the outcome of classifying a metric value together with its trend.
type Grade int

const (
	GradeStable Grade = iota
	GradeCritical
	GradeHigh
	GradeGood
	GradeRising
	GradeImproving
	GradeNoData
)

func (g Grade) Severity() domain.Severity {
	switch g {
	case GradeCritical:
		return domain.SeverityCritical
	case GradeHigh, GradeRising:
		return domain.SeverityWarning
	case GradeGood, GradeImproving:
		return domain.SeverityPositive
	default:
		return domain.SeverityInfo
	}
}

// Upper matches when value > Value and trend > Trend.
type Upper struct {
	Value float64
	Trend float64
}

// Lower matches when value < Value and trend < Trend.
type Lower struct {
	Value float64
	Trend float64
}

var (
	anyTrendUp   = math.Inf(-1)
	anyTrendDown = math.Inf(1)
	disabledUp   = Upper{Value: math.Inf(1), Trend: math.Inf(1)}
)

func (u Upper) match(value, trend float64) bool { return value > u.Value && trend > u.Trend }
func (l Lower) match(value, trend float64) bool { return value < l.Value && trend < l.Trend }

// MetricRule is one row of the threshold table plus the wording attached to each grade.
type MetricRule struct {
	Metric     domain.TrendMetric
	Critical   Upper
	Warning    Upper
	Good       Lower
	Escalate   float64 // trend above which the moderate band escalates
	Deescalate float64 // trend below which the moderate band de-escalates
	// Missing reports that the snapshot carries no samples for the metric.
	Missing func(domain.KpiSnapshot) bool

	Value   func(domain.KpiSnapshot) float64
	Format  string // fmt verb for the rounded value
	Insight map[Grade]string
	Actions map[Grade][]string
}

// Classify applies the rule's thresholds in order: critical, warning, good,
// then trend escalation inside the moderate band.
func (r MetricRule) Classify(value, trend float64) Grade {
	switch {
	case r.Critical.match(value, trend):
		return GradeCritical
	case r.Warning.match(value, trend):
		return GradeHigh
	case r.Good.match(value, trend):
		return GradeGood
	case trend > r.Escalate:
		return GradeRising
	case trend < r.Deescalate:
		return GradeImproving
	default:
		return GradeStable
	}
}

// DefaultRules returns the canonical threshold table in narrative order.
func DefaultRules() []MetricRule {
	return []MetricRule{waitTimeRule(), abandonmentRule(), volumeRule()}
}

func waitTimeRule() MetricRule {
	return MetricRule{
		Metric:     domain.MetricWaitTime,
		Critical:   Upper{Value: 20, Trend: 10},
		Warning:    Upper{Value: 20, Trend: anyTrendUp},
		Good:       Lower{Value: 10, Trend: anyTrendDown},
		Escalate:   0,
		Deescalate: -5,
		Missing:    func(k domain.KpiSnapshot) bool { return k.WorstDay == "" },
		Value:      func(k domain.KpiSnapshot) float64 { return k.AvgWaitMinutes },
		Format:     "%.0f",
		Insight:    waitTimeInsights,
		Actions:    waitTimeActions,
	}
}

func abandonmentRule() MetricRule {
	return MetricRule{
		Metric:     domain.MetricAbandonment,
		Critical:   Upper{Value: 10, Trend: 5},
		Warning:    Upper{Value: 10, Trend: anyTrendUp},
		Good:       Lower{Value: 3, Trend: anyTrendDown},
		Escalate:   3,
		Deescalate: -2,
		Value:      func(k domain.KpiSnapshot) float64 { return k.AbandonmentRatePct },
		Format:     "%.1f",
		Insight:    abandonmentInsights,
		Actions:    abandonmentActions,
	}
}

// Volume has no bad pole: high demand is the warning grade and a decline on a
// small base is the good grade. The moderate band never escalates.
func volumeRule() MetricRule {
	return MetricRule{
		Metric:     domain.MetricTransactionVolume,
		Critical:   disabledUp,
		Warning:    Upper{Value: 3000, Trend: 15},
		Good:       Lower{Value: 1000, Trend: -10},
		Escalate:   math.Inf(1),
		Deescalate: math.Inf(-1),
		Value:      func(k domain.KpiSnapshot) float64 { return float64(k.TotalTransactions) },
		Format:     "%.0f",
		Insight:    volumeInsights,
		Actions:    volumeActions,
	}
}
