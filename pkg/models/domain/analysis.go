package domain

import "time"

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityPositive Severity = "positive"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

type TrendMetric string

const (
	MetricWaitTime          TrendMetric = "waitTime"
	MetricAbandonment       TrendMetric = "abandonment"
	MetricTransactionVolume TrendMetric = "transactionVolume"
)

type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

type BucketKind string

const (
	BucketNone      BucketKind = "none"
	BucketDayOfWeek BucketKind = "dayOfWeek"
	BucketMonth     BucketKind = "month"
	BucketQuarter   BucketKind = "quarter"
)

type Variation string

const (
	VariationNone     Variation = "none"
	VariationLow      Variation = "low"
	VariationModerate Variation = "moderate"
	VariationHigh     Variation = "high"
)

// KpiSnapshot is derived on every request and never persisted.
type KpiSnapshot struct {
	TotalTransactions  uint
	TotalCanceled      uint
	AvgWaitMinutes     float64
	AvgServiceMinutes  float64 // estimated from wait time, not measured
	AbandonmentRatePct float64
	SLACompliancePct   float64
	PeakDay            string
	PeakDayCount       uint
	WorstDay           string
	WorstDayWait       float64
	DaysCovered        int
}

type TrendResult struct {
	Metric        TrendMetric
	PercentChange float64 // rounded to whole percent
	Direction     Direction
}

type Bucket struct {
	Label string
	Count uint
}

type PatternSummary struct {
	PeakDay        string
	PeakDayCount   uint
	WorstDay       string
	WorstDayWait   float64
	BucketKind     BucketKind
	TopBucketLabel string
	TopBucketCount uint
	Buckets        []Bucket
	Variation      Variation
}

// Narrative is one graded insight or recommendation line.
type Narrative struct {
	Severity Severity
	Text     string
}

// AnalysisReport is everything computed for one department and period.
type AnalysisReport struct {
	ID                  string
	Department          string
	Period              TimePeriod
	GeneratedAt         time.Time
	KPIs                KpiSnapshot
	Trends              []TrendResult
	Patterns            PatternSummary
	Insights            []Narrative
	Recommendations     []Narrative
	CancellationReasons []CancellationReason
	Notes               []string
}

// Trend returns the result for metric, or a zero trend when absent.
func (r AnalysisReport) Trend(metric TrendMetric) TrendResult {
	for _, t := range r.Trends {
		if t.Metric == metric {
			return t
		}
	}
	return TrendResult{Metric: metric, Direction: DirectionUp}
}
