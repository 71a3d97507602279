package analytics

import (
	"fmt"
	"time"

	"github.com/de-tools/queue-atlas/pkg/models/domain"
)

// PlaceholderBucketLabel is reported when there is too little data to bucket.
const PlaceholderBucketLabel = "Consistent pattern"

const (
	highVariationCV     = 0.25
	moderateVariationCV = 0.10
)

type bucketing struct {
	kind      domain.BucketKind
	minPoints int
	slots     int
	slot      func(t time.Time) int
	label     func(slot int) string
}

var bucketings = map[domain.TimePeriod]bucketing{
	domain.PeriodMonth: {
		kind:      domain.BucketDayOfWeek,
		minPoints: 7,
		slots:     7,
		// Monday first
		slot:  func(t time.Time) int { return (int(t.Weekday()) + 6) % 7 },
		label: func(slot int) string { return time.Weekday((slot + 1) % 7).String() },
	},
	domain.PeriodSixMonths: {
		kind:      domain.BucketMonth,
		minPoints: 14,
		slots:     12,
		slot:      func(t time.Time) int { return int(t.Month()) - 1 },
		label:     func(slot int) string { return time.Month(slot + 1).String() },
	},
	domain.PeriodYear: {
		kind:      domain.BucketQuarter,
		minPoints: 30,
		slots:     4,
		slot:      func(t time.Time) int { return (int(t.Month()) - 1) / 3 },
		label:     func(slot int) string { return fmt.Sprintf("Q%d", slot+1) },
	},
}

// ComputePatterns buckets transaction volume according to the period and carries
// peak and worst day over from the KPI snapshot.
func ComputePatterns(series []domain.DailyMetric, kpi domain.KpiSnapshot, period domain.TimePeriod) domain.PatternSummary {
	summary := domain.PatternSummary{
		PeakDay:        kpi.PeakDay,
		PeakDayCount:   kpi.PeakDayCount,
		WorstDay:       kpi.WorstDay,
		WorstDayWait:   kpi.WorstDayWait,
		BucketKind:     domain.BucketNone,
		TopBucketLabel: PlaceholderBucketLabel,
		Variation:      domain.VariationNone,
	}

	b, ok := bucketings[period]
	if !ok || len(series) < b.minPoints {
		return summary
	}

	sums := make([]uint, b.slots)
	seen := make([]bool, b.slots)
	points := 0
	for _, day := range series {
		t, err := time.Parse(dateLayout, day.Date)
		if err != nil {
			continue
		}
		s := b.slot(t)
		sums[s] += day.TransactionCount
		seen[s] = true
		points++
	}
	if points < b.minPoints {
		return summary
	}

	var (
		stats   welford
		top     = -1
		buckets = make([]domain.Bucket, 0, b.slots)
	)
	for s := 0; s < b.slots; s++ {
		if !seen[s] {
			continue
		}
		buckets = append(buckets, domain.Bucket{Label: b.label(s), Count: sums[s]})
		stats.update(float64(sums[s]))
		if top < 0 || sums[s] > sums[top] {
			top = s
		}
	}

	summary.BucketKind = b.kind
	summary.Buckets = buckets
	summary.TopBucketLabel = b.label(top)
	summary.TopBucketCount = sums[top]
	// A single populated bucket has no spread to measure.
	if len(buckets) > 1 {
		summary.Variation = classifyVariation(stats.coefficientOfVariation())
	}
	return summary
}

func classifyVariation(cv float64) domain.Variation {
	switch {
	case cv > highVariationCV:
		return domain.VariationHigh
	case cv > moderateVariationCV:
		return domain.VariationModerate
	default:
		return domain.VariationLow
	}
}
