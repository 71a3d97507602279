package analytics

import (
	"math"

	"github.com/de-tools/queue-atlas/pkg/models/domain"
)

// minTrendPoints is the smallest series length that yields a trend.
const minTrendPoints = 3

type windowMode int

const (
	windowAverage windowMode = iota
	windowSum
)

// ComputeTrends compares the early and late windows of each metric series.
// Results are ordered wait time, abandonment, transaction volume.
func ComputeTrends(series []domain.DailyMetric, period domain.TimePeriod) []domain.TrendResult {
	split := period.Split()
	damping := period.Damping()

	waits := make([]float64, 0, len(series))
	rates := make([]float64, 0, len(series))
	volumes := make([]float64, 0, len(series))
	for _, day := range series {
		if day.HasWait {
			waits = append(waits, day.AvgWaitMinutes)
		}
		rates = append(rates, AbandonmentRate(day.CanceledCount, day.TransactionCount))
		volumes = append(volumes, float64(day.TransactionCount))
	}

	return []domain.TrendResult{
		newTrend(domain.MetricWaitTime, PercentChange(waits, split, windowAverage), damping.WaitTime),
		newTrend(domain.MetricAbandonment, PercentChange(rates, split, windowAverage), damping.WaitTime),
		newTrend(domain.MetricTransactionVolume, PercentChange(volumes, split, windowSum), damping.Transaction),
	}
}

func newTrend(metric domain.TrendMetric, raw, damping float64) domain.TrendResult {
	pct := math.Round(raw * damping)
	if pct == 0 {
		// normalizes -0
		pct = 0
	}
	dir := domain.DirectionUp
	if pct < 0 {
		dir = domain.DirectionDown
	}
	return domain.TrendResult{Metric: metric, PercentChange: pct, Direction: dir}
}

// PercentChange returns the unrounded change of the late window against the early one.
func PercentChange(values []float64, split domain.SplitRatio, mode windowMode) float64 {
	n := len(values)
	if n < minTrendPoints {
		return 0
	}
	earlyEnd := windowIndex(n, split.Early)
	lateStart := windowIndex(n, split.Late)
	earlyEnd = clamp(earlyEnd, 0, n)
	lateStart = clamp(lateStart, 0, n)

	early := aggregate(values[:earlyEnd], mode)
	late := aggregate(values[lateStart:], mode)
	if early == 0 {
		return 0
	}
	pct := 100 * (late - early) / early
	if !finite(pct) {
		return 0
	}
	return pct
}

// windowIndex is floor(n*ratio), tolerant of ratios like 0.7 that are not exact in binary.
func windowIndex(n int, ratio float64) int {
	return int(math.Floor(float64(n)*ratio + 1e-9))
}

func aggregate(window []float64, mode windowMode) float64 {
	if len(window) == 0 {
		return 0
	}
	var sum float64
	for _, v := range window {
		sum += v
	}
	if mode == windowSum {
		return sum
	}
	return sum / float64(len(window))
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
