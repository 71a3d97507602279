package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/de-tools/queue-atlas/pkg/models/domain"
)

const dateLayout = "2006-01-02"

type dayKey struct {
	date   string
	parsed time.Time
	valid  bool
}

type dayAccumulator struct {
	transactions uint
	canceled     uint
	waitSum      float64
	waitSamples  int
}

// Normalize aligns the transaction, wait-time and cancellation lists of a dataset
// into one series ordered by calendar date. Missing counts are zero.
func Normalize(ds domain.Dataset) []domain.DailyMetric {
	days := make(map[string]*dayAccumulator)
	get := func(date string) *dayAccumulator {
		acc, ok := days[date]
		if !ok {
			acc = &dayAccumulator{}
			days[date] = acc
		}
		return acc
	}

	for _, p := range ds.Transactions {
		get(p.Date).transactions += toCount(p.Value)
	}
	for _, p := range ds.Canceled {
		get(p.Date).canceled += toCount(p.Value)
	}
	for _, p := range ds.WaitTimes {
		acc := get(p.Date)
		acc.waitSum += nonNegative(p.Value)
		acc.waitSamples++
	}

	keys := make([]dayKey, 0, len(days))
	for date := range days {
		parsed, err := time.Parse(dateLayout, date)
		keys = append(keys, dayKey{date: date, parsed: parsed, valid: err == nil})
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.valid != b.valid {
			return a.valid
		}
		if a.valid && !a.parsed.Equal(b.parsed) {
			return a.parsed.Before(b.parsed)
		}
		return a.date < b.date
	})

	series := make([]domain.DailyMetric, 0, len(keys))
	for _, k := range keys {
		acc := days[k.date]
		m := domain.DailyMetric{
			Date:             k.date,
			TransactionCount: acc.transactions,
			CanceledCount:    acc.canceled,
		}
		if acc.waitSamples > 0 {
			m.HasWait = true
			m.AvgWaitMinutes = acc.waitSum / float64(acc.waitSamples)
		}
		series = append(series, m)
	}
	return series
}

func toCount(v float64) uint {
	if !finite(v) || v <= 0 {
		return 0
	}
	return uint(math.Round(v))
}

func nonNegative(v float64) float64 {
	if !finite(v) || v < 0 {
		return 0
	}
	return v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
