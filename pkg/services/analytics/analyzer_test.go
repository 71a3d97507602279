package analytics

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/de-tools/queue-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allPeriods = []domain.TimePeriod{
	domain.PeriodDay, domain.PeriodWeek, domain.PeriodMonth,
	domain.PeriodSixMonths, domain.PeriodYear, domain.PeriodUnknown,
}

func fixedAnalyzer() *Analyzer {
	now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	return NewAnalyzer(
		WithClock(func() time.Time { return now }),
		WithIDGenerator(func() string { return "report-1" }),
	)
}

func busyDataset(days int) domain.Dataset {
	tx := make([]float64, days)
	waits := make([]float64, days)
	canceled := make([]float64, days)
	for i := 0; i < days; i++ {
		tx[i] = float64(100 + 5*(i%7))
		waits[i] = float64(8 + i%20)
		canceled[i] = float64(i % 9)
	}
	return domain.Dataset{
		Transactions: points("2024-01-01", tx...),
		WaitTimes:    points("2024-01-01", waits...),
		Canceled:     points("2024-01-01", canceled...),
		CancellationReasons: []domain.CancellationReason{
			{Reason: "left queue", Count: 4},
			{Reason: "no show", Count: 9},
		},
	}
}

func TestAnalyzer_Analyze(t *testing.T) {
	a := fixedAnalyzer()

	t.Run("envelope fields", func(t *testing.T) {
		report := a.Analyze("licensing", domain.PeriodMonth, busyDataset(30))

		assert.Equal(t, "report-1", report.ID)
		assert.Equal(t, "licensing", report.Department)
		assert.Equal(t, domain.PeriodMonth, report.Period)
		assert.Equal(t, 2024, report.GeneratedAt.Year())
		require.Len(t, report.CancellationReasons, 2)
		assert.Equal(t, "no show", report.CancellationReasons[0].Reason)
		assert.InDelta(t, 69.23, report.CancellationReasons[0].Percentage, 0.01)
		assert.Contains(t, report.Notes, ServiceEstimateCaveat)
	})

	t.Run("idempotent for the same input", func(t *testing.T) {
		for _, p := range allPeriods {
			first := a.Analyze("d", p, busyDataset(60))
			second := a.Analyze("d", p, busyDataset(60))

			assert.Equal(t, first.KPIs, second.KPIs, p.String())
			assert.Equal(t, first.Trends, second.Trends, p.String())
			assert.Equal(t, first.Patterns, second.Patterns, p.String())
			assert.Equal(t, first.Insights, second.Insights, p.String())
			assert.Equal(t, first.Recommendations, second.Recommendations, p.String())
		}
	})

	t.Run("all zero input has no NaN or Inf", func(t *testing.T) {
		ds := domain.Dataset{
			Transactions: points("2024-01-01", repeat(0, 40)...),
			WaitTimes:    points("2024-01-01", repeat(0, 40)...),
			Canceled:     points("2024-01-01", repeat(0, 40)...),
		}
		for _, p := range allPeriods {
			report := a.Analyze("d", p, ds)
			k := report.KPIs

			assert.Zero(t, k.TotalTransactions)
			assert.Zero(t, k.AvgWaitMinutes)
			assert.Zero(t, k.AvgServiceMinutes)
			assert.Zero(t, k.AbandonmentRatePct)
			for _, f := range []float64{k.AvgWaitMinutes, k.AvgServiceMinutes, k.AbandonmentRatePct, k.SLACompliancePct, k.WorstDayWait} {
				assert.False(t, math.IsNaN(f) || math.IsInf(f, 0))
			}
			for _, tr := range report.Trends {
				assert.Zero(t, tr.PercentChange)
			}
			for _, n := range append(report.Insights, report.Recommendations...) {
				assert.NotContains(t, n.Text, "NaN")
				assert.NotContains(t, n.Text, "Inf")
				assert.NotContains(t, n.Text, "{")
			}
		}
	})

	t.Run("empty dataset degrades gracefully", func(t *testing.T) {
		for _, p := range allPeriods {
			report := a.Analyze("d", p, domain.Dataset{})

			assert.Zero(t, report.KPIs.TotalTransactions)
			assert.Equal(t, PlaceholderBucketLabel, report.Patterns.TopBucketLabel)
			assert.NotEmpty(t, report.Insights)
			assert.Greater(t, len(report.Recommendations), len(report.Insights))
			assert.NotNil(t, report.CancellationReasons)
		}
	})

	t.Run("abandonment stays within bounds", func(t *testing.T) {
		for days := 1; days < 50; days += 7 {
			report := a.Analyze("d", domain.PeriodMonth, busyDataset(days))
			assert.GreaterOrEqual(t, report.KPIs.AbandonmentRatePct, 0.0)
			assert.LessOrEqual(t, report.KPIs.AbandonmentRatePct, 100.0)
		}
	})

	t.Run("recommendations outnumber insights", func(t *testing.T) {
		for _, p := range allPeriods {
			report := a.Analyze("d", p, busyDataset(90))
			assert.Greater(t, len(report.Recommendations), len(report.Insights), p.String())
		}
	})

	t.Run("unknown period is noted, not rejected", func(t *testing.T) {
		report := a.Analyze("d", domain.ParsePeriod("quarterly"), busyDataset(10))

		assert.Equal(t, domain.PeriodUnknown, report.Period)
		found := false
		for _, n := range report.Notes {
			if strings.Contains(n, "50/50") {
				found = true
			}
		}
		assert.True(t, found)
	})
}
