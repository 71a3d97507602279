package analytics

import (
	"math"

	"github.com/de-tools/queue-atlas/pkg/models/domain"
)

const (
	// SLATargetMinutes is the wait time at or below which a sample meets the SLA.
	SLATargetMinutes = 15.0

	serviceTimeFactor     = 0.4
	serviceTimeFloorMins  = 5.0
	ServiceEstimateCaveat = "Average service time is estimated as 40% of average wait time (minimum 5 minutes); it is not measured data."
)

// ComputeKPIs summarizes a normalized series.
func ComputeKPIs(series []domain.DailyMetric) domain.KpiSnapshot {
	var (
		kpi        domain.KpiSnapshot
		waitSum    float64
		waitPoints int
		withinSLA  int
		peakSet    bool
		worstSet   bool
	)
	kpi.DaysCovered = len(series)

	for _, day := range series {
		kpi.TotalTransactions += day.TransactionCount
		kpi.TotalCanceled += day.CanceledCount

		if !peakSet || day.TransactionCount > kpi.PeakDayCount {
			kpi.PeakDay = day.Date
			kpi.PeakDayCount = day.TransactionCount
			peakSet = true
		}

		if !day.HasWait {
			continue
		}
		waitSum += day.AvgWaitMinutes
		waitPoints++
		if day.AvgWaitMinutes <= SLATargetMinutes {
			withinSLA++
		}
		if !worstSet || day.AvgWaitMinutes > kpi.WorstDayWait {
			kpi.WorstDay = day.Date
			kpi.WorstDayWait = day.AvgWaitMinutes
			worstSet = true
		}
	}

	if waitPoints > 0 {
		kpi.AvgWaitMinutes = waitSum / float64(waitPoints)
		kpi.SLACompliancePct = 100 * float64(withinSLA) / float64(waitPoints)
	}
	kpi.AvgServiceMinutes = EstimateServiceMinutes(kpi.AvgWaitMinutes)
	kpi.AbandonmentRatePct = AbandonmentRate(kpi.TotalCanceled, kpi.TotalTransactions)

	return kpi
}

// EstimateServiceMinutes derives service time from wait time. It is a heuristic,
// and reports 0 when there is no wait time to derive from.
func EstimateServiceMinutes(avgWait float64) float64 {
	if avgWait <= 0 {
		return 0
	}
	return math.Max(serviceTimeFloorMins, avgWait*serviceTimeFactor)
}

// AbandonmentRate is canceled/transactions as a percentage in [0,100].
func AbandonmentRate(canceled, transactions uint) float64 {
	if transactions == 0 {
		return 0
	}
	return math.Min(100, 100*float64(canceled)/float64(transactions))
}
