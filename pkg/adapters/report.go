package adapters

import (
	"fmt"
	"time"

	"github.com/de-tools/queue-atlas/pkg/models/api"
	"github.com/de-tools/queue-atlas/pkg/models/domain"
)

func MapDomainReportToAPI(r domain.AnalysisReport) api.Report {
	out := api.Report{
		ID:          r.ID,
		Department:  r.Department,
		Period:      r.Period.String(),
		GeneratedAt: r.GeneratedAt,
		KPIs: api.KpiSnapshot{
			TotalTransactions:  r.KPIs.TotalTransactions,
			TotalCanceled:      r.KPIs.TotalCanceled,
			AvgWaitMinutes:     r.KPIs.AvgWaitMinutes,
			AvgServiceMinutes:  r.KPIs.AvgServiceMinutes,
			AbandonmentRatePct: r.KPIs.AbandonmentRatePct,
			SLACompliancePct:   r.KPIs.SLACompliancePct,
			PeakDay:            r.KPIs.PeakDay,
			PeakDayCount:       r.KPIs.PeakDayCount,
			WorstDay:           r.KPIs.WorstDay,
			WorstDayWait:       r.KPIs.WorstDayWait,
			DaysCovered:        r.KPIs.DaysCovered,
		},
		Trends: make([]api.TrendResult, 0, len(r.Trends)),
		Patterns: api.PatternSummary{
			PeakDay:        r.Patterns.PeakDay,
			PeakDayCount:   r.Patterns.PeakDayCount,
			WorstDay:       r.Patterns.WorstDay,
			WorstDayWait:   r.Patterns.WorstDayWait,
			BucketKind:     string(r.Patterns.BucketKind),
			TopBucketLabel: r.Patterns.TopBucketLabel,
			TopBucketCount: r.Patterns.TopBucketCount,
			Buckets:        make([]api.Bucket, 0, len(r.Patterns.Buckets)),
			Variation:      string(r.Patterns.Variation),
		},
		Insights:            mapNarratives(r.Insights),
		Recommendations:     mapNarratives(r.Recommendations),
		CancellationReasons: make([]api.CancellationReason, 0, len(r.CancellationReasons)),
		Notes:               append([]string{}, r.Notes...),
	}
	for _, t := range r.Trends {
		out.Trends = append(out.Trends, api.TrendResult{
			Metric:        string(t.Metric),
			PercentChange: t.PercentChange,
			Direction:     string(t.Direction),
		})
	}
	for _, b := range r.Patterns.Buckets {
		out.Patterns.Buckets = append(out.Patterns.Buckets, api.Bucket{Label: b.Label, Count: b.Count})
	}
	for _, c := range r.CancellationReasons {
		out.CancellationReasons = append(out.CancellationReasons, api.CancellationReason{
			Reason:     c.Reason,
			Count:      c.Count,
			Percentage: c.Percentage,
		})
	}
	return out
}

func mapNarratives(in []domain.Narrative) []api.Narrative {
	out := make([]api.Narrative, 0, len(in))
	for _, n := range in {
		out = append(out, api.Narrative{Severity: string(n.Severity), Text: n.Text})
	}
	return out
}

// MapAnalysisToReport lays an analysis out in printable sections. The range
// covers the period's lookback window ending on the generation day.
func MapAnalysisToReport(r domain.AnalysisReport) *domain.Report {
	days := r.Period.LookbackDays()
	end := r.GeneratedAt.Truncate(24 * time.Hour)
	k := r.KPIs

	kpiSection := domain.ReportSection{
		Title: "Key Performance Indicators",
		Summary: map[string]interface{}{
			"Department":   r.Department,
			"Days Covered": k.DaysCovered,
		},
		Details: []domain.ReportDetail{
			{Name: "Total Transactions", Value: k.TotalTransactions, Description: "Transactions served in the period"},
			{Name: "Canceled Transactions", Value: k.TotalCanceled},
			{Name: "Average Wait", Value: fmt.Sprintf("%.1f", k.AvgWaitMinutes), Unit: "min"},
			{Name: "Average Service", Value: fmt.Sprintf("%.1f", k.AvgServiceMinutes), Unit: "min", Description: "Estimated from wait time"},
			{Name: "Abandonment Rate", Value: fmt.Sprintf("%.1f", k.AbandonmentRatePct), Unit: "%"},
			{Name: "SLA Compliance", Value: fmt.Sprintf("%.1f", k.SLACompliancePct), Unit: "%", Description: "Days with average wait within target"},
			{Name: "Peak Day", Value: orDash(k.PeakDay), Description: fmt.Sprintf("%d transactions", k.PeakDayCount)},
			{Name: "Worst Wait Day", Value: orDash(k.WorstDay), Description: fmt.Sprintf("%.1f min average wait", k.WorstDayWait)},
		},
	}

	trendSection := domain.ReportSection{Title: "Trends"}
	for _, t := range r.Trends {
		trendSection.Details = append(trendSection.Details, domain.ReportDetail{
			Name:        string(t.Metric),
			Value:       fmt.Sprintf("%+.0f", t.PercentChange),
			Unit:        "%",
			Description: string(t.Direction),
		})
	}

	patternSection := domain.ReportSection{
		Title: "Patterns",
		Summary: map[string]interface{}{
			"Top Bucket": r.Patterns.TopBucketLabel,
			"Variation":  string(r.Patterns.Variation),
		},
	}
	for _, b := range r.Patterns.Buckets {
		patternSection.Details = append(patternSection.Details, domain.ReportDetail{
			Name:  b.Label,
			Value: b.Count,
			Unit:  "tx",
		})
	}

	reasonSection := domain.ReportSection{Title: "Cancellation Reasons"}
	for _, c := range r.CancellationReasons {
		reasonSection.Details = append(reasonSection.Details, domain.ReportDetail{
			Name:        c.Reason,
			Value:       c.Count,
			Description: fmt.Sprintf("%.1f%% of cancellations", c.Percentage),
		})
	}

	notes := make([]domain.Narrative, 0, len(r.Notes))
	for _, n := range r.Notes {
		notes = append(notes, domain.Narrative{Severity: domain.SeverityInfo, Text: n})
	}

	return &domain.Report{
		Title: fmt.Sprintf("Queue report for %s, %s", r.Department, r.Period.ContextLabel()),
		Range: domain.DateRange{
			Start:    end.AddDate(0, 0, 1-days),
			End:      end,
			Duration: days,
		},
		Sections: []domain.ReportSection{
			kpiSection,
			trendSection,
			patternSection,
			{Title: "Insights", Narratives: r.Insights},
			{Title: "Recommendations", Narratives: r.Recommendations},
			reasonSection,
			{Title: "Notes", Narratives: notes},
		},
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
