package insight

import "github.com/de-tools/queue-atlas/pkg/models/domain"

// periodLine is a period-specific narrative. Lines tied to bucketed data carry a
// fallback for when buckets were not computed; lines tied to variation pick their
// wording from the bucket variation class.
type periodLine struct {
	severity    domain.Severity
	text        string
	fallback    string
	byVariation map[domain.Variation]string
}

func (l periodLine) render(s Signals) domain.Narrative {
	text := l.text
	switch {
	case l.byVariation != nil:
		v := s.Patterns.Variation
		if _, ok := l.byVariation[v]; !ok {
			v = domain.VariationNone
		}
		text = l.byVariation[v]
	case l.fallback != "" && !s.bucketed():
		text = l.fallback
	}
	return domain.Narrative{Severity: l.severity, Text: s.replacer().Replace(text)}
}

var periodInsights = map[domain.TimePeriod][]periodLine{
	domain.PeriodMonth: {
		{
			severity: domain.SeverityInfo,
			text:     "{topBucket} is the busiest day of the week with {topBucketCount} transactions this month.",
			fallback: "Daily volume follows a consistent pattern this month; more data is needed to single out a busiest weekday.",
		},
		{
			severity: domain.SeverityInfo,
			text:     "Short-term view: between the start and the end of this month volume was {volumeMovement} and wait time was {waitMovement}; confirm against next month before changing schedules.",
		},
	},
	domain.PeriodSixMonths: {
		{
			severity: domain.SeverityInfo,
			text:     "{topBucket} was the busiest month of the past 6 months with {topBucketCount} transactions.",
			fallback: "Monthly volume follows a consistent pattern; more history is needed to single out a busiest month.",
		},
		{
			severity: domain.SeverityInfo,
			byVariation: map[domain.Variation]string{
				domain.VariationHigh:     "Monthly volume varies strongly, which points to a seasonal demand pattern.",
				domain.VariationModerate: "Monthly volume varies moderately, which suggests mild seasonal effects.",
				domain.VariationLow:      "Monthly volume is even across the past 6 months with no clear seasonal effect.",
				domain.VariationNone:     "Seasonal effects cannot be assessed until history covers at least two months.",
			},
		},
		{
			severity: domain.SeverityInfo,
			text:     "Over the past 6 months volume was {volumeMovement} and wait time was {waitMovement} on a smoothed basis.",
		},
	},
	domain.PeriodYear: {
		{
			severity: domain.SeverityInfo,
			text:     "{topBucket} was the strongest quarter this year with {topBucketCount} transactions.",
			fallback: "Quarterly volume follows a consistent pattern; more history is needed to single out a strongest quarter.",
		},
		{
			severity: domain.SeverityInfo,
			byVariation: map[domain.Variation]string{
				domain.VariationHigh:     "Quarterly demand is uneven; capacity planning should follow the quarterly cycle.",
				domain.VariationModerate: "Quarterly demand varies moderately; modest capacity changes between quarters are warranted.",
				domain.VariationLow:      "Demand is spread evenly across quarters, which supports a flat annual staffing plan.",
				domain.VariationNone:     "Quarterly demand cannot be compared until history covers at least two quarters.",
			},
		},
		{
			severity: domain.SeverityInfo,
			text:     "This year volume was {volumeMovement} and wait time was {waitMovement}; use these figures as the baseline for next year's service targets.",
		},
	},
}

var periodActions = map[domain.TimePeriod][]periodLine{
	domain.PeriodMonth: {
		{
			severity: domain.SeverityInfo,
			text:     "Build weekly rosters around {topBucket}, the busiest weekday this month.",
			fallback: "Keep weekly rosters balanced; no weekday stands out this month.",
		},
		{
			severity: domain.SeverityInfo,
			text:     "Review weekly staffing against the {volumeTrend} volume trend this month.",
		},
		{
			severity: domain.SeverityInfo,
			text:     "Set next month's targets: average wait under 15 minutes and abandonment under 3%.",
		},
	},
	domain.PeriodSixMonths: {
		{
			severity: domain.SeverityInfo,
			text:     "Plan seasonal staffing around {topBucket}, the busiest month of the past 6 months.",
			fallback: "Collect more history before planning seasonal staffing.",
		},
		{
			severity: domain.SeverityInfo,
			byVariation: map[domain.Variation]string{
				domain.VariationHigh:     "Use flexible or temporary staff to cover the strong month-to-month swings in demand.",
				domain.VariationModerate: "Adjust staffing by a small margin from month to month to follow mild seasonal swings.",
				domain.VariationLow:      "Keep a stable monthly staffing level; demand does not swing between months.",
				domain.VariationNone:     "Revisit seasonal staffing once a full month-by-month breakdown is available.",
			},
		},
		{
			severity: domain.SeverityInfo,
			text:     "Schedule training and leave outside the busiest months.",
		},
		{
			severity: domain.SeverityInfo,
			text:     "Track the {volumeTrend} volume and {waitTrend} wait-time changes as the baseline for the next 6 months.",
		},
	},
	domain.PeriodYear: {
		{
			severity: domain.SeverityInfo,
			text:     "Budget annual capacity around {topBucket}, the strongest quarter this year.",
			fallback: "Budget annual capacity evenly until quarterly data is available.",
		},
		{
			severity: domain.SeverityInfo,
			byVariation: map[domain.Variation]string{
				domain.VariationHigh:     "Align hiring cycles with the quarterly demand peaks.",
				domain.VariationModerate: "Plan modest quarterly adjustments in staffing and opening hours.",
				domain.VariationLow:      "Keep a flat annual staffing plan and invest the savings in service quality.",
				domain.VariationNone:     "Revisit the annual staffing plan once quarterly data is available.",
			},
		},
		{
			severity: domain.SeverityInfo,
			text:     "Raise next year's SLA target above the current {sla}% compliance.",
		},
		{
			severity: domain.SeverityInfo,
			text:     "Review counter layout and the service catalog against this year's {volumeTrend} volume change.",
		},
		{
			severity: domain.SeverityInfo,
			text:     "Set annual goals for wait time ({waitTrend} this year) and abandonment ({abandonTrend} this year).",
		},
	},
}

func technologyActions(period domain.TimePeriod) []string {
	if period == domain.PeriodYear {
		return []string{technologyAction, analyticsAction}
	}
	return []string{technologyAction}
}
