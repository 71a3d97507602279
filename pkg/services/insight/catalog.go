package insight

var waitTimeInsights = map[Grade]string{
	GradeCritical:  "Average wait time is critically high at {value} minutes and still rising ({trend} {context}).",
	GradeHigh:      "Average wait time of {value} minutes is above the 20-minute acceptable level ({trend} {context}).",
	GradeGood:      "Average wait time is healthy at {value} minutes ({trend} {context}).",
	GradeRising:    "Average wait time of {value} minutes is trending up by {absTrend} {context}.",
	GradeImproving: "Average wait time of {value} minutes improved by {absTrend} {context}.",
	GradeStable:    "Average wait time is stable at {value} minutes {context} ({trend}).",
	GradeNoData:    "No wait-time samples were recorded {context}; wait-time figures are shown as 0.",
}

var waitTimeActions = map[Grade][]string{
	GradeCritical: {
		"Open additional service counters immediately: wait times rose {absTrend} {context} to {value} minutes.",
		"Shift staff into peak hours and enable appointment booking to reverse the {trend} wait-time trend {context}.",
	},
	GradeHigh: {
		"Add staff during peak hours to bring the {value}-minute average wait below 20 minutes ({trend} {context}).",
		"Review service steps for bottlenecks that keep wait times above target ({trend} {context}).",
	},
	GradeRising: {
		"Monitor staffing closely: wait times are up {absTrend} {context}.",
		"Prepare standby staff before the {trend} wait-time trend {context} reaches the 20-minute level.",
	},
	GradeImproving: {
		"Keep the current staffing approach: wait times improved {absTrend} {context}.",
	},
	GradeGood: {
		"Maintain current service levels; wait times remain low at {value} minutes ({trend} {context}).",
	},
	GradeStable: {
		"Fine-tune counter allocation to keep the {value}-minute average wait steady ({trend} {context}).",
	},
	GradeNoData: {
		"Start recording wait times at every counter; without samples {context} the {trend} wait-time trend cannot be assessed.",
	},
}

var abandonmentInsights = map[Grade]string{
	GradeCritical:  "Abandonment rate is critical at {value}% and climbing ({trend} {context}).",
	GradeHigh:      "Abandonment rate of {value}% is above the 10% acceptable level ({trend} {context}).",
	GradeGood:      "Abandonment rate is low at {value}% ({trend} {context}).",
	GradeRising:    "Abandonment rate of {value}% is trending up by {absTrend} {context}.",
	GradeImproving: "Abandonment rate of {value}% improved by {absTrend} {context}.",
	GradeStable:    "Abandonment rate is steady at {value}% {context} ({trend}).",
}

var abandonmentActions = map[Grade][]string{
	GradeCritical: {
		"Contact customers who left the queue and review cancellation reasons: abandonment rose {absTrend} {context}.",
		"Publish live wait estimates so customers can plan around the {trend} abandonment trend {context}.",
	},
	GradeHigh: {
		"Reduce abandonment from {value}% by sending wait-time updates to queued customers ({trend} {context}).",
		"Review the top cancellation reasons behind the {trend} abandonment change {context} and address the most frequent one first.",
	},
	GradeRising: {
		"Watch cancellations closely: abandonment is up {absTrend} {context}.",
		"Add a reminder before the customer's turn to counter the {trend} abandonment trend {context}.",
	},
	GradeImproving: {
		"Keep the measures that cut abandonment by {absTrend} {context}.",
	},
	GradeGood: {
		"Keep customer communication as it is; abandonment stays low at {value}% ({trend} {context}).",
	},
	GradeStable: {
		"Follow up on cancellation reasons to push the {value}% abandonment rate lower ({trend} {context}).",
	},
}

var volumeInsights = map[Grade]string{
	GradeHigh:   "High demand: {value} transactions {context}, up {absTrend}.",
	GradeGood:   "Transaction volume is declining: {value} transactions {context}, down {absTrend}.",
	GradeStable: "Processed {value} transactions {context}; volume was {movement}.",
}

var volumeActions = map[Grade][]string{
	GradeHigh: {
		"Scale capacity for high demand: volume grew {absTrend} {context}.",
		"Promote online pre-registration to absorb the {trend} volume increase {context}.",
	},
	GradeGood: {
		"Investigate the {absTrend} volume decline {context} and reach out to customers to recover traffic.",
	},
	GradeStable: {
		"Align staffing with the current volume of {value} transactions ({trend} {context}).",
	},
}

const (
	peakDayInsight   = "Peak day was {peakDay} with {peakCount} transactions."
	worstDayInsight  = "Longest average wait was on {worstDay} at {worstWait} minutes."
	peakDayAction    = "Schedule extra staff for days like {peakDay}, which handled {peakCount} transactions."
	worstDayAction   = "Review what caused the {worstWait}-minute average wait on {worstDay} and plan for similar days."
	technologyAction = "Deploy SMS or app notifications so customers can wait remotely and return when called."
	analyticsAction  = "Invest in real-time queue dashboards with alerts to act on wait-time spikes as they happen."
)
