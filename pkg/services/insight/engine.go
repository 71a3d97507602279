package insight

import "github.com/de-tools/queue-atlas/pkg/models/domain"

// Engine turns computed signals into ordered insight and recommendation lists.
type Engine struct {
	rules []MetricRule
}

func NewEngine(rules ...MetricRule) *Engine {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Engine{rules: rules}
}

// Insights returns one narrative per metric, then peak and worst day, then the
// period-specific narratives.
func (e *Engine) Insights(s Signals) []domain.Narrative {
	var out []domain.Narrative
	for _, rule := range e.rules {
		grade := s.grade(rule)
		text, ok := rule.Insight[grade]
		if !ok {
			continue
		}
		out = append(out, domain.Narrative{
			Severity: grade.Severity(),
			Text:     s.metricReplacer(rule).Replace(text),
		})
	}

	r := s.replacer()
	if s.Patterns.PeakDay != "" {
		out = append(out, domain.Narrative{Severity: domain.SeverityInfo, Text: r.Replace(peakDayInsight)})
	}
	if s.Patterns.WorstDay != "" {
		out = append(out, domain.Narrative{Severity: worstDaySeverity(s.Patterns.WorstDayWait), Text: r.Replace(worstDayInsight)})
	}

	for _, line := range periodInsights[s.Period] {
		out = append(out, line.render(s))
	}
	return out
}

// Recommendations mirrors Insights: one or two actions per metric, peak and worst
// day actions, the period block, then technology recommendations.
func (e *Engine) Recommendations(s Signals) []domain.Narrative {
	var out []domain.Narrative
	for _, rule := range e.rules {
		grade := s.grade(rule)
		r := s.metricReplacer(rule)
		for _, text := range rule.Actions[grade] {
			out = append(out, domain.Narrative{Severity: grade.Severity(), Text: r.Replace(text)})
		}
	}

	r := s.replacer()
	if s.Patterns.PeakDay != "" {
		out = append(out, domain.Narrative{Severity: domain.SeverityInfo, Text: r.Replace(peakDayAction)})
	}
	if s.Patterns.WorstDay != "" {
		out = append(out, domain.Narrative{Severity: worstDaySeverity(s.Patterns.WorstDayWait), Text: r.Replace(worstDayAction)})
	}

	for _, line := range periodActions[s.Period] {
		out = append(out, line.render(s))
	}
	for _, text := range technologyActions(s.Period) {
		out = append(out, domain.Narrative{Severity: domain.SeverityInfo, Text: text})
	}
	return out
}

func worstDaySeverity(wait float64) domain.Severity {
	if wait > 20 {
		return domain.SeverityWarning
	}
	return domain.SeverityInfo
}
