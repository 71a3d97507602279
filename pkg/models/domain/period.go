package domain

import "strings"

type TimePeriod string

const (
	PeriodDay       TimePeriod = "day"
	PeriodWeek      TimePeriod = "week"
	PeriodMonth     TimePeriod = "month"
	PeriodSixMonths TimePeriod = "6months"
	PeriodYear      TimePeriod = "year"
	PeriodUnknown   TimePeriod = "unknown"
)

// SplitRatio positions the early and late trend windows as fractions of the series length.
type SplitRatio struct {
	Early float64
	Late  float64
}

// TrendDamping scales raw trend percentages per metric family.
type TrendDamping struct {
	WaitTime    float64
	Transaction float64
}

type periodDef struct {
	split    SplitRatio
	damping  TrendDamping
	context  string
	lookback int // days
}

var periodDefs = map[TimePeriod]periodDef{
	PeriodDay: {
		split:    SplitRatio{Early: 0.5, Late: 0.5},
		damping:  TrendDamping{WaitTime: 1.0, Transaction: 1.0},
		context:  "today",
		lookback: 1,
	},
	PeriodWeek: {
		split:    SplitRatio{Early: 0.4, Late: 0.6},
		damping:  TrendDamping{WaitTime: 1.0, Transaction: 1.0},
		context:  "this week",
		lookback: 7,
	},
	PeriodMonth: {
		split:    SplitRatio{Early: 0.3, Late: 0.7},
		damping:  TrendDamping{WaitTime: 1.2, Transaction: 1.1},
		context:  "this month",
		lookback: 30,
	},
	PeriodSixMonths: {
		split:    SplitRatio{Early: 0.4, Late: 0.6},
		damping:  TrendDamping{WaitTime: 0.8, Transaction: 0.9},
		context:  "the past 6 months",
		lookback: 182,
	},
	PeriodYear: {
		split:    SplitRatio{Early: 0.5, Late: 0.5},
		damping:  TrendDamping{WaitTime: 0.6, Transaction: 0.7},
		context:  "this year",
		lookback: 365,
	},
}

var fallbackPeriod = periodDef{
	split:    SplitRatio{Early: 0.5, Late: 0.5},
	damping:  TrendDamping{WaitTime: 1.0, Transaction: 1.0},
	context:  "the selected period",
	lookback: 30,
}

// ParsePeriod never fails: unrecognized selectors map to PeriodUnknown.
func ParsePeriod(s string) TimePeriod {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "day", "today":
		return PeriodDay
	case "week":
		return PeriodWeek
	case "month":
		return PeriodMonth
	case "6months", "sixmonths", "six_months", "6_months":
		return PeriodSixMonths
	case "year":
		return PeriodYear
	default:
		return PeriodUnknown
	}
}

func (p TimePeriod) def() periodDef {
	if d, ok := periodDefs[p]; ok {
		return d
	}
	return fallbackPeriod
}

func (p TimePeriod) Known() bool {
	_, ok := periodDefs[p]
	return ok
}

func (p TimePeriod) Split() SplitRatio {
	return p.def().split
}

func (p TimePeriod) Damping() TrendDamping {
	return p.def().damping
}

// ContextLabel is the human phrase used in narratives, e.g. "this month".
func (p TimePeriod) ContextLabel() string {
	return p.def().context
}

// LookbackDays is the length of the history window a period covers.
func (p TimePeriod) LookbackDays() int {
	return p.def().lookback
}

func (p TimePeriod) String() string {
	return string(p)
}
