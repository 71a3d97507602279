package domain

// CancellationReason is an aggregated count of cancellations sharing a reason.
type CancellationReason struct {
	Reason     string
	Count      uint
	Percentage float64
}

// DailyMetric is one day of operational counters for a department.
type DailyMetric struct {
	Date                string // YYYY-MM-DD
	TransactionCount    uint
	AvgWaitMinutes      float64
	HasWait             bool
	CanceledCount       uint
	CancellationReasons []CancellationReason
}

// DatePoint is a raw {date, value} sample as delivered by a history source.
type DatePoint struct {
	Date  string
	Value float64
}

// Dataset is the raw, not yet aligned history of a department.
type Dataset struct {
	Transactions        []DatePoint
	WaitTimes           []DatePoint
	Canceled            []DatePoint
	CancellationReasons []CancellationReason
}

func (d Dataset) Empty() bool {
	return len(d.Transactions) == 0 && len(d.WaitTimes) == 0 && len(d.Canceled) == 0
}
