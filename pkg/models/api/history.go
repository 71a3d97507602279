package api

// HistoryPayload is the historical-data shape served by the portal per department.
type HistoryPayload struct {
	Transactions         []CountPoint         `json:"transactions"`
	WaitTimes            []WaitPoint          `json:"wait_times"`
	CanceledTransactions []CountPoint         `json:"canceled_transactions"`
	CancellationReasons  []CancellationReason `json:"cancellation_reasons"`
}

type CountPoint struct {
	Date  string  `json:"date"`
	Count float64 `json:"count"`
}

type WaitPoint struct {
	Date        string  `json:"date"`
	AverageWait float64 `json:"average_wait"`
}

type CancellationReason struct {
	Reason     string  `json:"reason"`
	Count      uint    `json:"count"`
	Percentage float64 `json:"percentage"`
}
