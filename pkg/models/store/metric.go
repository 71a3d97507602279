package store

import "time"

type DailyMetricRecord struct {
	Day              time.Time
	TransactionCount int64
	AvgWaitMinutes   float64
	HasWait          bool
	CanceledCount    int64
}

type CancellationReasonRecord struct {
	Day    time.Time
	Reason string
	Count  int64
}

// ReasonTotal is a cancellation reason summed over a date range.
type ReasonTotal struct {
	Reason string
	Count  int64
}

// SyncState is the persisted progress of a department's background sync.
type SyncState struct {
	Department   string
	CreatedAt    time.Time
	LastSyncedAt *time.Time
	LastError    *string
}
