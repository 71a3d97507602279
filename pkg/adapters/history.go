package adapters

import (
	"time"

	"github.com/de-tools/queue-atlas/pkg/models/api"
	"github.com/de-tools/queue-atlas/pkg/models/domain"
	"github.com/de-tools/queue-atlas/pkg/models/store"
)

const dayLayout = "2006-01-02"

func MapAPIHistoryToDomain(p api.HistoryPayload) domain.Dataset {
	ds := domain.Dataset{
		Transactions:        make([]domain.DatePoint, 0, len(p.Transactions)),
		WaitTimes:           make([]domain.DatePoint, 0, len(p.WaitTimes)),
		Canceled:            make([]domain.DatePoint, 0, len(p.CanceledTransactions)),
		CancellationReasons: make([]domain.CancellationReason, 0, len(p.CancellationReasons)),
	}
	for _, t := range p.Transactions {
		ds.Transactions = append(ds.Transactions, domain.DatePoint{Date: t.Date, Value: t.Count})
	}
	for _, w := range p.WaitTimes {
		ds.WaitTimes = append(ds.WaitTimes, domain.DatePoint{Date: w.Date, Value: w.AverageWait})
	}
	for _, c := range p.CanceledTransactions {
		ds.Canceled = append(ds.Canceled, domain.DatePoint{Date: c.Date, Value: c.Count})
	}
	for _, r := range p.CancellationReasons {
		ds.CancellationReasons = append(ds.CancellationReasons, domain.CancellationReason{
			Reason:     r.Reason,
			Count:      r.Count,
			Percentage: r.Percentage,
		})
	}
	return ds
}

// MapStoreMetricsToDomain rebuilds a raw dataset from stored days. Days without a
// wait sample contribute no wait point.
func MapStoreMetricsToDomain(records []store.DailyMetricRecord, reasons []store.ReasonTotal) domain.Dataset {
	ds := domain.Dataset{
		Transactions:        make([]domain.DatePoint, 0, len(records)),
		WaitTimes:           make([]domain.DatePoint, 0, len(records)),
		Canceled:            make([]domain.DatePoint, 0, len(records)),
		CancellationReasons: make([]domain.CancellationReason, 0, len(reasons)),
	}
	for _, r := range records {
		date := r.Day.Format(dayLayout)
		ds.Transactions = append(ds.Transactions, domain.DatePoint{Date: date, Value: float64(r.TransactionCount)})
		ds.Canceled = append(ds.Canceled, domain.DatePoint{Date: date, Value: float64(r.CanceledCount)})
		if r.HasWait {
			ds.WaitTimes = append(ds.WaitTimes, domain.DatePoint{Date: date, Value: r.AvgWaitMinutes})
		}
	}
	for _, r := range reasons {
		if r.Count < 0 {
			continue
		}
		ds.CancellationReasons = append(ds.CancellationReasons, domain.CancellationReason{Reason: r.Reason, Count: uint(r.Count)})
	}
	return ds
}

// MapDomainHistoryToStore flattens a dataset into storable days.
func MapDomainHistoryToStore(series []domain.DailyMetric) []store.DailyMetricRecord {
	records := make([]store.DailyMetricRecord, 0, len(series))
	for _, d := range series {
		day, err := time.Parse(dayLayout, d.Date)
		if err != nil {
			continue
		}
		records = append(records, store.DailyMetricRecord{
			Day:              day,
			TransactionCount: int64(d.TransactionCount),
			AvgWaitMinutes:   d.AvgWaitMinutes,
			HasWait:          d.HasWait,
			CanceledCount:    int64(d.CanceledCount),
		})
	}
	return records
}

// MapDomainReasonsToStore attaches period-level reason totals to a single day,
// since sources report reasons without a per-day breakdown.
func MapDomainReasonsToStore(reasons []domain.CancellationReason, day time.Time) []store.CancellationReasonRecord {
	records := make([]store.CancellationReasonRecord, 0, len(reasons))
	index := make(map[string]int, len(reasons))
	for _, r := range reasons {
		if r.Reason == "" {
			continue
		}
		// (department, day, reason) is the row key, so repeats are folded into one row.
		if i, ok := index[r.Reason]; ok {
			records[i].Count += int64(r.Count)
			continue
		}
		index[r.Reason] = len(records)
		records = append(records, store.CancellationReasonRecord{
			Day:    day,
			Reason: r.Reason,
			Count:  int64(r.Count),
		})
	}
	return records
}
