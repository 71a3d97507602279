package fetch

import (
	"slices"

	"github.com/de-tools/queue-atlas/pkg/models/domain"
)

// Merge combines department datasets into one. Counts are summed per date,
// waits are averaged over the datasets that reported that date and reasons
// are summed by name. Percentages are left for the analyzer to recompute.
func Merge(datasets ...domain.Dataset) domain.Dataset {
	transactions := map[string]float64{}
	canceled := map[string]float64{}
	waitSum := map[string]float64{}
	waitCount := map[string]int{}
	reasons := map[string]uint{}
	var reasonOrder []string

	for _, ds := range datasets {
		for _, p := range ds.Transactions {
			transactions[p.Date] += p.Value
		}
		for _, p := range ds.Canceled {
			canceled[p.Date] += p.Value
		}
		for _, p := range ds.WaitTimes {
			waitSum[p.Date] += p.Value
			waitCount[p.Date]++
		}
		for _, r := range ds.CancellationReasons {
			if _, ok := reasons[r.Reason]; !ok {
				reasonOrder = append(reasonOrder, r.Reason)
			}
			reasons[r.Reason] += r.Count
		}
	}

	merged := domain.Dataset{
		Transactions:        summed(transactions),
		Canceled:            summed(canceled),
		WaitTimes:           make([]domain.DatePoint, 0, len(waitSum)),
		CancellationReasons: make([]domain.CancellationReason, 0, len(reasonOrder)),
	}
	for _, date := range sortedKeys(waitSum) {
		merged.WaitTimes = append(merged.WaitTimes, domain.DatePoint{
			Date:  date,
			Value: waitSum[date] / float64(waitCount[date]),
		})
	}
	for _, reason := range reasonOrder {
		merged.CancellationReasons = append(merged.CancellationReasons, domain.CancellationReason{
			Reason: reason,
			Count:  reasons[reason],
		})
	}
	return merged
}

func summed(values map[string]float64) []domain.DatePoint {
	points := make([]domain.DatePoint, 0, len(values))
	for _, date := range sortedKeys(values) {
		points = append(points, domain.DatePoint{Date: date, Value: values[date]})
	}
	return points
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
