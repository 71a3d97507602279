package analytics

import (
	"testing"

	"github.com/de-tools/queue-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Run("union of dates in calendar order with zero fill", func(t *testing.T) {
		ds := domain.Dataset{
			Transactions: []domain.DatePoint{{Date: "2024-01-03", Value: 30}, {Date: "2024-01-01", Value: 10}},
			WaitTimes:    []domain.DatePoint{{Date: "2024-01-02", Value: 12.5}},
			Canceled:     []domain.DatePoint{{Date: "2024-01-04", Value: 2}},
		}

		series := Normalize(ds)

		require.Len(t, series, 4)
		assert.Equal(t, []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04"}, dates(series))
		assert.Equal(t, uint(10), series[0].TransactionCount)
		assert.Equal(t, uint(0), series[1].TransactionCount)
		assert.True(t, series[1].HasWait)
		assert.Equal(t, 12.5, series[1].AvgWaitMinutes)
		assert.False(t, series[0].HasWait)
		assert.Equal(t, uint(2), series[3].CanceledCount)
		assert.Equal(t, uint(0), series[3].TransactionCount)
	})

	t.Run("empty input yields empty series", func(t *testing.T) {
		series := Normalize(domain.Dataset{})
		assert.NotNil(t, series)
		assert.Empty(t, series)
	})

	t.Run("duplicate dates sum counts and average waits", func(t *testing.T) {
		ds := domain.Dataset{
			Transactions: []domain.DatePoint{{Date: "2024-02-01", Value: 5}, {Date: "2024-02-01", Value: 7}},
			WaitTimes:    []domain.DatePoint{{Date: "2024-02-01", Value: 10}, {Date: "2024-02-01", Value: 20}},
		}

		series := Normalize(ds)

		require.Len(t, series, 1)
		assert.Equal(t, uint(12), series[0].TransactionCount)
		assert.Equal(t, 15.0, series[0].AvgWaitMinutes)
	})

	t.Run("calendar order across month boundaries", func(t *testing.T) {
		ds := domain.Dataset{
			Transactions: []domain.DatePoint{{Date: "2024-02-01", Value: 1}, {Date: "2024-01-31", Value: 1}, {Date: "2023-12-31", Value: 1}},
		}
		assert.Equal(t, []string{"2023-12-31", "2024-01-31", "2024-02-01"}, dates(Normalize(ds)))
	})

	t.Run("unparseable dates sort last", func(t *testing.T) {
		ds := domain.Dataset{
			Transactions: []domain.DatePoint{{Date: "not-a-date", Value: 1}, {Date: "2024-01-02", Value: 1}},
		}
		assert.Equal(t, []string{"2024-01-02", "not-a-date"}, dates(Normalize(ds)))
	})

	t.Run("negative values are treated as zero", func(t *testing.T) {
		ds := domain.Dataset{
			Transactions: []domain.DatePoint{{Date: "2024-01-01", Value: -4}},
			WaitTimes:    []domain.DatePoint{{Date: "2024-01-01", Value: -2}},
		}
		series := Normalize(ds)
		require.Len(t, series, 1)
		assert.Equal(t, uint(0), series[0].TransactionCount)
		assert.Equal(t, 0.0, series[0].AvgWaitMinutes)
	})
}

func dates(series []domain.DailyMetric) []string {
	out := make([]string, 0, len(series))
	for _, d := range series {
		out = append(out, d.Date)
	}
	return out
}
