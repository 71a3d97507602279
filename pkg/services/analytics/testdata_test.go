package analytics

import (
	"fmt"
	"time"

	"github.com/de-tools/queue-atlas/pkg/models/domain"
)

func points(start string, values ...float64) []domain.DatePoint {
	day, err := time.Parse(dateLayout, start)
	if err != nil {
		panic(err)
	}
	out := make([]domain.DatePoint, 0, len(values))
	for i, v := range values {
		out = append(out, domain.DatePoint{Date: day.AddDate(0, 0, i).Format(dateLayout), Value: v})
	}
	return out
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func dayOf(i int) string {
	return fmt.Sprintf("2024-01-%02d", i)
}
