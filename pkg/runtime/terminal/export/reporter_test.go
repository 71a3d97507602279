package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/de-tools/queue-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *domain.Report {
	return &domain.Report{
		Title: "Queue report for licensing, this week",
		Range: domain.DateRange{
			Start:    time.Date(2024, 3, 25, 0, 0, 0, 0, time.UTC),
			End:      time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
			Duration: 7,
		},
		Sections: []domain.ReportSection{
			{
				Title:   "Key Performance Indicators",
				Summary: map[string]interface{}{"Department": "licensing"},
				Details: []domain.ReportDetail{
					{Name: "Total Transactions", Value: uint(40), Description: "Transactions served"},
				},
			},
			{
				Title:      "Recommendations",
				Narratives: []domain.Narrative{{Severity: domain.SeverityWarning, Text: "Add a second counter."}},
			},
		},
	}
}

func TestReporter_Handle(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, NewReporter(&buf).Handle(sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "Queue report for licensing, this week (7 days)")
	assert.Contains(t, out, "Period: 2024-03-25 to 2024-03-31")
	assert.Contains(t, out, "=== Key Performance Indicators ===")
	assert.Contains(t, out, "Department: licensing")
	assert.Contains(t, out, "| Total Transactions           | 40             |        | Transactions served")
	assert.Contains(t, out, "=== Recommendations ===\n- [warning] Add a second counter.")
}

func TestReporter_HandleJSON(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, NewReporter(&buf).HandleJSON(map[string]int{"total": 40}))

	assert.JSONEq(t, `{"total": 40}`, buf.String())
}
