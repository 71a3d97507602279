package api

import "time"

type KpiSnapshot struct {
	TotalTransactions  uint    `json:"total_transactions"`
	TotalCanceled      uint    `json:"total_canceled"`
	AvgWaitMinutes     float64 `json:"avg_wait_minutes"`
	AvgServiceMinutes  float64 `json:"avg_service_minutes"`
	AbandonmentRatePct float64 `json:"abandonment_rate_pct"`
	SLACompliancePct   float64 `json:"sla_compliance_pct"`
	PeakDay            string  `json:"peak_day"`
	PeakDayCount       uint    `json:"peak_day_count"`
	WorstDay           string  `json:"worst_day"`
	WorstDayWait       float64 `json:"worst_day_wait"`
	DaysCovered        int     `json:"days_covered"`
}

type TrendResult struct {
	Metric        string  `json:"metric"`
	PercentChange float64 `json:"percent_change"`
	Direction     string  `json:"direction"`
}

type Bucket struct {
	Label string `json:"label"`
	Count uint   `json:"count"`
}

type PatternSummary struct {
	PeakDay        string   `json:"peak_day"`
	PeakDayCount   uint     `json:"peak_day_count"`
	WorstDay       string   `json:"worst_day"`
	WorstDayWait   float64  `json:"worst_day_wait"`
	BucketKind     string   `json:"bucket_kind"`
	TopBucketLabel string   `json:"top_bucket_label"`
	TopBucketCount uint     `json:"top_bucket_count"`
	Buckets        []Bucket `json:"buckets"`
	Variation      string   `json:"variation"`
}

type Narrative struct {
	Severity string `json:"severity"`
	Text     string `json:"text"`
}

type Report struct {
	ID                  string               `json:"id"`
	Department          string               `json:"department"`
	Period              string               `json:"period"`
	GeneratedAt         time.Time            `json:"generated_at"`
	KPIs                KpiSnapshot          `json:"kpis"`
	Trends              []TrendResult        `json:"trends"`
	Patterns            PatternSummary       `json:"patterns"`
	Insights            []Narrative          `json:"insights"`
	Recommendations     []Narrative          `json:"recommendations"`
	CancellationReasons []CancellationReason `json:"cancellation_reasons"`
	Notes               []string             `json:"notes"`
}

type ReportsResponse struct {
	Reports             []Report `json:"reports"`
	DegradedDepartments []string `json:"degraded_departments"`
}

type Department struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type SyncStatus struct {
	Running     []string         `json:"running"`
	Departments []SyncDepartment `json:"departments"`
}

// SyncDepartment is the last completed sync of a running department.
// LastSyncedAt is nil until the first sync finishes.
type SyncDepartment struct {
	Department   string     `json:"department"`
	SyncedDays   int        `json:"synced_days"`
	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`
}
