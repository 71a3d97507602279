package domain

import "time"

// Report is the printable form of an analysis, laid out in sections.
type Report struct {
	Title    string
	Range    DateRange
	Sections []ReportSection
}

// DateRange represents the time range covered by the report
type DateRange struct {
	Start    time.Time
	End      time.Time
	Duration int // in days
}

// ReportSection represents a logical section in the report
type ReportSection struct {
	Title      string
	Summary    map[string]interface{}
	Details    []ReportDetail
	Narratives []Narrative
	Metadata   map[string]interface{}
}

// ReportDetail represents detailed information within a section
type ReportDetail struct {
	Name        string
	Value       interface{}
	Unit        string
	Description string
}
