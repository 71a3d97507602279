package commands

import (
	"github.com/de-tools/queue-atlas/pkg/models/domain"
	"github.com/de-tools/queue-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/queue-atlas/pkg/services/analytics"
	"github.com/spf13/cobra"
)

type AnalyzeCmd struct {
	input      string
	period     string
	department string
	format     string
	analyzer   *analytics.Analyzer
	reporter   *export.Reporter
}

func NewAnalyzeCmd(analyzer *analytics.Analyzer, reporter *export.Reporter) *cobra.Command {
	ac := &AnalyzeCmd{analyzer: analyzer, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a history payload file",
		RunE:  ac.run,
	}

	cmd.Flags().StringVar(&ac.input, "input", "", "Path to a JSON history payload")
	cmd.Flags().StringVar(&ac.period, "period", "month", "Period: day, week, month, 6months or year")
	cmd.Flags().StringVar(&ac.department, "department", "default", "Department label for the report")
	cmd.Flags().StringVar(&ac.format, "format", FormatText, "Output format: text or json")

	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func (ac *AnalyzeCmd) run(_ *cobra.Command, _ []string) error {
	ds, err := readPayload(ac.input)
	if err != nil {
		return err
	}

	report := ac.analyzer.Analyze(ac.department, domain.ParsePeriod(ac.period), ds)
	return render(ac.reporter, ac.format, []domain.AnalysisReport{report})
}
