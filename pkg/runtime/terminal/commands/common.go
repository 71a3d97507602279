package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/de-tools/queue-atlas/pkg/adapters"
	"github.com/de-tools/queue-atlas/pkg/models/api"
	"github.com/de-tools/queue-atlas/pkg/models/domain"
	"github.com/de-tools/queue-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/queue-atlas/pkg/services/config"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// Globals are the flags shared by every command.
type Globals struct {
	ConfigPath      string
	DepartmentsPath string
}

func (g *Globals) Settings() (*config.Settings, error) {
	settings, err := config.LoadSettings(g.ConfigPath)
	if err != nil {
		return nil, err
	}
	if g.DepartmentsPath != "" {
		settings.DepartmentsPath = g.DepartmentsPath
	}
	return settings, nil
}

func (g *Globals) Registry(settings *config.Settings) (config.Registry, error) {
	registry, err := config.NewRegistry(settings.DepartmentsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load departments: %w", err)
	}
	return registry, nil
}

func readPayload(path string) (domain.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var payload api.HistoryPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return domain.Dataset{}, fmt.Errorf("invalid history payload in %s: %w", path, err)
	}
	return adapters.MapAPIHistoryToDomain(payload), nil
}

func render(reporter *export.Reporter, format string, reports []domain.AnalysisReport) error {
	switch format {
	case FormatJSON:
		out := make([]api.Report, 0, len(reports))
		for _, r := range reports {
			out = append(out, adapters.MapDomainReportToAPI(r))
		}
		if len(out) == 1 {
			return reporter.HandleJSON(out[0])
		}
		return reporter.HandleJSON(out)
	case FormatText:
		for _, r := range reports {
			if err := reporter.Handle(adapters.MapAnalysisToReport(r)); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported format %q, expected %s or %s", format, FormatText, FormatJSON)
	}
}
