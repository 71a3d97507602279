package report

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/de-tools/queue-atlas/pkg/adapters"
	"github.com/de-tools/queue-atlas/pkg/handlers"
	"github.com/de-tools/queue-atlas/pkg/models/api"
	"github.com/de-tools/queue-atlas/pkg/models/domain"
	"github.com/de-tools/queue-atlas/pkg/services/config"
	"github.com/de-tools/queue-atlas/pkg/services/report"
)

// DefaultDepartment labels ad-hoc analyses submitted without a department.
const DefaultDepartment = "default"

// maxPayloadBytes bounds POSTed history documents.
const maxPayloadBytes = 8 << 20

type Handler struct {
	reports report.Service
}

func NewHandler(reports report.Service) *Handler {
	return &Handler{reports: reports}
}

// Analyze runs the analysis over a posted history payload.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var payload api.HistoryPayload
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
	if err := decoder.Decode(&payload); err != nil {
		handlers.WriteError(w, r, http.StatusBadRequest, "invalid history payload", err)
		return
	}

	department := r.URL.Query().Get("department")
	if department == "" {
		department = DefaultDepartment
	}
	period := domain.ParsePeriod(r.URL.Query().Get("period"))

	result := h.reports.Analyze(r.Context(), department, period, adapters.MapAPIHistoryToDomain(payload))
	handlers.WriteJSON(w, r, http.StatusOK, adapters.MapDomainReportToAPI(result))
}

func (h *Handler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.reports.ListDepartments(r.Context())
	if err != nil {
		handlers.WriteError(w, r, http.StatusInternalServerError, "failed to list departments", err)
		return
	}

	response := make([]api.Department, 0, len(departments))
	for _, d := range departments {
		response = append(response, api.Department{ID: d.ID, Name: d.Name})
	}
	handlers.WriteJSON(w, r, http.StatusOK, response)
}

// GetReports fetches and analyzes the requested departments. Departments may
// be repeated or comma separated; none selects every registered department.
func (h *Handler) GetReports(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	period := domain.ParsePeriod(query.Get("period"))

	var ids []string
	for _, value := range query["department"] {
		for _, id := range strings.Split(value, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}

	result, err := h.reports.Generate(r.Context(), ids, period)
	if err != nil {
		if errors.Is(err, config.ErrDepartmentNotFound) {
			handlers.WriteError(w, r, http.StatusNotFound, err.Error(), err)
			return
		}
		handlers.WriteError(w, r, http.StatusInternalServerError, "failed to generate reports", err)
		return
	}

	response := api.ReportsResponse{
		Reports:             make([]api.Report, 0, len(result.Reports)),
		DegradedDepartments: result.Degraded,
	}
	for _, rep := range result.Reports {
		response.Reports = append(response.Reports, adapters.MapDomainReportToAPI(rep))
	}
	handlers.WriteJSON(w, r, http.StatusOK, response)
}
