package workflow

import (
	"errors"
	"net/http"

	"github.com/de-tools/queue-atlas/pkg/handlers"
	"github.com/de-tools/queue-atlas/pkg/models/api"
	"github.com/de-tools/queue-atlas/pkg/services/config"
	"github.com/de-tools/queue-atlas/pkg/services/workflow"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	controller workflow.Controller
}

func NewHandler(controller workflow.Controller) *Handler {
	return &Handler{controller: controller}
}

// Status lists the running departments with their last completed sync.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	running := h.controller.Running(r.Context())
	progress := h.controller.Progress(r.Context())

	status := api.SyncStatus{
		Running:     running,
		Departments: make([]api.SyncDepartment, 0, len(running)),
	}
	for _, id := range running {
		d := api.SyncDepartment{Department: id}
		if p, ok := progress[id]; ok {
			lastSyncedAt := p.LastSyncedAt.UTC()
			d.SyncedDays = p.SyncedDays
			d.LastSyncedAt = &lastSyncedAt
		}
		status.Departments = append(status.Departments, d)
	}
	handlers.WriteJSON(w, r, http.StatusOK, status)
}

func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	department := chi.URLParam(r, "department")

	err := h.controller.Start(r.Context(), department)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusAccepted)
	case errors.Is(err, config.ErrDepartmentNotFound):
		handlers.WriteError(w, r, http.StatusNotFound, err.Error(), err)
	case errors.Is(err, workflow.ErrAlreadyRunning):
		handlers.WriteError(w, r, http.StatusConflict, err.Error(), err)
	default:
		handlers.WriteError(w, r, http.StatusInternalServerError, "failed to start sync", err)
	}
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	department := chi.URLParam(r, "department")

	err := h.controller.Cancel(r.Context(), department)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, workflow.ErrNotRunning):
		handlers.WriteError(w, r, http.StatusNotFound, err.Error(), err)
	default:
		handlers.WriteError(w, r, http.StatusInternalServerError, "failed to cancel sync", err)
	}
}
