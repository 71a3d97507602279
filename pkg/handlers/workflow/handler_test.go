package workflow

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/de-tools/queue-atlas/pkg/services/config"
	"github.com/de-tools/queue-atlas/pkg/services/workflow"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockController struct {
	mock.Mock
}

func (m *mockController) Start(ctx context.Context, department string) error {
	return m.Called(ctx, department).Error(0)
}

func (m *mockController) Cancel(ctx context.Context, department string) error {
	return m.Called(ctx, department).Error(0)
}

func (m *mockController) Running(ctx context.Context) []string {
	return m.Called(ctx).Get(0).([]string)
}

func (m *mockController) Progress(ctx context.Context) map[string]workflow.RunnerProgress {
	return m.Called(ctx).Get(0).(map[string]workflow.RunnerProgress)
}

func setupRouter(ctrl *mockController) *chi.Mux {
	h := NewHandler(ctrl)
	router := chi.NewRouter()
	router.Get("/sync", h.Status)
	router.Post("/sync/{department}", h.Start)
	router.Delete("/sync/{department}", h.Cancel)
	return router
}

func TestHandler_Sync(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		path           string
		setupMock      func(*mockController)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:   "status",
			method: http.MethodGet,
			path:   "/sync",
			setupMock: func(m *mockController) {
				m.On("Running", mock.Anything).Return([]string{"licensing", "permits"})
				m.On("Progress", mock.Anything).Return(map[string]workflow.RunnerProgress{
					"licensing": {SyncedDays: 30, LastSyncedAt: time.Date(2024, 3, 31, 6, 0, 0, 0, time.UTC)},
				})
			},
			expectedStatus: http.StatusOK,
			expectedBody: `{
				"running": ["licensing", "permits"],
				"departments": [
					{"department": "licensing", "synced_days": 30, "last_synced_at": "2024-03-31T06:00:00Z"},
					{"department": "permits", "synced_days": 0}
				]
			}`,
		},
		{
			name:   "status while idle",
			method: http.MethodGet,
			path:   "/sync",
			setupMock: func(m *mockController) {
				m.On("Running", mock.Anything).Return([]string{})
				m.On("Progress", mock.Anything).Return(map[string]workflow.RunnerProgress{})
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"running": [], "departments": []}`,
		},
		{
			name:   "start",
			method: http.MethodPost,
			path:   "/sync/licensing",
			setupMock: func(m *mockController) {
				m.On("Start", mock.Anything, "licensing").Return(nil)
			},
			expectedStatus: http.StatusAccepted,
		},
		{
			name:   "start unknown department",
			method: http.MethodPost,
			path:   "/sync/ghost",
			setupMock: func(m *mockController) {
				m.On("Start", mock.Anything, "ghost").Return(fmt.Errorf("%w: ghost", config.ErrDepartmentNotFound))
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error": "department not found: ghost"}`,
		},
		{
			name:   "start twice",
			method: http.MethodPost,
			path:   "/sync/licensing",
			setupMock: func(m *mockController) {
				m.On("Start", mock.Anything, "licensing").Return(fmt.Errorf("%w: licensing", workflow.ErrAlreadyRunning))
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:   "cancel",
			method: http.MethodDelete,
			path:   "/sync/licensing",
			setupMock: func(m *mockController) {
				m.On("Cancel", mock.Anything, "licensing").Return(nil)
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name:   "cancel idle department",
			method: http.MethodDelete,
			path:   "/sync/permits",
			setupMock: func(m *mockController) {
				m.On("Cancel", mock.Anything, "permits").Return(fmt.Errorf("%w: permits", workflow.ErrNotRunning))
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := new(mockController)
			tt.setupMock(ctrl)
			rec := httptest.NewRecorder()

			setupRouter(ctrl).ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, rec.Body.String())
			}
			ctrl.AssertExpectations(t)
		})
	}
}
