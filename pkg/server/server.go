package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	reporthandlers "github.com/de-tools/queue-atlas/pkg/handlers/report"
	workflowhandlers "github.com/de-tools/queue-atlas/pkg/handlers/workflow"
	"github.com/de-tools/queue-atlas/pkg/metrics"
	atlasmiddleware "github.com/de-tools/queue-atlas/pkg/server/middleware"
	"github.com/de-tools/queue-atlas/pkg/services/report"
	"github.com/de-tools/queue-atlas/pkg/services/workflow"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const defaultShutdownTimeout = 10 * time.Second

type WebAPI struct {
	router          *chi.Mux
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Reports report.Service
	Sync    workflow.Controller // optional
	Metrics *metrics.Metrics
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

// ConfigureRouter mounts the JSON API under /api/v1 and Prometheus at /metrics.
func ConfigureRouter(logger zerolog.Logger, deps Dependencies) *chi.Mux {
	reportHandler := reporthandlers.NewHandler(deps.Reports)

	router := chi.NewRouter()
	router.Use(atlasmiddleware.Logger(&logger))
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/departments", reportHandler.ListDepartments)
		r.Get("/reports", reportHandler.GetReports)
		r.Post("/reports/analyze", reportHandler.Analyze)

		if deps.Sync != nil {
			syncHandler := workflowhandlers.NewHandler(deps.Sync)
			r.Get("/sync", syncHandler.Status)
			r.Post("/sync/{department}", syncHandler.Start)
			r.Delete("/sync/{department}", syncHandler.Cancel)
		}
	})

	if deps.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	return router
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	router := ConfigureRouter(logger, config.Dependencies)
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = defaultShutdownTimeout
	}

	return &WebAPI{
		router:          router,
		logger:          &logger,
		shutdownTimeout: config.ShutdownTimeout,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (w *WebAPI) Handler() http.Handler {
	return w.router
}

// Start serves until the listener fails, ctx is done or the process gets
// SIGINT/SIGTERM, then shuts down gracefully.
func (w *WebAPI) Start(ctx context.Context) error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
	case <-ctx.Done():
	}
	w.logger.Info().Msg("shutdown initiated")

	// Give outstanding requests a deadline for completion.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
	defer cancel()

	if err := w.server.Shutdown(shutdownCtx); err != nil {
		w.logger.Error().Err(err).Msg("graceful shutdown failed")
		return w.server.Close()
	}
	return nil
}
