package workflow

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/de-tools/queue-atlas/pkg/models/domain"
	"github.com/de-tools/queue-atlas/pkg/services/config"
	"github.com/rs/zerolog"
)

var (
	ErrAlreadyRunning = errors.New("sync already running")
	ErrNotRunning     = errors.New("sync not running")
)

// Controller manages one background sync runner per department.
type Controller interface {
	Start(ctx context.Context, department string) error
	Cancel(ctx context.Context, department string) error
	Running(ctx context.Context) []string
	Progress(ctx context.Context) map[string]RunnerProgress
}

type runnerDescriptor struct {
	cancelFunc context.CancelFunc
	runner     *Runner
	tracked    chan struct{}
}

type DefaultController struct {
	registry config.Registry
	deps     Dependencies
	config   RunnerConfig

	mu      sync.Mutex
	runners map[string]runnerDescriptor

	progressMu sync.RWMutex
	progress   map[string]RunnerProgress
}

func NewController(registry config.Registry, deps Dependencies, config RunnerConfig) *DefaultController {
	return &DefaultController{
		registry: registry,
		deps:     deps,
		config:   config,
		runners:  make(map[string]runnerDescriptor),
		progress: make(map[string]RunnerProgress),
	}
}

// Init resumes the runners persisted by earlier Start calls. Departments that
// are no longer registered are skipped.
func (ctrl *DefaultController) Init(ctx context.Context) error {
	if ctrl.deps.States == nil {
		return nil
	}
	logger := zerolog.Ctx(ctx)

	states, err := ctrl.deps.States.ListSyncStates(ctx)
	if err != nil {
		return err
	}

	for _, state := range states {
		d, err := ctrl.registry.GetDepartment(ctx, state.Department)
		if err != nil {
			logger.Warn().Err(err).Str("department", state.Department).Msg("skipping persisted sync")
			continue
		}
		ctrl.startRunner(ctx, d)
	}
	return nil
}

// StartAll starts a runner for every registered department.
func (ctrl *DefaultController) StartAll(ctx context.Context) error {
	departments, err := ctrl.registry.ListDepartments(ctx)
	if err != nil {
		return err
	}

	for _, d := range departments {
		if err := ctrl.Start(ctx, d.ID); err != nil && !errors.Is(err, ErrAlreadyRunning) {
			return err
		}
	}
	return nil
}

func (ctrl *DefaultController) Start(ctx context.Context, department string) error {
	d, err := ctrl.registry.GetDepartment(ctx, department)
	if err != nil {
		return err
	}
	if ctrl.isRunning(d.ID) {
		return fmt.Errorf("%w: %s", ErrAlreadyRunning, d.ID)
	}

	if ctrl.deps.States != nil {
		if _, err := ctrl.deps.States.CreateSyncState(ctx, d.ID); err != nil {
			return err
		}
	}

	if !ctrl.startRunner(ctx, d) {
		return fmt.Errorf("%w: %s", ErrAlreadyRunning, d.ID)
	}
	return nil
}

func (ctrl *DefaultController) Cancel(ctx context.Context, department string) error {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()

	desc, ok := ctrl.runners[department]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotRunning, department)
	}
	ctrl.stopRunner(department, desc)

	if ctrl.deps.States != nil {
		return ctrl.deps.States.DeleteSyncState(ctx, department)
	}
	return nil
}

func (ctrl *DefaultController) Running(_ context.Context) []string {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()

	ids := make([]string, 0, len(ctrl.runners))
	for id := range ctrl.runners {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Stop cancels every runner and waits for them to exit. Persisted state is
// kept so the runners resume on the next Init.
func (ctrl *DefaultController) Stop() {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()

	for id, desc := range ctrl.runners {
		ctrl.stopRunner(id, desc)
	}
}

// Progress returns the last successful sync of every running department.
// Departments that have not completed a sync yet are absent.
func (ctrl *DefaultController) Progress(_ context.Context) map[string]RunnerProgress {
	ctrl.progressMu.RLock()
	defer ctrl.progressMu.RUnlock()

	out := make(map[string]RunnerProgress, len(ctrl.progress))
	for id, p := range ctrl.progress {
		out[id] = p
	}
	return out
}

// stopRunner must be called with ctrl.mu held.
func (ctrl *DefaultController) stopRunner(id string, desc runnerDescriptor) {
	desc.cancelFunc()
	<-desc.runner.Done()
	<-desc.tracked
	delete(ctrl.runners, id)

	ctrl.progressMu.Lock()
	delete(ctrl.progress, id)
	ctrl.progressMu.Unlock()
}

func (ctrl *DefaultController) track(id string, runner *Runner, tracked chan<- struct{}) {
	defer close(tracked)
	for p := range runner.Progress() {
		ctrl.progressMu.Lock()
		ctrl.progress[id] = p
		ctrl.progressMu.Unlock()
	}
}

func (ctrl *DefaultController) isRunning(id string) bool {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()

	_, ok := ctrl.runners[id]
	return ok
}

func (ctrl *DefaultController) startRunner(ctx context.Context, d domain.Department) bool {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()

	if _, ok := ctrl.runners[d.ID]; ok {
		return false
	}

	// Runners outlive the request that started them.
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	runner := NewRunner(d, ctrl.deps, ctrl.config)
	tracked := make(chan struct{})
	ctrl.runners[d.ID] = runnerDescriptor{cancelFunc: cancel, runner: runner, tracked: tracked}

	zerolog.Ctx(ctx).Info().Str("department", d.ID).Msg("department sync started")
	go ctrl.track(d.ID, runner, tracked)
	go runner.Run(runCtx)
	return true
}
