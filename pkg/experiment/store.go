package experiment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/presilience-net/resilience-core/pkg/logger"
	"github.com/presilience-net/resilience-core/pkg/models"
	"github.com/presilience-net/resilience-core/pkg/utils"
)

// RunStore tracks experiment runs by ID. All methods are safe for concurrent
// use. Accessors return copies, so mutating a returned Run does not affect
// the stored one.
type RunStore struct {
	mu   sync.RWMutex
	runs map[string]*models.Run
	log  *slog.Logger
}

// NewRunStore creates an empty store.
func NewRunStore() *RunStore {
	return &RunStore{
		runs: make(map[string]*models.Run),
		log:  logger.Default,
	}
}

// Create registers a pending run for a strategy and returns a copy of it.
// The config map is stored as provided for later inspection.
func (s *RunStore) Create(strategy string, cfg map[string]interface{}) *models.Run {
	run := &models.Run{
		ID:       utils.GenerateRunID(),
		Status:   models.RunStatusPending,
		Strategy: strategy,
		Config:   cfg,
	}

	s.mu.Lock()
	s.runs[run.ID] = run
	s.mu.Unlock()

	s.log.Debug("run created", "run_id", run.ID, "strategy", strategy)
	c := *run
	return &c
}

// Get returns a copy of the run.
func (s *RunStore) Get(id string) (*models.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return nil, fmt.Errorf("run %s not found", id)
	}
	c := *run
	return &c, nil
}

// List returns copies of all runs sorted by ID. IDs carry a timestamp
// prefix, so the order is roughly chronological.
func (s *RunStore) List() []*models.Run {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Run, 0, len(s.runs))
	for _, run := range s.runs {
		c := *run
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Start moves a pending run to running.
func (s *RunStore) Start(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[id]
	if !ok {
		return fmt.Errorf("run %s not found", id)
	}
	if run.Status != models.RunStatusPending {
		return fmt.Errorf("run %s is %s, not pending", id, run.Status)
	}
	run.Start()
	s.log.Debug("run started", "run_id", id, "strategy", run.Strategy)
	return nil
}

// Complete moves a running run to completed and attaches its result.
func (s *RunStore) Complete(id string, result *models.RunResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[id]
	if !ok {
		return fmt.Errorf("run %s not found", id)
	}
	if run.Status != models.RunStatusRunning {
		return fmt.Errorf("run %s is %s, not running", id, run.Status)
	}
	run.Complete(result)
	s.log.Info("run completed", "run_id", id, "duration", run.Duration.String())
	return nil
}

// Fail moves a running run to failed and records the cause.
func (s *RunStore) Fail(id string, cause error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[id]
	if !ok {
		return fmt.Errorf("run %s not found", id)
	}
	if run.Status != models.RunStatusRunning {
		return fmt.Errorf("run %s is %s, not running", id, run.Status)
	}
	run.Fail(cause)
	s.log.Warn("run failed", "run_id", id, "error", run.Error)
	return nil
}

// Cancel marks a pending or running run as canceled.
func (s *RunStore) Cancel(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[id]
	if !ok {
		return fmt.Errorf("run %s not found", id)
	}
	if run.Status.IsTerminal() {
		return fmt.Errorf("run %s already %s", id, run.Status)
	}
	run.Cancel()
	s.log.Info("run canceled", "run_id", id)
	return nil
}

// ActiveCount returns how many runs are not yet terminal.
func (s *RunStore) ActiveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, run := range s.runs {
		if !run.Status.IsTerminal() {
			n++
		}
	}
	return n
}

// Prune removes terminal runs and returns how many were removed.
func (s *RunStore) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, run := range s.runs {
		if run.Status.IsTerminal() {
			delete(s.runs, id)
			n++
		}
	}
	return n
}

// StartRun marks the run as running and executes fn on a new goroutine,
// recording the outcome: Complete on success, Cancel when fn returns the
// context's cancellation error, Fail otherwise. The returned channel closes
// once the outcome is recorded.
func (s *RunStore) StartRun(ctx context.Context, id string, fn func(context.Context) (*models.RunResult, error)) (<-chan struct{}, error) {
	if err := s.Start(id); err != nil {
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		result, err := fn(ctx)
		switch {
		case err == nil:
			_ = s.Complete(id, result)
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			_ = s.Cancel(id)
		default:
			_ = s.Fail(id, err)
		}
	}()
	return done, nil
}
