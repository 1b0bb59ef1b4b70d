package statecleanup

import (
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

type stateManager interface {
	CleanupExpired() int
}

// Worker выметает протухшие состояния диалогов: брошенный на полпути
// диалог не должен держать память вечно.
type Worker struct {
	states stateManager
	logger *slog.Logger
	cron   *cron.Cron
}

func NewWorker(states stateManager, logger *slog.Logger) *Worker {
	return &Worker{
		states: states,
		logger: logger,
		cron:   cron.New(),
	}
}

// Name returns the worker name
func (w *Worker) Name() string {
	return "statecleanup"
}

// Start starts the worker
func (w *Worker) Start() error {
	_, err := w.cron.AddFunc("@every 10m", func() {
		if removed := w.states.CleanupExpired(); removed > 0 {
			w.logger.Info("Expired dialog states removed", "count", removed)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule statecleanup worker: %w", err)
	}

	w.cron.Start()
	return nil
}

// Stop stops the worker
func (w *Worker) Stop() {
	w.cron.Stop()
}
