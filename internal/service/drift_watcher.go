package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DriftChecker compares the bank store with its rolling backup.
type DriftChecker interface {
	CheckStoreDrift(ctx context.Context) (bool, error)
}

// DriftWatcher periodically checks whether the bank was edited outside the admin workflow.
type DriftWatcher struct {
	checker  DriftChecker
	schedule string
	logger   *zap.Logger
}

// NewDriftWatcher creates a new DriftWatcher. schedule is a cron expression such as "@every 15m".
func NewDriftWatcher(checker DriftChecker, schedule string, logger *zap.Logger) *DriftWatcher {
	return &DriftWatcher{
		checker:  checker,
		schedule: schedule,
		logger:   logger,
	}
}

// Start runs the scheduler until ctx is done.
func (w *DriftWatcher) Start(ctx context.Context) error {
	c := cron.New(cron.WithLocation(time.UTC))

	if _, err := c.AddFunc(w.schedule, func() { w.Check(ctx) }); err != nil {
		return fmt.Errorf("add drift job %q: %w", w.schedule, err)
	}

	c.Start()
	w.logger.Info("drift watcher started", zap.String("schedule", w.schedule))

	<-ctx.Done()

	<-c.Stop().Done()
	w.logger.Info("drift watcher stopped")
	return nil
}

// Check runs one drift check and logs the outcome. It reports whether drift was found.
func (w *DriftWatcher) Check(ctx context.Context) bool {
	drifted, err := w.checker.CheckStoreDrift(ctx)
	if err != nil {
		w.logger.Error("drift check failed", zap.Error(err))
		return false
	}
	if drifted {
		w.logger.Warn("question bank differs from the last saved backup")
	} else {
		w.logger.Debug("question bank matches the last saved backup")
	}
	return drifted
}
