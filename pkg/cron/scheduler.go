// Package cron schedules background maintenance for the classifier
// corpus.
package cron

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/budgetwise/statements/internal/domain/classify"
)

// Scheduler periodically compacts the classifier corpus held by a store,
// keeping trained keyword lists deduplicated and bounded without blocking
// classification.
type Scheduler struct {
	cron     *cron.Cron
	store    *classify.Store
	schedule string
	logger   *slog.Logger
}

// NewScheduler builds a scheduler around the given store and cron
// expression, e.g. "0 2 * * *" for 2 AM daily.
func NewScheduler(store *classify.Store, schedule string, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	c := cron.New(cron.WithLogger(
		cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug)),
	))
	return &Scheduler{cron: c, store: store, schedule: schedule, logger: logger}
}

// Start registers the compaction job and starts the scheduler.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.compactCorpus); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("corpus compaction scheduled", slog.String("schedule", s.schedule))
	return nil
}

// Stop stops the scheduler and returns a context that is done once any
// running job finishes.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) compactCorpus() {
	if err := s.store.Compact(); err != nil {
		s.logger.Error("corpus compaction failed", slog.Any("error", err))
		return
	}
	s.logger.Info("corpus compacted")
}
