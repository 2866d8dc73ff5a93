package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/docelar/docelar/internal/config"
	"github.com/docelar/docelar/internal/repository/sheets"
	"github.com/docelar/docelar/internal/store"
	syncsvc "github.com/docelar/docelar/internal/sync"
)

// Scheduler manages the periodic jobs: the remote pull that keeps the local
// document fresh, and the nightly ledger export.
type Scheduler struct {
	cron    *cron.Cron
	syncSvc *syncsvc.Service
	store   *store.Store
	ledger  sheets.Ledger
	cfg     config.SchedulerConfig
	logger  *zap.Logger
}

// NewScheduler creates a new scheduler instance. A nil ledger disables the
// export job.
func NewScheduler(cfg config.SchedulerConfig, syncSvc *syncsvc.Service, st *store.Store, ledger sheets.Ledger, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []cron.Option{}
	if loc, err := time.LoadLocation(cfg.Timezone); err == nil {
		opts = append(opts, cron.WithLocation(loc))
	} else {
		logger.Warn("invalid timezone, using local", zap.String("timezone", cfg.Timezone), zap.Error(err))
	}

	return &Scheduler{
		cron:    cron.New(opts...),
		syncSvc: syncSvc,
		store:   st,
		ledger:  ledger,
		cfg:     cfg,
		logger:  logger,
	}
}

// Start registers and starts the periodic jobs.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler")

	if _, err := s.cron.AddFunc(s.cfg.PullSchedule, s.runPull); err != nil {
		s.logger.Error("failed to schedule periodic pull", zap.Error(err))
	}

	if s.ledger != nil {
		if _, err := s.cron.AddFunc(s.cfg.LedgerSchedule, s.runLedgerExport); err != nil {
			s.logger.Error("failed to schedule ledger export", zap.Error(err))
		}
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) runPull() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	err := s.syncSvc.Pull(ctx)
	if errors.Is(err, syncsvc.ErrNoSession) {
		s.logger.Debug("periodic pull skipped, no session")
		return
	}
	if err != nil {
		s.logger.Error("periodic pull failed", zap.Error(err))
		return
	}
	s.logger.Debug("periodic pull applied")
}

func (s *Scheduler) runLedgerExport() {
	state := s.store.Snapshot()
	if state.User == nil {
		s.logger.Debug("ledger export skipped, no session")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.ledger.ExportDay(ctx, state, time.Now()); err != nil {
		s.logger.Error("ledger export failed", zap.Error(err))
		return
	}
	s.logger.Info("ledger export finished")
}
