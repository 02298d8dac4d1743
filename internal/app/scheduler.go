package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SelectionIdleTimeout is how long an untouched selection session is kept
const SelectionIdleTimeout = 30 * time.Minute

// Snapshotter is implemented by service.ScheduleService
type Snapshotter interface {
	Snapshot(ctx context.Context) error
}

// Pruner is implemented by selection.Registry
type Pruner interface {
	Prune(maxIdle time.Duration) int
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	snapshots Snapshotter
	sessions  Pruner
	interval  time.Duration
	logger    *zap.Logger
	stopChan  chan struct{}
	wg        sync.WaitGroup
}

// NewScheduler создаёт новый планировщик
func NewScheduler(snapshots Snapshotter, sessions Pruner, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		snapshots: snapshots,
		sessions:  sessions,
		interval:  interval,
		logger:    logger,
		stopChan:  make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler", zap.Duration("interval", s.interval))

	s.wg.Add(1)
	go s.runSnapshotTask(ctx)
}

// Stop останавливает фоновые задачи и сохраняет финальный снимок
func (s *Scheduler) Stop(ctx context.Context) {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
	s.wg.Wait()

	s.saveSnapshot(ctx)
}

// runSnapshotTask периодически сохраняет брони и чистит брошенные выделения
func (s *Scheduler) runSnapshotTask(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.tick(ctx)
		case <-s.stopChan:
			s.logger.Info("Snapshot task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Snapshot task cancelled")
			return
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	s.saveSnapshot(ctx)

	if pruned := s.sessions.Prune(SelectionIdleTimeout); pruned > 0 {
		s.logger.Info("Pruned idle selections", zap.Int("count", pruned))
	}
}

func (s *Scheduler) saveSnapshot(ctx context.Context) {
	if err := s.snapshots.Snapshot(ctx); err != nil {
		s.logger.Error("Failed to save bookings snapshot", zap.Error(err))
		return
	}
	s.logger.Debug("Bookings snapshot saved")
}
