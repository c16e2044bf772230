package maintenance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"sync-status-service/internal/config"
	"sync-status-service/internal/logger"
)

// TransferReaper is the slice of the store the sweeper writes through.
type TransferReaper interface {
	DeactivateTransferSessionsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Sweeper periodically marks transfer sessions inactive once their
// last activity falls outside the configured window. It runs beside
// the read-only status path, never inside it.
type Sweeper struct {
	cfg     config.SweeperConfig
	store   TransferReaper
	cron    *cron.Cron
	entryID cron.EntryID
}

func NewSweeper(cfg config.SweeperConfig, store TransferReaper) *Sweeper {
	return &Sweeper{
		cfg:   cfg,
		store: store,
		cron:  cron.New(),
	}
}

func (s *Sweeper) Start() {
	if !s.cfg.Enabled {
		logger.Log.Info("Sweeper is disabled")
		return
	}

	logger.Log.Info("Starting sweeper", zap.String("interval", s.cfg.Interval))

	id, err := s.cron.AddFunc(s.cfg.Interval, func() {
		s.sweep()
	})

	if err != nil {
		logger.Log.Error("Failed to schedule sweep", zap.Error(err))
		return
	}

	s.entryID = id
	s.cron.Start()
}

func (s *Sweeper) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
	logger.Log.Info("Stopped sweeper")
}

func (s *Sweeper) sweep() {
	runID := uuid.New().String()
	cutoff := time.Now().Add(-s.cfg.GetInactiveAfter())

	n, err := s.store.DeactivateTransferSessionsBefore(context.Background(), cutoff)
	if err != nil {
		logger.Log.Error("Sweep failed", zap.String("runID", runID), zap.Error(err))
		return
	}

	logger.Log.Info("Swept stale transfer sessions",
		zap.String("runID", runID),
		zap.Time("cutoff", cutoff),
		zap.Int64("deactivated", n),
	)
}
