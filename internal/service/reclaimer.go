package service

import (
	"context"
	"strconv"
	"time"

	"greenhouse_control/internal/logger"
	"greenhouse_control/internal/models"
	"greenhouse_control/internal/repository"
)

// defaultClaimTimeout bounds how long a command may stay claimed without a
// complete/fail report before it becomes retryable again.
const defaultClaimTimeout = 5 * time.Minute

// ReclaimerService periodically hands commands claimed by a dead poller
// back to the pending pool.
type ReclaimerService struct {
	commandRepo  repository.CommandRepo
	logRepo      repository.LogRepo
	claimTimeout time.Duration
	log          *logger.Logger
}

func NewReclaimerService(commandRepo repository.CommandRepo, logRepo repository.LogRepo, cfg QueueConfig, log *logger.Logger) *ReclaimerService {
	timeout := cfg.ClaimTimeout
	if timeout <= 0 {
		timeout = defaultClaimTimeout
	}
	return &ReclaimerService{
		commandRepo:  commandRepo,
		logRepo:      logRepo,
		claimTimeout: timeout,
		log:          log,
	}
}

var _ Reclaimer = (*ReclaimerService)(nil)

// Run ticks at the given interval until ctx is canceled.
func (s *ReclaimerService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			s.reclaimOnce(ctx, now)
		}
	}
}

func (s *ReclaimerService) reclaimOnce(ctx context.Context, now time.Time) {
	deadline := now.UTC().Add(-s.claimTimeout)
	n, err := s.commandRepo.ReclaimStale(ctx, deadline)
	if err != nil {
		if s.log != nil {
			s.log.Errorw("command_reclaim_failed", "err", err)
		}
		return
	}
	if n == 0 {
		return
	}
	if s.log != nil {
		s.log.Warnw("commands_reclaimed", "count", n, "claim_timeout", s.claimTimeout)
	}
	_ = s.logRepo.Append(ctx, models.LogEntry{
		Level:   models.LogWarning,
		Message: "Reclaimed stuck commands: " + strconv.FormatInt(n, 10),
	})
}
