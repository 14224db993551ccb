package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// refreshWindow is how close to expiry the warm-up job renews the token
const refreshWindow = 10 * time.Minute

// TokenRefresher renews the upstream credential ahead of expiry
type TokenRefresher interface {
	Refresh(ctx context.Context, within time.Duration) error
}

// Scheduler runs background jobs on cron schedules
type Scheduler struct {
	cron    *cron.Cron
	log     *logrus.Logger
	timeout time.Duration
}

// New creates a scheduler; jobs run with at most timeout each
func New(log *logrus.Logger, timeout time.Duration) *Scheduler {
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cron.PrintfLogger(log)),
			cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(log))),
		),
		log:     log,
		timeout: timeout,
	}
}

// AddTokenWarmup schedules the credential renewal job. An empty spec
// disables it.
func (s *Scheduler) AddTokenWarmup(spec string, tokens TokenRefresher) error {
	if spec == "" {
		s.log.Info("Token warm-up disabled")
		return nil
	}
	if _, err := s.cron.AddFunc(spec, func() { s.warmToken(tokens) }); err != nil {
		return fmt.Errorf("invalid token warm-up schedule %q: %w", spec, err)
	}
	s.log.Infof("Token warm-up scheduled: %s", spec)
	return nil
}

func (s *Scheduler) warmToken(tokens TokenRefresher) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := tokens.Refresh(ctx, refreshWindow); err != nil {
		s.log.Warnf("Token warm-up failed: %v", err)
		return
	}
	s.log.Debug("Token warm-up done")
}

// Start runs the scheduled jobs in the background
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for running jobs until ctx is done
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}
