package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/Denn4ik2010/online-shop/shared/metrics"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const jobTimeout = time.Minute

type TokenPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

type LimiterCleaner interface {
	Cleanup(maxIdle time.Duration) int
}

type Config struct {
	TokenPurgeSchedule string
	LimiterSchedule    string
	LimiterMaxIdle     time.Duration
}

// Scheduler runs periodic housekeeping: expired refresh tokens and idle
// rate limiter entries.
type Scheduler struct {
	cron    *cron.Cron
	tokens  TokenPurger
	limiter LimiterCleaner
	maxIdle time.Duration
	log     *zap.SugaredLogger
	ctx     context.Context
}

func NewScheduler(cfg Config, tokens TokenPurger, limiter LimiterCleaner, log *zap.Logger) (*Scheduler, error) {
	if cfg.LimiterSchedule == "" {
		cfg.LimiterSchedule = "@every 10m"
	}
	if cfg.LimiterMaxIdle == 0 {
		cfg.LimiterMaxIdle = 10 * time.Minute
	}

	s := &Scheduler{
		cron:    cron.New(),
		tokens:  tokens,
		limiter: limiter,
		maxIdle: cfg.LimiterMaxIdle,
		log:     log.Sugar().With("component", "jobs"),
		ctx:     context.Background(),
	}

	if _, err := s.cron.AddFunc(cfg.TokenPurgeSchedule, func() { s.PurgeTokens(s.ctx) }); err != nil {
		return nil, fmt.Errorf("invalid token purge schedule %q: %w", cfg.TokenPurgeSchedule, err)
	}
	if limiter != nil {
		if _, err := s.cron.AddFunc(cfg.LimiterSchedule, s.CleanLimiter); err != nil {
			return nil, fmt.Errorf("invalid limiter schedule %q: %w", cfg.LimiterSchedule, err)
		}
	}
	return s, nil
}

// Run starts the cron loop and blocks until ctx is done, then waits for
// running jobs.
func (s *Scheduler) Run(ctx context.Context) error {
	s.ctx = ctx
	s.cron.Start()
	s.log.Infow("scheduler started", "jobs", len(s.cron.Entries()))

	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.log.Infow("scheduler stopped")
	return nil
}

func (s *Scheduler) PurgeTokens(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	n, err := s.tokens.PurgeExpired(ctx)
	if err != nil {
		s.log.Errorw("failed to purge refresh tokens", "error", err)
		return
	}
	metrics.RecordTokensPurged(n)
	if n > 0 {
		s.log.Infow("purged expired refresh tokens", "count", n)
	}
}

func (s *Scheduler) CleanLimiter() {
	if n := s.limiter.Cleanup(s.maxIdle); n > 0 {
		s.log.Debugw("dropped idle rate limiters", "count", n)
	}
}
