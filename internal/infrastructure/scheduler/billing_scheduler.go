package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	appbilling "github.com/dormbill/backend/internal/application/billing"
)

// tickerInterval is the interval at which the scheduler evaluates its jobs
const tickerInterval = 1 * time.Minute

// Config holds the billing scheduler configuration
type Config struct {
	// Enabled indicates if the scheduler loop runs at all
	Enabled bool
	// OverdueHour is the hour (0-23) of the daily overdue sweep
	OverdueHour int
	// OverdueMinute is the minute (0-59) of the daily overdue sweep
	OverdueMinute int
}

// DefaultConfig returns the default scheduler configuration.
// The overdue sweep runs at 1:00 AM daily.
func DefaultConfig() Config {
	return Config{
		Enabled:       true,
		OverdueHour:   1,
		OverdueMinute: 0,
	}
}

// BillingScheduler drives the time-based billing jobs: the auto-send
// schedule evaluation every minute and the daily overdue sweep.
type BillingScheduler struct {
	config   Config
	schedule *appbilling.ScheduleService
	logger   *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewBillingScheduler creates a new billing scheduler
func NewBillingScheduler(config Config, schedule *appbilling.ScheduleService, logger *zap.Logger) *BillingScheduler {
	return &BillingScheduler{
		config:   config,
		schedule: schedule,
		logger:   logger.Named("billing-scheduler"),
	}
}

// Start starts the scheduler loop. Calling Start on a running scheduler
// is a no-op.
func (s *BillingScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning || !s.config.Enabled {
		if !s.config.Enabled {
			s.logger.Info("scheduler disabled by configuration")
		}
		return
	}
	s.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.run(ctx)

	s.logger.Info("scheduler started",
		zap.Int("overdue_hour", s.config.OverdueHour),
		zap.Int("overdue_minute", s.config.OverdueMinute))
}

// Stop stops the scheduler loop and waits for the current tick to finish
func (s *BillingScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return
	}
	s.cancel()
	s.wg.Wait()
	s.isRunning = false
	s.logger.Info("scheduler stopped")
}

func (s *BillingScheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(tickerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.tick(ctx, now)
		}
	}
}

// tick runs both jobs for one scheduler interval. A panic in either job
// is contained so the loop keeps running.
func (s *BillingScheduler) tick(ctx context.Context, now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scheduler tick panicked", zap.Any("panic", r))
		}
	}()

	result, err := s.schedule.Tick(ctx, now)
	if err != nil {
		s.logger.Error("auto-send evaluation failed", zap.Error(err))
	} else if result.Executed {
		s.logger.Info("auto-send run completed",
			zap.Int("sent", result.Send.Sent),
			zap.Int("skipped", result.Send.Skipped),
			zap.Int("failed", result.Send.Failed))
	}

	if now.Hour() == s.config.OverdueHour && now.Minute() == s.config.OverdueMinute {
		sweep, err := s.schedule.RunOverdueSweep(ctx, now)
		if err != nil {
			s.logger.Error("overdue sweep failed", zap.Error(err))
			return
		}
		s.logger.Info("overdue sweep completed", zap.Int("marked", sweep.MarkedOverdue))
	}
}
