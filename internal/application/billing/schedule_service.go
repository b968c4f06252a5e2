package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dormbill/backend/internal/domain/billing"
	"github.com/dormbill/backend/internal/domain/shared"
)

// ScheduleService administers the auto-send schedule and executes the
// scheduler-driven runs.
type ScheduleService struct {
	schedules billing.AutoSendConfigRepository
	invoices  *InvoiceService
	settings  *SettingsService
	runGuard  shared.RunGuardStore
	activity  billing.ActivityLogger
	logger    *zap.Logger
}

// NewScheduleService creates the schedule service. runGuard may be nil;
// the lastRunAt replay window still applies.
func NewScheduleService(
	schedules billing.AutoSendConfigRepository,
	invoices *InvoiceService,
	settings *SettingsService,
	runGuard shared.RunGuardStore,
	activity billing.ActivityLogger,
	logger *zap.Logger,
) *ScheduleService {
	return &ScheduleService{
		schedules: schedules,
		invoices:  invoices,
		settings:  settings,
		runGuard:  runGuard,
		activity:  activity,
		logger:    logger.Named("schedule-service"),
	}
}

// GetAutoSendConfig returns the persisted schedule, seeding the default
// row on first use.
func (s *ScheduleService) GetAutoSendConfig(ctx context.Context) (*billing.AutoSendConfig, error) {
	cfg, err := s.schedules.Get(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			cfg = billing.DefaultAutoSendConfig()
			if err := s.schedules.Save(ctx, cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, err
	}
	return cfg, nil
}

// UpdateAutoSendConfig replaces the schedule
func (s *ScheduleService) UpdateAutoSendConfig(ctx context.Context, req AutoSendConfigRequest) (*billing.AutoSendConfig, error) {
	cfg, err := s.GetAutoSendConfig(ctx)
	if err != nil {
		return nil, err
	}
	cfg.Enabled = req.Enabled
	cfg.DayOfMonth = req.DayOfMonth
	cfg.Hour = req.Hour
	cfg.Minute = req.Minute
	cfg.Timezone = req.Timezone
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Touch()
	if err := s.schedules.Save(ctx, cfg); err != nil {
		return nil, err
	}
	s.activity.Record(ctx, "settings.autosend.updated", "auto_send_config", cfg.ID, "")
	return cfg, nil
}

// Tick evaluates the schedule against now and runs auto-send when it
// matches. Called once per scheduler tick.
func (s *ScheduleService) Tick(ctx context.Context, now time.Time) (*AutoSendRunResult, error) {
	cfg, err := s.GetAutoSendConfig(ctx)
	if err != nil {
		return nil, err
	}
	dormDueDay := 0
	if dormCfg, err := s.settings.GetDormConfig(ctx); err == nil {
		dormDueDay = dormCfg.DueDay
	}
	if !cfg.ShouldFire(now, dormDueDay) {
		return &AutoSendRunResult{Executed: false, Reason: "schedule not matched"}, nil
	}
	return s.RunAutoSend(ctx, now)
}

// RunAutoSend sends the current period's draft invoices. Two guards keep
// the run from firing twice: the persisted lastRunAt replay window and,
// when configured, a shared run-guard key claimed for the current minute.
func (s *ScheduleService) RunAutoSend(ctx context.Context, now time.Time) (*AutoSendRunResult, error) {
	cfg, err := s.GetAutoSendConfig(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.WithinReplayWindow(now, billing.ReplayWindow) {
		s.logger.Info("auto-send skipped, last run inside replay window",
			zap.Timep("last_run_at", cfg.LastRunAt))
		return &AutoSendRunResult{Executed: false, Reason: "replay window"}, nil
	}
	if s.runGuard != nil {
		key := fmt.Sprintf("autosend:%s", now.In(cfg.Location()).Format("2006-01-02T15:04"))
		claimed, err := s.runGuard.MarkProcessed(ctx, key, 2*billing.ReplayWindow)
		if err != nil {
			s.logger.Warn("run guard unavailable, relying on replay window", zap.Error(err))
		} else if !claimed {
			return &AutoSendRunResult{Executed: false, Reason: "claimed by another instance"}, nil
		}
	}

	local := now.In(cfg.Location())
	sendResult, err := s.invoices.SendAll(ctx, int(local.Month()), local.Year())
	if err != nil {
		return nil, err
	}

	cfg.MarkRun(now)
	if err := s.schedules.Save(ctx, cfg); err != nil {
		return nil, err
	}
	s.activity.Record(ctx, "autosend.executed", "auto_send_config", cfg.ID,
		fmt.Sprintf("sent %d skipped %d failed %d", sendResult.Sent, sendResult.Skipped, sendResult.Failed))
	s.logger.Info("auto-send executed",
		zap.Int("sent", sendResult.Sent),
		zap.Int("skipped", sendResult.Skipped),
		zap.Int("failed", sendResult.Failed))
	return &AutoSendRunResult{Executed: true, Send: *sendResult}, nil
}

// RunOverdueSweep marks every SENT invoice past its due date as OVERDUE
func (s *ScheduleService) RunOverdueSweep(ctx context.Context, now time.Time) (*SweepResult, error) {
	return s.invoices.MarkOverdue(ctx, now)
}
