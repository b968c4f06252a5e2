package billing

import (
	"time"

	"github.com/dormbill/backend/internal/domain/shared"
)

// ReplayWindow is the minimum gap between two auto-send runs. A run whose
// lastRunAt falls inside this window is skipped to absorb overlapping ticks
// and clock jitter.
const ReplayWindow = 60 * time.Second

// AutoSendConfig is the persisted auto-send schedule. A single row exists
// and every scheduler tick reads it.
type AutoSendConfig struct {
	shared.BaseEntity
	Enabled    bool       `json:"enabled"`
	DayOfMonth int        `json:"day_of_month"`
	Hour       int        `json:"hour"`
	Minute     int        `json:"minute"`
	Timezone   string     `json:"timezone"`
	LastRunAt  *time.Time `json:"last_run_at,omitempty"`
}

// DefaultAutoSendConfig returns a disabled schedule
func DefaultAutoSendConfig() *AutoSendConfig {
	return &AutoSendConfig{
		BaseEntity: shared.NewBaseEntity(),
		Enabled:    false,
		DayOfMonth: 1,
		Hour:       9,
		Minute:     0,
		Timezone:   "Asia/Bangkok",
	}
}

// Validate checks the schedule invariants. DayOfMonth stops at 28 so the
// schedule fires in every month.
func (c *AutoSendConfig) Validate() error {
	if c.DayOfMonth < 1 || c.DayOfMonth > 28 {
		return shared.NewDomainError("INVALID_INPUT", "day of month must be between 1 and 28")
	}
	if c.Hour < 0 || c.Hour > 23 {
		return shared.NewDomainError("INVALID_INPUT", "hour must be between 0 and 23")
	}
	if c.Minute < 0 || c.Minute > 59 {
		return shared.NewDomainError("INVALID_INPUT", "minute must be between 0 and 59")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return shared.NewDomainError("INVALID_INPUT", "unknown timezone "+c.Timezone)
	}
	return nil
}

// Location resolves the configured timezone, falling back to UTC
func (c *AutoSendConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// EffectiveDay returns the day the schedule fires on. When the schedule
// carries no day of its own, the dormitory due day stands in if it fits a
// every-month schedule.
func (c *AutoSendConfig) EffectiveDay(dormDueDay int) int {
	if c.DayOfMonth >= 1 && c.DayOfMonth <= 28 {
		return c.DayOfMonth
	}
	if dormDueDay >= 1 && dormDueDay <= 28 {
		return dormDueDay
	}
	return 1
}

// ShouldFire reports whether the wall clock in the configured timezone
// matches the schedule exactly, to the minute.
func (c *AutoSendConfig) ShouldFire(now time.Time, dormDueDay int) bool {
	if !c.Enabled {
		return false
	}
	local := now.In(c.Location())
	return local.Day() == c.EffectiveDay(dormDueDay) &&
		local.Hour() == c.Hour &&
		local.Minute() == c.Minute
}

// WithinReplayWindow reports whether a run already happened within the
// replay window of now.
func (c *AutoSendConfig) WithinReplayWindow(now time.Time, window time.Duration) bool {
	if c.LastRunAt == nil {
		return false
	}
	delta := now.Sub(*c.LastRunAt)
	if delta < 0 {
		delta = -delta
	}
	return delta < window
}

// MarkRun records a completed run
func (c *AutoSendConfig) MarkRun(now time.Time) {
	c.LastRunAt = &now
	c.Touch()
}
