package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dormbill/backend/internal/domain/shared"
)

func enabledSchedule() *AutoSendConfig {
	cfg := DefaultAutoSendConfig()
	cfg.Enabled = true
	cfg.DayOfMonth = 5
	cfg.Hour = 9
	cfg.Minute = 30
	cfg.Timezone = "Asia/Bangkok"
	return cfg
}

func TestAutoSendConfig_Validate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*AutoSendConfig)
	}{
		{"day too high", func(c *AutoSendConfig) { c.DayOfMonth = 29 }},
		{"day too low", func(c *AutoSendConfig) { c.DayOfMonth = 0 }},
		{"hour out of range", func(c *AutoSendConfig) { c.Hour = 24 }},
		{"minute out of range", func(c *AutoSendConfig) { c.Minute = 60 }},
		{"bogus timezone", func(c *AutoSendConfig) { c.Timezone = "Mars/Olympus" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := enabledSchedule()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, shared.IsDomainError(err, "INVALID_INPUT"))
		})
	}

	t.Run("valid schedule passes", func(t *testing.T) {
		require.NoError(t, enabledSchedule().Validate())
	})
}

func TestAutoSendConfig_ShouldFire(t *testing.T) {
	cfg := enabledSchedule()
	bangkok, err := time.LoadLocation("Asia/Bangkok")
	require.NoError(t, err)

	t.Run("fires on exact local match", func(t *testing.T) {
		now := time.Date(2026, 8, 5, 9, 30, 45, 0, bangkok)
		assert.True(t, cfg.ShouldFire(now, 0))
	})

	t.Run("evaluates in the configured zone", func(t *testing.T) {
		// 02:30 UTC == 09:30 in Bangkok (+07:00)
		now := time.Date(2026, 8, 5, 2, 30, 0, 0, time.UTC)
		assert.True(t, cfg.ShouldFire(now, 0))
	})

	t.Run("does not fire off the minute", func(t *testing.T) {
		now := time.Date(2026, 8, 5, 9, 31, 0, 0, bangkok)
		assert.False(t, cfg.ShouldFire(now, 0))
	})

	t.Run("does not fire on a different day", func(t *testing.T) {
		now := time.Date(2026, 8, 6, 9, 30, 0, 0, bangkok)
		assert.False(t, cfg.ShouldFire(now, 0))
	})

	t.Run("disabled schedule never fires", func(t *testing.T) {
		disabled := enabledSchedule()
		disabled.Enabled = false
		now := time.Date(2026, 8, 5, 9, 30, 0, 0, bangkok)
		assert.False(t, disabled.ShouldFire(now, 0))
	})

	t.Run("falls back to dorm due day when unset", func(t *testing.T) {
		fallback := enabledSchedule()
		fallback.DayOfMonth = 0
		now := time.Date(2026, 8, 10, 9, 30, 0, 0, bangkok)
		assert.True(t, fallback.ShouldFire(now, 10))
	})
}

func TestAutoSendConfig_ReplayWindow(t *testing.T) {
	cfg := enabledSchedule()
	now := time.Date(2026, 8, 5, 9, 30, 0, 0, time.UTC)

	t.Run("no previous run is outside the window", func(t *testing.T) {
		assert.False(t, cfg.WithinReplayWindow(now, ReplayWindow))
	})

	t.Run("run within 60s is suppressed", func(t *testing.T) {
		cfg.MarkRun(now)
		assert.True(t, cfg.WithinReplayWindow(now.Add(30*time.Second), ReplayWindow))
		assert.True(t, cfg.WithinReplayWindow(now.Add(59*time.Second), ReplayWindow))
	})

	t.Run("run after the window proceeds", func(t *testing.T) {
		cfg.MarkRun(now)
		assert.False(t, cfg.WithinReplayWindow(now.Add(61*time.Second), ReplayWindow))
	})

	t.Run("clock skew backwards is also suppressed", func(t *testing.T) {
		cfg.MarkRun(now)
		assert.True(t, cfg.WithinReplayWindow(now.Add(-10*time.Second), ReplayWindow))
	})
}
