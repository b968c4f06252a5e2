package billing

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/dormbill/backend/internal/domain/billing"
	"github.com/dormbill/backend/internal/domain/shared"
)

// SettingsService administers the dormitory rate configuration and
// resolves the effective config at read time.
type SettingsService struct {
	configs  billing.DormConfigRepository
	override billing.RateOverrideSource
	activity billing.ActivityLogger
	logger   *zap.Logger
}

// NewSettingsService creates the settings service
func NewSettingsService(
	configs billing.DormConfigRepository,
	override billing.RateOverrideSource,
	activity billing.ActivityLogger,
	logger *zap.Logger,
) *SettingsService {
	return &SettingsService{
		configs:  configs,
		override: override,
		activity: activity,
		logger:   logger.Named("settings-service"),
	}
}

// GetDormConfig returns the locally stored configuration, seeding the
// default row on first use.
func (s *SettingsService) GetDormConfig(ctx context.Context) (*billing.DormConfig, error) {
	cfg, err := s.configs.Get(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			cfg = billing.DefaultDormConfig()
			if err := s.configs.Save(ctx, cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, err
	}
	return cfg, nil
}

// EffectiveConfig merges the optional remote override on top of the local
// configuration. A missing or failing remote source degrades silently to
// the local values.
func (s *SettingsService) EffectiveConfig(ctx context.Context) (*billing.DormConfig, error) {
	cfg, err := s.GetDormConfig(ctx)
	if err != nil {
		return nil, err
	}
	if s.override == nil {
		return cfg, nil
	}
	remote, err := s.override.Fetch(ctx)
	if err != nil {
		s.logger.Debug("remote rate override unavailable", zap.Error(err))
		return cfg, nil
	}
	merged := cfg.Clone()
	merged.MergeOverride(remote)
	return merged, nil
}

// UpdateDormConfig replaces the dormitory configuration
func (s *SettingsService) UpdateDormConfig(ctx context.Context, req DormConfigRequest) (*billing.DormConfig, error) {
	cfg, err := s.GetDormConfig(ctx)
	if err != nil {
		return nil, err
	}
	cfg.WaterMethod = billing.FeeMethod(req.WaterMethod)
	cfg.ElectricMethod = billing.FeeMethod(req.ElectricMethod)
	cfg.WaterUnitPrice = req.WaterUnitPrice
	cfg.ElectricUnitPrice = req.ElectricUnitPrice
	cfg.WaterMinAmount = req.WaterMinAmount
	cfg.ElectricMinAmount = req.ElectricMinAmount
	cfg.WaterMinUnits = req.WaterMinUnits
	cfg.ElectricMinUnits = req.ElectricMinUnits
	cfg.WaterBaseFee = req.WaterBaseFee
	cfg.ElectricBaseFee = req.ElectricBaseFee
	cfg.WaterFlatFee = req.WaterFlatFee
	cfg.ElectricFlatFee = req.ElectricFlatFee
	cfg.WaterPerPerson = req.WaterPerPerson
	cfg.ElectricPerPerson = req.ElectricPerPerson
	cfg.WaterTiers = req.WaterTiers
	cfg.ElectricTiers = req.ElectricTiers
	cfg.CommonFee = req.CommonFee
	cfg.DueDay = req.DueDay
	cfg.BankAccountText = req.BankAccountText
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Touch()
	if err := s.configs.Save(ctx, cfg); err != nil {
		return nil, err
	}
	s.activity.Record(ctx, "settings.rates.updated", "dorm_config", cfg.ID, "")
	return cfg, nil
}
