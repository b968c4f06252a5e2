package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	billingapp "github.com/dormbill/backend/internal/application/billing"
)

// SettingsHandler handles rate configuration and auto-send schedule endpoints
type SettingsHandler struct {
	BaseHandler
	settings *billingapp.SettingsService
	schedule *billingapp.ScheduleService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settings *billingapp.SettingsService, schedule *billingapp.ScheduleService) *SettingsHandler {
	return &SettingsHandler{settings: settings, schedule: schedule}
}

// GetRates returns the locally stored rate configuration
func (h *SettingsHandler) GetRates(c *gin.Context) {
	cfg, err := h.settings.GetDormConfig(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cfg)
}

// GetEffectiveRates returns the rate configuration with remote overrides applied
func (h *SettingsHandler) GetEffectiveRates(c *gin.Context) {
	cfg, err := h.settings.EffectiveConfig(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cfg)
}

// UpdateRates replaces the rate configuration
func (h *SettingsHandler) UpdateRates(c *gin.Context) {
	var req billingapp.DormConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cfg, err := h.settings.UpdateDormConfig(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cfg)
}

// GetAutoSend returns the auto-send schedule
func (h *SettingsHandler) GetAutoSend(c *gin.Context) {
	cfg, err := h.schedule.GetAutoSendConfig(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, billingapp.ToAutoSendConfigResponse(cfg))
}

// UpdateAutoSend replaces the auto-send schedule
func (h *SettingsHandler) UpdateAutoSend(c *gin.Context) {
	var req billingapp.AutoSendConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cfg, err := h.schedule.UpdateAutoSendConfig(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, billingapp.ToAutoSendConfigResponse(cfg))
}

// TriggerAutoSend runs the auto-send job immediately, subject to the same
// replay guards as the scheduled run.
func (h *SettingsHandler) TriggerAutoSend(c *gin.Context) {
	result, err := h.schedule.RunAutoSend(c.Request.Context(), time.Now())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
