package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	tenancyapp "github.com/dormbill/backend/internal/application/tenancy"
)

// MeterHandler handles meter reading API endpoints
type MeterHandler struct {
	BaseHandler
	meters *tenancyapp.MeterService
}

// NewMeterHandler creates a new MeterHandler
func NewMeterHandler(meters *tenancyapp.MeterService) *MeterHandler {
	return &MeterHandler{meters: meters}
}

// Record upserts the reading for a room and period
func (h *MeterHandler) Record(c *gin.Context) {
	var req tenancyapp.RecordReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	reading, err := h.meters.Record(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, reading)
}

// ListForRoom returns a room's most recent readings
func (h *MeterHandler) ListForRoom(c *gin.Context) {
	roomID, err := parseIDParam(c, "roomId")
	if err != nil {
		h.BadRequest(c, "invalid room id")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "24"))

	readings, err := h.meters.ListForRoom(c.Request.Context(), roomID, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, readings)
}
