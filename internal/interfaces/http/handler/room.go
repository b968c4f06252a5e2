package handler

import (
	"github.com/gin-gonic/gin"

	tenancyapp "github.com/dormbill/backend/internal/application/tenancy"
)

// RoomHandler handles room administration API endpoints
type RoomHandler struct {
	BaseHandler
	rooms *tenancyapp.RoomService
}

// NewRoomHandler creates a new RoomHandler
func NewRoomHandler(rooms *tenancyapp.RoomService) *RoomHandler {
	return &RoomHandler{rooms: rooms}
}

// Create registers a room
func (h *RoomHandler) Create(c *gin.Context) {
	var req tenancyapp.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	room, err := h.rooms.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, room)
}

// Get returns one room
func (h *RoomHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid room id")
		return
	}

	room, err := h.rooms.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, room)
}

// List returns rooms with paging
func (h *RoomHandler) List(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	rooms, total, err := h.rooms.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, rooms, total, filter.Page, filter.PageSize)
}

// SetOverrides updates the per-room utility price overrides
func (h *RoomHandler) SetOverrides(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid room id")
		return
	}
	var req tenancyapp.RoomOverridesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	room, err := h.rooms.SetOverrides(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, room)
}
