package tenancy

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dormbill/backend/internal/domain/shared"
	"github.com/dormbill/backend/internal/domain/tenancy"
)

// RoomService administers rooms
type RoomService struct {
	rooms  tenancy.RoomRepository
	logger *zap.Logger
}

// NewRoomService creates the room service
func NewRoomService(rooms tenancy.RoomRepository, logger *zap.Logger) *RoomService {
	return &RoomService{rooms: rooms, logger: logger.Named("room-service")}
}

// Create registers a room with a unique code
func (s *RoomService) Create(ctx context.Context, req CreateRoomRequest) (*RoomResponse, error) {
	if _, err := s.rooms.FindByCode(ctx, req.Code); err == nil {
		return nil, shared.NewDomainError("CONFLICT", "room code already exists")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	room, err := tenancy.NewRoom(req.Code, req.Building, req.Floor, req.Capacity)
	if err != nil {
		return nil, err
	}
	if err := s.rooms.Save(ctx, room); err != nil {
		return nil, err
	}
	return ToRoomResponse(room), nil
}

// Get returns one room
func (s *RoomService) Get(ctx context.Context, id uuid.UUID) (*RoomResponse, error) {
	room, err := s.rooms.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToRoomResponse(room), nil
}

// List returns rooms with paging
func (s *RoomService) List(ctx context.Context, filter shared.Filter) ([]*RoomResponse, int64, error) {
	filter.Normalize()
	rooms, total, err := s.rooms.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]*RoomResponse, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, ToRoomResponse(r))
	}
	return out, total, nil
}

// SetOverrides updates the per-room utility price overrides
func (s *RoomService) SetOverrides(ctx context.Context, id uuid.UUID, req RoomOverridesRequest) (*RoomResponse, error) {
	room, err := s.rooms.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := room.SetPriceOverrides(req.WaterPriceOverride, req.ElectricPriceOverride); err != nil {
		return nil, err
	}
	if err := s.rooms.Save(ctx, room); err != nil {
		return nil, err
	}
	return ToRoomResponse(room), nil
}
