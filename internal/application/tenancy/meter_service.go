package tenancy

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dormbill/backend/internal/domain/shared"
	"github.com/dormbill/backend/internal/domain/tenancy"
)

// MeterService records and lists meter readings
type MeterService struct {
	readings tenancy.MeterReadingRepository
	rooms    tenancy.RoomRepository
	logger   *zap.Logger
}

// NewMeterService creates the meter service
func NewMeterService(readings tenancy.MeterReadingRepository, rooms tenancy.RoomRepository, logger *zap.Logger) *MeterService {
	return &MeterService{readings: readings, rooms: rooms, logger: logger.Named("meter-service")}
}

// Record upserts the reading for (room, month, year). Regressions against
// the previous period are accepted but logged; generation clamps them.
func (s *MeterService) Record(ctx context.Context, req RecordReadingRequest) (*ReadingResponse, error) {
	if err := tenancy.ValidatePeriod(req.Month, req.Year); err != nil {
		return nil, err
	}
	room, err := s.rooms.FindByID(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}

	reading, err := s.readings.FindByRoomPeriod(ctx, req.RoomID, req.Month, req.Year)
	switch {
	case err == nil:
		if err := reading.Update(req.WaterReading, req.ElectricReading); err != nil {
			return nil, err
		}
	case errors.Is(err, shared.ErrNotFound):
		reading, err = tenancy.NewMeterReading(req.RoomID, req.Month, req.Year, req.WaterReading, req.ElectricReading)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	prevMonth, prevYear := tenancy.PreviousPeriod(req.Month, req.Year)
	if prev, err := s.readings.FindByRoomPeriod(ctx, req.RoomID, prevMonth, prevYear); err == nil {
		if reading.IsRegression(prev) {
			s.logger.Warn("meter reading regressed against previous period",
				zap.String("room", room.Code),
				zap.Int("month", req.Month),
				zap.Int("year", req.Year))
		}
	}

	if err := s.readings.Save(ctx, reading); err != nil {
		return nil, err
	}
	return ToReadingResponse(reading), nil
}

// ListForRoom returns a room's most recent readings
func (s *MeterService) ListForRoom(ctx context.Context, roomID uuid.UUID, limit int) ([]*ReadingResponse, error) {
	if limit < 1 || limit > 120 {
		limit = 24
	}
	readings, err := s.readings.FindByRoom(ctx, roomID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]*ReadingResponse, 0, len(readings))
	for _, r := range readings {
		out = append(out, ToReadingResponse(r))
	}
	return out, nil
}
