package tenancy

import (
	"context"

	"github.com/google/uuid"

	"github.com/dormbill/backend/internal/domain/shared"
)

// RoomRepository persists rooms
type RoomRepository interface {
	Save(ctx context.Context, room *Room) error
	FindByID(ctx context.Context, id uuid.UUID) (*Room, error)
	FindByCode(ctx context.Context, code string) (*Room, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Room, int64, error)
}

// ContractRepository persists contracts
type ContractRepository interface {
	Save(ctx context.Context, contract *Contract) error
	// SaveWithLock persists the contract with an optimistic version check,
	// returning ErrConcurrencyConflict when the stored version moved on.
	SaveWithLock(ctx context.Context, contract *Contract) error
	FindByID(ctx context.Context, id uuid.UUID) (*Contract, error)
	FindActiveByRoom(ctx context.Context, roomID uuid.UUID) (*Contract, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Contract, int64, error)
	FindActive(ctx context.Context) ([]*Contract, error)
}

// MeterReadingRepository persists meter readings
type MeterReadingRepository interface {
	Save(ctx context.Context, reading *MeterReading) error
	FindByRoomPeriod(ctx context.Context, roomID uuid.UUID, month, year int) (*MeterReading, error)
	FindByRoom(ctx context.Context, roomID uuid.UUID, limit int) ([]*MeterReading, error)
}
