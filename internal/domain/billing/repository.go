package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dormbill/backend/internal/domain/shared"
)

// InvoiceRepository persists invoices with their items and payments
type InvoiceRepository interface {
	Save(ctx context.Context, invoice *Invoice) error
	// SaveWithLock persists the invoice with an optimistic version check,
	// returning ErrConcurrencyConflict when the stored version moved on.
	SaveWithLock(ctx context.Context, invoice *Invoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindByContractPeriod(ctx context.Context, contractID uuid.UUID, month, year int) (*Invoice, error)
	ExistsByContractPeriod(ctx context.Context, contractID uuid.UUID, month, year int) (bool, error)
	FindByPeriodStatus(ctx context.Context, month, year int, statuses []InvoiceStatus) ([]*Invoice, error)
	FindByRoomPeriod(ctx context.Context, roomID uuid.UUID, month, year int) ([]*Invoice, error)
	FindSentDueBefore(ctx context.Context, cutoff time.Time) ([]*Invoice, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Invoice, int64, error)
}

// DormConfigRepository persists the singleton dormitory configuration
type DormConfigRepository interface {
	Get(ctx context.Context) (*DormConfig, error)
	Save(ctx context.Context, cfg *DormConfig) error
}

// AutoSendConfigRepository persists the singleton auto-send schedule
type AutoSendConfigRepository interface {
	Get(ctx context.Context) (*AutoSendConfig, error)
	Save(ctx context.Context, cfg *AutoSendConfig) error
}

// ActivityEntry is one audit trail record
type ActivityEntry struct {
	shared.BaseEntity
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   uuid.UUID `json:"entity_id"`
	Details    string    `json:"details"`
}

// ActivityLogRepository appends audit records
type ActivityLogRepository interface {
	Append(ctx context.Context, entry *ActivityEntry) error
	FindRecent(ctx context.Context, limit int) ([]*ActivityEntry, error)
}
