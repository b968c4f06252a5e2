package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is implemented by all domain events
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	AggregateID() uuid.UUID
	OccurredAt() time.Time
}

// BaseDomainEvent provides common fields for domain events
type BaseDomainEvent struct {
	ID          uuid.UUID `json:"event_id"`
	Type        string    `json:"event_type"`
	Aggregate   uuid.UUID `json:"aggregate_id"`
	OccurredUTC time.Time `json:"occurred_at"`
}

// NewBaseDomainEvent creates a new base domain event
func NewBaseDomainEvent(eventType string, aggregateID uuid.UUID) BaseDomainEvent {
	return BaseDomainEvent{
		ID:          uuid.New(),
		Type:        eventType,
		Aggregate:   aggregateID,
		OccurredUTC: time.Now().UTC(),
	}
}

func (e BaseDomainEvent) EventID() uuid.UUID     { return e.ID }
func (e BaseDomainEvent) EventType() string      { return e.Type }
func (e BaseDomainEvent) AggregateID() uuid.UUID { return e.Aggregate }
func (e BaseDomainEvent) OccurredAt() time.Time  { return e.OccurredUTC }
