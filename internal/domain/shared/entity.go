package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is implemented by every persisted domain object
type Entity interface {
	GetID() uuid.UUID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity holds identity and timestamps
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

// GetCreatedAt returns the creation timestamp
func (e *BaseEntity) GetCreatedAt() time.Time {
	return e.CreatedAt
}

// GetUpdatedAt returns the last update timestamp
func (e *BaseEntity) GetUpdatedAt() time.Time {
	return e.UpdatedAt
}

// Touch bumps UpdatedAt
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now()
}

// NewBaseEntity creates a base entity with a fresh ID
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AggregateRoot collects domain events raised while it is mutated.
// Services publish them once the enclosing transaction has committed.
type AggregateRoot struct {
	BaseEntity
	events []DomainEvent
}

// NewAggregateRoot creates an aggregate root with a fresh ID
func NewAggregateRoot() AggregateRoot {
	return AggregateRoot{BaseEntity: NewBaseEntity()}
}

// AddDomainEvent records an event
func (a *AggregateRoot) AddDomainEvent(event DomainEvent) {
	a.events = append(a.events, event)
}

// GetDomainEvents returns pending events
func (a *AggregateRoot) GetDomainEvents() []DomainEvent {
	return a.events
}

// ClearDomainEvents drops pending events
func (a *AggregateRoot) ClearDomainEvents() {
	a.events = nil
}
