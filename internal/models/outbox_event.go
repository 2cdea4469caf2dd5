package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const EventExceptionCreated = "exception.created"

type OutboxEvent struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	EventType   string         `gorm:"size:64;not null;index" json:"event_type"`
	AggregateID uint           `gorm:"not null;index" json:"aggregate_id"`
	Payload     datatypes.JSON `json:"payload"`

	Published   bool       `gorm:"not null;default:false;index" json:"published"`
	Attempts    int        `gorm:"not null;default:0" json:"attempts"`
	LastError   string     `gorm:"type:text" json:"last_error"`
	PublishedAt *time.Time `json:"published_at"`

	// Set while one relay holds the event; expired leases are claimable again.
	LockedUntil *time.Time `gorm:"index" json:"locked_until"`

	CreatedAt time.Time `json:"created_at"`
}
