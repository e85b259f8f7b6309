package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents what happened to an entity
type EventType string

const (
	EventTypeCreated   EventType = "created"
	EventTypeUpdated   EventType = "updated"
	EventTypeDeleted   EventType = "deleted"
	EventTypeGenerated EventType = "generated"
)

// EntityType represents the ledger collection the event is about
type EntityType string

const (
	EntityTypeAccount     EntityType = "account"
	EntityTypeTransaction EntityType = "transaction"
	EntityTypeRecurring   EntityType = "recurring"
	EntityTypeReport      EntityType = "report"
	EntityTypeGoals       EntityType = "goals"
	EntityTypeSettings    EntityType = "settings"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string     `json:"type"`   // Combined type e.g. "transaction.created"
	Entity    EntityType `json:"entity"` // Entity type e.g. "transaction"
	Payload   any        `json:"payload"`
	Timestamp time.Time  `json:"timestamp"`
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload any) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ReportGenerated creates a report.generated event
func ReportGenerated(payload any) Event {
	return NewEvent(EventTypeGenerated, EntityTypeReport, payload)
}
