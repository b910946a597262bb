package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents what happened to an entity
type EventType string

const (
	EventTypeUpdated     EventType = "updated"
	EventTypeBulkUpdated EventType = "bulk_updated"
	EventTypeBatchPaid   EventType = "batch_paid"
	EventTypeProgress    EventType = "progress"
	EventTypeCompleted   EventType = "completed"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeVendorBill  EntityType = "vendor_bill"
	EntityTypeBillPayment EntityType = "bill_payment"
	EntityTypeBulkEdit    EntityType = "bulk_edit"
	EntityTypeSyncStatus  EntityType = "sync_status"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "bulk_edit.progress"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "vendor_bill"
	Payload   interface{} `json:"payload"`   // Event data
	Timestamp time.Time   `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
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

// BillPaymentBatchPaid creates a bill_payment.batch_paid event
func BillPaymentBatchPaid(payload interface{}) Event {
	return NewEvent(EventTypeBatchPaid, EntityTypeBillPayment, payload)
}

// BulkEditProgress creates a bulk_edit.progress event
func BulkEditProgress(payload interface{}) Event {
	return NewEvent(EventTypeProgress, EntityTypeBulkEdit, payload)
}

// BulkEditCompleted creates a bulk_edit.completed event
func BulkEditCompleted(payload interface{}) Event {
	return NewEvent(EventTypeCompleted, EntityTypeBulkEdit, payload)
}

// VendorBillsBulkUpdated creates a vendor_bill.bulk_updated event.
// Clients drop cached bill views on receipt.
func VendorBillsBulkUpdated(payload interface{}) Event {
	return NewEvent(EventTypeBulkUpdated, EntityTypeVendorBill, payload)
}

// SyncStatusUpdated creates a sync_status.updated event
func SyncStatusUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeSyncStatus, payload)
}
