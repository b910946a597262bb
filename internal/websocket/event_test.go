package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	payload := map[string]interface{}{
		"current": 7,
		"total":   40,
		"phase":   "updating",
	}

	before := time.Now()
	evt := NewEvent(EventTypeProgress, EntityTypeBulkEdit, payload)
	after := time.Now()

	assert.Equal(t, "bulk_edit.progress", evt.Type)
	assert.Equal(t, EntityTypeBulkEdit, evt.Entity)
	assert.Equal(t, payload, evt.Payload)
	assert.True(t, !evt.Timestamp.Before(before) && !evt.Timestamp.After(after))
}

func TestEvent_JSON_Serialization(t *testing.T) {
	fixedTime := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	payload := map[string]interface{}{
		"billIds": []interface{}{float64(1), float64(2)},
		"batchId": "6f1c2d4e-8a9b-4c3d-9e2f-1a2b3c4d5e6f",
	}

	evt := Event{
		Type:      "vendor_bill.bulk_updated",
		Entity:    EntityTypeVendorBill,
		Payload:   payload,
		Timestamp: fixedTime,
	}

	data, err := json.Marshal(evt)
	require.NoError(t, err)

	var decoded Event
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)

	assert.Equal(t, evt.Type, decoded.Type)
	assert.Equal(t, evt.Entity, decoded.Entity)
	assert.Equal(t, fixedTime.UTC(), decoded.Timestamp.UTC())

	decodedPayload, ok := decoded.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, payload["batchId"], decodedPayload["batchId"])
	assert.Len(t, decodedPayload["billIds"], 2)
}

func TestEvent_ToJSON(t *testing.T) {
	evt := NewEvent(EventTypeUpdated, EntityTypeSyncStatus, map[string]interface{}{"billId": float64(42)})

	data, err := evt.ToJSON()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "sync_status.updated", decoded["type"])
	assert.Equal(t, "sync_status", decoded["entity"])
	assert.NotNil(t, decoded["payload"])
	assert.NotNil(t, decoded["timestamp"])
}

func TestEvent_Helpers(t *testing.T) {
	payload := map[string]interface{}{"batchId": "b1"}

	tests := []struct {
		name     string
		evt      Event
		wantType string
		entity   EntityType
	}{
		{"BillPaymentBatchPaid", BillPaymentBatchPaid(payload), "bill_payment.batch_paid", EntityTypeBillPayment},
		{"BulkEditProgress", BulkEditProgress(payload), "bulk_edit.progress", EntityTypeBulkEdit},
		{"BulkEditCompleted", BulkEditCompleted(payload), "bulk_edit.completed", EntityTypeBulkEdit},
		{"VendorBillsBulkUpdated", VendorBillsBulkUpdated(payload), "vendor_bill.bulk_updated", EntityTypeVendorBill},
		{"SyncStatusUpdated", SyncStatusUpdated(payload), "sync_status.updated", EntityTypeSyncStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.evt.Type)
			assert.Equal(t, tt.entity, tt.evt.Entity)
			assert.Equal(t, payload, tt.evt.Payload)
		})
	}
}
