package websocket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_Publish(t *testing.T) {
	hub := NewHub()

	client := newMockClient("client-1", 1)
	other := newMockClient("client-2", 2)
	hub.Register(client)
	hub.Register(other)

	var publisher EventPublisher = hub
	publisher.Publish(1, VendorBillsBulkUpdated(map[string]interface{}{"billIds": []int32{4, 5}}))
	publisher.Publish(1, BulkEditCompleted(map[string]interface{}{"success": 2}))

	messages := client.GetMessages()
	require.Len(t, messages, 2)
	assert.Empty(t, other.GetMessages())

	var first Event
	require.NoError(t, json.Unmarshal(messages[0], &first))
	assert.Equal(t, "vendor_bill.bulk_updated", first.Type)
	assert.Equal(t, EntityTypeVendorBill, first.Entity)
}

func TestNoOpPublisher_Publish(t *testing.T) {
	var publisher EventPublisher = &NoOpPublisher{}

	assert.NotPanics(t, func() {
		publisher.Publish(1, SyncStatusUpdated(map[string]interface{}{"billIds": []int32{1}}))
	})
}
