package quickbooks

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *Client {
	return NewClient(Config{BaseURL: url + "/", Token: "secret", RequestsPerMinute: 6000}, zerolog.Nop())
}

func TestClient_SyncBill_Success(t *testing.T) {
	var gotAuth string
	var gotBody syncBillRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sync-bill", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"success":true,"qbBillId":"145"}`))
	}))
	defer server.Close()

	outcome, err := newTestClient(server.URL).SyncBill(context.Background(), 3, 42)

	require.NoError(t, err)
	assert.True(t, outcome.Success)
	require.NotNil(t, outcome.ExternalID)
	assert.Equal(t, "145", *outcome.ExternalID)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, int32(3), gotBody.WorkspaceID)
	assert.Equal(t, int32(42), gotBody.BillID)
}

func TestClient_SyncBill_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"success":false,"error":"vendor not mapped"}`))
	}))
	defer server.Close()

	outcome, err := newTestClient(server.URL).SyncBill(context.Background(), 1, 1)

	require.NoError(t, err)
	assert.False(t, outcome.Success)
	require.NotNil(t, outcome.Error)
	assert.Equal(t, "vendor not mapped", *outcome.Error)
}

func TestClient_SyncBill_RejectedWithoutMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	outcome, err := newTestClient(server.URL).SyncBill(context.Background(), 1, 1)

	require.NoError(t, err)
	assert.False(t, outcome.Success)
	require.NotNil(t, outcome.Error)
	assert.Contains(t, *outcome.Error, "400")
}

func TestClient_SyncBill_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream timeout", http.StatusBadGateway)
	}))
	defer server.Close()

	outcome, err := newTestClient(server.URL).SyncBill(context.Background(), 1, 1)

	assert.Nil(t, outcome)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestClient_SyncBill_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not be sent")
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(server.URL).SyncBill(ctx, 1, 1)
	assert.Error(t, err)
}
