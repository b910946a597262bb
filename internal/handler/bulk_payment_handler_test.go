package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/dafibh/backoffice/backoffice-backend/internal/domain"
	"github.com/dafibh/backoffice/backoffice-backend/internal/service"
	"github.com/dafibh/backoffice/backoffice-backend/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupBulkPaymentHandler() (*BulkPaymentHandler, *testutil.MockBillPaymentRepository) {
	bills := testutil.NewMockVendorBillRepository()
	bills.AddBill(testutil.NewBill(1, 1, 500, 500))
	bills.AddBill(testutil.NewBill(2, 1, 300, 0))
	bills.AddBill(testutil.NewBill(3, 1, 200, 120))
	payments := testutil.NewMockBillPaymentRepository(bills)

	batchService := service.NewPaymentBatchService(bills, service.NewPaymentBatchBuilder())
	paymentService := service.NewBulkPaymentService(bills, payments, service.NewResultReporter(nil, 0, zerolog.Nop()), zerolog.Nop())
	return NewBulkPaymentHandler(batchService, paymentService), payments
}

func TestReviewPayments_Success(t *testing.T) {
	e := echo.New()
	handler, _ := setupBulkPaymentHandler()

	body := `{
		"billIds": [1, 2, 3],
		"defaults": {"paymentDate": "2026-10-15", "method": "ach", "reference": "OCT-RUN", "payFullAmount": true},
		"bills": [
			{"billId": 1, "useCustomSettings": true, "method": "wire", "reference": ""},
			{"billId": 3, "amount": "200"}
		]
	}`
	c, rec := newAuthedContext(e, http.MethodPost, "/api/v1/bulk-payments/review", body)

	require.NoError(t, handler.ReviewPayments(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var response PaymentReviewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))

	assert.Equal(t, 1, response.ValidCount)
	assert.Equal(t, 1, response.InvalidCount)
	assert.Equal(t, "500.00", response.TotalPayment)
	assert.True(t, response.CanProceed)

	require.Len(t, response.Instructions, 1)
	instruction := response.Instructions[0]
	assert.Equal(t, int32(1), instruction.BillID)
	assert.Equal(t, "wire", instruction.Method)
	assert.Equal(t, "2026-10-15", instruction.PaymentDate)
	require.NotNil(t, instruction.Reference)
	assert.Equal(t, "OCT-RUN", *instruction.Reference, "empty custom reference falls back to the default")

	require.Len(t, response.Excluded, 1)
	assert.Equal(t, int32(3), response.Excluded[0].BillID)
	assert.Equal(t, "exceeds_remaining", response.Excluded[0].Reason)
}

func TestReviewPayments_ValidationErrors(t *testing.T) {
	e := echo.New()
	handler, _ := setupBulkPaymentHandler()

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantField  string
	}{
		{
			name:       "missing payment date",
			body:       `{"billIds":[1],"defaults":{"method":"ach"}}`,
			wantStatus: http.StatusBadRequest,
			wantField:  "defaults.paymentDate",
		},
		{
			name:       "malformed payment date",
			body:       `{"billIds":[1],"defaults":{"paymentDate":"15/10/2026","method":"ach"}}`,
			wantStatus: http.StatusBadRequest,
			wantField:  "defaults.paymentDate",
		},
		{
			name:       "invalid method",
			body:       `{"billIds":[1],"defaults":{"paymentDate":"2026-10-15","method":"barter"}}`,
			wantStatus: http.StatusBadRequest,
			wantField:  "defaults.method",
		},
		{
			name:       "invalid custom method",
			body:       `{"billIds":[1],"defaults":{"paymentDate":"2026-10-15","method":"ach"},"bills":[{"billId":1,"useCustomSettings":true,"method":"barter"}]}`,
			wantStatus: http.StatusBadRequest,
			wantField:  "bills.method",
		},
		{
			name:       "empty selection",
			body:       `{"billIds":[],"defaults":{"paymentDate":"2026-10-15","method":"ach"}}`,
			wantStatus: http.StatusBadRequest,
			wantField:  "billIds",
		},
		{
			name:       "unknown bill",
			body:       `{"billIds":[1,99],"defaults":{"paymentDate":"2026-10-15","method":"ach"}}`,
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newAuthedContext(e, http.MethodPost, "/api/v1/bulk-payments/review", tt.body)

			require.NoError(t, handler.ReviewPayments(c))
			require.Equal(t, tt.wantStatus, rec.Code)

			var problem ProblemDetails
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
			if tt.wantField != "" {
				require.NotEmpty(t, problem.Errors)
				assert.Equal(t, tt.wantField, problem.Errors[0].Field)
			}
		})
	}
}

func TestConfirmPayments_PartialSuccess(t *testing.T) {
	e := echo.New()
	handler, payments := setupBulkPaymentHandler()

	body := `{"instructions": [
		{"billId": 1, "billNumber": "BILL-0001", "amount": "500", "paymentDate": "2026-10-15", "method": "ach"},
		{"billId": 3, "billNumber": "BILL-0003", "amount": "150", "paymentDate": "2026-10-15", "method": "ach"}
	]}`
	c, rec := newAuthedContext(e, http.MethodPost, "/api/v1/bulk-payments/confirm", body)

	require.NoError(t, handler.ConfirmPayments(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var summary domain.BatchSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))

	assert.Equal(t, 1, summary.SuccessCount)
	assert.Equal(t, 1, summary.FailedCount)
	assert.Equal(t, domain.BatchOutcomePartiallySucceeded, summary.Outcome)
	assert.True(t, summary.ClearSelection)
	require.Len(t, summary.Entries, 2)
	assert.True(t, summary.Entries[0].Success)
	require.NotNil(t, summary.Entries[1].Error)
	assert.Contains(t, *summary.Entries[1].Error, domain.ErrExceedsRemaining.Error())
	assert.Len(t, payments.Payments, 1)
}

func TestConfirmPayments_SetupErrors(t *testing.T) {
	e := echo.New()

	tests := []struct {
		name       string
		body       string
		ledgerDown bool
		wantStatus int
	}{
		{name: "no instructions", body: `{"instructions":[]}`, wantStatus: http.StatusBadRequest},
		{name: "bad amount", body: `{"instructions":[{"billId":1,"amount":"five","paymentDate":"2026-10-15","method":"ach"}]}`, wantStatus: http.StatusBadRequest},
		{name: "bad date", body: `{"instructions":[{"billId":1,"amount":"5","paymentDate":"soon","method":"ach"}]}`, wantStatus: http.StatusBadRequest},
		{name: "ledger unavailable", body: `{"instructions":[{"billId":1,"amount":"5","paymentDate":"2026-10-15","method":"ach"}]}`, ledgerDown: true, wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, payments := setupBulkPaymentHandler()
			if tt.ledgerDown {
				payments.PingErr = errors.New("connection refused")
			}
			c, rec := newAuthedContext(e, http.MethodPost, "/api/v1/bulk-payments/confirm", tt.body)

			require.NoError(t, handler.ConfirmPayments(c))
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Empty(t, payments.Payments)
		})
	}
}
