package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dafibh/backoffice/backoffice-backend/internal/domain"
	"github.com/dafibh/backoffice/backoffice-backend/internal/service"
	"github.com/dafibh/backoffice/backoffice-backend/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupVendorBillHandler() (*VendorBillHandler, *testutil.MockVendorBillRepository) {
	bills := testutil.NewMockVendorBillRepository()
	bills.AddBill(testutil.NewBill(1, 1, 500, 500))
	bills.AddBill(testutil.NewBill(2, 1, 300, 0))
	bills.AddBill(testutil.NewBill(3, 1, 200, 120))
	bills.AddBill(testutil.NewBill(4, 2, 100, 100))
	return NewVendorBillHandler(service.NewVendorBillService(bills)), bills
}

func TestGetPayableBills_Success(t *testing.T) {
	e := echo.New()
	handler, _ := setupVendorBillHandler()

	c, rec := newAuthedContext(e, http.MethodGet, "/api/v1/vendor-bills/payable?ids=3,2,1,4", "")

	require.NoError(t, handler.GetPayableBills(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var response []VendorBillResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))

	// Bill 2 is fully paid and bill 4 belongs to another workspace
	require.Len(t, response, 2)
	assert.Equal(t, int32(3), response[0].ID)
	assert.Equal(t, "120.00", response[0].RemainingAmount)
	assert.Equal(t, "partially_paid", response[0].Status)
	assert.Equal(t, int32(1), response[1].ID)
}

func TestGetPayableBills_InvalidIDs(t *testing.T) {
	e := echo.New()
	handler, _ := setupVendorBillHandler()

	for _, target := range []string{
		"/api/v1/vendor-bills/payable?ids=1,abc",
		"/api/v1/vendor-bills/payable?ids=-4",
		"/api/v1/vendor-bills/payable",
	} {
		c, rec := newAuthedContext(e, http.MethodGet, target, "")
		require.NoError(t, handler.GetPayableBills(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestGetPayableBills_NoWorkspace(t *testing.T) {
	e := echo.New()
	handler, _ := setupVendorBillHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/vendor-bills/payable?ids=1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContextWithWorkspace(c, "auth0|ops", "ops@example.com", "Ops", 0)

	require.NoError(t, handler.GetPayableBills(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetBill(t *testing.T) {
	e := echo.New()
	handler, _ := setupVendorBillHandler()

	tests := []struct {
		name       string
		id         string
		wantStatus int
	}{
		{name: "found", id: "1", wantStatus: http.StatusOK},
		{name: "other workspace", id: "4", wantStatus: http.StatusNotFound},
		{name: "missing", id: "99", wantStatus: http.StatusNotFound},
		{name: "invalid id", id: "x", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newAuthedContext(e, http.MethodGet, "/api/v1/vendor-bills/"+tt.id, "")
			c.SetParamNames("id")
			c.SetParamValues(tt.id)

			require.NoError(t, handler.GetBill(c))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestValidatePayment(t *testing.T) {
	e := echo.New()
	handler, _ := setupVendorBillHandler()

	tests := []struct {
		name       string
		body       string
		wantStatus int
		admissible bool
		reason     string
	}{
		{name: "within balance", body: `{"amount":"120"}`, wantStatus: http.StatusOK, admissible: true},
		{name: "over balance", body: `{"amount":"120.01"}`, wantStatus: http.StatusOK, reason: string(domain.RejectExceedsRemaining)},
		{name: "zero", body: `{"amount":"0"}`, wantStatus: http.StatusOK, reason: string(domain.RejectNonPositiveAmount)},
		{name: "not a number", body: `{"amount":"lots"}`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newAuthedContext(e, http.MethodPost, "/api/v1/vendor-bills/3/validate-payment", tt.body)
			c.SetParamNames("id")
			c.SetParamValues("3")

			require.NoError(t, handler.ValidatePayment(c))
			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}

			var response ValidatePaymentResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
			assert.Equal(t, tt.admissible, response.Admissible)
			assert.Equal(t, tt.reason, response.Reason)
		})
	}
}
