package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/dafibh/backoffice/backoffice-backend/internal/domain"
	"github.com/dafibh/backoffice/backoffice-backend/internal/service"
	"github.com/dafibh/backoffice/backoffice-backend/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bulkEditHandlerFixture struct {
	handler   *BulkEditHandler
	bills     *testutil.MockVendorBillRepository
	lineItems *testutil.MockLineItemRepository
	syncer    *testutil.MockBillSyncer
}

func setupBulkEditHandler() *bulkEditHandlerFixture {
	f := &bulkEditHandlerFixture{
		bills:     testutil.NewMockVendorBillRepository(),
		lineItems: testutil.NewMockLineItemRepository(),
		syncer:    testutil.NewMockBillSyncer(),
	}
	for id := int32(1); id <= 3; id++ {
		f.bills.AddBill(testutil.NewBill(id, 1, 100, 100))
	}
	memo := "old memo"
	f.bills.Bills[2].Memo = &memo

	syncService := service.NewSyncService(f.syncer, testutil.NewMockSyncStatusRepository(), f.bills, zerolog.Nop())
	editService := service.NewBulkEditService(
		f.bills,
		f.lineItems,
		syncService,
		service.NewResultReporter(nil, 0, zerolog.Nop()),
		zerolog.Nop(),
		service.BulkEditConfig{},
	)
	f.handler = NewBulkEditHandler(editService)
	return f
}

func TestApplyBulkEdit_Success(t *testing.T) {
	e := echo.New()
	f := setupBulkEditHandler()
	f.syncer.FailFor[2] = "vendor not mapped"

	body := `{"billIds":[1,2,3],"updates":{"dueDate":"2026-11-30","memo":null,"categoryId":12}}`
	c, rec := newAuthedContext(e, http.MethodPost, "/api/v1/bulk-edits", body)

	require.NoError(t, f.handler.ApplyBulkEdit(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var result domain.BulkEditResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 3, result.Success)
	assert.Equal(t, 0, result.Failed)
	require.Len(t, result.SyncWarnings, 1)
	assert.Equal(t, int32(2), result.SyncWarnings[0].BillID)
	assert.True(t, result.Summary.ClearSelection)

	bill := f.bills.Bills[2]
	require.NotNil(t, bill.DueDate)
	assert.Equal(t, time.Date(2026, 11, 30, 0, 0, 0, 0, time.UTC), *bill.DueDate)
	assert.Nil(t, bill.Memo, "null clears the memo")
	assert.Equal(t, domain.BillStatusOpen, bill.Status, "omitted status is left alone")
	assert.Equal(t, int32(12), *f.lineItems.Categories[3])
}

func TestApplyBulkEdit_ValidationErrors(t *testing.T) {
	e := echo.New()

	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{name: "no fields", body: `{"billIds":[1],"updates":{}}`, wantField: "updates"},
		{name: "status cleared", body: `{"billIds":[1],"updates":{"status":null}}`, wantField: "updates.status"},
		{name: "unknown status", body: `{"billIds":[1],"updates":{"status":"archived"}}`, wantField: "updates.status"},
		{name: "bad date", body: `{"billIds":[1],"updates":{"billDate":"30/11/2026"}}`, wantField: "updates.billDate"},
		{name: "bad category", body: `{"billIds":[1],"updates":{"categoryId":0}}`, wantField: "updates.categoryId"},
		{name: "no bills", body: `{"billIds":[],"updates":{"memo":"x"}}`, wantField: "billIds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupBulkEditHandler()
			c, rec := newAuthedContext(e, http.MethodPost, "/api/v1/bulk-edits", tt.body)

			require.NoError(t, f.handler.ApplyBulkEdit(c))
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var problem ProblemDetails
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
			require.NotEmpty(t, problem.Errors)
			assert.Equal(t, tt.wantField, problem.Errors[0].Field)
			assert.Empty(t, f.bills.Updates)
		})
	}
}

func TestToDateField(t *testing.T) {
	omitted, err := toDateField(domain.Field[string]{})
	require.NoError(t, err)
	assert.False(t, omitted.Set)

	cleared, err := toDateField(domain.SetTo(""))
	require.NoError(t, err)
	assert.True(t, cleared.Set)
	assert.True(t, cleared.Null)

	set, err := toDateField(domain.SetTo("2026-01-31"))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), set.Value)

	_, err = toDateField(domain.SetTo("tomorrow"))
	assert.Error(t, err)
}
