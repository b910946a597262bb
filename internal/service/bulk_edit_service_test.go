package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dafibh/backoffice/backoffice-backend/internal/domain"
	"github.com/dafibh/backoffice/backoffice-backend/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bulkEditFixture struct {
	service   *BulkEditService
	bills     *testutil.MockVendorBillRepository
	lineItems *testutil.MockLineItemRepository
	syncer    *testutil.MockBillSyncer
	statuses  *testutil.MockSyncStatusRepository
	publisher *testutil.RecordingPublisher
}

func setupBulkEdit(billCount int, withSync bool) *bulkEditFixture {
	f := &bulkEditFixture{
		bills:     testutil.NewMockVendorBillRepository(),
		lineItems: testutil.NewMockLineItemRepository(),
		syncer:    testutil.NewMockBillSyncer(),
		statuses:  testutil.NewMockSyncStatusRepository(),
		publisher: &testutil.RecordingPublisher{},
	}
	for i := 1; i <= billCount; i++ {
		f.bills.AddBill(testutil.NewBill(int32(i), 1, 100, 100))
	}

	var syncer domain.BillSyncer
	if withSync {
		syncer = f.syncer
	}
	syncService := NewSyncService(syncer, f.statuses, f.bills, zerolog.Nop())

	f.service = NewBulkEditService(
		f.bills,
		f.lineItems,
		syncService,
		NewResultReporter(nil, 0, zerolog.Nop()),
		zerolog.Nop(),
		BulkEditConfig{},
	)
	f.service.SetEventPublisher(f.publisher)
	return f
}

func idsUpTo(n int) []int32 {
	ids := make([]int32, n)
	for i := range ids {
		ids[i] = int32(i + 1)
	}
	return ids
}

func TestBulkEditService_Apply_SyncFailuresAreWarnings(t *testing.T) {
	f := setupBulkEdit(10, true)
	f.syncer.FailFor[4] = "vendor not mapped in QuickBooks"
	f.syncer.ErrFor[9] = errors.New("sync service returned 503")

	updates := domain.BulkEditUpdateSet{
		Status:     domain.SetTo(domain.BillStatusOpen),
		CategoryID: domain.Cleared[int32](),
	}

	result, err := f.service.Apply(testContext(), 1, idsUpTo(10), updates, nil)
	require.NoError(t, err)

	assert.Equal(t, 10, result.Success)
	assert.Equal(t, 0, result.Failed)
	require.Len(t, result.SyncWarnings, 2)
	assert.Equal(t, int32(4), result.SyncWarnings[0].BillID)
	assert.Equal(t, "vendor not mapped in QuickBooks", result.SyncWarnings[0].Message)
	assert.Equal(t, int32(9), result.SyncWarnings[1].BillID)

	// The sync indicator reflects the failures independently of the item result
	assert.Equal(t, domain.SyncStateFailed, f.statuses.Statuses[4].State)
	assert.Equal(t, domain.SyncStateFailed, f.statuses.Statuses[9].State)
	assert.Equal(t, domain.SyncStateSynced, f.statuses.Statuses[1].State)

	for id := int32(1); id <= 10; id++ {
		assert.Equal(t, domain.BillStatusOpen, f.bills.Bills[id].Status)
		category, touched := f.lineItems.Categories[id]
		assert.True(t, touched)
		assert.Nil(t, category)
	}
	assert.True(t, result.Summary.ClearSelection)
}

func TestBulkEditService_Apply_ProgressIsOrderedAndPhaseTagged(t *testing.T) {
	f := setupBulkEdit(3, true)

	var progress []domain.BulkEditProgress
	_, err := f.service.Apply(testContext(), 1, []int32{1, 2, 3}, domain.BulkEditUpdateSet{
		Memo: domain.SetTo("Q3 accrual"),
	}, func(p domain.BulkEditProgress) {
		progress = append(progress, p)
	})
	require.NoError(t, err)

	want := []domain.BulkEditProgress{
		{Current: 1, Total: 3, Phase: domain.BulkEditPhaseUpdating, BillID: 1},
		{Current: 1, Total: 3, Phase: domain.BulkEditPhaseSyncing, BillID: 1},
		{Current: 2, Total: 3, Phase: domain.BulkEditPhaseUpdating, BillID: 2},
		{Current: 2, Total: 3, Phase: domain.BulkEditPhaseSyncing, BillID: 2},
		{Current: 3, Total: 3, Phase: domain.BulkEditPhaseUpdating, BillID: 3},
		{Current: 3, Total: 3, Phase: domain.BulkEditPhaseSyncing, BillID: 3},
	}
	assert.Equal(t, want, progress)
	assert.Equal(t, []int32{1, 2, 3}, f.syncer.Calls)

	types := f.publisher.Types()
	require.Len(t, types, 9)
	assert.Equal(t, "bulk_edit.progress", types[0])
	assert.Equal(t, []string{"vendor_bill.bulk_updated", "sync_status.updated", "bulk_edit.completed"}, types[6:])
}

func TestBulkEditService_Apply_WithoutSync(t *testing.T) {
	f := setupBulkEdit(2, false)

	var phases []domain.BulkEditPhase
	result, err := f.service.Apply(testContext(), 1, []int32{2, 1}, domain.BulkEditUpdateSet{
		ReferenceNumber: domain.SetTo("PO-7781"),
	}, func(p domain.BulkEditProgress) {
		phases = append(phases, p.Phase)
	})
	require.NoError(t, err)

	assert.Equal(t, []domain.BulkEditPhase{domain.BulkEditPhaseUpdating, domain.BulkEditPhaseUpdating}, phases)
	assert.Empty(t, f.syncer.Calls)
	assert.Empty(t, result.SyncWarnings)
	assert.Equal(t, int32(2), result.Summary.Entries[0].BillID)
	assert.Equal(t, int32(1), result.Summary.Entries[1].BillID)
	assert.NotContains(t, f.publisher.Types(), "sync_status.updated")
	assert.Empty(t, f.lineItems.Calls, "category was not touched")
}

func TestBulkEditService_Apply_FailedWriteSkipsSyncAndContinues(t *testing.T) {
	f := setupBulkEdit(4, true)
	f.bills.UpdateFieldsFn = func(billID int32, _ domain.BillFieldUpdate) error {
		if billID == 2 {
			return errors.New("row locked")
		}
		return nil
	}
	f.lineItems.FailFor[3] = errors.New("line items unavailable")

	categoryID := int32(12)
	result, err := f.service.Apply(testContext(), 1, idsUpTo(4), domain.BulkEditUpdateSet{
		DueDate:    domain.SetTo(time.Date(2026, 11, 30, 0, 0, 0, 0, time.UTC)),
		CategoryID: domain.SetTo(categoryID),
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Success)
	assert.Equal(t, 2, result.Failed)
	assert.Equal(t, "row locked", *result.Summary.Entries[1].Error)
	assert.Equal(t, "line items unavailable", *result.Summary.Entries[2].Error)
	assert.Equal(t, []int32{1, 4}, f.syncer.Calls)
	assert.True(t, result.Summary.ClearSelection, "edit batches clear the selection even with failures")

	// Bill 3's header write is kept; there is no rollback across the two writes
	require.NotNil(t, f.bills.Bills[3].DueDate)
	assert.Equal(t, int32(12), *f.lineItems.Categories[1])
}

func TestBulkEditService_Apply_MissingBillIsItemFailure(t *testing.T) {
	f := setupBulkEdit(2, false)

	result, err := f.service.Apply(testContext(), 1, []int32{1, 99, 2}, domain.BulkEditUpdateSet{
		Status: domain.SetTo(domain.BillStatusDraft),
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Success)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, domain.ErrVendorBillNotFound.Error(), *result.Summary.Entries[1].Error)
}

func TestBulkEditService_Apply_SetupErrors(t *testing.T) {
	f := setupBulkEdit(1, false)

	tests := []struct {
		name    string
		ids     []int32
		updates domain.BulkEditUpdateSet
		wantErr error
	}{
		{name: "empty update set", ids: []int32{1}, updates: domain.BulkEditUpdateSet{}, wantErr: domain.ErrEmptyUpdateSet},
		{name: "empty selection", ids: nil, updates: domain.BulkEditUpdateSet{Memo: domain.Cleared[string]()}, wantErr: domain.ErrEmptySelection},
		{name: "status cleared", ids: []int32{1}, updates: domain.BulkEditUpdateSet{Status: domain.Cleared[domain.BillStatus]()}, wantErr: domain.ErrStatusNotClearable},
		{name: "too many", ids: idsUpTo(domain.MaxBulkSelectionSize + 1), updates: domain.BulkEditUpdateSet{Memo: domain.SetTo("x")}, wantErr: domain.ErrSelectionTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Apply(testContext(), 1, tt.ids, tt.updates, nil)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Empty(t, f.bills.Updates)
}

func TestBulkEditService_Apply_Cancelled(t *testing.T) {
	f := setupBulkEdit(3, false)
	ctx, cancel := context.WithCancel(context.Background())

	result, err := f.service.Apply(ctx, 1, idsUpTo(3), domain.BulkEditUpdateSet{
		Memo: domain.SetTo("hold"),
	}, func(p domain.BulkEditProgress) {
		if p.BillID == 2 {
			cancel()
		}
	})
	require.NoError(t, err)

	require.Len(t, result.Summary.Entries, 3)
	assert.Equal(t, 2, result.Success)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, ErrBatchCancelled.Error(), *result.Summary.Entries[2].Error)
}

func TestBulkEditService_Apply_ItemPause(t *testing.T) {
	f := setupBulkEdit(3, false)
	f.service.itemPause = 20 * time.Millisecond

	start := time.Now()
	_, err := f.service.Apply(testContext(), 1, idsUpTo(3), domain.BulkEditUpdateSet{
		Memo: domain.SetTo("paced"),
	}, nil)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}
