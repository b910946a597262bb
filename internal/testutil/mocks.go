package testutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/dafibh/backoffice/backoffice-backend/internal/domain"
	"github.com/dafibh/backoffice/backoffice-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

// MockWorkspaceRepository is a mock implementation of domain.WorkspaceRepository
type MockWorkspaceRepository struct {
	Workspaces    map[int32]*domain.Workspace
	ByUserAuth0ID map[string]*domain.Workspace
}

// NewMockWorkspaceRepository creates a new MockWorkspaceRepository
func NewMockWorkspaceRepository() *MockWorkspaceRepository {
	return &MockWorkspaceRepository{
		Workspaces:    make(map[int32]*domain.Workspace),
		ByUserAuth0ID: make(map[string]*domain.Workspace),
	}
}

// GetByID retrieves a workspace by ID
func (m *MockWorkspaceRepository) GetByID(ctx context.Context, id int32) (*domain.Workspace, error) {
	if ws, ok := m.Workspaces[id]; ok {
		return ws, nil
	}
	return nil, domain.ErrWorkspaceNotFound
}

// GetByUserAuth0ID retrieves a workspace by the owner's Auth0 ID
func (m *MockWorkspaceRepository) GetByUserAuth0ID(ctx context.Context, auth0ID string) (*domain.Workspace, error) {
	if ws, ok := m.ByUserAuth0ID[auth0ID]; ok {
		return ws, nil
	}
	return nil, domain.ErrWorkspaceNotFound
}

// AddWorkspace adds a workspace owned by auth0ID (helper for tests)
func (m *MockWorkspaceRepository) AddWorkspace(ws *domain.Workspace, auth0ID string) {
	m.Workspaces[ws.ID] = ws
	m.ByUserAuth0ID[auth0ID] = ws
}

// MockVendorBillRepository is an in-memory store of bills shared with MockBillPaymentRepository
type MockVendorBillRepository struct {
	mu    sync.Mutex
	Bills map[int32]*domain.VendorBill
	// Updates records every header update in call order
	Updates []BillUpdateCall
	// UpdateFieldsFn overrides UpdateFields when set
	UpdateFieldsFn func(billID int32, update domain.BillFieldUpdate) error
	GetByIDsErr    error
}

// BillUpdateCall is a recorded UpdateFields call
type BillUpdateCall struct {
	WorkspaceID int32
	BillID      int32
	Update      domain.BillFieldUpdate
}

// NewMockVendorBillRepository creates a new MockVendorBillRepository
func NewMockVendorBillRepository() *MockVendorBillRepository {
	return &MockVendorBillRepository{
		Bills: make(map[int32]*domain.VendorBill),
	}
}

// AddBill adds a bill (helper for tests)
func (m *MockVendorBillRepository) AddBill(bill *domain.VendorBill) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Bills[bill.ID] = bill
}

// NewBill builds an open bill with the given balances (helper for tests)
func NewBill(id int32, workspaceID int32, total, remaining int64) *domain.VendorBill {
	status := domain.BillStatusOpen
	if remaining == 0 {
		status = domain.BillStatusPaid
	} else if remaining < total {
		status = domain.BillStatusPartiallyPaid
	}
	return &domain.VendorBill{
		ID:              id,
		WorkspaceID:     workspaceID,
		BillNumber:      fmt.Sprintf("BILL-%04d", id),
		VendorName:      "Acme Supplies",
		TotalAmount:     decimal.NewFromInt(total),
		RemainingAmount: decimal.NewFromInt(remaining),
		Status:          status,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
}

// GetByID retrieves a copy of a bill by ID
func (m *MockVendorBillRepository) GetByID(ctx context.Context, workspaceID int32, id int32) (*domain.VendorBill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bill, ok := m.Bills[id]
	if !ok || bill.WorkspaceID != workspaceID {
		return nil, domain.ErrVendorBillNotFound
	}
	copied := *bill
	return &copied, nil
}

// GetByIDs retrieves copies of the bills that exist, in the order of ids
func (m *MockVendorBillRepository) GetByIDs(ctx context.Context, workspaceID int32, ids []int32) ([]*domain.VendorBill, error) {
	if m.GetByIDsErr != nil {
		return nil, m.GetByIDsErr
	}
	result := make([]*domain.VendorBill, 0, len(ids))
	for _, id := range ids {
		bill, err := m.GetByID(ctx, workspaceID, id)
		if err != nil {
			continue
		}
		result = append(result, bill)
	}
	return result, nil
}

// UpdateFields applies the set header fields
func (m *MockVendorBillRepository) UpdateFields(ctx context.Context, workspaceID int32, id int32, update domain.BillFieldUpdate) error {
	m.mu.Lock()
	m.Updates = append(m.Updates, BillUpdateCall{WorkspaceID: workspaceID, BillID: id, Update: update})
	fn := m.UpdateFieldsFn
	m.mu.Unlock()

	if fn != nil {
		if err := fn(id, update); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	bill, ok := m.Bills[id]
	if !ok || bill.WorkspaceID != workspaceID {
		return domain.ErrVendorBillNotFound
	}
	if update.Status.Set {
		bill.Status = update.Status.Value
	}
	if update.BillDate.Set {
		bill.BillDate = update.BillDate.Ptr()
	}
	if update.DueDate.Set {
		bill.DueDate = update.DueDate.Ptr()
	}
	if update.Memo.Set {
		bill.Memo = update.Memo.Ptr()
	}
	if update.ReferenceNumber.Set {
		bill.ReferenceNumber = update.ReferenceNumber.Ptr()
	}
	bill.UpdatedAt = time.Now()
	return nil
}

// MockBillPaymentRepository is an in-memory ledger that applies payments to a MockVendorBillRepository
type MockBillPaymentRepository struct {
	bills    *MockVendorBillRepository
	Payments []*domain.BillPayment
	Calls    []domain.PaymentInstruction
	PingErr  error
	// BeforeRecordFn runs before each payment is applied, e.g. to simulate a concurrent edit
	BeforeRecordFn func(instruction domain.PaymentInstruction) error
	nextID         int32
}

// NewMockBillPaymentRepository creates a ledger backed by bills
func NewMockBillPaymentRepository(bills *MockVendorBillRepository) *MockBillPaymentRepository {
	return &MockBillPaymentRepository{bills: bills, nextID: 1}
}

// Ping reports the configured availability
func (m *MockBillPaymentRepository) Ping(ctx context.Context) error {
	return m.PingErr
}

// RecordPayment applies a payment, rejecting amounts above the remaining balance
func (m *MockBillPaymentRepository) RecordPayment(ctx context.Context, workspaceID int32, instruction domain.PaymentInstruction) (*domain.BillPayment, error) {
	m.Calls = append(m.Calls, instruction)
	if m.BeforeRecordFn != nil {
		if err := m.BeforeRecordFn(instruction); err != nil {
			return nil, err
		}
	}

	m.bills.mu.Lock()
	defer m.bills.mu.Unlock()
	bill, ok := m.bills.Bills[instruction.BillID]
	if !ok || bill.WorkspaceID != workspaceID {
		return nil, domain.ErrVendorBillNotFound
	}
	if instruction.Amount.GreaterThan(bill.RemainingAmount) {
		return nil, domain.ErrExceedsRemaining
	}
	bill.Status = bill.StatusAfterPayment(instruction.Amount)
	bill.RemainingAmount = bill.RemainingAmount.Sub(instruction.Amount)

	payment := &domain.BillPayment{
		ID:          m.nextID,
		WorkspaceID: workspaceID,
		BillID:      instruction.BillID,
		Amount:      instruction.Amount,
		PaymentDate: instruction.PaymentDate,
		Method:      instruction.Method,
		Reference:   instruction.Reference,
		Notes:       instruction.Notes,
		CreatedAt:   time.Now(),
	}
	m.nextID++
	m.Payments = append(m.Payments, payment)
	return payment, nil
}

// SetRemaining changes a bill's balance behind the ledger's back (helper for race tests)
func (m *MockVendorBillRepository) SetRemaining(id int32, remaining decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if bill, ok := m.Bills[id]; ok {
		bill.RemainingAmount = remaining
	}
}

// MockLineItemRepository records category updates per bill
type MockLineItemRepository struct {
	Categories map[int32]*int32
	Calls      []int32
	FailFor    map[int32]error
}

// NewMockLineItemRepository creates a new MockLineItemRepository
func NewMockLineItemRepository() *MockLineItemRepository {
	return &MockLineItemRepository{
		Categories: make(map[int32]*int32),
		FailFor:    make(map[int32]error),
	}
}

// UpdateCategoryForBill records the category written to the bill's line items
func (m *MockLineItemRepository) UpdateCategoryForBill(ctx context.Context, workspaceID int32, billID int32, categoryID *int32) (int64, error) {
	m.Calls = append(m.Calls, billID)
	if err, ok := m.FailFor[billID]; ok {
		return 0, err
	}
	m.Categories[billID] = categoryID
	return 2, nil
}

// MockSyncStatusRepository is an in-memory sync status store keyed by bill
type MockSyncStatusRepository struct {
	mu       sync.Mutex
	Statuses map[int32]*domain.SyncStatus
}

// NewMockSyncStatusRepository creates a new MockSyncStatusRepository
func NewMockSyncStatusRepository() *MockSyncStatusRepository {
	return &MockSyncStatusRepository{Statuses: make(map[int32]*domain.SyncStatus)}
}

// Upsert stores the status and increments the attempt counter
func (m *MockSyncStatusRepository) Upsert(ctx context.Context, status *domain.SyncStatus) (*domain.SyncStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *status
	if existing, ok := m.Statuses[status.BillID]; ok {
		stored.Attempts = existing.Attempts + 1
	} else {
		stored.Attempts = 1
	}
	if stored.State == domain.SyncStateSynced {
		stored.Attempts = 0
	}
	if stored.AttemptedAt.IsZero() {
		stored.AttemptedAt = time.Now()
	}
	m.Statuses[status.BillID] = &stored
	result := stored
	return &result, nil
}

// GetByBillIDs returns statuses for the given bills in the order of billIDs
func (m *MockSyncStatusRepository) GetByBillIDs(ctx context.Context, workspaceID int32, billIDs []int32) ([]*domain.SyncStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.SyncStatus, 0, len(billIDs))
	for _, id := range billIDs {
		if status, ok := m.Statuses[id]; ok && status.WorkspaceID == workspaceID {
			copied := *status
			result = append(result, &copied)
		}
	}
	return result, nil
}

// ListFailed returns failed statuses under the attempt cap, ordered by bill ID
func (m *MockSyncStatusRepository) ListFailed(ctx context.Context, maxAttempts int32, limit int32) ([]*domain.SyncStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.SyncStatus, 0)
	for _, status := range m.Statuses {
		if status.State == domain.SyncStateFailed && status.Attempts < maxAttempts {
			copied := *status
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].BillID < result[j].BillID })
	if int32(len(result)) > limit {
		result = result[:limit]
	}
	return result, nil
}

// MockBillSyncer returns scripted outcomes per bill
type MockBillSyncer struct {
	mu      sync.Mutex
	FailFor map[int32]string
	ErrFor  map[int32]error
	Calls   []int32
}

// NewMockBillSyncer creates a syncer that succeeds for every bill by default
func NewMockBillSyncer() *MockBillSyncer {
	return &MockBillSyncer{
		FailFor: make(map[int32]string),
		ErrFor:  make(map[int32]error),
	}
}

// SyncBill records the call and returns the scripted outcome
func (m *MockBillSyncer) SyncBill(ctx context.Context, workspaceID int32, billID int32) (*domain.SyncOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, billID)
	if err, ok := m.ErrFor[billID]; ok {
		return nil, err
	}
	if msg, ok := m.FailFor[billID]; ok {
		return &domain.SyncOutcome{Success: false, Error: &msg}, nil
	}
	externalID := fmt.Sprintf("qb-%d", billID)
	return &domain.SyncOutcome{Success: true, ExternalID: &externalID}, nil
}

// MockReportRepository keeps uploaded reports in memory
type MockReportRepository struct {
	Objects    map[string][]byte
	UploadErr  error
	PresignErr error
}

// NewMockReportRepository creates a new MockReportRepository
func NewMockReportRepository() *MockReportRepository {
	return &MockReportRepository{Objects: make(map[string][]byte)}
}

// Upload stores the object
func (m *MockReportRepository) Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error) {
	if m.UploadErr != nil {
		return "", m.UploadErr
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, data); err != nil {
		return "", err
	}
	m.Objects[objectPath] = buf.Bytes()
	return objectPath, nil
}

// Delete removes the object
func (m *MockReportRepository) Delete(ctx context.Context, objectPath string) error {
	if _, ok := m.Objects[objectPath]; !ok {
		return errors.New("object not found")
	}
	delete(m.Objects, objectPath)
	return nil
}

// GeneratePresignedURL returns a fake signed URL
func (m *MockReportRepository) GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error) {
	if m.PresignErr != nil {
		return "", m.PresignErr
	}
	return "https://reports.test/" + objectPath + "?expires=" + expiry.String(), nil
}

// RecordingPublisher captures published events
type RecordingPublisher struct {
	mu     sync.Mutex
	Events []PublishedEvent
}

// PublishedEvent is one captured Publish call
type PublishedEvent struct {
	WorkspaceID int32
	Event       websocket.Event
}

// Publish records the event
func (p *RecordingPublisher) Publish(workspaceID int32, event websocket.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, PublishedEvent{WorkspaceID: workspaceID, Event: event})
}

// Types returns the event types in publish order
func (p *RecordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, len(p.Events))
	for i, e := range p.Events {
		types[i] = e.Event.Type
	}
	return types
}
