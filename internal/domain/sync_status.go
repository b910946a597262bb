package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrSyncNotConfigured = errors.New("accounting sync is not configured")
	ErrSyncStatusMissing = errors.New("sync status not found")
	ErrSyncFailed        = errors.New("accounting sync failed")
)

// SyncState is the last known state of a bill in the third-party accounting system
type SyncState string

const (
	SyncStateSynced SyncState = "synced"
	SyncStateFailed SyncState = "failed"
)

// SyncOutcome is what the third-party sync call reports for one bill
type SyncOutcome struct {
	Success    bool    `json:"success"`
	Error      *string `json:"error,omitempty"`
	ExternalID *string `json:"externalId,omitempty"`
}

// SyncStatus is the persisted sync indicator of a bill
type SyncStatus struct {
	WorkspaceID int32     `json:"workspaceId"`
	BillID      int32     `json:"billId"`
	State       SyncState `json:"state"`
	LastError   *string   `json:"lastError,omitempty"`
	ExternalID  *string   `json:"externalId,omitempty"`
	Attempts    int32     `json:"attempts"`
	AttemptedAt time.Time `json:"attemptedAt"`
}

// BillSyncer pushes one bill to the third-party accounting system
type BillSyncer interface {
	SyncBill(ctx context.Context, workspaceID int32, billID int32) (*SyncOutcome, error)
}

// SyncStatusRepository persists sync indicators
type SyncStatusRepository interface {
	Upsert(ctx context.Context, status *SyncStatus) (*SyncStatus, error)
	GetByBillIDs(ctx context.Context, workspaceID int32, billIDs []int32) ([]*SyncStatus, error)
	ListFailed(ctx context.Context, maxAttempts int32, limit int32) ([]*SyncStatus, error)
}
