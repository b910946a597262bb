package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dafibh/backoffice/backoffice-backend/internal/domain"
	"github.com/dafibh/backoffice/backoffice-backend/internal/websocket"
	"github.com/rs/zerolog"
)

// SyncService pushes bills to the accounting system and keeps their sync indicator.
// A nil syncer means sync is not configured.
type SyncService struct {
	syncer         domain.BillSyncer
	statusRepo     domain.SyncStatusRepository
	billRepo       domain.VendorBillRepository
	eventPublisher websocket.EventPublisher
	logger         zerolog.Logger
}

// RetrySummary is the outcome of one retry sweep
type RetrySummary struct {
	Attempted int `json:"attempted"`
	Synced    int `json:"synced"`
	Failed    int `json:"failed"`
}

// NewSyncService creates a new SyncService
func NewSyncService(
	syncer domain.BillSyncer,
	statusRepo domain.SyncStatusRepository,
	billRepo domain.VendorBillRepository,
	logger zerolog.Logger,
) *SyncService {
	return &SyncService{
		syncer:     syncer,
		statusRepo: statusRepo,
		billRepo:   billRepo,
		logger:     logger.With().Str("component", "sync_service").Logger(),
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *SyncService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *SyncService) publishEvent(workspaceID int32, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(workspaceID, event)
	}
}

// Enabled reports whether a syncer is configured
func (s *SyncService) Enabled() bool {
	return s.syncer != nil
}

// SyncBill pushes one bill and records the result. A failed sync is returned as a
// failed status, not an error; errors are only returned when the status cannot be stored.
func (s *SyncService) SyncBill(ctx context.Context, workspaceID int32, billID int32) (*domain.SyncStatus, error) {
	if !s.Enabled() {
		return nil, domain.ErrSyncNotConfigured
	}

	status := &domain.SyncStatus{
		WorkspaceID: workspaceID,
		BillID:      billID,
		AttemptedAt: time.Now().UTC(),
	}

	outcome, err := s.syncer.SyncBill(ctx, workspaceID, billID)
	switch {
	case err != nil:
		msg := err.Error()
		status.State = domain.SyncStateFailed
		status.LastError = &msg
	case !outcome.Success:
		status.State = domain.SyncStateFailed
		status.LastError = outcome.Error
		if status.LastError == nil {
			msg := domain.ErrSyncFailed.Error()
			status.LastError = &msg
		}
	default:
		status.State = domain.SyncStateSynced
		status.ExternalID = outcome.ExternalID
	}

	if status.State == domain.SyncStateFailed {
		s.logger.Warn().
			Int32("workspace_id", workspaceID).
			Int32("bill_id", billID).
			Str("error", *status.LastError).
			Msg("Bill sync failed")
	}

	// The sync already happened, so its record is stored even if the caller has gone away
	stored, err := s.statusRepo.Upsert(context.WithoutCancel(ctx), status)
	if err != nil {
		return nil, fmt.Errorf("failed to record sync status: %w", err)
	}
	return stored, nil
}

// RetryBill is the operator's manual "sync again" for one bill
func (s *SyncService) RetryBill(ctx context.Context, workspaceID int32, billID int32) (*domain.SyncStatus, error) {
	if !s.Enabled() {
		return nil, domain.ErrSyncNotConfigured
	}
	if _, err := s.billRepo.GetByID(ctx, workspaceID, billID); err != nil {
		return nil, err
	}

	status, err := s.SyncBill(ctx, workspaceID, billID)
	if err != nil {
		return nil, err
	}
	s.publishEvent(workspaceID, websocket.SyncStatusUpdated(map[string]interface{}{
		"billIds": []int32{billID},
	}))
	return status, nil
}

// GetStatuses returns the known sync indicators of the given bills
func (s *SyncService) GetStatuses(ctx context.Context, workspaceID int32, billIDs []int32) ([]*domain.SyncStatus, error) {
	if err := validateSelection(billIDs); err != nil {
		return nil, err
	}
	return s.statusRepo.GetByBillIDs(ctx, workspaceID, uniqueIDs(billIDs))
}

// RetryFailed re-syncs failed bills that are still under maxAttempts, oldest bill first
func (s *SyncService) RetryFailed(ctx context.Context, maxAttempts int32, limit int32) (*RetrySummary, error) {
	if !s.Enabled() {
		return nil, domain.ErrSyncNotConfigured
	}

	failed, err := s.statusRepo.ListFailed(ctx, maxAttempts, limit)
	if err != nil {
		return nil, err
	}

	summary := &RetrySummary{}
	touched := make(map[int32][]int32)
	for _, previous := range failed {
		if ctx.Err() != nil {
			break
		}
		status, err := s.SyncBill(ctx, previous.WorkspaceID, previous.BillID)
		if err != nil {
			s.logger.Error().Err(err).Int32("bill_id", previous.BillID).Msg("Failed to retry bill sync")
			continue
		}
		summary.Attempted++
		if status.State == domain.SyncStateSynced {
			summary.Synced++
		} else {
			summary.Failed++
		}
		touched[previous.WorkspaceID] = append(touched[previous.WorkspaceID], previous.BillID)
	}

	for workspaceID, billIDs := range touched {
		s.publishEvent(workspaceID, websocket.SyncStatusUpdated(map[string]interface{}{
			"billIds": billIDs,
		}))
	}
	return summary, nil
}
