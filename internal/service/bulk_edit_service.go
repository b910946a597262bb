package service

import (
	"context"
	"time"

	"github.com/dafibh/backoffice/backoffice-backend/internal/domain"
	"github.com/dafibh/backoffice/backoffice-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// BulkEditConfig holds configuration for the bulk edit service
type BulkEditConfig struct {
	ItemPause time.Duration // Pause between bills, 0 to run back to back
}

// BulkEditService applies sparse field updates across a selection of bills
type BulkEditService struct {
	billRepo       domain.VendorBillRepository
	lineItemRepo   domain.LineItemRepository
	syncService    *SyncService
	reporter       *ResultReporter
	eventPublisher websocket.EventPublisher
	logger         zerolog.Logger
	itemPause      time.Duration
}

// NewBulkEditService creates a new BulkEditService. syncService may be nil.
func NewBulkEditService(
	billRepo domain.VendorBillRepository,
	lineItemRepo domain.LineItemRepository,
	syncService *SyncService,
	reporter *ResultReporter,
	logger zerolog.Logger,
	config BulkEditConfig,
) *BulkEditService {
	return &BulkEditService{
		billRepo:     billRepo,
		lineItemRepo: lineItemRepo,
		syncService:  syncService,
		reporter:     reporter,
		logger:       logger.With().Str("component", "bulk_edit").Logger(),
		itemPause:    config.ItemPause,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *BulkEditService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *BulkEditService) publishEvent(workspaceID int32, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(workspaceID, event)
	}
}

func (s *BulkEditService) syncEnabled() bool {
	return s.syncService != nil && s.syncService.Enabled()
}

// Apply updates each bill in selection order, one at a time. For every bill the header
// fields and the line-item category are written first ("updating"), then, when sync is
// configured and the write succeeded, the bill is pushed to the accounting system
// ("syncing"). A failed write marks the bill failed without rolling back the other write.
// A failed sync only adds a warning. onProgress is called synchronously and may be nil.
func (s *BulkEditService) Apply(
	ctx context.Context,
	workspaceID int32,
	billIDs []int32,
	updates domain.BulkEditUpdateSet,
	onProgress domain.ProgressFunc,
) (*domain.BulkEditResult, error) {
	if err := updates.Validate(); err != nil {
		return nil, err
	}
	if err := validateSelection(billIDs); err != nil {
		return nil, err
	}

	ids := uniqueIDs(billIDs)
	bills, err := s.billRepo.GetByIDs(ctx, workspaceID, ids)
	if err != nil {
		return nil, err
	}
	billNumbers := make(map[int32]string, len(bills))
	for _, bill := range bills {
		billNumbers[bill.ID] = bill.BillNumber
	}

	batchID := uuid.New()
	logger := s.logger.With().
		Int32("workspace_id", workspaceID).
		Str("batch_id", batchID.String()).
		Logger()
	logger.Info().
		Int("bills", len(ids)).
		Bool("sync", s.syncEnabled()).
		Msg("Starting bulk edit")

	report := func(progress domain.BulkEditProgress) {
		if onProgress != nil {
			onProgress(progress)
		}
		s.publishEvent(workspaceID, websocket.BulkEditProgress(map[string]interface{}{
			"batchId":  batchID,
			"progress": progress,
		}))
	}

	result := &domain.BulkEditResult{SyncWarnings: []domain.SyncWarning{}}
	entries := make([]domain.BatchResultEntry, 0, len(ids))
	synced := make([]int32, 0, len(ids))
	total := len(ids)

	for i, id := range ids {
		billNumber := billNumbers[id]
		if ctx.Err() != nil {
			entries = append(entries, domain.FailedEntry(id, billNumber, ErrBatchCancelled))
			continue
		}

		report(domain.BulkEditProgress{Current: i + 1, Total: total, Phase: domain.BulkEditPhaseUpdating, BillID: id})
		if err := s.update(ctx, workspaceID, id, billNumbers, updates); err != nil {
			logger.Warn().Err(err).Int32("bill_id", id).Msg("Bill update failed")
			entries = append(entries, domain.FailedEntry(id, billNumber, err))
			s.pause(ctx, i, total)
			continue
		}
		entries = append(entries, domain.SucceededEntry(id, billNumber))

		if s.syncEnabled() {
			report(domain.BulkEditProgress{Current: i + 1, Total: total, Phase: domain.BulkEditPhaseSyncing, BillID: id})
			if warning := s.sync(ctx, workspaceID, id, billNumber); warning != nil {
				result.SyncWarnings = append(result.SyncWarnings, *warning)
			}
			synced = append(synced, id)
		}

		s.pause(ctx, i, total)
	}

	result.Summary = s.reporter.Summarize(batchID, domain.BatchKindEdit, entries)
	result.Success = result.Summary.SuccessCount
	result.Failed = result.Summary.FailedCount
	if err := s.reporter.Archive(context.WithoutCancel(ctx), workspaceID, &result.Summary); err != nil {
		logger.Error().Err(err).Msg("Failed to archive bulk edit report")
	}

	logger.Info().
		Int("succeeded", result.Success).
		Int("failed", result.Failed).
		Int("sync_warnings", len(result.SyncWarnings)).
		Msg("Completed bulk edit")

	s.publishEvent(workspaceID, websocket.VendorBillsBulkUpdated(map[string]interface{}{
		"billIds": ids,
	}))
	if len(synced) > 0 {
		s.publishEvent(workspaceID, websocket.SyncStatusUpdated(map[string]interface{}{
			"billIds": synced,
		}))
	}
	s.publishEvent(workspaceID, websocket.BulkEditCompleted(result))

	return result, nil
}

// update writes the header fields, then the line-item category
func (s *BulkEditService) update(ctx context.Context, workspaceID, billID int32, known map[int32]string, updates domain.BulkEditUpdateSet) error {
	if _, ok := known[billID]; !ok {
		return domain.ErrVendorBillNotFound
	}
	if updates.HasHeaderFields() {
		if err := s.billRepo.UpdateFields(ctx, workspaceID, billID, updates.HeaderUpdate()); err != nil {
			return err
		}
	}
	if updates.HasCategory() {
		if _, err := s.lineItemRepo.UpdateCategoryForBill(ctx, workspaceID, billID, updates.CategoryID.Ptr()); err != nil {
			return err
		}
	}
	return nil
}

// sync pushes one bill and returns a warning when it did not reach the accounting system
func (s *BulkEditService) sync(ctx context.Context, workspaceID, billID int32, billNumber string) *domain.SyncWarning {
	status, err := s.syncService.SyncBill(ctx, workspaceID, billID)
	switch {
	case err != nil:
		return &domain.SyncWarning{BillID: billID, BillNumber: billNumber, Message: err.Error()}
	case status.State == domain.SyncStateFailed:
		msg := domain.ErrSyncFailed.Error()
		if status.LastError != nil {
			msg = *status.LastError
		}
		return &domain.SyncWarning{BillID: billID, BillNumber: billNumber, Message: msg}
	}
	return nil
}

// pause waits between bills, except after the last one
func (s *BulkEditService) pause(ctx context.Context, index, total int) {
	if s.itemPause <= 0 || index == total-1 {
		return
	}
	timer := time.NewTimer(s.itemPause)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
