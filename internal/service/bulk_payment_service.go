package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dafibh/backoffice/backoffice-backend/internal/domain"
	"github.com/dafibh/backoffice/backoffice-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrBatchCancelled is recorded for instructions that were not attempted because the batch was cancelled
var ErrBatchCancelled = errors.New("batch cancelled before this payment was attempted")

// BulkPaymentService submits payment batches to the ledger one instruction at a time
type BulkPaymentService struct {
	billRepo       domain.VendorBillRepository
	paymentRepo    domain.BillPaymentRepository
	reporter       *ResultReporter
	eventPublisher websocket.EventPublisher
	logger         zerolog.Logger
}

// NewBulkPaymentService creates a new BulkPaymentService
func NewBulkPaymentService(
	billRepo domain.VendorBillRepository,
	paymentRepo domain.BillPaymentRepository,
	reporter *ResultReporter,
	logger zerolog.Logger,
) *BulkPaymentService {
	return &BulkPaymentService{
		billRepo:    billRepo,
		paymentRepo: paymentRepo,
		reporter:    reporter,
		logger:      logger.With().Str("component", "bulk_payment").Logger(),
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *BulkPaymentService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *BulkPaymentService) publishEvent(workspaceID int32, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(workspaceID, event)
	}
}

// Execute records every instruction sequentially and returns one entry per instruction, in order.
// Only setup failures are returned as errors; once the first instruction is attempted the
// batch always completes. Each call produces its own summary and nothing is retried.
func (s *BulkPaymentService) Execute(ctx context.Context, workspaceID int32, instructions []domain.PaymentInstruction) (*domain.BatchSummary, error) {
	if len(instructions) == 0 {
		return nil, domain.ErrNoAdmissibleInstructions
	}
	if len(instructions) > domain.MaxBulkSelectionSize {
		return nil, domain.ErrSelectionTooLarge
	}
	if err := s.paymentRepo.Ping(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLedgerUnavailable, err)
	}

	batchID := uuid.New()
	logger := s.logger.With().
		Int32("workspace_id", workspaceID).
		Str("batch_id", batchID.String()).
		Logger()
	logger.Info().Int("instructions", len(instructions)).Msg("Starting bulk payment")

	entries := make([]domain.BatchResultEntry, 0, len(instructions))
	for _, instruction := range instructions {
		if ctx.Err() != nil {
			entries = append(entries, domain.FailedEntry(instruction.BillID, instruction.BillNumber, ErrBatchCancelled))
			continue
		}

		if err := s.pay(ctx, workspaceID, instruction); err != nil {
			logger.Warn().
				Err(err).
				Int32("bill_id", instruction.BillID).
				Msg("Payment failed")
			entries = append(entries, domain.FailedEntry(instruction.BillID, instruction.BillNumber, err))
			continue
		}
		entries = append(entries, domain.SucceededEntry(instruction.BillID, instruction.BillNumber))
	}

	summary := s.reporter.Summarize(batchID, domain.BatchKindPayment, entries)
	// The report is written even when the caller has gone away
	if err := s.reporter.Archive(context.WithoutCancel(ctx), workspaceID, &summary); err != nil {
		logger.Error().Err(err).Msg("Failed to archive payment report")
	}

	logger.Info().
		Int("succeeded", summary.SuccessCount).
		Int("failed", summary.FailedCount).
		Str("outcome", string(summary.Outcome)).
		Msg("Completed bulk payment")

	s.publishEvent(workspaceID, websocket.BillPaymentBatchPaid(summary))
	if summary.SuccessCount > 0 {
		s.publishEvent(workspaceID, websocket.VendorBillsBulkUpdated(map[string]interface{}{
			"billIds": succeededIDs(entries),
		}))
	}

	return &summary, nil
}

// pay re-reads the bill and re-validates the amount against its current balance before recording
func (s *BulkPaymentService) pay(ctx context.Context, workspaceID int32, instruction domain.PaymentInstruction) error {
	if err := instruction.Validate(); err != nil {
		return err
	}

	bill, err := s.billRepo.GetByID(ctx, workspaceID, instruction.BillID)
	if err != nil {
		return err
	}
	if bill.Status == domain.BillStatusVoid {
		return domain.ErrBillNotPayable
	}
	if err := domain.ValidatePaymentAmount(bill, instruction.Amount).Err(); err != nil {
		return fmt.Errorf("%w (remaining %s)", err, bill.RemainingAmount.StringFixed(2))
	}

	_, err = s.paymentRepo.RecordPayment(ctx, workspaceID, instruction)
	return err
}

func succeededIDs(entries []domain.BatchResultEntry) []int32 {
	ids := make([]int32, 0, len(entries))
	for _, entry := range entries {
		if entry.Success {
			ids = append(ids, entry.BillID)
		}
	}
	return ids
}
