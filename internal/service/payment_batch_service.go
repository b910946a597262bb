package service

import (
	"context"
	"errors"
	"sort"

	"github.com/dafibh/backoffice/backoffice-backend/internal/domain"
)

// PaymentBatchService builds bulk payment batches for review
type PaymentBatchService struct {
	billRepo domain.VendorBillRepository
	builder  *PaymentBatchBuilder
}

// NewPaymentBatchService creates a new PaymentBatchService
func NewPaymentBatchService(billRepo domain.VendorBillRepository, builder *PaymentBatchBuilder) *PaymentBatchService {
	return &PaymentBatchService{
		billRepo: billRepo,
		builder:  builder,
	}
}

// Review loads the selected bills with their current balances and builds the batch.
// Overlays are applied through a PaymentSession so an over-large amount switches
// the pay-full-amount default off exactly as it does while editing.
func (s *PaymentBatchService) Review(ctx context.Context, workspaceID int32, input domain.PaymentReviewInput) (*domain.PaymentReview, error) {
	if err := validateSelection(input.BillIDs); err != nil {
		return nil, err
	}
	if err := input.Defaults.Validate(); err != nil {
		return nil, err
	}

	selected := uniqueIDs(input.BillIDs)
	bills, err := s.billRepo.GetByIDs(ctx, workspaceID, selected)
	if err != nil {
		return nil, err
	}
	if len(bills) != len(selected) {
		return nil, domain.ErrVendorBillNotFound
	}

	session := NewPaymentSession(s.builder, bills, input.Defaults)

	// Sorted so the toggle policy does not depend on map iteration order
	ids := make([]int32, 0, len(input.Configs))
	for id := range input.Configs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		cfg := input.Configs[id]
		if custom, ok := cfg.Settings.(domain.CustomSettings); ok {
			session.UseCustomSettings(id, custom)
		}
		if cfg.Amount == nil {
			continue
		}
		// Overlays for bills that are no longer payable are ignored
		if _, err := session.SetAmount(id, *cfg.Amount); err != nil && !errors.Is(err, domain.ErrVendorBillNotFound) {
			return nil, err
		}
	}

	batch, err := session.Build()
	if err != nil {
		return nil, err
	}

	return &domain.PaymentReview{
		Batch:      batch,
		Defaults:   session.Defaults(),
		CanProceed: batch.CanProceed(),
	}, nil
}

// validateSelection rejects empty and oversized selections
func validateSelection(ids []int32) error {
	if len(ids) == 0 {
		return domain.ErrEmptySelection
	}
	if len(ids) > domain.MaxBulkSelectionSize {
		return domain.ErrSelectionTooLarge
	}
	return nil
}

// uniqueIDs returns ids without duplicates, keeping first-seen order
func uniqueIDs(ids []int32) []int32 {
	seen := make(map[int32]struct{}, len(ids))
	result := make([]int32, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
