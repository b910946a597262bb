package service

import (
	"context"

	"github.com/dafibh/backoffice/backoffice-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// VendorBillService handles vendor bill lookups and single-bill payment validation
type VendorBillService struct {
	billRepo domain.VendorBillRepository
}

// NewVendorBillService creates a new VendorBillService
func NewVendorBillService(billRepo domain.VendorBillRepository) *VendorBillService {
	return &VendorBillService{billRepo: billRepo}
}

// GetBill retrieves one bill
func (s *VendorBillService) GetBill(ctx context.Context, workspaceID int32, id int32) (*domain.VendorBill, error) {
	return s.billRepo.GetByID(ctx, workspaceID, id)
}

// GetPayableBills returns the selected bills that still have a balance to pay, in selection order
func (s *VendorBillService) GetPayableBills(ctx context.Context, workspaceID int32, ids []int32) ([]*domain.VendorBill, error) {
	if err := validateSelection(ids); err != nil {
		return nil, err
	}

	bills, err := s.billRepo.GetByIDs(ctx, workspaceID, uniqueIDs(ids))
	if err != nil {
		return nil, err
	}

	payable := make([]*domain.VendorBill, 0, len(bills))
	for _, bill := range bills {
		if bill.IsPayable() {
			payable = append(payable, bill)
		}
	}
	return payable, nil
}

// ValidatePayment checks a proposed amount against the bill's current remaining balance
func (s *VendorBillService) ValidatePayment(ctx context.Context, workspaceID int32, id int32, amount decimal.Decimal) (domain.AmountCheck, error) {
	bill, err := s.billRepo.GetByID(ctx, workspaceID, id)
	if err != nil {
		return domain.AmountCheck{}, err
	}
	return domain.ValidatePaymentAmount(bill, amount), nil
}
