package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrVendorBillNotFound      = errors.New("vendor bill not found")
	ErrBillBalanceInconsistent = errors.New("remaining balance must be between zero and the bill total")
	ErrBillStatusInvalid       = errors.New("invalid bill status")
)

// BillStatus is the lifecycle status of a vendor bill
type BillStatus string

const (
	BillStatusDraft         BillStatus = "draft"
	BillStatusOpen          BillStatus = "open"
	BillStatusPartiallyPaid BillStatus = "partially_paid"
	BillStatusPaid          BillStatus = "paid"
	BillStatusVoid          BillStatus = "void"
)

// IsValid reports whether s is one of the known bill statuses
func (s BillStatus) IsValid() bool {
	switch s {
	case BillStatusDraft, BillStatusOpen, BillStatusPartiallyPaid, BillStatusPaid, BillStatusVoid:
		return true
	}
	return false
}

// VendorBill is a payable document owed to a vendor
type VendorBill struct {
	ID              int32           `json:"id"`
	WorkspaceID     int32           `json:"workspaceId"`
	BillNumber      string          `json:"billNumber"`
	VendorName      string          `json:"vendorName"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	Status          BillStatus      `json:"status"`
	BillDate        *time.Time      `json:"billDate,omitempty"`
	DueDate         *time.Time      `json:"dueDate,omitempty"`
	Memo            *string         `json:"memo,omitempty"`
	ReferenceNumber *string         `json:"referenceNumber,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Validate checks the balance invariant 0 <= remaining <= total
func (b *VendorBill) Validate() error {
	if !b.Status.IsValid() {
		return ErrBillStatusInvalid
	}
	if b.RemainingAmount.IsNegative() || b.RemainingAmount.GreaterThan(b.TotalAmount) {
		return ErrBillBalanceInconsistent
	}
	return nil
}

// IsPayable reports whether the bill still has a balance that can be paid
func (b *VendorBill) IsPayable() bool {
	return b.Status != BillStatusVoid && b.RemainingAmount.IsPositive()
}

// StatusAfterPayment returns the status a bill moves to once amount is applied
func (b *VendorBill) StatusAfterPayment(amount decimal.Decimal) BillStatus {
	if b.RemainingAmount.Sub(amount).LessThanOrEqual(decimal.Zero) {
		return BillStatusPaid
	}
	return BillStatusPartiallyPaid
}

// BillFieldUpdate carries header fields for a sparse update.
// Only fields with Set == true are written.
type BillFieldUpdate struct {
	Status          Field[BillStatus]
	BillDate        Field[time.Time]
	DueDate         Field[time.Time]
	Memo            Field[string]
	ReferenceNumber Field[string]
}

// IsEmpty reports whether no header field is touched
func (u BillFieldUpdate) IsEmpty() bool {
	return !u.Status.Set && !u.BillDate.Set && !u.DueDate.Set && !u.Memo.Set && !u.ReferenceNumber.Set
}

// VendorBillRepository is the store of vendor bill headers
type VendorBillRepository interface {
	GetByID(ctx context.Context, workspaceID int32, id int32) (*VendorBill, error)
	GetByIDs(ctx context.Context, workspaceID int32, ids []int32) ([]*VendorBill, error)
	UpdateFields(ctx context.Context, workspaceID int32, id int32, update BillFieldUpdate) error
}

// LineItemRepository is the store of bill line items
type LineItemRepository interface {
	// UpdateCategoryForBill sets the category of every line item of the bill.
	// A nil categoryID clears the category.
	UpdateCategoryForBill(ctx context.Context, workspaceID int32, billID int32, categoryID *int32) (int64, error)
}
