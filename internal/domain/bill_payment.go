package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrPaymentDateRequired  = errors.New("payment date is required")
	ErrPaymentMethodInvalid = errors.New("invalid payment method")
	ErrPaymentReferenceLong = errors.New("payment reference exceeds maximum length")
	ErrPaymentNotesTooLong  = errors.New("payment notes exceed maximum length")
	ErrBillNotPayable       = errors.New("bill is not payable")
	ErrLedgerUnavailable    = errors.New("payment ledger unavailable")
)

// PaymentMethod is how a vendor bill was paid
type PaymentMethod string

const (
	PaymentMethodCheck      PaymentMethod = "check"
	PaymentMethodACH        PaymentMethod = "ach"
	PaymentMethodWire       PaymentMethod = "wire"
	PaymentMethodCreditCard PaymentMethod = "credit_card"
	PaymentMethodCash       PaymentMethod = "cash"
	PaymentMethodOther      PaymentMethod = "other"
)

// IsValid reports whether m is an allowed payment method
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCheck, PaymentMethodACH, PaymentMethodWire,
		PaymentMethodCreditCard, PaymentMethodCash, PaymentMethodOther:
		return true
	}
	return false
}

// PaymentInstruction is one resolved payment of a batch. It is never persisted as-is.
type PaymentInstruction struct {
	BillID      int32           `json:"billId"`
	BillNumber  string          `json:"billNumber"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate time.Time       `json:"paymentDate"`
	Method      PaymentMethod   `json:"method"`
	Reference   *string         `json:"reference,omitempty"`
	Notes       *string         `json:"notes,omitempty"`
}

// Validate checks the instruction fields that do not depend on the bill balance
func (p *PaymentInstruction) Validate() error {
	if p.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrNonPositiveAmount
	}
	if p.PaymentDate.IsZero() {
		return ErrPaymentDateRequired
	}
	if !p.Method.IsValid() {
		return ErrPaymentMethodInvalid
	}
	if p.Reference != nil && len(*p.Reference) > MaxReferenceLength {
		return ErrPaymentReferenceLong
	}
	if p.Notes != nil && len(*p.Notes) > MaxPaymentNotesLength {
		return ErrPaymentNotesTooLong
	}
	return nil
}

// BillPayment is a payment recorded against a vendor bill by the ledger
type BillPayment struct {
	ID          int32           `json:"id"`
	WorkspaceID int32           `json:"workspaceId"`
	BillID      int32           `json:"billId"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate time.Time       `json:"paymentDate"`
	Method      PaymentMethod   `json:"method"`
	Reference   *string         `json:"reference,omitempty"`
	Notes       *string         `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// BillPaymentRepository is the payment ledger. RecordPayment applies one payment
// atomically: it must reject amounts above the bill's current remaining balance.
type BillPaymentRepository interface {
	Ping(ctx context.Context) error
	RecordPayment(ctx context.Context, workspaceID int32, instruction PaymentInstruction) (*BillPayment, error)
}
