package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNoAdmissibleInstructions = errors.New("batch has no admissible payment instructions")
	ErrEmptySelection           = errors.New("no bills selected")
	ErrSelectionTooLarge        = errors.New("selection exceeds maximum batch size")
)

// PaymentDefaults are the batch-global payment settings
type PaymentDefaults struct {
	PaymentDate   time.Time     `json:"paymentDate"`
	Method        PaymentMethod `json:"method"`
	Reference     string        `json:"reference"`
	Notes         string        `json:"notes"`
	PayFullAmount bool          `json:"payFullAmount"`
}

// Validate checks that the defaults can resolve a complete instruction
func (d PaymentDefaults) Validate() error {
	if d.PaymentDate.IsZero() {
		return ErrPaymentDateRequired
	}
	if !d.Method.IsValid() {
		return ErrPaymentMethodInvalid
	}
	return nil
}

// PaymentSettings is either DefaultSettings or CustomSettings
type PaymentSettings interface {
	paymentSettings()
}

// DefaultSettings uses the batch-global defaults for every field
type DefaultSettings struct{}

// CustomSettings overrides individual fields; empty overrides fall back to the defaults
type CustomSettings struct {
	PaymentDate *time.Time
	Method      *PaymentMethod
	Reference   *string
	Notes       *string
}

func (DefaultSettings) paymentSettings() {}
func (CustomSettings) paymentSettings()  {}

// BillPaymentConfig is the per-bill overlay of a payment session
type BillPaymentConfig struct {
	Amount   *decimal.Decimal
	Settings PaymentSettings
}

// ExcludedBill is a selected bill whose resolved amount is not admissible
type ExcludedBill struct {
	BillID     int32           `json:"billId"`
	BillNumber string          `json:"billNumber"`
	Amount     decimal.Decimal `json:"amount"`
	Reason     AmountRejection `json:"reason"`
}

// PaymentBatch is the outcome of building a batch from a selection
type PaymentBatch struct {
	Instructions []PaymentInstruction `json:"instructions"`
	Excluded     []ExcludedBill       `json:"excluded"`
	ValidCount   int                  `json:"validCount"`
	InvalidCount int                  `json:"invalidCount"`
	TotalPayment decimal.Decimal      `json:"totalPayment"`
}

// CanProceed reports whether the batch may be submitted for review
func (b *PaymentBatch) CanProceed() bool {
	return b.ValidCount > 0
}

// PaymentReviewInput is a selection with its defaults and per-bill overlays
type PaymentReviewInput struct {
	BillIDs  []int32
	Defaults PaymentDefaults
	Configs  map[int32]BillPaymentConfig
}

// PaymentReview is a built batch together with the defaults it was resolved against
type PaymentReview struct {
	Batch      *PaymentBatch   `json:"batch"`
	Defaults   PaymentDefaults `json:"defaults"`
	CanProceed bool            `json:"canProceed"`
}
