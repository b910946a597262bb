package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrNonPositiveAmount = errors.New("payment amount must be greater than zero")
	ErrExceedsRemaining  = errors.New("payment amount exceeds remaining balance")
)

// AmountRejection names why a proposed payment amount is not admissible
type AmountRejection string

const (
	RejectNonPositiveAmount AmountRejection = "non_positive_amount"
	RejectExceedsRemaining  AmountRejection = "exceeds_remaining"
)

// AmountCheck is the outcome of validating a proposed payment amount
type AmountCheck struct {
	Admissible bool            `json:"admissible"`
	Reason     AmountRejection `json:"reason,omitempty"`
}

// Err returns the sentinel error for a rejected check, nil when admissible
func (c AmountCheck) Err() error {
	switch c.Reason {
	case RejectNonPositiveAmount:
		return ErrNonPositiveAmount
	case RejectExceedsRemaining:
		return ErrExceedsRemaining
	}
	return nil
}

// ValidatePaymentAmount decides whether amount may be paid against bill.
// Admissible iff 0 < amount <= remaining.
func ValidatePaymentAmount(bill *VendorBill, amount decimal.Decimal) AmountCheck {
	if amount.LessThanOrEqual(decimal.Zero) {
		return AmountCheck{Reason: RejectNonPositiveAmount}
	}
	if amount.GreaterThan(bill.RemainingAmount) {
		return AmountCheck{Reason: RejectExceedsRemaining}
	}
	return AmountCheck{Admissible: true}
}
