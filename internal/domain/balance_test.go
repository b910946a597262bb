package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidatePaymentAmount(t *testing.T) {
	bill := &VendorBill{
		ID:              1,
		TotalAmount:     decimal.NewFromInt(200),
		RemainingAmount: decimal.NewFromInt(100),
		Status:          BillStatusPartiallyPaid,
	}

	tests := []struct {
		name       string
		amount     decimal.Decimal
		admissible bool
		reason     AmountRejection
		wantErr    error
	}{
		{name: "zero amount", amount: decimal.Zero, reason: RejectNonPositiveAmount, wantErr: ErrNonPositiveAmount},
		{name: "negative amount", amount: decimal.NewFromInt(-5), reason: RejectNonPositiveAmount, wantErr: ErrNonPositiveAmount},
		{name: "exactly remaining", amount: decimal.NewFromInt(100), admissible: true},
		{name: "one cent", amount: decimal.RequireFromString("0.01"), admissible: true},
		{name: "one cent over remaining", amount: decimal.RequireFromString("100.01"), reason: RejectExceedsRemaining, wantErr: ErrExceedsRemaining},
		{name: "above total", amount: decimal.NewFromInt(250), reason: RejectExceedsRemaining, wantErr: ErrExceedsRemaining},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := ValidatePaymentAmount(bill, tt.amount)
			if check.Admissible != tt.admissible {
				t.Errorf("expected admissible=%v, got %v", tt.admissible, check.Admissible)
			}
			if check.Reason != tt.reason {
				t.Errorf("expected reason %q, got %q", tt.reason, check.Reason)
			}
			if check.Err() != tt.wantErr {
				t.Errorf("expected error %v, got %v", tt.wantErr, check.Err())
			}
		})
	}
}

func TestValidatePaymentAmount_Idempotent(t *testing.T) {
	bill := &VendorBill{TotalAmount: decimal.NewFromInt(50), RemainingAmount: decimal.NewFromInt(50)}
	amount := decimal.NewFromInt(75)

	first := ValidatePaymentAmount(bill, amount)
	second := ValidatePaymentAmount(bill, amount)

	if first != second {
		t.Errorf("expected identical results, got %+v and %+v", first, second)
	}
	if !bill.RemainingAmount.Equal(decimal.NewFromInt(50)) {
		t.Errorf("validation must not change the bill, remaining is %s", bill.RemainingAmount)
	}
}
