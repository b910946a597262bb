package service

import (
	"time"

	"github.com/dafibh/backoffice/backoffice-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// PaymentBatchBuilder turns a bill selection plus defaults and per-bill overlays into payment instructions
type PaymentBatchBuilder struct{}

// NewPaymentBatchBuilder creates a new PaymentBatchBuilder
func NewPaymentBatchBuilder() *PaymentBatchBuilder {
	return &PaymentBatchBuilder{}
}

// Build resolves one instruction per payable bill, in selection order.
// Bills with nothing left to pay are skipped without being counted.
// Bills whose resolved amount fails validation are listed in Excluded.
func (b *PaymentBatchBuilder) Build(
	bills []*domain.VendorBill,
	defaults domain.PaymentDefaults,
	configs map[int32]domain.BillPaymentConfig,
) (*domain.PaymentBatch, error) {
	if err := defaults.Validate(); err != nil {
		return nil, err
	}

	batch := &domain.PaymentBatch{
		Instructions: make([]domain.PaymentInstruction, 0, len(bills)),
		Excluded:     make([]domain.ExcludedBill, 0),
		TotalPayment: decimal.Zero,
	}

	for _, bill := range bills {
		if !bill.IsPayable() {
			continue
		}

		cfg := configs[bill.ID]
		amount := resolveAmount(bill, cfg)

		check := domain.ValidatePaymentAmount(bill, amount)
		if !check.Admissible {
			batch.Excluded = append(batch.Excluded, domain.ExcludedBill{
				BillID:     bill.ID,
				BillNumber: bill.BillNumber,
				Amount:     amount,
				Reason:     check.Reason,
			})
			batch.InvalidCount++
			continue
		}

		instruction := resolveInstruction(bill, amount, defaults, cfg.Settings)
		batch.Instructions = append(batch.Instructions, instruction)
		batch.ValidCount++
		batch.TotalPayment = batch.TotalPayment.Add(amount)
	}

	return batch, nil
}

func resolveAmount(bill *domain.VendorBill, cfg domain.BillPaymentConfig) decimal.Decimal {
	if cfg.Amount != nil {
		return *cfg.Amount
	}
	return bill.RemainingAmount
}

// resolveInstruction applies the defaults, replacing each field only when a custom value is non-empty
func resolveInstruction(
	bill *domain.VendorBill,
	amount decimal.Decimal,
	defaults domain.PaymentDefaults,
	settings domain.PaymentSettings,
) domain.PaymentInstruction {
	instruction := domain.PaymentInstruction{
		BillID:      bill.ID,
		BillNumber:  bill.BillNumber,
		Amount:      amount,
		PaymentDate: defaults.PaymentDate,
		Method:      defaults.Method,
		Reference:   nonEmpty(defaults.Reference),
		Notes:       nonEmpty(defaults.Notes),
	}

	custom, ok := settings.(domain.CustomSettings)
	if !ok {
		return instruction
	}

	if custom.PaymentDate != nil && !custom.PaymentDate.IsZero() {
		instruction.PaymentDate = *custom.PaymentDate
	}
	if custom.Method != nil && *custom.Method != "" {
		instruction.Method = *custom.Method
	}
	if custom.Reference != nil && *custom.Reference != "" {
		instruction.Reference = nonEmpty(*custom.Reference)
	}
	if custom.Notes != nil && *custom.Notes != "" {
		instruction.Notes = nonEmpty(*custom.Notes)
	}
	return instruction
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// PaymentSession holds the selection and per-bill overlay of one bulk payment, owned by the caller.
// Defaults are only resolved in Build, so changing them reaches every bill that is not overridden.
type PaymentSession struct {
	builder  *PaymentBatchBuilder
	bills    []*domain.VendorBill
	defaults domain.PaymentDefaults
	configs  map[int32]domain.BillPaymentConfig
}

// NewPaymentSession starts a session over the payable bills of a selection
func NewPaymentSession(builder *PaymentBatchBuilder, bills []*domain.VendorBill, defaults domain.PaymentDefaults) *PaymentSession {
	selectable := make([]*domain.VendorBill, 0, len(bills))
	for _, bill := range bills {
		if bill.IsPayable() {
			selectable = append(selectable, bill)
		}
	}
	return &PaymentSession{
		builder:  builder,
		bills:    selectable,
		defaults: defaults,
		configs:  make(map[int32]domain.BillPaymentConfig),
	}
}

// Bills returns the selectable bills in selection order
func (s *PaymentSession) Bills() []*domain.VendorBill {
	return s.bills
}

// Defaults returns the current batch-global defaults
func (s *PaymentSession) Defaults() domain.PaymentDefaults {
	return s.defaults
}

// SetDefaults replaces the batch-global defaults
func (s *PaymentSession) SetDefaults(defaults domain.PaymentDefaults) {
	payFull := defaults.PayFullAmount && !s.defaults.PayFullAmount
	s.defaults = defaults
	if payFull {
		s.SetPayFullAmount(true)
	}
}

// SetPaymentDate changes the default payment date
func (s *PaymentSession) SetPaymentDate(date time.Time) {
	s.defaults.PaymentDate = date
}

// SetAmount overrides one bill's amount. An amount above the bill's remaining balance
// switches the pay-full-amount toggle off.
func (s *PaymentSession) SetAmount(billID int32, amount decimal.Decimal) (domain.AmountCheck, error) {
	bill := s.bill(billID)
	if bill == nil {
		return domain.AmountCheck{}, domain.ErrVendorBillNotFound
	}

	cfg := s.configs[billID]
	cfg.Amount = &amount
	s.configs[billID] = cfg

	check := domain.ValidatePaymentAmount(bill, amount)
	if check.Reason == domain.RejectExceedsRemaining {
		s.defaults.PayFullAmount = false
	}
	return check, nil
}

// ClearAmount drops one bill's amount override
func (s *PaymentSession) ClearAmount(billID int32) {
	cfg := s.configs[billID]
	cfg.Amount = nil
	s.configs[billID] = cfg
}

// SetPayFullAmount flips the pay-full-amount toggle; switching it on drops every amount override
func (s *PaymentSession) SetPayFullAmount(on bool) {
	s.defaults.PayFullAmount = on
	if !on {
		return
	}
	for id, cfg := range s.configs {
		cfg.Amount = nil
		s.configs[id] = cfg
	}
}

// UseCustomSettings switches one bill to its own settings
func (s *PaymentSession) UseCustomSettings(billID int32, settings domain.CustomSettings) {
	cfg := s.configs[billID]
	cfg.Settings = settings
	s.configs[billID] = cfg
}

// UseDefaultSettings switches one bill back to the batch-global defaults
func (s *PaymentSession) UseDefaultSettings(billID int32) {
	cfg := s.configs[billID]
	cfg.Settings = domain.DefaultSettings{}
	s.configs[billID] = cfg
}

// ValidateAmount checks the amount currently resolved for one bill
func (s *PaymentSession) ValidateAmount(billID int32) (domain.AmountCheck, error) {
	bill := s.bill(billID)
	if bill == nil {
		return domain.AmountCheck{}, domain.ErrVendorBillNotFound
	}
	return domain.ValidatePaymentAmount(bill, resolveAmount(bill, s.configs[billID])), nil
}

// Build resolves the session into a payment batch using the current defaults
func (s *PaymentSession) Build() (*domain.PaymentBatch, error) {
	return s.builder.Build(s.bills, s.defaults, s.configs)
}

// Clear discards the selection and overlay
func (s *PaymentSession) Clear() {
	s.bills = nil
	s.configs = make(map[int32]domain.BillPaymentConfig)
}

func (s *PaymentSession) bill(billID int32) *domain.VendorBill {
	for _, bill := range s.bills {
		if bill.ID == billID {
			return bill
		}
	}
	return nil
}
