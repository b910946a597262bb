package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dafibh/backoffice/backoffice-backend/internal/domain"
	"github.com/dafibh/backoffice/backoffice-backend/internal/middleware"
	"github.com/dafibh/backoffice/backoffice-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// BulkPaymentHandler handles batch review and bulk payment requests
type BulkPaymentHandler struct {
	batchService   *service.PaymentBatchService
	paymentService *service.BulkPaymentService
}

// NewBulkPaymentHandler creates a new BulkPaymentHandler
func NewBulkPaymentHandler(batchService *service.PaymentBatchService, paymentService *service.BulkPaymentService) *BulkPaymentHandler {
	return &BulkPaymentHandler{
		batchService:   batchService,
		paymentService: paymentService,
	}
}

// PaymentDefaultsRequest holds the batch-global payment settings
type PaymentDefaultsRequest struct {
	PaymentDate   string `json:"paymentDate"`
	Method        string `json:"method"`
	Reference     string `json:"reference"`
	Notes         string `json:"notes"`
	PayFullAmount bool   `json:"payFullAmount"`
}

// BillPaymentConfigRequest overrides the defaults for one bill
type BillPaymentConfigRequest struct {
	BillID            int32   `json:"billId"`
	Amount            *string `json:"amount,omitempty"`
	UseCustomSettings bool    `json:"useCustomSettings"`
	PaymentDate       *string `json:"paymentDate,omitempty"`
	Method            *string `json:"method,omitempty"`
	Reference         *string `json:"reference,omitempty"`
	Notes             *string `json:"notes,omitempty"`
}

// ReviewPaymentsRequest represents the payment review request body
type ReviewPaymentsRequest struct {
	BillIDs  []int32                    `json:"billIds"`
	Defaults PaymentDefaultsRequest     `json:"defaults"`
	Bills    []BillPaymentConfigRequest `json:"bills"`
}

// PaymentInstructionDTO is one resolved payment, as reviewed and as confirmed
type PaymentInstructionDTO struct {
	BillID      int32   `json:"billId"`
	BillNumber  string  `json:"billNumber"`
	Amount      string  `json:"amount"`
	PaymentDate string  `json:"paymentDate"`
	Method      string  `json:"method"`
	Reference   *string `json:"reference,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

// ExcludedBillResponse is a selected bill left out of the batch
type ExcludedBillResponse struct {
	BillID     int32  `json:"billId"`
	BillNumber string `json:"billNumber"`
	Amount     string `json:"amount"`
	Reason     string `json:"reason"`
}

// PaymentReviewResponse represents a built batch in API responses
type PaymentReviewResponse struct {
	Instructions []PaymentInstructionDTO `json:"instructions"`
	Excluded     []ExcludedBillResponse  `json:"excluded"`
	ValidCount   int                     `json:"validCount"`
	InvalidCount int                     `json:"invalidCount"`
	TotalPayment string                  `json:"totalPayment"`
	CanProceed   bool                    `json:"canProceed"`
}

// ConfirmPaymentsRequest represents the bulk payment request body
type ConfirmPaymentsRequest struct {
	Instructions []PaymentInstructionDTO `json:"instructions"`
}

// ReviewPayments godoc
// @Summary Review a payment batch
// @Description Resolves the selection against current balances and returns the payable instructions
// @Tags bulk-payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ReviewPaymentsRequest true "Selection, defaults and per-bill overrides"
// @Success 200 {object} PaymentReviewResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /bulk-payments/review [post]
func (h *BulkPaymentHandler) ReviewPayments(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	var req ReviewPaymentsRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, validationErrors := toPaymentReviewInput(req)
	if len(validationErrors) > 0 {
		return NewValidationError(c, "Validation failed", validationErrors)
	}

	review, err := h.batchService.Review(c.Request().Context(), workspaceID, input)
	if err != nil {
		if handled, resp := selectionError(c, err); handled {
			return resp
		}
		if errors.Is(err, domain.ErrPaymentDateRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "defaults.paymentDate", Message: "Payment date is required"},
			})
		}
		if errors.Is(err, domain.ErrPaymentMethodInvalid) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "defaults.method", Message: "Invalid payment method"},
			})
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int("count", len(req.BillIDs)).Msg("Failed to review payment batch")
		return NewInternalError(c, "Failed to review payment batch")
	}

	return c.JSON(http.StatusOK, toPaymentReviewResponse(review))
}

// ConfirmPayments godoc
// @Summary Pay a reviewed batch
// @Description Records each instruction independently and returns one result per instruction
// @Tags bulk-payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ConfirmPaymentsRequest true "Reviewed instructions"
// @Success 200 {object} domain.BatchSummary
// @Failure 400 {object} ProblemDetails
// @Failure 429 {object} ProblemDetails
// @Failure 503 {object} ProblemDetails
// @Router /bulk-payments/confirm [post]
func (h *BulkPaymentHandler) ConfirmPayments(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	var req ConfirmPaymentsRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	instructions, validationErrors := toPaymentInstructions(req.Instructions)
	if len(validationErrors) > 0 {
		return NewValidationError(c, "Validation failed", validationErrors)
	}

	// A dropped connection must not stop a batch half way through
	ctx := context.WithoutCancel(c.Request().Context())
	summary, err := h.paymentService.Execute(ctx, workspaceID, instructions)
	if err != nil {
		if errors.Is(err, domain.ErrNoAdmissibleInstructions) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "instructions", Message: "At least one payment is required"},
			})
		}
		if errors.Is(err, domain.ErrSelectionTooLarge) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "instructions", Message: "Too many payments in one batch"},
			})
		}
		if errors.Is(err, domain.ErrLedgerUnavailable) {
			log.Warn().Err(err).Int32("workspace_id", workspaceID).Msg("Payment ledger unavailable")
			return NewServiceUnavailableError(c, "Payments cannot be recorded right now. Nothing was paid.")
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int("count", len(instructions)).Msg("Failed to execute bulk payment")
		return NewInternalError(c, "Failed to execute bulk payment")
	}

	log.Info().
		Int32("workspace_id", workspaceID).
		Str("batch_id", summary.BatchID.String()).
		Int("succeeded", summary.SuccessCount).
		Int("failed", summary.FailedCount).
		Msg("Bulk payment completed")

	return c.JSON(http.StatusOK, summary)
}

// Helper functions

func toPaymentReviewInput(req ReviewPaymentsRequest) (domain.PaymentReviewInput, []ValidationError) {
	var validationErrors []ValidationError

	defaults := domain.PaymentDefaults{
		Method:        domain.PaymentMethod(req.Defaults.Method),
		Reference:     req.Defaults.Reference,
		Notes:         req.Defaults.Notes,
		PayFullAmount: req.Defaults.PayFullAmount,
	}
	if date, err := parseDate(&req.Defaults.PaymentDate); err != nil {
		validationErrors = append(validationErrors, ValidationError{Field: "defaults.paymentDate", Message: "Must be a date in YYYY-MM-DD format"})
	} else if date != nil {
		defaults.PaymentDate = *date
	}

	configs := make(map[int32]domain.BillPaymentConfig, len(req.Bills))
	for _, bill := range req.Bills {
		cfg := domain.BillPaymentConfig{Settings: domain.DefaultSettings{}}

		if bill.Amount != nil && *bill.Amount != "" {
			amount, err := decimal.NewFromString(*bill.Amount)
			if err != nil {
				validationErrors = append(validationErrors, ValidationError{Field: "bills.amount", Message: "Must be a valid decimal number"})
				continue
			}
			cfg.Amount = &amount
		}

		if bill.UseCustomSettings {
			custom := domain.CustomSettings{
				Reference: bill.Reference,
				Notes:     bill.Notes,
			}
			date, err := parseDate(bill.PaymentDate)
			if err != nil {
				validationErrors = append(validationErrors, ValidationError{Field: "bills.paymentDate", Message: "Must be a date in YYYY-MM-DD format"})
				continue
			}
			custom.PaymentDate = date
			if bill.Method != nil && *bill.Method != "" {
				method := domain.PaymentMethod(*bill.Method)
				if !method.IsValid() {
					validationErrors = append(validationErrors, ValidationError{Field: "bills.method", Message: "Invalid payment method"})
					continue
				}
				custom.Method = &method
			}
			cfg.Settings = custom
		}

		configs[bill.BillID] = cfg
	}

	return domain.PaymentReviewInput{
		BillIDs:  req.BillIDs,
		Defaults: defaults,
		Configs:  configs,
	}, validationErrors
}

func toPaymentInstructions(items []PaymentInstructionDTO) ([]domain.PaymentInstruction, []ValidationError) {
	var validationErrors []ValidationError

	instructions := make([]domain.PaymentInstruction, 0, len(items))
	for _, item := range items {
		amount, err := decimal.NewFromString(item.Amount)
		if err != nil {
			validationErrors = append(validationErrors, ValidationError{Field: "instructions.amount", Message: "Must be a valid decimal number"})
			continue
		}
		paymentDate, err := time.Parse(dateLayout, item.PaymentDate)
		if err != nil {
			validationErrors = append(validationErrors, ValidationError{Field: "instructions.paymentDate", Message: "Must be a date in YYYY-MM-DD format"})
			continue
		}
		instructions = append(instructions, domain.PaymentInstruction{
			BillID:      item.BillID,
			BillNumber:  item.BillNumber,
			Amount:      amount,
			PaymentDate: paymentDate,
			Method:      domain.PaymentMethod(item.Method),
			Reference:   item.Reference,
			Notes:       item.Notes,
		})
	}
	return instructions, validationErrors
}

func toPaymentReviewResponse(review *domain.PaymentReview) PaymentReviewResponse {
	batch := review.Batch

	instructions := make([]PaymentInstructionDTO, len(batch.Instructions))
	for i, instruction := range batch.Instructions {
		instructions[i] = PaymentInstructionDTO{
			BillID:      instruction.BillID,
			BillNumber:  instruction.BillNumber,
			Amount:      instruction.Amount.StringFixed(2),
			PaymentDate: instruction.PaymentDate.Format(dateLayout),
			Method:      string(instruction.Method),
			Reference:   instruction.Reference,
			Notes:       instruction.Notes,
		}
	}

	excluded := make([]ExcludedBillResponse, len(batch.Excluded))
	for i, bill := range batch.Excluded {
		excluded[i] = ExcludedBillResponse{
			BillID:     bill.BillID,
			BillNumber: bill.BillNumber,
			Amount:     bill.Amount.StringFixed(2),
			Reason:     string(bill.Reason),
		}
	}

	return PaymentReviewResponse{
		Instructions: instructions,
		Excluded:     excluded,
		ValidCount:   batch.ValidCount,
		InvalidCount: batch.InvalidCount,
		TotalPayment: batch.TotalPayment.StringFixed(2),
		CanProceed:   review.CanProceed,
	}
}
