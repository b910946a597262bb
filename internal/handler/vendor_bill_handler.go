package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dafibh/backoffice/backoffice-backend/internal/domain"
	"github.com/dafibh/backoffice/backoffice-backend/internal/middleware"
	"github.com/dafibh/backoffice/backoffice-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// VendorBillHandler handles vendor bill-related HTTP requests
type VendorBillHandler struct {
	billService *service.VendorBillService
}

// NewVendorBillHandler creates a new VendorBillHandler
func NewVendorBillHandler(billService *service.VendorBillService) *VendorBillHandler {
	return &VendorBillHandler{billService: billService}
}

// VendorBillResponse represents a vendor bill in API responses
type VendorBillResponse struct {
	ID              int32   `json:"id"`
	BillNumber      string  `json:"billNumber"`
	VendorName      string  `json:"vendorName"`
	TotalAmount     string  `json:"totalAmount"`
	RemainingAmount string  `json:"remainingAmount"`
	Status          string  `json:"status"`
	BillDate        *string `json:"billDate,omitempty"`
	DueDate         *string `json:"dueDate,omitempty"`
	Memo            *string `json:"memo,omitempty"`
	ReferenceNumber *string `json:"referenceNumber,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// ValidatePaymentRequest represents the validate payment request body
type ValidatePaymentRequest struct {
	Amount string `json:"amount"`
}

// ValidatePaymentResponse is the result of an amount check
type ValidatePaymentResponse struct {
	Admissible bool   `json:"admissible"`
	Reason     string `json:"reason,omitempty"`
}

// GetPayableBills godoc
// @Summary List payable bills of a selection
// @Description Returns the selected bills that still have a balance to pay, in selection order
// @Tags vendor-bills
// @Produce json
// @Security BearerAuth
// @Param ids query string true "Comma-separated bill IDs"
// @Success 200 {array} VendorBillResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /vendor-bills/payable [get]
func (h *VendorBillHandler) GetPayableBills(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	ids, err := parseIDList(c.QueryParam("ids"))
	if err != nil {
		return NewValidationError(c, "Invalid bill IDs", []ValidationError{
			{Field: "ids", Message: "Must be a comma-separated list of positive integers"},
		})
	}

	bills, err := h.billService.GetPayableBills(c.Request().Context(), workspaceID, ids)
	if err != nil {
		if handled, resp := selectionError(c, err); handled {
			return resp
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int("count", len(ids)).Msg("Failed to get payable bills")
		return NewInternalError(c, "Failed to get payable bills")
	}

	response := make([]VendorBillResponse, len(bills))
	for i, bill := range bills {
		response[i] = toVendorBillResponse(bill)
	}

	return c.JSON(http.StatusOK, response)
}

// GetBill godoc
// @Summary Get a vendor bill
// @Tags vendor-bills
// @Produce json
// @Security BearerAuth
// @Param id path int true "Bill ID"
// @Success 200 {object} VendorBillResponse
// @Failure 404 {object} ProblemDetails
// @Router /vendor-bills/{id} [get]
func (h *VendorBillHandler) GetBill(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid bill ID", nil)
	}

	bill, err := h.billService.GetBill(c.Request().Context(), workspaceID, int32(id))
	if err != nil {
		if errors.Is(err, domain.ErrVendorBillNotFound) {
			return NewNotFoundError(c, "Vendor bill not found")
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int("bill_id", id).Msg("Failed to get vendor bill")
		return NewInternalError(c, "Failed to get vendor bill")
	}

	return c.JSON(http.StatusOK, toVendorBillResponse(bill))
}

// ValidatePayment godoc
// @Summary Check a payment amount
// @Description Checks a proposed amount against the bill's current remaining balance
// @Tags vendor-bills
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Bill ID"
// @Param request body ValidatePaymentRequest true "Proposed amount"
// @Success 200 {object} ValidatePaymentResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /vendor-bills/{id}/validate-payment [post]
func (h *VendorBillHandler) ValidatePayment(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid bill ID", nil)
	}

	var req ValidatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	check, err := h.billService.ValidatePayment(c.Request().Context(), workspaceID, int32(id), amount)
	if err != nil {
		if errors.Is(err, domain.ErrVendorBillNotFound) {
			return NewNotFoundError(c, "Vendor bill not found")
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int("bill_id", id).Msg("Failed to validate payment")
		return NewInternalError(c, "Failed to validate payment")
	}

	return c.JSON(http.StatusOK, ValidatePaymentResponse{
		Admissible: check.Admissible,
		Reason:     string(check.Reason),
	})
}

// Helper functions

func toVendorBillResponse(bill *domain.VendorBill) VendorBillResponse {
	return VendorBillResponse{
		ID:              bill.ID,
		BillNumber:      bill.BillNumber,
		VendorName:      bill.VendorName,
		TotalAmount:     bill.TotalAmount.StringFixed(2),
		RemainingAmount: bill.RemainingAmount.StringFixed(2),
		Status:          string(bill.Status),
		BillDate:        formatDate(bill.BillDate),
		DueDate:         formatDate(bill.DueDate),
		Memo:            bill.Memo,
		ReferenceNumber: bill.ReferenceNumber,
		CreatedAt:       bill.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       bill.UpdatedAt.Format(time.RFC3339),
	}
}
