package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/dafibh/backoffice/backoffice-backend/internal/domain"
	"github.com/dafibh/backoffice/backoffice-backend/internal/middleware"
	"github.com/dafibh/backoffice/backoffice-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// BulkEditHandler handles bulk edit requests
type BulkEditHandler struct {
	editService *service.BulkEditService
}

// NewBulkEditHandler creates a new BulkEditHandler
func NewBulkEditHandler(editService *service.BulkEditService) *BulkEditHandler {
	return &BulkEditHandler{editService: editService}
}

// BulkEditUpdatesRequest holds the touched fields. An absent key leaves the
// field alone; null clears it.
type BulkEditUpdatesRequest struct {
	Status          domain.Field[string] `json:"status" swaggertype:"string"`
	BillDate        domain.Field[string] `json:"billDate" swaggertype:"string"`
	DueDate         domain.Field[string] `json:"dueDate" swaggertype:"string"`
	Memo            domain.Field[string] `json:"memo" swaggertype:"string"`
	ReferenceNumber domain.Field[string] `json:"referenceNumber" swaggertype:"string"`
	CategoryID      domain.Field[int32]  `json:"categoryId" swaggertype:"integer"`
}

// BulkEditRequest represents the bulk edit request body
type BulkEditRequest struct {
	BillIDs []int32                `json:"billIds"`
	Updates BulkEditUpdatesRequest `json:"updates"`
}

// ApplyBulkEdit godoc
// @Summary Bulk edit vendor bills
// @Description Applies the same field updates to every selected bill, one at a time, then syncs each to QuickBooks when configured. Progress is pushed over the WebSocket.
// @Tags bulk-edits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BulkEditRequest true "Selection and updates"
// @Success 200 {object} domain.BulkEditResult
// @Failure 400 {object} ProblemDetails
// @Failure 429 {object} ProblemDetails
// @Router /bulk-edits [post]
func (h *BulkEditHandler) ApplyBulkEdit(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	var req BulkEditRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	updates, validationErrors := toBulkEditUpdateSet(req.Updates)
	if len(validationErrors) > 0 {
		return NewValidationError(c, "Validation failed", validationErrors)
	}

	result, err := h.editService.Apply(c.Request().Context(), workspaceID, req.BillIDs, updates, func(p domain.BulkEditProgress) {
		log.Debug().
			Int32("workspace_id", workspaceID).
			Int32("bill_id", p.BillID).
			Str("phase", string(p.Phase)).
			Int("current", p.Current).
			Int("total", p.Total).
			Msg("Bulk edit progress")
	})
	if err != nil {
		if handled, resp := selectionError(c, err); handled {
			return resp
		}
		switch {
		case errors.Is(err, domain.ErrEmptyUpdateSet):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "updates", Message: "Select at least one field to update"},
			})
		case errors.Is(err, domain.ErrStatusNotClearable):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "updates.status", Message: "Status cannot be cleared"},
			})
		case errors.Is(err, domain.ErrBillStatusInvalid):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "updates.status", Message: "Invalid bill status"},
			})
		case errors.Is(err, domain.ErrInvalidInput):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "updates", Message: "Memo or reference number is too long"},
			})
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int("count", len(req.BillIDs)).Msg("Failed to apply bulk edit")
		return NewInternalError(c, "Failed to apply bulk edit")
	}

	return c.JSON(http.StatusOK, result)
}

// Helper functions

func toBulkEditUpdateSet(req BulkEditUpdatesRequest) (domain.BulkEditUpdateSet, []ValidationError) {
	var validationErrors []ValidationError

	updates := domain.BulkEditUpdateSet{
		Status:          domain.Field[domain.BillStatus]{Set: req.Status.Set, Null: req.Status.Null, Value: domain.BillStatus(req.Status.Value)},
		Memo:            req.Memo,
		ReferenceNumber: req.ReferenceNumber,
		CategoryID:      req.CategoryID,
	}

	var err error
	if updates.BillDate, err = toDateField(req.BillDate); err != nil {
		validationErrors = append(validationErrors, ValidationError{Field: "updates.billDate", Message: "Must be a date in YYYY-MM-DD format"})
	}
	if updates.DueDate, err = toDateField(req.DueDate); err != nil {
		validationErrors = append(validationErrors, ValidationError{Field: "updates.dueDate", Message: "Must be a date in YYYY-MM-DD format"})
	}
	if req.CategoryID.Set && !req.CategoryID.Null && req.CategoryID.Value <= 0 {
		validationErrors = append(validationErrors, ValidationError{Field: "updates.categoryId", Message: "Category ID must be positive"})
	}

	return updates, validationErrors
}

// toDateField parses a tri-state date; an empty string clears it like null
func toDateField(f domain.Field[string]) (domain.Field[time.Time], error) {
	if !f.Set {
		return domain.Field[time.Time]{}, nil
	}
	if f.Null || f.Value == "" {
		return domain.Cleared[time.Time](), nil
	}
	t, err := time.Parse(dateLayout, f.Value)
	if err != nil {
		return domain.Field[time.Time]{}, err
	}
	return domain.SetTo(t), nil
}
