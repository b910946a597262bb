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
)

// SyncHandler handles QuickBooks sync status requests
type SyncHandler struct {
	syncService *service.SyncService
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(syncService *service.SyncService) *SyncHandler {
	return &SyncHandler{syncService: syncService}
}

// SyncStatusResponse represents a bill's sync indicator in API responses
type SyncStatusResponse struct {
	BillID      int32   `json:"billId"`
	State       string  `json:"state"`
	LastError   *string `json:"lastError,omitempty"`
	ExternalID  *string `json:"externalId,omitempty"`
	Attempts    int32   `json:"attempts"`
	AttemptedAt string  `json:"attemptedAt"`
}

// SyncBill godoc
// @Summary Sync a bill again
// @Description Pushes one bill to QuickBooks and records the outcome
// @Tags sync
// @Produce json
// @Security BearerAuth
// @Param id path int true "Bill ID"
// @Success 200 {object} SyncStatusResponse
// @Failure 404 {object} ProblemDetails
// @Failure 503 {object} ProblemDetails
// @Router /vendor-bills/{id}/sync [post]
func (h *SyncHandler) SyncBill(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid bill ID", nil)
	}

	status, err := h.syncService.RetryBill(c.Request().Context(), workspaceID, int32(id))
	if err != nil {
		if errors.Is(err, domain.ErrSyncNotConfigured) {
			return NewServiceUnavailableError(c, "QuickBooks sync is not configured")
		}
		if errors.Is(err, domain.ErrVendorBillNotFound) {
			return NewNotFoundError(c, "Vendor bill not found")
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int("bill_id", id).Msg("Failed to sync vendor bill")
		return NewInternalError(c, "Failed to sync vendor bill")
	}

	return c.JSON(http.StatusOK, toSyncStatusResponse(status))
}

// GetSyncStatuses godoc
// @Summary Get sync indicators
// @Description Returns the last known sync state of the given bills; bills never synced are omitted
// @Tags sync
// @Produce json
// @Security BearerAuth
// @Param ids query string true "Comma-separated bill IDs"
// @Success 200 {array} SyncStatusResponse
// @Failure 400 {object} ProblemDetails
// @Router /sync-status [get]
func (h *SyncHandler) GetSyncStatuses(c echo.Context) error {
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

	statuses, err := h.syncService.GetStatuses(c.Request().Context(), workspaceID, ids)
	if err != nil {
		if handled, resp := selectionError(c, err); handled {
			return resp
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to get sync statuses")
		return NewInternalError(c, "Failed to get sync statuses")
	}

	response := make([]SyncStatusResponse, len(statuses))
	for i, status := range statuses {
		response[i] = toSyncStatusResponse(status)
	}

	return c.JSON(http.StatusOK, response)
}

// Helper functions

func toSyncStatusResponse(status *domain.SyncStatus) SyncStatusResponse {
	return SyncStatusResponse{
		BillID:      status.BillID,
		State:       string(status.State),
		LastError:   status.LastError,
		ExternalID:  status.ExternalID,
		Attempts:    status.Attempts,
		AttemptedAt: status.AttemptedAt.Format(time.RFC3339),
	}
}
