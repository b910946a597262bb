package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dafibh/backoffice/backoffice-backend/internal/domain"
	"github.com/labstack/echo/v4"
)

// dateLayout is the wire format of calendar dates
const dateLayout = "2006-01-02"

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error types
const (
	ErrorTypeValidation   = "https://backoffice.app/errors/validation"
	ErrorTypeNotFound     = "https://backoffice.app/errors/not-found"
	ErrorTypeUnauthorized = "https://backoffice.app/errors/unauthorized"
	ErrorTypeForbidden    = "https://backoffice.app/errors/forbidden"
	ErrorTypeConflict     = "https://backoffice.app/errors/conflict"
	ErrorTypeInternal     = "https://backoffice.app/errors/internal"
	ErrorTypeUnavailable  = "https://backoffice.app/errors/unavailable"
)

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
	return c.JSON(http.StatusBadRequest, ProblemDetails{
		Type:     ErrorTypeValidation,
		Title:    "Validation Error",
		Status:   http.StatusBadRequest,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errors,
	})
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, detail string) error {
	return c.JSON(http.StatusNotFound, ProblemDetails{
		Type:     ErrorTypeNotFound,
		Title:    "Not Found",
		Status:   http.StatusNotFound,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewUnauthorizedError creates an unauthorized error response
func NewUnauthorizedError(c echo.Context, detail string) error {
	return c.JSON(http.StatusUnauthorized, ProblemDetails{
		Type:     ErrorTypeUnauthorized,
		Title:    "Unauthorized",
		Status:   http.StatusUnauthorized,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewForbiddenError creates a forbidden error response
func NewForbiddenError(c echo.Context, detail string) error {
	return c.JSON(http.StatusForbidden, ProblemDetails{
		Type:     ErrorTypeForbidden,
		Title:    "Forbidden",
		Status:   http.StatusForbidden,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewConflictError creates a conflict error response
func NewConflictError(c echo.Context, detail string) error {
	return c.JSON(http.StatusConflict, ProblemDetails{
		Type:     ErrorTypeConflict,
		Title:    "Conflict",
		Status:   http.StatusConflict,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, detail string) error {
	return c.JSON(http.StatusInternalServerError, ProblemDetails{
		Type:     ErrorTypeInternal,
		Title:    "Internal Server Error",
		Status:   http.StatusInternalServerError,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewServiceUnavailableError creates a service unavailable error response
func NewServiceUnavailableError(c echo.Context, detail string) error {
	return c.JSON(http.StatusServiceUnavailable, ProblemDetails{
		Type:     ErrorTypeUnavailable,
		Title:    "Service Unavailable",
		Status:   http.StatusServiceUnavailable,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// selectionError maps the shared bill-selection errors to a response.
// It returns false when err is not a selection error.
func selectionError(c echo.Context, err error) (bool, error) {
	switch {
	case errors.Is(err, domain.ErrEmptySelection):
		return true, NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "billIds", Message: "At least one bill must be selected"},
		})
	case errors.Is(err, domain.ErrSelectionTooLarge):
		return true, NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "billIds", Message: "At most " + strconv.Itoa(domain.MaxBulkSelectionSize) + " bills can be selected"},
		})
	case errors.Is(err, domain.ErrVendorBillNotFound):
		return true, NewNotFoundError(c, "One or more bills were not found")
	}
	return false, nil
}

// parseIDList parses a comma-separated list of positive IDs, e.g. "3,1,2"
func parseIDList(raw string) ([]int32, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int32, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 32)
		if err != nil || id <= 0 {
			return nil, domain.ErrInvalidInput
		}
		ids = append(ids, int32(id))
	}
	return ids, nil
}

// parseDate parses an optional calendar date; nil and "" mean absent
func parseDate(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// formatDate renders an optional calendar date
func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}
