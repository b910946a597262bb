package handler

import (
	"github.com/dafibh/backoffice/backoffice-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// Handlers groups the API handlers registered by RegisterRoutes
type Handlers struct {
	VendorBill  *VendorBillHandler
	BulkPayment *BulkPaymentHandler
	BulkEdit    *BulkEditHandler
	Sync        *SyncHandler
	WebSocket   *WebSocketHandler
}

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, bulkLimiter *middleware.RateLimiter, h Handlers) {
	// WebSocket authenticates with a token query parameter
	e.GET("/ws", h.WebSocket.HandleWS)

	// API version 1
	api := e.Group("/api/v1")
	api.GET("/openapi.json", ServeOpenAPI3Spec)

	// Vendor bill routes (protected)
	bills := api.Group("/vendor-bills")
	bills.Use(authMiddleware.Authenticate())
	bills.GET("/payable", h.VendorBill.GetPayableBills)
	bills.GET("/:id", h.VendorBill.GetBill)
	bills.POST("/:id/validate-payment", h.VendorBill.ValidatePayment)
	bills.POST("/:id/sync", h.Sync.SyncBill)

	// Sync status routes (protected)
	syncStatus := api.Group("/sync-status")
	syncStatus.Use(authMiddleware.Authenticate())
	syncStatus.GET("", h.Sync.GetSyncStatuses)

	// Bulk payment routes (protected, rate limited per workspace)
	payments := api.Group("/bulk-payments")
	payments.Use(authMiddleware.Authenticate())
	payments.POST("/review", h.BulkPayment.ReviewPayments)
	payments.POST("/confirm", h.BulkPayment.ConfirmPayments, middleware.RateLimitMiddleware(bulkLimiter))

	// Bulk edit routes (protected, rate limited per workspace)
	edits := api.Group("/bulk-edits")
	edits.Use(authMiddleware.Authenticate(), middleware.RateLimitMiddleware(bulkLimiter))
	edits.POST("", h.BulkEdit.ApplyBulkEdit)
}
