// Package docs holds the Swagger 2.0 description of the API. Regenerate with swag init.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/bulk-edits": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Applies the same field updates to every selected bill, one at a time, then syncs each to QuickBooks when configured. Progress is pushed over the WebSocket.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["bulk-edits"],
                "summary": "Bulk edit vendor bills",
                "parameters": [
                    {"description": "Selection and updates", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.BulkEditRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.BulkEditResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}}
                }
            }
        },
        "/bulk-payments/review": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Resolves the selection against current balances and returns the payable instructions",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["bulk-payments"],
                "summary": "Review a payment batch",
                "parameters": [
                    {"description": "Selection, defaults and per-bill overrides", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.ReviewPaymentsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.PaymentReviewResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}}
                }
            }
        },
        "/bulk-payments/confirm": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Records each instruction independently and returns one result per instruction",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["bulk-payments"],
                "summary": "Pay a reviewed batch",
                "parameters": [
                    {"description": "Reviewed instructions", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.ConfirmPaymentsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.BatchSummary"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}}
                }
            }
        },
        "/sync-status": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Returns the last known sync state of the given bills; bills never synced are omitted",
                "produces": ["application/json"],
                "tags": ["sync"],
                "summary": "Get sync indicators",
                "parameters": [
                    {"type": "string", "description": "Comma-separated bill IDs", "name": "ids", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.SyncStatusResponse"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}}
                }
            }
        },
        "/vendor-bills/payable": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Returns the selected bills that still have a balance to pay, in selection order",
                "produces": ["application/json"],
                "tags": ["vendor-bills"],
                "summary": "List payable bills of a selection",
                "parameters": [
                    {"type": "string", "description": "Comma-separated bill IDs", "name": "ids", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.VendorBillResponse"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}}
                }
            }
        },
        "/vendor-bills/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["vendor-bills"],
                "summary": "Get a vendor bill",
                "parameters": [
                    {"type": "integer", "description": "Bill ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.VendorBillResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}}
                }
            }
        },
        "/vendor-bills/{id}/sync": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Pushes one bill to QuickBooks and records the outcome",
                "produces": ["application/json"],
                "tags": ["sync"],
                "summary": "Sync a bill again",
                "parameters": [
                    {"type": "integer", "description": "Bill ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.SyncStatusResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}}
                }
            }
        },
        "/vendor-bills/{id}/validate-payment": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Checks a proposed amount against the bill's current remaining balance",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["vendor-bills"],
                "summary": "Check a payment amount",
                "parameters": [
                    {"type": "integer", "description": "Bill ID", "name": "id", "in": "path", "required": true},
                    {"description": "Proposed amount", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.ValidatePaymentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.ValidatePaymentResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ProblemDetails"}}
                }
            }
        }
    },
    "definitions": {
        "domain.BatchResultEntry": {
            "type": "object",
            "properties": {
                "billId": {"type": "integer"},
                "billNumber": {"type": "string"},
                "success": {"type": "boolean"},
                "error": {"type": "string"}
            }
        },
        "domain.BatchSummary": {
            "type": "object",
            "properties": {
                "batchId": {"type": "string"},
                "kind": {"type": "string", "enum": ["payment", "edit"]},
                "successCount": {"type": "integer"},
                "failedCount": {"type": "integer"},
                "outcome": {"type": "string", "enum": ["succeeded", "partially_succeeded", "failed", "empty"]},
                "clearSelection": {"type": "boolean"},
                "entries": {"type": "array", "items": {"$ref": "#/definitions/domain.BatchResultEntry"}},
                "reportUrl": {"type": "string"},
                "completedAt": {"type": "string"}
            }
        },
        "domain.SyncWarning": {
            "type": "object",
            "properties": {
                "billId": {"type": "integer"},
                "billNumber": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "domain.BulkEditResult": {
            "type": "object",
            "properties": {
                "success": {"type": "integer"},
                "failed": {"type": "integer"},
                "syncWarnings": {"type": "array", "items": {"$ref": "#/definitions/domain.SyncWarning"}},
                "summary": {"$ref": "#/definitions/domain.BatchSummary"}
            }
        },
        "handler.BulkEditUpdatesRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "billDate": {"type": "string"},
                "dueDate": {"type": "string"},
                "memo": {"type": "string"},
                "referenceNumber": {"type": "string"},
                "categoryId": {"type": "integer"}
            }
        },
        "handler.BulkEditRequest": {
            "type": "object",
            "properties": {
                "billIds": {"type": "array", "items": {"type": "integer"}},
                "updates": {"$ref": "#/definitions/handler.BulkEditUpdatesRequest"}
            }
        },
        "handler.PaymentDefaultsRequest": {
            "type": "object",
            "properties": {
                "paymentDate": {"type": "string"},
                "method": {"type": "string", "enum": ["check", "ach", "wire", "credit_card", "cash", "other"]},
                "reference": {"type": "string"},
                "notes": {"type": "string"},
                "payFullAmount": {"type": "boolean"}
            }
        },
        "handler.BillPaymentConfigRequest": {
            "type": "object",
            "properties": {
                "billId": {"type": "integer"},
                "amount": {"type": "string"},
                "useCustomSettings": {"type": "boolean"},
                "paymentDate": {"type": "string"},
                "method": {"type": "string"},
                "reference": {"type": "string"},
                "notes": {"type": "string"}
            }
        },
        "handler.ReviewPaymentsRequest": {
            "type": "object",
            "properties": {
                "billIds": {"type": "array", "items": {"type": "integer"}},
                "defaults": {"$ref": "#/definitions/handler.PaymentDefaultsRequest"},
                "bills": {"type": "array", "items": {"$ref": "#/definitions/handler.BillPaymentConfigRequest"}}
            }
        },
        "handler.PaymentInstructionDTO": {
            "type": "object",
            "properties": {
                "billId": {"type": "integer"},
                "billNumber": {"type": "string"},
                "amount": {"type": "string"},
                "paymentDate": {"type": "string"},
                "method": {"type": "string"},
                "reference": {"type": "string"},
                "notes": {"type": "string"}
            }
        },
        "handler.ExcludedBillResponse": {
            "type": "object",
            "properties": {
                "billId": {"type": "integer"},
                "billNumber": {"type": "string"},
                "amount": {"type": "string"},
                "reason": {"type": "string", "enum": ["non_positive_amount", "exceeds_remaining"]}
            }
        },
        "handler.PaymentReviewResponse": {
            "type": "object",
            "properties": {
                "instructions": {"type": "array", "items": {"$ref": "#/definitions/handler.PaymentInstructionDTO"}},
                "excluded": {"type": "array", "items": {"$ref": "#/definitions/handler.ExcludedBillResponse"}},
                "validCount": {"type": "integer"},
                "invalidCount": {"type": "integer"},
                "totalPayment": {"type": "string"},
                "canProceed": {"type": "boolean"}
            }
        },
        "handler.ConfirmPaymentsRequest": {
            "type": "object",
            "properties": {
                "instructions": {"type": "array", "items": {"$ref": "#/definitions/handler.PaymentInstructionDTO"}}
            }
        },
        "handler.ValidatePaymentRequest": {
            "type": "object",
            "properties": {
                "amount": {"type": "string"}
            }
        },
        "handler.ValidatePaymentResponse": {
            "type": "object",
            "properties": {
                "admissible": {"type": "boolean"},
                "reason": {"type": "string"}
            }
        },
        "handler.VendorBillResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "billNumber": {"type": "string"},
                "vendorName": {"type": "string"},
                "totalAmount": {"type": "string"},
                "remainingAmount": {"type": "string"},
                "status": {"type": "string", "enum": ["draft", "open", "partially_paid", "paid", "void"]},
                "billDate": {"type": "string"},
                "dueDate": {"type": "string"},
                "memo": {"type": "string"},
                "referenceNumber": {"type": "string"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "handler.SyncStatusResponse": {
            "type": "object",
            "properties": {
                "billId": {"type": "integer"},
                "state": {"type": "string", "enum": ["synced", "failed"]},
                "lastError": {"type": "string"},
                "externalId": {"type": "string"},
                "attempts": {"type": "integer"},
                "attemptedAt": {"type": "string"}
            }
        },
        "handler.ValidationError": {
            "type": "object",
            "properties": {
                "field": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handler.ProblemDetails": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "title": {"type": "string"},
                "status": {"type": "integer"},
                "detail": {"type": "string"},
                "instance": {"type": "string"},
                "errors": {"type": "array", "items": {"$ref": "#/definitions/handler.ValidationError"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Auth0 access token, as \"Bearer {token}\"",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Backoffice API",
	Description:      "Vendor bill bulk payments and bulk edits with QuickBooks sync",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
