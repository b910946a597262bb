package domain

import (
	"time"

	"github.com/google/uuid"
)

// BatchKind distinguishes the two bulk pipelines
type BatchKind string

const (
	BatchKindPayment BatchKind = "payment"
	BatchKindEdit    BatchKind = "edit"
)

// BatchOutcome classifies a finished batch for display
type BatchOutcome string

const (
	BatchOutcomeSucceeded          BatchOutcome = "succeeded"
	BatchOutcomePartiallySucceeded BatchOutcome = "partially_succeeded"
	BatchOutcomeFailed             BatchOutcome = "failed"
	BatchOutcomeEmpty              BatchOutcome = "empty"
)

// BatchResultEntry is the result of one attempted item. It is never retried automatically.
type BatchResultEntry struct {
	BillID     int32   `json:"billId"`
	BillNumber string  `json:"billNumber"`
	Success    bool    `json:"success"`
	Error      *string `json:"error,omitempty"`
}

// SucceededEntry builds a successful result entry
func SucceededEntry(billID int32, billNumber string) BatchResultEntry {
	return BatchResultEntry{BillID: billID, BillNumber: billNumber, Success: true}
}

// FailedEntry builds a failed result entry from err
func FailedEntry(billID int32, billNumber string, err error) BatchResultEntry {
	msg := err.Error()
	return BatchResultEntry{BillID: billID, BillNumber: billNumber, Error: &msg}
}

// BatchSummary is the aggregated view of a finished batch
type BatchSummary struct {
	BatchID        uuid.UUID          `json:"batchId"`
	Kind           BatchKind          `json:"kind"`
	SuccessCount   int                `json:"successCount"`
	FailedCount    int                `json:"failedCount"`
	Outcome        BatchOutcome       `json:"outcome"`
	ClearSelection bool               `json:"clearSelection"`
	Entries        []BatchResultEntry `json:"entries"`
	ReportURL      *string            `json:"reportUrl,omitempty"`
	CompletedAt    time.Time          `json:"completedAt"`
}
