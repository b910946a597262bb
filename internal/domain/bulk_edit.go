package domain

import (
	"errors"
	"time"
)

var (
	ErrEmptyUpdateSet     = errors.New("no fields selected for update")
	ErrStatusNotClearable = errors.New("status cannot be cleared")
)

// BulkEditPhase is the stage a bill is in during a bulk edit
type BulkEditPhase string

const (
	BulkEditPhaseUpdating BulkEditPhase = "updating"
	BulkEditPhaseSyncing  BulkEditPhase = "syncing"
)

// BulkEditProgress is reported once per phase per bill, in selection order
type BulkEditProgress struct {
	Current int           `json:"current"`
	Total   int           `json:"total"`
	Phase   BulkEditPhase `json:"phase"`
	BillID  int32         `json:"billId"`
}

// ProgressFunc receives bulk edit progress synchronously
type ProgressFunc func(BulkEditProgress)

// BulkEditUpdateSet holds the fields the operator touched.
// An omitted field is left alone; a null field is written as empty.
type BulkEditUpdateSet struct {
	Status          Field[BillStatus] `json:"status"`
	BillDate        Field[time.Time]  `json:"billDate"`
	DueDate         Field[time.Time]  `json:"dueDate"`
	Memo            Field[string]     `json:"memo"`
	ReferenceNumber Field[string]     `json:"referenceNumber"`
	CategoryID      Field[int32]      `json:"categoryId"`
}

// HeaderUpdate returns the header-level part of the update set
func (u BulkEditUpdateSet) HeaderUpdate() BillFieldUpdate {
	return BillFieldUpdate{
		Status:          u.Status,
		BillDate:        u.BillDate,
		DueDate:         u.DueDate,
		Memo:            u.Memo,
		ReferenceNumber: u.ReferenceNumber,
	}
}

// HasHeaderFields reports whether any header-level field is touched
func (u BulkEditUpdateSet) HasHeaderFields() bool {
	return !u.HeaderUpdate().IsEmpty()
}

// HasCategory reports whether the line-item category is touched (possibly cleared)
func (u BulkEditUpdateSet) HasCategory() bool {
	return u.CategoryID.Set
}

// Validate rejects empty update sets and values that may not be written
func (u BulkEditUpdateSet) Validate() error {
	if !u.HasHeaderFields() && !u.HasCategory() {
		return ErrEmptyUpdateSet
	}
	if u.Status.Set {
		if u.Status.Null {
			return ErrStatusNotClearable
		}
		if !u.Status.Value.IsValid() {
			return ErrBillStatusInvalid
		}
	}
	if u.Memo.Set && len(u.Memo.Value) > MaxMemoLength {
		return ErrInvalidInput
	}
	if u.ReferenceNumber.Set && len(u.ReferenceNumber.Value) > MaxReferenceLength {
		return ErrInvalidInput
	}
	return nil
}

// SyncWarning records a third-party sync failure after a successful update
type SyncWarning struct {
	BillID     int32  `json:"billId"`
	BillNumber string `json:"billNumber"`
	Message    string `json:"message"`
}

// BulkEditResult is the outcome of a bulk edit
type BulkEditResult struct {
	Success      int           `json:"success"`
	Failed       int           `json:"failed"`
	SyncWarnings []SyncWarning `json:"syncWarnings"`
	Summary      BatchSummary  `json:"summary"`
}
