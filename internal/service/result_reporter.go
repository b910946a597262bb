package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/dafibh/backoffice/backoffice-backend/internal/domain"
	"github.com/dafibh/backoffice/backoffice-backend/internal/repository/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const (
	reportSummarySheet = "Summary"
	reportResultsSheet = "Results"
)

// ResultReporter aggregates batch results and archives them as spreadsheet reports
type ResultReporter struct {
	reportRepo storage.ReportRepository
	urlExpiry  time.Duration
	logger     zerolog.Logger
}

// NewResultReporter creates a new ResultReporter. A nil reportRepo disables archiving.
func NewResultReporter(reportRepo storage.ReportRepository, urlExpiry time.Duration, logger zerolog.Logger) *ResultReporter {
	if urlExpiry <= 0 {
		urlExpiry = 24 * time.Hour
	}
	return &ResultReporter{
		reportRepo: reportRepo,
		urlExpiry:  urlExpiry,
		logger:     logger.With().Str("component", "result_reporter").Logger(),
	}
}

// Summarize counts the entries and decides whether the caller should clear its selection:
// a payment batch clears only when something succeeded, an edit batch always clears.
func (r *ResultReporter) Summarize(batchID uuid.UUID, kind domain.BatchKind, entries []domain.BatchResultEntry) domain.BatchSummary {
	summary := domain.BatchSummary{
		BatchID:     batchID,
		Kind:        kind,
		Entries:     entries,
		CompletedAt: time.Now().UTC(),
	}
	if summary.Entries == nil {
		summary.Entries = []domain.BatchResultEntry{}
	}

	for _, entry := range entries {
		if entry.Success {
			summary.SuccessCount++
		} else {
			summary.FailedCount++
		}
	}

	switch {
	case len(entries) == 0:
		summary.Outcome = domain.BatchOutcomeEmpty
	case summary.FailedCount == 0:
		summary.Outcome = domain.BatchOutcomeSucceeded
	case summary.SuccessCount == 0:
		summary.Outcome = domain.BatchOutcomeFailed
	default:
		summary.Outcome = domain.BatchOutcomePartiallySucceeded
	}

	if kind == domain.BatchKindEdit {
		summary.ClearSelection = true
	} else {
		summary.ClearSelection = summary.SuccessCount > 0
	}

	return summary
}

// RenderXLSX renders the summary as a workbook with a summary sheet and one row per entry
func (r *ResultReporter) RenderXLSX(summary domain.BatchSummary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reportSummarySheet); err != nil {
		return nil, fmt.Errorf("failed to name summary sheet: %w", err)
	}

	rows := [][]interface{}{
		{"Batch", summary.BatchID.String()},
		{"Kind", string(summary.Kind)},
		{"Outcome", string(summary.Outcome)},
		{"Succeeded", summary.SuccessCount},
		{"Failed", summary.FailedCount},
		{"Completed", summary.CompletedAt.Format(time.RFC3339)},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(reportSummarySheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write summary row: %w", err)
		}
	}

	if _, err := f.NewSheet(reportResultsSheet); err != nil {
		return nil, fmt.Errorf("failed to create results sheet: %w", err)
	}
	header := []interface{}{"Bill ID", "Bill Number", "Result", "Error"}
	if err := f.SetSheetRow(reportResultsSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write results header: %w", err)
	}
	for i, entry := range summary.Entries {
		result := "failed"
		if entry.Success {
			result = "succeeded"
		}
		errText := ""
		if entry.Error != nil {
			errText = *entry.Error
		}
		row := []interface{}{entry.BillID, entry.BillNumber, result, errText}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(reportResultsSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write result row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return buf.Bytes(), nil
}

// Archive uploads the rendered report and sets ReportURL to a presigned download link.
// It does nothing when no report store is configured.
func (r *ResultReporter) Archive(ctx context.Context, workspaceID int32, summary *domain.BatchSummary) error {
	if r.reportRepo == nil {
		return nil
	}

	data, err := r.RenderXLSX(*summary)
	if err != nil {
		return err
	}

	objectPath := storage.GenerateReportPath(workspaceID, string(summary.Kind), summary.BatchID, summary.CompletedAt)
	if _, err := r.reportRepo.Upload(ctx, objectPath, bytes.NewReader(data), storage.ReportContentTypeXLSX, int64(len(data))); err != nil {
		return fmt.Errorf("failed to upload report: %w", err)
	}

	url, err := r.reportRepo.GeneratePresignedURL(ctx, objectPath, r.urlExpiry)
	if err != nil {
		// An unreachable report is not kept
		if delErr := r.reportRepo.Delete(ctx, objectPath); delErr != nil {
			r.logger.Warn().Err(delErr).Str("path", objectPath).Msg("Failed to remove unsigned report")
		}
		return fmt.Errorf("failed to sign report url: %w", err)
	}
	summary.ReportURL = &url

	r.logger.Debug().
		Int32("workspace_id", workspaceID).
		Str("batch_id", summary.BatchID.String()).
		Str("path", objectPath).
		Msg("Archived batch report")
	return nil
}
