package service

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/dafibh/backoffice/backoffice-backend/internal/domain"
	"github.com/dafibh/backoffice/backoffice-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestResultReporter_Summarize(t *testing.T) {
	ok := domain.SucceededEntry(1, "BILL-0001")
	bad := domain.FailedEntry(2, "BILL-0002", errors.New("ledger rejected"))

	tests := []struct {
		name      string
		kind      domain.BatchKind
		entries   []domain.BatchResultEntry
		outcome   domain.BatchOutcome
		clear     bool
		succeeded int
		failed    int
	}{
		{name: "payment all succeeded", kind: domain.BatchKindPayment, entries: []domain.BatchResultEntry{ok, ok}, outcome: domain.BatchOutcomeSucceeded, clear: true, succeeded: 2},
		{name: "payment partial", kind: domain.BatchKindPayment, entries: []domain.BatchResultEntry{ok, bad}, outcome: domain.BatchOutcomePartiallySucceeded, clear: true, succeeded: 1, failed: 1},
		{name: "payment all failed", kind: domain.BatchKindPayment, entries: []domain.BatchResultEntry{bad}, outcome: domain.BatchOutcomeFailed, clear: false, failed: 1},
		{name: "edit all failed still clears", kind: domain.BatchKindEdit, entries: []domain.BatchResultEntry{bad, bad}, outcome: domain.BatchOutcomeFailed, clear: true, failed: 2},
		{name: "empty", kind: domain.BatchKindPayment, entries: nil, outcome: domain.BatchOutcomeEmpty, clear: false},
	}

	reporter := NewResultReporter(nil, 0, zerolog.Nop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := reporter.Summarize(uuid.New(), tt.kind, tt.entries)

			assert.Equal(t, tt.outcome, summary.Outcome)
			assert.Equal(t, tt.clear, summary.ClearSelection)
			assert.Equal(t, tt.succeeded, summary.SuccessCount)
			assert.Equal(t, tt.failed, summary.FailedCount)
			assert.NotNil(t, summary.Entries)
		})
	}
}

func TestResultReporter_SummarizeKeepsErrorText(t *testing.T) {
	reporter := NewResultReporter(nil, 0, zerolog.Nop())
	summary := reporter.Summarize(uuid.New(), domain.BatchKindPayment, []domain.BatchResultEntry{
		domain.FailedEntry(7, "BILL-0007", errors.New("payment amount exceeds remaining balance")),
	})

	require.NotNil(t, summary.Entries[0].Error)
	assert.Equal(t, "payment amount exceeds remaining balance", *summary.Entries[0].Error)
}

func TestResultReporter_RenderXLSX(t *testing.T) {
	reporter := NewResultReporter(nil, 0, zerolog.Nop())
	summary := reporter.Summarize(uuid.New(), domain.BatchKindEdit, []domain.BatchResultEntry{
		domain.SucceededEntry(1, "BILL-0001"),
		domain.FailedEntry(2, "BILL-0002", errors.New("bill locked")),
	})

	data, err := reporter.RenderXLSX(summary)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(reportResultsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Bill ID", "Bill Number", "Result", "Error"}, rows[0])
	assert.Equal(t, "BILL-0001", rows[1][1])
	assert.Equal(t, "succeeded", rows[1][2])
	assert.Equal(t, "bill locked", rows[2][3])

	outcome, err := f.GetCellValue(reportSummarySheet, "B3")
	require.NoError(t, err)
	assert.Equal(t, "partially_succeeded", outcome)
}

func TestResultReporter_Archive(t *testing.T) {
	reports := testutil.NewMockReportRepository()
	reporter := NewResultReporter(reports, 0, zerolog.Nop())
	summary := reporter.Summarize(uuid.New(), domain.BatchKindPayment, []domain.BatchResultEntry{
		domain.SucceededEntry(1, "BILL-0001"),
	})

	require.NoError(t, reporter.Archive(testContext(), 4, &summary))

	require.NotNil(t, summary.ReportURL)
	assert.True(t, strings.HasPrefix(*summary.ReportURL, "https://reports.test/4/payment/"))
	assert.Len(t, reports.Objects, 1)
}

func TestResultReporter_ArchiveUploadError(t *testing.T) {
	reports := testutil.NewMockReportRepository()
	reports.UploadErr = errors.New("bucket unavailable")
	reporter := NewResultReporter(reports, 0, zerolog.Nop())
	summary := reporter.Summarize(uuid.New(), domain.BatchKindPayment, nil)

	err := reporter.Archive(testContext(), 1, &summary)
	assert.Error(t, err)
	assert.Nil(t, summary.ReportURL)
}

func TestResultReporter_ArchivePresignErrorRemovesUpload(t *testing.T) {
	reports := testutil.NewMockReportRepository()
	reports.PresignErr = errors.New("signing key unavailable")
	reporter := NewResultReporter(reports, 0, zerolog.Nop())
	summary := reporter.Summarize(uuid.New(), domain.BatchKindEdit, []domain.BatchResultEntry{
		domain.SucceededEntry(1, "BILL-0001"),
	})

	err := reporter.Archive(testContext(), 2, &summary)

	assert.Error(t, err)
	assert.Nil(t, summary.ReportURL)
	assert.Empty(t, reports.Objects)
}

func TestResultReporter_ArchiveDisabled(t *testing.T) {
	reporter := NewResultReporter(nil, 0, zerolog.Nop())
	summary := reporter.Summarize(uuid.New(), domain.BatchKindPayment, nil)

	assert.NoError(t, reporter.Archive(testContext(), 1, &summary))
	assert.Nil(t, summary.ReportURL)
}
