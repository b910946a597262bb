package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
)

// ReportContentTypeXLSX is the content type of archived batch reports
const ReportContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportRepository stores rendered batch reports
type ReportRepository interface {
	Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error)
	Delete(ctx context.Context, objectPath string) error
	GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error)
}

// GenerateReportPath builds the object key of a batch report, e.g. 12/payment/2026/10/<batch>.xlsx
func GenerateReportPath(workspaceID int32, kind string, batchID uuid.UUID, completedAt time.Time) string {
	return path.Join(
		fmt.Sprintf("%d", workspaceID),
		kind,
		completedAt.UTC().Format("2006/01"),
		batchID.String()+".xlsx",
	)
}
