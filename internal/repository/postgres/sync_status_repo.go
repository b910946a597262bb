package postgres

import (
	"context"

	"github.com/dafibh/backoffice/backoffice-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const syncStatusColumns = `workspace_id, bill_id, state, last_error, external_id, attempts, attempted_at`

// SyncStatusRepository implements domain.SyncStatusRepository using PostgreSQL
type SyncStatusRepository struct {
	pool *pgxpool.Pool
}

// NewSyncStatusRepository creates a new SyncStatusRepository
func NewSyncStatusRepository(pool *pgxpool.Pool) *SyncStatusRepository {
	return &SyncStatusRepository{pool: pool}
}

// Upsert stores the latest sync result. Failed attempts are counted; a successful sync resets the count.
func (r *SyncStatusRepository) Upsert(ctx context.Context, status *domain.SyncStatus) (*domain.SyncStatus, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO vendor_bill_sync_status (workspace_id, bill_id, state, last_error, external_id, attempts, attempted_at)
		VALUES ($1, $2, $3, $4, $5, CASE WHEN $3 = 'synced' THEN 0 ELSE 1 END, $6)
		ON CONFLICT (bill_id) DO UPDATE SET
			state = EXCLUDED.state,
			last_error = EXCLUDED.last_error,
			external_id = COALESCE(EXCLUDED.external_id, vendor_bill_sync_status.external_id),
			attempts = CASE WHEN EXCLUDED.state = 'synced' THEN 0 ELSE vendor_bill_sync_status.attempts + 1 END,
			attempted_at = EXCLUDED.attempted_at
		RETURNING `+syncStatusColumns,
		status.WorkspaceID,
		status.BillID,
		string(status.State),
		stringPtrToPgText(status.LastError),
		stringPtrToPgText(status.ExternalID),
		pgtype.Timestamptz{Time: status.AttemptedAt, Valid: true},
	)
	return scanSyncStatus(row)
}

// GetByBillIDs returns the statuses recorded for the given bills, in the order of billIDs
func (r *SyncStatusRepository) GetByBillIDs(ctx context.Context, workspaceID int32, billIDs []int32) ([]*domain.SyncStatus, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+syncStatusColumns+`
		FROM vendor_bill_sync_status
		WHERE workspace_id = $1 AND bill_id = ANY($2::int[])
		ORDER BY array_position($2::int[], bill_id)`,
		workspaceID, billIDs,
	)
	if err != nil {
		return nil, err
	}
	return collectSyncStatuses(rows)
}

// ListFailed returns failed statuses with fewer than maxAttempts attempts, across all workspaces
func (r *SyncStatusRepository) ListFailed(ctx context.Context, maxAttempts int32, limit int32) ([]*domain.SyncStatus, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+syncStatusColumns+`
		FROM vendor_bill_sync_status
		WHERE state = 'failed' AND attempts < $1
		ORDER BY bill_id
		LIMIT $2`,
		maxAttempts, limit,
	)
	if err != nil {
		return nil, err
	}
	return collectSyncStatuses(rows)
}

// Helper functions

func collectSyncStatuses(rows pgx.Rows) ([]*domain.SyncStatus, error) {
	defer rows.Close()

	statuses := make([]*domain.SyncStatus, 0)
	for rows.Next() {
		status, err := scanSyncStatus(rows)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, status)
	}
	return statuses, rows.Err()
}

func scanSyncStatus(row pgx.Row) (*domain.SyncStatus, error) {
	var (
		status      domain.SyncStatus
		state       string
		lastError   pgtype.Text
		externalID  pgtype.Text
		attemptedAt pgtype.Timestamptz
	)
	err := row.Scan(
		&status.WorkspaceID,
		&status.BillID,
		&state,
		&lastError,
		&externalID,
		&status.Attempts,
		&attemptedAt,
	)
	if err != nil {
		return nil, err
	}

	status.State = domain.SyncState(state)
	status.LastError = pgTextToStringPtr(lastError)
	status.ExternalID = pgTextToStringPtr(externalID)
	status.AttemptedAt = attemptedAt.Time
	return &status, nil
}
