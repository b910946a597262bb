package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LineItemRepository implements domain.LineItemRepository using PostgreSQL
type LineItemRepository struct {
	pool *pgxpool.Pool
}

// NewLineItemRepository creates a new LineItemRepository
func NewLineItemRepository(pool *pgxpool.Pool) *LineItemRepository {
	return &LineItemRepository{pool: pool}
}

// UpdateCategoryForBill sets (or clears, when categoryID is nil) the category of every line item of a bill
func (r *LineItemRepository) UpdateCategoryForBill(ctx context.Context, workspaceID int32, billID int32, categoryID *int32) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE vendor_bill_line_items
		SET category_id = $3, updated_at = NOW()
		WHERE workspace_id = $1 AND bill_id = $2`,
		workspaceID, billID, int32PtrToPgInt4(categoryID),
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
