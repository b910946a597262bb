package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dafibh/backoffice/backoffice-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const vendorBillColumns = `id, workspace_id, bill_number, vendor_name, total_amount, remaining_amount,
	status, bill_date, due_date, memo, reference_number, created_at, updated_at`

// VendorBillRepository implements domain.VendorBillRepository using PostgreSQL
type VendorBillRepository struct {
	pool *pgxpool.Pool
}

// NewVendorBillRepository creates a new VendorBillRepository
func NewVendorBillRepository(pool *pgxpool.Pool) *VendorBillRepository {
	return &VendorBillRepository{pool: pool}
}

// GetByID retrieves a bill by its ID
func (r *VendorBillRepository) GetByID(ctx context.Context, workspaceID int32, id int32) (*domain.VendorBill, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+vendorBillColumns+`
		FROM vendor_bills
		WHERE workspace_id = $1 AND id = $2 AND deleted_at IS NULL`,
		workspaceID, id,
	)
	bill, err := scanVendorBill(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVendorBillNotFound
		}
		return nil, err
	}
	return bill, nil
}

// GetByIDs retrieves the existing bills among ids, in the order of ids
func (r *VendorBillRepository) GetByIDs(ctx context.Context, workspaceID int32, ids []int32) ([]*domain.VendorBill, error) {
	if len(ids) == 0 {
		return []*domain.VendorBill{}, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+vendorBillColumns+`
		FROM vendor_bills
		WHERE workspace_id = $1 AND id = ANY($2::int[]) AND deleted_at IS NULL
		ORDER BY array_position($2::int[], id)`,
		workspaceID, ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bills := make([]*domain.VendorBill, 0, len(ids))
	for rows.Next() {
		bill, err := scanVendorBill(rows)
		if err != nil {
			return nil, err
		}
		bills = append(bills, bill)
	}
	return bills, rows.Err()
}

// UpdateFields writes only the fields that are set; cleared fields are written as NULL
func (r *VendorBillRepository) UpdateFields(ctx context.Context, workspaceID int32, id int32, update domain.BillFieldUpdate) error {
	if update.IsEmpty() {
		return nil
	}

	sets := make([]string, 0, 6)
	args := []interface{}{workspaceID, id}
	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Status.Set {
		add("status", string(update.Status.Value))
	}
	if update.BillDate.Set {
		add("bill_date", timePtrToPgDate(update.BillDate.Ptr()))
	}
	if update.DueDate.Set {
		add("due_date", timePtrToPgDate(update.DueDate.Ptr()))
	}
	if update.Memo.Set {
		add("memo", stringPtrToPgText(update.Memo.Ptr()))
	}
	if update.ReferenceNumber.Set {
		add("reference_number", stringPtrToPgText(update.ReferenceNumber.Ptr()))
	}
	sets = append(sets, "updated_at = NOW()")

	query := `UPDATE vendor_bills SET ` + strings.Join(sets, ", ") +
		` WHERE workspace_id = $1 AND id = $2 AND deleted_at IS NULL`

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrVendorBillNotFound
	}
	return nil
}

// Helper functions

func scanVendorBill(row pgx.Row) (*domain.VendorBill, error) {
	var (
		bill            domain.VendorBill
		status          string
		total           pgtype.Numeric
		remaining       pgtype.Numeric
		billDate        pgtype.Date
		dueDate         pgtype.Date
		memo            pgtype.Text
		referenceNumber pgtype.Text
		createdAt       pgtype.Timestamptz
		updatedAt       pgtype.Timestamptz
	)
	err := row.Scan(
		&bill.ID,
		&bill.WorkspaceID,
		&bill.BillNumber,
		&bill.VendorName,
		&total,
		&remaining,
		&status,
		&billDate,
		&dueDate,
		&memo,
		&referenceNumber,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	bill.Status = domain.BillStatus(status)
	bill.TotalAmount = pgNumericToDecimal(total)
	bill.RemainingAmount = pgNumericToDecimal(remaining)
	bill.BillDate = pgDateToTimePtr(billDate)
	bill.DueDate = pgDateToTimePtr(dueDate)
	bill.Memo = pgTextToStringPtr(memo)
	bill.ReferenceNumber = pgTextToStringPtr(referenceNumber)
	bill.CreatedAt = createdAt.Time
	bill.UpdatedAt = updatedAt.Time
	return &bill, nil
}
