package postgres

import (
	"context"
	"errors"

	"github.com/dafibh/backoffice/backoffice-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BillPaymentRepository implements domain.BillPaymentRepository using PostgreSQL
type BillPaymentRepository struct {
	pool *pgxpool.Pool
}

// NewBillPaymentRepository creates a new BillPaymentRepository
func NewBillPaymentRepository(pool *pgxpool.Pool) *BillPaymentRepository {
	return &BillPaymentRepository{pool: pool}
}

// Ping checks that the ledger database is reachable
func (r *BillPaymentRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// RecordPayment inserts the payment and applies it to the bill in one transaction.
// The bill row is locked first, so an amount above the current remaining balance
// is rejected even when another payment landed after the batch was built.
func (r *BillPaymentRepository) RecordPayment(ctx context.Context, workspaceID int32, instruction domain.PaymentInstruction) (*domain.BillPayment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var (
		status    string
		remaining pgtype.Numeric
	)
	err = tx.QueryRow(ctx, `
		SELECT status, remaining_amount
		FROM vendor_bills
		WHERE workspace_id = $1 AND id = $2 AND deleted_at IS NULL
		FOR UPDATE`,
		workspaceID, instruction.BillID,
	).Scan(&status, &remaining)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVendorBillNotFound
		}
		return nil, err
	}

	bill := &domain.VendorBill{
		Status:          domain.BillStatus(status),
		RemainingAmount: pgNumericToDecimal(remaining),
	}
	if bill.Status == domain.BillStatusVoid {
		return nil, domain.ErrBillNotPayable
	}
	if !instruction.Amount.LessThanOrEqual(bill.RemainingAmount) {
		return nil, domain.ErrExceedsRemaining
	}

	amount, err := decimalToPgNumeric(instruction.Amount)
	if err != nil {
		return nil, err
	}

	payment := &domain.BillPayment{
		WorkspaceID: workspaceID,
		BillID:      instruction.BillID,
		Amount:      instruction.Amount,
		PaymentDate: instruction.PaymentDate,
		Method:      instruction.Method,
		Reference:   instruction.Reference,
		Notes:       instruction.Notes,
	}
	var createdAt pgtype.Timestamptz
	err = tx.QueryRow(ctx, `
		INSERT INTO bill_payments (workspace_id, bill_id, amount, payment_date, method, reference, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		workspaceID,
		instruction.BillID,
		amount,
		pgtype.Date{Time: instruction.PaymentDate, Valid: true},
		string(instruction.Method),
		stringPtrToPgText(instruction.Reference),
		stringPtrToPgText(instruction.Notes),
	).Scan(&payment.ID, &createdAt)
	if err != nil {
		return nil, err
	}
	payment.CreatedAt = createdAt.Time

	_, err = tx.Exec(ctx, `
		UPDATE vendor_bills
		SET remaining_amount = remaining_amount - $3, status = $4, updated_at = NOW()
		WHERE workspace_id = $1 AND id = $2`,
		workspaceID, instruction.BillID, amount, string(bill.StatusAfterPayment(instruction.Amount)),
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return payment, nil
}
