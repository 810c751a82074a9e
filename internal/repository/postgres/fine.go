package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"unilib-backend/internal/domain"
	"unilib-backend/internal/repository"
)

type fineRepository struct {
	db *sql.DB
}

func NewFineRepository(db *sql.DB) repository.FineRepository {
	return &fineRepository{db: db}
}

const fineColumns = `id, loan_id, user_id, amount, status, payment_date, payment_method, notes, created_at`

func scanFine(row interface{ Scan(...any) error }, f *domain.Fine) error {
	return row.Scan(&f.ID, &f.LoanID, &f.UserID, &f.Amount, &f.Status, &f.PaymentDate, &f.PaymentMethod, &f.Notes, &f.CreatedAt)
}

func (r *fineRepository) Create(ctx context.Context, f *domain.Fine) error {
	query := `INSERT INTO fines (loan_id, user_id, amount, status, payment_method, notes, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	return r.db.QueryRowContext(ctx, query, f.LoanID, f.UserID, f.Amount, f.Status, f.PaymentMethod, f.Notes, f.CreatedAt).Scan(&f.ID)
}

func (r *fineRepository) GetByID(ctx context.Context, id int32) (*domain.Fine, error) {
	f := &domain.Fine{}
	err := scanFine(r.db.QueryRowContext(ctx, `SELECT `+fineColumns+` FROM fines WHERE id = $1`, id), f)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewValidationError(domain.ErrRecordNotFound, "fine %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// MarkPaid only matches UNPAID rows, so a fine that already moved to a
// terminal state reports false instead of being rewritten.
func (r *fineRepository) MarkPaid(ctx context.Context, id int32, paymentDate time.Time, method, notes string) (bool, error) {
	query := `UPDATE fines
	          SET status='PAID', payment_date=$1, payment_method=$2,
	              notes = CASE WHEN notes = '' THEN $3 WHEN $3 = '' THEN notes ELSE notes || E'\n' || $3 END
	          WHERE id=$4 AND status='UNPAID'`
	res, err := r.db.ExecContext(ctx, query, paymentDate, method, notes, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *fineRepository) Waive(ctx context.Context, id int32, paymentDate time.Time, reason string) (bool, error) {
	query := `UPDATE fines
	          SET status='WAIVED', payment_date=$1,
	              notes = CASE WHEN notes = '' THEN $2 ELSE notes || E'\n' || $2 END
	          WHERE id=$3 AND status='UNPAID'`
	res, err := r.db.ExecContext(ctx, query, paymentDate, "waived: "+reason, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *fineRepository) ListByUser(ctx context.Context, userID int32, status domain.FineStatus, page, pageSize int32) ([]domain.Fine, int32, error) {
	query := `SELECT ` + fineColumns + ` FROM fines WHERE user_id = $1`
	args := []interface{}{userID}
	argIdx := 2
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") as sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var fines []domain.Fine
	for rows.Next() {
		var f domain.Fine
		if err := scanFine(rows, &f); err != nil {
			return nil, 0, err
		}
		fines = append(fines, f)
	}
	return fines, count, rows.Err()
}

func (r *fineRepository) OutstandingTotal(ctx context.Context, userID int32) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(amount), 0) FROM fines WHERE user_id = $1 AND status = 'UNPAID'`, userID).Scan(&total)
	return total, err
}
