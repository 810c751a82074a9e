package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"unilib-backend/internal/domain"
	"unilib-backend/internal/logger"
	"unilib-backend/internal/repository"
)

type loanRepository struct {
	db *sql.DB
}

func NewLoanRepository(db *sql.DB) repository.LoanRepository {
	return &loanRepository{db: db}
}

const loanColumns = `id, user_id, book_id, borrow_date, due_date, return_date, notes, created_on, updated_on`

func scanLoan(row interface{ Scan(...any) error }, l *domain.Loan) error {
	return row.Scan(&l.ID, &l.UserID, &l.BookID, &l.BorrowDate, &l.DueDate, &l.ReturnDate, &l.Notes, &l.CreatedOn, &l.UpdatedOn)
}

// CreateWithCopyDecrement holds the copy decrement and the loan insert in
// one transaction so the availability check that justified the borrow
// cannot be split across a race window.
func (r *loanRepository) CreateWithCopyDecrement(ctx context.Context, l *domain.Loan) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	decrement := `UPDATE books
	              SET available_copies = available_copies - 1,
	                  status = CASE WHEN status = 'MAINTENANCE' THEN status WHEN available_copies - 1 = 0 THEN 'BORROWED' ELSE status END,
	                  updated_on = $1
	              WHERE id = $2 AND available_copies > 0`
	res, err := tx.ExecContext(ctx, decrement, time.Now(), l.BookID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NewValidationError(domain.ErrNoCopiesAvailable, "no copies of book %d available", l.BookID)
	}

	insert := `INSERT INTO loans (user_id, book_id, borrow_date, due_date, notes, created_on, updated_on)
	           VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err = tx.QueryRowContext(ctx, insert, l.UserID, l.BookID, l.BorrowDate, l.DueDate, l.Notes, time.Now(), time.Now()).Scan(&l.ID)
	if isUniqueViolation(err) {
		// Partial unique index on open (user_id, book_id) pairs.
		return domain.NewValidationError(domain.ErrDuplicateBorrow, "user %d already has book %d on loan", l.UserID, l.BookID)
	}
	if err != nil {
		return err
	}

	return tx.Commit()
}

// CloseWithCopyIncrement closes the loan and credits the copy back in one
// transaction. The increment is bounded by total_copies; exceeding it means
// the data is corrupt, so the whole transaction is rolled back.
func (r *loanRepository) CloseWithCopyIncrement(ctx context.Context, loanID int32, returnDate time.Time, appendNotes string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	close := `UPDATE loans
	          SET return_date = $1,
	              notes = CASE WHEN notes = '' THEN $2 WHEN $2 = '' THEN notes ELSE notes || E'\n' || $2 END,
	              updated_on = $3
	          WHERE id = $4 AND return_date IS NULL
	          RETURNING book_id`
	var bookID int32
	err = tx.QueryRowContext(ctx, close, returnDate, appendNotes, time.Now(), loanID).Scan(&bookID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewValidationError(domain.ErrRecordNotFound, "loan %d not found or already returned", loanID)
	}
	if err != nil {
		return err
	}

	increment := `UPDATE books
	              SET available_copies = available_copies + 1,
	                  status = CASE WHEN status = 'MAINTENANCE' THEN status ELSE 'AVAILABLE' END,
	                  updated_on = $1
	              WHERE id = $2 AND available_copies < total_copies`
	res, err := tx.ExecContext(ctx, increment, time.Now(), bookID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		logger.Error("copy increment would exceed total_copies, aborting return", "loan_id", loanID, "book_id", bookID)
		return domain.NewIntegrityError("book %d already has all copies available", bookID)
	}

	return tx.Commit()
}

func (r *loanRepository) GetByID(ctx context.Context, id int32) (*domain.Loan, error) {
	l := &domain.Loan{}
	err := scanLoan(r.db.QueryRowContext(ctx, `SELECT `+loanColumns+` FROM loans WHERE id = $1`, id), l)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewValidationError(domain.ErrRecordNotFound, "loan %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *loanRepository) UpdateDueDate(ctx context.Context, id int32, dueDate time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE loans SET due_date=$1, updated_on=$2 WHERE id=$3 AND return_date IS NULL`, dueDate, time.Now(), id)
	if err != nil {
		return err
	}
	return requireRow(res, domain.ErrRecordNotFound, "loan %d not found or already returned", id)
}

func (r *loanRepository) CountOpenByUser(ctx context.Context, userID int32) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM loans WHERE user_id = $1 AND return_date IS NULL`, userID).Scan(&count)
	return count, err
}

func (r *loanRepository) CountOpenByBook(ctx context.Context, bookID int32) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM loans WHERE book_id = $1 AND return_date IS NULL`, bookID).Scan(&count)
	return count, err
}

func (r *loanRepository) HasOpenLoan(ctx context.Context, userID, bookID int32) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM loans WHERE user_id = $1 AND book_id = $2 AND return_date IS NULL)`, userID, bookID).Scan(&exists)
	return exists, err
}

func (r *loanRepository) ListByUser(ctx context.Context, userID int32, openOnly bool, page, pageSize int32) ([]domain.Loan, int32, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE user_id = $1`
	args := []interface{}{userID}
	argIdx := 2
	if openOnly {
		query += " AND return_date IS NULL"
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") as sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query += fmt.Sprintf(" ORDER BY borrow_date DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	return r.queryLoans(ctx, query, args, count)
}

func (r *loanRepository) ListPending(ctx context.Context, today time.Time, dueSoonDays int, page, pageSize int32) ([]domain.Loan, int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM loans WHERE return_date IS NULL`).Scan(&count); err != nil {
		return nil, 0, err
	}

	// Overdue first, then due soon, then normal; earliest due date first
	// inside each bucket.
	query := `SELECT ` + loanColumns + ` FROM loans
	          WHERE return_date IS NULL
	          ORDER BY CASE
	                     WHEN due_date < $1 THEN 0
	                     WHEN due_date <= $1 + ($2 || ' days')::interval THEN 1
	                     ELSE 2
	                   END,
	                   due_date ASC
	          LIMIT $3 OFFSET $4`
	offset := (page - 1) * pageSize
	args := []interface{}{today, dueSoonDays, pageSize, offset}

	return r.queryLoans(ctx, query, args, count)
}

func (r *loanRepository) queryLoans(ctx context.Context, query string, args []interface{}, count int32) ([]domain.Loan, int32, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var loans []domain.Loan
	for rows.Next() {
		var l domain.Loan
		if err := scanLoan(rows, &l); err != nil {
			return nil, 0, err
		}
		loans = append(loans, l)
	}
	return loans, count, rows.Err()
}
