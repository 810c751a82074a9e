package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"unilib-backend/internal/domain"
	"unilib-backend/internal/logger"
	"unilib-backend/internal/repository"

	"github.com/shopspring/decimal"
)

type reportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) repository.ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) DailyActivity(ctx context.Context, from, to time.Time) ([]domain.DailyActivity, error) {
	// Borrows and returns counted separately and merged by day; a loan
	// borrowed and returned on the same day shows up in both columns.
	query := `SELECT day, SUM(borrows), SUM(returns) FROM (
	            SELECT borrow_date::date AS day, count(*) AS borrows, 0 AS returns
	            FROM loans WHERE borrow_date::date BETWEEN $1 AND $2 GROUP BY borrow_date::date
	            UNION ALL
	            SELECT return_date::date AS day, 0 AS borrows, count(*) AS returns
	            FROM loans WHERE return_date::date BETWEEN $1 AND $2 GROUP BY return_date::date
	          ) AS activity
	          GROUP BY day ORDER BY day ASC`
	logger.DatabaseCall("DailyActivity", query, "from", from, "to", to)
	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		logger.DatabaseResult("DailyActivity", 0, err)
		return nil, err
	}
	defer rows.Close()

	var days []domain.DailyActivity
	for rows.Next() {
		var d domain.DailyActivity
		if err := rows.Scan(&d.Day, &d.Borrows, &d.Returns); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	logger.DatabaseResult("DailyActivity", int64(len(days)), rows.Err())
	return days, rows.Err()
}

func (r *reportRepository) CurrentTotals(ctx context.Context, today time.Time) (*domain.CirculationTotals, error) {
	totals := &domain.CirculationTotals{}

	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM loans WHERE return_date IS NULL`).Scan(&totals.ActiveLoans)
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRowContext(ctx, `SELECT count(*) FROM loans WHERE return_date IS NULL AND due_date < $1`, today).Scan(&totals.OverdueLoans)
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRowContext(ctx, `SELECT count(*), COALESCE(SUM(amount), 0) FROM fines WHERE status = 'UNPAID'`).Scan(&totals.UnpaidFineCount, &totals.UnpaidFineAmount)
	if err != nil {
		return nil, err
	}

	return totals, nil
}

const borrowingRowColumns = `l.id, l.user_id, u.name, u.department, l.book_id, b.title, b.category_id, l.borrow_date, l.due_date`

func (r *reportRepository) CurrentBorrowings(ctx context.Context, today time.Time, dueSoonDays int, department string, categoryID int32) ([]domain.BorrowingRow, error) {
	query := `SELECT ` + borrowingRowColumns + `
	          FROM loans l
	          JOIN users u ON u.id = l.user_id
	          JOIN books b ON b.id = l.book_id
	          WHERE l.return_date IS NULL`
	args := []interface{}{today}
	argIdx := 2
	query, args, argIdx = scopeFilters(query, args, argIdx, department, categoryID)
	query += fmt.Sprintf(` ORDER BY CASE
	            WHEN l.due_date < $1 THEN 0
	            WHEN l.due_date <= $1 + ($%d || ' days')::interval THEN 1
	            ELSE 2
	          END, l.due_date ASC`, argIdx)
	args = append(args, dueSoonDays)

	return r.queryBorrowingRows(ctx, query, args, today, dueSoonDays)
}

func (r *reportRepository) OverdueLoans(ctx context.Context, today time.Time, department string, categoryID int32) ([]domain.BorrowingRow, error) {
	query := `SELECT ` + borrowingRowColumns + `
	          FROM loans l
	          JOIN users u ON u.id = l.user_id
	          JOIN books b ON b.id = l.book_id
	          WHERE l.return_date IS NULL AND l.due_date < $1`
	args := []interface{}{today}
	argIdx := 2
	query, args, _ = scopeFilters(query, args, argIdx, department, categoryID)
	query += ` ORDER BY l.due_date ASC`

	return r.queryBorrowingRows(ctx, query, args, today, 0)
}

func scopeFilters(query string, args []interface{}, argIdx int, department string, categoryID int32) (string, []interface{}, int) {
	if department != "" {
		query += fmt.Sprintf(" AND u.department = $%d", argIdx)
		args = append(args, department)
		argIdx++
	}
	if categoryID > 0 {
		query += fmt.Sprintf(" AND b.category_id = $%d", argIdx)
		args = append(args, categoryID)
		argIdx++
	}
	return query, args, argIdx
}

func (r *reportRepository) queryBorrowingRows(ctx context.Context, query string, args []interface{}, today time.Time, dueSoonDays int) ([]domain.BorrowingRow, error) {
	logger.DatabaseCall("BorrowingRows", query)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.DatabaseResult("BorrowingRows", 0, err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.BorrowingRow
	for rows.Next() {
		var row domain.BorrowingRow
		if err := rows.Scan(&row.LoanID, &row.UserID, &row.UserName, &row.Department, &row.BookID, &row.BookTitle, &row.CategoryID, &row.BorrowDate, &row.DueDate); err != nil {
			return nil, err
		}
		loan := domain.Loan{DueDate: row.DueDate}
		row.Urgency = loan.Urgency(today, dueSoonDays)
		row.DaysOverdue = int32(loan.DaysOverdue(today))
		row.PotentialFine = decimal.Zero
		result = append(result, row)
	}
	logger.DatabaseResult("BorrowingRows", int64(len(result)), rows.Err())
	return result, rows.Err()
}

func (r *reportRepository) PopularBooks(ctx context.Context, from, to time.Time, limit int32) ([]domain.PopularBook, error) {
	query := `SELECT b.id, b.title, b.author, count(l.id),
	                 COALESCE(AVG(CASE WHEN l.return_date IS NOT NULL THEN l.return_date::date - l.borrow_date::date END), 0)
	          FROM loans l
	          JOIN books b ON b.id = l.book_id
	          WHERE l.borrow_date::date BETWEEN $1 AND $2
	          GROUP BY b.id, b.title, b.author
	          ORDER BY count(l.id) DESC, b.title ASC
	          LIMIT $3`
	rows, err := r.db.QueryContext(ctx, query, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []domain.PopularBook
	for rows.Next() {
		var b domain.PopularBook
		if err := rows.Scan(&b.BookID, &b.Title, &b.Author, &b.BorrowCount, &b.AvgLoanDuration); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func (r *reportRepository) UserActivity(ctx context.Context, from, to time.Time, today time.Time) ([]domain.UserActivity, error) {
	query := `SELECT u.id, u.name, u.department,
	                 count(l.id) FILTER (WHERE l.borrow_date::date BETWEEN $1 AND $2),
	                 count(l.id) FILTER (WHERE l.return_date::date BETWEEN $1 AND $2),
	                 count(l.id) FILTER (WHERE l.return_date IS NULL),
	                 count(l.id) FILTER (WHERE l.return_date::date BETWEEN $1 AND $2 AND l.return_date::date > l.due_date::date),
	                 COALESCE(AVG(CASE WHEN l.return_date::date BETWEEN $1 AND $2 THEN l.return_date::date - l.borrow_date::date END), 0),
	                 COALESCE((SELECT SUM(f.amount) FROM fines f WHERE f.user_id = u.id AND f.status = 'UNPAID'), 0)
	          FROM users u
	          LEFT JOIN loans l ON l.user_id = u.id
	          GROUP BY u.id, u.name, u.department
	          ORDER BY u.name ASC`
	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.UserActivity
	for rows.Next() {
		var a domain.UserActivity
		if err := rows.Scan(&a.UserID, &a.Name, &a.Department, &a.Borrowed, &a.Returned, &a.Current, &a.Late, &a.AvgLoanDuration, &a.UnpaidFines); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

func (r *reportRepository) DepartmentActivity(ctx context.Context, from, to time.Time, today time.Time) ([]domain.DepartmentActivity, error) {
	query := `SELECT u.department,
	                 count(l.id) FILTER (WHERE l.borrow_date::date BETWEEN $1 AND $2),
	                 count(l.id) FILTER (WHERE l.return_date::date BETWEEN $1 AND $2),
	                 count(l.id) FILTER (WHERE l.return_date IS NULL),
	                 count(l.id) FILTER (WHERE l.return_date::date BETWEEN $1 AND $2 AND l.return_date::date > l.due_date::date)
	          FROM users u
	          LEFT JOIN loans l ON l.user_id = u.id
	          GROUP BY u.department
	          ORDER BY u.department ASC`
	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.DepartmentActivity
	for rows.Next() {
		var d domain.DepartmentActivity
		if err := rows.Scan(&d.Department, &d.Borrowed, &d.Returned, &d.Current, &d.Late); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

func (r *reportRepository) FinesSummary(ctx context.Context) (*domain.FinesSummary, error) {
	summary := &domain.FinesSummary{
		ByMethod:     make(map[string]decimal.Decimal),
		ByDepartment: make(map[string]decimal.Decimal),
	}

	rows, err := r.db.QueryContext(ctx, `SELECT status, COALESCE(SUM(amount), 0) FROM fines GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var status domain.FineStatus
		var amount decimal.Decimal
		if err := rows.Scan(&status, &amount); err != nil {
			return nil, err
		}
		switch status {
		case domain.FineStatusPaid:
			summary.PaidAmount = amount
		case domain.FineStatusUnpaid:
			summary.UnpaidAmount = amount
		case domain.FineStatusWaived:
			summary.WaivedAmount = amount
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	summary.TotalAmount = summary.PaidAmount.Add(summary.UnpaidAmount).Add(summary.WaivedAmount)
	// Collection rate guards the empty-table case.
	if summary.TotalAmount.IsPositive() {
		rate, _ := summary.PaidAmount.Div(summary.TotalAmount).Float64()
		summary.CollectionRate = rate
	}

	methodRows, err := r.db.QueryContext(ctx, `SELECT payment_method, COALESCE(SUM(amount), 0) FROM fines WHERE status = 'PAID' GROUP BY payment_method`)
	if err != nil {
		return nil, err
	}
	defer methodRows.Close()

	for methodRows.Next() {
		var method string
		var amount decimal.Decimal
		if err := methodRows.Scan(&method, &amount); err != nil {
			return nil, err
		}
		summary.ByMethod[method] = amount
	}
	if err := methodRows.Err(); err != nil {
		return nil, err
	}

	deptRows, err := r.db.QueryContext(ctx, `SELECT u.department, COALESCE(SUM(f.amount), 0)
	                                         FROM fines f JOIN users u ON u.id = f.user_id
	                                         GROUP BY u.department`)
	if err != nil {
		return nil, err
	}
	defer deptRows.Close()

	for deptRows.Next() {
		var dept string
		var amount decimal.Decimal
		if err := deptRows.Scan(&dept, &amount); err != nil {
			return nil, err
		}
		summary.ByDepartment[dept] = amount
	}
	return summary, deptRows.Err()
}

func (r *reportRepository) CollectionStatus(ctx context.Context) ([]domain.CategoryUtilization, error) {
	query := `SELECT c.id, c.name,
	                 COALESCE(SUM(b.total_copies), 0),
	                 COALESCE(SUM(b.total_copies - b.available_copies), 0)
	          FROM categories c
	          LEFT JOIN books b ON b.category_id = c.id
	          GROUP BY c.id, c.name
	          ORDER BY c.name ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.CategoryUtilization
	for rows.Next() {
		var u domain.CategoryUtilization
		if err := rows.Scan(&u.CategoryID, &u.CategoryName, &u.TotalCopies, &u.BorrowedCopies); err != nil {
			return nil, err
		}
		// Utilization rate guards empty categories.
		if u.TotalCopies > 0 {
			u.UtilizationRate = float64(u.BorrowedCopies) / float64(u.TotalCopies)
		}
		u.UnderUtilized = u.UtilizationRate < 0.10
		u.OverUtilized = u.UtilizationRate > 0.80
		result = append(result, u)
	}
	return result, rows.Err()
}

func (r *reportRepository) RecordDailySnapshot(ctx context.Context, snap *domain.DailySnapshot) error {
	query := `INSERT INTO daily_snapshots (day, active_loans, overdue_loans, unpaid_fine_count, unpaid_fine_amount)
	          VALUES ($1, $2, $3, $4, $5)
	          ON CONFLICT (day) DO UPDATE SET
	            active_loans = EXCLUDED.active_loans,
	            overdue_loans = EXCLUDED.overdue_loans,
	            unpaid_fine_count = EXCLUDED.unpaid_fine_count,
	            unpaid_fine_amount = EXCLUDED.unpaid_fine_amount
	          RETURNING id`
	return r.db.QueryRowContext(ctx, query, snap.Day, snap.ActiveLoans, snap.OverdueLoans, snap.UnpaidFineCount, snap.UnpaidFineAmount).Scan(&snap.ID)
}

func (r *reportRepository) SnapshotHistory(ctx context.Context, from, to time.Time) ([]domain.DailySnapshot, error) {
	query := `SELECT id, day, active_loans, overdue_loans, unpaid_fine_count, unpaid_fine_amount
	          FROM daily_snapshots
	          WHERE day BETWEEN $1 AND $2
	          ORDER BY day ASC`
	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []domain.DailySnapshot
	for rows.Next() {
		var s domain.DailySnapshot
		if err := rows.Scan(&s.ID, &s.Day, &s.ActiveLoans, &s.OverdueLoans, &s.UnpaidFineCount, &s.UnpaidFineAmount); err != nil {
			return nil, err
		}
		snaps = append(snaps, s)
	}
	return snaps, rows.Err()
}
