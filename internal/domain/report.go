package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyActivity is one day's circulation counts inside a DailySummary.
type DailyActivity struct {
	Day     time.Time `json:"day"`
	Borrows int32     `json:"borrows"`
	Returns int32     `json:"returns"`
}

// CirculationTotals is a point-in-time snapshot of the circulation state.
type CirculationTotals struct {
	ActiveLoans       int32           `json:"active_loans"`
	OverdueLoans      int32           `json:"overdue_loans"`
	UnpaidFineCount   int32           `json:"unpaid_fine_count"`
	UnpaidFineAmount  decimal.Decimal `json:"unpaid_fine_amount"`
}

// DailySummary combines per-day activity in a range with current totals
// and the recorded end-of-day snapshots for the same range.
type DailySummary struct {
	From    time.Time         `json:"from"`
	To      time.Time         `json:"to"`
	Days    []DailyActivity   `json:"days"`
	Current CirculationTotals `json:"current"`
	History []DailySnapshot   `json:"history"`
}

// BorrowingRow is one row of the current-borrowings and overdue reports.
// PotentialFine is a projection from current policy, not an assessed fine.
type BorrowingRow struct {
	LoanID        int32           `json:"loan_id"`
	UserID        int32           `json:"user_id"`
	UserName      string          `json:"user_name"`
	Department    string          `json:"department"`
	BookID        int32           `json:"book_id"`
	BookTitle     string          `json:"book_title"`
	CategoryID    int32           `json:"category_id"`
	BorrowDate    time.Time       `json:"borrow_date"`
	DueDate       time.Time       `json:"due_date"`
	Urgency       LoanUrgency     `json:"urgency"`
	DaysOverdue   int32           `json:"days_overdue"`
	PotentialFine decimal.Decimal `json:"potential_fine"`
}

// PopularBook is one row of the popular-books report.
type PopularBook struct {
	BookID          int32   `json:"book_id"`
	Title           string  `json:"title"`
	Author          string  `json:"author"`
	BorrowCount     int32   `json:"borrow_count"`
	AvgLoanDuration float64 `json:"avg_loan_duration_days"`
}

// UserActivity is one row of the user-activity report.
type UserActivity struct {
	UserID          int32           `json:"user_id"`
	Name            string          `json:"name"`
	Department      string          `json:"department"`
	Borrowed        int32           `json:"borrowed"`
	Returned        int32           `json:"returned"`
	Current         int32           `json:"current"`
	Late            int32           `json:"late"`
	AvgLoanDuration float64         `json:"avg_loan_duration_days"`
	UnpaidFines     decimal.Decimal `json:"unpaid_fines"`
}

// DepartmentActivity rolls user activity up by department.
type DepartmentActivity struct {
	Department string `json:"department"`
	Borrowed   int32  `json:"borrowed"`
	Returned   int32  `json:"returned"`
	Current    int32  `json:"current"`
	Late       int32  `json:"late"`
}

// FinesSummary aggregates fines by status, method and department.
// CollectionRate is paid/total and is 0 when no fines exist.
type FinesSummary struct {
	TotalAmount    decimal.Decimal            `json:"total_amount"`
	PaidAmount     decimal.Decimal            `json:"paid_amount"`
	UnpaidAmount   decimal.Decimal            `json:"unpaid_amount"`
	WaivedAmount   decimal.Decimal            `json:"waived_amount"`
	CollectionRate float64                    `json:"collection_rate"`
	ByMethod       map[string]decimal.Decimal `json:"by_method"`
	ByDepartment   map[string]decimal.Decimal `json:"by_department"`
}

// CategoryUtilization is one row of the collection-status report.
// UtilizationRate is borrowed/total and is 0 when the category is empty.
type CategoryUtilization struct {
	CategoryID      int32   `json:"category_id"`
	CategoryName    string  `json:"category_name"`
	TotalCopies     int32   `json:"total_copies"`
	BorrowedCopies  int32   `json:"borrowed_copies"`
	UtilizationRate float64 `json:"utilization_rate"`
	UnderUtilized   bool    `json:"under_utilized"`
	OverUtilized    bool    `json:"over_utilized"`
}

// DailySnapshot is one row of the daily_snapshots table written by the
// nightly job.
type DailySnapshot struct {
	ID               int32           `json:"id"`
	Day              time.Time       `json:"day"`
	ActiveLoans      int32           `json:"active_loans"`
	OverdueLoans     int32           `json:"overdue_loans"`
	UnpaidFineCount  int32           `json:"unpaid_fine_count"`
	UnpaidFineAmount decimal.Decimal `json:"unpaid_fine_amount"`
}
