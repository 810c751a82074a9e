package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanUrgency classifies an open loan for sorting and reporting. It is
// computed, never stored.
type LoanUrgency string

const (
	LoanUrgencyOverdue LoanUrgency = "OVERDUE"
	LoanUrgencyDueSoon LoanUrgency = "DUE_SOON"
	LoanUrgencyNormal  LoanUrgency = "NORMAL"
)

// Loan is a borrow record. Its lifecycle state is derived from the nullable
// ReturnDate rather than stored as an enum: a loan is open while ReturnDate
// is nil and closed once it is set.
type Loan struct {
	ID         int32      `json:"id"`
	UserID     int32      `json:"user_id"`
	BookID     int32      `json:"book_id"`
	BorrowDate time.Time  `json:"borrow_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
	Notes      string     `json:"notes"`
	CreatedOn  time.Time  `json:"created_on"`
	UpdatedOn  time.Time  `json:"updated_on"`
}

// Open reports whether the book is still out.
func (l *Loan) Open() bool {
	return l.ReturnDate == nil
}

// DaysOverdue returns how many whole days past due the loan is, as of the
// given date for open loans or as of the return date for closed ones.
// Never negative.
func (l *Loan) DaysOverdue(today time.Time) int {
	ref := today
	if l.ReturnDate != nil {
		ref = *l.ReturnDate
	}
	days := daysBetween(l.DueDate, ref)
	if days < 0 {
		return 0
	}
	return days
}

// ReturnedLate reports whether the loan was closed after its due date.
func (l *Loan) ReturnedLate() bool {
	return l.ReturnDate != nil && truncateToDay(*l.ReturnDate).After(truncateToDay(l.DueDate))
}

// Urgency classifies an open loan: overdue first, then due within
// dueSoonDays, then normal. Closed loans are always normal.
func (l *Loan) Urgency(today time.Time, dueSoonDays int) LoanUrgency {
	if !l.Open() {
		return LoanUrgencyNormal
	}
	remaining := daysBetween(today, l.DueDate)
	switch {
	case remaining < 0:
		return LoanUrgencyOverdue
	case remaining <= dueSoonDays:
		return LoanUrgencyDueSoon
	default:
		return LoanUrgencyNormal
	}
}

// ReturnOutcome tells the caller what happened on return, so the
// presentation layer can notify the borrower about any fine.
type ReturnOutcome struct {
	Loan        *Loan           `json:"loan"`
	DaysOverdue int             `json:"days_overdue"`
	FineCreated bool            `json:"fine_created"`
	FineAmount  decimal.Decimal `json:"fine_amount"`
}

// truncateToDay anchors the calendar date at UTC midnight so that day
// arithmetic never subtracts midnights from different zones.
func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween counts whole calendar days from a to b, negative when b
// precedes a.
func daysBetween(a, b time.Time) int {
	return int(truncateToDay(b).Sub(truncateToDay(a)).Hours() / 24)
}
