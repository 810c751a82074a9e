package utils

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ParseDate converts a yyyy-mm-dd formatted string into a UTC date.
func ParseDate(dateStr string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format, expected yyyy-mm-dd: %w", err)
	}
	return t, nil
}

// FormatDate renders a date as yyyy-mm-dd.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// DaysOverdue counts whole calendar days between the due date and the
// return date. Returns 0 when the return is on or before the due date.
func DaysOverdue(dueDate, returnDate time.Time) int {
	days := daysBetween(dueDate, returnDate)
	if days < 0 {
		return 0
	}
	return days
}

// CalculateFine computes the fine for a late return. The grace period is
// subtracted from the overdue days first; maxFine caps the result when
// positive (zero means uncapped).
func CalculateFine(daysOverdue, gracePeriodDays int, finePerDay, maxFine decimal.Decimal) decimal.Decimal {
	chargeable := daysOverdue - gracePeriodDays
	if chargeable <= 0 {
		return decimal.Zero
	}
	fine := finePerDay.Mul(decimal.NewFromInt(int64(chargeable)))
	if maxFine.IsPositive() && fine.GreaterThan(maxFine) {
		return maxFine
	}
	return fine
}

// TruncateToDay drops the clock, anchoring the calendar date at UTC
// midnight. Day arithmetic must never subtract midnights from different
// zones: the offset leaks into the hour division and undercounts a day.
func TruncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(a, b time.Time) int {
	return int(TruncateToDay(b).Sub(TruncateToDay(a)).Hours() / 24)
}
