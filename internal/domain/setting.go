package domain

import "github.com/shopspring/decimal"

// Setting keys recognized by the policy provider.
const (
	SettingBorrowingPeriodDays = "borrowing_period_days"
	SettingMaxBooksPerUser     = "max_books_per_user"
	SettingFinePerDay          = "fine_per_day"
	SettingGracePeriodDays     = "grace_period_days"
	SettingMaxFineAmount       = "max_fine_amount"
	SettingDueSoonDays         = "due_soon_days"
)

// Setting is one row of the system_settings key/value table.
type Setting struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Policy is a snapshot of the circulation policy values, resolved with
// defaults for absent keys. Operations take a snapshot rather than reading
// ambient state so tests can supply deterministic values.
type Policy struct {
	BorrowingPeriodDays int             `json:"borrowing_period_days"`
	MaxBooksPerUser     int             `json:"max_books_per_user"`
	FinePerDay          decimal.Decimal `json:"fine_per_day"`
	GracePeriodDays     int             `json:"grace_period_days"`
	MaxFineAmount       decimal.Decimal `json:"max_fine_amount"`
	DueSoonDays         int             `json:"due_soon_days"`
}

// DefaultPolicy returns the policy used when the settings table has no
// overrides: 14-day loans, 3 books per user, 2.00 per day late, no grace
// period, no fine cap, due-soon window of 3 days.
func DefaultPolicy() Policy {
	return Policy{
		BorrowingPeriodDays: 14,
		MaxBooksPerUser:     3,
		FinePerDay:          decimal.New(2, 0),
		GracePeriodDays:     0,
		MaxFineAmount:       decimal.Zero,
		DueSoonDays:         3,
	}
}
