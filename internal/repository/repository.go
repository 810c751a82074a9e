package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"unilib-backend/internal/domain"
)

// ErrSettingNotFound signals that a key has no stored value and the caller
// should fall back to its default.
var ErrSettingNotFound = errors.New("setting not found")

type BookRepository interface {
	Create(ctx context.Context, book *domain.Book) error
	GetByID(ctx context.Context, id int32) (*domain.Book, error)
	Update(ctx context.Context, book *domain.Book) error
	Delete(ctx context.Context, id int32) error
	List(ctx context.Context, categoryID int32, page, pageSize int32) ([]domain.Book, int32, error)
	Search(ctx context.Context, query string, categoryID int32, page, pageSize int32) ([]domain.Book, int32, error)
	SetStatus(ctx context.Context, id int32, status domain.BookStatus) error

	// CorrectCopyCounts is the administrative escape hatch; normal catalog
	// updates never touch available_copies.
	CorrectCopyCounts(ctx context.Context, id int32, totalCopies, availableCopies int32) error
}

type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	GetByID(ctx context.Context, id int32) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id int32) error
	CountBooks(ctx context.Context, categoryID int32) (int32, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByIDNumber(ctx context.Context, idNumber string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	SetStatus(ctx context.Context, id int32, status domain.UserStatus) error
	List(ctx context.Context, department string, page, pageSize int32) ([]domain.User, int32, error)
	Search(ctx context.Context, query string, page, pageSize int32) ([]domain.User, int32, error)
}

type LoanRepository interface {
	// CreateWithCopyDecrement inserts the loan and decrements the book's
	// available_copies in one transaction. The decrement is guarded by
	// available_copies > 0 and the insert by the partial unique index on
	// open (user_id, book_id), so racing borrows resolve to typed errors
	// rather than negative counts or duplicates.
	CreateWithCopyDecrement(ctx context.Context, loan *domain.Loan) error

	// CloseWithCopyIncrement sets the return date, appends the return notes
	// and increments available_copies in one transaction. The increment is
	// guarded by available_copies < total_copies; a guard miss rolls the
	// whole transaction back with an IntegrityError.
	CloseWithCopyIncrement(ctx context.Context, loanID int32, returnDate time.Time, appendNotes string) error

	GetByID(ctx context.Context, id int32) (*domain.Loan, error)
	UpdateDueDate(ctx context.Context, id int32, dueDate time.Time) error
	CountOpenByUser(ctx context.Context, userID int32) (int32, error)
	CountOpenByBook(ctx context.Context, bookID int32) (int32, error)
	HasOpenLoan(ctx context.Context, userID, bookID int32) (bool, error)
	ListByUser(ctx context.Context, userID int32, openOnly bool, page, pageSize int32) ([]domain.Loan, int32, error)

	// ListPending returns open loans ordered overdue first, then due soon,
	// then normal, ascending by due date within each bucket.
	ListPending(ctx context.Context, today time.Time, dueSoonDays int, page, pageSize int32) ([]domain.Loan, int32, error)
}

type FineRepository interface {
	Create(ctx context.Context, fine *domain.Fine) error
	GetByID(ctx context.Context, id int32) (*domain.Fine, error)

	// MarkPaid and Waive only move fines out of UNPAID; both report
	// whether the guarded update matched a row.
	MarkPaid(ctx context.Context, id int32, paymentDate time.Time, method, notes string) (bool, error)
	Waive(ctx context.Context, id int32, paymentDate time.Time, reason string) (bool, error)

	ListByUser(ctx context.Context, userID int32, status domain.FineStatus, page, pageSize int32) ([]domain.Fine, int32, error)
	OutstandingTotal(ctx context.Context, userID int32) (decimal.Decimal, error)
}

type SettingRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	List(ctx context.Context) ([]domain.Setting, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
}

type ReportRepository interface {
	DailyActivity(ctx context.Context, from, to time.Time) ([]domain.DailyActivity, error)
	CurrentTotals(ctx context.Context, today time.Time) (*domain.CirculationTotals, error)
	CurrentBorrowings(ctx context.Context, today time.Time, dueSoonDays int, department string, categoryID int32) ([]domain.BorrowingRow, error)
	OverdueLoans(ctx context.Context, today time.Time, department string, categoryID int32) ([]domain.BorrowingRow, error)
	PopularBooks(ctx context.Context, from, to time.Time, limit int32) ([]domain.PopularBook, error)
	UserActivity(ctx context.Context, from, to time.Time, today time.Time) ([]domain.UserActivity, error)
	DepartmentActivity(ctx context.Context, from, to time.Time, today time.Time) ([]domain.DepartmentActivity, error)
	FinesSummary(ctx context.Context) (*domain.FinesSummary, error)
	CollectionStatus(ctx context.Context) ([]domain.CategoryUtilization, error)

	RecordDailySnapshot(ctx context.Context, snap *domain.DailySnapshot) error
	SnapshotHistory(ctx context.Context, from, to time.Time) ([]domain.DailySnapshot, error)
}
