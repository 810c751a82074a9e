package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"unilib-backend/internal/domain"
)

type CatalogService interface {
	AddBook(ctx context.Context, actor domain.Actor, book *domain.Book) error
	GetBook(ctx context.Context, id int32) (*domain.Book, error)
	UpdateBook(ctx context.Context, actor domain.Actor, book *domain.Book) error
	DeleteBook(ctx context.Context, actor domain.Actor, id int32) error
	ListBooks(ctx context.Context, categoryID int32, page, pageSize int32) ([]domain.Book, int32, error)
	SearchBooks(ctx context.Context, query string, categoryID int32, page, pageSize int32) ([]domain.Book, int32, error)
	SetMaintenance(ctx context.Context, actor domain.Actor, bookID int32, on bool) error
	CorrectCopyCounts(ctx context.Context, actor domain.Actor, bookID int32, totalCopies int32) error

	CreateCategory(ctx context.Context, actor domain.Actor, category *domain.Category) error
	ListCategories(ctx context.Context) ([]domain.Category, error)
	UpdateCategory(ctx context.Context, actor domain.Actor, category *domain.Category) error
	DeleteCategory(ctx context.Context, actor domain.Actor, id int32) error
}

type MembershipService interface {
	RegisterUser(ctx context.Context, actor domain.Actor, user *domain.User) error
	GetUser(ctx context.Context, id int32) (*domain.User, error)
	UpdateUser(ctx context.Context, actor domain.Actor, user *domain.User) error
	DeactivateUser(ctx context.Context, actor domain.Actor, id int32) error
	ReactivateUser(ctx context.Context, actor domain.Actor, id int32) error
	ListUsers(ctx context.Context, department string, page, pageSize int32) ([]domain.User, int32, error)
	SearchUsers(ctx context.Context, query string, page, pageSize int32) ([]domain.User, int32, error)
}

type CirculationService interface {
	BorrowBook(ctx context.Context, actor domain.Actor, userID, bookID int32, notes string) (*domain.Loan, error)
	RequestRenewal(ctx context.Context, actor domain.Actor, loanID int32) error
	ExtendDueDate(ctx context.Context, actor domain.Actor, loanID int32, newDueDate time.Time) (*domain.Loan, error)
	ReturnBook(ctx context.Context, actor domain.Actor, loanID int32, condition, notes string) (*domain.ReturnOutcome, error)
	GetLoan(ctx context.Context, actor domain.Actor, loanID int32) (*domain.Loan, error)
	ListUserLoans(ctx context.Context, actor domain.Actor, userID int32, openOnly bool, page, pageSize int32) ([]domain.Loan, int32, error)
	ListPending(ctx context.Context, page, pageSize int32) ([]domain.Loan, int32, error)
}

type FineService interface {
	Assess(ctx context.Context, loanID, userID int32, amount decimal.Decimal) (*domain.Fine, error)
	MarkPaid(ctx context.Context, actor domain.Actor, fineID int32, method, notes string) (*domain.Fine, error)
	Waive(ctx context.Context, actor domain.Actor, fineID int32, reason string) (*domain.Fine, error)
	GetFine(ctx context.Context, fineID int32) (*domain.Fine, error)
	ListUserFines(ctx context.Context, userID int32, status domain.FineStatus, page, pageSize int32) ([]domain.Fine, int32, error)
	OutstandingTotal(ctx context.Context, userID int32) (decimal.Decimal, error)
}

// PolicyService resolves circulation policy from the system_settings table,
// falling back to defaults for absent keys.
type PolicyService interface {
	Snapshot(ctx context.Context) (domain.Policy, error)
	UpdateSetting(ctx context.Context, actor domain.Actor, key, value string) error
	ListSettings(ctx context.Context) ([]domain.Setting, error)
}

type ReportService interface {
	DailySummary(ctx context.Context, from, to time.Time) (*domain.DailySummary, error)
	CurrentBorrowings(ctx context.Context, department string, categoryID int32) ([]domain.BorrowingRow, error)
	OverdueBooks(ctx context.Context, department string, categoryID int32) ([]domain.BorrowingRow, error)
	PopularBooks(ctx context.Context, from, to time.Time, limit int32) ([]domain.PopularBook, error)
	UserActivity(ctx context.Context, from, to time.Time) ([]domain.UserActivity, []domain.DepartmentActivity, error)
	FinesSummary(ctx context.Context) (*domain.FinesSummary, error)
	CollectionStatus(ctx context.Context) ([]domain.CategoryUtilization, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
}
