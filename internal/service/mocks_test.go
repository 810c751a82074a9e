package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"unilib-backend/internal/domain"
)

// MockBookRepo
type MockBookRepo struct {
	mock.Mock
}

func (m *MockBookRepo) Create(ctx context.Context, book *domain.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}
func (m *MockBookRepo) GetByID(ctx context.Context, id int32) (*domain.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}
func (m *MockBookRepo) Update(ctx context.Context, book *domain.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}
func (m *MockBookRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockBookRepo) List(ctx context.Context, categoryID int32, page, pageSize int32) ([]domain.Book, int32, error) {
	args := m.Called(ctx, categoryID, page, pageSize)
	return args.Get(0).([]domain.Book), args.Get(1).(int32), args.Error(2)
}
func (m *MockBookRepo) Search(ctx context.Context, query string, categoryID int32, page, pageSize int32) ([]domain.Book, int32, error) {
	args := m.Called(ctx, query, categoryID, page, pageSize)
	return args.Get(0).([]domain.Book), args.Get(1).(int32), args.Error(2)
}
func (m *MockBookRepo) SetStatus(ctx context.Context, id int32, status domain.BookStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockBookRepo) CorrectCopyCounts(ctx context.Context, id int32, totalCopies, availableCopies int32) error {
	args := m.Called(ctx, id, totalCopies, availableCopies)
	return args.Error(0)
}

// MockCategoryRepo
type MockCategoryRepo struct {
	mock.Mock
}

func (m *MockCategoryRepo) Create(ctx context.Context, category *domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}
func (m *MockCategoryRepo) GetByID(ctx context.Context, id int32) (*domain.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}
func (m *MockCategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Category), args.Error(1)
}
func (m *MockCategoryRepo) Update(ctx context.Context, category *domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}
func (m *MockCategoryRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockCategoryRepo) CountBooks(ctx context.Context, categoryID int32) (int32, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).(int32), args.Error(1)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByIDNumber(ctx context.Context, idNumber string) (*domain.User, error) {
	args := m.Called(ctx, idNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) SetStatus(ctx context.Context, id int32, status domain.UserStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockUserRepo) List(ctx context.Context, department string, page, pageSize int32) ([]domain.User, int32, error) {
	args := m.Called(ctx, department, page, pageSize)
	return args.Get(0).([]domain.User), args.Get(1).(int32), args.Error(2)
}
func (m *MockUserRepo) Search(ctx context.Context, query string, page, pageSize int32) ([]domain.User, int32, error) {
	args := m.Called(ctx, query, page, pageSize)
	return args.Get(0).([]domain.User), args.Get(1).(int32), args.Error(2)
}

// MockLoanRepo
type MockLoanRepo struct {
	mock.Mock
}

func (m *MockLoanRepo) CreateWithCopyDecrement(ctx context.Context, loan *domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}
func (m *MockLoanRepo) CloseWithCopyIncrement(ctx context.Context, loanID int32, returnDate time.Time, appendNotes string) error {
	args := m.Called(ctx, loanID, returnDate, appendNotes)
	return args.Error(0)
}
func (m *MockLoanRepo) GetByID(ctx context.Context, id int32) (*domain.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}
func (m *MockLoanRepo) UpdateDueDate(ctx context.Context, id int32, dueDate time.Time) error {
	args := m.Called(ctx, id, dueDate)
	return args.Error(0)
}
func (m *MockLoanRepo) CountOpenByUser(ctx context.Context, userID int32) (int32, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockLoanRepo) CountOpenByBook(ctx context.Context, bookID int32) (int32, error) {
	args := m.Called(ctx, bookID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockLoanRepo) HasOpenLoan(ctx context.Context, userID, bookID int32) (bool, error) {
	args := m.Called(ctx, userID, bookID)
	return args.Bool(0), args.Error(1)
}
func (m *MockLoanRepo) ListByUser(ctx context.Context, userID int32, openOnly bool, page, pageSize int32) ([]domain.Loan, int32, error) {
	args := m.Called(ctx, userID, openOnly, page, pageSize)
	return args.Get(0).([]domain.Loan), args.Get(1).(int32), args.Error(2)
}
func (m *MockLoanRepo) ListPending(ctx context.Context, today time.Time, dueSoonDays int, page, pageSize int32) ([]domain.Loan, int32, error) {
	args := m.Called(ctx, today, dueSoonDays, page, pageSize)
	return args.Get(0).([]domain.Loan), args.Get(1).(int32), args.Error(2)
}

// MockFineRepo
type MockFineRepo struct {
	mock.Mock
}

func (m *MockFineRepo) Create(ctx context.Context, fine *domain.Fine) error {
	args := m.Called(ctx, fine)
	return args.Error(0)
}
func (m *MockFineRepo) GetByID(ctx context.Context, id int32) (*domain.Fine, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Fine), args.Error(1)
}
func (m *MockFineRepo) MarkPaid(ctx context.Context, id int32, paymentDate time.Time, method, notes string) (bool, error) {
	args := m.Called(ctx, id, paymentDate, method, notes)
	return args.Bool(0), args.Error(1)
}
func (m *MockFineRepo) Waive(ctx context.Context, id int32, paymentDate time.Time, reason string) (bool, error) {
	args := m.Called(ctx, id, paymentDate, reason)
	return args.Bool(0), args.Error(1)
}
func (m *MockFineRepo) ListByUser(ctx context.Context, userID int32, status domain.FineStatus, page, pageSize int32) ([]domain.Fine, int32, error) {
	args := m.Called(ctx, userID, status, page, pageSize)
	return args.Get(0).([]domain.Fine), args.Get(1).(int32), args.Error(2)
}
func (m *MockFineRepo) OutstandingTotal(ctx context.Context, userID int32) (decimal.Decimal, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockSettingRepo
type MockSettingRepo struct {
	mock.Mock
}

func (m *MockSettingRepo) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}
func (m *MockSettingRepo) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}
func (m *MockSettingRepo) List(ctx context.Context) ([]domain.Setting, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Setting), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int32) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockReportRepo
type MockReportRepo struct {
	mock.Mock
}

func (m *MockReportRepo) DailyActivity(ctx context.Context, from, to time.Time) ([]domain.DailyActivity, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]domain.DailyActivity), args.Error(1)
}
func (m *MockReportRepo) CurrentTotals(ctx context.Context, today time.Time) (*domain.CirculationTotals, error) {
	args := m.Called(ctx, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CirculationTotals), args.Error(1)
}
func (m *MockReportRepo) CurrentBorrowings(ctx context.Context, today time.Time, dueSoonDays int, department string, categoryID int32) ([]domain.BorrowingRow, error) {
	args := m.Called(ctx, today, dueSoonDays, department, categoryID)
	return args.Get(0).([]domain.BorrowingRow), args.Error(1)
}
func (m *MockReportRepo) OverdueLoans(ctx context.Context, today time.Time, department string, categoryID int32) ([]domain.BorrowingRow, error) {
	args := m.Called(ctx, today, department, categoryID)
	return args.Get(0).([]domain.BorrowingRow), args.Error(1)
}
func (m *MockReportRepo) PopularBooks(ctx context.Context, from, to time.Time, limit int32) ([]domain.PopularBook, error) {
	args := m.Called(ctx, from, to, limit)
	return args.Get(0).([]domain.PopularBook), args.Error(1)
}
func (m *MockReportRepo) UserActivity(ctx context.Context, from, to time.Time, today time.Time) ([]domain.UserActivity, error) {
	args := m.Called(ctx, from, to, today)
	return args.Get(0).([]domain.UserActivity), args.Error(1)
}
func (m *MockReportRepo) DepartmentActivity(ctx context.Context, from, to time.Time, today time.Time) ([]domain.DepartmentActivity, error) {
	args := m.Called(ctx, from, to, today)
	return args.Get(0).([]domain.DepartmentActivity), args.Error(1)
}
func (m *MockReportRepo) FinesSummary(ctx context.Context) (*domain.FinesSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinesSummary), args.Error(1)
}
func (m *MockReportRepo) CollectionStatus(ctx context.Context) ([]domain.CategoryUtilization, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.CategoryUtilization), args.Error(1)
}
func (m *MockReportRepo) RecordDailySnapshot(ctx context.Context, snap *domain.DailySnapshot) error {
	args := m.Called(ctx, snap)
	return args.Error(0)
}
func (m *MockReportRepo) SnapshotHistory(ctx context.Context, from, to time.Time) ([]domain.DailySnapshot, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DailySnapshot), args.Error(1)
}

// MockPolicy
type MockPolicy struct {
	mock.Mock
}

func (m *MockPolicy) Snapshot(ctx context.Context) (domain.Policy, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Policy), args.Error(1)
}
func (m *MockPolicy) UpdateSetting(ctx context.Context, actor domain.Actor, key, value string) error {
	args := m.Called(ctx, actor, key, value)
	return args.Error(0)
}
func (m *MockPolicy) ListSettings(ctx context.Context) ([]domain.Setting, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Setting), args.Error(1)
}

// MockFineSvc
type MockFineSvc struct {
	mock.Mock
}

func (m *MockFineSvc) Assess(ctx context.Context, loanID, userID int32, amount decimal.Decimal) (*domain.Fine, error) {
	args := m.Called(ctx, loanID, userID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Fine), args.Error(1)
}
func (m *MockFineSvc) MarkPaid(ctx context.Context, actor domain.Actor, fineID int32, method, notes string) (*domain.Fine, error) {
	args := m.Called(ctx, actor, fineID, method, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Fine), args.Error(1)
}
func (m *MockFineSvc) Waive(ctx context.Context, actor domain.Actor, fineID int32, reason string) (*domain.Fine, error) {
	args := m.Called(ctx, actor, fineID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Fine), args.Error(1)
}
func (m *MockFineSvc) GetFine(ctx context.Context, fineID int32) (*domain.Fine, error) {
	args := m.Called(ctx, fineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Fine), args.Error(1)
}
func (m *MockFineSvc) ListUserFines(ctx context.Context, userID int32, status domain.FineStatus, page, pageSize int32) ([]domain.Fine, int32, error) {
	args := m.Called(ctx, userID, status, page, pageSize)
	return args.Get(0).([]domain.Fine), args.Get(1).(int32), args.Error(2)
}
func (m *MockFineSvc) OutstandingTotal(ctx context.Context, userID int32) (decimal.Decimal, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
