package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"unilib-backend/internal/domain"
)

var (
	librarian = domain.Actor{UserID: 99, Role: domain.ActorRoleLibrarian}
	member    = domain.Actor{UserID: 1, Role: domain.ActorRoleMember}
)

// newCirculationFixture builds the service with every dependency mocked and
// the clock pinned to 2026-03-20.
func newCirculationFixture() (*circulationService, *MockLoanRepo, *MockBookRepo, *MockUserRepo, *MockNotificationRepo, *MockFineSvc, *MockPolicy) {
	loanRepo := new(MockLoanRepo)
	bookRepo := new(MockBookRepo)
	userRepo := new(MockUserRepo)
	noteRepo := new(MockNotificationRepo)
	fineSvc := new(MockFineSvc)
	policy := new(MockPolicy)

	svc := NewCirculationService(loanRepo, bookRepo, userRepo, noteRepo, fineSvc, policy).(*circulationService)
	svc.now = func() time.Time {
		return time.Date(2026, 3, 20, 10, 30, 0, 0, time.UTC)
	}
	return svc, loanRepo, bookRepo, userRepo, noteRepo, fineSvc, policy
}

func activeUser(id int32) *domain.User {
	return &domain.User{ID: id, IDNumber: "S-1001", Name: "Test User", Status: domain.UserStatusActive}
}

func availableBook(id int32) *domain.Book {
	return &domain.Book{ID: id, Title: "Book", TotalCopies: 2, AvailableCopies: 1, Status: domain.BookStatusAvailable}
}

func TestCirculationService_BorrowBook(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, loanRepo, bookRepo, userRepo, _, _, policy := newCirculationFixture()

		userRepo.On("GetByID", ctx, int32(1)).Return(activeUser(1), nil)
		bookRepo.On("GetByID", ctx, int32(2)).Return(availableBook(2), nil)
		policy.On("Snapshot", ctx).Return(domain.DefaultPolicy(), nil)
		loanRepo.On("CountOpenByUser", ctx, int32(1)).Return(int32(1), nil)
		loanRepo.On("HasOpenLoan", ctx, int32(1), int32(2)).Return(false, nil)
		loanRepo.On("CreateWithCopyDecrement", ctx, mock.AnythingOfType("*domain.Loan")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*domain.Loan).ID = 7
			}).Return(nil)

		loan, err := svc.BorrowBook(ctx, librarian, 1, 2, "")
		assert.NoError(t, err)
		assert.Equal(t, int32(7), loan.ID)
		assert.Equal(t, time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC), loan.BorrowDate)
		// 14-day borrowing period from the default policy
		assert.Equal(t, time.Date(2026, 4, 3, 0, 0, 0, 0, time.UTC), loan.DueDate)
	})

	t.Run("Inactive user fails first", func(t *testing.T) {
		svc, _, _, userRepo, _, _, _ := newCirculationFixture()

		inactive := activeUser(1)
		inactive.Status = domain.UserStatusInactive
		userRepo.On("GetByID", ctx, int32(1)).Return(inactive, nil)

		_, err := svc.BorrowBook(ctx, librarian, 1, 2, "")
		assert.True(t, domain.IsKind(err, domain.ErrUserNotEligible))
	})

	t.Run("Book under maintenance", func(t *testing.T) {
		svc, _, bookRepo, userRepo, _, _, _ := newCirculationFixture()

		book := availableBook(2)
		book.Status = domain.BookStatusMaintenance
		userRepo.On("GetByID", ctx, int32(1)).Return(activeUser(1), nil)
		bookRepo.On("GetByID", ctx, int32(2)).Return(book, nil)

		_, err := svc.BorrowBook(ctx, librarian, 1, 2, "")
		assert.True(t, domain.IsKind(err, domain.ErrBookNotAvailable))
	})

	t.Run("No copies available", func(t *testing.T) {
		svc, _, bookRepo, userRepo, _, _, _ := newCirculationFixture()

		book := availableBook(2)
		book.AvailableCopies = 0
		userRepo.On("GetByID", ctx, int32(1)).Return(activeUser(1), nil)
		bookRepo.On("GetByID", ctx, int32(2)).Return(book, nil)

		_, err := svc.BorrowBook(ctx, librarian, 1, 2, "")
		assert.True(t, domain.IsKind(err, domain.ErrNoCopiesAvailable))
	})

	t.Run("Borrow limit reached", func(t *testing.T) {
		svc, loanRepo, bookRepo, userRepo, _, _, policy := newCirculationFixture()

		userRepo.On("GetByID", ctx, int32(1)).Return(activeUser(1), nil)
		bookRepo.On("GetByID", ctx, int32(2)).Return(availableBook(2), nil)
		policy.On("Snapshot", ctx).Return(domain.DefaultPolicy(), nil)
		loanRepo.On("CountOpenByUser", ctx, int32(1)).Return(int32(3), nil)

		_, err := svc.BorrowBook(ctx, librarian, 1, 2, "")
		assert.True(t, domain.IsKind(err, domain.ErrBorrowLimitReached))
		loanRepo.AssertNotCalled(t, "CreateWithCopyDecrement", mock.Anything, mock.Anything)
	})

	t.Run("Duplicate open loan for the same title", func(t *testing.T) {
		svc, loanRepo, bookRepo, userRepo, _, _, policy := newCirculationFixture()

		userRepo.On("GetByID", ctx, int32(1)).Return(activeUser(1), nil)
		bookRepo.On("GetByID", ctx, int32(2)).Return(availableBook(2), nil)
		policy.On("Snapshot", ctx).Return(domain.DefaultPolicy(), nil)
		loanRepo.On("CountOpenByUser", ctx, int32(1)).Return(int32(0), nil)
		loanRepo.On("HasOpenLoan", ctx, int32(1), int32(2)).Return(true, nil)

		_, err := svc.BorrowBook(ctx, librarian, 1, 2, "")
		assert.True(t, domain.IsKind(err, domain.ErrDuplicateBorrow))
	})
}

func TestCirculationService_RequestRenewal(t *testing.T) {
	ctx := context.Background()

	openLoan := func() *domain.Loan {
		return &domain.Loan{
			ID:      5,
			UserID:  1,
			BookID:  2,
			DueDate: time.Date(2026, 3, 25, 0, 0, 0, 0, time.UTC),
		}
	}

	t.Run("Member requests for own loan", func(t *testing.T) {
		svc, loanRepo, _, _, noteRepo, _, _ := newCirculationFixture()

		loanRepo.On("GetByID", ctx, int32(5)).Return(openLoan(), nil)
		noteRepo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)

		err := svc.RequestRenewal(ctx, member, 5)
		assert.NoError(t, err)
		note := noteRepo.Calls[0].Arguments.Get(1).(*domain.Notification)
		assert.Equal(t, "RENEWAL_REQUEST", note.Attributes["type"])
		assert.Equal(t, int32(1), note.UserID)
	})

	t.Run("Other member cannot request", func(t *testing.T) {
		svc, loanRepo, _, _, _, _, _ := newCirculationFixture()

		loanRepo.On("GetByID", ctx, int32(5)).Return(openLoan(), nil)

		err := svc.RequestRenewal(ctx, domain.Actor{UserID: 42, Role: domain.ActorRoleMember}, 5)
		assert.True(t, domain.IsKind(err, domain.ErrNotAuthorized))
	})

	t.Run("Overdue loan cannot be renewed", func(t *testing.T) {
		svc, loanRepo, _, _, noteRepo, _, _ := newCirculationFixture()

		loan := openLoan()
		loan.DueDate = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
		loanRepo.On("GetByID", ctx, int32(5)).Return(loan, nil)

		err := svc.RequestRenewal(ctx, member, 5)
		assert.True(t, domain.IsKind(err, domain.ErrRenewalNotAllowed))
		noteRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Closed loan cannot be renewed", func(t *testing.T) {
		svc, loanRepo, _, _, _, _, _ := newCirculationFixture()

		loan := openLoan()
		returned := time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC)
		loan.ReturnDate = &returned
		loanRepo.On("GetByID", ctx, int32(5)).Return(loan, nil)

		err := svc.RequestRenewal(ctx, member, 5)
		assert.True(t, domain.IsKind(err, domain.ErrRenewalNotAllowed))
	})
}

func TestCirculationService_ExtendDueDate(t *testing.T) {
	ctx := context.Background()

	t.Run("Requires librarian", func(t *testing.T) {
		svc, _, _, _, _, _, _ := newCirculationFixture()

		_, err := svc.ExtendDueDate(ctx, member, 5, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
		assert.True(t, domain.IsKind(err, domain.ErrNotAuthorized))
	})

	t.Run("New due date must be in the future", func(t *testing.T) {
		svc, loanRepo, _, _, _, _, _ := newCirculationFixture()

		loanRepo.On("GetByID", ctx, int32(5)).Return(&domain.Loan{ID: 5, UserID: 1, DueDate: time.Date(2026, 3, 25, 0, 0, 0, 0, time.UTC)}, nil)

		_, err := svc.ExtendDueDate(ctx, librarian, 5, time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC))
		assert.True(t, domain.IsKind(err, domain.ErrInvalidDueDate))
	})

	t.Run("Success", func(t *testing.T) {
		svc, loanRepo, _, _, _, _, _ := newCirculationFixture()

		newDue := time.Date(2026, 4, 5, 0, 0, 0, 0, time.UTC)
		loanRepo.On("GetByID", ctx, int32(5)).Return(&domain.Loan{ID: 5, UserID: 1, DueDate: time.Date(2026, 3, 25, 0, 0, 0, 0, time.UTC)}, nil)
		loanRepo.On("UpdateDueDate", ctx, int32(5), newDue).Return(nil)

		loan, err := svc.ExtendDueDate(ctx, librarian, 5, newDue)
		assert.NoError(t, err)
		assert.Equal(t, newDue, loan.DueDate)
	})
}

func TestCirculationService_ReturnBook(t *testing.T) {
	ctx := context.Background()
	today := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

	t.Run("On-time return creates no fine", func(t *testing.T) {
		svc, loanRepo, _, _, _, fineSvc, policy := newCirculationFixture()

		loan := &domain.Loan{ID: 5, UserID: 1, BookID: 2, DueDate: time.Date(2026, 3, 25, 0, 0, 0, 0, time.UTC)}
		loanRepo.On("GetByID", ctx, int32(5)).Return(loan, nil)
		loanRepo.On("CloseWithCopyIncrement", ctx, int32(5), today, "").Return(nil)

		outcome, err := svc.ReturnBook(ctx, librarian, 5, "", "")
		assert.NoError(t, err)
		assert.Equal(t, 0, outcome.DaysOverdue)
		assert.False(t, outcome.FineCreated)
		policy.AssertNotCalled(t, "Snapshot", mock.Anything)
		fineSvc.AssertNotCalled(t, "Assess", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Return on the due date creates no fine", func(t *testing.T) {
		svc, loanRepo, _, _, _, fineSvc, _ := newCirculationFixture()

		loan := &domain.Loan{ID: 5, UserID: 1, BookID: 2, DueDate: today}
		loanRepo.On("GetByID", ctx, int32(5)).Return(loan, nil)
		loanRepo.On("CloseWithCopyIncrement", ctx, int32(5), today, "").Return(nil)

		outcome, err := svc.ReturnBook(ctx, librarian, 5, "", "")
		assert.NoError(t, err)
		assert.False(t, outcome.FineCreated)
		fineSvc.AssertNotCalled(t, "Assess", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Late return assesses a fine from current policy", func(t *testing.T) {
		svc, loanRepo, _, _, _, fineSvc, policy := newCirculationFixture()

		// Borrowed 2026-02-28 with a 14-day period, due 2026-03-14 and
		// returned 2026-03-20: 6 days late.
		loan := &domain.Loan{
			ID:         5,
			UserID:     1,
			BookID:     2,
			BorrowDate: time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
			DueDate:    time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		}
		loanRepo.On("GetByID", ctx, int32(5)).Return(loan, nil)
		loanRepo.On("CloseWithCopyIncrement", ctx, int32(5), today, "returned in condition: good").Return(nil)
		policy.On("Snapshot", ctx).Return(domain.DefaultPolicy(), nil)

		twelve := decimal.RequireFromString("12.00")
		fineSvc.On("Assess", ctx, int32(5), int32(1), mock.MatchedBy(func(d decimal.Decimal) bool {
			return d.Equal(twelve)
		})).Return(&domain.Fine{ID: 9, LoanID: 5, UserID: 1, Amount: twelve, Status: domain.FineStatusUnpaid}, nil)

		outcome, err := svc.ReturnBook(ctx, librarian, 5, "good", "")
		assert.NoError(t, err)
		assert.Equal(t, 6, outcome.DaysOverdue)
		assert.True(t, outcome.FineCreated)
		assert.True(t, outcome.FineAmount.Equal(twelve))
	})

	t.Run("Server zone does not change the overdue count", func(t *testing.T) {
		svc, loanRepo, _, _, _, fineSvc, policy := newCirculationFixture()

		// Same instant as the fixture clock, seen from a zone east of UTC.
		// The due date is a UTC date straight from the database; counting
		// days across the two must still give 6, not 5.
		east := time.FixedZone("UTC+2", 2*60*60)
		svc.now = func() time.Time {
			return time.Date(2026, 3, 20, 12, 30, 0, 0, east)
		}
		utcToday := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

		loan := &domain.Loan{
			ID:      5,
			UserID:  1,
			BookID:  2,
			DueDate: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		}
		loanRepo.On("GetByID", ctx, int32(5)).Return(loan, nil)
		loanRepo.On("CloseWithCopyIncrement", ctx, int32(5), utcToday, "").Return(nil)
		policy.On("Snapshot", ctx).Return(domain.DefaultPolicy(), nil)

		twelve := decimal.RequireFromString("12.00")
		fineSvc.On("Assess", ctx, int32(5), int32(1), mock.MatchedBy(func(d decimal.Decimal) bool {
			return d.Equal(twelve)
		})).Return(&domain.Fine{ID: 9, LoanID: 5, UserID: 1, Amount: twelve, Status: domain.FineStatusUnpaid}, nil)

		outcome, err := svc.ReturnBook(ctx, librarian, 5, "", "")
		assert.NoError(t, err)
		assert.Equal(t, 6, outcome.DaysOverdue)
		assert.Equal(t, utcToday, *outcome.Loan.ReturnDate)
	})

	t.Run("Already returned", func(t *testing.T) {
		svc, loanRepo, _, _, _, _, _ := newCirculationFixture()

		returned := time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC)
		loan := &domain.Loan{ID: 5, UserID: 1, DueDate: today, ReturnDate: &returned}
		loanRepo.On("GetByID", ctx, int32(5)).Return(loan, nil)

		_, err := svc.ReturnBook(ctx, librarian, 5, "", "")
		assert.True(t, domain.IsKind(err, domain.ErrRecordNotFound))
	})
}

func TestCirculationService_GetLoan(t *testing.T) {
	ctx := context.Background()

	t.Run("Member reads own loan", func(t *testing.T) {
		svc, loanRepo, _, _, _, _, _ := newCirculationFixture()

		loanRepo.On("GetByID", ctx, int32(5)).Return(&domain.Loan{ID: 5, UserID: 1}, nil)

		loan, err := svc.GetLoan(ctx, member, 5)
		assert.NoError(t, err)
		assert.Equal(t, int32(5), loan.ID)
	})

	t.Run("Member cannot read another user's loan", func(t *testing.T) {
		svc, loanRepo, _, _, _, _, _ := newCirculationFixture()

		loanRepo.On("GetByID", ctx, int32(5)).Return(&domain.Loan{ID: 5, UserID: 42}, nil)

		_, err := svc.GetLoan(ctx, member, 5)
		assert.True(t, domain.IsKind(err, domain.ErrNotAuthorized))
	})
}
