package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"unilib-backend/internal/domain"
	"unilib-backend/internal/logger"
	"unilib-backend/internal/repository"
	"unilib-backend/internal/utils"
)

type circulationService struct {
	loanRepo repository.LoanRepository
	bookRepo repository.BookRepository
	userRepo repository.UserRepository
	noteRepo repository.NotificationRepository
	fineSvc  FineService
	policy   PolicyService
	now      func() time.Time
}

func NewCirculationService(
	loanRepo repository.LoanRepository,
	bookRepo repository.BookRepository,
	userRepo repository.UserRepository,
	noteRepo repository.NotificationRepository,
	fineSvc FineService,
	policy PolicyService,
) CirculationService {
	return &circulationService{
		loanRepo: loanRepo,
		bookRepo: bookRepo,
		userRepo: userRepo,
		noteRepo: noteRepo,
		fineSvc:  fineSvc,
		policy:   policy,
		now:      time.Now,
	}
}

// BorrowBook checks the eligibility chain in order (first failure wins) and
// creates the loan. The copy decrement and the insert run in one
// transaction inside the repository, so a racing borrow on the last copy
// fails there with NoCopiesAvailable instead of driving the count negative.
func (s *circulationService) BorrowBook(ctx context.Context, actor domain.Actor, userID, bookID int32, notes string) (*domain.Loan, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if domain.IsKind(err, domain.ErrRecordNotFound) {
			return nil, domain.NewValidationError(domain.ErrUserNotEligible, "user %d not found", userID)
		}
		return nil, err
	}
	if user.Status != domain.UserStatusActive {
		return nil, domain.NewValidationError(domain.ErrUserNotEligible, "user %d is not active", userID)
	}

	book, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		if domain.IsKind(err, domain.ErrRecordNotFound) {
			return nil, domain.NewValidationError(domain.ErrBookNotAvailable, "book %d not found", bookID)
		}
		return nil, err
	}
	if book.Status == domain.BookStatusMaintenance {
		return nil, domain.NewValidationError(domain.ErrBookNotAvailable, "book %d is under maintenance", bookID)
	}
	if book.AvailableCopies <= 0 {
		return nil, domain.NewValidationError(domain.ErrNoCopiesAvailable, "no copies of book %d available", bookID)
	}

	policy, err := s.policy.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	open, err := s.loanRepo.CountOpenByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if open >= int32(policy.MaxBooksPerUser) {
		return nil, domain.NewValidationError(domain.ErrBorrowLimitReached, "user %d already has %d books on loan (limit %d)", userID, open, policy.MaxBooksPerUser)
	}

	dup, err := s.loanRepo.HasOpenLoan(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, domain.NewValidationError(domain.ErrDuplicateBorrow, "user %d already has book %d on loan", userID, bookID)
	}

	today := s.today()
	loan := &domain.Loan{
		UserID:     userID,
		BookID:     bookID,
		BorrowDate: today,
		DueDate:    today.AddDate(0, 0, policy.BorrowingPeriodDays),
		Notes:      notes,
	}
	if err := s.loanRepo.CreateWithCopyDecrement(ctx, loan); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "book borrowed", "loan_id", loan.ID, "user_id", userID, "book_id", bookID, "due_date", utils.FormatDate(loan.DueDate))
	return loan, nil
}

// RequestRenewal only records intent for librarian follow-up; the due date
// never moves here. ExtendDueDate is the separate administrative operation
// that performs the actual change.
func (s *circulationService) RequestRenewal(ctx context.Context, actor domain.Actor, loanID int32) error {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return err
	}
	if !loan.Open() {
		return domain.NewValidationError(domain.ErrRenewalNotAllowed, "loan %d is already returned", loanID)
	}
	if !actor.IsLibrarian() && actor.UserID != loan.UserID {
		return domain.NewValidationError(domain.ErrNotAuthorized, "loan %d does not belong to user %d", loanID, actor.UserID)
	}
	if loan.Urgency(s.today(), 0) == domain.LoanUrgencyOverdue {
		return domain.NewValidationError(domain.ErrRenewalNotAllowed, "loan %d is overdue and cannot be renewed", loanID)
	}

	note := &domain.Notification{
		UserID:  loan.UserID,
		Title:   "Renewal requested",
		Message: fmt.Sprintf("user %d requested renewal of loan %d (due %s)", loan.UserID, loan.ID, utils.FormatDate(loan.DueDate)),
		Attributes: map[string]string{
			"type":    "RENEWAL_REQUEST",
			"loan_id": fmt.Sprintf("%d", loan.ID),
		},
	}
	return s.noteRepo.Create(ctx, note)
}

func (s *circulationService) ExtendDueDate(ctx context.Context, actor domain.Actor, loanID int32, newDueDate time.Time) (*domain.Loan, error) {
	if !actor.IsLibrarian() {
		return nil, domain.NewValidationError(domain.ErrNotAuthorized, "extending a due date requires librarian role")
	}

	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if !loan.Open() {
		return nil, domain.NewValidationError(domain.ErrRecordNotFound, "loan %d is already returned", loanID)
	}
	if !newDueDate.After(s.today()) {
		return nil, domain.NewValidationError(domain.ErrInvalidDueDate, "new due date %s must be in the future", utils.FormatDate(newDueDate))
	}

	if err := s.loanRepo.UpdateDueDate(ctx, loanID, newDueDate); err != nil {
		return nil, err
	}
	loan.DueDate = newDueDate

	logger.InfoContext(ctx, "due date extended", "loan_id", loanID, "new_due_date", utils.FormatDate(newDueDate), "librarian_id", actor.UserID)
	return loan, nil
}

// ReturnBook closes the loan, credits the copy back and assesses a fine
// when the return is late. The fine amount is computed from the policy in
// effect right now, not the one in effect when the loan was created.
func (s *circulationService) ReturnBook(ctx context.Context, actor domain.Actor, loanID int32, condition, notes string) (*domain.ReturnOutcome, error) {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if !loan.Open() {
		return nil, domain.NewValidationError(domain.ErrRecordNotFound, "loan %d is already returned", loanID)
	}

	today := s.today()
	if err := s.loanRepo.CloseWithCopyIncrement(ctx, loanID, today, returnNotes(condition, notes)); err != nil {
		if domain.IsIntegrityError(err) {
			logger.ErrorContext(ctx, "return aborted on integrity violation", "loan_id", loanID, "book_id", loan.BookID, "error", err)
		}
		return nil, err
	}
	loan.ReturnDate = &today

	outcome := &domain.ReturnOutcome{
		Loan:        loan,
		DaysOverdue: utils.DaysOverdue(loan.DueDate, today),
	}

	if outcome.DaysOverdue > 0 {
		policy, err := s.policy.Snapshot(ctx)
		if err != nil {
			return nil, err
		}
		amount := utils.CalculateFine(outcome.DaysOverdue, policy.GracePeriodDays, policy.FinePerDay, policy.MaxFineAmount)
		if amount.IsPositive() {
			fine, err := s.fineSvc.Assess(ctx, loan.ID, loan.UserID, amount)
			if err != nil {
				return nil, err
			}
			outcome.FineCreated = true
			outcome.FineAmount = fine.Amount
		}
	}

	logger.InfoContext(ctx, "book returned", "loan_id", loanID, "days_overdue", outcome.DaysOverdue, "fine_created", outcome.FineCreated)
	return outcome, nil
}

func (s *circulationService) GetLoan(ctx context.Context, actor domain.Actor, loanID int32) (*domain.Loan, error) {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if !actor.IsLibrarian() && actor.UserID != loan.UserID {
		return nil, domain.NewValidationError(domain.ErrNotAuthorized, "loan %d does not belong to user %d", loanID, actor.UserID)
	}
	return loan, nil
}

func (s *circulationService) ListUserLoans(ctx context.Context, actor domain.Actor, userID int32, openOnly bool, page, pageSize int32) ([]domain.Loan, int32, error) {
	if !actor.IsLibrarian() && actor.UserID != userID {
		return nil, 0, domain.NewValidationError(domain.ErrNotAuthorized, "cannot list loans of another user")
	}
	return s.loanRepo.ListByUser(ctx, userID, openOnly, page, pageSize)
}

func (s *circulationService) ListPending(ctx context.Context, page, pageSize int32) ([]domain.Loan, int32, error) {
	policy, err := s.policy.Snapshot(ctx)
	if err != nil {
		return nil, 0, err
	}
	return s.loanRepo.ListPending(ctx, s.today(), policy.DueSoonDays, page, pageSize)
}

// today truncates the clock to a UTC calendar date; the database stores
// dates in UTC and all due-date math works in whole days.
func (s *circulationService) today() time.Time {
	return utils.TruncateToDay(s.now().UTC())
}

func returnNotes(condition, notes string) string {
	var parts []string
	if condition != "" {
		parts = append(parts, "returned in condition: "+condition)
	}
	if notes != "" {
		parts = append(parts, notes)
	}
	return strings.Join(parts, "; ")
}
