package service

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"unilib-backend/internal/domain"
	"unilib-backend/internal/logger"
	"unilib-backend/internal/repository"
)

type fineService struct {
	fineRepo repository.FineRepository
	now      func() time.Time
}

func NewFineService(fineRepo repository.FineRepository) FineService {
	return &fineService{
		fineRepo: fineRepo,
		now:      time.Now,
	}
}

// Assess creates an unpaid fine. The amount is fixed here and never
// recomputed, even if the per-day rate changes later.
func (s *fineService) Assess(ctx context.Context, loanID, userID int32, amount decimal.Decimal) (*domain.Fine, error) {
	if !amount.IsPositive() {
		return nil, domain.NewValidationError(domain.ErrInvalidInput, "fine amount must be positive, got %s", amount)
	}

	fine := &domain.Fine{
		LoanID:    loanID,
		UserID:    userID,
		Amount:    amount,
		Status:    domain.FineStatusUnpaid,
		CreatedAt: s.now(),
	}
	if err := s.fineRepo.Create(ctx, fine); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "fine assessed", "fine_id", fine.ID, "loan_id", loanID, "user_id", userID, "amount", amount.StringFixed(2))
	return fine, nil
}

func (s *fineService) MarkPaid(ctx context.Context, actor domain.Actor, fineID int32, method, notes string) (*domain.Fine, error) {
	if !actor.IsLibrarian() {
		return nil, domain.NewValidationError(domain.ErrNotAuthorized, "recording a payment requires librarian role")
	}
	if method == "" {
		return nil, domain.NewValidationError(domain.ErrInvalidInput, "payment method is required")
	}

	// The guarded update is the authority on payability; a fine that
	// reached a terminal state between the read and the write still fails.
	updated, err := s.fineRepo.MarkPaid(ctx, fineID, s.now(), method, notes)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, s.notPayable(ctx, fineID)
	}

	logger.InfoContext(ctx, "fine paid", "fine_id", fineID, "method", method, "librarian_id", actor.UserID)
	return s.fineRepo.GetByID(ctx, fineID)
}

func (s *fineService) Waive(ctx context.Context, actor domain.Actor, fineID int32, reason string) (*domain.Fine, error) {
	if !actor.IsLibrarian() {
		return nil, domain.NewValidationError(domain.ErrNotAuthorized, "waiving a fine requires librarian role")
	}
	if strings.TrimSpace(reason) == "" {
		return nil, domain.NewValidationError(domain.ErrWaiveReasonRequired, "a waive reason is required")
	}

	updated, err := s.fineRepo.Waive(ctx, fineID, s.now(), reason)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, s.notPayable(ctx, fineID)
	}

	logger.InfoContext(ctx, "fine waived", "fine_id", fineID, "librarian_id", actor.UserID)
	return s.fineRepo.GetByID(ctx, fineID)
}

// notPayable distinguishes a missing fine from one already in a terminal
// state.
func (s *fineService) notPayable(ctx context.Context, fineID int32) error {
	fine, err := s.fineRepo.GetByID(ctx, fineID)
	if err != nil {
		return err
	}
	return domain.NewValidationError(domain.ErrFineNotPayable, "fine %d is already %s", fineID, strings.ToLower(string(fine.Status)))
}

func (s *fineService) GetFine(ctx context.Context, fineID int32) (*domain.Fine, error) {
	return s.fineRepo.GetByID(ctx, fineID)
}

func (s *fineService) ListUserFines(ctx context.Context, userID int32, status domain.FineStatus, page, pageSize int32) ([]domain.Fine, int32, error) {
	return s.fineRepo.ListByUser(ctx, userID, status, page, pageSize)
}

func (s *fineService) OutstandingTotal(ctx context.Context, userID int32) (decimal.Decimal, error) {
	return s.fineRepo.OutstandingTotal(ctx, userID)
}
