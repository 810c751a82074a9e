package service

import (
	"context"

	"unilib-backend/internal/domain"
	"unilib-backend/internal/logger"
	"unilib-backend/internal/repository"
)

type membershipService struct {
	userRepo repository.UserRepository
	loanRepo repository.LoanRepository
}

func NewMembershipService(userRepo repository.UserRepository, loanRepo repository.LoanRepository) MembershipService {
	return &membershipService{
		userRepo: userRepo,
		loanRepo: loanRepo,
	}
}

func (s *membershipService) RegisterUser(ctx context.Context, actor domain.Actor, user *domain.User) error {
	if !actor.IsLibrarian() {
		return domain.NewValidationError(domain.ErrNotAuthorized, "registering a user requires librarian role")
	}
	if user.IDNumber == "" || user.Name == "" {
		return domain.NewValidationError(domain.ErrInvalidInput, "id number and name are required")
	}
	if user.Role != domain.UserRoleStudent && user.Role != domain.UserRoleStaff {
		return domain.NewValidationError(domain.ErrInvalidInput, "role must be STUDENT or STAFF")
	}

	user.Status = domain.UserStatusActive
	return s.userRepo.Create(ctx, user)
}

func (s *membershipService) GetUser(ctx context.Context, id int32) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *membershipService) UpdateUser(ctx context.Context, actor domain.Actor, user *domain.User) error {
	if !actor.IsLibrarian() {
		return domain.NewValidationError(domain.ErrNotAuthorized, "updating a user requires librarian role")
	}
	if user.IDNumber == "" || user.Name == "" {
		return domain.NewValidationError(domain.ErrInvalidInput, "id number and name are required")
	}
	return s.userRepo.Update(ctx, user)
}

// DeactivateUser refuses while the user still holds open loans.
func (s *membershipService) DeactivateUser(ctx context.Context, actor domain.Actor, id int32) error {
	if !actor.IsLibrarian() {
		return domain.NewValidationError(domain.ErrNotAuthorized, "deactivating a user requires librarian role")
	}

	open, err := s.loanRepo.CountOpenByUser(ctx, id)
	if err != nil {
		return err
	}
	if open > 0 {
		return domain.NewValidationError(domain.ErrUserNotEligible, "user %d still has %d books on loan", id, open)
	}

	logger.InfoContext(ctx, "user deactivated", "user_id", id, "librarian_id", actor.UserID)
	return s.userRepo.SetStatus(ctx, id, domain.UserStatusInactive)
}

func (s *membershipService) ReactivateUser(ctx context.Context, actor domain.Actor, id int32) error {
	if !actor.IsLibrarian() {
		return domain.NewValidationError(domain.ErrNotAuthorized, "reactivating a user requires librarian role")
	}
	return s.userRepo.SetStatus(ctx, id, domain.UserStatusActive)
}

func (s *membershipService) ListUsers(ctx context.Context, department string, page, pageSize int32) ([]domain.User, int32, error) {
	return s.userRepo.List(ctx, department, normalizePage(page), normalizePageSize(pageSize))
}

func (s *membershipService) SearchUsers(ctx context.Context, query string, page, pageSize int32) ([]domain.User, int32, error) {
	return s.userRepo.Search(ctx, query, normalizePage(page), normalizePageSize(pageSize))
}
