package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"unilib-backend/internal/domain"
	"unilib-backend/internal/repository"
	"unilib-backend/internal/utils"
)

// reportService only reads; it never mutates circulation state.
type reportService struct {
	reportRepo repository.ReportRepository
	policy     PolicyService
	now        func() time.Time
}

func NewReportService(reportRepo repository.ReportRepository, policy PolicyService) ReportService {
	return &reportService{
		reportRepo: reportRepo,
		policy:     policy,
		now:        time.Now,
	}
}

func (s *reportService) DailySummary(ctx context.Context, from, to time.Time) (*domain.DailySummary, error) {
	if to.Before(from) {
		return nil, domain.NewValidationError(domain.ErrInvalidInput, "range end precedes range start")
	}

	days, err := s.reportRepo.DailyActivity(ctx, from, to)
	if err != nil {
		return nil, err
	}
	current, err := s.reportRepo.CurrentTotals(ctx, s.today())
	if err != nil {
		return nil, err
	}
	// Past days come from the nightly snapshots, not from replaying loans.
	history, err := s.reportRepo.SnapshotHistory(ctx, from, to)
	if err != nil {
		return nil, err
	}

	return &domain.DailySummary{
		From:    from,
		To:      to,
		Days:    days,
		Current: *current,
		History: history,
	}, nil
}

func (s *reportService) CurrentBorrowings(ctx context.Context, department string, categoryID int32) ([]domain.BorrowingRow, error) {
	policy, err := s.policy.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.reportRepo.CurrentBorrowings(ctx, s.today(), policy.DueSoonDays, department, categoryID)
	if err != nil {
		return nil, err
	}
	return projectPotentialFines(rows, policy.FinePerDay), nil
}

func (s *reportService) OverdueBooks(ctx context.Context, department string, categoryID int32) ([]domain.BorrowingRow, error) {
	policy, err := s.policy.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.reportRepo.OverdueLoans(ctx, s.today(), department, categoryID)
	if err != nil {
		return nil, err
	}
	return projectPotentialFines(rows, policy.FinePerDay), nil
}

// projectPotentialFines annotates rows with what the fine would be if the
// book came back today. This is a projection from current policy, not an
// assessed fine.
func projectPotentialFines(rows []domain.BorrowingRow, finePerDay decimal.Decimal) []domain.BorrowingRow {
	for i := range rows {
		if rows[i].DaysOverdue > 0 {
			rows[i].PotentialFine = finePerDay.Mul(decimal.NewFromInt(int64(rows[i].DaysOverdue)))
		}
	}
	return rows
}

func (s *reportService) PopularBooks(ctx context.Context, from, to time.Time, limit int32) ([]domain.PopularBook, error) {
	if to.Before(from) {
		return nil, domain.NewValidationError(domain.ErrInvalidInput, "range end precedes range start")
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return s.reportRepo.PopularBooks(ctx, from, to, limit)
}

func (s *reportService) UserActivity(ctx context.Context, from, to time.Time) ([]domain.UserActivity, []domain.DepartmentActivity, error) {
	if to.Before(from) {
		return nil, nil, domain.NewValidationError(domain.ErrInvalidInput, "range end precedes range start")
	}

	users, err := s.reportRepo.UserActivity(ctx, from, to, s.today())
	if err != nil {
		return nil, nil, err
	}
	departments, err := s.reportRepo.DepartmentActivity(ctx, from, to, s.today())
	if err != nil {
		return nil, nil, err
	}
	return users, departments, nil
}

func (s *reportService) FinesSummary(ctx context.Context) (*domain.FinesSummary, error) {
	return s.reportRepo.FinesSummary(ctx)
}

func (s *reportService) CollectionStatus(ctx context.Context) ([]domain.CategoryUtilization, error) {
	return s.reportRepo.CollectionStatus(ctx)
}

func (s *reportService) today() time.Time {
	return utils.TruncateToDay(s.now().UTC())
}
