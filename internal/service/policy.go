package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/shopspring/decimal"

	"unilib-backend/internal/domain"
	"unilib-backend/internal/logger"
	"unilib-backend/internal/repository"
)

type policyService struct {
	settingRepo repository.SettingRepository
}

func NewPolicyService(settingRepo repository.SettingRepository) PolicyService {
	return &policyService{settingRepo: settingRepo}
}

// Snapshot resolves the current policy. Every operation takes a snapshot at
// its start, so a mid-operation settings change cannot produce mixed policy.
func (s *policyService) Snapshot(ctx context.Context) (domain.Policy, error) {
	p := domain.DefaultPolicy()

	if v, ok, err := s.intSetting(ctx, domain.SettingBorrowingPeriodDays); err != nil {
		return p, err
	} else if ok {
		p.BorrowingPeriodDays = v
	}
	if v, ok, err := s.intSetting(ctx, domain.SettingMaxBooksPerUser); err != nil {
		return p, err
	} else if ok {
		p.MaxBooksPerUser = v
	}
	if v, ok, err := s.decimalSetting(ctx, domain.SettingFinePerDay); err != nil {
		return p, err
	} else if ok {
		p.FinePerDay = v
	}
	if v, ok, err := s.intSetting(ctx, domain.SettingGracePeriodDays); err != nil {
		return p, err
	} else if ok {
		p.GracePeriodDays = v
	}
	if v, ok, err := s.decimalSetting(ctx, domain.SettingMaxFineAmount); err != nil {
		return p, err
	} else if ok {
		p.MaxFineAmount = v
	}
	if v, ok, err := s.intSetting(ctx, domain.SettingDueSoonDays); err != nil {
		return p, err
	} else if ok {
		p.DueSoonDays = v
	}

	return p, nil
}

func (s *policyService) intSetting(ctx context.Context, key string) (int, bool, error) {
	raw, err := s.settingRepo.Get(ctx, key)
	if errors.Is(err, repository.ErrSettingNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		// A malformed value falls back to the default rather than
		// blocking circulation.
		logger.Warn("ignoring malformed setting", "key", key, "value", raw)
		return 0, false, nil
	}
	return v, true, nil
}

func (s *policyService) decimalSetting(ctx context.Context, key string) (decimal.Decimal, bool, error) {
	raw, err := s.settingRepo.Get(ctx, key)
	if errors.Is(err, repository.ErrSettingNotFound) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, err
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		logger.Warn("ignoring malformed setting", "key", key, "value", raw)
		return decimal.Zero, false, nil
	}
	return v, true, nil
}

func (s *policyService) UpdateSetting(ctx context.Context, actor domain.Actor, key, value string) error {
	if !actor.IsLibrarian() {
		return domain.NewValidationError(domain.ErrNotAuthorized, "updating settings requires librarian role")
	}

	switch key {
	case domain.SettingBorrowingPeriodDays, domain.SettingMaxBooksPerUser, domain.SettingGracePeriodDays, domain.SettingDueSoonDays:
		v, err := strconv.Atoi(value)
		if err != nil || v < 0 {
			return domain.NewValidationError(domain.ErrInvalidInput, "%s must be a non-negative integer", key)
		}
	case domain.SettingFinePerDay, domain.SettingMaxFineAmount:
		v, err := decimal.NewFromString(value)
		if err != nil || v.IsNegative() {
			return domain.NewValidationError(domain.ErrInvalidInput, "%s must be a non-negative amount", key)
		}
	default:
		return domain.NewValidationError(domain.ErrInvalidInput, "unknown setting %q", key)
	}

	return s.settingRepo.Set(ctx, key, value)
}

func (s *policyService) ListSettings(ctx context.Context) ([]domain.Setting, error) {
	return s.settingRepo.List(ctx)
}
