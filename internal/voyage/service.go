package voyage

import (
	"context"
	"log/slog"
	"time"

	apperrors "github.com/AsunaPahlo/armada-web/internal/shared/errors"
)

type Service struct {
	repo   *Repository
	logger *slog.Logger
}

func NewService(repo *Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Record stores one completed voyage. The gil value is summed from loot when
// the producer does not report a total.
func (s *Service) Record(ctx context.Context, v *Voyage) error {
	if v.SubmarineName == "" {
		return apperrors.Validation("submarine name is required")
	}
	if v.ReturnedAt.IsZero() {
		v.ReturnedAt = time.Now().UTC()
	}
	if v.RecordedAt.IsZero() {
		v.RecordedAt = time.Now().UTC()
	}

	if v.GilValue == 0 {
		for _, item := range v.Loot {
			v.GilValue += item.Value * item.Quantity
		}
	}

	if err := s.repo.InsertVoyage(ctx, v); err != nil {
		return apperrors.WrapInternal("recording voyage", err)
	}

	s.logger.Debug("Voyage recorded",
		"submarine", v.SubmarineName,
		"route", v.RouteName,
		"gil", v.GilValue,
	)
	return nil
}

func (s *Service) Recent(ctx context.Context, fcID string, limit int) ([]Voyage, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	voyages, err := s.repo.RecentVoyages(ctx, fcID, limit)
	if err != nil {
		return nil, apperrors.WrapInternal("loading voyages", err)
	}
	return voyages, nil
}

// RouteIncomes summarizes earnings per route over the past days.
func (s *Service) RouteIncomes(ctx context.Context, days int) ([]RouteIncome, error) {
	if days <= 0 {
		days = 7
	}

	incomes, err := s.repo.RouteIncomes(ctx, time.Now().UTC().AddDate(0, 0, -days))
	if err != nil {
		return nil, apperrors.WrapInternal("loading route incomes", err)
	}
	return incomes, nil
}
