package schedule

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("schedule not found")

type (
	Repository interface {
		CountSchedules(ctx context.Context) (int, error)
		CreateSchedule(ctx context.Context, s Schedule) (Schedule, error)
		QueryAllSchedules(ctx context.Context) ([]Schedule, error)
		GetScheduleByID(ctx context.Context, scheduleID string) (Schedule, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Count(ctx context.Context) (int, error) {
	return svc.repo.CountSchedules(ctx)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Schedule, error) {
	return svc.repo.QueryAllSchedules(ctx)
}

func (svc *Service) GetByID(ctx context.Context, scheduleID string) (Schedule, error) {
	return svc.repo.GetScheduleByID(ctx, scheduleID)
}
