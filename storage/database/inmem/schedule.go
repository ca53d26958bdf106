package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/projeval/projeval/core/schedule"
)

type scheduleRepository struct {
	db *scheduleTable
}

var _ schedule.Repository = (*scheduleRepository)(nil) // interface compliance check

func NewScheduleRepository(db *DB) schedule.Repository {
	return &scheduleRepository{db: db.schedule}
}

func (repo *scheduleRepository) CountSchedules(ctx context.Context) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return len(repo.db.table), nil
}

func (repo *scheduleRepository) CreateSchedule(ctx context.Context, s schedule.Schedule) (schedule.Schedule, error) {
	repo.db.Lock()
	defer repo.db.Unlock()
	return repo.create(s)
}

// create inserts without locking; callers hold the table lock.
func (repo *scheduleRepository) create(s schedule.Schedule) (schedule.Schedule, error) {
	s.Key = uuid.New().String()
	repo.db.table[s.Key] = &s
	return s, nil
}

func (repo *scheduleRepository) QueryAllSchedules(ctx context.Context) ([]schedule.Schedule, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	schedules := make([]schedule.Schedule, 0, len(repo.db.table))
	for _, s := range repo.db.table {
		schedules = append(schedules, *s)
	}
	sort.Slice(schedules, func(i, j int) bool { return schedules[i].CreatedAt.Before(schedules[j].CreatedAt) })
	return schedules, nil
}

func (repo *scheduleRepository) GetScheduleByID(ctx context.Context, scheduleID string) (schedule.Schedule, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, s := range repo.db.table {
		if s.ScheduleID == scheduleID {
			return *s, nil
		}
	}
	return schedule.Schedule{}, schedule.ErrNotFound
}
