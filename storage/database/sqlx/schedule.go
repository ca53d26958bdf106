package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/projeval/projeval/core/schedule"
)

type dbSchedule struct {
	Key          string         `db:"key"`
	ScheduleID   string         `db:"schedule_id"`
	GroupID      string         `db:"group_id"`
	Date         time.Time      `db:"date"`
	TimeDuration string         `db:"time_duration"`
	Location     string         `db:"location"`
	Topic        string         `db:"topic"`
	Examiners    pq.StringArray `db:"examiners"`
	CreatedAt    time.Time      `db:"created_at"`
}

func (row dbSchedule) toSchedule() schedule.Schedule {
	return schedule.Schedule{
		Key:          row.Key,
		ScheduleID:   row.ScheduleID,
		GroupID:      row.GroupID,
		Date:         row.Date,
		TimeDuration: row.TimeDuration,
		Location:     row.Location,
		Topic:        row.Topic,
		Examiners:    row.Examiners,
		CreatedAt:    row.CreatedAt,
	}
}

type scheduleRepository struct {
	db *sqlx.DB
}

var _ schedule.Repository = (*scheduleRepository)(nil) // interface compliance check

func NewScheduleRepository(db *sqlx.DB) schedule.Repository {
	return &scheduleRepository{db: db}
}

func (repo *scheduleRepository) CountSchedules(ctx context.Context) (int, error) {
	var count int
	if err := repo.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM schedule"); err != nil {
		return 0, storageErr("counting schedules", err)
	}
	return count, nil
}

func (repo *scheduleRepository) CreateSchedule(ctx context.Context, s schedule.Schedule) (schedule.Schedule, error) {
	s.Key = uuid.New().String()
	_, err := repo.db.ExecContext(ctx, insertScheduleQuery,
		s.Key, s.ScheduleID, s.GroupID, s.Date, s.TimeDuration, s.Location, s.Topic,
		pq.StringArray(s.Examiners), s.CreatedAt,
	)
	if err != nil {
		return schedule.Schedule{}, storageErr("creating schedule", err)
	}
	return s, nil
}

const insertScheduleQuery = `
	INSERT INTO schedule (key, schedule_id, group_id, date, time_duration, location, topic, examiners, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

func (repo *scheduleRepository) QueryAllSchedules(ctx context.Context) ([]schedule.Schedule, error) {
	var rows []dbSchedule
	err := repo.db.SelectContext(ctx, &rows, "SELECT * FROM schedule ORDER BY created_at")
	if err != nil {
		return nil, storageErr("querying schedules", err)
	}

	schedules := make([]schedule.Schedule, 0, len(rows))
	for _, row := range rows {
		schedules = append(schedules, row.toSchedule())
	}
	return schedules, nil
}

func (repo *scheduleRepository) GetScheduleByID(ctx context.Context, scheduleID string) (schedule.Schedule, error) {
	var row dbSchedule
	err := repo.db.GetContext(ctx, &row, "SELECT * FROM schedule WHERE schedule_id = $1", scheduleID)
	if err == sql.ErrNoRows {
		return schedule.Schedule{}, schedule.ErrNotFound
	}
	if err != nil {
		return schedule.Schedule{}, storageErr("getting schedule", err)
	}
	return row.toSchedule(), nil
}
