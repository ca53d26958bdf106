package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/projeval/projeval/core/assignment"
	"github.com/projeval/projeval/core/rubric"
	"github.com/projeval/projeval/core/schedule"
)

type assignmentRepository struct {
	db        *DB
	rubrics   *rubricRepository
	schedules *scheduleRepository
}

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(db *DB) assignment.Repository {
	return &assignmentRepository{
		db:        db,
		rubrics:   &rubricRepository{db: db.rubric},
		schedules: &scheduleRepository{db: db.schedule},
	}
}

func (repo *assignmentRepository) exists(personRef, duty, typ, subType string) bool {
	for _, a := range repo.db.assignment.table {
		if a.PersonRef == personRef && a.Duty == duty && a.Type == typ && a.SubType == subType {
			return true
		}
	}
	return false
}

func (repo *assignmentRepository) AssignmentExists(ctx context.Context, personRef, duty, typ, subType string) (bool, error) {
	repo.db.assignment.RLock()
	defer repo.db.assignment.RUnlock()
	return repo.exists(personRef, duty, typ, subType), nil
}

func (repo *assignmentRepository) CountAssignments(ctx context.Context) (int, error) {
	repo.db.assignment.RLock()
	defer repo.db.assignment.RUnlock()
	return len(repo.db.assignment.table), nil
}

func (repo *assignmentRepository) QueryAllAssignments(ctx context.Context) ([]assignment.Assignment, error) {
	repo.db.assignment.RLock()
	defer repo.db.assignment.RUnlock()

	assignments := make([]assignment.Assignment, 0, len(repo.db.assignment.table))
	for _, a := range repo.db.assignment.table {
		assignments = append(assignments, *a)
	}
	sort.Slice(assignments, func(i, j int) bool {
		return assignments[i].CreatedAt.Before(assignments[j].CreatedAt)
	})
	return assignments, nil
}

// CreateScheduleAssignment inserts the marker and the schedule under both
// table locks: the write is atomic by construction, no partial state is
// ever observable.
func (repo *assignmentRepository) CreateScheduleAssignment(
	ctx context.Context, a assignment.Assignment, s schedule.Schedule,
) (assignment.Assignment, schedule.Schedule, error) {
	repo.db.assignment.Lock()
	defer repo.db.assignment.Unlock()
	repo.db.schedule.Lock()
	defer repo.db.schedule.Unlock()

	if repo.exists(a.PersonRef, a.Duty, a.Type, a.SubType) {
		return assignment.Assignment{}, schedule.Schedule{}, assignment.ErrDuplicate
	}

	s, err := repo.schedules.create(s)
	if err != nil {
		return assignment.Assignment{}, schedule.Schedule{}, err
	}
	a.Key = uuid.New().String()
	repo.db.assignment.table[a.Key] = &a
	return a, s, nil
}

// CreateMarkingAssignment inserts the marker and the rubric under both
// table locks.
func (repo *assignmentRepository) CreateMarkingAssignment(
	ctx context.Context, a assignment.Assignment, r rubric.Rubric,
) (assignment.Assignment, rubric.Rubric, error) {
	repo.db.assignment.Lock()
	defer repo.db.assignment.Unlock()
	repo.db.rubric.Lock()
	defer repo.db.rubric.Unlock()

	if repo.exists(a.PersonRef, a.Duty, a.Type, a.SubType) {
		return assignment.Assignment{}, rubric.Rubric{}, assignment.ErrDuplicate
	}

	r, err := repo.rubrics.create(r)
	if err != nil {
		return assignment.Assignment{}, rubric.Rubric{}, err
	}
	a.Key = uuid.New().String()
	repo.db.assignment.table[a.Key] = &a
	return a, r, nil
}

func (repo *assignmentRepository) SupervisorExists(ctx context.Context, email string) (bool, error) {
	repo.db.assignment.RLock()
	defer repo.db.assignment.RUnlock()

	for _, s := range repo.db.assignment.supervisors {
		if s.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (repo *assignmentRepository) AddSupervisor(ctx context.Context, s assignment.Supervisor) (assignment.Supervisor, error) {
	repo.db.assignment.Lock()
	defer repo.db.assignment.Unlock()

	s.Key = uuid.New().String()
	repo.db.assignment.supervisors[s.Key] = &s
	return s, nil
}

func (repo *assignmentRepository) QuerySupervisors(ctx context.Context) ([]assignment.Supervisor, error) {
	repo.db.assignment.RLock()
	defer repo.db.assignment.RUnlock()

	supervisors := make([]assignment.Supervisor, 0, len(repo.db.assignment.supervisors))
	for _, s := range repo.db.assignment.supervisors {
		supervisors = append(supervisors, *s)
	}
	sort.Slice(supervisors, func(i, j int) bool { return supervisors[i].AddedAt.Before(supervisors[j].AddedAt) })
	return supervisors, nil
}

func (repo *assignmentRepository) MemberExists(ctx context.Context, email string) (bool, error) {
	repo.db.assignment.RLock()
	defer repo.db.assignment.RUnlock()

	for _, m := range repo.db.assignment.members {
		if m.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (repo *assignmentRepository) AddMember(ctx context.Context, m assignment.Member) (assignment.Member, error) {
	repo.db.assignment.Lock()
	defer repo.db.assignment.Unlock()

	m.Key = uuid.New().String()
	repo.db.assignment.members[m.Key] = &m
	return m, nil
}

func (repo *assignmentRepository) QueryMembers(ctx context.Context) ([]assignment.Member, error) {
	repo.db.assignment.RLock()
	defer repo.db.assignment.RUnlock()

	members := make([]assignment.Member, 0, len(repo.db.assignment.members))
	for _, m := range repo.db.assignment.members {
		members = append(members, *m)
	}
	sort.Slice(members, func(i, j int) bool { return members[i].AddedAt.Before(members[j].AddedAt) })
	return members, nil
}
