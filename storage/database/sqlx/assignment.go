package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/volatiletech/null/v8"

	"github.com/projeval/projeval/core"
	"github.com/projeval/projeval/core/assignment"
	"github.com/projeval/projeval/core/rubric"
	"github.com/projeval/projeval/core/schedule"
)

type dbAssignment struct {
	Key        string    `db:"key"`
	PersonRef  string    `db:"person_ref"`
	Duty       string    `db:"duty"`
	Type       string    `db:"type"`
	SubType    string    `db:"sub_type"`
	PayloadRef string    `db:"payload_ref"`
	CreatedAt  time.Time `db:"created_at"`
}

func (row dbAssignment) toAssignment() assignment.Assignment {
	return assignment.Assignment{
		Key:        row.Key,
		PersonRef:  row.PersonRef,
		Duty:       row.Duty,
		Type:       row.Type,
		SubType:    row.SubType,
		PayloadRef: row.PayloadRef,
		CreatedAt:  row.CreatedAt,
	}
}

type dbSupervisor struct {
	Key       string         `db:"key"`
	PersonRef string         `db:"person_ref"`
	FirstName string         `db:"first_name"`
	LastName  string         `db:"last_name"`
	Email     string         `db:"email"`
	ContactNo string         `db:"contact_no"`
	StaffPost null.String    `db:"staff_post"`
	Roles     pq.StringArray `db:"roles"`
	Eligible  bool           `db:"eligible"`
	AddedAt   time.Time      `db:"added_at"`
}

func (row dbSupervisor) toSupervisor() assignment.Supervisor {
	return assignment.Supervisor{
		Key:       row.Key,
		PersonRef: row.PersonRef,
		FirstName: row.FirstName,
		LastName:  row.LastName,
		Email:     row.Email,
		ContactNo: row.ContactNo,
		StaffPost: row.StaffPost,
		Roles:     row.Roles,
		Eligible:  row.Eligible,
		AddedAt:   row.AddedAt,
	}
}

type dbMember struct {
	Key       string         `db:"key"`
	PersonRef string         `db:"person_ref"`
	FirstName string         `db:"first_name"`
	LastName  string         `db:"last_name"`
	Email     string         `db:"email"`
	ContactNo string         `db:"contact_no"`
	Roles     pq.StringArray `db:"roles"`
	AddedAt   time.Time      `db:"added_at"`
}

func (row dbMember) toMember() assignment.Member {
	return assignment.Member{
		Key:       row.Key,
		PersonRef: row.PersonRef,
		FirstName: row.FirstName,
		LastName:  row.LastName,
		Email:     row.Email,
		ContactNo: row.ContactNo,
		Roles:     row.Roles,
		AddedAt:   row.AddedAt,
	}
}

type assignmentRepository struct {
	db *sqlx.DB
}

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(db *sqlx.DB) assignment.Repository {
	return &assignmentRepository{db: db}
}

func (repo *assignmentRepository) AssignmentExists(ctx context.Context, personRef, duty, typ, subType string) (bool, error) {
	var exists bool
	err := repo.db.GetContext(ctx, &exists,
		`SELECT EXISTS (
			SELECT 1 FROM assignment
			WHERE person_ref = $1 AND duty = $2 AND type = $3 AND sub_type = $4
		)`,
		personRef, duty, typ, subType,
	)
	if err != nil {
		return false, storageErr("checking assignment existence", err)
	}
	return exists, nil
}

func (repo *assignmentRepository) CountAssignments(ctx context.Context) (int, error) {
	var count int
	if err := repo.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM assignment"); err != nil {
		return 0, storageErr("counting assignments", err)
	}
	return count, nil
}

func (repo *assignmentRepository) QueryAllAssignments(ctx context.Context) ([]assignment.Assignment, error) {
	var rows []dbAssignment
	err := repo.db.SelectContext(ctx, &rows, "SELECT * FROM assignment ORDER BY created_at")
	if err != nil {
		return nil, storageErr("querying assignments", err)
	}

	assignments := make([]assignment.Assignment, 0, len(rows))
	for _, row := range rows {
		assignments = append(assignments, row.toAssignment())
	}
	return assignments, nil
}

const insertAssignmentQuery = `
	INSERT INTO assignment (key, person_ref, duty, type, sub_type, payload_ref, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

// CreateScheduleAssignment writes the marker and the schedule in one
// transaction; either both rows exist afterwards or neither does. The
// unique constraint on the duty tuple catches concurrent duplicates.
func (repo *assignmentRepository) CreateScheduleAssignment(
	ctx context.Context, a assignment.Assignment, s schedule.Schedule,
) (assignment.Assignment, schedule.Schedule, error) {
	s.Key = uuid.New().String()
	a.Key = uuid.New().String()

	err := repo.atomically(ctx, "creating schedule assignment", func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, insertScheduleQuery,
			s.Key, s.ScheduleID, s.GroupID, s.Date, s.TimeDuration, s.Location, s.Topic,
			pq.StringArray(s.Examiners), s.CreatedAt,
		); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, insertAssignmentQuery,
			a.Key, a.PersonRef, a.Duty, a.Type, a.SubType, a.PayloadRef, a.CreatedAt)
		return err
	})
	if err != nil {
		return assignment.Assignment{}, schedule.Schedule{}, err
	}
	return a, s, nil
}

// CreateMarkingAssignment writes the marker and the rubric in one
// transaction.
func (repo *assignmentRepository) CreateMarkingAssignment(
	ctx context.Context, a assignment.Assignment, r rubric.Rubric,
) (assignment.Assignment, rubric.Rubric, error) {
	criteria, err := marshalCriteria(r.Criteria)
	if err != nil {
		return assignment.Assignment{}, rubric.Rubric{}, err
	}
	r.Key = uuid.New().String()
	a.Key = uuid.New().String()

	err = repo.atomically(ctx, "creating marking assignment", func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO rubric (key, rubric_id, topic, criteria, marks, type, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			r.Key, r.RubricID, r.Topic, criteria, r.Marks, r.Type, r.CreatedAt, r.UpdatedAt,
		); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, insertAssignmentQuery,
			a.Key, a.PersonRef, a.Duty, a.Type, a.SubType, a.PayloadRef, a.CreatedAt)
		return err
	})
	if err != nil {
		return assignment.Assignment{}, rubric.Rubric{}, err
	}
	return a, r, nil
}

func (repo *assignmentRepository) atomically(ctx context.Context, op string, fn func(tx *sqlx.Tx) error) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return storageErr(op, err)
	}

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			// the payload or marker may have been left behind
			return core.NewPartialWriteError(op, rbErr)
		}
		if isUniqueViolation(err, "assignment_duty_uniq") {
			return assignment.ErrDuplicate
		}
		return storageErr(op, err)
	}

	if err = tx.Commit(); err != nil {
		return storageErr(op, err)
	}
	return nil
}

func (repo *assignmentRepository) SupervisorExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := repo.db.GetContext(ctx, &exists, "SELECT EXISTS (SELECT 1 FROM supervisor_roster WHERE email = $1)", email)
	if err != nil {
		return false, storageErr("checking supervisor roster", err)
	}
	return exists, nil
}

func (repo *assignmentRepository) AddSupervisor(ctx context.Context, s assignment.Supervisor) (assignment.Supervisor, error) {
	s.Key = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO supervisor_roster (key, person_ref, first_name, last_name, email, contact_no, staff_post, roles, eligible, added_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		s.Key, s.PersonRef, s.FirstName, s.LastName, s.Email, s.ContactNo,
		s.StaffPost, pq.StringArray(s.Roles), s.Eligible, s.AddedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "supervisor_roster_email_key") {
			return assignment.Supervisor{}, assignment.ErrDuplicate
		}
		return assignment.Supervisor{}, storageErr("adding supervisor", err)
	}
	return s, nil
}

func (repo *assignmentRepository) QuerySupervisors(ctx context.Context) ([]assignment.Supervisor, error) {
	var rows []dbSupervisor
	err := repo.db.SelectContext(ctx, &rows, "SELECT * FROM supervisor_roster ORDER BY added_at")
	if err != nil {
		return nil, storageErr("querying supervisors", err)
	}

	supervisors := make([]assignment.Supervisor, 0, len(rows))
	for _, row := range rows {
		supervisors = append(supervisors, row.toSupervisor())
	}
	return supervisors, nil
}

func (repo *assignmentRepository) MemberExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := repo.db.GetContext(ctx, &exists, "SELECT EXISTS (SELECT 1 FROM member_roster WHERE email = $1)", email)
	if err != nil {
		return false, storageErr("checking member roster", err)
	}
	return exists, nil
}

func (repo *assignmentRepository) AddMember(ctx context.Context, m assignment.Member) (assignment.Member, error) {
	m.Key = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO member_roster (key, person_ref, first_name, last_name, email, contact_no, roles, added_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		m.Key, m.PersonRef, m.FirstName, m.LastName, m.Email, m.ContactNo,
		pq.StringArray(m.Roles), m.AddedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "member_roster_email_key") {
			return assignment.Member{}, assignment.ErrDuplicate
		}
		return assignment.Member{}, storageErr("adding member", err)
	}
	return m, nil
}

func (repo *assignmentRepository) QueryMembers(ctx context.Context) ([]assignment.Member, error) {
	var rows []dbMember
	err := repo.db.SelectContext(ctx, &rows, "SELECT * FROM member_roster ORDER BY added_at")
	if err != nil {
		return nil, storageErr("querying members", err)
	}

	members := make([]assignment.Member, 0, len(rows))
	for _, row := range rows {
		members = append(members, row.toMember())
	}
	return members, nil
}
