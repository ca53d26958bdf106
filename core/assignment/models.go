package assignment

import (
	"context"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/projeval/projeval/core"
	"github.com/projeval/projeval/core/rubric"
	"github.com/projeval/projeval/core/schedule"
)

// Duty kinds
const (
	DutySchedule = "schedule"
	DutyMarking  = "marking"
)

// Assignment is the marker linking a person to a duty and its payload
// record (a Schedule for schedule duty, a Rubric for marking duty).
// The (PersonRef, Duty, Type, SubType) tuple is unique.
type Assignment struct {
	Key       string    `json:"key"`
	PersonRef string    `json:"personRef"`
	Duty      string    `json:"dutyKind"`
	Type      string    `json:"type"`
	SubType   string    `json:"subType"`
	// PayloadRef is the human-readable ID of the payload record:
	// a scheduleID (SP<n>) or a rubricID (R<n>).
	PayloadRef string    `json:"payloadRef"`
	CreatedAt  time.Time `json:"createdAt"` // UTC
}

// Supervisor is a roster entry for supervisor duty. Eligible records the
// true eligibility bit at the time of the addition; a forced addition of a
// person with a non-listed staff post carries Eligible=false.
type Supervisor struct {
	Key       string      `json:"key"`
	PersonRef string      `json:"personRef"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Email     string      `json:"email"`
	ContactNo string      `json:"contactNo"`
	StaffPost null.String `json:"staffPost,omitempty"`
	Roles     []string    `json:"role"`
	Eligible  bool        `json:"eligible"`
	AddedAt   time.Time   `json:"addedAt"` // UTC
}

// Member is a project-member roster entry.
type Member struct {
	Key       string    `json:"key"`
	PersonRef string    `json:"personRef"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	ContactNo string    `json:"contactNo"`
	Roles     []string  `json:"role"`
	AddedAt   time.Time `json:"addedAt"` // UTC
}

// NewSchedulePayload carries the Schedule fields of a schedule-duty request.
type NewSchedulePayload struct {
	GroupID      string    `json:"groupID" validate:"required"`
	Date         time.Time `json:"date" validate:"required"`
	TimeDuration string    `json:"timeDuration" validate:"required,timeduration"`
	Location     string    `json:"location" validate:"required"`
	Topic        string    `json:"topic" validate:"required"`
	Examiners    []string  `json:"examiners" validate:"omitempty,dive,required"`
}

// NewRubricPayload carries the Rubric fields of a marking-duty request.
type NewRubricPayload struct {
	Topic    string             `json:"topic" validate:"required"`
	Criteria []rubric.Criterion `json:"criteria" validate:"omitempty,dive"`
	Marks    int                `json:"marks" validate:"gte=0"`
}

// NewAssignment is an assignment request. Exactly one payload is expected,
// matching the duty kind.
type NewAssignment struct {
	PersonRef string              `json:"personRef" validate:"required"`
	Duty      string              `json:"dutyKind" validate:"required,oneof=schedule marking"`
	Type      string              `json:"type" validate:"required,oneof=presentation report"`
	SubType   string              `json:"subType" validate:"required"`
	Schedule  *NewSchedulePayload `json:"schedule,omitempty"`
	Rubric    *NewRubricPayload   `json:"rubric,omitempty"`
}

func (na *NewAssignment) Validate() error {
	na.PersonRef = core.CleanString(na.PersonRef)
	na.Duty = core.CleanString(na.Duty, true /* lower */)
	na.Type = core.CleanString(na.Type, true /* lower */)
	na.SubType = core.CleanString(na.SubType)

	if err := core.Validate.Struct(na); err != nil {
		return err
	}

	switch na.Duty {
	case DutySchedule:
		// schedules represent presentation events exclusively
		if na.Type != rubric.TypePresentation {
			return core.NewValidationError(nil,
				core.FieldError{Field: "type", Error: "schedule duty only covers presentation events"})
		}
		if na.Schedule == nil {
			return core.NewValidationError(nil,
				core.FieldError{Field: "schedule", Error: "a schedule payload is required for schedule duty"})
		}
	case DutyMarking:
		if na.Rubric == nil {
			return core.NewValidationError(nil,
				core.FieldError{Field: "rubric", Error: "a rubric payload is required for marking duty"})
		}
	}
	return nil
}

// NewSupervisor is a supervisor-duty assignment request. Force admits a
// person whose staff post is not on the allow-list; the roster entry then
// records Eligible=false.
type NewSupervisor struct {
	PersonRef string `json:"personRef" validate:"required"`
	Force     bool   `json:"force"`
}

func (ns *NewSupervisor) Validate() error {
	ns.PersonRef = core.CleanString(ns.PersonRef)
	return core.Validate.Struct(ns)
}

// NewMember is a project-member roster addition request.
type NewMember struct {
	PersonRef string `json:"personRef" validate:"required"`
}

func (nm *NewMember) Validate() error {
	nm.PersonRef = core.CleanString(nm.PersonRef)
	return core.Validate.Struct(nm)
}

// Result is the outcome of a confirmed assignment: the marker plus the
// payload record that was created with it.
type Result struct {
	Assignment Assignment         `json:"assignment"`
	Schedule   *schedule.Schedule `json:"schedule,omitempty"`
	Rubric     *rubric.Rubric     `json:"rubric,omitempty"`
}

// Repository is the storage contract for assignment markers, payload
// records and duty rosters. The CreateXxxAssignment methods persist the
// marker and its payload atomically: either both records exist afterwards
// or neither does.
type Repository interface {
	AssignmentExists(ctx context.Context, personRef, duty, typ, subType string) (bool, error)
	CountAssignments(ctx context.Context) (int, error)
	QueryAllAssignments(ctx context.Context) ([]Assignment, error)

	CreateScheduleAssignment(ctx context.Context, a Assignment, s schedule.Schedule) (Assignment, schedule.Schedule, error)
	CreateMarkingAssignment(ctx context.Context, a Assignment, r rubric.Rubric) (Assignment, rubric.Rubric, error)

	SupervisorExists(ctx context.Context, email string) (bool, error)
	AddSupervisor(ctx context.Context, s Supervisor) (Supervisor, error)
	QuerySupervisors(ctx context.Context) ([]Supervisor, error)

	MemberExists(ctx context.Context, email string) (bool, error)
	AddMember(ctx context.Context, m Member) (Member, error)
	QueryMembers(ctx context.Context) ([]Member, error)
}
