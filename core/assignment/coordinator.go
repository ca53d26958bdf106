package assignment

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/projeval/projeval/core"
	"github.com/projeval/projeval/core/person"
	"github.com/projeval/projeval/core/rubric"
	"github.com/projeval/projeval/core/schedule"
)

// Coordinator orchestrates assigning a person to a duty: it checks
// eligibility and duplicates, allocates the payload identifier and
// dispatches to the schedule or marking workflow.
type Coordinator struct {
	repo    Repository
	persons person.Repository
	alloc   core.IdentifierAllocator
	catalog Catalog
	policy  *Policy
	mailSvc core.EmailService
	logger  core.Logger
}

func NewCoordinator(
	conf core.DutyConfig,
	repo Repository,
	persons person.Repository,
	alloc core.IdentifierAllocator,
	mailSvc core.EmailService,
	logger core.Logger,
) *Coordinator {
	catalog := NewCatalog(conf)
	return &Coordinator{
		repo:    repo,
		persons: persons,
		alloc:   alloc,
		catalog: catalog,
		policy:  NewPolicy(catalog, conf.AllowAllSupervisors),
		mailSvc: mailSvc,
		logger:  logger,
	}
}

// Assign routes an assignment request to the schedule or marking workflow.
// Validation failures (person.ErrNotFound, IneligibleError,
// InvalidSubTypeError) are terminal for the call; core.StorageError is
// safe to retry.
func (c *Coordinator) Assign(ctx context.Context, na NewAssignment) (Result, error) {
	per, err := c.persons.GetPersonByRef(ctx, na.PersonRef)
	if err != nil {
		return Result{}, err
	}

	if !c.catalog.ValidSubType(na.Type, na.SubType) {
		return Result{}, &InvalidSubTypeError{Type: na.Type, SubType: na.SubType}
	}

	if dec := c.policy.ForDuty(per); !dec.Admissible {
		return Result{}, NewIneligibleError(dec.Reason)
	}
	exists, err := c.repo.AssignmentExists(ctx, per.PersonID, na.Duty, na.Type, na.SubType)
	if err != nil {
		return Result{}, err
	}
	if exists {
		return Result{}, NewIneligibleError(ErrDuplicate.Error())
	}

	switch na.Duty {
	case DutySchedule:
		return c.assignSchedule(ctx, per, na)
	case DutyMarking:
		return c.assignMarking(ctx, per, na)
	default:
		return Result{}, core.NewValidationError(
			fmt.Errorf("unknown duty %q", na.Duty),
			core.FieldError{Field: "duty", Error: fmt.Sprintf("unknown duty %q", na.Duty)},
		)
	}
}

func (c *Coordinator) assignSchedule(ctx context.Context, per person.Person, na NewAssignment) (Result, error) {
	scheduleID, err := c.alloc.NextID(ctx, schedule.IDPrefix)
	if err != nil {
		return Result{}, err
	}

	now := time.Now().UTC()
	sched := schedule.Schedule{
		ScheduleID:   scheduleID,
		GroupID:      na.Schedule.GroupID,
		Date:         na.Schedule.Date,
		TimeDuration: na.Schedule.TimeDuration,
		Location:     na.Schedule.Location,
		Topic:        na.Schedule.Topic,
		Examiners:    na.Schedule.Examiners,
		CreatedAt:    now,
	}
	a := Assignment{
		PersonRef:  per.PersonID,
		Duty:       DutySchedule,
		Type:       na.Type,
		SubType:    na.SubType,
		PayloadRef: scheduleID,
		CreatedAt:  now,
	}

	a, sched, err = c.repo.CreateScheduleAssignment(ctx, a, sched)
	if err != nil {
		return Result{}, c.convertWriteErr(err, "creating schedule assignment")
	}

	c.notify(per, "New scheduler duty",
		fmt.Sprintf("You have been assigned to schedule the %s %s presentation (%s, %s).",
			na.SubType, na.Type, sched.ScheduleID, sched.TimeDuration))
	return Result{Assignment: a, Schedule: &sched}, nil
}

func (c *Coordinator) assignMarking(ctx context.Context, per person.Person, na NewAssignment) (Result, error) {
	rubricID, err := c.alloc.NextID(ctx, rubric.IDPrefix)
	if err != nil {
		return Result{}, err
	}

	now := time.Now().UTC()
	rub := rubric.Rubric{
		RubricID:  rubricID,
		Topic:     na.Rubric.Topic,
		Criteria:  na.Rubric.Criteria,
		Marks:     na.Rubric.Marks,
		Type:      na.Type,
		CreatedAt: now,
		UpdatedAt: now,
	}
	a := Assignment{
		PersonRef:  per.PersonID,
		Duty:       DutyMarking,
		Type:       na.Type,
		SubType:    na.SubType,
		PayloadRef: rubricID,
		CreatedAt:  now,
	}

	a, rub, err = c.repo.CreateMarkingAssignment(ctx, a, rub)
	if err != nil {
		return Result{}, c.convertWriteErr(err, "creating marking assignment")
	}

	c.notify(per, "New marker duty",
		fmt.Sprintf("You have been assigned to mark the %s %s artifact; the marking rubric is %s.",
			na.SubType, na.Type, rub.RubricID))
	return Result{Assignment: a, Rubric: &rub}, nil
}

// AssignSupervisor adds a person to the supervisor roster after the
// staff-post check. A forced addition of an ineligible person is admitted
// but the roster entry keeps Eligible=false.
func (c *Coordinator) AssignSupervisor(ctx context.Context, ns NewSupervisor) (Supervisor, error) {
	per, err := c.persons.GetPersonByRef(ctx, ns.PersonRef)
	if err != nil {
		return Supervisor{}, err
	}

	dec := c.policy.ForSupervisor(per, ns.Force)
	if !dec.Admissible {
		return Supervisor{}, NewIneligibleError(dec.Reason)
	}

	exists, err := c.repo.SupervisorExists(ctx, per.Email)
	if err != nil {
		return Supervisor{}, err
	}
	if exists {
		return Supervisor{}, NewIneligibleError("person is already a supervisor")
	}

	sup := Supervisor{
		PersonRef: per.PersonID,
		FirstName: per.FirstName,
		LastName:  per.LastName,
		Email:     per.Email,
		ContactNo: per.ContactNo,
		StaffPost: per.StaffPost,
		Roles:     per.Roles,
		Eligible:  dec.Eligible,
		AddedAt:   time.Now().UTC(),
	}
	sup, err = c.repo.AddSupervisor(ctx, sup)
	if err != nil {
		// a concurrent request may win the insert after our roster check
		if err == ErrDuplicate {
			return Supervisor{}, NewIneligibleError("person is already a supervisor")
		}
		return Supervisor{}, err
	}

	c.notify(per, "Supervisor duty", "You have been added as a project supervisor.")
	return sup, nil
}

// AssignMember adds a person to the project-member roster.
func (c *Coordinator) AssignMember(ctx context.Context, nm NewMember) (Member, error) {
	per, err := c.persons.GetPersonByRef(ctx, nm.PersonRef)
	if err != nil {
		return Member{}, err
	}

	exists, err := c.repo.MemberExists(ctx, per.Email)
	if err != nil {
		return Member{}, err
	}
	if exists {
		return Member{}, NewIneligibleError("person is already a project member")
	}

	mem := Member{
		PersonRef: per.PersonID,
		FirstName: per.FirstName,
		LastName:  per.LastName,
		Email:     per.Email,
		ContactNo: per.ContactNo,
		Roles:     per.Roles,
		AddedAt:   time.Now().UTC(),
	}
	mem, err = c.repo.AddMember(ctx, mem)
	if err != nil {
		if err == ErrDuplicate {
			return Member{}, NewIneligibleError("person is already a project member")
		}
		return Member{}, err
	}

	c.notify(per, "Project member", "You have been added as a project member.")
	return mem, nil
}

func (c *Coordinator) Count(ctx context.Context) (int, error) {
	return c.repo.CountAssignments(ctx)
}

func (c *Coordinator) QueryAll(ctx context.Context) ([]Assignment, error) {
	return c.repo.QueryAllAssignments(ctx)
}

func (c *Coordinator) QuerySupervisors(ctx context.Context) ([]Supervisor, error) {
	return c.repo.QuerySupervisors(ctx)
}

func (c *Coordinator) QueryMembers(ctx context.Context) ([]Member, error) {
	return c.repo.QueryMembers(ctx)
}

// convertWriteErr maps storage-level failures of the atomic marker+payload
// write. A unique-index violation means a concurrent duplicate and counts
// as ineligible; an unrecoverable half-write is fatal and logged for
// operator follow-up.
func (c *Coordinator) convertWriteErr(err error, op string) error {
	if err == ErrDuplicate {
		return NewIneligibleError(ErrDuplicate.Error())
	}
	if core.IsPartialWrite(err) {
		c.logger.Error(op+": atomicity guarantee broken", err)
	}
	return err
}

func (c *Coordinator) notify(per person.Person, subject, body string) {
	c.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: per.FullName(), Address: per.Email}},
		Subject: subject,
		BodyStr: body,
	})
}
