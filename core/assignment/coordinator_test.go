package assignment_test

import (
	"bytes"
	"context"
	goerrors "errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projeval/projeval/core"
	"github.com/projeval/projeval/core/assignment"
	"github.com/projeval/projeval/core/person"
	"github.com/projeval/projeval/core/rubric"
	"github.com/projeval/projeval/core/schedule"
	emailsvc "github.com/projeval/projeval/services/email"
	logsvc "github.com/projeval/projeval/services/logger"
	inmemdb "github.com/projeval/projeval/storage/database/inmem"
	testutil "github.com/projeval/projeval/tests"
)

func dutyConfig() core.DutyConfig {
	return core.DutyConfig{
		EligibleStaffPosts: []string{
			"Chancellor",
			"Vice-Chancellor",
			"Dean",
			"Department Chair/Head",
			"Professor",
			"Associate Professor",
			"Assistant Professor",
		},
		PresentationSubTypes: []string{"proposal", "progress1", "progress2", "final"},
		ReportSubTypes: []string{
			"topicAssessmentForm",
			"projectCharter",
			"statusDocument1",
			"logBook",
			"proposalDocument",
			"statusDocument2",
			"finalThesis",
		},
	}
}

type testDeps struct {
	coord       *assignment.Coordinator
	personSvc   *person.Service
	rubricSvc   *rubric.Service
	scheduleSvc *schedule.Service
}

func setup(t *testing.T) testDeps {
	db, err := inmemdb.Open()
	require.NoError(t, err)

	conf := &core.Config{AppName: "Projeval", DefaultFromEmailAddr: "noreply@localhost"}
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	logger := logsvc.NewStdLogger(log.New(io.Discard, "", 0))

	alloc := inmemdb.NewIdentifierAllocator(db)
	personRepo := inmemdb.NewPersonRepository(db)
	coord := assignment.NewCoordinator(
		dutyConfig(),
		inmemdb.NewAssignmentRepository(db),
		personRepo,
		alloc,
		mailSvc,
		logger,
	)
	return testDeps{
		coord:       coord,
		personSvc:   person.NewService(personRepo, alloc),
		rubricSvc:   rubric.NewService(inmemdb.NewRubricRepository(db), alloc),
		scheduleSvc: schedule.NewService(inmemdb.NewScheduleRepository(db)),
	}
}

func schedulePayload() *assignment.NewSchedulePayload {
	return &assignment.NewSchedulePayload{
		GroupID:      "G12",
		Date:         time.Date(2021, 6, 14, 0, 0, 0, 0, time.UTC),
		TimeDuration: "08:30 AM - 09:00 AM",
		Location:     "Main Hall",
		Topic:        "Database Design",
		Examiners:    []string{"IT9"},
	}
}

func rubricPayload() *assignment.NewRubricPayload {
	return &assignment.NewRubricPayload{
		Topic: "Database Design",
		Marks: 40,
		Criteria: []rubric.Criterion{
			{Description: "Clarity", MaxMarks: 10},
			{Description: "Depth", MaxMarks: 30},
		},
	}
}

func Test_Coordinator_Assign_schedule(t *testing.T) {
	deps := setup(t)
	ctx := context.Background()

	mem := testutil.CreatePerson(t, deps.personSvc, "Jane", "Doe", "jane@test.cd", []string{person.RoleMember}, "")

	res, err := deps.coord.Assign(ctx, assignment.NewAssignment{
		PersonRef: mem.PersonID,
		Duty:      assignment.DutySchedule,
		Type:      rubric.TypePresentation,
		SubType:   "proposal",
		Schedule:  schedulePayload(),
	})
	require.NoError(t, err)
	require.NotNil(t, res.Schedule)
	assert.Nil(t, res.Rubric)
	assert.Equal(t, "SP1", res.Assignment.PayloadRef)
	assert.Equal(t, res.Schedule.ScheduleID, res.Assignment.PayloadRef)
	assert.Equal(t, mem.PersonID, res.Assignment.PersonRef)

	// payload record is queryable on its own
	sched, err := deps.scheduleSvc.GetByID(ctx, "SP1")
	require.NoError(t, err)
	assert.Equal(t, "Database Design", sched.Topic)

	count, err := deps.coord.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func Test_Coordinator_Assign_marking(t *testing.T) {
	deps := setup(t)
	ctx := context.Background()

	mem := testutil.CreatePerson(t, deps.personSvc, "John", "Smith", "john@test.cd", []string{person.RoleMember}, "")

	res, err := deps.coord.Assign(ctx, assignment.NewAssignment{
		PersonRef: mem.PersonID,
		Duty:      assignment.DutyMarking,
		Type:      rubric.TypeReport,
		SubType:   "finalThesis",
		Rubric:    rubricPayload(),
	})
	require.NoError(t, err)
	require.NotNil(t, res.Rubric)
	assert.Nil(t, res.Schedule)
	assert.Equal(t, "R1", res.Assignment.PayloadRef)

	rub, err := deps.rubricSvc.GetByID(ctx, "R1")
	require.NoError(t, err)
	assert.Equal(t, 40, rub.Marks)
	assert.Len(t, rub.Criteria, 2)
}

func Test_Coordinator_Assign_allCatalogPairs(t *testing.T) {
	deps := setup(t)
	ctx := context.Background()
	conf := dutyConfig()

	mem := testutil.CreatePerson(t, deps.personSvc, "Jane", "Doe", "jane@test.cd", []string{person.RoleMember}, "")

	for _, subType := range conf.PresentationSubTypes {
		res, err := deps.coord.Assign(ctx, assignment.NewAssignment{
			PersonRef: mem.PersonID,
			Duty:      assignment.DutyMarking,
			Type:      rubric.TypePresentation,
			SubType:   subType,
			Rubric:    rubricPayload(),
		})
		require.NoError(t, err, "presentation/%s", subType)
		assert.Regexp(t, "^R[0-9]+$", res.Assignment.PayloadRef)
	}
	for _, subType := range conf.ReportSubTypes {
		res, err := deps.coord.Assign(ctx, assignment.NewAssignment{
			PersonRef: mem.PersonID,
			Duty:      assignment.DutyMarking,
			Type:      rubric.TypeReport,
			SubType:   subType,
			Rubric:    rubricPayload(),
		})
		require.NoError(t, err, "report/%s", subType)
		assert.Regexp(t, "^R[0-9]+$", res.Assignment.PayloadRef)
	}

	count, err := deps.coord.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(conf.PresentationSubTypes)+len(conf.ReportSubTypes), count)
}

func Test_Coordinator_Assign_rejections(t *testing.T) {
	deps := setup(t)
	ctx := context.Background()

	mem := testutil.CreatePerson(t, deps.personSvc, "Jane", "Doe", "jane@test.cd", []string{person.RoleMember}, "")
	guest := testutil.CreatePerson(t, deps.personSvc, "Gus", "Guest", "gus@test.cd", []string{person.RoleGuest}, "")

	t.Run("unknown person", func(t *testing.T) {
		_, err := deps.coord.Assign(ctx, assignment.NewAssignment{
			PersonRef: "IT999",
			Duty:      assignment.DutyMarking,
			Type:      rubric.TypeReport,
			SubType:   "logBook",
			Rubric:    rubricPayload(),
		})
		assert.Equal(t, person.ErrNotFound, err)
	})

	t.Run("subtype not in catalog", func(t *testing.T) {
		_, err := deps.coord.Assign(ctx, assignment.NewAssignment{
			PersonRef: mem.PersonID,
			Duty:      assignment.DutyMarking,
			Type:      rubric.TypeReport,
			SubType:   "proposal", // presentation catalog only
			Rubric:    rubricPayload(),
		})
		assert.True(t, assignment.IsInvalidSubType(err))
	})

	t.Run("not a project member", func(t *testing.T) {
		_, err := deps.coord.Assign(ctx, assignment.NewAssignment{
			PersonRef: guest.PersonID,
			Duty:      assignment.DutyMarking,
			Type:      rubric.TypeReport,
			SubType:   "logBook",
			Rubric:    rubricPayload(),
		})
		assert.True(t, assignment.IsIneligible(err))
	})

	t.Run("rejections leave no records behind", func(t *testing.T) {
		count, err := deps.coord.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)

		rubCount, err := deps.rubricSvc.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, rubCount)
	})
}

func Test_Coordinator_Assign_duplicateDuty(t *testing.T) {
	deps := setup(t)
	ctx := context.Background()

	mem := testutil.CreatePerson(t, deps.personSvc, "Jane", "Doe", "jane@test.cd", []string{person.RoleMember}, "")

	na := assignment.NewAssignment{
		PersonRef: mem.PersonID,
		Duty:      assignment.DutyMarking,
		Type:      rubric.TypeReport,
		SubType:   "logBook",
		Rubric:    rubricPayload(),
	}
	_, err := deps.coord.Assign(ctx, na)
	require.NoError(t, err)

	_, err = deps.coord.Assign(ctx, na)
	assert.True(t, assignment.IsIneligible(err))

	// same duty for a different subtype is a distinct assignment
	na.SubType = "finalThesis"
	_, err = deps.coord.Assign(ctx, na)
	assert.NoError(t, err)

	count, err := deps.coord.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// the duplicate allocated no dangling payload record
	rubCount, err := deps.rubricSvc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, rubCount)
}

func Test_Coordinator_AssignSupervisor(t *testing.T) {
	deps := setup(t)
	ctx := context.Background()

	prof := testutil.CreatePerson(t, deps.personSvc, "Ada", "Prof", "ada@test.cd", []string{person.RoleStaff}, "Professor")
	lect := testutil.CreatePerson(t, deps.personSvc, "Lee", "Lect", "lee@test.cd", []string{person.RoleStaff}, "Lecturer")

	sup, err := deps.coord.AssignSupervisor(ctx, assignment.NewSupervisor{PersonRef: prof.PersonID})
	require.NoError(t, err)
	assert.True(t, sup.Eligible)
	assert.Equal(t, prof.Email, sup.Email)

	// already on the roster
	_, err = deps.coord.AssignSupervisor(ctx, assignment.NewSupervisor{PersonRef: prof.PersonID})
	assert.True(t, assignment.IsIneligible(err))

	// staff post not on the allow-list
	_, err = deps.coord.AssignSupervisor(ctx, assignment.NewSupervisor{PersonRef: lect.PersonID})
	assert.True(t, assignment.IsIneligible(err))

	// forced addition is admitted but flagged
	sup, err = deps.coord.AssignSupervisor(ctx, assignment.NewSupervisor{PersonRef: lect.PersonID, Force: true})
	require.NoError(t, err)
	assert.False(t, sup.Eligible)

	supervisors, err := deps.coord.QuerySupervisors(ctx)
	require.NoError(t, err)
	assert.Len(t, supervisors, 2)
}

func Test_Coordinator_AssignMember(t *testing.T) {
	deps := setup(t)
	ctx := context.Background()

	stu := testutil.CreatePerson(t, deps.personSvc, "Stu", "Dent", "stu@test.cd", []string{person.RoleStudent}, "")

	mem, err := deps.coord.AssignMember(ctx, assignment.NewMember{PersonRef: stu.PersonID})
	require.NoError(t, err)
	assert.Equal(t, stu.Email, mem.Email)

	_, err = deps.coord.AssignMember(ctx, assignment.NewMember{PersonRef: stu.PersonID})
	assert.True(t, assignment.IsIneligible(err))

	// lookup by email resolves to the same person
	_, err = deps.coord.AssignMember(ctx, assignment.NewMember{PersonRef: stu.Email})
	assert.True(t, assignment.IsIneligible(err))

	members, err := deps.coord.QueryMembers(ctx)
	require.NoError(t, err)
	assert.Len(t, members, 1)
}

func Test_Coordinator_Assign_notifies(t *testing.T) {
	deps := setup(t)
	ctx := context.Background()

	mem := testutil.CreatePerson(t, deps.personSvc, "Jane", "Doe", "jane@test.cd", []string{person.RoleMember}, "")

	before := len(emailsvc.SentMessages)
	_, err := deps.coord.Assign(ctx, assignment.NewAssignment{
		PersonRef: mem.PersonID,
		Duty:      assignment.DutyMarking,
		Type:      rubric.TypeReport,
		SubType:   "logBook",
		Rubric:    rubricPayload(),
	})
	require.NoError(t, err)

	require.Greater(t, len(emailsvc.SentMessages), before)
	sent := emailsvc.SentMessages[len(emailsvc.SentMessages)-1]
	assert.Equal(t, "New marker duty", sent.Subject)
	require.Len(t, sent.To, 1)
	assert.Equal(t, mem.Email, sent.To[0].Address)
}

// stubWriteRepo fails every roster and marker+payload write with writeErr;
// reads fall through to the wrapped repository.
type stubWriteRepo struct {
	assignment.Repository
	writeErr error
}

func (r *stubWriteRepo) CreateScheduleAssignment(
	ctx context.Context, a assignment.Assignment, s schedule.Schedule,
) (assignment.Assignment, schedule.Schedule, error) {
	return assignment.Assignment{}, schedule.Schedule{}, r.writeErr
}

func (r *stubWriteRepo) CreateMarkingAssignment(
	ctx context.Context, a assignment.Assignment, rub rubric.Rubric,
) (assignment.Assignment, rubric.Rubric, error) {
	return assignment.Assignment{}, rubric.Rubric{}, r.writeErr
}

func (r *stubWriteRepo) AddSupervisor(ctx context.Context, s assignment.Supervisor) (assignment.Supervisor, error) {
	return assignment.Supervisor{}, r.writeErr
}

func (r *stubWriteRepo) AddMember(ctx context.Context, m assignment.Member) (assignment.Member, error) {
	return assignment.Member{}, r.writeErr
}

func setupWithWriteErr(t *testing.T, writeErr error) (testDeps, *bytes.Buffer) {
	db, err := inmemdb.Open()
	require.NoError(t, err)

	conf := &core.Config{AppName: "Projeval", DefaultFromEmailAddr: "noreply@localhost"}
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	var logBuf bytes.Buffer
	logger := logsvc.NewStdLogger(log.New(&logBuf, "", 0))

	alloc := inmemdb.NewIdentifierAllocator(db)
	personRepo := inmemdb.NewPersonRepository(db)
	repo := &stubWriteRepo{Repository: inmemdb.NewAssignmentRepository(db), writeErr: writeErr}
	coord := assignment.NewCoordinator(dutyConfig(), repo, personRepo, alloc, mailSvc, logger)
	return testDeps{
		coord:     coord,
		personSvc: person.NewService(personRepo, alloc),
	}, &logBuf
}

func Test_Coordinator_Assign_writeFailures(t *testing.T) {
	ctx := context.Background()

	newMarking := func(personRef string) assignment.NewAssignment {
		return assignment.NewAssignment{
			PersonRef: personRef,
			Duty:      assignment.DutyMarking,
			Type:      rubric.TypeReport,
			SubType:   "logBook",
			Rubric:    rubricPayload(),
		}
	}

	t.Run("partial write is fatal and logged", func(t *testing.T) {
		writeErr := core.NewPartialWriteError("creating marking assignment", goerrors.New("connection reset"))
		deps, logBuf := setupWithWriteErr(t, writeErr)
		mem := testutil.CreatePerson(t, deps.personSvc, "Jane", "Doe", "jane@test.cd", []string{person.RoleMember}, "")

		_, err := deps.coord.Assign(ctx, newMarking(mem.PersonID))
		require.Error(t, err)
		assert.True(t, core.IsPartialWrite(err))
		assert.Contains(t, logBuf.String(), "atomicity guarantee broken")
	})

	t.Run("storage unavailability is retryable and not logged as broken", func(t *testing.T) {
		writeErr := core.NewStorageError("creating marking assignment", goerrors.New("dial tcp: connection refused"))
		deps, logBuf := setupWithWriteErr(t, writeErr)
		mem := testutil.CreatePerson(t, deps.personSvc, "Jane", "Doe", "jane@test.cd", []string{person.RoleMember}, "")

		_, err := deps.coord.Assign(ctx, newMarking(mem.PersonID))
		require.Error(t, err)
		assert.True(t, core.IsStorageUnavailable(err))
		assert.NotContains(t, logBuf.String(), "atomicity guarantee broken")
	})

	t.Run("concurrent duplicate duty is ineligible", func(t *testing.T) {
		// the unique constraint catches duplicates the pre-flight check missed
		deps, _ := setupWithWriteErr(t, assignment.ErrDuplicate)
		mem := testutil.CreatePerson(t, deps.personSvc, "Jane", "Doe", "jane@test.cd", []string{person.RoleMember}, "")

		_, err := deps.coord.Assign(ctx, newMarking(mem.PersonID))
		assert.True(t, assignment.IsIneligible(err))
	})

	t.Run("concurrent duplicate supervisor is ineligible", func(t *testing.T) {
		deps, _ := setupWithWriteErr(t, assignment.ErrDuplicate)
		prof := testutil.CreatePerson(t, deps.personSvc, "Ada", "Prof", "ada@test.cd", []string{person.RoleStaff}, "Professor")

		_, err := deps.coord.AssignSupervisor(ctx, assignment.NewSupervisor{PersonRef: prof.PersonID})
		require.Error(t, err)
		assert.True(t, assignment.IsIneligible(err))
		assert.EqualError(t, err, "person is already a supervisor")
	})

	t.Run("concurrent duplicate member is ineligible", func(t *testing.T) {
		deps, _ := setupWithWriteErr(t, assignment.ErrDuplicate)
		stu := testutil.CreatePerson(t, deps.personSvc, "Stu", "Dent", "stu@test.cd", []string{person.RoleStudent}, "")

		_, err := deps.coord.AssignMember(ctx, assignment.NewMember{PersonRef: stu.PersonID})
		require.Error(t, err)
		assert.True(t, assignment.IsIneligible(err))
		assert.EqualError(t, err, "person is already a project member")
	})
}

func Test_Coordinator_Assign_unknownDuty(t *testing.T) {
	deps := setup(t)
	ctx := context.Background()

	mem := testutil.CreatePerson(t, deps.personSvc, "Jane", "Doe", "jane@test.cd", []string{person.RoleMember}, "")

	_, err := deps.coord.Assign(ctx, assignment.NewAssignment{
		PersonRef: mem.PersonID,
		Duty:      "janitor",
		Type:      rubric.TypeReport,
		SubType:   "logBook",
		Rubric:    rubricPayload(),
	})
	require.Error(t, err)
	_, ok := err.(*core.ValidationError)
	assert.True(t, ok)

	assignments, err := deps.coord.QueryAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, assignments)
}
