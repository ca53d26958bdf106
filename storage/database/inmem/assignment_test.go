package inmemdb

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projeval/projeval/core/assignment"
	"github.com/projeval/projeval/core/rubric"
	"github.com/projeval/projeval/core/schedule"
)

func marker(subType, payloadRef string) assignment.Assignment {
	return assignment.Assignment{
		PersonRef:  "IT1",
		Duty:       assignment.DutyMarking,
		Type:       rubric.TypeReport,
		SubType:    subType,
		PayloadRef: payloadRef,
		CreatedAt:  time.Now().UTC(),
	}
}

func Test_assignmentRepository_CreateMarkingAssignment(t *testing.T) {
	db, err := Open()
	require.NoError(t, err)
	repo := NewAssignmentRepository(db)
	rubrics := NewRubricRepository(db)
	ctx := context.Background()

	a, r, err := repo.CreateMarkingAssignment(ctx, marker("logBook", "R1"), rubric.Rubric{RubricID: "R1", Topic: "Database Design"})
	require.NoError(t, err)
	assert.NotEmpty(t, a.Key)
	assert.NotEmpty(t, r.Key)

	// both records landed
	count, err := repo.CountAssignments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	_, err = rubrics.GetRubricByID(ctx, "R1")
	assert.NoError(t, err)

	// the duplicate leaves the payload table untouched
	_, _, err = repo.CreateMarkingAssignment(ctx, marker("logBook", "R2"), rubric.Rubric{RubricID: "R2"})
	assert.Equal(t, assignment.ErrDuplicate, err)
	rubCount, err := rubrics.CountRubrics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, rubCount)
}

func Test_assignmentRepository_CreateMarkingAssignment_concurrentDuplicates(t *testing.T) {
	db, err := Open()
	require.NoError(t, err)
	repo := NewAssignmentRepository(db)
	rubrics := NewRubricRepository(db)
	ctx := context.Background()

	const n = 50

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		created    int
		duplicates int
	)
	wg.Add(n)
	for i := 0; i < n; i++ {
		rubricID := "R" + strconv.Itoa(i+1)
		go func() {
			defer wg.Done()
			_, _, err := repo.CreateMarkingAssignment(ctx, marker("logBook", rubricID), rubric.Rubric{RubricID: rubricID})
			mu.Lock()
			defer mu.Unlock()
			switch err {
			case nil:
				created++
			case assignment.ErrDuplicate:
				duplicates++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	// exactly one write wins; the losers leave nothing behind
	assert.Equal(t, 1, created)
	assert.Equal(t, n-1, duplicates)

	count, err := repo.CountAssignments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	rubCount, err := rubrics.CountRubrics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, rubCount)
}

func Test_assignmentRepository_CreateScheduleAssignment(t *testing.T) {
	db, err := Open()
	require.NoError(t, err)
	repo := NewAssignmentRepository(db)
	schedules := NewScheduleRepository(db)
	ctx := context.Background()

	a := assignment.Assignment{
		PersonRef:  "IT1",
		Duty:       assignment.DutySchedule,
		Type:       rubric.TypePresentation,
		SubType:    "proposal",
		PayloadRef: "SP1",
		CreatedAt:  time.Now().UTC(),
	}
	s := schedule.Schedule{ScheduleID: "SP1", GroupID: "G12", TimeDuration: "08:30 AM - 09:00 AM"}

	_, created, err := repo.CreateScheduleAssignment(ctx, a, s)
	require.NoError(t, err)
	assert.NotEmpty(t, created.Key)

	got, err := schedules.GetScheduleByID(ctx, "SP1")
	require.NoError(t, err)
	assert.Equal(t, "G12", got.GroupID)

	_, _, err = repo.CreateScheduleAssignment(ctx, a, schedule.Schedule{ScheduleID: "SP2"})
	assert.Equal(t, assignment.ErrDuplicate, err)
	schedCount, err := schedules.CountSchedules(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, schedCount)
}
