package tests

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projeval/projeval/core/assignment"
	"github.com/projeval/projeval/core/person"
	"github.com/projeval/projeval/core/rubric"
	testutil "github.com/projeval/projeval/tests"
)

func newScheduleAssignment(personRef, subType string) assignment.NewAssignment {
	return assignment.NewAssignment{
		PersonRef: personRef,
		Duty:      assignment.DutySchedule,
		Type:      rubric.TypePresentation,
		SubType:   subType,
		Schedule: &assignment.NewSchedulePayload{
			GroupID:      "G12",
			Date:         time.Date(2021, 6, 14, 0, 0, 0, 0, time.UTC),
			TimeDuration: "08:30 AM - 09:00 AM",
			Location:     "Main Hall",
			Topic:        "Database Design",
		},
	}
}

func newMarkingAssignment(personRef, typ, subType string) assignment.NewAssignment {
	return assignment.NewAssignment{
		PersonRef: personRef,
		Duty:      assignment.DutyMarking,
		Type:      typ,
		SubType:   subType,
		Rubric: &assignment.NewRubricPayload{
			Topic:    "Database Design",
			Marks:    40,
			Criteria: criteria(),
		},
	}
}

func Test_assignmentApi_assign(t *testing.T) {
	ta := setup(t)

	mem := testutil.CreatePerson(t, ta.personSvc, "Jane", "Doe", "jane@test.cd", []string{person.RoleMember}, "")
	guest := testutil.CreatePerson(t, ta.personSvc, "Gus", "Guest", "gus@test.cd", []string{person.RoleGuest}, "")

	t.Run("schedule duty", func(t *testing.T) {
		body := marchallObj(t, newScheduleAssignment(mem.PersonID, "proposal"))
		req, rec := newRequest(http.MethodPost, "/v1/assignments", body)
		ta.app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		var res assignment.Result
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, "SP1", res.Assignment.PayloadRef)
		require.NotNil(t, res.Schedule)
		assert.Equal(t, "08:30 AM - 09:00 AM", res.Schedule.TimeDuration)
		assert.Nil(t, res.Rubric)
	})

	t.Run("marking duty", func(t *testing.T) {
		body := marchallObj(t, newMarkingAssignment(mem.PersonID, rubric.TypeReport, "finalThesis"))
		req, rec := newRequest(http.MethodPost, "/v1/assignments", body)
		ta.app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		var res assignment.Result
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, "R1", res.Assignment.PayloadRef)
		require.NotNil(t, res.Rubric)
		assert.Nil(t, res.Schedule)
	})

	tests := []httpTest{
		{
			name: "duplicate duty", body: marchallObj(t, newMarkingAssignment(mem.PersonID, rubric.TypeReport, "finalThesis")),
			wantCode: http.StatusConflict, wantData: marchallObj(t, httpErr{Error: "this duty is already assigned to the person"}),
		},
		{
			name: "person not found", body: marchallObj(t, newMarkingAssignment("IT999", rubric.TypeReport, "logBook")),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "person not found"}),
		},
		{
			name: "subtype not in catalog", body: marchallObj(t, newMarkingAssignment(mem.PersonID, rubric.TypeReport, "proposal")),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: `subtype "proposal" is not in the report catalog`}),
		},
		{
			name: "not a project member", body: marchallObj(t, newMarkingAssignment(guest.PersonID, rubric.TypeReport, "logBook")),
			wantCode: http.StatusConflict, wantData: marchallObj(t, httpErr{Error: "person is not a project member"}),
		},
		{
			name: "schedule duty requires presentation", wantCode: http.StatusBadRequest,
			body: marchallObj(t, assignment.NewAssignment{
				PersonRef: mem.PersonID,
				Duty:      assignment.DutySchedule,
				Type:      rubric.TypeReport,
				SubType:   "logBook",
				Schedule:  newScheduleAssignment(mem.PersonID, "proposal").Schedule,
			}),
		},
		{
			name: "schedule duty requires payload", wantCode: http.StatusBadRequest,
			body: marchallObj(t, assignment.NewAssignment{
				PersonRef: mem.PersonID,
				Duty:      assignment.DutySchedule,
				Type:      rubric.TypePresentation,
				SubType:   "final",
			}),
		},
		{
			name: "marking duty requires payload", wantCode: http.StatusBadRequest,
			body: marchallObj(t, assignment.NewAssignment{
				PersonRef: mem.PersonID,
				Duty:      assignment.DutyMarking,
				Type:      rubric.TypeReport,
				SubType:   "logBook",
			}),
		},
		{
			name: "malformed duty", wantCode: http.StatusBadRequest,
			body: marchallObj(t, assignment.NewAssignment{
				PersonRef: mem.PersonID,
				Duty:      "review",
				Type:      rubric.TypeReport,
				SubType:   "logBook",
			}),
		},
		{
			name: "bad time duration", wantCode: http.StatusBadRequest,
			body: marchallObj(t, assignment.NewAssignment{
				PersonRef: mem.PersonID,
				Duty:      assignment.DutySchedule,
				Type:      rubric.TypePresentation,
				SubType:   "final",
				Schedule: &assignment.NewSchedulePayload{
					GroupID:      "G12",
					Date:         time.Date(2021, 6, 14, 0, 0, 0, 0, time.UTC),
					TimeDuration: "13:00 PM - 14:00 PM",
					Location:     "Main Hall",
					Topic:        "Database Design",
				},
			}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/assignments", tt.body)
			ta.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("rejections leave no records behind", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/assignments")
		ta.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var assignments []assignment.Assignment
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &assignments))
		assert.Len(t, assignments, 2) // only the two successful ones

		req, rec = newRequest(http.MethodGet, "/v1/rubrics")
		ta.app.ServeHTTP(rec, req)
		var rubrics []rubric.Rubric
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rubrics))
		assert.Len(t, rubrics, 1)
	})
}

func Test_assignmentApi_supervisors(t *testing.T) {
	ta := setup(t)

	prof := testutil.CreatePerson(t, ta.personSvc, "Ada", "Prof", "ada@test.cd", []string{person.RoleStaff}, "Professor")
	lect := testutil.CreatePerson(t, ta.personSvc, "Lee", "Lect", "lee@test.cd", []string{person.RoleStaff}, "Lecturer")

	t.Run("eligible staff post", func(t *testing.T) {
		body := marchallObj(t, assignment.NewSupervisor{PersonRef: prof.PersonID})
		req, rec := newRequest(http.MethodPost, "/v1/assignments/supervisors", body)
		ta.app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		var sup assignment.Supervisor
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sup))
		assert.True(t, sup.Eligible)
	})

	t.Run("ineligible staff post", func(t *testing.T) {
		body := marchallObj(t, assignment.NewSupervisor{PersonRef: lect.PersonID})
		req, rec := newRequest(http.MethodPost, "/v1/assignments/supervisors", body)
		ta.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusConflict,
			wantData: marchallObj(t, httpErr{Error: "staff post is not eligible for supervisor duty"}),
		}, rec)
	})

	t.Run("forced addition is flagged", func(t *testing.T) {
		body := marchallObj(t, assignment.NewSupervisor{PersonRef: lect.PersonID, Force: true})
		req, rec := newRequest(http.MethodPost, "/v1/assignments/supervisors", body)
		ta.app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		var sup assignment.Supervisor
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sup))
		assert.False(t, sup.Eligible)
	})

	t.Run("duplicate", func(t *testing.T) {
		body := marchallObj(t, assignment.NewSupervisor{PersonRef: prof.PersonID})
		req, rec := newRequest(http.MethodPost, "/v1/assignments/supervisors", body)
		ta.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusConflict,
			wantData: marchallObj(t, httpErr{Error: "person is already a supervisor"}),
		}, rec)
	})

	t.Run("roster", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/assignments/supervisors")
		ta.app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var supervisors []assignment.Supervisor
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &supervisors))
		assert.Len(t, supervisors, 2)
	})
}

func Test_assignmentApi_members(t *testing.T) {
	ta := setup(t)

	stu := testutil.CreatePerson(t, ta.personSvc, "Stu", "Dent", "stu@test.cd", []string{person.RoleStudent}, "")

	body := marchallObj(t, assignment.NewMember{PersonRef: stu.PersonID})
	req, rec := newRequest(http.MethodPost, "/v1/assignments/members", body)
	ta.app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	// duplicate, addressed by email this time
	body = marchallObj(t, assignment.NewMember{PersonRef: stu.Email})
	req, rec = newRequest(http.MethodPost, "/v1/assignments/members", body)
	ta.app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusConflict,
		wantData: marchallObj(t, httpErr{Error: "person is already a project member"}),
	}, rec)

	req, rec = newRequest(http.MethodGet, "/v1/assignments/members")
	ta.app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var members []assignment.Member
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &members))
	assert.Len(t, members, 1)
}

func Test_statsApi(t *testing.T) {
	ta := setup(t)

	mem := testutil.CreatePerson(t, ta.personSvc, "Jane", "Doe", "jane@test.cd", []string{person.RoleMember}, "")

	body := marchallObj(t, newMarkingAssignment(mem.PersonID, rubric.TypeReport, "logBook"))
	req, rec := newRequest(http.MethodPost, "/v1/assignments", body)
	ta.app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	req, rec = newRequest(http.MethodGet, "/v1/stats")
	ta.app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: marchallObj(t, map[string]int{"persons": 1, "rubrics": 1, "schedules": 0, "assignments": 1}),
	}, rec)
}
