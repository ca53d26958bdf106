package assignment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"

	"github.com/projeval/projeval/core"
	"github.com/projeval/projeval/core/person"
)

func testDutyConfig() core.DutyConfig {
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

func staffPerson(post string) person.Person {
	return person.Person{
		PersonID:  "IT1",
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@test.cd",
		Roles:     []string{person.RoleStaff},
		StaffPost: null.StringFrom(post),
	}
}

func TestPolicy_ForSupervisor(t *testing.T) {
	policy := NewPolicy(NewCatalog(testDutyConfig()), false)

	tests := []struct {
		name           string
		post           string
		force          bool
		wantAdmissible bool
		wantEligible   bool
	}{
		{name: "Professor", post: "Professor", wantAdmissible: true, wantEligible: true},
		{name: "Dean", post: "Dean", wantAdmissible: true, wantEligible: true},
		{name: "Department Chair/Head", post: "Department Chair/Head", wantAdmissible: true, wantEligible: true},
		{name: "Assistant Professor", post: "Assistant Professor", wantAdmissible: true, wantEligible: true},
		{name: "Lecturer", post: "Lecturer"},
		{name: "lowercase professor", post: "professor"}, // posts are matched exactly
		{name: "empty post"},
		{name: "Lecturer forced", post: "Lecturer", force: true, wantAdmissible: true, wantEligible: false},
		{name: "Professor forced", post: "Professor", force: true, wantAdmissible: true, wantEligible: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec := policy.ForSupervisor(staffPerson(tt.post), tt.force)
			assert.Equal(t, tt.wantAdmissible, dec.Admissible)
			assert.Equal(t, tt.wantEligible, dec.Eligible)
			if !dec.Eligible {
				assert.NotEmpty(t, dec.Reason)
			}
		})
	}
}

func TestPolicy_ForSupervisor_allowAll(t *testing.T) {
	policy := NewPolicy(NewCatalog(testDutyConfig()), true /* allowAllSupervisors */)

	dec := policy.ForSupervisor(staffPerson("Lecturer"), false)
	assert.True(t, dec.Admissible)
	assert.False(t, dec.Eligible) // the eligibility bit stays honest
}

func TestPolicy_ForDuty(t *testing.T) {
	policy := NewPolicy(NewCatalog(testDutyConfig()), false)

	member := person.Person{PersonID: "IT2", Roles: []string{person.RoleMember}}
	dec := policy.ForDuty(member)
	assert.True(t, dec.Admissible)
	assert.True(t, dec.Eligible)

	// source data carries stray whitespace in role tags
	padded := person.Person{PersonID: "IT3", Roles: []string{" member "}}
	assert.True(t, policy.ForDuty(padded).Admissible)

	guest := person.Person{PersonID: "IT4", Roles: []string{person.RoleGuest}}
	dec = policy.ForDuty(guest)
	assert.False(t, dec.Admissible)
	assert.Equal(t, "person is not a project member", dec.Reason)
}

func TestCatalog_ValidSubType(t *testing.T) {
	catalog := NewCatalog(testDutyConfig())

	tests := []struct {
		typ     string
		subType string
		want    bool
	}{
		{typ: "presentation", subType: "proposal", want: true},
		{typ: "presentation", subType: "final", want: true},
		{typ: "presentation", subType: "finalThesis"},
		{typ: "report", subType: "finalThesis", want: true},
		{typ: "report", subType: "logBook", want: true},
		{typ: "report", subType: "proposal"},
		{typ: "report", subType: "LogBook"}, // catalog entries are case-sensitive
		{typ: "thesis", subType: "proposal"},
	}
	for _, tt := range tests {
		t.Run(tt.typ+"/"+tt.subType, func(t *testing.T) {
			assert.Equal(t, tt.want, catalog.ValidSubType(tt.typ, tt.subType))
		})
	}
}
