package assignment

import (
	"github.com/projeval/projeval/core/person"
)

// Decision is the outcome of an eligibility check. Admissible says whether
// the assignment may proceed; Eligible is the true eligibility bit, which
// stays false when an override widened the check, so callers can flag
// ineligible-but-forced assignments.
type Decision struct {
	Admissible bool
	Eligible   bool
	Reason     string
}

// Policy is a pure predicate over a person snapshot; it holds no state
// beyond its configuration and performs no I/O. Callers are responsible
// for re-fetching fresh person state before consulting it.
type Policy struct {
	catalog  Catalog
	allowAll bool
}

func NewPolicy(catalog Catalog, allowAllSupervisors bool) *Policy {
	return &Policy{catalog: catalog, allowAll: allowAllSupervisors}
}

// ForSupervisor decides admissibility for supervisor duty: the person's
// staff post must be on the configured allow-list. force (or the global
// allow-all override) widens admission without changing the eligibility bit.
func (p *Policy) ForSupervisor(per person.Person, force bool) Decision {
	dec := Decision{Admissible: true, Eligible: true}
	if !p.catalog.EligibleStaffPost(per.StaffPost.String) {
		dec.Eligible = false
		dec.Reason = "staff post is not eligible for supervisor duty"
		dec.Admissible = force || p.allowAll
	}
	return dec
}

// ForDuty decides admissibility for marker or scheduler duty: the person's
// role set must contain the project-member role. The duplicate-duty check
// needs store state and is performed by the coordinator.
func (p *Policy) ForDuty(per person.Person) Decision {
	if !per.HasRole(person.RoleMember) {
		return Decision{Reason: "person is not a project member"}
	}
	return Decision{Admissible: true, Eligible: true}
}
