package person

import (
	"context"
	"strings"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/projeval/projeval/core"
)

// Roles
const (
	RoleStaff       = "staff"
	RoleSupervisor  = "supervisor"
	RoleMember      = "member"
	RoleCoordinator = "coordinator"
	RoleAdmin       = "admin"
	RoleStudent     = "student"
	RoleGuest       = "guest"
)

var AllRoles = []string{
	RoleStaff, RoleSupervisor, RoleMember, RoleCoordinator, RoleAdmin, RoleStudent, RoleGuest,
}

// IDPrefix codes student identifiers: IT1, IT2, ...
const IDPrefix = "IT"

type Person struct {
	Key       string      `json:"key"`
	PersonID  string      `json:"personID"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Email     string      `json:"email"`
	ContactNo string      `json:"contactNo"`
	Roles     []string    `json:"role"`
	StaffPost null.String `json:"staffPost,omitempty"`
	CreatedAt time.Time   `json:"createdAt"` // UTC
	UpdatedAt time.Time   `json:"updatedAt"` // UTC
}

func (p *Person) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// HasRole reports whether the person's role set contains role.
// Role tags are trimmed first; the source data carries stray whitespace.
func (p *Person) HasRole(role string) bool {
	for _, r := range p.Roles {
		if strings.TrimSpace(r) == role {
			return true
		}
	}
	return false
}

// NewPerson contains information needed to register a new Person.
type NewPerson struct {
	FirstName string   `json:"firstName" validate:"required"`
	LastName  string   `json:"lastName" validate:"required"`
	Email     string   `json:"email" validate:"required,email"`
	ContactNo string   `json:"contactNo" validate:"required"`
	Roles     []string `json:"role" validate:"required,min=1"`
	StaffPost string   `json:"staffPost"`
}

func (np *NewPerson) Validate(ctx context.Context, svc *Service) error {
	np.FirstName = core.CleanString(np.FirstName)
	np.LastName = core.CleanString(np.LastName)
	np.Email = core.CleanString(np.Email, true /* lower */)
	np.ContactNo = core.CleanString(np.ContactNo)
	np.StaffPost = core.CleanString(np.StaffPost)
	for i, r := range np.Roles {
		np.Roles[i] = core.CleanString(r)
	}

	if err := core.Validate.Struct(np); err != nil {
		return err
	}
	return svc.CheckEmailUniqueness(ctx, np.Email)
}

type QueryFilter struct {
	Role string `query:"role"`
}
