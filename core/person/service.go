package person

import (
	"context"
	"errors"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/projeval/projeval/core"
)

var (
	// errors
	ErrNotFound    = errors.New("person not found")
	ErrEmailExists = errors.New("a person with this email already exists")
)

type (
	Repository interface {
		CheckEmailUniqueness(ctx context.Context, email string) error
		CountPersons(ctx context.Context) (int, error)
		CreatePerson(ctx context.Context, p Person) (Person, error)
		QueryAllPersons(ctx context.Context) ([]Person, error)
		// GetPersonByRef looks a Person up by personID or email.
		GetPersonByRef(ctx context.Context, ref string) (Person, error)
		FilterPersonsByRole(ctx context.Context, role string) ([]Person, error)
	}

	Service struct {
		repo  Repository
		alloc core.IdentifierAllocator
	}
)

func NewService(repo Repository, alloc core.IdentifierAllocator) *Service {
	return &Service{repo: repo, alloc: alloc}
}

func (svc *Service) CheckEmailUniqueness(ctx context.Context, email string) error {
	if err := svc.repo.CheckEmailUniqueness(ctx, email); err != nil {
		if err == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, np NewPerson) (Person, error) {
	personID, err := svc.alloc.NextID(ctx, IDPrefix)
	if err != nil {
		return Person{}, err
	}

	now := time.Now().UTC()
	p := Person{
		PersonID:  personID,
		FirstName: np.FirstName,
		LastName:  np.LastName,
		Email:     np.Email,
		ContactNo: np.ContactNo,
		Roles:     np.Roles,
		StaffPost: null.NewString(np.StaffPost, np.StaffPost != ""),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreatePerson(ctx, p)
}

func (svc *Service) Count(ctx context.Context) (int, error) {
	return svc.repo.CountPersons(ctx)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Person, error) {
	return svc.repo.QueryAllPersons(ctx)
}

func (svc *Service) GetByRef(ctx context.Context, ref string) (Person, error) {
	return svc.repo.GetPersonByRef(ctx, core.CleanString(ref))
}

func (svc *Service) FilterByRole(ctx context.Context, role string) ([]Person, error) {
	return svc.repo.FilterPersonsByRole(ctx, core.CleanString(role, true /* lower */))
}
