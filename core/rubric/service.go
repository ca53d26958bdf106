package rubric

import (
	"context"
	"errors"
	"time"

	"github.com/projeval/projeval/core"
)

var (
	// errors
	ErrNotFound = errors.New("rubric not found")
	ErrIDExists = errors.New("a rubric with this ID already exists")
)

type (
	Repository interface {
		CountRubrics(ctx context.Context) (int, error)
		CreateRubric(ctx context.Context, r Rubric) (Rubric, error)
		QueryAllRubrics(ctx context.Context, orderings ...core.DBOrdering) ([]Rubric, error)
		GetRubricByID(ctx context.Context, rubricID string) (Rubric, error)
		// UpdateRubric replaces topic, criteria, marks and type of the rubric
		// matching rubricID. Returns ErrNotFound when no rubric matches.
		UpdateRubric(ctx context.Context, r Rubric) (Rubric, error)
		// DeleteRubric removes the rubric matching rubricID.
		// Returns ErrNotFound when no rubric matches.
		DeleteRubric(ctx context.Context, rubricID string) (Rubric, error)
		// SearchRubrics returns every rubric whose rubricID, topic or type
		// contains key as a case-sensitive substring. An empty result is a
		// valid, empty slice.
		SearchRubrics(ctx context.Context, key string) ([]Rubric, error)
	}

	Service struct {
		repo  Repository
		alloc core.IdentifierAllocator
	}
)

func NewService(repo Repository, alloc core.IdentifierAllocator) *Service {
	return &Service{repo: repo, alloc: alloc}
}

func (svc *Service) Create(ctx context.Context, nr NewRubric) (Rubric, error) {
	rubricID, err := svc.alloc.NextID(ctx, IDPrefix)
	if err != nil {
		return Rubric{}, err
	}

	now := time.Now().UTC()
	r := Rubric{
		RubricID:  rubricID,
		Topic:     nr.Topic,
		Criteria:  nr.Criteria,
		Marks:     nr.Marks,
		Type:      nr.Type,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateRubric(ctx, r)
}

func (svc *Service) Count(ctx context.Context) (int, error) {
	return svc.repo.CountRubrics(ctx)
}

func (svc *Service) QueryAll(ctx context.Context, orderings ...core.DBOrdering) ([]Rubric, error) {
	return svc.repo.QueryAllRubrics(ctx, orderings...)
}

func (svc *Service) GetByID(ctx context.Context, rubricID string) (Rubric, error) {
	return svc.repo.GetRubricByID(ctx, core.CleanString(rubricID))
}

func (svc *Service) Update(ctx context.Context, rubricID string, ur UpdateRubric) (Rubric, error) {
	r := Rubric{
		RubricID:  core.CleanString(rubricID),
		Topic:     ur.Topic,
		Criteria:  ur.Criteria,
		Marks:     ur.Marks,
		Type:      ur.Type,
		UpdatedAt: time.Now().UTC(),
	}
	return svc.repo.UpdateRubric(ctx, r)
}

func (svc *Service) Delete(ctx context.Context, rubricID string) (Rubric, error) {
	return svc.repo.DeleteRubric(ctx, core.CleanString(rubricID))
}

// Search matches key against rubricID, topic and type with OR semantics.
// Matching is unanchored and case-sensitive, mirroring the lookup the
// coordinator UI performs.
func (svc *Service) Search(ctx context.Context, key string) ([]Rubric, error) {
	return svc.repo.SearchRubrics(ctx, core.CleanString(key))
}
