package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/projeval/projeval/core"
	"github.com/projeval/projeval/core/rubric"
)

type rubricRepository struct {
	db *rubricTable
}

var _ rubric.Repository = (*rubricRepository)(nil) // interface compliance check

func NewRubricRepository(db *DB) rubric.Repository {
	return &rubricRepository{db: db.rubric}
}

func (repo *rubricRepository) query() []rubric.Rubric {
	rubrics := make([]rubric.Rubric, 0, len(repo.db.table))
	for _, r := range repo.db.table {
		rubrics = append(rubrics, *r)
	}
	sort.Slice(rubrics, func(i, j int) bool { return rubrics[i].CreatedAt.Before(rubrics[j].CreatedAt) })
	return rubrics
}

func (repo *rubricRepository) CountRubrics(ctx context.Context) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return len(repo.db.table), nil
}

func (repo *rubricRepository) CreateRubric(ctx context.Context, r rubric.Rubric) (rubric.Rubric, error) {
	repo.db.Lock()
	defer repo.db.Unlock()
	return repo.create(r)
}

// create inserts without locking; callers hold the table lock.
func (repo *rubricRepository) create(r rubric.Rubric) (rubric.Rubric, error) {
	for _, existing := range repo.db.table {
		if existing.RubricID == r.RubricID {
			return rubric.Rubric{}, rubric.ErrIDExists
		}
	}
	r.Key = uuid.New().String()
	repo.db.table[r.Key] = &r
	return r, nil
}

func (repo *rubricRepository) QueryAllRubrics(ctx context.Context, orderings ...core.DBOrdering) ([]rubric.Rubric, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	rubrics := repo.query()
	for i := len(orderings) - 1; i >= 0; i-- {
		sortRubrics(rubrics, orderings[i])
	}
	return rubrics, nil
}

func sortRubrics(rubrics []rubric.Rubric, ord core.DBOrdering) {
	var less func(a, b rubric.Rubric) bool
	switch ord.Field {
	case "topic":
		less = func(a, b rubric.Rubric) bool { return a.Topic < b.Topic }
	case "marks":
		less = func(a, b rubric.Rubric) bool { return a.Marks < b.Marks }
	case "type":
		less = func(a, b rubric.Rubric) bool { return a.Type < b.Type }
	case "rubricID":
		less = func(a, b rubric.Rubric) bool { return a.RubricID < b.RubricID }
	default:
		return
	}
	sort.SliceStable(rubrics, func(i, j int) bool {
		if ord.Ascending {
			return less(rubrics[i], rubrics[j])
		}
		return less(rubrics[j], rubrics[i])
	})
}

func (repo *rubricRepository) GetRubricByID(ctx context.Context, rubricID string) (rubric.Rubric, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, r := range repo.db.table {
		if r.RubricID == rubricID {
			return *r, nil
		}
	}
	return rubric.Rubric{}, rubric.ErrNotFound
}

func (repo *rubricRepository) UpdateRubric(ctx context.Context, upd rubric.Rubric) (rubric.Rubric, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, r := range repo.db.table {
		if r.RubricID == upd.RubricID {
			r.Topic = upd.Topic
			r.Criteria = upd.Criteria
			r.Marks = upd.Marks
			r.Type = upd.Type
			r.UpdatedAt = upd.UpdatedAt
			return *r, nil
		}
	}
	return rubric.Rubric{}, rubric.ErrNotFound
}

func (repo *rubricRepository) DeleteRubric(ctx context.Context, rubricID string) (rubric.Rubric, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for key, r := range repo.db.table {
		if r.RubricID == rubricID {
			deleted := *r
			delete(repo.db.table, key)
			return deleted, nil
		}
	}
	return rubric.Rubric{}, rubric.ErrNotFound
}

func (repo *rubricRepository) SearchRubrics(ctx context.Context, key string) ([]rubric.Rubric, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	// case-sensitive unanchored match on any of rubricID, topic or type
	matched := make([]rubric.Rubric, 0)
	for _, r := range repo.query() {
		if strings.Contains(r.RubricID, key) ||
			strings.Contains(r.Topic, key) ||
			strings.Contains(r.Type, key) {
			matched = append(matched, r)
		}
	}
	return matched, nil
}
