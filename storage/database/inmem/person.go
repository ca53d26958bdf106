package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/projeval/projeval/core/person"
)

type personRepository struct {
	db *personTable
}

var _ person.Repository = (*personRepository)(nil) // interface compliance check

func NewPersonRepository(db *DB) person.Repository {
	return &personRepository{db: db.person}
}

func (repo *personRepository) query() []person.Person {
	persons := make([]person.Person, 0, len(repo.db.table))
	for _, p := range repo.db.table {
		persons = append(persons, *p)
	}
	sort.Slice(persons, func(i, j int) bool { return persons[i].PersonID < persons[j].PersonID })
	return persons
}

func (repo *personRepository) CheckEmailUniqueness(ctx context.Context, email string) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, p := range repo.db.table {
		if p.Email == email {
			return person.ErrEmailExists
		}
	}
	return nil
}

func (repo *personRepository) CountPersons(ctx context.Context) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return len(repo.db.table), nil
}

func (repo *personRepository) CreatePerson(ctx context.Context, p person.Person) (person.Person, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	p.Key = uuid.New().String()
	repo.db.table[p.Key] = &p
	return p, nil
}

func (repo *personRepository) QueryAllPersons(ctx context.Context) ([]person.Person, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *personRepository) GetPersonByRef(ctx context.Context, ref string) (person.Person, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, p := range repo.db.table {
		if (p.PersonID == ref) || (p.Email == ref) {
			return *p, nil
		}
	}
	return person.Person{}, person.ErrNotFound
}

func (repo *personRepository) FilterPersonsByRole(ctx context.Context, role string) ([]person.Person, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var filtered []person.Person
	for _, p := range repo.query() {
		if p.HasRole(role) {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}
