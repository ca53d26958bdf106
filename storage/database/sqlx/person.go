package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/volatiletech/null/v8"

	"github.com/projeval/projeval/core/person"
)

type dbPerson struct {
	Key       string         `db:"key"`
	PersonID  string         `db:"person_id"`
	FirstName string         `db:"first_name"`
	LastName  string         `db:"last_name"`
	Email     string         `db:"email"`
	ContactNo string         `db:"contact_no"`
	Roles     pq.StringArray `db:"roles"`
	StaffPost null.String    `db:"staff_post"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func (row dbPerson) toPerson() person.Person {
	return person.Person{
		Key:       row.Key,
		PersonID:  row.PersonID,
		FirstName: row.FirstName,
		LastName:  row.LastName,
		Email:     row.Email,
		ContactNo: row.ContactNo,
		Roles:     row.Roles,
		StaffPost: row.StaffPost,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func toPersons(rows []dbPerson) []person.Person {
	persons := make([]person.Person, 0, len(rows))
	for _, row := range rows {
		persons = append(persons, row.toPerson())
	}
	return persons
}

type personRepository struct {
	db *sqlx.DB
}

var _ person.Repository = (*personRepository)(nil) // interface compliance check

func NewPersonRepository(db *sqlx.DB) person.Repository {
	return &personRepository{db: db}
}

func (repo *personRepository) CheckEmailUniqueness(ctx context.Context, email string) error {
	var exists bool
	err := repo.db.GetContext(ctx, &exists, "SELECT EXISTS (SELECT 1 FROM person WHERE email = $1)", email)
	if err != nil {
		return storageErr("checking email uniqueness", err)
	}
	if exists {
		return person.ErrEmailExists
	}
	return nil
}

func (repo *personRepository) CountPersons(ctx context.Context) (int, error) {
	var count int
	if err := repo.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM person"); err != nil {
		return 0, storageErr("counting persons", err)
	}
	return count, nil
}

func (repo *personRepository) CreatePerson(ctx context.Context, p person.Person) (person.Person, error) {
	p.Key = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO person (key, person_id, first_name, last_name, email, contact_no, roles, staff_post, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.Key, p.PersonID, p.FirstName, p.LastName, p.Email, p.ContactNo,
		pq.StringArray(p.Roles), p.StaffPost, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "person_email_key") {
			return person.Person{}, person.ErrEmailExists
		}
		return person.Person{}, storageErr("creating person", err)
	}
	return p, nil
}

func (repo *personRepository) QueryAllPersons(ctx context.Context) ([]person.Person, error) {
	var rows []dbPerson
	err := repo.db.SelectContext(ctx, &rows, "SELECT * FROM person ORDER BY person_id")
	if err != nil {
		return nil, storageErr("querying persons", err)
	}
	return toPersons(rows), nil
}

func (repo *personRepository) GetPersonByRef(ctx context.Context, ref string) (person.Person, error) {
	var row dbPerson
	err := repo.db.GetContext(ctx, &row, "SELECT * FROM person WHERE person_id = $1 OR email = $1", ref)
	if err == sql.ErrNoRows {
		return person.Person{}, person.ErrNotFound
	}
	if err != nil {
		return person.Person{}, storageErr("getting person", err)
	}
	return row.toPerson(), nil
}

func (repo *personRepository) FilterPersonsByRole(ctx context.Context, role string) ([]person.Person, error) {
	var rows []dbPerson
	err := repo.db.SelectContext(ctx, &rows, "SELECT * FROM person WHERE $1 = ANY (roles) ORDER BY person_id", role)
	if err != nil {
		return nil, storageErr("filtering persons", err)
	}
	return toPersons(rows), nil
}
