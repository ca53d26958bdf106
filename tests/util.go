package testutil

import (
	"context"
	"testing"

	"github.com/projeval/projeval/core/person"
	"github.com/projeval/projeval/core/rubric"
)

func CreatePerson(
	t *testing.T,
	svc *person.Service,
	first, last, email string,
	roles []string,
	staffPost string,
) person.Person {
	t.Helper()

	per, err := svc.Create(context.Background(), person.NewPerson{
		FirstName: first,
		LastName:  last,
		Email:     email,
		ContactNo: "0123456789",
		Roles:     roles,
		StaffPost: staffPost,
	})
	if err != nil {
		t.Fatalf("CreatePerson() failed: %v", err)
	}
	return per
}

func CreateRubric(
	t *testing.T,
	svc *rubric.Service,
	topic, typ string,
	marks int,
	criteria ...rubric.Criterion,
) rubric.Rubric {
	t.Helper()

	rub, err := svc.Create(context.Background(), rubric.NewRubric{
		Topic:    topic,
		Type:     typ,
		Marks:    marks,
		Criteria: criteria,
	})
	if err != nil {
		t.Fatalf("CreateRubric() failed: %v", err)
	}
	return rub
}
