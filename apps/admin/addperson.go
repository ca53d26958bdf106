package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/projeval/projeval/core/person"
)

// addPerson registers a new Person; existing emails are rejected.
func (cli *commandLine) addPerson(first, last, email, contact, staffPost string, roles []string) error {
	ctx := context.Background()

	if contact == "" {
		contact = "N/A"
	}
	if roles == nil {
		roles = []string{person.RoleStaff}
	}

	np := person.NewPerson{
		FirstName: first,
		LastName:  last,
		Email:     email,
		ContactNo: contact,
		Roles:     roles,
		StaffPost: staffPost,
	}
	if err := np.Validate(ctx, cli.personSvc); err != nil {
		return err
	}

	per, err := cli.personSvc.Create(ctx, np)
	if err != nil {
		return errors.Wrap(err, "creating person")
	}
	logger.Printf("created %s (%s)", per.FullName(), per.PersonID)
	return nil
}
