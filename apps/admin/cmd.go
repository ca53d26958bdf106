package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/projeval/projeval/core/person"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db        *sql.DB
	personSvc *person.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS] - run database migrations (up, down, status, ...)")
	fmt.Println("  addperson -first FIRST -last LAST -email EMAIL [-contact NO] [-roles R1,R2] [-staffpost POST] - register a person")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addPersonCmd := flag.NewFlagSet("addperson", flag.ExitOnError)
	addPersonFirst := addPersonCmd.String("first", "", "The person's first name.")
	addPersonLast := addPersonCmd.String("last", "", "The person's last name.")
	addPersonEmail := addPersonCmd.String("email", "", "The person's email address.")
	addPersonContact := addPersonCmd.String("contact", "", "The person's contact number.")
	addPersonRoles := addPersonCmd.String("roles", "", "Comma-separated roles (staff, supervisor, member, ...).")
	addPersonStaffPost := addPersonCmd.String("staffpost", "", "The person's staff post, if any.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "addperson":
		if err := addPersonCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addPersonFirst == "" || *addPersonLast == "" || *addPersonEmail == "" {
			addPersonCmd.Usage()
			return errHelp
		}
		var roles []string
		if *addPersonRoles != "" {
			roles = strings.Split(*addPersonRoles, ",")
		}
		return cli.addPerson(*addPersonFirst, *addPersonLast, *addPersonEmail, *addPersonContact, *addPersonStaffPost, roles)
	default:
		cli.printUsage()
		return errHelp
	}
}
