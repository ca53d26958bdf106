package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/projeval/projeval/core"
	"github.com/projeval/projeval/core/person"
	"github.com/projeval/projeval/storage/database"
	sqlxrepos "github.com/projeval/projeval/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.LoadConfig()
	errAndDie(err)

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(db.Ping())

	sqlxDB := sqlx.NewDb(db, "postgres")

	// start CLI
	cli := commandLine{
		db:        db,
		personSvc: person.NewService(sqlxrepos.NewPersonRepository(sqlxDB), sqlxrepos.NewIdentifierAllocator(sqlxDB)),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
