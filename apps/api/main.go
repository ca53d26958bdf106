package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/projeval/projeval/core"
	"github.com/projeval/projeval/core/assignment"
	"github.com/projeval/projeval/core/person"
	"github.com/projeval/projeval/core/rubric"
	"github.com/projeval/projeval/core/schedule"

	echoapi "github.com/projeval/projeval/apps/api/echo"
	emailsvc "github.com/projeval/projeval/services/email"
	logsvc "github.com/projeval/projeval/services/logger"
	"github.com/projeval/projeval/storage/database"
	sqlxrepos "github.com/projeval/projeval/storage/database/sqlx"
)

const shutdownTimeout = 20 * time.Second

func main() {
	// =========================================================================
	// Set up Dependencies

	conf, err := core.LoadConfig()
	if err != nil {
		log.Fatalf("loading configuration: %+v", err)
	}

	// set up loggers
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	var logger core.Logger
	if conf.Debug {
		logger = logsvc.NewStdLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, conf)
		logger.Enable(true)
	}

	// set up DB
	db, err := setUpDB(conf)
	if err != nil {
		logger.Error(fmt.Sprintf("setting up database: %v", err), err)
		os.Exit(1)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error("closing database", err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	alloc := sqlxrepos.NewIdentifierAllocator(db)
	personRepo := sqlxrepos.NewPersonRepository(db)
	personSvc := person.NewService(personRepo, alloc)
	rubricSvc := rubric.NewService(sqlxrepos.NewRubricRepository(db), alloc)
	scheduleSvc := schedule.NewService(sqlxrepos.NewScheduleRepository(db))
	coord := assignment.NewCoordinator(
		conf.Duties,
		sqlxrepos.NewAssignmentRepository(db),
		personRepo,
		alloc,
		mailSvc,
		logger,
	)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:        conf,
			Logger:      logger,
			PersonSvc:   personSvc,
			RubricSvc:   rubricSvc,
			ScheduleSvc: scheduleSvc,
			Coordinator: coord,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Error(fmt.Sprintf("server error: %v", err), err)
		os.Exit(1)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Error(fmt.Sprintf("could not force stop server: %v", err), err)
				os.Exit(1)
			}
		}
	}
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return sqlx.NewDb(db, "postgres"), nil
}
