package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/projeval/projeval/core"
	"github.com/projeval/projeval/core/assignment"
	"github.com/projeval/projeval/core/person"
	"github.com/projeval/projeval/core/rubric"
	"github.com/projeval/projeval/core/schedule"
)

type (
	ServerDeps struct {
		Conf           *core.Config
		Logger         core.Logger
		PersonSvc      *person.Service
		RubricSvc      *rubric.Service
		ScheduleSvc    *schedule.Service
		Coordinator    *assignment.Coordinator
		DisableReqLogs bool
	}

	Server interface {
		http.Handler
		Start()
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
		Shutdown(context.Context) error
		Close() error
	}

	server struct {
		deps     ServerDeps
		app      *echo.Echo
		errChan  chan error
		shutChan chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	s := &server{
		deps:     deps,
		app:      echo.New(),
		errChan:  make(chan error, 1),
		shutChan: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutChan, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.signalShutdown)
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	registerPersonAPI(v1, s.deps.PersonSvc)
	registerRubricAPI(v1, s.deps.RubricSvc)
	registerScheduleAPI(v1, s.deps.ScheduleSvc)
	registerAssignmentAPI(v1, s.deps.Coordinator)
	registerStatsAPI(v1, s.deps.PersonSvc, s.deps.RubricSvc, s.deps.ScheduleSvc, s.deps.Coordinator)
}

func (s *server) Start() {
	s.errChan <- s.app.Start(s.deps.Conf.Server.Address())
}

func (s *server) Errors() <-chan error {
	return s.errChan
}

func (s *server) ShutdownSignal() <-chan os.Signal {
	return s.shutChan
}

// signalShutdown sends a SIGTERM down the shutdown channel whenever an
// unrecoverable error is caught, asking for a graceful shutdown.
func (s *server) signalShutdown() {
	s.shutChan <- syscall.SIGTERM
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to the Project Evaluation API!")
}
