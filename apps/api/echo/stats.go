package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/projeval/projeval/core/assignment"
	"github.com/projeval/projeval/core/person"
	"github.com/projeval/projeval/core/rubric"
	"github.com/projeval/projeval/core/schedule"
)

type statsApi struct {
	personSvc   *person.Service
	rubricSvc   *rubric.Service
	scheduleSvc *schedule.Service
	coord       *assignment.Coordinator
}

type StatsResponse struct {
	Persons     int `json:"persons"`
	Rubrics     int `json:"rubrics"`
	Schedules   int `json:"schedules"`
	Assignments int `json:"assignments"`
}

func registerStatsAPI(
	g *echo.Group,
	personSvc *person.Service,
	rubricSvc *rubric.Service,
	scheduleSvc *schedule.Service,
	coord *assignment.Coordinator,
) {
	api := statsApi{
		personSvc:   personSvc,
		rubricSvc:   rubricSvc,
		scheduleSvc: scheduleSvc,
		coord:       coord,
	}
	g.GET("/stats", api.retrieve)
}

func (api *statsApi) retrieve(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var (
		stats StatsResponse
		err   error
	)
	if stats.Persons, err = api.personSvc.Count(reqCtx); err != nil {
		return errors.Wrap(err, "counting persons")
	}
	if stats.Rubrics, err = api.rubricSvc.Count(reqCtx); err != nil {
		return errors.Wrap(err, "counting rubrics")
	}
	if stats.Schedules, err = api.scheduleSvc.Count(reqCtx); err != nil {
		return errors.Wrap(err, "counting schedules")
	}
	if stats.Assignments, err = api.coord.Count(reqCtx); err != nil {
		return errors.Wrap(err, "counting assignments")
	}
	return ctx.JSON(http.StatusOK, stats)
}
