package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/projeval/projeval/core/schedule"
)

type scheduleApi struct {
	svc *schedule.Service
}

func registerScheduleAPI(g *echo.Group, svc *schedule.Service) {
	api := scheduleApi{svc: svc}

	sg := g.Group("/schedules")
	sg.GET("", api.query)
	sg.GET("/:id", api.retrieve)
}

func (api *scheduleApi) query(ctx echo.Context) error {
	schedules, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying schedules")
	}
	if schedules == nil {
		schedules = []schedule.Schedule{}
	}
	return ctx.JSON(http.StatusOK, schedules)
}

func (api *scheduleApi) retrieve(ctx echo.Context) error {
	sched, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == schedule.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding schedule by ID")
	}
	return ctx.JSON(http.StatusOK, sched)
}
