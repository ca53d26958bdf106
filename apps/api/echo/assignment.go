package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/projeval/projeval/core/assignment"
)

type assignmentApi struct {
	coord *assignment.Coordinator
}

func registerAssignmentAPI(g *echo.Group, coord *assignment.Coordinator) {
	api := assignmentApi{coord: coord}

	ag := g.Group("/assignments")
	ag.POST("", api.assign)
	ag.GET("", api.query)

	ag.POST("/supervisors", api.assignSupervisor)
	ag.GET("/supervisors", api.querySupervisors)

	ag.POST("/members", api.assignMember)
	ag.GET("/members", api.queryMembers)
}

func (api *assignmentApi) assign(ctx echo.Context) error {
	var data assignment.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	res, err := api.coord.Assign(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, res)
}

func (api *assignmentApi) query(ctx echo.Context) error {
	assignments, err := api.coord.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying assignments")
	}
	if assignments == nil {
		assignments = []assignment.Assignment{}
	}
	return ctx.JSON(http.StatusOK, assignments)
}

func (api *assignmentApi) assignSupervisor(ctx echo.Context) error {
	var data assignment.NewSupervisor
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSupervisor")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	sup, err := api.coord.AssignSupervisor(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, sup)
}

func (api *assignmentApi) querySupervisors(ctx echo.Context) error {
	supervisors, err := api.coord.QuerySupervisors(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying supervisors")
	}
	if supervisors == nil {
		supervisors = []assignment.Supervisor{}
	}
	return ctx.JSON(http.StatusOK, supervisors)
}

func (api *assignmentApi) assignMember(ctx echo.Context) error {
	var data assignment.NewMember
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMember")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	mem, err := api.coord.AssignMember(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, mem)
}

func (api *assignmentApi) queryMembers(ctx echo.Context) error {
	members, err := api.coord.QueryMembers(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying members")
	}
	if members == nil {
		members = []assignment.Member{}
	}
	return ctx.JSON(http.StatusOK, members)
}
