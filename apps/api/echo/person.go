package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/projeval/projeval/core"
	"github.com/projeval/projeval/core/person"
)

type personApi struct {
	svc *person.Service
}

func registerPersonAPI(g *echo.Group, svc *person.Service) {
	api := personApi{svc: svc}

	pg := g.Group("/persons")
	pg.POST("", api.create)
	pg.GET("", api.query)
	pg.GET("/roles", api.queryRoles)
	pg.GET("/:ref", api.retrieve)
}

func (api *personApi) create(ctx echo.Context) error {
	var data person.NewPerson
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPerson")
	}
	if err := data.Validate(ctx.Request().Context(), api.svc); err != nil {
		return err
	}

	per, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating person")
	}
	return ctx.JSON(http.StatusCreated, per)
}

func (api *personApi) query(ctx echo.Context) error {
	filter := new(person.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []person.Person{})
	}

	var (
		persons []person.Person
		err     error
	)
	if role := core.CleanString(filter.Role, true /* lower */); role != "" {
		persons, err = api.svc.FilterByRole(ctx.Request().Context(), role)
	} else {
		persons, err = api.svc.QueryAll(ctx.Request().Context())
	}
	if err != nil {
		return errors.Wrap(err, "querying persons")
	}
	if persons == nil {
		persons = []person.Person{}
	}
	return ctx.JSON(http.StatusOK, persons)
}

func (api *personApi) retrieve(ctx echo.Context) error {
	per, err := api.svc.GetByRef(ctx.Request().Context(), ctx.Param("ref"))
	if err != nil {
		if errors.Cause(err) == person.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding person by ref")
	}
	return ctx.JSON(http.StatusOK, per)
}

func (api *personApi) queryRoles(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, person.AllRoles)
}
