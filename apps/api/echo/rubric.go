package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/projeval/projeval/core"
	"github.com/projeval/projeval/core/rubric"
)

type rubricApi struct {
	svc *rubric.Service
}

func registerRubricAPI(g *echo.Group, svc *rubric.Service) {
	api := rubricApi{svc: svc}

	rg := g.Group("/rubrics")
	rg.POST("", api.create)
	rg.GET("", api.query)
	rg.GET("/search", api.search)
	rg.GET("/:id", api.retrieve)
	rg.PUT("/:id", api.update)
	rg.DELETE("/:id", api.destroy)
}

func (api *rubricApi) create(ctx echo.Context) error {
	var data rubric.NewRubric
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRubric")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	rub, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating rubric")
	}
	return ctx.JSON(http.StatusCreated, rub)
}

func (api *rubricApi) query(ctx echo.Context) error {
	ordering := new(Ordering)
	ordering.Bind(ctx)

	rubrics, err := api.svc.QueryAll(ctx.Request().Context(), ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying rubrics")
	}
	if rubrics == nil {
		rubrics = []rubric.Rubric{}
	}
	return ctx.JSON(http.StatusOK, rubrics)
}

// search matches the key against rubricID, topic and type; matching is
// case-sensitive and unanchored. An empty key returns no matches.
func (api *rubricApi) search(ctx echo.Context) error {
	key := ctx.QueryParam("key")
	if key == "" {
		return ctx.JSON(http.StatusOK, []rubric.Rubric{})
	}

	rubrics, err := api.svc.Search(ctx.Request().Context(), key)
	if err != nil {
		return errors.Wrap(err, "searching rubrics")
	}
	if rubrics == nil {
		rubrics = []rubric.Rubric{}
	}
	return ctx.JSON(http.StatusOK, rubrics)
}

func (api *rubricApi) retrieve(ctx echo.Context) error {
	rub, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == rubric.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding rubric by ID")
	}
	return ctx.JSON(http.StatusOK, rub)
}

func (api *rubricApi) update(ctx echo.Context) error {
	var data rubric.UpdateRubric
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateRubric")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	rub, err := api.svc.Update(ctx.Request().Context(), core.CleanString(ctx.Param("id")), data)
	if err != nil {
		if errors.Cause(err) == rubric.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating rubric")
	}
	return ctx.JSON(http.StatusOK, rub)
}

func (api *rubricApi) destroy(ctx echo.Context) error {
	if _, err := api.svc.Delete(ctx.Request().Context(), core.CleanString(ctx.Param("id"))); err != nil {
		if errors.Cause(err) == rubric.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting rubric")
	}
	return ctx.NoContent(http.StatusNoContent)
}
