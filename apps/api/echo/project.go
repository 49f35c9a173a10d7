package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/nafasihq/nafasi/core/assign"
	"github.com/nafasihq/nafasi/core/project"
)

type projectApi struct {
	svc       *project.Service
	assignSvc *assign.Service
	validate  *validator.Validate
}

func registerProjectAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := projectApi{
		svc:       opts.ProjectSvc,
		assignSvc: opts.AssignSvc,
		validate:  opts.Validate,
	}

	pg := g.Group("/projects", jwt, managerMiddleware())
	pg.POST("", api.create)
	pg.GET("", api.query)
	pg.GET("/:id", api.retrieve)
	pg.PUT("/:id", api.update)
	pg.DELETE("/:id", api.destroy)

	// assignment ledger
	ag := pg.Group("/:id/assignments")
	ag.POST("", api.commitAssignments)
	ag.POST("/screen", api.screenAssignments)
	ag.PUT("/:recordID", api.editAssignment)
	ag.DELETE("/:recordID", api.removeAssignment)
}

func (api *projectApi) create(ctx echo.Context) error {
	var data project.NewProject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewProject")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	proj, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating project")
	}
	return ctx.JSON(http.StatusCreated, newProjectResponse(proj))
}

func (api *projectApi) query(ctx echo.Context) error {
	filter := new(project.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []project.Project{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	var projs []project.Project
	var err error
	if filter.IsEmpty() && ordering.Orderings == nil {
		projs, err = api.svc.QueryAll(ctx.Request().Context())
	} else {
		projs, err = api.svc.Filter(ctx.Request().Context(), *filter, ordering.Orderings...)
	}
	if err != nil {
		return errors.Wrap(err, "querying projects")
	}

	res := make([]ProjectResponse, 0, len(projs))
	for _, proj := range projs {
		res = append(res, newProjectResponse(proj))
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *projectApi) retrieve(ctx echo.Context) error {
	proj, err := api.getObject(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, newProjectResponse(proj))
}

func (api *projectApi) update(ctx echo.Context) error {
	proj, err := api.getObject(ctx)
	if err != nil {
		return err
	}

	var data project.UpdateProject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateProject")
	}
	if err := data.Validate(api.validate, proj); err != nil {
		return err
	}

	proj, err = api.svc.Update(ctx.Request().Context(), proj.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating project")
	}
	return ctx.JSON(http.StatusOK, newProjectResponse(proj))
}

func (api *projectApi) destroy(ctx echo.Context) error {
	proj, err := api.getObject(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), proj.ID); err != nil {
		return errors.Wrap(err, "deleting project")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Assignment handlers

func (api *projectApi) commitAssignments(ctx echo.Context) error {
	proj, err := api.getObject(ctx)
	if err != nil {
		return err
	}

	var data CommitAssignmentsRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CommitAssignmentsRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	committed, err := api.assignSvc.Commit(ctx.Request().Context(), proj.ID, data.Proposals, data.AcknowledgeDuplicates)
	if err != nil {
		if dupErr, ok := errors.Cause(err).(*assign.DuplicateError); ok {
			assignmentDuplicatesFlagged.Add(float64(len(dupErr.Duplicates)))
		}
		return err
	}
	assignmentsCommitted.Add(float64(len(committed.Assignments) - len(proj.Assignments)))
	return ctx.JSON(http.StatusCreated, newProjectResponse(committed))
}

func (api *projectApi) screenAssignments(ctx echo.Context) error {
	proj, err := api.getObject(ctx)
	if err != nil {
		return err
	}

	var data CommitAssignmentsRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CommitAssignmentsRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	screening, err := api.assignSvc.Screen(ctx.Request().Context(), proj.ID, data.Proposals)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, screening)
}

func (api *projectApi) editAssignment(ctx echo.Context) error {
	proj, err := api.getObject(ctx)
	if err != nil {
		return err
	}
	recordID, err := strconv.Atoi(ctx.Param("recordID"))
	if err != nil {
		return errHttpNotFound
	}

	var data EditAssignmentRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EditAssignmentRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	updated, err := api.assignSvc.Edit(ctx.Request().Context(), proj.ID, recordID, data.Role, data.Workload)
	if err != nil {
		if errors.Cause(err) == project.ErrAssignmentNotFound {
			return errHttpNotFound
		}
		return err
	}
	return ctx.JSON(http.StatusOK, newProjectResponse(updated))
}

func (api *projectApi) removeAssignment(ctx echo.Context) error {
	proj, err := api.getObject(ctx)
	if err != nil {
		return err
	}
	recordID, err := strconv.Atoi(ctx.Param("recordID"))
	if err != nil {
		return errHttpNotFound
	}

	updated, err := api.assignSvc.Remove(ctx.Request().Context(), proj.ID, recordID)
	if err != nil {
		if errors.Cause(err) == project.ErrAssignmentNotFound {
			return errHttpNotFound
		}
		return err
	}
	return ctx.JSON(http.StatusOK, newProjectResponse(updated))
}

func (api *projectApi) getObject(ctx echo.Context) (project.Project, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return project.Project{}, errHttpNotFound
	}
	proj, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		if errors.Cause(err) == project.ErrNotFound {
			return project.Project{}, errHttpNotFound
		}
		return project.Project{}, errors.Wrap(err, "finding project by ID")
	}
	return proj, nil
}

type (
	// ProjectResponse decorates a project with its derived remaining role
	// needs so clients never compute (or cache) them.
	ProjectResponse struct {
		project.Project
		RemainingQuotas []project.RoleQuota `json:"remaining_quotas"`
	}

	CommitAssignmentsRequest struct {
		Proposals             []assign.Proposal `json:"proposals" validate:"required,dive"`
		AcknowledgeDuplicates bool              `json:"acknowledge_duplicates"`
	}

	EditAssignmentRequest struct {
		Role     string `json:"role"`
		Workload int    `json:"workload" validate:"required"`
	}
)

func newProjectResponse(proj project.Project) ProjectResponse {
	return ProjectResponse{Project: proj, RemainingQuotas: proj.RemainingQuotas()}
}

func (cr *CommitAssignmentsRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(cr)
}

func (er *EditAssignmentRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(er)
}
