package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/nafasihq/nafasi/core/assign"
	"github.com/nafasihq/nafasi/core/employee"
	"github.com/nafasihq/nafasi/core/project"
)

type employeeApi struct {
	svc       *employee.Service
	projSvc   *project.Service
	assignSvc *assign.Service
	validate  *validator.Validate
}

func registerEmployeeAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := employeeApi{
		svc:       opts.EmployeeSvc,
		projSvc:   opts.ProjectSvc,
		assignSvc: opts.AssignSvc,
		validate:  opts.Validate,
	}

	eg := g.Group("/employees", jwt, managerMiddleware())
	eg.POST("", api.create)
	eg.GET("", api.query)
	eg.GET("/:id", api.retrieve)
	eg.PUT("/:id", api.update)
	eg.DELETE("/:id", api.destroy)
	eg.GET("/:id/workload", api.workload)
}

func (api *employeeApi) create(ctx echo.Context) error {
	var data employee.NewEmployee
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEmployee")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	emp, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating employee")
	}
	return ctx.JSON(http.StatusCreated, emp)
}

// query is the assignment candidate selection surface. The `project` query
// param narrows the list to employees sharing at least one of that project's
// required skills.
func (api *employeeApi) query(ctx echo.Context) error {
	filter := new(employee.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []employee.Employee{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	if projParam := ctx.QueryParam("project"); projParam != "" {
		projectID, err := strconv.Atoi(projParam)
		if err != nil {
			return errHttpNotFound
		}
		proj, err := api.projSvc.GetByID(ctx.Request().Context(), projectID)
		if err != nil {
			if errors.Cause(err) == project.ErrNotFound {
				return errHttpNotFound
			}
			return errors.Wrap(err, "finding project by ID")
		}
		filter.MatchSkills = proj.RequiredSkills
	}

	var emps []employee.Employee
	var err error
	if filter.IsEmpty() && ordering.Orderings == nil {
		emps, err = api.svc.QueryAll(ctx.Request().Context())
	} else {
		emps, err = api.svc.Filter(ctx.Request().Context(), *filter, ordering.Orderings...)
	}
	if err != nil {
		return errors.Wrap(err, "querying employees")
	}
	if emps == nil {
		emps = []employee.Employee{}
	}
	return ctx.JSON(http.StatusOK, emps)
}

func (api *employeeApi) retrieve(ctx echo.Context) error {
	emp, err := api.getObject(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, emp)
}

func (api *employeeApi) update(ctx echo.Context) error {
	emp, err := api.getObject(ctx)
	if err != nil {
		return err
	}

	var data employee.UpdateEmployee
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateEmployee")
	}
	if err := data.Validate(api.validate, emp); err != nil {
		return err
	}

	emp, err = api.svc.Update(ctx.Request().Context(), emp.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating employee")
	}
	return ctx.JSON(http.StatusOK, emp)
}

func (api *employeeApi) destroy(ctx echo.Context) error {
	emp, err := api.getObject(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), emp.ID); err != nil {
		return errors.Wrap(err, "deleting employee")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// workload reports the employee's committed and remaining workload
// percentages across all projects.
func (api *employeeApi) workload(ctx echo.Context) error {
	emp, err := api.getObject(ctx)
	if err != nil {
		return err
	}

	current, available, err := api.assignSvc.Workload(ctx.Request().Context(), emp.ID)
	if err != nil {
		return errors.Wrap(err, "computing workload")
	}
	return ctx.JSON(http.StatusOK, WorkloadResponse{
		EmployeeID: emp.ID,
		Current:    current,
		Available:  available,
	})
}

func (api *employeeApi) getObject(ctx echo.Context) (employee.Employee, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return employee.Employee{}, errHttpNotFound
	}
	emp, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		if errors.Cause(err) == employee.ErrNotFound {
			return employee.Employee{}, errHttpNotFound
		}
		return employee.Employee{}, errors.Wrap(err, "finding employee by ID")
	}
	return emp, nil
}

type WorkloadResponse struct {
	EmployeeID int `json:"employee_id"`
	Current    int `json:"current"`
	Available  int `json:"available"`
}
