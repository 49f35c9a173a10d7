package employee

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/nafasihq/nafasi/core"
)

var ErrNotFound = errors.New("employee not found")

type (
	Repository interface {
		CreateEmployee(ctx context.Context, emp Employee) (Employee, error)
		QueryAllEmployees(ctx context.Context) ([]Employee, error)
		GetEmployeeByID(ctx context.Context, id int) (Employee, error)
		// FilterEmployees applies AND operation on available QueryFilter fields.
		FilterEmployees(ctx context.Context, filter QueryFilter, orderings ...core.DBOrdering) ([]Employee, error)
		// UpdateEmployee only saves set fields; nil slices are left untouched.
		UpdateEmployee(ctx context.Context, emp Employee) (Employee, error)
		DeleteEmployeesByID(ctx context.Context, ids ...int) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, ne NewEmployee) (Employee, error) {
	now := time.Now().UTC()
	emp := Employee{
		Name:      ne.Name,
		Title:     ne.Title,
		Skills:    ne.Skills,
		Status:    ne.Status,
		Projects:  []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateEmployee(ctx, emp)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Employee, error) {
	return svc.repo.QueryAllEmployees(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id int) (Employee, error) {
	return svc.repo.GetEmployeeByID(ctx, id)
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter, orderings ...core.DBOrdering) ([]Employee, error) {
	return svc.repo.FilterEmployees(ctx, filter, orderings...)
}

func (svc *Service) Update(ctx context.Context, id int, ue UpdateEmployee) (Employee, error) {
	emp := Employee{
		ID:        id,
		Name:      ue.Name,
		Title:     ue.Title,
		Skills:    ue.Skills,
		Status:    ue.Status,
		UpdatedAt: time.Now().UTC(),
	}
	return svc.repo.UpdateEmployee(ctx, emp)
}

func (svc *Service) Delete(ctx context.Context, ids ...int) error {
	return svc.repo.DeleteEmployeesByID(ctx, ids...)
}
