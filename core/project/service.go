package project

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/nafasihq/nafasi/core"
)

var (
	// errors
	ErrNotFound           = errors.New("project not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
)

type (
	Repository interface {
		CreateProject(ctx context.Context, proj Project) (Project, error)
		QueryAllProjects(ctx context.Context) ([]Project, error)
		GetProjectByID(ctx context.Context, id int) (Project, error)
		// FilterProjects applies AND operation on available QueryFilter fields.
		FilterProjects(ctx context.Context, filter QueryFilter, orderings ...core.DBOrdering) ([]Project, error)
		// UpdateProject only saves set fields; nil slices are left untouched.
		UpdateProject(ctx context.Context, proj Project) (Project, error)
		DeleteProjectsByID(ctx context.Context, ids ...int) error

		// assignment records
		AddAssignments(ctx context.Context, projectID int, recs ...Assignment) (Project, error)
		UpdateAssignment(ctx context.Context, projectID int, rec Assignment) (Project, error)
		RemoveAssignment(ctx context.Context, projectID, recordID int) (Project, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, np NewProject) (Project, error) {
	now := time.Now().UTC()
	proj := Project{
		Name:             np.Name,
		Status:           np.Status,
		Deadline:         np.Deadline,
		Description:      np.Description,
		ShortDescription: np.ShortDescription,
		RequiredSkills:   np.RequiredSkills,
		RoleQuotas:       np.RoleQuotas,
		Assignments:      []Assignment{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	return svc.repo.CreateProject(ctx, proj)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Project, error) {
	return svc.repo.QueryAllProjects(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id int) (Project, error) {
	return svc.repo.GetProjectByID(ctx, id)
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter, orderings ...core.DBOrdering) ([]Project, error) {
	return svc.repo.FilterProjects(ctx, filter, orderings...)
}

func (svc *Service) Update(ctx context.Context, id int, up UpdateProject) (Project, error) {
	proj := Project{
		ID:               id,
		Name:             up.Name,
		Status:           up.Status,
		Deadline:         up.Deadline,
		Description:      up.Description,
		ShortDescription: up.ShortDescription,
		RequiredSkills:   up.RequiredSkills,
		RoleQuotas:       up.RoleQuotas,
		UpdatedAt:        time.Now().UTC(),
	}
	return svc.repo.UpdateProject(ctx, proj)
}

func (svc *Service) Delete(ctx context.Context, ids ...int) error {
	return svc.repo.DeleteProjectsByID(ctx, ids...)
}
