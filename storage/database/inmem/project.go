package inmemdb

import (
	"context"
	"sort"

	"github.com/nafasihq/nafasi/core"
	"github.com/nafasihq/nafasi/core/project"
)

type projectRepository struct {
	db *projectTable
}

var _ project.Repository = (*projectRepository)(nil)

func NewProjectRepository(db *DB) *projectRepository {
	return &projectRepository{db: db.proj}
}

// clone copies a project so callers never share slices with the stored record.
func clone(proj project.Project) project.Project {
	proj.RequiredSkills = append([]string{}, proj.RequiredSkills...)
	proj.RoleQuotas = append([]project.RoleQuota{}, proj.RoleQuotas...)
	proj.Assignments = append([]project.Assignment{}, proj.Assignments...)
	return proj
}

func (repo *projectRepository) query() []project.Project {
	projs := make([]project.Project, 0, len(repo.db.table))
	for _, p := range repo.db.table {
		projs = append(projs, clone(*p))
	}
	return projs
}

func (repo *projectRepository) CreateProject(_ context.Context, proj project.Project) (project.Project, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if proj.ID == 0 {
		repo.db.seq++
		proj.ID = repo.db.seq
	} else if proj.ID > repo.db.seq {
		repo.db.seq = proj.ID
	}
	stored := clone(proj)
	repo.db.table[proj.ID] = &stored
	return clone(stored), nil
}

func (repo *projectRepository) QueryAllProjects(_ context.Context) ([]project.Project, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	projs := repo.query()
	sortProjects(projs, nil)
	return projs, nil
}

func (repo *projectRepository) GetProjectByID(_ context.Context, id int) (project.Project, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if proj, ok := repo.db.table[id]; ok {
		return clone(*proj), nil
	}
	return project.Project{}, project.ErrNotFound
}

func (repo *projectRepository) FilterProjects(_ context.Context, filter project.QueryFilter, orderings ...core.DBOrdering) ([]project.Project, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	projs := make([]project.Project, 0)
	for _, proj := range repo.query() {
		if filter.Match(proj) {
			projs = append(projs, proj)
		}
	}
	sortProjects(projs, orderings)
	return projs, nil
}

func (repo *projectRepository) UpdateProject(_ context.Context, proj project.Project) (project.Project, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	// only save set fields
	orig, ok := repo.db.table[proj.ID]
	if !ok {
		return project.Project{}, project.ErrNotFound
	}
	if proj.Name != "" {
		orig.Name = proj.Name
	}
	if proj.Status != "" {
		orig.Status = proj.Status
	}
	if !proj.Deadline.IsZero() {
		orig.Deadline = proj.Deadline
	}
	if proj.Description != "" {
		orig.Description = proj.Description
	}
	if proj.ShortDescription != "" {
		orig.ShortDescription = proj.ShortDescription
	}
	if proj.RequiredSkills != nil {
		orig.RequiredSkills = append([]string{}, proj.RequiredSkills...)
	}
	if proj.RoleQuotas != nil {
		orig.RoleQuotas = append([]project.RoleQuota{}, proj.RoleQuotas...)
	}
	if !proj.UpdatedAt.IsZero() {
		orig.UpdatedAt = proj.UpdatedAt
	}
	return clone(*orig), nil
}

func (repo *projectRepository) DeleteProjectsByID(_ context.Context, ids ...int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}

func (repo *projectRepository) AddAssignments(_ context.Context, projectID int, recs ...project.Assignment) (project.Project, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	proj, ok := repo.db.table[projectID]
	if !ok {
		return project.Project{}, project.ErrNotFound
	}
	for _, rec := range recs {
		repo.db.recSeq++
		rec.ID = repo.db.recSeq
		proj.Assignments = append(proj.Assignments, rec)
		proj.UpdatedAt = rec.UpdatedAt
	}
	return clone(*proj), nil
}

func (repo *projectRepository) UpdateAssignment(_ context.Context, projectID int, rec project.Assignment) (project.Project, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	proj, ok := repo.db.table[projectID]
	if !ok {
		return project.Project{}, project.ErrNotFound
	}
	for i, orig := range proj.Assignments {
		if orig.ID == rec.ID {
			rec.EmployeeID = orig.EmployeeID
			rec.CreatedAt = orig.CreatedAt
			proj.Assignments[i] = rec
			proj.UpdatedAt = rec.UpdatedAt
			return clone(*proj), nil
		}
	}
	return project.Project{}, project.ErrAssignmentNotFound
}

func (repo *projectRepository) RemoveAssignment(_ context.Context, projectID, recordID int) (project.Project, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	proj, ok := repo.db.table[projectID]
	if !ok {
		return project.Project{}, project.ErrNotFound
	}
	for i, rec := range proj.Assignments {
		if rec.ID == recordID {
			proj.Assignments = append(proj.Assignments[:i], proj.Assignments[i+1:]...)
			return clone(*proj), nil
		}
	}
	return project.Project{}, project.ErrAssignmentNotFound
}

func sortProjects(projs []project.Project, orderings []core.DBOrdering) {
	if len(orderings) == 0 {
		sort.Slice(projs, func(i, j int) bool { return projs[i].ID < projs[j].ID })
		return
	}
	ord := orderings[0]
	sort.Slice(projs, func(i, j int) bool {
		var less bool
		switch ord.Field {
		case "name":
			less = projs[i].Name < projs[j].Name
		case "deadline":
			less = projs[i].Deadline.Before(projs[j].Deadline)
		default:
			less = projs[i].ID < projs[j].ID
		}
		if !ord.Ascending {
			return !less
		}
		return less
	})
}
