package sqlxrepos

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/nafasihq/nafasi/core"
	"github.com/nafasihq/nafasi/core/project"
)

type projectRow struct {
	ID               int            `db:"id"`
	Name             string         `db:"name"`
	Status           string         `db:"status"`
	Deadline         null.Time      `db:"deadline"`
	Description      null.String    `db:"description"`
	ShortDescription null.String    `db:"short_description"`
	RequiredSkills   pq.StringArray `db:"required_skills"`
	RoleQuotas       []byte         `db:"role_quotas"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
}

func (r projectRow) unmarshal() (project.Project, error) {
	var quotas []project.RoleQuota
	if len(r.RoleQuotas) > 0 {
		if err := json.Unmarshal(r.RoleQuotas, &quotas); err != nil {
			return project.Project{}, errors.Wrap(err, "unmarshalling role quotas")
		}
	}
	return project.Project{
		ID:               r.ID,
		Name:             r.Name,
		Status:           r.Status,
		Deadline:         r.Deadline.Time,
		Description:      r.Description.String,
		ShortDescription: r.ShortDescription.String,
		RequiredSkills:   r.RequiredSkills,
		RoleQuotas:       quotas,
		Assignments:      []project.Assignment{},
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}, nil
}

type assignmentRow struct {
	ID         int       `db:"id"`
	ProjectID  int       `db:"project_id"`
	EmployeeID int       `db:"employee_id"`
	Role       string    `db:"role"`
	Workload   int       `db:"workload"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (r assignmentRow) unmarshal() project.Assignment {
	return project.Assignment{
		ID:         r.ID,
		EmployeeID: r.EmployeeID,
		Role:       r.Role,
		Workload:   r.Workload,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

type projectRepository struct {
	db *sqlx.DB
}

var _ project.Repository = (*projectRepository)(nil)

func NewProjectRepository(db *sqlx.DB) *projectRepository {
	return &projectRepository{db: db}
}

func (repo *projectRepository) CreateProject(ctx context.Context, proj project.Project) (project.Project, error) {
	quotas, err := marshalQuotas(proj.RoleQuotas)
	if err != nil {
		return project.Project{}, err
	}
	skills := proj.RequiredSkills
	if skills == nil {
		skills = []string{}
	}

	query := `
		INSERT INTO project (name, status, deadline, description, short_description, required_skills, role_quotas, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING *`
	var row projectRow
	err = repo.db.GetContext(
		ctx, &row, query,
		proj.Name,
		proj.Status,
		null.NewTime(proj.Deadline, !proj.Deadline.IsZero()),
		null.NewString(proj.Description, proj.Description != ""),
		null.NewString(proj.ShortDescription, proj.ShortDescription != ""),
		pq.Array(skills),
		quotas,
		proj.CreatedAt.UTC(),
		proj.UpdatedAt.UTC(),
	)
	if err != nil {
		return project.Project{}, errors.Wrap(err, "creating project")
	}
	return row.unmarshal()
}

func (repo *projectRepository) QueryAllProjects(ctx context.Context) ([]project.Project, error) {
	var rows []projectRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM project ORDER BY id`); err != nil {
		return nil, errors.Wrap(err, "querying projects")
	}
	return repo.unmarshalProjects(ctx, rows)
}

func (repo *projectRepository) GetProjectByID(ctx context.Context, id int) (project.Project, error) {
	var row projectRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM project WHERE id = $1`, id); err != nil {
		return project.Project{}, trapNoRowsErr(err, project.ErrNotFound, "getting project")
	}
	proj, err := row.unmarshal()
	if err != nil {
		return project.Project{}, err
	}
	if proj.Assignments, err = repo.queryAssignments(ctx, proj.ID); err != nil {
		return project.Project{}, err
	}
	return proj, nil
}

func (repo *projectRepository) FilterProjects(ctx context.Context, filter project.QueryFilter, orderings ...core.DBOrdering) ([]project.Project, error) {
	where := make([]string, 0, 2)
	args := make([]interface{}, 0, 2)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Search != "" {
		if filter.SearchBy == "id" {
			where = append(where, "id::text LIKE "+arg("%"+filter.Search+"%"))
		} else {
			where = append(where, "name ILIKE "+arg("%"+filter.Search+"%"))
		}
	}
	if filter.Status != "" {
		where = append(where, "status = "+arg(filter.Status))
	}

	query := `SELECT * FROM project`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += orderBy(orderings, map[string]bool{"id": true, "name": true, "status": true, "deadline": true, "created_at": true})

	var rows []projectRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "filtering projects")
	}
	return repo.unmarshalProjects(ctx, rows)
}

func (repo *projectRepository) UpdateProject(ctx context.Context, proj project.Project) (project.Project, error) {
	// only save set fields
	set := make([]string, 0, 8)
	args := make([]interface{}, 0, 8)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if proj.Name != "" {
		set = append(set, "name = "+arg(proj.Name))
	}
	if proj.Status != "" {
		set = append(set, "status = "+arg(proj.Status))
	}
	if !proj.Deadline.IsZero() {
		set = append(set, "deadline = "+arg(proj.Deadline.UTC()))
	}
	if proj.Description != "" {
		set = append(set, "description = "+arg(proj.Description))
	}
	if proj.ShortDescription != "" {
		set = append(set, "short_description = "+arg(proj.ShortDescription))
	}
	if proj.RequiredSkills != nil {
		set = append(set, "required_skills = "+arg(pq.Array(proj.RequiredSkills)))
	}
	if proj.RoleQuotas != nil {
		quotas, err := marshalQuotas(proj.RoleQuotas)
		if err != nil {
			return project.Project{}, err
		}
		set = append(set, "role_quotas = "+arg(quotas))
	}
	if !proj.UpdatedAt.IsZero() {
		set = append(set, "updated_at = "+arg(proj.UpdatedAt.UTC()))
	}
	if len(set) == 0 {
		return repo.GetProjectByID(ctx, proj.ID)
	}

	query := fmt.Sprintf(`UPDATE project SET %s WHERE id = %s RETURNING *`, strings.Join(set, ", "), arg(proj.ID))
	var row projectRow
	if err := repo.db.GetContext(ctx, &row, query, args...); err != nil {
		return project.Project{}, trapNoRowsErr(err, project.ErrNotFound, "updating project")
	}
	updated, err := row.unmarshal()
	if err != nil {
		return project.Project{}, err
	}
	if updated.Assignments, err = repo.queryAssignments(ctx, updated.ID); err != nil {
		return project.Project{}, err
	}
	return updated, nil
}

func (repo *projectRepository) DeleteProjectsByID(ctx context.Context, ids ...int) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM project WHERE id = ANY($1)`, pq.Array(ids))
	return errors.Wrap(err, "deleting projects")
}

func (repo *projectRepository) AddAssignments(ctx context.Context, projectID int, recs ...project.Assignment) (project.Project, error) {
	query := `
		INSERT INTO assignment (project_id, employee_id, role, workload, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, rec := range recs {
		_, err := repo.db.ExecContext(
			ctx, query,
			projectID, rec.EmployeeID, rec.Role, rec.Workload,
			rec.CreatedAt.UTC(), rec.UpdatedAt.UTC(),
		)
		if err != nil {
			return project.Project{}, errors.Wrap(err, "adding assignment")
		}
	}
	return repo.GetProjectByID(ctx, projectID)
}

func (repo *projectRepository) UpdateAssignment(ctx context.Context, projectID int, rec project.Assignment) (project.Project, error) {
	query := `
		UPDATE assignment SET role = $1, workload = $2, updated_at = $3
		WHERE id = $4 AND project_id = $5`
	res, err := repo.db.ExecContext(ctx, query, rec.Role, rec.Workload, rec.UpdatedAt.UTC(), rec.ID, projectID)
	if err != nil {
		return project.Project{}, errors.Wrap(err, "updating assignment")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return project.Project{}, project.ErrAssignmentNotFound
	}
	return repo.GetProjectByID(ctx, projectID)
}

func (repo *projectRepository) RemoveAssignment(ctx context.Context, projectID, recordID int) (project.Project, error) {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM assignment WHERE id = $1 AND project_id = $2`, recordID, projectID)
	if err != nil {
		return project.Project{}, errors.Wrap(err, "removing assignment")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return project.Project{}, project.ErrAssignmentNotFound
	}
	return repo.GetProjectByID(ctx, projectID)
}

func (repo *projectRepository) queryAssignments(ctx context.Context, projectID int) ([]project.Assignment, error) {
	var rows []assignmentRow
	err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM assignment WHERE project_id = $1 ORDER BY id`, projectID)
	if err != nil {
		return nil, errors.Wrap(err, "querying assignments")
	}
	recs := make([]project.Assignment, 0, len(rows))
	for _, row := range rows {
		recs = append(recs, row.unmarshal())
	}
	return recs, nil
}

func (repo *projectRepository) unmarshalProjects(ctx context.Context, rows []projectRow) ([]project.Project, error) {
	projs := make([]project.Project, 0, len(rows))
	for _, row := range rows {
		proj, err := row.unmarshal()
		if err != nil {
			return nil, err
		}
		if proj.Assignments, err = repo.queryAssignments(ctx, proj.ID); err != nil {
			return nil, err
		}
		projs = append(projs, proj)
	}
	return projs, nil
}

func marshalQuotas(quotas []project.RoleQuota) ([]byte, error) {
	if quotas == nil {
		quotas = []project.RoleQuota{}
	}
	data, err := json.Marshal(quotas)
	return data, errors.Wrap(err, "marshalling role quotas")
}
