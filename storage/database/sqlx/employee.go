package sqlxrepos

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/nafasihq/nafasi/core"
	"github.com/nafasihq/nafasi/core/employee"
)

type employeeRow struct {
	ID        int            `db:"id"`
	Name      string         `db:"name"`
	Title     null.String    `db:"title"`
	Skills    pq.StringArray `db:"skills"`
	Status    string         `db:"status"`
	Projects  pq.StringArray `db:"projects"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func (r employeeRow) unmarshal() employee.Employee {
	return employee.Employee{
		ID:        r.ID,
		Name:      r.Name,
		Title:     r.Title.String,
		Skills:    r.Skills,
		Status:    r.Status,
		Projects:  r.Projects,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type employeeRepository struct {
	db *sqlx.DB
}

var _ employee.Repository = (*employeeRepository)(nil)

func NewEmployeeRepository(db *sqlx.DB) *employeeRepository {
	return &employeeRepository{db: db}
}

func (repo *employeeRepository) CreateEmployee(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	query := `
		INSERT INTO employee (name, title, skills, status, projects, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING *`
	skills := emp.Skills
	if skills == nil {
		skills = []string{}
	}
	projects := emp.Projects
	if projects == nil {
		projects = []string{}
	}
	var row employeeRow
	err := repo.db.GetContext(
		ctx, &row, query,
		emp.Name,
		null.NewString(emp.Title, emp.Title != ""),
		pq.Array(skills),
		emp.Status,
		pq.Array(projects),
		emp.CreatedAt.UTC(),
		emp.UpdatedAt.UTC(),
	)
	if err != nil {
		return employee.Employee{}, errors.Wrap(err, "creating employee")
	}
	return row.unmarshal(), nil
}

func (repo *employeeRepository) QueryAllEmployees(ctx context.Context) ([]employee.Employee, error) {
	var rows []employeeRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM employee ORDER BY id`); err != nil {
		return nil, errors.Wrap(err, "querying employees")
	}
	return unmarshalEmployees(rows), nil
}

func (repo *employeeRepository) GetEmployeeByID(ctx context.Context, id int) (employee.Employee, error) {
	var row employeeRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM employee WHERE id = $1`, id); err != nil {
		return employee.Employee{}, trapNoRowsErr(err, employee.ErrNotFound, "getting employee")
	}
	return row.unmarshal(), nil
}

func (repo *employeeRepository) FilterEmployees(ctx context.Context, filter employee.QueryFilter, orderings ...core.DBOrdering) ([]employee.Employee, error) {
	where := make([]string, 0, 4)
	args := make([]interface{}, 0, 4)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Search != "" {
		if filter.SearchBy == employee.SearchByID {
			where = append(where, "id::text LIKE "+arg("%"+filter.Search+"%"))
		} else {
			p := arg("%" + filter.Search + "%")
			where = append(where, fmt.Sprintf("(name ILIKE %[1]s OR title ILIKE %[1]s)", p))
		}
	}
	for _, skill := range filter.Skills {
		where = append(where, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM unnest(skills) s WHERE lower(s) = lower(%s))", arg(skill)))
	}
	if filter.BenchOnly {
		where = append(where, "cardinality(projects) = 0")
	}
	if len(filter.MatchSkills) > 0 {
		conds := make([]string, 0, len(filter.MatchSkills))
		for _, skill := range filter.MatchSkills {
			conds = append(conds, fmt.Sprintf(
				"EXISTS (SELECT 1 FROM unnest(skills) s WHERE lower(s) = lower(%s))", arg(skill)))
		}
		where = append(where, "("+strings.Join(conds, " OR ")+")")
	}

	query := `SELECT * FROM employee`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += orderBy(orderings, map[string]bool{"id": true, "name": true, "title": true, "created_at": true})

	var rows []employeeRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "filtering employees")
	}
	return unmarshalEmployees(rows), nil
}

func (repo *employeeRepository) UpdateEmployee(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	// only save set fields
	set := make([]string, 0, 6)
	args := make([]interface{}, 0, 6)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if emp.Name != "" {
		set = append(set, "name = "+arg(emp.Name))
	}
	if emp.Title != "" {
		set = append(set, "title = "+arg(emp.Title))
	}
	if emp.Skills != nil {
		set = append(set, "skills = "+arg(pq.Array(emp.Skills)))
	}
	if emp.Status != "" {
		set = append(set, "status = "+arg(emp.Status))
	}
	if emp.Projects != nil {
		set = append(set, "projects = "+arg(pq.Array(emp.Projects)))
	}
	if !emp.UpdatedAt.IsZero() {
		set = append(set, "updated_at = "+arg(emp.UpdatedAt.UTC()))
	}
	if len(set) == 0 {
		return repo.GetEmployeeByID(ctx, emp.ID)
	}

	query := fmt.Sprintf(`UPDATE employee SET %s WHERE id = %s RETURNING *`, strings.Join(set, ", "), arg(emp.ID))
	var row employeeRow
	if err := repo.db.GetContext(ctx, &row, query, args...); err != nil {
		return employee.Employee{}, trapNoRowsErr(err, employee.ErrNotFound, "updating employee")
	}
	return row.unmarshal(), nil
}

func (repo *employeeRepository) DeleteEmployeesByID(ctx context.Context, ids ...int) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM employee WHERE id = ANY($1)`, pq.Array(ids))
	return errors.Wrap(err, "deleting employees")
}

func unmarshalEmployees(rows []employeeRow) []employee.Employee {
	emps := make([]employee.Employee, 0, len(rows))
	for _, row := range rows {
		emps = append(emps, row.unmarshal())
	}
	return emps
}
