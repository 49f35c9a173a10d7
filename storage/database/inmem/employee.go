package inmemdb

import (
	"context"
	"sort"

	"github.com/nafasihq/nafasi/core"
	"github.com/nafasihq/nafasi/core/employee"
)

type employeeRepository struct {
	db *employeeTable
}

var _ employee.Repository = (*employeeRepository)(nil)

func NewEmployeeRepository(db *DB) *employeeRepository {
	return &employeeRepository{db: db.emp}
}

func (repo *employeeRepository) query() []employee.Employee {
	emps := make([]employee.Employee, 0, len(repo.db.table))
	for _, e := range repo.db.table {
		emps = append(emps, *e)
	}
	return emps
}

func (repo *employeeRepository) CreateEmployee(_ context.Context, emp employee.Employee) (employee.Employee, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if emp.ID == 0 {
		repo.db.seq++
		emp.ID = 1000 + repo.db.seq
	} else if emp.ID > 1000+repo.db.seq {
		// seeded fixtures carry their own ids
		repo.db.seq = emp.ID - 1000
	}
	repo.db.table[emp.ID] = &emp
	return emp, nil
}

func (repo *employeeRepository) QueryAllEmployees(_ context.Context) ([]employee.Employee, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	emps := repo.query()
	sortEmployees(emps, nil)
	return emps, nil
}

func (repo *employeeRepository) GetEmployeeByID(_ context.Context, id int) (employee.Employee, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if emp, ok := repo.db.table[id]; ok {
		return *emp, nil
	}
	return employee.Employee{}, employee.ErrNotFound
}

func (repo *employeeRepository) FilterEmployees(_ context.Context, filter employee.QueryFilter, orderings ...core.DBOrdering) ([]employee.Employee, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	emps := make([]employee.Employee, 0)
	for _, emp := range repo.query() {
		if filter.Match(emp) {
			emps = append(emps, emp)
		}
	}
	sortEmployees(emps, orderings)
	return emps, nil
}

func (repo *employeeRepository) UpdateEmployee(_ context.Context, emp employee.Employee) (employee.Employee, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	// only save set fields
	orig, ok := repo.db.table[emp.ID]
	if !ok {
		return employee.Employee{}, employee.ErrNotFound
	}
	if emp.Name != "" {
		orig.Name = emp.Name
	}
	if emp.Title != "" {
		orig.Title = emp.Title
	}
	if emp.Skills != nil {
		orig.Skills = emp.Skills
	}
	if emp.Status != "" {
		orig.Status = emp.Status
	}
	if emp.Projects != nil {
		orig.Projects = emp.Projects
	}
	if !emp.UpdatedAt.IsZero() {
		orig.UpdatedAt = emp.UpdatedAt
	}
	return *orig, nil
}

func (repo *employeeRepository) DeleteEmployeesByID(_ context.Context, ids ...int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}

func sortEmployees(emps []employee.Employee, orderings []core.DBOrdering) {
	if len(orderings) == 0 {
		sort.Slice(emps, func(i, j int) bool { return emps[i].ID < emps[j].ID })
		return
	}
	ord := orderings[0]
	sort.Slice(emps, func(i, j int) bool {
		var less bool
		switch ord.Field {
		case "name":
			less = emps[i].Name < emps[j].Name
		case "title":
			less = emps[i].Title < emps[j].Title
		default:
			less = emps[i].ID < emps[j].ID
		}
		if !ord.Ascending {
			return !less
		}
		return less
	})
}
