package assign

import (
	"context"
	"fmt"
	"time"

	"github.com/nafasihq/nafasi/core"
	"github.com/nafasihq/nafasi/core/employee"
	"github.com/nafasihq/nafasi/core/project"
)

// DuplicateError reports proposals that duplicate existing (employee, role)
// records on the target project. The caller must acknowledge them before the
// remainder of the batch can commit; nothing commits until then.
type DuplicateError struct {
	Duplicates []Proposal
}

func (e *DuplicateError) Error() string {
	return "proposed assignments duplicate existing records and require confirmation"
}

// Screening is the outcome of validating and duplicate-screening a batch
// without committing it.
type Screening struct {
	Valid      []Proposal `json:"valid"`
	Duplicates []Proposal `json:"duplicates"`
}

// Service is the assignment ledger: it commits, edits and removes
// assignment records while keeping employee-side active-project lists and
// per-project workload totals consistent.
type Service struct {
	projRepo project.Repository
	empRepo  employee.Repository
}

func NewService(projRepo project.Repository, empRepo employee.Repository) *Service {
	return &Service{projRepo: projRepo, empRepo: empRepo}
}

// Workload reports the employee's committed and remaining workload
// percentages across all projects.
func (svc *Service) Workload(ctx context.Context, employeeID int) (current, available int, err error) {
	if _, err = svc.empRepo.GetEmployeeByID(ctx, employeeID); err != nil {
		return 0, 0, err
	}
	projects, err := svc.projRepo.QueryAllProjects(ctx)
	if err != nil {
		return 0, 0, err
	}
	current = CurrentWorkload(projects, employeeID)
	return current, AvailableWorkload(projects, employeeID), nil
}

// Screen validates a batch against the current workload snapshot and
// partitions it into committable and duplicate proposals, without mutating
// anything.
func (svc *Service) Screen(ctx context.Context, projectID int, proposals []Proposal) (Screening, error) {
	proj, emps, projects, err := svc.load(ctx, projectID, proposals)
	if err != nil {
		return Screening{}, err
	}
	if err = Validate(proposals, emps, projects); err != nil {
		return Screening{}, err
	}
	valid, dups := Partition(proposals, proj)
	return Screening{Valid: valid, Duplicates: dups}, nil
}

// Commit validates the batch, screens it for duplicates and appends the
// committable records to the project's assignment list. If duplicates are
// found and ackDuplicates is false, a *DuplicateError is returned and
// nothing commits; with ackDuplicates set, the duplicate entries are dropped
// and the remainder commits.
func (svc *Service) Commit(ctx context.Context, projectID int, proposals []Proposal, ackDuplicates bool) (project.Project, error) {
	proj, emps, projects, err := svc.load(ctx, projectID, proposals)
	if err != nil {
		return project.Project{}, err
	}

	// validation runs against a snapshot of current totals at confirmation time
	if err = Validate(proposals, emps, projects); err != nil {
		return project.Project{}, err
	}

	valid, dups := Partition(proposals, proj)
	if len(dups) > 0 && !ackDuplicates {
		return project.Project{}, &DuplicateError{Duplicates: dups}
	}
	if len(valid) == 0 {
		return proj, nil
	}

	now := time.Now().UTC()
	recs := make([]project.Assignment, 0, len(valid))
	for _, prop := range valid {
		recs = append(recs, project.Assignment{
			EmployeeID: prop.EmployeeID,
			Role:       prop.Role,
			Workload:   prop.Workload,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}
	proj, err = svc.projRepo.AddAssignments(ctx, projectID, recs...)
	if err != nil {
		return project.Project{}, err
	}

	// maintain the employee-side active-project lists
	for _, prop := range valid {
		emp := emps[prop.EmployeeID]
		if err = svc.addEmployeeProject(ctx, emp, proj.Name); err != nil {
			return project.Project{}, err
		}
	}
	return proj, nil
}

// Edit replaces the role and/or workload of an existing record. It re-runs
// the same workload-ceiling validation used by Commit, counting the record's
// own current workload out of the employee's total, so an edit can never
// silently push an employee past 100%.
func (svc *Service) Edit(ctx context.Context, projectID, recordID int, newRole string, newWorkload int) (project.Project, error) {
	proj, err := svc.projRepo.GetProjectByID(ctx, projectID)
	if err != nil {
		return project.Project{}, err
	}
	rec, ok := proj.GetAssignment(recordID)
	if !ok {
		return project.Project{}, project.ErrAssignmentNotFound
	}
	emp, err := svc.empRepo.GetEmployeeByID(ctx, rec.EmployeeID)
	if err != nil {
		return project.Project{}, err
	}

	if newRole == "" {
		newRole = rec.Role
	}
	if newRole != rec.Role && proj.HasAssignment(rec.EmployeeID, newRole) {
		return project.Project{}, &DuplicateError{
			Duplicates: []Proposal{{EmployeeID: rec.EmployeeID, Role: newRole, Workload: newWorkload}},
		}
	}

	projects, err := svc.projRepo.QueryAllProjects(ctx)
	if err != nil {
		return project.Project{}, err
	}
	current := CurrentWorkload(projects, rec.EmployeeID) - workloadValue(rec.Workload)
	if newWorkload <= 0 || newWorkload > 100 || current+newWorkload > 100 {
		return project.Project{}, core.NewValidationError(fmt.Errorf(
			"invalid workload allocation for: %s. Employee workload cannot exceed 100%%.", emp.Name,
		))
	}

	rec.Role = newRole
	rec.Workload = newWorkload
	rec.UpdatedAt = time.Now().UTC()
	return svc.projRepo.UpdateAssignment(ctx, projectID, rec)
}

// Remove deletes a single assignment record and prunes the project from the
// employee's active-project list when no other record for that employee
// remains on the project. The role's remaining quota recovers on its own
// since it is derived from the assignment list.
func (svc *Service) Remove(ctx context.Context, projectID, recordID int) (project.Project, error) {
	proj, err := svc.projRepo.GetProjectByID(ctx, projectID)
	if err != nil {
		return project.Project{}, err
	}
	rec, ok := proj.GetAssignment(recordID)
	if !ok {
		return project.Project{}, project.ErrAssignmentNotFound
	}

	proj, err = svc.projRepo.RemoveAssignment(ctx, projectID, recordID)
	if err != nil {
		return project.Project{}, err
	}

	if len(proj.AssignmentsFor(rec.EmployeeID)) == 0 {
		emp, err := svc.empRepo.GetEmployeeByID(ctx, rec.EmployeeID)
		if err != nil {
			return project.Project{}, err
		}
		if err = svc.removeEmployeeProject(ctx, emp, proj.Name); err != nil {
			return project.Project{}, err
		}
	}
	return proj, nil
}

// load fetches the target project, the proposals' employees and the full
// project list used as the workload snapshot.
func (svc *Service) load(ctx context.Context, projectID int, proposals []Proposal) (project.Project, map[int]employee.Employee, []project.Project, error) {
	proj, err := svc.projRepo.GetProjectByID(ctx, projectID)
	if err != nil {
		return project.Project{}, nil, nil, err
	}

	emps := make(map[int]employee.Employee, len(proposals))
	for _, prop := range proposals {
		if _, ok := emps[prop.EmployeeID]; ok {
			continue
		}
		emp, err := svc.empRepo.GetEmployeeByID(ctx, prop.EmployeeID)
		if err != nil {
			return project.Project{}, nil, nil, err
		}
		emps[prop.EmployeeID] = emp
	}

	projects, err := svc.projRepo.QueryAllProjects(ctx)
	if err != nil {
		return project.Project{}, nil, nil, err
	}
	return proj, emps, projects, nil
}

func (svc *Service) addEmployeeProject(ctx context.Context, emp employee.Employee, name string) error {
	for _, n := range emp.Projects {
		if n == name {
			return nil
		}
	}
	projects := append(append([]string{}, emp.Projects...), name)
	_, err := svc.empRepo.UpdateEmployee(ctx, employee.Employee{
		ID:        emp.ID,
		Projects:  projects,
		UpdatedAt: time.Now().UTC(),
	})
	return err
}

func (svc *Service) removeEmployeeProject(ctx context.Context, emp employee.Employee, name string) error {
	projects := make([]string, 0, len(emp.Projects))
	for _, n := range emp.Projects {
		if n != name {
			projects = append(projects, n)
		}
	}
	_, err := svc.empRepo.UpdateEmployee(ctx, employee.Employee{
		ID:        emp.ID,
		Projects:  projects,
		UpdatedAt: time.Now().UTC(),
	})
	return err
}
