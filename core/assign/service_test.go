package assign

import (
	"context"
	"testing"

	"github.com/pkg/errors"

	"github.com/nafasihq/nafasi/core"
	"github.com/nafasihq/nafasi/core/employee"
	"github.com/nafasihq/nafasi/core/project"
	inmemdb "github.com/nafasihq/nafasi/storage/database/inmem"
)

type serviceFixture struct {
	svc      *Service
	empRepo  employee.Repository
	projRepo project.Repository

	dilkini  employee.Employee
	asitha   employee.Employee
	redesign project.Project
	dbopt    project.Project
}

// newServiceFixture seeds Dilkini on the bench and Asitha 60% committed to
// the Database Optimization project.
func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	ctx := context.Background()

	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open(): %v", err)
	}
	empRepo := inmemdb.NewEmployeeRepository(db)
	projRepo := inmemdb.NewProjectRepository(db)

	dilkini, err := empRepo.CreateEmployee(ctx, employee.Employee{
		Name: "Dilkini", Title: "Software Engineer", Skills: []string{"Go"}, Status: employee.StatusActive, Projects: []string{},
	})
	if err != nil {
		t.Fatalf("CreateEmployee(): %v", err)
	}
	asitha, err := empRepo.CreateEmployee(ctx, employee.Employee{
		Name: "Asitha", Title: "Software Engineer", Skills: []string{"Go"}, Status: employee.StatusActive, Projects: []string{},
	})
	if err != nil {
		t.Fatalf("CreateEmployee(): %v", err)
	}

	redesign, err := projRepo.CreateProject(ctx, project.Project{
		Name:           "Website Redesign",
		Status:         project.StatusActive,
		RequiredSkills: []string{"Go"},
		RoleQuotas:     []project.RoleQuota{{Role: "Backend Developer", Count: 2}},
		Assignments:    []project.Assignment{},
	})
	if err != nil {
		t.Fatalf("CreateProject(): %v", err)
	}
	dbopt, err := projRepo.CreateProject(ctx, project.Project{
		Name:        "Database Optimization",
		Status:      project.StatusActive,
		RoleQuotas:  []project.RoleQuota{{Role: "Backend Developer", Count: 2}},
		Assignments: []project.Assignment{},
	})
	if err != nil {
		t.Fatalf("CreateProject(): %v", err)
	}

	dbopt, err = projRepo.AddAssignments(ctx, dbopt.ID, project.Assignment{
		EmployeeID: asitha.ID, Role: "Backend Developer", Workload: 60,
	})
	if err != nil {
		t.Fatalf("AddAssignments(): %v", err)
	}
	asitha, err = empRepo.UpdateEmployee(ctx, employee.Employee{ID: asitha.ID, Projects: []string{dbopt.Name}})
	if err != nil {
		t.Fatalf("UpdateEmployee(): %v", err)
	}

	return &serviceFixture{
		svc:      NewService(projRepo, empRepo),
		empRepo:  empRepo,
		projRepo: projRepo,
		dilkini:  dilkini,
		asitha:   asitha,
		redesign: redesign,
		dbopt:    dbopt,
	}
}

func TestService_Workload(t *testing.T) {
	fix := newServiceFixture(t)
	ctx := context.Background()

	current, available, err := fix.svc.Workload(ctx, fix.dilkini.ID)
	if err != nil {
		t.Fatalf("Workload(): %v", err)
	}
	if current != 0 || available != 100 {
		t.Errorf("Workload(Dilkini) = (%d, %d); want (0, 100)", current, available)
	}

	current, available, err = fix.svc.Workload(ctx, fix.asitha.ID)
	if err != nil {
		t.Fatalf("Workload(): %v", err)
	}
	if current != 60 || available != 40 {
		t.Errorf("Workload(Asitha) = (%d, %d); want (60, 40)", current, available)
	}

	if _, _, err = fix.svc.Workload(ctx, 9999); errors.Cause(err) != employee.ErrNotFound {
		t.Errorf("Workload(unknown) = %v; want %v", err, employee.ErrNotFound)
	}
}

func TestService_Commit(t *testing.T) {
	t.Run("commits the batch and maintains the ledger", func(t *testing.T) {
		fix := newServiceFixture(t)
		ctx := context.Background()

		proj, err := fix.svc.Commit(ctx, fix.redesign.ID, []Proposal{
			{EmployeeID: fix.dilkini.ID, Role: "Backend Developer", Workload: 40},
			{EmployeeID: fix.asitha.ID, Role: "Backend Developer", Workload: 40},
		}, false)
		if err != nil {
			t.Fatalf("Commit(): %v", err)
		}

		if len(proj.Assignments) != 2 {
			t.Fatalf("Assignments = %d; want 2", len(proj.Assignments))
		}
		if got := proj.Remaining("Backend Developer"); got != 0 {
			t.Errorf("Remaining() = %d; want 0", got)
		}

		dilkini, _ := fix.empRepo.GetEmployeeByID(ctx, fix.dilkini.ID)
		if len(dilkini.Projects) != 1 || dilkini.Projects[0] != proj.Name {
			t.Errorf("Dilkini.Projects = %v; want [%q]", dilkini.Projects, proj.Name)
		}

		current, _, err := fix.svc.Workload(ctx, fix.asitha.ID)
		if err != nil {
			t.Fatalf("Workload(): %v", err)
		}
		if current != 100 {
			t.Errorf("Workload(Asitha) = %d; want 100", current)
		}
	})

	t.Run("one invalid proposal rejects the whole batch", func(t *testing.T) {
		fix := newServiceFixture(t)
		ctx := context.Background()

		_, err := fix.svc.Commit(ctx, fix.redesign.ID, []Proposal{
			{EmployeeID: fix.dilkini.ID, Role: "Backend Developer", Workload: 40},
			{EmployeeID: fix.asitha.ID, Role: "Backend Developer", Workload: 50}, // 60 + 50 > 100
		}, false)
		if _, ok := errors.Cause(err).(*core.ValidationError); !ok {
			t.Fatalf("Commit() = %v; want *core.ValidationError", err)
		}

		// nothing committed, Dilkini's valid entry included
		proj, _ := fix.projRepo.GetProjectByID(ctx, fix.redesign.ID)
		if len(proj.Assignments) != 0 {
			t.Errorf("Assignments = %d; want 0", len(proj.Assignments))
		}
	})

	t.Run("unacknowledged duplicates block the commit", func(t *testing.T) {
		fix := newServiceFixture(t)
		ctx := context.Background()

		_, err := fix.svc.Commit(ctx, fix.dbopt.ID, []Proposal{
			{EmployeeID: fix.dilkini.ID, Role: "Backend Developer", Workload: 40},
			{EmployeeID: fix.asitha.ID, Role: "Backend Developer", Workload: 20}, // existing record
		}, false)
		dupErr, ok := errors.Cause(err).(*DuplicateError)
		if !ok {
			t.Fatalf("Commit() = %v; want *DuplicateError", err)
		}
		if len(dupErr.Duplicates) != 1 || dupErr.Duplicates[0].EmployeeID != fix.asitha.ID {
			t.Errorf("Duplicates = %v; want Asitha's entry", dupErr.Duplicates)
		}

		proj, _ := fix.projRepo.GetProjectByID(ctx, fix.dbopt.ID)
		if len(proj.Assignments) != 1 {
			t.Errorf("Assignments = %d; want 1 (nothing new committed)", len(proj.Assignments))
		}
	})

	t.Run("acknowledged duplicates are dropped, not merged", func(t *testing.T) {
		fix := newServiceFixture(t)
		ctx := context.Background()

		proj, err := fix.svc.Commit(ctx, fix.dbopt.ID, []Proposal{
			{EmployeeID: fix.dilkini.ID, Role: "Backend Developer", Workload: 40},
			{EmployeeID: fix.asitha.ID, Role: "Backend Developer", Workload: 20},
		}, true)
		if err != nil {
			t.Fatalf("Commit(): %v", err)
		}

		if len(proj.Assignments) != 2 {
			t.Fatalf("Assignments = %d; want 2", len(proj.Assignments))
		}
		// Asitha's existing record is untouched
		recs := proj.AssignmentsFor(fix.asitha.ID)
		if len(recs) != 1 || recs[0].Workload != 60 {
			t.Errorf("Asitha's records = %v; want the original 60%% record only", recs)
		}
	})

	t.Run("same employee different role is not a duplicate", func(t *testing.T) {
		fix := newServiceFixture(t)
		ctx := context.Background()

		proj, err := fix.svc.Commit(ctx, fix.dbopt.ID, []Proposal{
			{EmployeeID: fix.asitha.ID, Role: "Reviewer", Workload: 20},
		}, false)
		if err != nil {
			t.Fatalf("Commit(): %v", err)
		}
		if len(proj.AssignmentsFor(fix.asitha.ID)) != 2 {
			t.Errorf("Asitha's records = %d; want 2", len(proj.AssignmentsFor(fix.asitha.ID)))
		}
	})
}

func TestService_quotaRecovery(t *testing.T) {
	fix := newServiceFixture(t)
	ctx := context.Background()

	if got := fix.redesign.Remaining("Backend Developer"); got != 2 {
		t.Fatalf("Remaining() = %d; want 2", got)
	}

	proj, err := fix.svc.Commit(ctx, fix.redesign.ID, []Proposal{
		{EmployeeID: fix.dilkini.ID, Role: "Backend Developer", Workload: 40},
	}, false)
	if err != nil {
		t.Fatalf("Commit(): %v", err)
	}
	if got := proj.Remaining("Backend Developer"); got != 1 {
		t.Fatalf("Remaining() after commit = %d; want 1", got)
	}

	proj, err = fix.svc.Remove(ctx, proj.ID, proj.Assignments[0].ID)
	if err != nil {
		t.Fatalf("Remove(): %v", err)
	}
	if got := proj.Remaining("Backend Developer"); got != 2 {
		t.Errorf("Remaining() after removal = %d; want 2", got)
	}

	// the project is pruned from the employee's active list
	dilkini, _ := fix.empRepo.GetEmployeeByID(ctx, fix.dilkini.ID)
	if len(dilkini.Projects) != 0 {
		t.Errorf("Dilkini.Projects = %v; want none", dilkini.Projects)
	}
}

func TestService_Edit(t *testing.T) {
	t.Run("re-validates the ceiling without double counting", func(t *testing.T) {
		fix := newServiceFixture(t)
		ctx := context.Background()

		dbopt, _ := fix.projRepo.GetProjectByID(ctx, fix.dbopt.ID)
		recID := dbopt.Assignments[0].ID

		// 60 -> 100 is fine: the record's own workload is counted out first
		proj, err := fix.svc.Edit(ctx, fix.dbopt.ID, recID, "", 100)
		if err != nil {
			t.Fatalf("Edit(): %v", err)
		}
		if rec, _ := proj.GetAssignment(recID); rec.Workload != 100 {
			t.Errorf("Workload = %d; want 100", rec.Workload)
		}
	})

	t.Run("rejects an edit past the ceiling", func(t *testing.T) {
		fix := newServiceFixture(t)
		ctx := context.Background()

		// put Asitha at 60 + 40
		proj, err := fix.svc.Commit(ctx, fix.redesign.ID, []Proposal{
			{EmployeeID: fix.asitha.ID, Role: "Backend Developer", Workload: 40},
		}, false)
		if err != nil {
			t.Fatalf("Commit(): %v", err)
		}
		recID := proj.Assignments[0].ID

		// 40 -> 50 would make 110
		_, err = fix.svc.Edit(ctx, fix.redesign.ID, recID, "", 50)
		if _, ok := errors.Cause(err).(*core.ValidationError); !ok {
			t.Fatalf("Edit() = %v; want *core.ValidationError", err)
		}

		// the record is unchanged
		proj, _ = fix.projRepo.GetProjectByID(ctx, fix.redesign.ID)
		if rec, _ := proj.GetAssignment(recID); rec.Workload != 40 {
			t.Errorf("Workload = %d; want 40", rec.Workload)
		}
	})

	t.Run("role change into an existing record is a duplicate", func(t *testing.T) {
		fix := newServiceFixture(t)
		ctx := context.Background()

		proj, err := fix.svc.Commit(ctx, fix.dbopt.ID, []Proposal{
			{EmployeeID: fix.asitha.ID, Role: "Reviewer", Workload: 20},
		}, false)
		if err != nil {
			t.Fatalf("Commit(): %v", err)
		}
		var reviewerRecID int
		for _, rec := range proj.AssignmentsFor(fix.asitha.ID) {
			if rec.Role == "Reviewer" {
				reviewerRecID = rec.ID
			}
		}

		_, err = fix.svc.Edit(ctx, fix.dbopt.ID, reviewerRecID, "Backend Developer", 20)
		if _, ok := errors.Cause(err).(*DuplicateError); !ok {
			t.Errorf("Edit() = %v; want *DuplicateError", err)
		}
	})

	t.Run("unknown record", func(t *testing.T) {
		fix := newServiceFixture(t)
		_, err := fix.svc.Edit(context.Background(), fix.redesign.ID, 9999, "", 50)
		if errors.Cause(err) != project.ErrAssignmentNotFound {
			t.Errorf("Edit() = %v; want %v", err, project.ErrAssignmentNotFound)
		}
	})
}
