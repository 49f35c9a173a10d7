package assign

import (
	"testing"
)

func TestFlow(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		f := NewFlow()
		if f.State() != StateIdle {
			t.Fatalf("State() = %v; want %v", f.State(), StateIdle)
		}

		if err := f.SelectProject(1); err != nil {
			t.Fatalf("SelectProject() = %v", err)
		}
		if f.State() != StateProjectSelected {
			t.Fatalf("State() = %v; want %v", f.State(), StateProjectSelected)
		}

		if err := f.SelectEmployees(1001, 1002); err != nil {
			t.Fatalf("SelectEmployees() = %v", err)
		}
		if f.State() != StateEmployeesSelected {
			t.Fatalf("State() = %v; want %v", f.State(), StateEmployeesSelected)
		}

		proposals := []Proposal{
			{EmployeeID: 1001, Role: "Backend Developer", Workload: 40},
			{EmployeeID: 1002, Role: "Backend Developer", Workload: 40},
		}
		if err := f.Confirm(proposals); err != nil {
			t.Fatalf("Confirm() = %v", err)
		}
		if f.State() != StateConfirmationPending {
			t.Fatalf("State() = %v; want %v", f.State(), StateConfirmationPending)
		}

		if err := f.Committed(); err != nil {
			t.Fatalf("Committed() = %v", err)
		}
		if f.State() != StateIdle {
			t.Errorf("State() = %v; want %v", f.State(), StateIdle)
		}
		if f.ProjectID() != 0 || f.EmployeeIDs() != nil || f.Proposals() != nil {
			t.Error("Committed() did not clear the flow")
		}
	})

	t.Run("employees before project is refused", func(t *testing.T) {
		f := NewFlow()
		if err := f.SelectEmployees(1001); err != ErrNoProjectSelected {
			t.Errorf("SelectEmployees() = %v; want %v", err, ErrNoProjectSelected)
		}
		// transient refusal: the state does not change
		if f.State() != StateIdle {
			t.Errorf("State() = %v; want %v", f.State(), StateIdle)
		}
	})

	t.Run("switching projects clears the selection", func(t *testing.T) {
		f := NewFlow()
		_ = f.SelectProject(1)
		_ = f.SelectEmployees(1001, 1002)

		if err := f.SelectProject(2); err != nil {
			t.Fatalf("SelectProject() = %v", err)
		}
		if f.EmployeeIDs() != nil {
			t.Error("SelectProject() did not clear the employee selection")
		}
		if f.State() != StateProjectSelected {
			t.Errorf("State() = %v; want %v", f.State(), StateProjectSelected)
		}
	})

	t.Run("switching projects mid-confirmation is refused", func(t *testing.T) {
		f := NewFlow()
		_ = f.SelectProject(1)
		_ = f.SelectEmployees(1001)
		_ = f.Confirm([]Proposal{{EmployeeID: 1001, Role: "Backend Developer", Workload: 40}})

		if err := f.SelectProject(2); err != ErrInvalidTransition {
			t.Errorf("SelectProject() = %v; want %v", err, ErrInvalidTransition)
		}
	})

	t.Run("duplicate warning drops acknowledged duplicates", func(t *testing.T) {
		f := NewFlow()
		_ = f.SelectProject(1)
		_ = f.SelectEmployees(1001, 1002)
		proposals := []Proposal{
			{EmployeeID: 1001, Role: "Backend Developer", Workload: 40},
			{EmployeeID: 1002, Role: "Backend Developer", Workload: 40},
		}
		_ = f.Confirm(proposals)

		if err := f.FlagDuplicates([]Proposal{proposals[1]}); err != nil {
			t.Fatalf("FlagDuplicates() = %v", err)
		}
		if f.State() != StateDuplicateWarning {
			t.Fatalf("State() = %v; want %v", f.State(), StateDuplicateWarning)
		}

		if err := f.CloseWarning(); err != nil {
			t.Fatalf("CloseWarning() = %v", err)
		}
		if f.State() != StateConfirmationPending {
			t.Errorf("State() = %v; want %v", f.State(), StateConfirmationPending)
		}
		if got := f.Proposals(); len(got) != 1 || got[0].EmployeeID != 1001 {
			t.Errorf("Proposals() = %v; want the non-duplicate entry only", got)
		}
	})

	t.Run("cancel returns to employee selection", func(t *testing.T) {
		f := NewFlow()
		_ = f.SelectProject(1)
		_ = f.SelectEmployees(1001)
		_ = f.Confirm([]Proposal{{EmployeeID: 1001, Role: "Backend Developer", Workload: 40}})

		if err := f.Cancel(); err != nil {
			t.Fatalf("Cancel() = %v", err)
		}
		if f.State() != StateEmployeesSelected {
			t.Errorf("State() = %v; want %v", f.State(), StateEmployeesSelected)
		}
		if f.Proposals() != nil {
			t.Error("Cancel() did not clear the proposals")
		}
	})

	t.Run("invalid transitions", func(t *testing.T) {
		f := NewFlow()
		if err := f.Confirm(nil); err != ErrInvalidTransition {
			t.Errorf("Confirm() = %v; want %v", err, ErrInvalidTransition)
		}
		if err := f.FlagDuplicates(nil); err != ErrInvalidTransition {
			t.Errorf("FlagDuplicates() = %v; want %v", err, ErrInvalidTransition)
		}
		if err := f.CloseWarning(); err != ErrInvalidTransition {
			t.Errorf("CloseWarning() = %v; want %v", err, ErrInvalidTransition)
		}
		if err := f.Committed(); err != ErrInvalidTransition {
			t.Errorf("Committed() = %v; want %v", err, ErrInvalidTransition)
		}
	})
}
