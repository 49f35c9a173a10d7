package project

import "testing"

func quotasProject() Project {
	return Project{
		ID:   1,
		Name: "Website Redesign",
		RoleQuotas: []RoleQuota{
			{Role: "Backend Developer", Count: 2},
			{Role: "Frontend Developer", Count: 1},
		},
		Assignments: []Assignment{
			{ID: 1, EmployeeID: 1001, Role: "Backend Developer", Workload: 40},
			{ID: 2, EmployeeID: 1002, Role: "Frontend Developer", Workload: 60},
			{ID: 3, EmployeeID: 1002, Role: "Reviewer", Workload: 10},
		},
	}
}

func TestProject_Remaining(t *testing.T) {
	proj := quotasProject()

	tests := []struct {
		role string
		want int
	}{
		{"Backend Developer", 1},
		{"Frontend Developer", 0},
		{"Reviewer", 0}, // no quota for that role
		{"backend developer", 0},
	}
	for _, tt := range tests {
		if got := proj.Remaining(tt.role); got != tt.want {
			t.Errorf("Remaining(%q) = %d; want %d", tt.role, got, tt.want)
		}
	}

	// over-assignment floors at zero rather than going negative
	proj.Assignments = append(proj.Assignments,
		Assignment{ID: 4, EmployeeID: 1003, Role: "Frontend Developer", Workload: 30})
	if got := proj.Remaining("Frontend Developer"); got != 0 {
		t.Errorf("Remaining() with excess records = %d; want 0", got)
	}
}

func TestProject_RemainingQuotas(t *testing.T) {
	got := quotasProject().RemainingQuotas()
	want := []RoleQuota{
		{Role: "Backend Developer", Count: 1},
		{Role: "Frontend Developer", Count: 0},
	}
	if len(got) != len(want) {
		t.Fatalf("RemainingQuotas() = %v; want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("RemainingQuotas()[%d] = %v; want %v", i, got[i], want[i])
		}
	}
}

func TestProject_HasAssignment(t *testing.T) {
	proj := quotasProject()

	if !proj.HasAssignment(1001, "Backend Developer") {
		t.Error("HasAssignment() missed an existing record")
	}
	if proj.HasAssignment(1001, "backend developer") {
		t.Error("HasAssignment() role match should be case-sensitive")
	}
	if proj.HasAssignment(1001, "Reviewer") {
		t.Error("HasAssignment() matched another employee's role")
	}
}

func TestProject_GetAssignment(t *testing.T) {
	proj := quotasProject()

	rec, ok := proj.GetAssignment(3)
	if !ok || rec.EmployeeID != 1002 || rec.Role != "Reviewer" {
		t.Errorf("GetAssignment(3) = (%v, %v); want Asitha's Reviewer record", rec, ok)
	}
	if _, ok = proj.GetAssignment(9999); ok {
		t.Error("GetAssignment() found a record that does not exist")
	}
}

func TestQueryFilter_Match(t *testing.T) {
	proj := quotasProject()
	proj.Status = StatusActive

	tests := []struct {
		name   string
		filter QueryFilter
		want   bool
	}{
		{"empty filter matches", QueryFilter{}, true},
		{"name substring, case-insensitive", QueryFilter{Search: "redesign"}, true},
		{"name no match", QueryFilter{Search: "optimization"}, false},
		{"id substring", QueryFilter{Search: "1", SearchBy: "id"}, true},
		{"status match", QueryFilter{Status: StatusActive}, true},
		{"status mismatch", QueryFilter{Status: StatusCompleted}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Match(proj); got != tt.want {
				t.Errorf("Match() = %v; want %v", got, tt.want)
			}
		})
	}
}
