package assign

import (
	"testing"

	"github.com/nafasihq/nafasi/core/project"
)

func projectsFixture(recs ...project.Assignment) []project.Project {
	return []project.Project{
		{ID: 1, Name: "Website Redesign"},
		{ID: 2, Name: "Database Optimization", Assignments: recs},
	}
}

func TestCurrentWorkload(t *testing.T) {
	tests := []struct {
		name       string
		projects   []project.Project
		employeeID int
		want       int
	}{
		{name: "no records", projects: projectsFixture(), employeeID: 1001, want: 0},
		{
			name: "single record",
			projects: projectsFixture(
				project.Assignment{ID: 1, EmployeeID: 1002, Role: "Backend Developer", Workload: 60},
			),
			employeeID: 1002,
			want:       60,
		},
		{
			name: "records sum across projects",
			projects: []project.Project{
				{ID: 1, Assignments: []project.Assignment{{ID: 1, EmployeeID: 1002, Role: "Backend Developer", Workload: 30}}},
				{ID: 2, Assignments: []project.Assignment{{ID: 2, EmployeeID: 1002, Role: "Reviewer", Workload: 25}}},
			},
			employeeID: 1002,
			want:       55,
		},
		{
			name: "other employees ignored",
			projects: projectsFixture(
				project.Assignment{ID: 1, EmployeeID: 1002, Role: "Backend Developer", Workload: 60},
			),
			employeeID: 1001,
			want:       0,
		},
		{
			name: "legacy record without workload counts as 100",
			projects: projectsFixture(
				project.Assignment{ID: 1, EmployeeID: 1002, Role: "Backend Developer"},
			),
			employeeID: 1002,
			want:       100,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CurrentWorkload(tt.projects, tt.employeeID); got != tt.want {
				t.Errorf("CurrentWorkload() = %d; want %d", got, tt.want)
			}
		})
	}
}

func TestAvailableWorkload(t *testing.T) {
	projects := projectsFixture(
		project.Assignment{ID: 1, EmployeeID: 1002, Role: "Backend Developer", Workload: 60},
		project.Assignment{ID: 2, EmployeeID: 1003, Role: "Reviewer"}, // legacy, counts as 100
		project.Assignment{ID: 3, EmployeeID: 1003, Role: "Backend Developer", Workload: 20},
	)

	tests := []struct {
		name       string
		employeeID int
		want       int
	}{
		{name: "full capacity", employeeID: 1001, want: 100},
		{name: "partially committed", employeeID: 1002, want: 40},
		{name: "overcommitted floors at zero", employeeID: 1003, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AvailableWorkload(projects, tt.employeeID); got != tt.want {
				t.Errorf("AvailableWorkload() = %d; want %d", got, tt.want)
			}
		})
	}
}
