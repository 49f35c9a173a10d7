package tests

import (
	"net/http"
	"strconv"
	"testing"

	. "github.com/nafasihq/nafasi/apps/api/echo"
	"github.com/nafasihq/nafasi/core/employee"
	"github.com/nafasihq/nafasi/core/project"
	"github.com/nafasihq/nafasi/core/user"
)

func Test_employeeApi_query(t *testing.T) {
	env := setup(t)

	learner := createUser(t, env, "Learner", "learner1", "learner@test.cd", []string{user.RoleLearner}, true)
	manager := createUser(t, env, "Manager", "manager1", "manager@test.cd", []string{user.RoleManager}, true)
	admin := createUser(t, env, "Admin", "admin1", "admin@test.cd", []string{user.RoleAdmin}, true)

	dilkini := createEmployee(t, env, "Dilkini", "Software Engineer", "Go", "PostgreSQL")
	asitha := createEmployee(t, env, "Asitha", "Frontend Developer", "React", "CSS")

	redesign := createProject(t, env, "Website Redesign", []string{"React"},
		project.RoleQuota{Role: "Frontend Developer", Count: 1})

	managerToken := getToken(t, env, manager)

	tests := []httpTest{
		{name: "Auth required", path: "/v1/employees", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Manager required", path: "/v1/employees", token: getToken(t, env, learner),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "Admins pass the manager gate", path: "/v1/employees", token: getToken(t, env, admin),
			wantCode: http.StatusOK, wantData: marchallList(t, dilkini, asitha),
		},
		{
			name: "Get all", path: "/v1/employees", token: managerToken,
			wantCode: http.StatusOK, wantData: marchallList(t, dilkini, asitha),
		},
		{
			name: "search by name", path: "/v1/employees?search=dilk", token: managerToken,
			wantCode: http.StatusOK, wantData: marchallList(t, dilkini),
		},
		{
			name: "search by title", path: "/v1/employees?search=frontend", token: managerToken,
			wantCode: http.StatusOK, wantData: marchallList(t, asitha),
		},
		{
			name: "search by id", path: "/v1/employees?search=" + strconv.Itoa(asitha.ID) + "&search_by=id", token: managerToken,
			wantCode: http.StatusOK, wantData: marchallList(t, asitha),
		},
		{
			name: "filter by skill", path: "/v1/employees?skill=Go", token: managerToken,
			wantCode: http.StatusOK, wantData: marchallList(t, dilkini),
		},
		{
			name: "bench only", path: "/v1/employees?bench=true", token: managerToken,
			wantCode: http.StatusOK, wantData: marchallList(t, dilkini, asitha),
		},
		{
			name: "project skill match", path: "/v1/employees?project=" + strconv.Itoa(redesign.ID), token: managerToken,
			wantCode: http.StatusOK, wantData: marchallList(t, asitha),
		},
		{
			name: "unknown project", path: "/v1/employees?project=9999", token: managerToken,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			env.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_employeeApi_create(t *testing.T) {
	env := setup(t)
	manager := createUser(t, env, "Manager", "manager1", "manager@test.cd", []string{user.RoleManager}, true)
	token := getToken(t, env, manager)

	t.Run("name and title required", func(t *testing.T) {
		body := marchallObj(t, employee.NewEmployee{})
		req, rec := newAuthRequest(http.MethodPost, "/v1/employees", token, body)
		env.app.ServeHTTP(rec, req)

		tt := httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"name": "this field is required", "title": "this field is required"}),
		}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("created with default status", func(t *testing.T) {
		body := marchallObj(t, employee.NewEmployee{Name: "Dilkini", Title: "Software Engineer", Skills: []string{"Go"}})
		req, rec := newAuthRequest(http.MethodPost, "/v1/employees", token, body)
		env.app.ServeHTTP(rec, req)

		emp, err := env.empRepo.GetEmployeeByID(ctx(), 1001)
		if err != nil {
			t.Fatalf("GetEmployeeByID(): %v", err)
		}
		if emp.Status != employee.StatusActive {
			t.Errorf("Status = %q; want %q", emp.Status, employee.StatusActive)
		}
		checkCodeAndData(t, httpTest{wantCode: http.StatusCreated, wantData: marchallObj(t, emp)}, rec)
	})
}

func Test_employeeApi_workload(t *testing.T) {
	env := setup(t)
	manager := createUser(t, env, "Manager", "manager1", "manager@test.cd", []string{user.RoleManager}, true)
	token := getToken(t, env, manager)

	asitha := createEmployee(t, env, "Asitha", "Software Engineer", "Go")
	dbopt := createProject(t, env, "Database Optimization", []string{"Go"},
		project.RoleQuota{Role: "Backend Developer", Count: 2})
	if _, err := env.projRepo.AddAssignments(ctx(), dbopt.ID, project.Assignment{
		EmployeeID: asitha.ID, Role: "Backend Developer", Workload: 60,
	}); err != nil {
		t.Fatalf("AddAssignments(): %v", err)
	}

	tests := []httpTest{
		{
			name: "committed and remaining workload", path: "/v1/employees/" + strconv.Itoa(asitha.ID) + "/workload",
			token: token, wantCode: http.StatusOK,
			wantData: marchallObj(t, WorkloadResponse{EmployeeID: asitha.ID, Current: 60, Available: 40}),
		},
		{
			name: "unknown employee", path: "/v1/employees/9999/workload", token: token,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			env.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
