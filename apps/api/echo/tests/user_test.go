package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	. "github.com/nafasihq/nafasi/apps/api/echo"
	"github.com/nafasihq/nafasi/core/user"
)

func Test_userApi_login(t *testing.T) {
	env := setup(t)

	createUser(t, env, "Active User", "activeusr", "active@test.cd", []string{user.RoleLearner}, true)
	createUser(t, env, "Sleeping User", "sleepingusr", "sleeping@test.cd", []string{user.RoleLearner}, false)

	body := func(uname, pwd string) []byte {
		return marchallObj(t, LoginRequest{Username: uname, Password: pwd})
	}

	tests := []httpTest{
		{
			name: "username required", body: body("", "t3stpassw0rd"),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"username": "this field is required"}),
		},
		{
			name: "unknown user", body: body("nosuchusr", "t3stpassw0rd"),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "invalid credentials"}),
		},
		{
			name: "wrong password", body: body("activeusr", "wr0ng"),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "deactivated account", body: body("sleepingusr", "t3stpassw0rd"),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
		{name: "login by username", body: body("activeusr", "t3stpassw0rd"), wantCode: http.StatusOK},
		{name: "login by email", body: body("active@test.cd", "t3stpassw0rd"), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/login", tt.body)
			env.app.ServeHTTP(rec, req)

			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
				return
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
			}
			var res LoginResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
				t.Fatalf("json.Unmarshal(): %v", err)
			}
			if res.Token == "" {
				t.Error("failed! empty token")
			}
		})
	}
}

func Test_userApi_userQuery(t *testing.T) {
	env := setup(t)

	learner := createUser(t, env, "Learner", "learner1", "learner@test.cd", []string{user.RoleLearner}, true)
	manager := createUser(t, env, "Manager", "manager1", "manager@test.cd", []string{user.RoleManager}, true)
	admin := createUser(t, env, "Admin", "admin1", "admin@test.cd", []string{user.RoleAdmin}, true)

	adminToken := getToken(t, env, admin)

	tests := []httpTest{
		{name: "Auth required", path: "/v1/users", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Admin required", path: "/v1/users", token: getToken(t, env, learner),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "Managers are not admins", path: "/v1/users", token: getToken(t, env, manager),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "Get all", path: "/v1/users", token: adminToken,
			wantCode: http.StatusOK, wantData: marchallList(t, learner, manager, admin),
		},
		{
			name: "search", path: "/v1/users?search=manag", token: adminToken,
			wantCode: http.StatusOK, wantData: marchallList(t, manager),
		},
		{
			name: "filter by role", path: "/v1/users?role=" + user.RoleAdmin, token: adminToken,
			wantCode: http.StatusOK, wantData: marchallList(t, admin),
		},
		{
			name: "search (unknown)", path: "/v1/users?search=lol", token: adminToken,
			wantCode: http.StatusOK, wantData: marchallList(t, []interface{}{}...),
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

func Test_userApi_retrieve(t *testing.T) {
	env := setup(t)

	learner := createUser(t, env, "Learner", "learner1", "learner@test.cd", []string{user.RoleLearner}, true)
	other := createUser(t, env, "Other", "otherusr", "other@test.cd", []string{user.RoleLearner}, true)
	admin := createUser(t, env, "Admin", "admin1", "admin@test.cd", []string{user.RoleAdmin}, true)

	tests := []httpTest{
		{
			name: "own detail", path: "/v1/users/" + learner.ID, token: getToken(t, env, learner),
			wantCode: http.StatusOK, wantData: marchallObj(t, learner),
		},
		{
			name: "admin can read anyone", path: "/v1/users/" + learner.ID, token: getToken(t, env, admin),
			wantCode: http.StatusOK, wantData: marchallObj(t, learner),
		},
		{
			name: "someone else's detail is hidden", path: "/v1/users/" + other.ID, token: getToken(t, env, learner),
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
