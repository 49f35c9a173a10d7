package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	. "github.com/nafasihq/nafasi/apps/api/echo"
	"github.com/nafasihq/nafasi/core"
	"github.com/nafasihq/nafasi/core/assign"
	"github.com/nafasihq/nafasi/core/employee"
	"github.com/nafasihq/nafasi/core/forum"
	"github.com/nafasihq/nafasi/core/project"
	"github.com/nafasihq/nafasi/core/user"
	emailsvc "github.com/nafasihq/nafasi/services/email"
	logsvc "github.com/nafasihq/nafasi/services/logger"
	inmemdb "github.com/nafasihq/nafasi/storage/database/inmem"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testEnv struct {
	app  Server
	conf *core.Config

	usrRepo  user.Repository
	empRepo  employee.Repository
	projRepo project.Repository
	frmRepo  forum.Repository
}

func setup(t *testing.T) *testEnv {
	t.Helper()

	conf := &core.Config{
		TestMode:  true,
		Env:       "TEST",
		AppName:   "Nafasi",
		SecretKey: "secret-test-key",
		Server: core.ServerConfig{
			JWTExpirationDelta:        1 * time.Hour,
			JWTRefreshExpirationDelta: 1 * time.Hour,
		},
	}

	// set up DB & repos
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open(): %v", err)
	}
	env := &testEnv{
		conf:     conf,
		usrRepo:  inmemdb.NewUserRepository(db),
		empRepo:  inmemdb.NewEmployeeRepository(db),
		projRepo: inmemdb.NewProjectRepository(db),
		frmRepo:  inmemdb.NewForumRepository(db),
	}

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	usrSvc := user.NewService(env.usrRepo, mailSvc, conf)
	empSvc := employee.NewService(env.empRepo)
	projSvc := project.NewService(env.projRepo)
	assignSvc := assign.NewService(env.projRepo, env.empRepo)
	forumSvc := forum.NewService(env.frmRepo)

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.RegisterValidators(validate, translator)

	// set up server
	env.app = NewServer(&Options{
		DisableReqLogs: true,
		Conf:           conf,
		Logger:         logsvc.NewConsoleLogger(log.New(io.Discard, "", 0)),
		Validate:       validate,
		Translator:     translator,
		UserSvc:        usrSvc,
		EmployeeSvc:    empSvc,
		ProjectSvc:     projSvc,
		AssignSvc:      assignSvc,
		ForumSvc:       forumSvc,
		SignalShutdown: func() {},
	})
	return env
}

func ctx() context.Context {
	return context.Background()
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

func createUser(t *testing.T, env *testEnv, name, uname, email string, roles []string, isActive bool) user.User {
	t.Helper()
	usr := user.User{
		Name:     name,
		Username: uname,
		Email:    email,
		IsActive: isActive,
		Roles:    roles,
	}
	if err := usr.SetPassword("t3stpassw0rd"); err != nil {
		t.Fatalf("SetPassword(): %v", err)
	}
	usr, err := env.usrRepo.CreateUser(ctx(), usr)
	if err != nil {
		t.Fatalf("CreateUser(): %v", err)
	}
	return usr
}

func createEmployee(t *testing.T, env *testEnv, name, title string, skills ...string) employee.Employee {
	t.Helper()
	emp, err := env.empRepo.CreateEmployee(ctx(), employee.Employee{
		Name:   name,
		Title:  title,
		Skills: skills,
		Status: employee.StatusActive,
	})
	if err != nil {
		t.Fatalf("CreateEmployee(): %v", err)
	}
	return emp
}

func createProject(t *testing.T, env *testEnv, name string, skills []string, quotas ...project.RoleQuota) project.Project {
	t.Helper()
	proj, err := env.projRepo.CreateProject(ctx(), project.Project{
		Name:           name,
		Status:         project.StatusActive,
		RequiredSkills: skills,
		RoleQuotas:     quotas,
	})
	if err != nil {
		t.Fatalf("CreateProject(): %v", err)
	}
	return proj
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, env *testEnv, usr user.User) string {
	t.Helper()
	claims := GetUserClaims(env.conf, usr)
	token, err := GenerateToken(env.conf, claims)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
