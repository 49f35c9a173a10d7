package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/nafasihq/nafasi/apps/api/echo"
	"github.com/nafasihq/nafasi/core"
	"github.com/nafasihq/nafasi/core/assign"
	"github.com/nafasihq/nafasi/core/employee"
	"github.com/nafasihq/nafasi/core/forum"
	"github.com/nafasihq/nafasi/core/project"
	"github.com/nafasihq/nafasi/core/user"
	emailsvc "github.com/nafasihq/nafasi/services/email"
	logsvc "github.com/nafasihq/nafasi/services/logger"
	"github.com/nafasihq/nafasi/storage/database"
	inmemdb "github.com/nafasihq/nafasi/storage/database/inmem"
	sqlxrepos "github.com/nafasihq/nafasi/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	var logger core.Logger
	if conf.Debug || conf.TestMode {
		logger = logsvc.NewConsoleLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, conf)
	}

	// set up repositories
	var (
		usrRepo  user.Repository
		empRepo  employee.Repository
		projRepo project.Repository
		frmRepo  forum.Repository
	)
	if conf.Database.InMemory {
		db, err := inmemdb.Open()
		errAndDie(err)
		defer db.Close()
		usrRepo = inmemdb.NewUserRepository(db)
		empRepo = inmemdb.NewEmployeeRepository(db)
		projRepo = inmemdb.NewProjectRepository(db)
		frmRepo = inmemdb.NewForumRepository(db)
	} else {
		db, err := database.Open(conf)
		errAndDie(err)
		defer db.Close()
		errAndDie(database.Ping(db))
		errAndDie(database.Migrate(db, conf))
		usrRepo = sqlxrepos.NewUserRepository(db)
		empRepo = sqlxrepos.NewEmployeeRepository(db)
		projRepo = sqlxrepos.NewProjectRepository(db)
		frmRepo = sqlxrepos.NewForumRepository(db)
	}

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	usrSvc := user.NewService(usrRepo, mailSvc, conf)
	empSvc := employee.NewService(empRepo)
	projSvc := project.NewService(projRepo)
	assignSvc := assign.NewService(projRepo, empRepo)
	forumSvc := forum.NewService(frmRepo)

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.RegisterValidators(validate, translator)

	// =========================================================================
	// Start API Service

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	server := echoapi.NewServer(&echoapi.Options{
		Address:     conf.Server.Address(),
		Conf:        conf,
		Logger:      logger,
		Validate:    validate,
		Translator:  translator,
		UserSvc:     usrSvc,
		EmployeeSvc: empSvc,
		ProjectSvc:  projSvc,
		AssignSvc:   assignSvc,
		ForumSvc:    forumSvc,
		SignalShutdown: func() {
			shutdown <- syscall.SIGTERM
		},
	})

	logger.Info(fmt.Sprintf("Application starting : version %q", conf.Build))
	defer logger.Info("Application stopped")

	go server.Start()

	// =========================================================================
	// Shutdown

	sig := <-shutdown
	logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

	// give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
	}
}

func errAndDie(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
