// Package inmemdb provides mutex-guarded in-memory repositories. It backs
// the tests and the default DEV setup where no SQL database is configured.
package inmemdb

import (
	"sync"

	"github.com/nafasihq/nafasi/core/employee"
	"github.com/nafasihq/nafasi/core/forum"
	"github.com/nafasihq/nafasi/core/project"
	"github.com/nafasihq/nafasi/core/user"
)

type (
	userTable struct {
		mutex sync.RWMutex
		table map[string]*user.User
	}

	employeeTable struct {
		mutex sync.RWMutex
		table map[int]*employee.Employee
		seq   int
	}

	projectTable struct {
		mutex sync.RWMutex
		table map[int]*project.Project
		seq   int
		// assignment record ids are unique across projects
		recSeq int
	}

	forumTable struct {
		mutex      sync.RWMutex
		topics     map[int]*forum.Topic
		comments   map[int]*forum.Comment
		topicSeq   int
		commentSeq int
	}

	DB struct {
		usr  *userTable
		emp  *employeeTable
		proj *projectTable
		frm  *forumTable
	}
)

func Open() (*DB, error) {
	db := &DB{
		usr:  &userTable{table: make(map[string]*user.User)},
		emp:  &employeeTable{table: make(map[int]*employee.Employee)},
		proj: &projectTable{table: make(map[int]*project.Project)},
		frm: &forumTable{
			topics:   make(map[int]*forum.Topic),
			comments: make(map[int]*forum.Comment),
		},
	}
	return db, nil
}

func (db *DB) Close() error { return nil }
