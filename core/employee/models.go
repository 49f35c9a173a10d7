package employee

import (
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/nafasihq/nafasi/core"
)

// Lifecycle status labels
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// Employee is a member of the workforce that can be assigned to projects.
// Projects holds the names of the projects the employee currently has at
// least one assignment record on; it is maintained by the assignment ledger.
type Employee struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Title     string    `json:"title"` // role title, e.g. "Software Engineer"
	Skills    []string  `json:"skills"`
	Status    string    `json:"status"`
	Projects  []string  `json:"projects"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// OnBench reports whether the employee has no active project assignments.
func (e Employee) OnBench() bool {
	return len(e.Projects) == 0
}

// HasSkill does a case-insensitive exact match on the employee's skill set.
func (e Employee) HasSkill(skill string) bool {
	for _, s := range e.Skills {
		if strings.EqualFold(s, skill) {
			return true
		}
	}
	return false
}

// SharesSkillWith reports whether the employee has at least one of the
// given skills.
func (e Employee) SharesSkillWith(skills []string) bool {
	for _, s := range skills {
		if e.HasSkill(s) {
			return true
		}
	}
	return false
}

// NewEmployee contains information needed to create a new Employee.
type NewEmployee struct {
	Name   string   `json:"name" validate:"required"`
	Title  string   `json:"title" validate:"required"`
	Skills []string `json:"skills"`
	Status string   `json:"status"`
}

func (ne *NewEmployee) Validate(validate *validator.Validate) error {
	ne.Name = core.CleanString(ne.Name)
	ne.Title = core.CleanString(ne.Title)
	if ne.Status == "" {
		ne.Status = StatusActive
	}
	return validate.Struct(ne)
}

// UpdateEmployee defines what information may be provided to modify an existing Employee.
type UpdateEmployee struct {
	Name   string   `json:"name"`
	Title  string   `json:"title"`
	Skills []string `json:"skills"`
	Status string   `json:"status"`
}

func (ue *UpdateEmployee) Validate(validate *validator.Validate, orig Employee) error {
	if name := core.CleanString(ue.Name); name != "" {
		ue.Name = name
	} else {
		ue.Name = orig.Name
	}
	if title := core.CleanString(ue.Title); title != "" {
		ue.Title = title
	} else {
		ue.Title = orig.Title
	}
	return validate.Struct(ue)
}

// Search dimensions
const (
	SearchByName = "name"
	SearchByID   = "id"
)

// QueryFilter is the selection surface feeding assignment candidates.
// All predicates are applied conjunctively. MatchSkills carries the selected
// project's required skills and is only active when non-empty.
type QueryFilter struct {
	Search      string   `query:"search"`
	SearchBy    string   `query:"search_by"` // name (default) | id
	Skills      []string `query:"skill"`
	BenchOnly   bool     `query:"bench"`
	MatchSkills []string `query:"-"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Skills == nil && !qf.BenchOnly && qf.MatchSkills == nil
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.SearchBy = core.CleanString(qf.SearchBy, true /* lower */)
}

// Match applies all active predicates to the employee. It never mutates
// the employee.
func (qf QueryFilter) Match(e Employee) bool {
	if qf.Search != "" {
		if qf.SearchBy == SearchByID {
			if !strings.Contains(strconv.Itoa(e.ID), qf.Search) {
				return false
			}
		} else {
			search := strings.ToLower(qf.Search)
			name := strings.ToLower(e.Name)
			title := strings.ToLower(e.Title)
			if !strings.Contains(name, search) && !strings.Contains(title, search) {
				return false
			}
		}
	}

	// every filter skill must be present
	for _, skill := range qf.Skills {
		if !e.HasSkill(skill) {
			return false
		}
	}

	if qf.BenchOnly && !e.OnBench() {
		return false
	}

	// skill match against the selected project's required skills
	if len(qf.MatchSkills) > 0 && !e.SharesSkillWith(qf.MatchSkills) {
		return false
	}
	return true
}
