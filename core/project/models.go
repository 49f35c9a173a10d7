package project

import (
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/nafasihq/nafasi/core"
)

// Project statuses
const (
	StatusActive    = "Active"
	StatusCompleted = "Completed"
)

type (
	// RoleQuota is the immutable hiring target for one role on a project.
	// The remaining need is always derived from the assignment list, never
	// stored, so it cannot drift when records are added, edited or removed.
	RoleQuota struct {
		Role  string `json:"role" validate:"required"`
		Count int    `json:"count" validate:"gt=0"`
	}

	// Assignment binds one employee to a project role at a workload
	// percentage. An employee may hold several distinct-role records on the
	// same project; the sum of their workloads across all projects is
	// capped at 100.
	Assignment struct {
		ID         int       `json:"id"`
		EmployeeID int       `json:"employee_id"`
		Role       string    `json:"role"`
		Workload   int       `json:"workload"`
		CreatedAt  time.Time `json:"created_at"` // UTC
		UpdatedAt  time.Time `json:"updated_at"` // UTC
	}

	Project struct {
		ID               int          `json:"id"`
		Name             string       `json:"name"`
		Status           string       `json:"status"`
		Deadline         time.Time    `json:"deadline"`
		Description      string       `json:"description"`
		ShortDescription string       `json:"short_description"`
		RequiredSkills   []string     `json:"required_skills"`
		RoleQuotas       []RoleQuota  `json:"role_quotas"`
		Assignments      []Assignment `json:"assignments"`
		CreatedAt        time.Time    `json:"created_at"` // UTC
		UpdatedAt        time.Time    `json:"updated_at"` // UTC
	}
)

// AssignedCount counts the assignment records holding the given role.
// Role comparison is a case-sensitive exact match.
func (p Project) AssignedCount(role string) int {
	var n int
	for _, rec := range p.Assignments {
		if rec.Role == role {
			n++
		}
	}
	return n
}

// Remaining derives how many more people the project still needs in the
// given role: max(0, target - assigned).
func (p Project) Remaining(role string) int {
	for _, q := range p.RoleQuotas {
		if q.Role == role {
			if rem := q.Count - p.AssignedCount(q.Role); rem > 0 {
				return rem
			}
			return 0
		}
	}
	return 0
}

// RemainingQuotas returns the derived remaining need for every role target.
func (p Project) RemainingQuotas() []RoleQuota {
	quotas := make([]RoleQuota, 0, len(p.RoleQuotas))
	for _, q := range p.RoleQuotas {
		quotas = append(quotas, RoleQuota{Role: q.Role, Count: p.Remaining(q.Role)})
	}
	return quotas
}

// HasAssignment reports whether an (employee, role) record already exists on
// the project. The role match is case-sensitive.
func (p Project) HasAssignment(employeeID int, role string) bool {
	for _, rec := range p.Assignments {
		if rec.EmployeeID == employeeID && rec.Role == role {
			return true
		}
	}
	return false
}

// AssignmentsFor returns all of the given employee's records on the project.
func (p Project) AssignmentsFor(employeeID int) []Assignment {
	var recs []Assignment
	for _, rec := range p.Assignments {
		if rec.EmployeeID == employeeID {
			recs = append(recs, rec)
		}
	}
	return recs
}

// GetAssignment finds an assignment record by its id.
func (p Project) GetAssignment(recordID int) (Assignment, bool) {
	for _, rec := range p.Assignments {
		if rec.ID == recordID {
			return rec, true
		}
	}
	return Assignment{}, false
}

// NewProject contains information needed to create a new Project.
type NewProject struct {
	Name             string      `json:"name" validate:"required"`
	Status           string      `json:"status"`
	Deadline         time.Time   `json:"deadline"`
	Description      string      `json:"description"`
	ShortDescription string      `json:"short_description"`
	RequiredSkills   []string    `json:"required_skills"`
	RoleQuotas       []RoleQuota `json:"role_quotas" validate:"omitempty,dive"`
}

func (np *NewProject) Validate(validate *validator.Validate) error {
	np.Name = core.CleanString(np.Name)
	if np.Status == "" {
		np.Status = StatusActive
	}
	return validate.Struct(np)
}

// UpdateProject defines what information may be provided to modify an existing Project.
type UpdateProject struct {
	Name             string      `json:"name"`
	Status           string      `json:"status"`
	Deadline         time.Time   `json:"deadline"`
	Description      string      `json:"description"`
	ShortDescription string      `json:"short_description"`
	RequiredSkills   []string    `json:"required_skills"`
	RoleQuotas       []RoleQuota `json:"role_quotas" validate:"omitempty,dive"`
}

func (up *UpdateProject) Validate(validate *validator.Validate, orig Project) error {
	if name := core.CleanString(up.Name); name != "" {
		up.Name = name
	} else {
		up.Name = orig.Name
	}
	return validate.Struct(up)
}

// QueryFilter filters projects by text search and status.
type QueryFilter struct {
	Search   string `query:"search"`
	SearchBy string `query:"search_by"` // name (default) | id
	Status   string `query:"status"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Status == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.SearchBy = core.CleanString(qf.SearchBy, true /* lower */)
	qf.Status = core.CleanString(qf.Status)
}

// Match applies all active predicates to the project.
func (qf QueryFilter) Match(p Project) bool {
	if qf.Search != "" {
		if qf.SearchBy == "id" {
			if !strings.Contains(strconv.Itoa(p.ID), qf.Search) {
				return false
			}
		} else if !strings.Contains(strings.ToLower(p.Name), strings.ToLower(qf.Search)) {
			return false
		}
	}
	if qf.Status != "" && p.Status != qf.Status {
		return false
	}
	return true
}
