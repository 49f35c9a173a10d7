package assign

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/nafasihq/nafasi/core"
	"github.com/nafasihq/nafasi/core/employee"
	"github.com/nafasihq/nafasi/core/project"
)

// Proposal is one proposed (employee, role, workload%) tuple against a
// target project.
type Proposal struct {
	EmployeeID int    `json:"employee_id" validate:"required"`
	Role       string `json:"role"`
	Workload   int    `json:"workload"`
}

var errMissingRole = errors.New("select a role for each employee.")

// Validate checks a batch of proposals against a snapshot of the current
// workload totals. Checks run in order and short-circuit on the first
// failing condition:
//  1. every employee must have a role chosen;
//  2. every workload must be in (0, 100] and must not push the employee's
//     total past 100%.
//
// Failures are reported as a single ValidationError naming the offending
// employees; either the whole batch is acceptable or nothing commits.
func Validate(proposals []Proposal, employees map[int]employee.Employee, projects []project.Project) error {
	for _, prop := range proposals {
		if prop.Role == "" {
			return core.NewValidationError(errMissingRole)
		}
	}

	var offenders []string
	for _, prop := range proposals {
		current := CurrentWorkload(projects, prop.EmployeeID)
		if prop.Workload <= 0 || prop.Workload > 100 || current+prop.Workload > 100 {
			offenders = append(offenders, employees[prop.EmployeeID].Name)
		}
	}
	if len(offenders) > 0 {
		return core.NewValidationError(fmt.Errorf(
			"invalid workload allocation for: %s. Employee workload cannot exceed 100%%.",
			strings.Join(offenders, ", "),
		))
	}
	return nil
}
