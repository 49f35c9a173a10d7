package assign

import "github.com/nafasihq/nafasi/core/project"

// workloadValue reads a record's workload percentage, defaulting to 100 for
// legacy records that were created without one.
func workloadValue(workload int) int {
	if workload == 0 {
		return 100
	}
	return workload
}

// CurrentWorkload computes an employee's total committed workload percentage
// by scanning every project's assignment list. Pure read, no side effects.
func CurrentWorkload(projects []project.Project, employeeID int) int {
	var total int
	for _, proj := range projects {
		for _, rec := range proj.Assignments {
			if rec.EmployeeID == employeeID {
				total += workloadValue(rec.Workload)
			}
		}
	}
	return total
}

// AvailableWorkload derives the employee's remaining capacity, floored at 0.
func AvailableWorkload(projects []project.Project, employeeID int) int {
	if avail := 100 - CurrentWorkload(projects, employeeID); avail > 0 {
		return avail
	}
	return 0
}
