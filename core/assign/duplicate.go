package assign

import "github.com/nafasihq/nafasi/core/project"

// Partition splits a batch of proposals into those that can commit and those
// that duplicate an existing (employee, role) record on the target project.
// The role match is a case-sensitive exact match: the same employee in a
// different role is not a duplicate. A non-empty duplicate set must be
// acknowledged by the caller before anything commits.
func Partition(proposals []Proposal, proj project.Project) (valid, duplicates []Proposal) {
	for _, prop := range proposals {
		if proj.HasAssignment(prop.EmployeeID, prop.Role) {
			duplicates = append(duplicates, prop)
		} else {
			valid = append(valid, prop)
		}
	}
	return valid, duplicates
}
