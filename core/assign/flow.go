package assign

import "github.com/pkg/errors"

// State is one step of the assignment flow.
type State int

const (
	StateIdle State = iota
	StateProjectSelected
	StateEmployeesSelected
	StateConfirmationPending
	StateDuplicateWarning
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateProjectSelected:
		return "ProjectSelected"
	case StateEmployeesSelected:
		return "EmployeesSelected"
	case StateConfirmationPending:
		return "ConfirmationPending"
	case StateDuplicateWarning:
		return "DuplicateWarning"
	}
	return "Unknown"
}

var (
	// ErrNoProjectSelected is the transient refusal surfaced when employees
	// are picked before a project; the state does not change.
	ErrNoProjectSelected = errors.New("select a project before selecting employees")

	ErrInvalidTransition = errors.New("invalid assignment flow transition")
)

// Flow is the control contract of the assignment process:
//
//	Idle -> ProjectSelected -> EmployeesSelected -> ConfirmationPending
//	     -> (DuplicateWarning -> ConfirmationPending | committed) -> Idle
//
// It holds no I/O; callers feed it the outcomes of validation and duplicate
// screening.
type Flow struct {
	state       State
	projectID   int
	employeeIDs []int
	proposals   []Proposal
	duplicates  []Proposal
}

func NewFlow() *Flow {
	return &Flow{state: StateIdle}
}

func (f *Flow) State() State           { return f.state }
func (f *Flow) ProjectID() int         { return f.projectID }
func (f *Flow) EmployeeIDs() []int     { return f.employeeIDs }
func (f *Flow) Proposals() []Proposal  { return f.proposals }
func (f *Flow) Duplicates() []Proposal { return f.duplicates }

// SelectProject picks (or switches) the target project, clearing any
// employee selection in progress.
func (f *Flow) SelectProject(projectID int) error {
	if f.state == StateConfirmationPending || f.state == StateDuplicateWarning {
		return ErrInvalidTransition
	}
	f.projectID = projectID
	f.employeeIDs = nil
	f.proposals = nil
	f.duplicates = nil
	f.state = StateProjectSelected
	return nil
}

// SelectEmployees records the candidate employees. Selecting employees with
// no project selected is refused and the state does not change.
func (f *Flow) SelectEmployees(employeeIDs ...int) error {
	if f.projectID == 0 {
		return ErrNoProjectSelected
	}
	if f.state != StateProjectSelected && f.state != StateEmployeesSelected {
		return ErrInvalidTransition
	}
	f.employeeIDs = employeeIDs
	if len(employeeIDs) > 0 {
		f.state = StateEmployeesSelected
	} else {
		f.state = StateProjectSelected
	}
	return nil
}

// Confirm moves the flow to ConfirmationPending with the proposed batch.
func (f *Flow) Confirm(proposals []Proposal) error {
	if f.state != StateEmployeesSelected {
		return ErrInvalidTransition
	}
	f.proposals = proposals
	f.state = StateConfirmationPending
	return nil
}

// FlagDuplicates surfaces the duplicate subset found by screening.
func (f *Flow) FlagDuplicates(duplicates []Proposal) error {
	if f.state != StateConfirmationPending {
		return ErrInvalidTransition
	}
	f.duplicates = duplicates
	f.state = StateDuplicateWarning
	return nil
}

// CloseWarning acknowledges the duplicate warning: the duplicate entries are
// dropped from the batch and the flow returns to ConfirmationPending with
// the deduplicated set.
func (f *Flow) CloseWarning() error {
	if f.state != StateDuplicateWarning {
		return ErrInvalidTransition
	}
	deduped := make([]Proposal, 0, len(f.proposals))
	for _, prop := range f.proposals {
		if !f.isDuplicate(prop) {
			deduped = append(deduped, prop)
		}
	}
	f.proposals = deduped
	f.duplicates = nil
	f.state = StateConfirmationPending
	return nil
}

// Cancel abandons the pending confirmation (or warning) and returns to the
// employee selection step.
func (f *Flow) Cancel() error {
	if f.state != StateConfirmationPending && f.state != StateDuplicateWarning {
		return ErrInvalidTransition
	}
	f.proposals = nil
	f.duplicates = nil
	f.state = StateEmployeesSelected
	return nil
}

// Committed closes the flow after a successful commit: everything is
// cleared, including the project selection.
func (f *Flow) Committed() error {
	if f.state != StateConfirmationPending {
		return ErrInvalidTransition
	}
	f.projectID = 0
	f.employeeIDs = nil
	f.proposals = nil
	f.duplicates = nil
	f.state = StateIdle
	return nil
}

func (f *Flow) isDuplicate(prop Proposal) bool {
	for _, dup := range f.duplicates {
		if dup.EmployeeID == prop.EmployeeID && dup.Role == prop.Role {
			return true
		}
	}
	return false
}
