package services

import "errors"

// Domain error taxonomy. Handlers translate these to HTTP status codes;
// services return them wrapped or bare and callers match with errors.Is.
var (
	// ErrNotFound marks a missing or invisible resource.
	ErrNotFound = errors.New("resource not found")

	// ErrDuplicateMembership marks a second non-ended membership for the
	// same (project, user) pair.
	ErrDuplicateMembership = errors.New("user already has a membership in this project")

	// ErrInvalidTransition marks a membership state-machine violation, like
	// accepting an already active membership.
	ErrInvalidTransition = errors.New("invalid membership transition")

	// ErrNotEligible marks an assignment attempt for a user without an
	// active membership in the task's project.
	ErrNotEligible = errors.New("user is not an active member of the project")

	// ErrAlreadyAssigned marks a repeated assignment of the same user to the
	// same task.
	ErrAlreadyAssigned = errors.New("user is already assigned to this task")

	// ErrInvalidState marks a mutation of a resource whose lifecycle forbids
	// it, like editing a deleted task.
	ErrInvalidState = errors.New("operation not allowed in current state")

	// ErrUnauthorized marks an actor lacking the capability for an
	// operation.
	ErrUnauthorized = errors.New("operation not permitted")

	// ErrInvalidArgument marks input rejected by domain validation.
	ErrInvalidArgument = errors.New("invalid argument")
)
