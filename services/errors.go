package services

import "errors"

// Shared service-level errors, mapped to HTTP statuses in handlers.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules
	ErrValidationFailed    = errors.New("validation failed")
	ErrPasswordTooShort    = errors.New("password is too short")
	ErrGroupNameRequired   = errors.New("group name is required")
	ErrInvalidScoreline    = errors.New("scoreline goals must be non-negative")
	ErrMatchAlreadyStarted = errors.New("match has already started")
	ErrMatchNotTippable    = errors.New("match cannot be tipped")
	ErrNotGroupMember      = errors.New("user is not a member of the group")
	ErrAlreadyGroupMember  = errors.New("user is already a member of the group")

	// Conflicts
	ErrUserEmailConflict = errors.New("email address is already in use")
	ErrGroupNameConflict = errors.New("group name is already in use")
	ErrTipConflict       = errors.New("match has already been tipped in this group")

	// Authentication and authorization
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")

	// Entity-specific not-found errors
	ErrUserNotFound  = errors.New("user not found")
	ErrGroupNotFound = errors.New("group not found")
	ErrMatchNotFound = errors.New("match not found")
	ErrTipNotFound   = errors.New("tip not found")

	// Batch recomputation
	ErrRecomputeAlreadyRunning = errors.New("a recompute run is already in progress")
)
