package domain

import "errors"

// Sentinel errors shared across services. Controllers map these to HTTP codes.
var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when the requester lacks the ownership or
	// applicant relationship required for the action.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidInput is returned when the request is malformed or missing
	// required fields.
	ErrInvalidInput = errors.New("invalid input")

	// ErrOpportunityNotAvailable is returned when applying to an opportunity
	// that does not exist or is not active.
	ErrOpportunityNotAvailable = errors.New("opportunity not available")

	// ErrInvalidStatusForRole is returned when the requested target status is
	// outside the set permitted for the requester's relationship.
	ErrInvalidStatusForRole = errors.New("invalid status for role")

	// ErrInvalidTransition is returned when the requested transition is not
	// reachable from the application's current stored status. Callers should
	// re-fetch before retrying with corrected intent.
	ErrInvalidTransition = errors.New("invalid status transition")
)
