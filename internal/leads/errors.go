package leads

import "errors"

var (
	// ErrMissingUserID is returned when the capture request has no user.
	ErrMissingUserID = errors.New("user id is required")

	// ErrInvalidScore is returned when the score is outside 0-100.
	ErrInvalidScore = errors.New("score must be between 0 and 100")

	// ErrLeadNotFound is returned when a lead is not found.
	ErrLeadNotFound = errors.New("lead not found")
)
