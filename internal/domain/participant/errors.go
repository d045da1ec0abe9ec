package participant

import "errors"

var (
	ErrParticipantNotFound = errors.New("participant not found")
	ErrEmailExists         = errors.New("participant email already exists")
	ErrSiteMismatch        = errors.New("selected site does not match the participant's site")
	ErrPendingEditNotFound = errors.New("pending edit not found or expired")
	ErrNoChanges           = errors.New("no changes supplied")
)
