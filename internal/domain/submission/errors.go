package submission

import "errors"

var (
	ErrSubmissionNotFound        = errors.New("work submission not found")
	ErrSubmissionAlreadyVerified = errors.New("work submission already verified or rejected")
	ErrRejectionCommentRequired  = errors.New("manager comment is required when rejecting")
	ErrNotAssignmentOwner        = errors.New("assignment does not belong to this staff member")
	ErrVerifyForbidden           = errors.New("not allowed to verify submissions of this sub-department")
	ErrViewForbidden             = errors.New("not allowed to view this submission")
	ErrInvalidProofFile          = errors.New("invalid proof attachment")
)
