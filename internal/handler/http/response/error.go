package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/analytics"
	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/assignment"
	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/participant"
	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/submission"
	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workboard-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/workboard-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Role errors
	case errors.Is(err, user.ErrAdminPrivilegeRequired),
		errors.Is(err, user.ErrManagerAccessRequired),
		errors.Is(err, user.ErrStaffAccessRequired),
		errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())
	case errors.Is(err, user.ErrStaffIDRequired),
		errors.Is(err, user.ErrSubDepartmentIDRequired),
		errors.Is(err, user.ErrInvalidRole):
		Unauthorized(w, err.Error())

	// Analytics domain errors
	case errors.Is(err, analytics.ErrScopeForbidden):
		Forbidden(w, err.Error())
	case errors.Is(err, analytics.ErrInvalidDateRange),
		errors.Is(err, analytics.ErrRangeTooLarge),
		errors.Is(err, analytics.ErrUnknownSeries),
		errors.Is(err, analytics.ErrUnknownPreset):
		BadRequest(w, err.Error(), nil)

	// Submission domain errors
	case errors.Is(err, submission.ErrSubmissionNotFound):
		NotFound(w, "Work submission not found")
	case errors.Is(err, assignment.ErrAssignmentNotFound):
		NotFound(w, "Assignment not found")
	case errors.Is(err, submission.ErrSubmissionAlreadyVerified):
		Conflict(w, "Work submission already verified or rejected")
	case errors.Is(err, submission.ErrRejectionCommentRequired):
		ValidationError(w, map[string]string{"manager_comment": err.Error()})
	case errors.Is(err, submission.ErrNotAssignmentOwner),
		errors.Is(err, submission.ErrVerifyForbidden),
		errors.Is(err, submission.ErrViewForbidden):
		Forbidden(w, err.Error())
	case errors.Is(err, submission.ErrInvalidProofFile):
		BadRequest(w, err.Error(), nil)

	// Storage errors
	case errors.Is(err, storage.ErrFileTooLarge):
		BadRequest(w, "Proof file is too large", nil)
	case errors.Is(err, storage.ErrFileTypeNotAllowed):
		BadRequest(w, "Proof file type is not allowed", nil)
	case errors.Is(err, storage.ErrInvalidPath):
		BadRequest(w, "Invalid file path", nil)

	// Participant domain errors
	case errors.Is(err, participant.ErrParticipantNotFound):
		NotFound(w, "Participant not found")
	case errors.Is(err, participant.ErrPendingEditNotFound):
		NotFound(w, "Pending edit not found or expired")
	case errors.Is(err, participant.ErrEmailExists):
		Conflict(w, "Email already registered for another participant")
	case errors.Is(err, participant.ErrSiteMismatch):
		Conflict(w, err.Error())
	case errors.Is(err, participant.ErrNoChanges):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
