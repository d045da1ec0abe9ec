package submission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/analytics"
	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/assignment"
	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/submission"
	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workboard-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/workboard-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/workboard-backend-go/internal/service/file"
	"github.com/jackc/pgx/v5"
)

type SubmissionServiceImpl struct {
	submissionRepo submission.SubmissionRepository
	assignmentRepo assignment.AssignmentRepository
	tx             database.Transactor
	files          file.FileService
	analytics      analytics.AnalyticsService
	now            func() time.Time
}

func NewSubmissionService(
	submissionRepo submission.SubmissionRepository,
	assignmentRepo assignment.AssignmentRepository,
	tx database.Transactor,
	fileService file.FileService,
	analyticsService analytics.AnalyticsService,
) submission.SubmissionService {
	return &SubmissionServiceImpl{
		submissionRepo: submissionRepo,
		assignmentRepo: assignmentRepo,
		tx:             tx,
		files:          fileService,
		analytics:      analyticsService,
		now:            time.Now,
	}
}

// Create implements submission.SubmissionService.
func (s *SubmissionServiceImpl) Create(ctx context.Context, actor user.Actor, req submission.CreateSubmissionRequest, proof *submission.ProofFile) (submission.SubmissionResponse, error) {
	if !user.HasPermission(actor.Role, user.PermissionSubmissionCreate) {
		return submission.SubmissionResponse{}, user.ErrStaffAccessRequired
	}
	if actor.StaffID == "" {
		return submission.SubmissionResponse{}, user.ErrStaffIDRequired
	}
	if err := req.Validate(); err != nil {
		return submission.SubmissionResponse{}, err
	}

	a, err := s.assignmentRepo.GetByID(ctx, req.AssignmentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return submission.SubmissionResponse{}, assignment.ErrAssignmentNotFound
		}
		return submission.SubmissionResponse{}, fmt.Errorf("failed to get assignment: %w", err)
	}
	if a.StaffID != actor.StaffID {
		return submission.SubmissionResponse{}, submission.ErrNotAssignmentOwner
	}

	var proofKey string
	if proof != nil {
		proofKey, err = s.uploadProof(ctx, actor.StaffID, proof)
		if err != nil {
			return submission.SubmissionResponse{}, err
		}
	}

	record := submission.WorkSubmission{
		StaffID:      actor.StaffID,
		AssignmentID: a.ID,
		Status:       submission.StatusSubmitted,
		HoursWorked:  req.HoursWorked,
		WorkDate:     req.ParsedWorkDate(),
		StaffComment: req.StaffComment,
		SubmittedAt:  s.now(),
	}
	if proofKey != "" {
		url := s.files.FileURL(proofKey)
		record.ProofURL = &url
	}

	var created submission.WorkSubmission
	err = s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.submissionRepo.Create(txCtx, record)
		if err != nil {
			return fmt.Errorf("failed to create work submission: %w", err)
		}

		if a.Status == assignment.StatusPending {
			if err := s.assignmentRepo.UpdateStatus(txCtx, a.ID, assignment.StatusInProgress); err != nil {
				return fmt.Errorf("failed to start assignment: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		if proofKey != "" {
			if delErr := s.files.DeleteFile(context.WithoutCancel(ctx), proofKey); delErr != nil {
				slog.Warn("failed to remove orphaned proof", "key", proofKey, "error", delErr)
			}
		}
		return submission.SubmissionResponse{}, err
	}

	s.analytics.Invalidate(ctx)

	return submission.ToResponse(created), nil
}

func (s *SubmissionServiceImpl) uploadProof(ctx context.Context, staffID string, proof *submission.ProofFile) (string, error) {
	key, err := s.files.UploadProof(ctx, staffID, proof.Content, proof.Filename, proof.Size)
	if err != nil {
		if errors.Is(err, storage.ErrFileTooLarge) || errors.Is(err, storage.ErrFileTypeNotAllowed) {
			return "", fmt.Errorf("%w: %w", submission.ErrInvalidProofFile, err)
		}
		return "", err
	}
	return key, nil
}

// scopeFilter pins a list filter to what the actor may see
func scopeFilter(actor user.Actor, filter *submission.SubmissionFilter) error {
	switch actor.Role {
	case user.RoleStaff:
		if actor.StaffID == "" {
			return user.ErrStaffIDRequired
		}
		filter.StaffID = &actor.StaffID
	case user.RoleManager:
		if actor.SubDepartmentID == "" {
			return user.ErrSubDepartmentIDRequired
		}
		filter.SubDepartmentID = &actor.SubDepartmentID
	case user.RoleAdmin:
	default:
		return user.ErrInsufficientPermissions
	}
	return nil
}

func canView(actor user.Actor, s submission.WorkSubmission) bool {
	switch actor.Role {
	case user.RoleAdmin:
		return true
	case user.RoleManager:
		return actor.SubDepartmentID != "" && actor.SubDepartmentID == s.SubDepartmentID
	case user.RoleStaff:
		return actor.StaffID != "" && actor.StaffID == s.StaffID
	}
	return false
}

// List implements submission.SubmissionService.
func (s *SubmissionServiceImpl) List(ctx context.Context, actor user.Actor, filter submission.SubmissionFilter) (submission.ListSubmissionResponse, error) {
	if err := scopeFilter(actor, &filter); err != nil {
		return submission.ListSubmissionResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return submission.ListSubmissionResponse{}, err
	}

	records, total, err := s.submissionRepo.List(ctx, filter)
	if err != nil {
		return submission.ListSubmissionResponse{}, fmt.Errorf("failed to list work submissions: %w", err)
	}

	responses := make([]submission.SubmissionResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, submission.ToResponse(r))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	showing := fmt.Sprintf("%d-%d of %d", (filter.Page-1)*filter.Limit+1, min(filter.Page*filter.Limit, int(total)), total)
	if total == 0 {
		showing = "0 of 0"
	}

	return submission.ListSubmissionResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  totalPages,
		Showing:     showing,
		Submissions: responses,
	}, nil
}

func (s *SubmissionServiceImpl) load(ctx context.Context, id string) (submission.WorkSubmission, error) {
	record, err := s.submissionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return submission.WorkSubmission{}, submission.ErrSubmissionNotFound
		}
		return submission.WorkSubmission{}, fmt.Errorf("failed to get work submission: %w", err)
	}
	return record, nil
}

// Get implements submission.SubmissionService.
func (s *SubmissionServiceImpl) Get(ctx context.Context, actor user.Actor, id string) (submission.SubmissionResponse, error) {
	record, err := s.load(ctx, id)
	if err != nil {
		return submission.SubmissionResponse{}, err
	}
	if !canView(actor, record) {
		return submission.SubmissionResponse{}, submission.ErrViewForbidden
	}
	return submission.ToResponse(record), nil
}

// Verify implements submission.SubmissionService.
func (s *SubmissionServiceImpl) Verify(ctx context.Context, actor user.Actor, id string, req submission.VerifySubmissionRequest) (submission.SubmissionResponse, error) {
	if !user.HasPermission(actor.Role, user.PermissionSubmissionVerify) {
		return submission.SubmissionResponse{}, user.ErrManagerAccessRequired
	}
	if err := req.Validate(); err != nil {
		return submission.SubmissionResponse{}, err
	}

	approved := *req.Approved
	if !approved && (req.ManagerComment == nil || *req.ManagerComment == "") {
		return submission.SubmissionResponse{}, submission.ErrRejectionCommentRequired
	}

	status, assignmentStatus := submission.StatusRejected, assignment.StatusRejected
	if approved {
		status, assignmentStatus = submission.StatusVerified, assignment.StatusVerified
	}

	var updated submission.WorkSubmission
	err := s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		record, err := s.load(txCtx, id)
		if err != nil {
			return err
		}
		if !actor.CanVerify(record.SubDepartmentID) {
			return submission.ErrVerifyForbidden
		}
		if !record.IsVerifiable() {
			return submission.ErrSubmissionAlreadyVerified
		}

		if err := s.submissionRepo.UpdateVerification(txCtx, id, status, req.ManagerComment, actor.UserID); err != nil {
			// another decision landed between the read above and this write
			if errors.Is(err, pgx.ErrNoRows) {
				return submission.ErrSubmissionAlreadyVerified
			}
			return fmt.Errorf("failed to update work submission: %w", err)
		}
		if err := s.assignmentRepo.UpdateStatus(txCtx, record.AssignmentID, assignmentStatus); err != nil {
			return fmt.Errorf("failed to update assignment status: %w", err)
		}

		updated, err = s.load(txCtx, id)
		return err
	})
	if err != nil {
		return submission.SubmissionResponse{}, err
	}

	s.analytics.Invalidate(ctx)

	slog.Info("work submission verified",
		"submission_id", id,
		"status", string(status),
		"verified_by", actor.UserID,
	)

	return submission.ToResponse(updated), nil
}
