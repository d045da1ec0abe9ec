package submission

import (
	"context"
	"time"
)

// AnalyticsFilter narrows the rows loaded for aggregation.
// Empty fields are ignored. The window is a superset of the requested date range.
type AnalyticsFilter struct {
	StaffID         string
	SubDepartmentID string
	From            *time.Time
	To              *time.Time
}

// SubmissionRepository - interface for work_submissions table
type SubmissionRepository interface {
	Create(ctx context.Context, s WorkSubmission) (WorkSubmission, error)
	GetByID(ctx context.Context, id string) (WorkSubmission, error)
	List(ctx context.Context, filter SubmissionFilter) ([]WorkSubmission, int64, error)
	ListForAnalytics(ctx context.Context, filter AnalyticsFilter) ([]WorkSubmission, error)
	UpdateVerification(ctx context.Context, id string, status Status, managerComment *string, verifiedBy string) error
}
