package assignment

import "context"

// AnalyticsFilter narrows assignments loaded for aggregation. Empty fields are ignored.
type AnalyticsFilter struct {
	StaffID         string
	SubDepartmentID string
	Cycles          []string
}

// AssignmentRepository - interface for assignments table
type AssignmentRepository interface {
	GetByID(ctx context.Context, id string) (Assignment, error)
	ListForAnalytics(ctx context.Context, filter AnalyticsFilter) ([]Assignment, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
}
