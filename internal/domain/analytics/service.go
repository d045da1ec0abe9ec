package analytics

import (
	"context"

	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/user"
)

// AnalyticsService defines the interface for submission analytics
type AnalyticsService interface {
	// GetAnalytics loads records visible to the actor and aggregates them for the requested scope
	GetAnalytics(ctx context.Context, actor user.Actor, req AnalyticsRequest) (*AnalyticsResponse, error)

	// Compute aggregates caller-supplied records without touching storage
	Compute(ctx context.Context, req ComputeRequest) (*AnalyticsResponse, error)

	// Invalidate drops cached analytics after submissions change
	Invalidate(ctx context.Context)
}
