package responsibility

import (
	"context"

	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/user"
)

type ResponsibilityService interface {
	// List returns responsibilities visible to the actor
	List(ctx context.Context, actor user.Actor, filter ResponsibilityFilter) ([]ResponsibilityResponse, error)
}
