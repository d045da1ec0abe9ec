package responsibility

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/responsibility"
	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/user"
)

type ResponsibilityServiceImpl struct {
	responsibility.ResponsibilityRepository
}

func NewResponsibilityService(repo responsibility.ResponsibilityRepository) responsibility.ResponsibilityService {
	return &ResponsibilityServiceImpl{
		ResponsibilityRepository: repo,
	}
}

// List implements responsibility.ResponsibilityService.
func (r *ResponsibilityServiceImpl) List(ctx context.Context, actor user.Actor, filter responsibility.ResponsibilityFilter) ([]responsibility.ResponsibilityResponse, error) {
	if !user.HasPermission(actor.Role, user.PermissionResponsibilityView) {
		return nil, user.ErrInsufficientPermissions
	}

	switch actor.Role {
	case user.RoleStaff:
		if actor.StaffID == "" {
			return nil, user.ErrStaffIDRequired
		}
		filter.StaffID = &actor.StaffID
	case user.RoleManager:
		if actor.SubDepartmentID == "" {
			return nil, user.ErrSubDepartmentIDRequired
		}
		filter.SubDepartmentID = &actor.SubDepartmentID
	}

	if err := filter.Validate(); err != nil {
		return nil, err
	}

	items, err := r.ResponsibilityRepository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list responsibilities: %w", err)
	}

	responses := make([]responsibility.ResponsibilityResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, responsibility.ToResponse(item))
	}
	return responses, nil
}
