package user

type Permission string

const (
	// Submissions
	PermissionSubmissionCreate  Permission = "submission.create"
	PermissionSubmissionViewOwn Permission = "submission.view_own"
	PermissionSubmissionViewAll Permission = "submission.view_all"
	PermissionSubmissionVerify  Permission = "submission.verify"

	// Analytics
	PermissionAnalyticsViewOwn  Permission = "analytics.view_own"
	PermissionAnalyticsViewTeam Permission = "analytics.view_team"
	PermissionAnalyticsViewAll  Permission = "analytics.view_all"

	// Responsibilities
	PermissionResponsibilityView Permission = "responsibility.view"

	// Event participants
	PermissionParticipantManage Permission = "participant.manage"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionSubmissionViewAll,
		PermissionSubmissionVerify,
		PermissionAnalyticsViewTeam,
		PermissionAnalyticsViewAll,
		PermissionResponsibilityView,
		PermissionParticipantManage,
	},
	RoleManager: {
		// Manager verifies and views own sub-department
		PermissionSubmissionViewAll,
		PermissionSubmissionVerify,
		PermissionAnalyticsViewTeam,
		PermissionResponsibilityView,
	},
	RoleStaff: {
		PermissionSubmissionCreate,
		PermissionSubmissionViewOwn,
		PermissionAnalyticsViewOwn,
		PermissionResponsibilityView,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
