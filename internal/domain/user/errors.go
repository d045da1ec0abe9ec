package user

import "errors"

var (
	ErrAdminPrivilegeRequired  = errors.New("admin privilege required")
	ErrManagerAccessRequired   = errors.New("manager access required")
	ErrStaffAccessRequired     = errors.New("staff access required")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrInvalidRole             = errors.New("invalid role")
	ErrStaffIDRequired         = errors.New("staff ID is required")
	ErrSubDepartmentIDRequired = errors.New("sub-department ID is required")
)
