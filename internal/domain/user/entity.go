package user

type Role string

const (
	RoleAdmin   Role = "admin"   // Organisation-wide access
	RoleManager Role = "manager" // Verifies submissions of one sub-department
	RoleStaff   Role = "staff"   // Submits work against own assignments
)

// Actor is the authenticated caller as seen by services.
// It is built from JWT claims by the HTTP layer and passed explicitly.
type Actor struct {
	UserID          string
	StaffID         string
	SubDepartmentID string
	Role            Role
}

// IsAdmin checks if actor has organisation-wide access
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// IsManager checks if actor is a manager (admins are not managers)
func (a Actor) IsManager() bool {
	return a.Role == RoleManager
}

// IsStaff checks if actor is a staff member
func (a Actor) IsStaff() bool {
	return a.Role == RoleStaff
}

// CanVerify checks if actor may verify submissions of the given sub-department
func (a Actor) CanVerify(subDepartmentID string) bool {
	if a.IsAdmin() {
		return true
	}
	return a.IsManager() && a.SubDepartmentID != "" && a.SubDepartmentID == subDepartmentID
}

// IsValidRole reports whether r is one of the known roles
func IsValidRole(r string) bool {
	switch Role(r) {
	case RoleAdmin, RoleManager, RoleStaff:
		return true
	}
	return false
}
