package assignment

import "time"

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusVerified   Status = "VERIFIED"
	StatusRejected   Status = "REJECTED"
)

// Assignment links one staff member to one responsibility for a cycle
type Assignment struct {
	ID               string
	StaffID          string
	ResponsibilityID string
	SubDepartmentID  string // via responsibility
	Cycle            string // YYYY-MM
	Status           Status
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
