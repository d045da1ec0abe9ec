package submission

import "time"

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusSubmitted Status = "SUBMITTED"
	StatusVerified  Status = "VERIFIED"
	StatusRejected  Status = "REJECTED"
)

// WorkSubmission is one unit of reported work by a staff member against an assignment.
// Responsibility, group and sub-department fields are resolved through the assignment.
type WorkSubmission struct {
	ID                  string
	StaffID             string
	StaffName           string
	AssignmentID        string
	ResponsibilityID    string
	ResponsibilityTitle string
	GroupID             string
	GroupName           string
	SubDepartmentID     string
	Status              Status
	HoursWorked         *float64
	SubmittedAt         time.Time
	WorkDate            *time.Time // calendar date, preferred over SubmittedAt for bucketing
	StaffComment        *string
	ManagerComment      *string
	ProofURL            *string
	VerifiedBy          *string
	VerifiedAt          *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Hours returns hours worked, treating an absent value as zero
func (s WorkSubmission) Hours() float64 {
	if s.HoursWorked == nil {
		return 0
	}
	return *s.HoursWorked
}

// IsVerifiable reports whether a manager can still act on the submission
func (s WorkSubmission) IsVerifiable() bool {
	return s.Status == StatusSubmitted || s.Status == StatusPending || s.Status == ""
}
