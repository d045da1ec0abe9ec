package submission

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/workboard-backend-go/internal/pkg/validator"
)

const MaxHoursPerSubmission = 24

// ProofExtensions are the accepted proof attachment types
var ProofExtensions = []string{".pdf", ".jpg", ".jpeg", ".png"}

// CreateSubmissionRequest is sent by a staff member reporting work
type CreateSubmissionRequest struct {
	AssignmentID string   `json:"assignment_id"`
	HoursWorked  *float64 `json:"hours_worked,omitempty"`
	WorkDate     *string  `json:"work_date,omitempty"` // YYYY-MM-DD
	StaffComment *string  `json:"staff_comment,omitempty"`
}

func (r *CreateSubmissionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.AssignmentID) {
		errs.Add("assignment_id", "assignment_id is required")
	}

	if r.HoursWorked != nil {
		if *r.HoursWorked < 0 {
			errs.Add("hours_worked", "hours_worked must not be negative")
		} else if *r.HoursWorked > MaxHoursPerSubmission {
			errs.Add("hours_worked", "hours_worked must not exceed 24")
		}
	}

	if r.WorkDate != nil && *r.WorkDate != "" {
		if _, valid := validator.IsValidDate(*r.WorkDate); !valid {
			errs.Add("work_date", "work_date must be in YYYY-MM-DD format")
		}
	}

	if r.StaffComment != nil && len(*r.StaffComment) > 2000 {
		errs.Add("staff_comment", "staff_comment must not exceed 2000 characters")
	}

	return errs.Err()
}

// ParsedWorkDate returns the work date, or nil when not supplied
func (r *CreateSubmissionRequest) ParsedWorkDate() *time.Time {
	if r.WorkDate == nil || *r.WorkDate == "" {
		return nil
	}
	d, ok := validator.IsValidDate(*r.WorkDate)
	if !ok {
		return nil
	}
	return &d
}

// VerifySubmissionRequest is a manager's decision on a submission
type VerifySubmissionRequest struct {
	Approved       *bool   `json:"approved"`
	ManagerComment *string `json:"manager_comment,omitempty"`
}

func (r *VerifySubmissionRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Approved == nil {
		errs.Add("approved", "approved is required")
	}

	if r.ManagerComment != nil && len(*r.ManagerComment) > 2000 {
		errs.Add("manager_comment", "manager_comment must not exceed 2000 characters")
	}

	return errs.Err()
}

type SubmissionFilter struct {
	StaffID         *string `json:"staff_id,omitempty"`
	SubDepartmentID *string `json:"sub_department_id,omitempty"`
	AssignmentID    *string `json:"assignment_id,omitempty"`
	Status          *string `json:"status,omitempty"`
	StartDate       *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate         *string `json:"end_date,omitempty"`   // YYYY-MM-DD

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // submitted_at, work_date, hours_worked, status
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *SubmissionFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs.Add("limit", "limit must not exceed 100")
	}

	if f.Status != nil && *f.Status != "" {
		validStatuses := []string{string(StatusPending), string(StatusSubmitted), string(StatusVerified), string(StatusRejected)}
		if !validator.IsInSlice(strings.ToUpper(*f.Status), validStatuses) {
			errs.Add("status", "status must be one of: PENDING, SUBMITTED, VERIFIED, REJECTED")
		} else {
			upper := strings.ToUpper(*f.Status)
			f.Status = &upper
		}
	}

	if f.StartDate != nil && *f.StartDate != "" {
		if _, valid := validator.IsValidDate(*f.StartDate); !valid {
			errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		if _, valid := validator.IsValidDate(*f.EndDate); !valid {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		}
	}

	if f.SortBy != "" {
		validSortFields := []string{"submitted_at", "work_date", "hours_worked", "status"}
		if !validator.IsInSlice(f.SortBy, validSortFields) {
			errs.Add("sort_by", "sort_by must be one of: submitted_at, work_date, hours_worked, status")
		}
	} else {
		f.SortBy = "submitted_at"
	}

	if f.SortOrder != "" {
		if !validator.IsInSlice(strings.ToLower(f.SortOrder), []string{"asc", "desc"}) {
			errs.Add("sort_order", "sort_order must be one of: asc, desc")
		} else {
			f.SortOrder = strings.ToLower(f.SortOrder)
		}
	} else {
		f.SortOrder = "desc"
	}

	return errs.Err()
}

type SubmissionResponse struct {
	ID                  string  `json:"id"`
	StaffID             string  `json:"staff_id"`
	StaffName           string  `json:"staff_name,omitempty"`
	AssignmentID        string  `json:"assignment_id"`
	ResponsibilityID    string  `json:"responsibility_id,omitempty"`
	ResponsibilityTitle string  `json:"responsibility_title,omitempty"`
	SubDepartmentID     string  `json:"sub_department_id,omitempty"`
	Status              string  `json:"status"`
	HoursWorked         float64 `json:"hours_worked"`
	WorkDate            *string `json:"work_date,omitempty"`
	SubmittedAt         string  `json:"submitted_at"`
	StaffComment        *string `json:"staff_comment,omitempty"`
	ManagerComment      *string `json:"manager_comment,omitempty"`
	ProofURL            *string `json:"proof_url,omitempty"`
	VerifiedBy          *string `json:"verified_by,omitempty"`
	VerifiedAt          *string `json:"verified_at,omitempty"`
}

type ListSubmissionResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Showing     string               `json:"showing"`
	Submissions []SubmissionResponse `json:"submissions"`
}

// ToResponse maps the entity to its API shape
func ToResponse(s WorkSubmission) SubmissionResponse {
	resp := SubmissionResponse{
		ID:                  s.ID,
		StaffID:             s.StaffID,
		StaffName:           s.StaffName,
		AssignmentID:        s.AssignmentID,
		ResponsibilityID:    s.ResponsibilityID,
		ResponsibilityTitle: s.ResponsibilityTitle,
		SubDepartmentID:     s.SubDepartmentID,
		Status:              string(s.Status),
		HoursWorked:         s.Hours(),
		SubmittedAt:         s.SubmittedAt.Format(time.RFC3339),
		StaffComment:        s.StaffComment,
		ManagerComment:      s.ManagerComment,
		ProofURL:            s.ProofURL,
		VerifiedBy:          s.VerifiedBy,
	}
	if s.WorkDate != nil {
		d := s.WorkDate.Format("2006-01-02")
		resp.WorkDate = &d
	}
	if s.VerifiedAt != nil {
		v := s.VerifiedAt.Format(time.RFC3339)
		resp.VerifiedAt = &v
	}
	return resp
}
